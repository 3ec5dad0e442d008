// Package aggregate implements the runtime described in spec §4.3: given
// an aggregate Definition (its tag, initial handler and Flow), HandleCommand
// folds an already-loaded stream through the compiled consumer, applies a
// command to the resulting command handler, and returns the events to
// append. ApplyCommand wraps it with the load and the append.
//
// The runtime itself performs no I/O and holds no state between calls —
// it is handed an already-loaded stream and returns events to append, the
// way spec §5 requires ("a pure function from state to state-plus-result").
// Loading and appending are the caller's (or a thin adapter's) job, driven
// through the eventstore package's EventStore contract.
package aggregate
