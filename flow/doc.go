// Package flow implements the free-structured Flow AST and its compiler.
//
// A Flow is a program built from two primitives: InstallHandler, which sets
// the command handler currently in force, and WaitFor, which suspends
// until a matching event is observed and resumes a continuation with the
// matched value. There is no explicit monadic bind operator — Go
// continuations are ordinary closures, so sequencing a Flow is just
// nesting the next Flow inside WaitFor's continuation function.
//
// Compile turns a Flow into a StreamConsumer: a lazy state machine that
// advances one event at a time. The same compiled consumer is replayed
// against every persisted event to rebuild an aggregate's current state,
// and then used live to decide whether a command is matched.
package flow
