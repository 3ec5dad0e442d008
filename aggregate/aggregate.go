package aggregate

import (
	"context"

	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/eventstore"
	"github.com/flowstate/flowstate/flow"
)

// Definition is the static description of one aggregate type: its tag, the
// command handler to install before any event has been observed, and the
// compiled Flow that governs how handlers come and go as events arrive
// (spec §4.3).
type Definition[C, E any] struct {
	Tag            flowstate.Tag
	InitialHandler flow.CommandHandler[C, E]
	Flow           flow.Flow[C, E]
}

// Runtime replays and applies commands against one Definition. It performs
// no I/O itself; HandleCommand is a pure function from a loaded stream and
// a command to the events to append, matching spec §5's layering (the
// interpreter never touches a store or a codec).
type Runtime[C, E any] struct {
	def Definition[C, E]
	log flowstate.Logger
}

// New builds a Runtime for def. log may be nil, defaulting to
// flowstate.NoOpLogger (spec §2.1 ambient logging seam).
func New[C, E any](def Definition[C, E], log flowstate.Logger) *Runtime[C, E] {
	return &Runtime[C, E]{def: def, log: flowstate.Log(log)}
}

// InitialState returns the StreamConsumer an aggregate instance starts in,
// before any event has been folded into it.
func (r *Runtime[C, E]) InitialState() *flow.StreamConsumer[C, E] {
	return flow.Compile(r.def.InitialHandler, r.def.Flow)
}

// Replay folds history into the initial state, producing the
// StreamConsumer an aggregate is in after having observed events, in
// order. Replay is deterministic: folding the same events in the same
// order always yields a consumer with the same current handler (spec §8
// property 1).
func (r *Runtime[C, E]) Replay(events []E) *flow.StreamConsumer[C, E] {
	return flow.Fold(r.InitialState(), events)
}

// HandleCommand replays priorEvents to reach the aggregate's current
// state, then applies cmd against the resulting command handler.
//
// It returns flowstate.ErrCannotFindHandler (wrapped with the aggregate's
// tag and id) when no installed handler matches cmd at the reached state.
// When a matching handler's guards rejected cmd, it returns a nil error and
// a result whose Failures() holds the flowstate.CommandFailure. Neither
// case is a storage error: both are ordinary, expected
// outcomes of a HandleCommand call and the caller decides what to do with
// them.
func (r *Runtime[C, E]) HandleCommand(ctx context.Context, id flowstate.AggregateID, priorEvents []E, cmd C) (flowstate.CommandHandlerResult[E], error) {
	sc := r.Replay(priorEvents)
	if sc == nil {
		r.log.Debug(ctx, "aggregate: flow terminated before command handling", "tag", r.def.Tag, "id", id)
		return flowstate.CommandHandlerResult[E]{}, flowstate.NewCannotFindHandlerError(r.def.Tag, id)
	}

	result, ok := sc.CurrentCommandHandler(cmd)
	if !ok {
		r.log.Debug(ctx, "aggregate: no handler matched command", "tag", r.def.Tag, "id", id)
		return flowstate.CommandHandlerResult[E]{}, flowstate.NewCannotFindHandlerError(r.def.Tag, id)
	}
	if !result.Ok() {
		r.log.Debug(ctx, "aggregate: command rejected by guard", "tag", r.def.Tag, "id", id, "failures", result.Failures())
		return result, nil
	}
	return result, nil
}

// ApplyCommand loads id's stream through store at the versions needed to
// reach current state, calls HandleCommand, and appends the resulting
// events with an optimistic-concurrency check against the version the
// stream was read at. It is the thin I/O-performing convenience built on
// top of the pure HandleCommand, following looplab/eventhorizon's
// commandhandler/aggregate load-handle-save shape.
//
// Callers that need custom loading (e.g. a snapshot store, a cached
// in-process aggregate) should call HandleCommand directly instead.
func (r *Runtime[C, E]) ApplyCommand(ctx context.Context, store eventstore.EventStore[E], id flowstate.AggregateID, cmd C) (flowstate.VersionedEvents[E], error) {
	read, err := store.ReadEvents(ctx, r.def.Tag, id, 0)
	if err != nil {
		return flowstate.VersionedEvents[E]{}, err
	}

	priorEvents := make([]E, len(read.Events))
	for i, ed := range read.Events {
		priorEvents[i] = ed.Payload
	}

	result, err := r.HandleCommand(ctx, id, priorEvents, cmd)
	if err != nil {
		return flowstate.VersionedEvents[E]{}, err
	}
	if !result.Ok() {
		return flowstate.VersionedEvents[E]{}, result.Err()
	}
	if len(result.Events()) == 0 {
		return flowstate.VersionedEvents[E]{}, nil
	}

	versioned, err := store.AppendEvents(ctx, r.def.Tag, id, read.LastVersion, result.Events())
	if err != nil {
		r.log.Error(ctx, "aggregate: append failed", "tag", r.def.Tag, "id", id, "err", err)
		return flowstate.VersionedEvents[E]{}, err
	}
	r.log.Info(ctx, "aggregate: command applied", "tag", r.def.Tag, "id", id, "events", len(versioned.Events))
	return versioned, nil
}
