// Package tracing adds OpenTracing spans around the aggregate runtime and
// projection driver, generalizing looplab/eventhorizon's tracing package
// (commandhandler.go, eventstore/tracing) from its own Command/EventStore
// interfaces to this module's generic Runtime and Advance. It adds no
// domain behavior — the core interpreter stays free of I/O per spec §5 —
// and is never imported by flow, dsl, aggregate or projection themselves.
package tracing

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/aggregate"
	"github.com/flowstate/flowstate/eventstore"
)

// Runtime wraps an *aggregate.Runtime[C,E], starting a span named after
// the aggregate's tag around every ApplyCommand call.
type Runtime[C, E any] struct {
	*aggregate.Runtime[C, E]
	tag flowstate.Tag
}

// NewRuntime wraps rt for tracing. tag is used only for the span name and
// the eh.aggregate_type-style tag.
func NewRuntime[C, E any](rt *aggregate.Runtime[C, E], tag flowstate.Tag) *Runtime[C, E] {
	return &Runtime[C, E]{Runtime: rt, tag: tag}
}

// ApplyCommand wraps aggregate.Runtime.ApplyCommand with a span.
func (r *Runtime[C, E]) ApplyCommand(ctx context.Context, store eventstore.EventStore[E], id flowstate.AggregateID, cmd C) (flowstate.VersionedEvents[E], error) {
	opName := fmt.Sprintf("Aggregate(%s).ApplyCommand", r.tag)
	sp, ctx := opentracing.StartSpanFromContext(ctx, opName)
	defer sp.Finish()

	versioned, err := r.Runtime.ApplyCommand(ctx, store, id, cmd)

	sp.SetTag("flowstate.tag", r.tag.String())
	sp.SetTag("flowstate.aggregate_id", id.String())
	sp.SetTag("flowstate.events_appended", len(versioned.Events))
	if err != nil {
		ext.LogError(sp, err)
	}
	return versioned, err
}
