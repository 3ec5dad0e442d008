// Package eventstore defines the storage contract the aggregate runtime and
// the projection driver are written against (spec §4.4): append-only,
// per-aggregate ordered streams with optimistic concurrency, plus a global
// operation log for cross-aggregate ordering. No concrete backend lives
// here — eventstore/memory is a reference/test adapter only.
package eventstore

import (
	"context"

	"github.com/flowstate/flowstate"
)

// ReadResponse is the result of reading one aggregate's stream.
type ReadResponse[E any] struct {
	// LastVersion is the stream's current version (that of its last
	// event, whether or not afterVersion left it in Events), or 0 if the
	// aggregate has never been written to.
	LastVersion int
	// Events are the decoded events, in version order.
	Events []flowstate.EventData[E]
	// EndOfStream is true when no more events exist past LastVersion as of
	// the read. Backends that cannot cheaply distinguish this may always
	// report true.
	EndOfStream bool
}

// EventStore is the per-aggregate-type storage contract (spec §4.4).
// Implementations must assign dense, strictly increasing versions starting
// at 1 within a stream and must reject an AppendEvents call whose
// expectedVersion does not match the stream's current version with
// flowstate.ErrUnexpectedVersion.
type EventStore[E any] interface {
	// ReadEvents returns every event for id at version > afterVersion, in
	// order. A never-written aggregate yields a ReadResponse with
	// LastVersion 0, no events, EndOfStream true and no error (spec.md §9 Open Question,
	// resolved: missing aggregate is Ok(lastVersion=0), not
	// ErrorDoesNotExist).
	ReadEvents(ctx context.Context, tag flowstate.Tag, id flowstate.AggregateID, afterVersion int) (ReadResponse[E], error)

	// AppendEvents appends events to id's stream, failing with
	// flowstate.ErrUnexpectedVersion if the stream's current version is
	// not expectedVersion. On success the events occupy versions
	// expectedVersion+1 .. expectedVersion+len(events).
	AppendEvents(ctx context.Context, tag flowstate.Tag, id flowstate.AggregateID, expectedVersion int, events []E) (flowstate.VersionedEvents[E], error)
}

// GlobalEvent is one entry of the OperationLog: an event's raw encoded
// payload together with the strictly increasing operation number assigned
// to it at append time (spec §4.4, §4.5 — the ordering a projection driver
// folds over). The operation log crosses aggregate (and event-type)
// boundaries, so unlike EventStore[E]'s per-aggregate ReadEvents it cannot
// be generic over one decoded Go type; it carries Raw exactly as a codec
// encoded it, matching spec §9's "erased byte payloads in the log" design
// note. A projection's Advance decodes each entry through the codec
// registered for its Tag before a handler ever sees it.
type GlobalEvent struct {
	OpNr        int
	Tag         flowstate.Tag
	AggregateID flowstate.AggregateID
	Version     int
	Raw         string
}

// OperationLog is the cross-aggregate, strictly ordered view of everything
// ever appended to an EventStore, used to drive projections (spec §4.5).
// OpNr values are strictly increasing and never reused, but are not
// required to be dense.
type OperationLog interface {
	// ReadFrom returns every GlobalEvent with OpNr > afterOpNr, in OpNr
	// order, up to limit entries (0 meaning no limit).
	ReadFrom(ctx context.Context, afterOpNr int, limit int) ([]GlobalEvent, error)
}
