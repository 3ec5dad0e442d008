// Package memory is an in-memory reference and test-fixture implementation
// of eventstore.EventStore and eventstore.OperationLog. It is grounded on
// looplab/eventhorizon's eventstore/memory package but adds the dense
// per-aggregate versioning and global operation log spec §4.4 requires,
// neither of which looplab/eventhorizon's Save/Load pair needed.
//
// This package is never imported by flow, dsl, aggregate or projection —
// spec.md §1 places concrete storage backends out of this module's core
// scope. It exists so the core packages have something real to run their
// tests and examples against.
package memory

import (
	"context"
	"sync"

	"github.com/flowstate/flowstate"
	jsoncodec "github.com/flowstate/flowstate/codec/json"
	"github.com/flowstate/flowstate/eventstore"
)

// StoreConfig configures an EventStore[E]. Codec encodes every appended
// event into the raw payload the operation log carries (spec §9: "erased
// byte payloads in the log"). It is never used to decode: ReadEvents
// serves a stream's own events straight out of memory, never through Codec
// — only the operation log crosses the raw-bytes boundary a projection's
// Advance later decodes.
//
// DefaultStoreConfig's Codec is the plain jsoncodec.EventCodec[E], sound
// only when E is a single concrete Go type. A caller instantiating
// EventStore[any] to hold more than one concrete event type under one tag
// (the dsl package's usual erasure convention) must supply a
// jsoncodec.TaggedCodec of its own, built from a Registry with every
// concrete type Register-ed — see codec/json.NewTaggedCodec.
type StoreConfig[E any] struct {
	// Log receives Debug/Info/Error calls for append and conflict events.
	Log flowstate.Logger
	// Codec encodes appended events for the operation log.
	Codec flowstate.EventCodec[E]
}

// DefaultStoreConfig returns a StoreConfig with a no-op logger and the
// plain JSON codec for E, mirroring the DefaultXConfig idiom used
// throughout the rest of this module.
func DefaultStoreConfig[E any]() StoreConfig[E] {
	return StoreConfig[E]{Log: flowstate.NoOpLogger{}, Codec: jsoncodec.EventCodec[E]{}}
}

type stream[E any] struct {
	version int
	events  []flowstate.EventData[E]
}

// EventStore is an in-memory EventStore[E] and OperationLog, safe for
// concurrent use. Versions within a stream are dense starting at 1; opNr
// in the global log is strictly increasing and dense across all streams
// the store has ever appended to.
type EventStore[E any] struct {
	cfg StoreConfig[E]

	mu      sync.Mutex
	streams map[flowstate.AggregateID]*stream[E]
	global  []eventstore.GlobalEvent
	nextOp  int
}

// New builds an empty EventStore with cfg. Pass DefaultStoreConfig[E]() for
// the common case where E is a single concrete event type.
func New[E any](cfg StoreConfig[E]) *EventStore[E] {
	if cfg.Log == nil {
		cfg.Log = flowstate.NoOpLogger{}
	}
	if cfg.Codec == nil {
		cfg.Codec = jsoncodec.EventCodec[E]{}
	}
	return &EventStore[E]{
		cfg:     cfg,
		streams: make(map[flowstate.AggregateID]*stream[E]),
	}
}

// ReadEvents implements eventstore.EventStore[E].
func (s *EventStore[E]) ReadEvents(_ context.Context, _ flowstate.Tag, id flowstate.AggregateID, afterVersion int) (eventstore.ReadResponse[E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[id]
	if !ok {
		// spec.md §9 Open Question, resolved: a never-written aggregate is
		// Ok(lastVersion=0), never ErrorDoesNotExist.
		return eventstore.ReadResponse[E]{LastVersion: 0, EndOfStream: true}, nil
	}

	var out []flowstate.EventData[E]
	for _, ed := range st.events {
		if ed.Version > afterVersion {
			out = append(out, ed)
		}
	}
	return eventstore.ReadResponse[E]{LastVersion: st.version, Events: out, EndOfStream: true}, nil
}

// AppendEvents implements eventstore.EventStore[E]. It rejects the call
// with flowstate.ErrUnexpectedVersion if the stream's current version does
// not equal expectedVersion, matching spec §4.4's optimistic concurrency
// rule exactly (no partial append on conflict). Every event is also
// encoded through cfg.Codec for the operation log entry; an encode failure
// fails the whole call before anything is stored.
func (s *EventStore[E]) AppendEvents(_ context.Context, tag flowstate.Tag, id flowstate.AggregateID, expectedVersion int, events []E) (flowstate.VersionedEvents[E], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.streams[id]
	if !ok {
		st = &stream[E]{}
		s.streams[id] = st
	}

	if st.version != expectedVersion {
		s.cfg.Log.Error(context.Background(), "eventstore/memory: optimistic concurrency conflict", "tag", tag, "id", id, "expected", expectedVersion, "actual", st.version)
		return flowstate.VersionedEvents[E]{}, flowstate.NewUnexpectedVersionError(tag, id, expectedVersion, st.version)
	}
	if len(events) == 0 {
		return flowstate.VersionedEvents[E]{}, nil
	}

	raws := make([]string, len(events))
	for i, payload := range events {
		raw, err := s.cfg.Codec.Encode(payload)
		if err != nil {
			return flowstate.VersionedEvents[E]{}, flowstate.NewDbFailureError("AppendEvents", tag, id, err)
		}
		raws[i] = raw
	}

	firstVersion := st.version + 1
	for i, payload := range events {
		ed := flowstate.EventData[E]{
			Tag:         tag,
			AggregateID: id,
			Version:     firstVersion + i,
			Payload:     payload,
		}
		st.events = append(st.events, ed)
		st.version = ed.Version

		s.nextOp++
		s.global = append(s.global, eventstore.GlobalEvent{
			OpNr:        s.nextOp,
			Tag:         tag,
			AggregateID: id,
			Version:     ed.Version,
			Raw:         raws[i],
		})
	}

	s.cfg.Log.Info(context.Background(), "eventstore/memory: appended events", "tag", tag, "id", id, "count", len(events), "version", st.version)

	return flowstate.VersionedEvents[E]{Version: firstVersion, Events: events}, nil
}

// ReadFrom implements eventstore.OperationLog.
func (s *EventStore[E]) ReadFrom(_ context.Context, afterOpNr int, limit int) ([]eventstore.GlobalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []eventstore.GlobalEvent
	for _, ge := range s.global {
		if ge.OpNr <= afterOpNr {
			continue
		}
		out = append(out, ge)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
