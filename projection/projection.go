// Package projection folds a store's cross-aggregate operation log into
// read-model state (spec §4.5): a Projection tracks a monotonically
// advancing cursor into the log plus arbitrary projected data, and Advance
// decodes and applies newly observed events to that data by routing each
// to the Handlers registered for its aggregate Tag.
package projection

import (
	"context"
	"errors"

	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/eventstore"
)

// Handler applies one event to a projection's data, returning the updated
// data. Spec §4.5 models handlers as pure (D, EventData<E>) -> D; this
// contract additionally returns an error so a handler can report a
// programming-bug-level mismatch (e.g. the wrong concrete type erased
// behind the decoded payload) without panicking, matching this module's
// error-is-a-value idiom elsewhere.
//
// A Handler is always erased to EventData[any]: the operation log Advance
// reads from is itself erased (spec §9: "erased byte payloads in the
// log"), so by the time a handler runs, decode has already produced
// whatever concrete Go value the tag's registered Decoder returned.
type Handler[D any] func(D, flowstate.EventData[any]) (D, error)

// HandlerFor builds a Handler that only applies when the decoded payload
// is concretely Evt. It is a no-op for any other payload reaching it, so a
// projection with one TaggedHandler per concrete event type per tag reads
// naturally.
func HandlerFor[D, Evt any](f func(D, Evt) (D, error)) Handler[D] {
	return func(d D, ed flowstate.EventData[any]) (D, error) {
		evt, ok := ed.Payload.(Evt)
		if !ok {
			return d, nil
		}
		return f(d, evt)
	}
}

// TaggedHandler pairs a Handler with the aggregate Tag it should receive
// events for (spec §3: `Projection<D>.handlers: [(Tag, Consumer<D>)]`).
type TaggedHandler[D any] struct {
	Tag     flowstate.Tag
	Handler Handler[D]
}

// Decoder turns one operation log entry's raw payload into the decoded
// value a Handler expects, or returns an error wrapping
// flowstate.ErrDecodingFailure on malformed input (spec §4.5: "fetch the
// raw event payload ...; decode").
type Decoder func(raw string) (any, error)

// DecoderFor builds a Decoder from an flowstate.EventCodec[E], the way a
// single-concrete-type tag's stream is normally decoded. For a tag whose
// stream carries more than one concrete event type, pass a
// codec/json.TaggedCodec instead, which already implements
// flowstate.EventCodec[any].
func DecoderFor[E any](codec flowstate.EventCodec[E]) Decoder {
	return func(raw string) (any, error) {
		return codec.Decode(raw)
	}
}

// Projection is one read model's state together with its replay position.
type Projection[D any] struct {
	// Name identifies the projection for logging; it has no effect on
	// Advance's behavior.
	Name string
	// Cursor is the OpNr of the last event this projection has applied. 0
	// means the projection has never advanced.
	Cursor int
	// Data is the projected read model.
	Data D
	// Handlers are tried, in order, against every event observed past
	// Cursor whose Tag matches (spec §4.5: "find all handlers whose tag
	// equals the entry's tag").
	Handlers []TaggedHandler[D]
	// Decoders maps each Tag a Handler is registered for to the Decoder
	// that turns its raw operation log payload back into a Go value.
	// Advance decodes every entry it reads, whether or not a Handler is
	// registered for its Tag, so every Tag that appears in the log needs
	// an entry here: an entry whose Tag has no Decoder makes Advance fail
	// with flowstate.ErrDecodingFailure.
	Decoders map[flowstate.Tag]Decoder
}

// DriverConfig configures Advance. The zero value reads everything
// available and logs nothing; DefaultDriverConfig caps each call at 100
// entries.
type DriverConfig struct {
	// BatchSize caps how many operation log entries one Advance call reads.
	// 0 means read everything currently available.
	BatchSize int
	// Log receives Debug/Info/Error calls as Advance runs.
	Log flowstate.Logger
}

// DefaultDriverConfig returns the ProcessorConfig-style default: a
// moderate batch size and no-op logging.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{BatchSize: 100, Log: flowstate.NoOpLogger{}}
}

// Advance reads up to cfg.BatchSize events past p.Cursor from log, in
// OpNr order. For each entry it looks up the Decoder registered for the
// entry's Tag, decodes the raw payload, and routes the decoded value to
// every TaggedHandler whose Tag matches, advancing p.Cursor as it goes. It
// returns the updated Projection.
//
// A decode failure surfaces as an error wrapping flowstate.ErrDecodingFailure
// and the cursor is not advanced past that entry (spec §4.5); likewise a
// failed handler stops Advance immediately. Either way Advance returns the
// Projection as it stood after the last successfully applied event, so a
// retried Advance resumes exactly where it left off rather than
// reprocessing or skipping events (spec §8 property 6). Handler delivery
// order equals global OpNr order regardless of aggregate boundaries (spec
// §8 property 7).
func Advance[D any](ctx context.Context, log eventstore.OperationLog, cfg DriverConfig, p Projection[D]) (Projection[D], error) {
	if cfg.Log == nil {
		cfg.Log = flowstate.NoOpLogger{}
	}

	events, err := log.ReadFrom(ctx, p.Cursor, cfg.BatchSize)
	if err != nil {
		cfg.Log.Error(ctx, "projection: failed to read operation log", "projection", p.Name, "err", err)
		return p, err
	}
	if len(events) == 0 {
		return p, nil
	}

	for _, ge := range events {
		decode, ok := p.Decoders[ge.Tag]
		if !ok {
			err := flowstate.NewDecodingFailureError(ge.Tag, ge.AggregateID, errors.New("no decoder registered for tag"))
			cfg.Log.Error(ctx, "projection: no decoder for tag", "projection", p.Name, "tag", ge.Tag, "opNr", ge.OpNr)
			return p, err
		}

		payload, err := decode(ge.Raw)
		if err != nil {
			if !errors.Is(err, flowstate.ErrDecodingFailure) {
				err = flowstate.NewDecodingFailureError(ge.Tag, ge.AggregateID, err)
			}
			cfg.Log.Error(ctx, "projection: decode failed", "projection", p.Name, "tag", ge.Tag, "opNr", ge.OpNr, "err", err)
			return p, err
		}
		ed := flowstate.EventData[any]{Tag: ge.Tag, AggregateID: ge.AggregateID, Version: ge.Version, Payload: payload}

		data := p.Data
		for _, th := range p.Handlers {
			if th.Tag != ge.Tag {
				continue
			}
			data, err = th.Handler(data, ed)
			if err != nil {
				cfg.Log.Error(ctx, "projection: handler failed", "projection", p.Name, "tag", ge.Tag, "opNr", ge.OpNr, "err", err)
				return p, err
			}
		}
		p.Data = data
		p.Cursor = ge.OpNr
	}

	cfg.Log.Debug(ctx, "projection: advanced", "projection", p.Name, "cursor", p.Cursor, "applied", len(events))
	return p, nil
}
