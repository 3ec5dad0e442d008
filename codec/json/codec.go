// Package json is a reference flowstate.EventCodec[E] implementation using
// encoding/json, grounded on looplab/eventhorizon's codec/json package.
// EventCodec needs no event-type registry: E is a concrete Go type fixed by
// the caller's generic instantiation, so json.Unmarshal already knows what
// to decode into. EventCodec[any] therefore cannot decode a stream that
// carries more than one concrete type; TaggedCodec, backed by a Registry
// (registry.go), covers that case.
package json

import (
	"encoding/json"
	"fmt"

	"github.com/flowstate/flowstate"
)

// EventCodec marshals and unmarshals events of type E as JSON text.
type EventCodec[E any] struct{}

// Encode implements flowstate.EventCodec[E].
func (EventCodec[E]) Encode(event E) (string, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("codec/json: encode: %w", err)
	}
	return string(b), nil
}

// Decode implements flowstate.EventCodec[E]. On malformed input it returns
// flowstate.ErrDecodingFailure wrapped with the underlying json error.
func (EventCodec[E]) Decode(raw string) (E, error) {
	var event E
	if err := json.Unmarshal([]byte(raw), &event); err != nil {
		return event, flowstate.NewDecodingFailureError("", "", err)
	}
	return event, nil
}
