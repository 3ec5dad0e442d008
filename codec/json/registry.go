package json

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/flowstate/flowstate"
)

// EventType discriminates one concrete event payload type within a tag's
// polymorphic stream, the way looplab/eventhorizon's EventType discriminates
// which concrete struct eh.CreateEventData allocates before unmarshaling.
type EventType string

// envelope is the on-wire wrapper TaggedCodec reads and writes, matching
// looplab/eventhorizon codec/json's evt{EventType, RawData} shape.
type envelope struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Registry maps an EventType name to a factory for its concrete Go type.
// TaggedCodec uses a Registry to decode a tag whose stream carries more
// than one concrete event type, something plain EventCodec[any] cannot do
// (json.Unmarshal into a bare *any produces a map, never the original
// struct).
type Registry struct {
	factories map[EventType]func() any
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[EventType]func() any)}
}

// Register adds E to r under the EventType derived from E's own type name —
// the same name Encode writes for a value of type E.
func Register[E any](r *Registry) {
	name := eventTypeOf(reflect.TypeFor[E]())
	r.factories[name] = func() any {
		var e E
		return &e
	}
}

func eventTypeOf(t reflect.Type) EventType {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return EventType(t.Name())
}

// TaggedCodec implements flowstate.EventCodec[any] over a Registry: Encode
// wraps a concrete event value in an envelope discriminated by its type
// name, and Decode looks that name up in the registry to allocate the
// right concrete type before unmarshaling into it. Use TaggedCodec instead
// of the plain EventCodec[any] whenever a tag's stream can carry more than
// one concrete event type under the erased-to-any convention dsl and flow
// use.
type TaggedCodec struct {
	reg *Registry
}

// NewTaggedCodec builds a TaggedCodec backed by reg. reg must have every
// concrete event type the resulting codec will ever be asked to Decode
// registered via Register before Decode is called.
func NewTaggedCodec(reg *Registry) TaggedCodec {
	return TaggedCodec{reg: reg}
}

// Encode implements flowstate.EventCodec[any].
func (c TaggedCodec) Encode(event any) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("codec/json: encode: %w", err)
	}
	b, err := json.Marshal(envelope{Type: eventTypeOf(reflect.TypeOf(event)), Data: data})
	if err != nil {
		return "", fmt.Errorf("codec/json: encode envelope: %w", err)
	}
	return string(b), nil
}

// Decode implements flowstate.EventCodec[any]. It returns
// flowstate.ErrDecodingFailure if the envelope is malformed or names an
// EventType that was never registered.
func (c TaggedCodec) Decode(raw string) (any, error) {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, flowstate.NewDecodingFailureError("", "", err)
	}

	factory, ok := c.reg.factories[env.Type]
	if !ok {
		return nil, flowstate.NewDecodingFailureError("", "", fmt.Errorf("codec/json: no event type registered for %q", env.Type))
	}

	ptr := factory()
	if err := json.Unmarshal(env.Data, ptr); err != nil {
		return nil, flowstate.NewDecodingFailureError("", "", err)
	}
	return reflect.ValueOf(ptr).Elem().Interface(), nil
}
