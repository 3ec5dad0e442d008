package flowstate

// EventCodec is the bidirectional text encoding contract for one user event
// type. Implementations must be a total round trip on valid input:
// Decode(Encode(e)) == e. A concrete codec instance for a specific event
// type is an external collaborator (spec §1) — this module only defines
// the contract and ships a generic JSON-based reference implementation in
// the codec/json subpackage.
type EventCodec[E any] interface {
	// Encode serializes an event payload to its wire text form.
	Encode(event E) (string, error)
	// Decode parses the wire text form back into an event payload. On
	// failure it returns an error wrapping ErrDecodingFailure (see
	// NewDecodingFailureError).
	Decode(raw string) (E, error)
}
