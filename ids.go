// Package flowstate provides the core contracts of a flow-compiled event
// sourcing runtime: identifiers, the error taxonomy, the event codec
// contract and a minimal logging seam. The compiler and interpreter for the
// flow itself live in the flow and dsl subpackages; the store and
// projection contracts live in eventstore and projection.
package flowstate

import (
	"regexp"

	"github.com/google/uuid"
)

// AggregateID is an opaque, non-empty identifier for one aggregate
// instance.
type AggregateID string

// Tag names an aggregate type. Tags must be unique per aggregate type
// within a store.
type Tag string

// String implements fmt.Stringer.
func (id AggregateID) String() string { return string(id) }

// String implements fmt.Stringer.
func (t Tag) String() string { return string(t) }

// Empty reports whether the id carries no value.
func (id AggregateID) Empty() bool { return id == "" }

// Empty reports whether the tag carries no value.
func (t Tag) Empty() bool { return t == "" }

// NewAggregateID mints a new random aggregate id.
func NewAggregateID() AggregateID {
	return AggregateID(uuid.NewString())
}

var tagSanitizer = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeTag strips any character outside [A-Za-z0-9_.-] from a
// type-name-derived tag string, per spec.
func SanitizeTag(raw string) Tag {
	return Tag(tagSanitizer.ReplaceAllString(raw, ""))
}

// TagOf derives a Tag from a Go type's name using SanitizeTag. It is a
// convenience for aggregate authors who want the tag auto-derived rather
// than declared explicitly.
func TagOf(typeName string) Tag {
	return SanitizeTag(typeName)
}
