// Package dsl implements the declarative surface syntax described in
// spec §4.2:
//
//	handler( clause, clause, ... )
//	clause  := when[C](pred?).guard(p,msg)*.emit<action>.switch(next)?
//
// Each clause pairs a command matcher (and its guards and emit action)
// with an optional event matcher that advances the flow once the emitted
// event is observed. Handler desugars a list of clauses into one
// flow.InstallHandler node followed by one flow.WaitFor node, exactly as
// spec §4.2 specifies: the command handler is the left-to-right orElse of
// each clause's command handler, and the event matcher is the
// left-to-right orElse of each clause's event matcher.
//
// Go cannot add new type parameters to a method, so the part of the
// grammar that changes type — "emit[E]" moving from a command type to an
// event type — is expressed as free functions (Emit, EmitLiteral,
// EmitEvent, EmitEvents) rather than further chained methods.
package dsl
