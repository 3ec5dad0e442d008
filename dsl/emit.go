package dsl

import "github.com/flowstate/flowstate/flow"

// ActionClause is a clause whose command side is fully built: it knows how
// to match a command, run its guards, and produce events. It still needs
// an (optional) Switch to say which emitted event advances the flow.
type ActionClause[Cmd, Evt any] struct {
	cmdHandler flow.CommandHandler[any, any]
}

// Emit finalizes a clause's action as structural promotion: when(C)
// matches, the resulting event is built by copying C's fields onto a new
// Evt by name (spec §4.2 "Structural promotion"). The field mapping is
// validated once, here, at registration time.
func Emit[Cmd, Evt any](c *CommandClause[Cmd]) *ActionClause[Cmd, Evt] {
	checkStructuralPromotion[Cmd, Evt]()
	return &ActionClause[Cmd, Evt]{
		cmdHandler: buildCommandHandler(c, func(cmd Cmd) ([]Evt, error) {
			evt, err := promote[Cmd, Evt](cmd)
			if err != nil {
				return nil, err
			}
			return []Evt{evt}, nil
		}),
	}
}

// EmitLiteral finalizes a clause's action as a fixed list of events,
// ignoring the command's fields (spec §4.2 "emit(e1, e2, ...)").
func EmitLiteral[Cmd, Evt any](c *CommandClause[Cmd], events ...Evt) *ActionClause[Cmd, Evt] {
	return &ActionClause[Cmd, Evt]{
		cmdHandler: buildCommandHandler(c, func(Cmd) ([]Evt, error) {
			return events, nil
		}),
	}
}

// EmitEvent finalizes a clause's action as a single event computed from
// the command (spec §4.2 "emitEvent(c => e)").
func EmitEvent[Cmd, Evt any](c *CommandClause[Cmd], f func(Cmd) Evt) *ActionClause[Cmd, Evt] {
	return &ActionClause[Cmd, Evt]{
		cmdHandler: buildCommandHandler(c, func(cmd Cmd) ([]Evt, error) {
			return []Evt{f(cmd)}, nil
		}),
	}
}

// EmitEvents finalizes a clause's action as a list of events computed
// from the command (spec §4.2 "emitEvents(c => [e])"). An empty result is
// a valid no-op acceptance.
func EmitEvents[Cmd, Evt any](c *CommandClause[Cmd], f func(Cmd) []Evt) *ActionClause[Cmd, Evt] {
	return &ActionClause[Cmd, Evt]{
		cmdHandler: buildCommandHandler(c, func(cmd Cmd) ([]Evt, error) {
			return f(cmd), nil
		}),
	}
}

// Switch finalizes the clause: once the emitted event of type Evt is
// observed, the flow advances to whatever next returns. next is called
// only once the event actually matches, not while the clause is being
// built — this is what lets a self-referential flow (a clause switching
// back into a flow built from the same function) recurse lazily instead
// of being built eagerly to unbounded depth. The event matcher checks
// only the runtime type; use SwitchIf to add a predicate or literal
// comparison.
func (a *ActionClause[Cmd, Evt]) Switch(next func() flow.Flow[any, any]) *Clause {
	return a.SwitchIf(nil, next)
}

// SwitchIf finalizes the clause with an additional predicate (or literal
// comparison, by capturing the expected value) on the observed event
// (spec §4.2 "Event matcher"). See Switch for why next is a thunk rather
// than a plain Flow value.
func (a *ActionClause[Cmd, Evt]) SwitchIf(pred func(Evt) bool, next func() flow.Flow[any, any]) *Clause {
	return &Clause{
		cmdHandler: a.cmdHandler,
		eventMatcher: func(eAny any) (flow.Flow[any, any], bool) {
			evt, ok := eAny.(Evt)
			if !ok || (pred != nil && !pred(evt)) {
				var zero flow.Flow[any, any]
				return zero, false
			}
			return next(), true
		},
	}
}

// NoSwitch finalizes the clause without an event matcher: the flow does
// not advance once the action runs (spec §4.2: "a clause without switch
// does not advance the flow").
func (a *ActionClause[Cmd, Evt]) NoSwitch() *Clause {
	return &Clause{cmdHandler: a.cmdHandler}
}
