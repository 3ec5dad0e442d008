package dsl

import (
	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/flow"
)

type guardSpec[Cmd any] struct {
	pred func(Cmd) bool
	msg  string
}

// CommandClause is the command-matching half of one DSL clause, built by
// When and refined with Guard, before an Emit* call turns it into an
// ActionClause.
type CommandClause[Cmd any] struct {
	pred   func(Cmd) bool
	guards []guardSpec[Cmd]
}

// When starts a clause that matches commands of type Cmd. pred may be nil,
// in which case the clause matches every command of type Cmd (spec §4.2:
// "when[C](pred?)").
func When[Cmd any](pred func(Cmd) bool) *CommandClause[Cmd] {
	return &CommandClause[Cmd]{pred: pred}
}

// Guard adds a guard evaluated at command time, in declared order. Every
// failing guard contributes msg to the command's failure list; guards
// never panic or return an error themselves (spec §4.2).
func (c *CommandClause[Cmd]) Guard(pred func(Cmd) bool, msg string) *CommandClause[Cmd] {
	c.guards = append(c.guards, guardSpec[Cmd]{pred: pred, msg: msg})
	return c
}

// matches reports whether cmd satisfies this clause's type and predicate.
func (c *CommandClause[Cmd]) matches(cmd Cmd) bool {
	return c.pred == nil || c.pred(cmd)
}

// evaluateGuards runs every guard in order, returning the ordered list of
// failure messages (spec §8 property 4: guard aggregation).
func (c *CommandClause[Cmd]) evaluateGuards(cmd Cmd) []string {
	var failures []string
	for _, g := range c.guards {
		if !g.pred(cmd) {
			failures = append(failures, g.msg)
		}
	}
	return failures
}

// buildCommandHandler erases a typed (CommandClause[Cmd], action) pair
// into the type-erased flow.CommandHandler the compiler operates on. The
// clause matches a runtime command iff it is of type Cmd and satisfies the
// predicate; only then are guards evaluated and the action run.
func buildCommandHandler[Cmd, Evt any](c *CommandClause[Cmd], action func(Cmd) ([]Evt, error)) flow.CommandHandler[any, any] {
	return func(cmdAny any) (flowstate.CommandHandlerResult[any], bool) {
		cmd, ok := cmdAny.(Cmd)
		if !ok || !c.matches(cmd) {
			return flowstate.CommandHandlerResult[any]{}, false
		}

		if failures := c.evaluateGuards(cmd); len(failures) > 0 {
			return flowstate.Rejected[any](failures...), true
		}

		events, err := action(cmd)
		if err != nil {
			return flowstate.Rejected[any](err.Error()), true
		}

		anyEvents := make([]any, len(events))
		for i, e := range events {
			anyEvents[i] = e
		}
		return flowstate.Accepted(anyEvents...), true
	}
}
