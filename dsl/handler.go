package dsl

import (
	"github.com/flowstate/flowstate"
	"github.com/flowstate/flowstate/flow"
)

// Clause is one finished clause: a command handler and an optional event
// matcher, ready to be combined by Handler.
type Clause struct {
	cmdHandler   flow.CommandHandler[any, any]
	eventMatcher flowstate.Matcher[any, flow.Flow[any, any]]
}

// CommandHandler exposes the clause's type-erased command handler directly,
// for callers building a Flow by hand with flow.InstallHandler/flow.WaitFor
// instead of through Handler — e.g. when the continuation after a wait
// needs the matched event's payload to pick the next Flow, which a static
// Switch target cannot express.
func (c *Clause) CommandHandler() flow.CommandHandler[any, any] {
	return c.cmdHandler
}

// anyOtherClause matches every command type, unconditionally.
type anyOtherClause struct{}

// AnyOther starts a catch-all clause that fails every command reaching it
// (spec §4.2 "anyOther.failWithMessage"). Place it last in a Handler call
// so earlier, more specific clauses get first-match-wins.
func AnyOther() *anyOtherClause {
	return &anyOtherClause{}
}

// FailWithMessage finalizes the catch-all clause.
func (anyOtherClause) FailWithMessage(msg string) *Clause {
	return &Clause{
		cmdHandler: func(any) (flowstate.CommandHandlerResult[any], bool) {
			return flowstate.Rejected[any](msg), true
		},
	}
}

// Handler desugars a list of clauses into one Flow step: a command
// handler that is the left-to-right orElse of every clause's command
// handler, followed by a wait for whichever clause's switch condition is
// observed first (spec §4.2). First-match-wins in declaration order for
// both commands and events.
func Handler(clauses ...*Clause) flow.Flow[any, any] {
	cmdHandlers := make([]flow.CommandHandler[any, any], 0, len(clauses))
	eventMatchers := make([]flowstate.Matcher[any, flow.Flow[any, any]], 0, len(clauses))

	for _, c := range clauses {
		cmdHandlers = append(cmdHandlers, c.cmdHandler)
		if c.eventMatcher != nil {
			eventMatchers = append(eventMatchers, c.eventMatcher)
		}
	}

	combinedCmd := flowstate.Or(cmdHandlers...)
	combinedEvent := flowstate.Or(eventMatchers...)

	return flow.InstallHandler(combinedCmd, flow.WaitFor(combinedEvent, func(next flow.Flow[any, any]) flow.Flow[any, any] {
		return next
	}))
}

// Done is a convenience re-export so DSL-authored flows don't need to
// import the flow package directly just to terminate a flow.
func Done() flow.Flow[any, any] {
	return flow.Done[any, any]()
}
