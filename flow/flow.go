package flow

import "github.com/flowstate/flowstate"

// CommandHandler is a partial function from a command to the result of
// handling it. It is "partial" in the sense of spec §9: unmatched commands
// return ok=false rather than a result, letting Or compose several clause
// handlers left to right.
type CommandHandler[C, E any] = flowstate.Matcher[C, flowstate.CommandHandlerResult[E]]

type kind int

const (
	kindDone kind = iota
	kindInstallHandler
	kindWaitFor
)

// Flow is one node of the compiled program: InstallHandler, WaitFor, or the
// terminal Done. Flow values are normally constructed with the
// InstallHandler, WaitFor and Done functions below, not built by hand.
type Flow[C, E any] struct {
	kind kind

	// kindInstallHandler
	handler CommandHandler[C, E]
	next    *Flow[C, E]

	// kindWaitFor: step attempts to match e against the node's matcher and,
	// on a match, evaluates the continuation. ok is false when e did not
	// match.
	step func(e E) (next Flow[C, E], ok bool)
}

// Done is the terminal Flow: a StreamConsumer compiled from it is nil,
// meaning the flow has nothing further to do.
func Done[C, E any]() Flow[C, E] {
	return Flow[C, E]{kind: kindDone}
}

// InstallHandler sets h as the command handler currently in force, then
// continues with next. If next is itself a WaitFor node, the compiled
// StreamConsumer at that wait point uses h — not whatever handler was in
// force before — per the handler-shadowing invariant (spec §4.1, §8
// property 3).
func InstallHandler[C, E any](h CommandHandler[C, E], next Flow[C, E]) Flow[C, E] {
	return Flow[C, E]{kind: kindInstallHandler, handler: h, next: &next}
}

// WaitFor suspends the flow until an event e is observed for which matcher
// yields a value a, then resumes by evaluating k(a) to produce the next
// Flow. The command handler installed before WaitFor was reached remains
// in force for as long as the flow stays suspended at this point (spec
// §4.1 invariant).
func WaitFor[C, E, A any](matcher flowstate.Matcher[E, A], k func(A) Flow[C, E]) Flow[C, E] {
	return Flow[C, E]{
		kind: kindWaitFor,
		step: func(e E) (Flow[C, E], bool) {
			a, ok := matcher(e)
			if !ok {
				var zero Flow[C, E]
				return zero, false
			}
			return k(a), true
		},
	}
}
