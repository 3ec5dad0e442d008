package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate/flowstate"
)

type cmd struct {
	kind string
	n    int
}

type evt struct {
	kind string
	n    int
}

func handlerFor(kind string, n int) CommandHandler[cmd, evt] {
	return func(c cmd) (flowstate.CommandHandlerResult[evt], bool) {
		if c.kind != kind {
			return flowstate.CommandHandlerResult[evt]{}, false
		}
		return flowstate.Accepted(evt{kind: kind, n: n}), true
	}
}

func waitForKind(kind string) flowstate.Matcher[evt, evt] {
	return func(e evt) (evt, bool) {
		if e.kind != kind {
			return evt{}, false
		}
		return e, true
	}
}

// A two-step flow: install handlerA, wait for "a", then install handlerB,
// wait for "b", then done.
func twoStepFlow() Flow[cmd, evt] {
	return InstallHandler(handlerFor("createA", 1), WaitFor(waitForKind("a"), func(e evt) Flow[cmd, evt] {
		return InstallHandler(handlerFor("createB", 2), WaitFor(waitForKind("b"), func(evt) Flow[cmd, evt] {
			return Done[cmd, evt]()
		}))
	}))
}

func TestCompile_HandlerShadowing(t *testing.T) {
	var zero CommandHandler[cmd, evt] = func(cmd) (flowstate.CommandHandlerResult[evt], bool) {
		return flowstate.CommandHandlerResult[evt]{}, false
	}

	sc := Compile(zero, twoStepFlow())
	require.NotNil(t, sc)

	// Before the wait completes, handlerA (installed before WaitFor) is in
	// force.
	res, ok := sc.CurrentCommandHandler(cmd{kind: "createA"})
	require.True(t, ok)
	assert.Equal(t, []evt{{kind: "createA", n: 1}}, res.Events())

	_, ok = sc.CurrentCommandHandler(cmd{kind: "createB"})
	assert.False(t, ok, "handlerB must not be in force before the wait completes")

	sc = sc.StepOnEvent(evt{kind: "a"})
	require.NotNil(t, sc)

	// After the wait completes, handlerB is in force and handlerA is gone.
	res, ok = sc.CurrentCommandHandler(cmd{kind: "createB"})
	require.True(t, ok)
	assert.Equal(t, []evt{{kind: "createB", n: 2}}, res.Events())

	_, ok = sc.CurrentCommandHandler(cmd{kind: "createA"})
	assert.False(t, ok)
}

func TestCompile_ReEntryOnNonMatch(t *testing.T) {
	var zero CommandHandler[cmd, evt]
	sc := Compile(zero, twoStepFlow())
	require.NotNil(t, sc)

	same := sc.StepOnEvent(evt{kind: "unrelated"})
	assert.Same(t, sc, same, "a non-matching event must return the identical consumer")

	// The command handler behaves identically after the no-op step.
	_, ok := same.CurrentCommandHandler(cmd{kind: "createA"})
	assert.True(t, ok)
}

func TestCompile_TerminatesToNil(t *testing.T) {
	var zero CommandHandler[cmd, evt]
	sc := Compile(zero, twoStepFlow())
	sc = sc.StepOnEvent(evt{kind: "a"})
	require.NotNil(t, sc)
	sc = sc.StepOnEvent(evt{kind: "b"})
	assert.Nil(t, sc, "a flow that reaches Done compiles to a nil consumer")
}

func TestFold_ReplayDeterminism(t *testing.T) {
	var zero CommandHandler[cmd, evt]

	live := Compile(zero, twoStepFlow())
	live = live.StepOnEvent(evt{kind: "a"})

	replayed := Fold(Compile(zero, twoStepFlow()), []evt{{kind: "a"}})

	require.NotNil(t, live)
	require.NotNil(t, replayed)

	_, liveOk := live.CurrentCommandHandler(cmd{kind: "createB"})
	_, replayedOk := replayed.CurrentCommandHandler(cmd{kind: "createB"})
	assert.True(t, liveOk)
	assert.Equal(t, liveOk, replayedOk)
}
