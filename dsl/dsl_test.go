package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate/flowstate/flow"
)

// Commands and events for the counter example in spec §8.

type CreateCounter struct {
	ID    string
	Start int
}

type CounterCreated struct {
	ID    string
	Start int
}

type Increment struct{ ID string }

type Incremented struct{ ID string }

type Decrement struct{ ID string }

type Decremented struct{ ID string }

// counterFlow mirrors spec §8's "counter happy path" scenario: Create,
// then a loop of Increment/Decrement with a guard on Decrement.
func counterFlow() flow.Flow[any, any] {
	return Handler(
		Emit[CreateCounter, CounterCreated](When[CreateCounter](nil)).
			Switch(func() flow.Flow[any, any] { return loopFlow(0) }),
	)
}

func loopFlow(count int) flow.Flow[any, any] {
	return Handler(
		EmitEvent[Increment, Incremented](When[Increment](nil), func(Increment) Incremented {
			return Incremented{}
		}).Switch(func() flow.Flow[any, any] { return loopFlow(count + 1) }),
		EmitEvent[Decrement, Decremented](
			When[Decrement](nil).Guard(func(Decrement) bool { return count > 0 }, "Counter cannot be decremented"),
			func(Decrement) Decremented { return Decremented{} },
		).Switch(func() flow.Flow[any, any] { return loopFlow(count - 1) }),
	)
}

func TestCounter_HappyPath(t *testing.T) {
	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, counterFlow())
	require.NotNil(t, sc)

	res, ok := sc.CurrentCommandHandler(CreateCounter{ID: "a", Start: 5})
	require.True(t, ok)
	require.True(t, res.Ok())
	require.Len(t, res.Events(), 1)
	created, ok := res.Events()[0].(CounterCreated)
	require.True(t, ok)
	assert.Equal(t, CounterCreated{ID: "a", Start: 5}, created)

	sc = sc.StepOnEvent(any(created))
	require.NotNil(t, sc)

	res, ok = sc.CurrentCommandHandler(Increment{ID: "a"})
	require.True(t, ok)
	require.True(t, res.Ok())
	sc = sc.StepOnEvent(res.Events()[0])
	require.NotNil(t, sc)

	res, ok = sc.CurrentCommandHandler(Increment{ID: "a"})
	require.True(t, ok)
	sc = sc.StepOnEvent(res.Events()[0])
	require.NotNil(t, sc)

	res, ok = sc.CurrentCommandHandler(Decrement{ID: "a"})
	require.True(t, ok)
	require.True(t, res.Ok(), "count is 2, decrement must be accepted")
}

func TestCounter_GuardFailure(t *testing.T) {
	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, counterFlow())

	res, ok := sc.CurrentCommandHandler(CreateCounter{ID: "b", Start: 0})
	require.True(t, ok)
	created := res.Events()[0]
	sc = sc.StepOnEvent(created)
	require.NotNil(t, sc)

	res, ok = sc.CurrentCommandHandler(Decrement{ID: "b"})
	require.True(t, ok)
	require.False(t, res.Ok())
	assert.Equal(t, []string{"Counter cannot be decremented"}, []string(res.Failures()))
}

func TestCounter_UnknownCommand(t *testing.T) {
	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, counterFlow())

	_, ok := sc.CurrentCommandHandler(Decrement{ID: "c"})
	assert.False(t, ok, "Decrement before Create must not be matched by any installed handler")
}

// Guard aggregation: two failing guards report both messages in order
// (spec §8 property 4).
type Withdraw struct{ Amount, Balance int }

type Withdrawn struct{ Amount int }

func TestGuardAggregation(t *testing.T) {
	clause := EmitEvent[Withdraw, Withdrawn](
		When[Withdraw](nil).
			Guard(func(w Withdraw) bool { return w.Amount > 0 }, "amount must be positive").
			Guard(func(w Withdraw) bool { return w.Amount <= w.Balance }, "insufficient balance"),
		func(w Withdraw) Withdrawn { return Withdrawn{Amount: w.Amount} },
	).NoSwitch()

	f := Handler(clause)
	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, f)

	res, ok := sc.CurrentCommandHandler(Withdraw{Amount: -5, Balance: -10})
	require.True(t, ok)
	require.False(t, res.Ok())
	assert.Equal(t, []string{"amount must be positive", "insufficient balance"}, []string(res.Failures()))
}

// First-match-wins: an earlier clause shadows a later, broader one.
type Ping struct{ Loud bool }

type LoudPong struct{}

type QuietPong struct{}

func TestFirstMatchWins(t *testing.T) {
	f := Handler(
		EmitEvent[Ping, LoudPong](
			When[Ping](func(p Ping) bool { return p.Loud }),
			func(Ping) LoudPong { return LoudPong{} },
		).NoSwitch(),
		EmitEvent[Ping, QuietPong](
			When[Ping](nil),
			func(Ping) QuietPong { return QuietPong{} },
		).NoSwitch(),
	)

	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, f)

	res, ok := sc.CurrentCommandHandler(Ping{Loud: true})
	require.True(t, ok)
	assert.IsType(t, LoudPong{}, res.Events()[0])

	res, ok = sc.CurrentCommandHandler(Ping{Loud: false})
	require.True(t, ok)
	assert.IsType(t, QuietPong{}, res.Events()[0])
}

func TestAnyOther_FailsUnmatchedCommands(t *testing.T) {
	f := Handler(
		EmitEvent[CreateCounter, CounterCreated](When[CreateCounter](nil), func(c CreateCounter) CounterCreated {
			return CounterCreated{ID: c.ID, Start: c.Start}
		}).NoSwitch(),
		AnyOther().FailWithMessage("unsupported command"),
	)

	var zero flow.CommandHandler[any, any]
	sc := flow.Compile(zero, f)

	res, ok := sc.CurrentCommandHandler(Increment{ID: "x"})
	require.True(t, ok)
	require.False(t, res.Ok())
	assert.Equal(t, []string{"unsupported command"}, []string(res.Failures()))
}

func TestStructuralPromotion_PanicsOnMismatch(t *testing.T) {
	type Bad struct{ Other string }
	assert.Panics(t, func() {
		Emit[CreateCounter, Bad](When[CreateCounter](nil))
	})
}
