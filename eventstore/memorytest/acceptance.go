// Package memorytest is the conformance suite any eventstore.EventStore
// implementation should pass, generalizing looplab/eventhorizon's
// eventstore.AcceptanceTest to this module's generic EventStore[E]
// interface (spec §2.4 test tooling).
package memorytest

import (
	"context"
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowstate/flowstate"
	jsoncodec "github.com/flowstate/flowstate/codec/json"
	"github.com/flowstate/flowstate/eventstore"
)

// Event is the fixture payload type used by RunAcceptanceTests.
type Event struct {
	Kind string
	N    int
}

var eventCodec jsoncodec.EventCodec[Event]

// Store is the pair of interfaces a factory under test must satisfy: the
// storage contract plus the cross-aggregate log spec §4.5 relies on.
type Store interface {
	eventstore.EventStore[Event]
	eventstore.OperationLog
}

// RunAcceptanceTests exercises append, read, optimistic concurrency and
// global ordering against a fresh store built by factory. Call it from a
// backend's own test:
//
//	func TestEventStore(t *testing.T) {
//	    memorytest.RunAcceptanceTests(t, func() memorytest.Store { return memory.New[memorytest.Event](memory.DefaultStoreConfig[memorytest.Event]()) })
//	}
func RunAcceptanceTests(t *testing.T, factory func() Store) {
	t.Run("read on unwritten aggregate returns lastVersion 0", func(t *testing.T) {
		store := factory()
		resp, err := store.ReadEvents(context.Background(), "Widget", flowstate.NewAggregateID(), 0)
		require.NoError(t, err)
		assert.Equal(t, 0, resp.LastVersion)
		assert.Empty(t, resp.Events)
	})

	t.Run("append assigns dense versions starting at 1", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()

		versioned, err := store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{Kind: "created", N: 1}, {Kind: "touched", N: 2}})
		require.NoError(t, err)
		assert.Equal(t, 1, versioned.Version)
		assert.Len(t, versioned.Events, 2)

		resp, err := store.ReadEvents(context.Background(), "Widget", id, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, resp.LastVersion)
		if !assert.Len(t, resp.Events, 2) {
			t.Log(pretty.Sprint(resp.Events))
		}
		assert.Equal(t, 1, resp.Events[0].Version)
		assert.Equal(t, 2, resp.Events[1].Version)
	})

	t.Run("append rejects a stale expected version", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{Kind: "created"}})
		require.NoError(t, err)

		_, err = store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{Kind: "duplicate"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, flowstate.ErrUnexpectedVersion)

		expected, actual, ok := flowstate.UnexpectedVersion(err)
		require.True(t, ok)
		assert.Equal(t, 0, expected)
		assert.Equal(t, 1, actual)
	})

	t.Run("append rejects an ahead-of-stream expected version", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id, 5, []Event{{Kind: "created"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, flowstate.ErrUnexpectedVersion)
	})

	t.Run("read only returns events after the given version", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{N: 1}, {N: 2}, {N: 3}})
		require.NoError(t, err)

		resp, err := store.ReadEvents(context.Background(), "Widget", id, 1)
		require.NoError(t, err)
		require.Len(t, resp.Events, 2)
		assert.Equal(t, 2, resp.Events[0].Version)
		assert.Equal(t, 3, resp.Events[1].Version)
	})

	t.Run("streams for different aggregates do not interfere", func(t *testing.T) {
		store := factory()
		id1, id2 := flowstate.NewAggregateID(), flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id1, 0, []Event{{N: 1}})
		require.NoError(t, err)
		_, err = store.AppendEvents(context.Background(), "Widget", id2, 0, []Event{{N: 1}, {N: 2}})
		require.NoError(t, err)

		resp1, err := store.ReadEvents(context.Background(), "Widget", id1, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, resp1.LastVersion)

		resp2, err := store.ReadEvents(context.Background(), "Widget", id2, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, resp2.LastVersion)
	})

	t.Run("operation log orders events across aggregates by append order", func(t *testing.T) {
		store := factory()
		id1, id2 := flowstate.NewAggregateID(), flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id1, 0, []Event{{Kind: "a1"}})
		require.NoError(t, err)
		_, err = store.AppendEvents(context.Background(), "Widget", id2, 0, []Event{{Kind: "b1"}})
		require.NoError(t, err)
		_, err = store.AppendEvents(context.Background(), "Widget", id1, 1, []Event{{Kind: "a2"}})
		require.NoError(t, err)

		global, err := store.ReadFrom(context.Background(), 0, 0)
		require.NoError(t, err)
		require.Len(t, global, 3)

		evt0, err := eventCodec.Decode(global[0].Raw)
		require.NoError(t, err)
		evt1, err := eventCodec.Decode(global[1].Raw)
		require.NoError(t, err)
		evt2, err := eventCodec.Decode(global[2].Raw)
		require.NoError(t, err)
		assert.Equal(t, "a1", evt0.Kind)
		assert.Equal(t, "b1", evt1.Kind)
		assert.Equal(t, "a2", evt2.Kind)

		for i := 1; i < len(global); i++ {
			assert.Greater(t, global[i].OpNr, global[i-1].OpNr)
		}
	})

	t.Run("operation log respects afterOpNr and limit", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()
		_, err := store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{N: 1}, {N: 2}, {N: 3}})
		require.NoError(t, err)

		all, err := store.ReadFrom(context.Background(), 0, 0)
		require.NoError(t, err)
		require.Len(t, all, 3)

		page, err := store.ReadFrom(context.Background(), 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)

		rest, err := store.ReadFrom(context.Background(), page[len(page)-1].OpNr, 0)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, all[2].OpNr, rest[0].OpNr)
	})

	t.Run("operation log entries round-trip through the event codec", func(t *testing.T) {
		store := factory()
		id := flowstate.NewAggregateID()

		_, err := store.AppendEvents(context.Background(), "Widget", id, 0, []Event{{Kind: "created", N: 7}})
		require.NoError(t, err)

		global, err := store.ReadFrom(context.Background(), 0, 0)
		require.NoError(t, err)
		require.Len(t, global, 1)

		decoded, err := eventCodec.Decode(global[0].Raw)
		require.NoError(t, err)
		assert.Equal(t, Event{Kind: "created", N: 7}, decoded)
	})
}
