package memory_test

import (
	"testing"

	"github.com/flowstate/flowstate/eventstore/memory"
	"github.com/flowstate/flowstate/eventstore/memorytest"
)

func TestEventStore(t *testing.T) {
	memorytest.RunAcceptanceTests(t, func() memorytest.Store {
		return memory.New[memorytest.Event](memory.DefaultStoreConfig[memorytest.Event]())
	})
}
