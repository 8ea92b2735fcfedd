package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type generated struct {
	ID      string
	Players int
}

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[generated]()
	ch := bus.Subscribe()
	bus.Publish(generated{ID: "g1", Players: 12})
	v := <-ch
	assert.Equal(t, "g1", v.ID)
	assert.Equal(t, 12, v.Players)
	bus.Unsubscribe(ch)
	assert.Equal(t, 0, bus.Subscribers())
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTypedBuffered[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	assert.Equal(t, 1, <-ch)
	assert.Equal(t, uint64(1), bus.Dropped())
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	_, ok := <-ch1
	assert.False(t, ok, "expected ch1 closed")
	_, ok = <-ch2
	assert.False(t, ok, "expected ch2 closed")

	late := bus.Subscribe()
	_, ok = <-late
	assert.False(t, ok, "subscribe after close returns a closed channel")
	bus.Publish(3)
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	require.NotPanics(t, func() { bus.Unsubscribe(ch) })
}
