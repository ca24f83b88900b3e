package events_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/events"
)

func ticketEvent(ticketID int64) events.Event {
	return events.NewTicketUpdated(ticketID, 0, map[string]events.FieldChange{
		"AssignedTo": {Old: "Unassigned", New: "1"},
	})
}

func TestBusDeliversInPublishOrder(t *testing.T) {
	bus := events.NewBus()
	first := ticketEvent(1)
	second := ticketEvent(2)

	// E1 then E2, from different producers.
	bus.Publish(first)
	done := make(chan struct{})
	go func() {
		bus.Publish(second)
		close(done)
	}()
	<-done

	ev, ok := bus.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, first.ID, ev.ID)

	ev, ok = bus.Next(context.Background())
	require.True(t, ok)
	assert.Equal(t, second.ID, ev.ID)
}

func TestBusSequenceNumbersAreMonotonic(t *testing.T) {
	previous := ticketEvent(1)
	for i := 0; i < 100; i++ {
		next := ticketEvent(2)
		assert.Greater(t, next.Seq, previous.Seq)
		previous = next
	}
}

func TestBusConcurrentPublishLosesNothing(t *testing.T) {
	bus := events.NewBus()

	const producers = 8
	const perProducer = 50
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				bus.Publish(ticketEvent(int64(j)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, producers*perProducer, bus.Depth())

	seen := map[string]struct{}{}
	for i := 0; i < producers*perProducer; i++ {
		ev, ok := bus.Next(context.Background())
		require.True(t, ok)
		_, dup := seen[ev.ID]
		require.False(t, dup)
		seen[ev.ID] = struct{}{}
	}
	assert.Equal(t, 0, bus.Depth())
}

func TestBusDrainsQueuedEventsAfterCancel(t *testing.T) {
	bus := events.NewBus()
	bus.Publish(ticketEvent(1))
	bus.Publish(ticketEvent(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok := bus.Next(ctx)
	require.True(t, ok)
	_, ok = bus.Next(ctx)
	require.True(t, ok)

	_, ok = bus.Next(ctx)
	assert.False(t, ok, "drained bus must terminate after cancellation")
}

func TestBusNextBlocksUntilPublish(t *testing.T) {
	bus := events.NewBus()
	want := ticketEvent(1)

	got := make(chan events.Event, 1)
	go func() {
		ev, ok := bus.Next(context.Background())
		if ok {
			got <- ev
		}
	}()

	time.Sleep(20 * time.Millisecond)
	bus.Publish(want)

	select {
	case ev := <-got:
		assert.Equal(t, want.ID, ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer never woke up")
	}
}
