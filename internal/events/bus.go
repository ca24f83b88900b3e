package events

import (
	"context"
	"sync"
)

// Bus is an unbounded multi-producer queue of domain events with a single
// expected consumer. Publish never blocks: a slow consumer grows the queue
// rather than stalling request paths. That is the documented backpressure
// tradeoff for this service.
type Bus struct {
	mu     sync.Mutex
	queue  []Event
	notify chan struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{notify: make(chan struct{}, 1)}
}

// Publish enqueues an event. Safe for any number of concurrent producers;
// delivery order to the consumer is the global enqueue order.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	b.queue = append(b.queue, ev)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Next pops the oldest queued event, blocking while the bus is empty. After
// ctx is cancelled, already-queued events are still delivered; once the queue
// is drained Next returns false and the consumer should stop.
func (b *Bus) Next(ctx context.Context) (Event, bool) {
	for {
		if ev, ok := b.pop(); ok {
			return ev, true
		}

		select {
		case <-b.notify:
		case <-ctx.Done():
			return b.pop()
		}
	}
}

// Depth reports the number of queued events.
func (b *Bus) Depth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func (b *Bus) pop() (Event, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.queue) == 0 {
		return Event{}, false
	}
	ev := b.queue[0]
	b.queue = b.queue[1:]
	return ev, true
}
