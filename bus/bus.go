// Package bus implements a bounded, multi-producer multi-consumer
// broadcast of frame.MacFrame values, modeled on Rust's
// tokio::sync::broadcast semantics: every subscriber sees every frame
// unless its buffer saturates, in which case the bus drops the oldest
// unread frame for that subscriber and reports a lag.
package bus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/drunlade/zwzniff/frame"
)

// OnLag, if set, is invoked whenever a subscriber's buffer saturates and a
// frame is dropped on its behalf.
type OnLag func(subscriber uuid.UUID, skipped int)

// Bus fans a stream of MacFrames out to any number of subscribers, each
// with its own bounded channel.
type Bus struct {
	mu       sync.Mutex
	capacity int
	subs     map[uuid.UUID]chan frame.MacFrame
	onLag    OnLag
}

// New returns a Bus whose subscriber channels each hold up to capacity
// frames before dropping the oldest.
func New(capacity int, onLag OnLag) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		capacity: capacity,
		subs:     make(map[uuid.UUID]chan frame.MacFrame),
		onLag:    onLag,
	}
}

// Subscribe registers a new subscriber and returns its id and receive
// channel. The channel is closed by Unsubscribe.
func (b *Bus) Subscribe() (uuid.UUID, <-chan frame.MacFrame) {
	id := uuid.New()
	ch := make(chan frame.MacFrame, b.capacity)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. It is a no-op
// for an unknown id.
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	ch, ok := b.subs[id]
	delete(b.subs, id)
	b.mu.Unlock()

	if ok {
		close(ch)
	}
}

// Publish delivers f to every current subscriber. A subscriber whose
// channel is full has its oldest buffered frame dropped to make room,
// rather than blocking the publisher.
func (b *Bus) Publish(f frame.MacFrame) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		b.deliver(id, ch, f)
	}
}

func (b *Bus) deliver(id uuid.UUID, ch chan frame.MacFrame, f frame.MacFrame) {
	select {
	case ch <- f:
		return
	default:
	}

	skipped := 0
	select {
	case <-ch:
		skipped++
	default:
	}
	select {
	case ch <- f:
	default:
		// Another full cycle raced us; give up rather than spin.
	}
	if skipped > 0 && b.onLag != nil {
		b.onLag(id, skipped)
	}
}

// Subscribers reports the current subscriber count.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
