/*
Package events implements the in-process notification bus for community state changes.

Writers publish a named event after persisting a blob; mounted UI surfaces re-read the
blob when notified. Delivery is best-effort and fire-and-forget: publishing never blocks,
events to a slow subscriber are dropped, and no ordering is guaranteed across back-to-back
saves. Listeners must treat an event as "something changed, re-read", never as a diff.
*/
package events

import (
	"sync"

	"commhub/internal/pkg/logx"

	"github.com/rs/zerolog"
)

// Event names published by the community state services.
const (
	// RoomsUpdated signals that the room registry blob changed.
	RoomsUpdated = "rooms-updated"

	// PaidSettingsUpdated signals that the access policy blob changed.
	PaidSettingsUpdated = "paid-settings-updated"

	// OpenCreateRoom requests that a UI surface open the room-creation dialog.
	OpenCreateRoom = "open-create-room"
)

// subscriberBuffer is the per-subscriber channel capacity. A subscriber that
// falls further behind than this loses events.
const subscriberBuffer = 16

// Event is a named notification with an optional detail payload.
type Event struct {
	Name   string         `json:"event"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Bus fans events out to all current subscribers.
type Bus struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
	closed      bool
	logger      zerolog.Logger
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	busLogger := logx.Logger().With().Str("component", "EventBus").Logger()

	return &Bus{
		subscribers: make(map[int]chan Event),
		logger:      busLogger,
	}
}

// Subscribe registers a new listener. The returned cancel function removes the
// subscription and closes the channel; it is safe to call more than once.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)

	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			if sub, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(sub)
			}
		})
	}

	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer room.
// It never blocks; a full subscriber simply misses the event.
func (b *Bus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn().
				Str("event", event.Name).
				Int("subscriber_id", id).
				Msg("Subscriber buffer full. Event dropped.")
		}
	}
}

// Close shuts the bus down: all subscriber channels are closed and further
// publishes become no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
