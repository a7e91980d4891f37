package event

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Bus errors.
var (
	// ErrNilHandler indicates a subscription with no handler.
	ErrNilHandler = errors.New("nil event handler")

	// ErrInvalidTopic indicates an empty topic.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrSubscriptionNotFound indicates an unknown subscription id.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// Topic names one event stream on the bus.
type Topic string

// Topics published by the input engine.
const (
	// TopicKeyEvent carries tracker.NormalizedEvent values, one per
	// discrete normalized transition.
	TopicKeyEvent Topic = "key.event"

	// TopicMatch carries sequence.Match values.
	TopicMatch Topic = "sequence.match"

	// TopicHold carries sequence.HoldTransition values.
	TopicHold Topic = "hold.transition"
)

// Handler consumes one published event.
type Handler func(event any)

// Subscription identifies one registered handler.
type Subscription string

// Stats is a snapshot of bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
	Subscribers   int
}

// entry pairs a subscription id with its handler.
type entry struct {
	id Subscription
	fn Handler
}

// Bus is a synchronous publish/subscribe dispatcher. Subscribe and
// Unsubscribe are safe for concurrent use with Publish.
type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]entry

	published atomic.Uint64
	delivered atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]entry)}
}

// Subscribe registers a handler for a topic. Handlers on the same
// topic run in subscription order.
func (b *Bus) Subscribe(t Topic, h Handler) (Subscription, error) {
	if h == nil {
		return "", ErrNilHandler
	}
	if t == "" {
		return "", ErrInvalidTopic
	}

	id := Subscription(uuid.NewString())
	b.mu.Lock()
	b.subs[t] = append(b.subs[t], entry{id: id, fn: h})
	b.mu.Unlock()
	return id, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(id Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for t, entries := range b.subs {
		for i, e := range entries {
			if e.id != id {
				continue
			}
			b.subs[t] = append(entries[:i:i], entries[i+1:]...)
			if len(b.subs[t]) == 0 {
				delete(b.subs, t)
			}
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers an event to every handler subscribed to the topic,
// synchronously and in subscription order.
func (b *Bus) Publish(t Topic, event any) {
	b.mu.RLock()
	entries := b.subs[t]
	handlers := make([]Handler, len(entries))
	for i, e := range entries {
		handlers[i] = e.fn
	}
	b.mu.RUnlock()

	b.published.Add(1)
	for _, h := range handlers {
		b.deliver(h, event)
	}
}

// SubscriberCount returns the number of handlers on a topic.
func (b *Bus) SubscriberCount(t Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[t])
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	subscribers := 0
	for _, entries := range b.subs {
		subscribers += len(entries)
	}
	b.mu.RUnlock()

	return Stats{
		Published:     b.published.Load(),
		Delivered:     b.delivered.Load(),
		HandlerPanics: b.panics.Load(),
		Subscribers:   subscribers,
	}
}

// deliver runs one handler with panic recovery.
func (b *Bus) deliver(h Handler, event any) {
	defer func() {
		if recover() != nil {
			b.panics.Add(1)
		}
	}()
	h(event)
	b.delivered.Add(1)
}
