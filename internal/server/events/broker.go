package events

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Queue sizes. A full event queue drops events rather than stalling the
// verification run that publishes them.
const (
	eventQueue        = 256
	subscriptionQueue = 16
)

// Broker distributes published events to every subscriber. A single Run loop
// owns delivery, so each subscriber sees events in publish order.
type Broker struct {
	events chan Event
	joins  chan Subscriber
	leaves chan Subscriber
	logger *zerolog.Logger

	mu   sync.RWMutex
	subs []Subscriber
}

// NewBroker creates a broker. Subscribe may be called before Run.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		events: make(chan Event, eventQueue),
		joins:  make(chan Subscriber, subscriptionQueue),
		leaves: make(chan Subscriber, subscriptionQueue),
		logger: logger,
	}
}

// Run delivers events until ctx is done, then closes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			return
		case sub := <-b.joins:
			b.add(sub)
		case sub := <-b.leaves:
			b.remove(sub)
		case event := <-b.events:
			b.deliver(event)
		}
	}
}

func (b *Broker) add(sub Subscriber) {
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	n := len(b.subs)
	b.mu.Unlock()
	b.logger.Debug().Int("subscribers", n).Msg("Subscriber joined")
}

func (b *Broker) remove(sub Subscriber) {
	b.mu.Lock()
	i := slices.Index(b.subs, sub)
	if i >= 0 {
		b.subs = slices.Delete(b.subs, i, i+1)
	}
	n := len(b.subs)
	b.mu.Unlock()

	if i >= 0 {
		_ = sub.Close()
		b.logger.Debug().Int("subscribers", n).Msg("Subscriber left")
	}
}

func (b *Broker) deliver(event Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Dropped event for subscriber")
		}
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}
	b.logger.Debug().Int("subscribers", len(subs)).Msg("Event broker stopped")
}

// Publish queues an event stamped with the current time.
func (b *Broker) Publish(eventType EventType, data any) {
	select {
	case b.events <- Event{Type: eventType, Timestamp: time.Now(), Data: data}:
	default:
		b.logger.Warn().Str("event_type", string(eventType)).Msg("Event queue full, event dropped")
	}
}

// Subscribe adds sub once Run picks it up.
func (b *Broker) Subscribe(sub Subscriber) { b.joins <- sub }

// Unsubscribe removes and closes sub.
func (b *Broker) Unsubscribe(sub Subscriber) { b.leaves <- sub }

// SubscriberCount returns the number of active subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
