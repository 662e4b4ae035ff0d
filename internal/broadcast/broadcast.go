// Package broadcast implements the fan-out channel for room status events.
// The registry owns the set of connected subscribers and their topic
// memberships; transports (SSE, websocket) subscribe on connect and
// unsubscribe on disconnect, which keeps delivery testable without a live
// network.
package broadcast

import (
	"log"
	"sync"
)

// Event is one message on the broadcast channel. Topics lists the scoped
// topics the event belongs to (e.g. a floor topic); subscribers of the
// "all" topic receive every event regardless.
type Event struct {
	Name   string
	Topics []string
	Data   interface{}
}

// subscriberBuffer is the per-subscriber queue size. A subscriber that
// falls this far behind starts losing events; the periodic snapshot push
// heals it.
const subscriberBuffer = 64

// Subscriber is one connected listener. Events arrive on C in publish
// order; for any single room that matches the engine's mutation order.
type Subscriber struct {
	ID string
	C  chan Event

	topics map[string]struct{}
}

// Registry is the explicit subscriber registry owned by the engine
type Registry struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

// NewRegistry creates an empty broadcast registry
func NewRegistry() *Registry {
	return &Registry{
		subscribers: make(map[string]*Subscriber),
	}
}

// Subscribe registers a listener under the given ID with its initial
// topic memberships. An existing subscriber with the same ID is replaced.
func (r *Registry) Subscribe(id string, topics ...string) *Subscriber {
	sub := &Subscriber{
		ID:     id,
		C:      make(chan Event, subscriberBuffer),
		topics: make(map[string]struct{}, len(topics)),
	}
	for _, topic := range topics {
		sub.topics[topic] = struct{}{}
	}

	r.mu.Lock()
	if old, ok := r.subscribers[id]; ok {
		close(old.C)
	}
	r.subscribers[id] = sub
	r.mu.Unlock()

	return sub
}

// Unsubscribe removes a listener and closes its event channel
func (r *Registry) Unsubscribe(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subscribers[id]; ok {
		close(sub.C)
		delete(r.subscribers, id)
	}
}

// Join adds a topic membership for a subscriber
func (r *Registry) Join(id, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subscribers[id]; ok {
		sub.topics[topic] = struct{}{}
	}
}

// Leave removes a topic membership for a subscriber
func (r *Registry) Leave(id, topic string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sub, ok := r.subscribers[id]; ok {
		delete(sub.topics, topic)
	}
}

// Count returns the number of connected subscribers
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subscribers)
}

// Publish delivers an event to every subscriber of the "all" topic and to
// subscribers that joined any of the event's scoped topics. Publishing
// takes the registry lock, so concurrent publishers are serialized and
// events for the same room arrive in the order they were published.
// Delivery to a full subscriber queue is dropped rather than blocking
// the publisher.
func (r *Registry) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sub := range r.subscribers {
		if !sub.wants(event) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			log.Printf("broadcast: dropping %s event for slow subscriber %s", event.Name, sub.ID)
		}
	}
}

// wants reports whether the subscriber's memberships match the event
func (s *Subscriber) wants(event Event) bool {
	if _, ok := s.topics["all"]; ok {
		return true
	}
	for _, topic := range event.Topics {
		if _, ok := s.topics[topic]; ok {
			return true
		}
	}
	return false
}
