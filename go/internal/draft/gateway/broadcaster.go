package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler receives events for a topic. Handlers run on the publisher's
// goroutine and must not block.
type Handler func(Event)

// Subscription is returned by Subscribe.
type Subscription interface {
	Unsubscribe()
}

// Broadcaster is a topic scoped, best effort publish/subscribe channel.
type Broadcaster interface {
	Publish(ctx context.Context, topic string, event Event) error
	Subscribe(topic string, handler Handler) Subscription
}

// Hub is the in-process Broadcaster.
type Hub struct {
	mu     sync.RWMutex
	topics map[string]map[string]Handler
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[string]Handler)}
}

func (h *Hub) Publish(_ context.Context, topic string, event Event) error {
	h.mu.RLock()
	handlers := make([]Handler, 0, len(h.topics[topic]))
	for _, fn := range h.topics[topic] {
		handlers = append(handlers, fn)
	}
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(event)
	}

	log.Debug().
		Str("topic", topic).
		Str("event", event.Name).
		Int("subscribers", len(handlers)).
		Msg("event published")
	return nil
}

func (h *Hub) Subscribe(topic string, handler Handler) Subscription {
	id := uuid.NewString()

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[string]Handler)
	}
	h.topics[topic][id] = handler
	h.mu.Unlock()

	return &hubSubscription{hub: h, topic: topic, id: id}
}

// SubscriberCount reports how many handlers are registered on a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) unsubscribe(topic, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if handlers, ok := h.topics[topic]; ok {
		delete(handlers, id)
		if len(handlers) == 0 {
			delete(h.topics, topic)
		}
	}
}

type hubSubscription struct {
	hub   *Hub
	topic string
	id    string
	once  sync.Once
}

func (s *hubSubscription) Unsubscribe() {
	s.once.Do(func() { s.hub.unsubscribe(s.topic, s.id) })
}
