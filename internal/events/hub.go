package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const subscriberBuffer = 16

// Hub is an in-process pub/sub used when redis is not configured.
type Hub struct {
	mu     sync.Mutex
	topics map[string]map[chan Envelope]struct{}
}

func NewHub() *Hub {
	return &Hub{topics: make(map[string]map[chan Envelope]struct{})}
}

func (h *Hub) Dispatch(_ context.Context, event Event) error {
	env, err := Encode(event)
	if err != nil {
		return err
	}
	h.Publish(Topic(event.SessionID()), env)
	return nil
}

// Publish never blocks: a subscriber with a full buffer misses the envelope.
func (h *Hub) Publish(topic string, env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.topics[topic] {
		select {
		case ch <- env:
		default:
			log.WithFields(log.Fields{"topic": topic, "event": env.Type}).Warn("slow subscriber, notification dropped")
		}
	}
}

func (h *Hub) Subscribe(ctx context.Context, sessionID string) (<-chan Envelope, func(), error) {
	topic := Topic(sessionID)
	ch := make(chan Envelope, subscriberBuffer)

	h.mu.Lock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[chan Envelope]struct{})
	}
	h.topics[topic][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.topics[topic], ch)
			if len(h.topics[topic]) == 0 {
				delete(h.topics, topic)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}

func (h *Hub) Subscribers(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[Topic(sessionID)])
}
