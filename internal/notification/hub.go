package notification

import (
	"encoding/json"
	"sync"

	"go-hris-workflow/internal/authz"
	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBuffer = 64

// Message is one frame delivered to a live subscriber.
type Message struct {
	Event     string
	RequestID string
	Data      []byte
}

type Subscriber struct {
	ID       string
	Identity authz.Identity
	Messages chan Message
}

// Hub tracks live subscribers on this instance. Sends never block: a
// subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]*Subscriber
	gate   *authz.Gate
	buffer int
	logger *zap.Logger
}

func NewHub(gate *authz.Gate, buffer int, logger ...*zap.Logger) *Hub {
	l := zap.L().Named("notification.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub")
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Hub{
		subs:   make(map[string]*Subscriber),
		gate:   gate,
		buffer: buffer,
		logger: l,
	}
}

func (h *Hub) Subscribe(id authz.Identity) *Subscriber {
	sub := &Subscriber{
		ID:       id.ID + "_" + uuid.NewString(),
		Identity: id,
		Messages: make(chan Message, h.buffer),
	}

	h.mu.Lock()
	h.subs[sub.ID] = sub
	total := len(h.subs)
	h.mu.Unlock()

	h.logger.Debug("subscriber registered",
		zap.String("subscriber_id", sub.ID),
		zap.String("user_id", id.ID),
		zap.Int("total", total),
	)
	return sub
}

func (h *Hub) Unsubscribe(subID string) {
	h.mu.Lock()
	sub, ok := h.subs[subID]
	if ok {
		close(sub.Messages)
		delete(h.subs, subID)
	}
	total := len(h.subs)
	h.mu.Unlock()

	if ok {
		h.logger.Debug("subscriber unregistered", zap.String("subscriber_id", subID), zap.Int("total", total))
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Recipient reports whether a subscriber should hear about a new request:
// anyone who may see it in a list, plus anyone who may decide on it.
func (h *Hub) Recipient(id authz.Identity, scope domain.RequestScope) bool {
	return h.gate.CanView(id, scope) || h.gate.Eligible(id, scope)
}

// Publish fans the event out and returns how many subscribers received it.
func (h *Hub) Publish(ev events.RequestCreatedEvent) (int, error) {
	scope, err := ev.Scope()
	if err != nil {
		return 0, err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}
	msg := Message{Event: ev.Type, RequestID: ev.AggregateID(), Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subs {
		if !h.Recipient(sub.Identity, scope) {
			continue
		}
		select {
		case sub.Messages <- msg:
			delivered++
		default:
			h.logger.Warn("subscriber buffer full, dropping event",
				zap.String("subscriber_id", sub.ID),
				zap.String("request_id", msg.RequestID),
			)
		}
	}
	return delivered, nil
}

// Close ends every live subscription so stream handlers can return.
func (h *Hub) Close() {
	h.mu.Lock()
	for id, sub := range h.subs {
		close(sub.Messages)
		delete(h.subs, id)
	}
	h.mu.Unlock()
	h.logger.Info("hub closed")
}
