package notification

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka"
	"go-hris-workflow/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Emitter interface {
	Emit(ctx context.Context, event events.RequestCreatedEvent) error
}

// HubEmitter delivers to subscribers connected to this instance.
type HubEmitter struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHubEmitter(hub *Hub, logger ...*zap.Logger) *HubEmitter {
	l := zap.L().Named("notification.hub_emitter")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.hub_emitter")
	}
	return &HubEmitter{hub: hub, logger: l}
}

func (e *HubEmitter) Emit(ctx context.Context, event events.RequestCreatedEvent) error {
	n, err := e.hub.Publish(event)
	if err != nil {
		return err
	}
	e.logger.Debug("event delivered",
		zap.String("type", event.Type),
		zap.String("request_id", event.AggregateID()),
		zap.Int("subscribers", n),
		zap.String("trace_id", contextutil.GetRequestID(ctx)),
	)
	return nil
}

// OutboxEmitter stores the event for the outbox worker to publish to Kafka.
type OutboxEmitter struct {
	repo  kafka.OutboxRepository
	topic string
}

func NewOutboxEmitter(repo kafka.OutboxRepository, topic string) *OutboxEmitter {
	if topic == "" {
		topic = events.RequestLifecycleTopic
	}
	return &OutboxEmitter{repo: repo, topic: topic}
}

func (e *OutboxEmitter) Emit(ctx context.Context, event events.RequestCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outbox := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: events.RequestAggregateType,
		AggregateID:   event.AggregateID(),
		EventType:     event.Type,
		Topic:         e.topic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outbox); err != nil {
		return err
	}
	return e.repo.Create(ctx, outbox)
}

// AsyncEmitter runs the inner emitter in the background with its own
// deadline so a slow channel never delays the HTTP response.
type AsyncEmitter struct {
	inner   Emitter
	timeout time.Duration
	wg      sync.WaitGroup
	logger  *zap.Logger
}

func NewAsyncEmitter(inner Emitter, timeout time.Duration, logger ...*zap.Logger) *AsyncEmitter {
	l := zap.L().Named("notification.async")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.async")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AsyncEmitter{inner: inner, timeout: timeout, logger: l}
}

func (e *AsyncEmitter) Emit(ctx context.Context, event events.RequestCreatedEvent) error {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		// request sudah selesai, jangan ikut ter-cancel
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		if err := e.inner.Emit(bgCtx, event); err != nil {
			e.logger.Warn("async emit failed",
				zap.String("type", event.Type),
				zap.String("request_id", event.AggregateID()),
				zap.Error(err),
			)
		}
	}()
	return nil
}

// Wait blocks until in-flight emits finish or ctx is done.
func (e *AsyncEmitter) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// MultiEmitter calls every emitter and joins their errors.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(ctx context.Context, event events.RequestCreatedEvent) error {
	var errs []error
	for _, e := range m {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
