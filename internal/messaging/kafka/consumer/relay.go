package consumer

import (
	"context"
	"encoding/json"

	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// Sink receives events pulled off the topic, usually the local hub.
type Sink interface {
	Emit(ctx context.Context, event events.RequestCreatedEvent) error
}

// RelayRequestLifecycle pushes request lifecycle events from Kafka into the
// local sink. Each API instance uses its own consumer group so every
// instance sees every event.
func RelayRequestLifecycle(
	ctx context.Context,
	reader MessageReader,
	sink Sink,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.request_lifecycle")
	log.Info("request lifecycle relay started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("request lifecycle relay stopped")
				return
			}
			log.Error("fetch request lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.RequestCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode request lifecycle event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			commit(ctx, reader, msg, log)
			continue
		}

		if event.Type != events.RequestCreatedType {
			log.Debug("skipping request lifecycle event", zap.String("type", event.Type))
			commit(ctx, reader, msg, log)
			continue
		}

		emitCtx := ctx
		if rid := headerValue(msg, "x-request-id"); rid != "" {
			emitCtx = contextutil.WithRequestID(ctx, rid)
		}
		// live delivery best effort, gagal kirim tidak di-retry
		if err := sink.Emit(emitCtx, event); err != nil {
			log.Warn("relay request lifecycle event failed",
				zap.String("request_id", event.AggregateID()),
				zap.Error(err),
			)
		}

		commit(ctx, reader, msg, log)
	}
}

func commit(ctx context.Context, reader MessageReader, msg kafkago.Message, log *zap.Logger) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit request lifecycle message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
	}
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
