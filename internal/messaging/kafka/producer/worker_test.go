package producer_test

import (
	"context"
	"errors"
	"testing"

	"go-hris-workflow/internal/messaging/kafka"
	kafkaMock "go-hris-workflow/internal/messaging/kafka/mock"
	"go-hris-workflow/internal/messaging/kafka/producer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	fail     map[string]error
	messages []kafkago.Message
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := f.fail[string(m.Key)]; err != nil {
			return err
		}
		f.messages = append(f.messages, m)
	}
	return nil
}

func TestWorker_ProcessBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and marks sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{}

		repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o-1", AggregateID: "req-1", AggregateType: "approval_request", EventType: "request.created", Topic: "t", Payload: []byte(`{}`), RequestID: "rid-1"},
			{ID: "o-2", AggregateID: "req-2", AggregateType: "approval_request", EventType: "request.created", Topic: "t", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkSent(ctx, "o-1").Return(nil)
		repo.EXPECT().MarkSent(ctx, "o-2").Return(nil)

		sent, err := producer.NewWorker(repo, writer, 0, zap.NewNop()).ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		require.Len(t, writer.messages, 2)
		assert.Equal(t, "req-1", string(writer.messages[0].Key))
		assert.Len(t, writer.messages[0].Headers, 3)
		assert.Len(t, writer.messages[1].Headers, 2)
	})

	t.Run("publish failure schedules retry", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		writer := &fakeWriter{fail: map[string]error{"req-1": errors.New("leader not available")}}

		repo.EXPECT().ListPending(ctx, 50).Return([]kafka.OutboxEvent{
			{ID: "o-1", AggregateID: "req-1", Topic: "t", Payload: []byte(`{}`)},
		}, nil)
		repo.EXPECT().MarkFailed(ctx, "o-1", "leader not available").Return(nil)

		sent, err := producer.NewWorker(repo, writer, 0, zap.NewNop()).ProcessBatch(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
	})

	t.Run("list failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := kafkaMock.NewMockOutboxRepository(ctrl)
		repo.EXPECT().ListPending(ctx, 50).Return(nil, errors.New("db down"))

		_, err := producer.NewWorker(repo, &fakeWriter{}, 0, zap.NewNop()).ProcessBatch(ctx)
		assert.Error(t, err)
	})
}
