package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/messaging/kafka/consumer"
	"go-hris-workflow/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeReader serves queued messages then blocks until ctx is cancelled.
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafkago.Message
	committed []int64
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	f.mu.Lock()
	if len(f.queue) > 0 {
		msg := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return msg, nil
	}
	f.mu.Unlock()
	<-ctx.Done()
	return kafkago.Message{}, ctx.Err()
}

func (f *fakeReader) CommitMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

type sinkFunc func(ctx context.Context, ev events.RequestCreatedEvent) error

func (f sinkFunc) Emit(ctx context.Context, ev events.RequestCreatedEvent) error { return f(ctx, ev) }

func TestRelayRequestLifecycle(t *testing.T) {
	created, err := events.NewRequestCreated("req-1", map[string]string{"id": "req-1"}, time.Now())
	require.NoError(t, err)
	createdJSON, err := json.Marshal(created)
	require.NoError(t, err)

	other, err := json.Marshal(map[string]any{"type": "request.decided", "payload": map[string]string{}})
	require.NoError(t, err)

	reader := &fakeReader{queue: []kafkago.Message{
		{Offset: 1, Value: []byte("not json")},
		{Offset: 2, Value: other},
		{Offset: 3, Value: createdJSON, Headers: []kafkago.Header{{Key: "x-request-id", Value: []byte("rid-9")}}},
		{Offset: 4, Value: createdJSON},
	}}

	var (
		mu       sync.Mutex
		received []string
		traces   []string
	)
	done := make(chan struct{})
	sink := sinkFunc(func(ctx context.Context, ev events.RequestCreatedEvent) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, ev.AggregateID())
		traces = append(traces, contextutil.GetRequestID(ctx))
		if len(received) == 2 {
			close(done)
			return errors.New("hub closed")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		consumer.RelayRequestLifecycle(ctx, reader, sink, zap.NewNop())
		close(stopped)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not deliver events")
	}
	cancel()
	<-stopped

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"req-1", "req-1"}, received)
	assert.Equal(t, []string{"rid-9", ""}, traces)

	reader.mu.Lock()
	defer reader.mu.Unlock()
	assert.Equal(t, []int64{1, 2, 3, 4}, reader.committed)
}
