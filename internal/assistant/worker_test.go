package assistant

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atendeai/atende-platform/pkg/logging"
)

type fakeMessenger struct {
	mu      sync.Mutex
	replies []OutboundReply
}

func (f *fakeMessenger) SendReply(_ context.Context, reply OutboundReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, reply)
	return nil
}

func (f *fakeMessenger) all() []OutboundReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]OutboundReply(nil), f.replies...)
}

func TestWorkerProcessesPublishedMessages(t *testing.T) {
	f := newServiceFixture(t)
	logger := logging.NewWithWriter("error", io.Discard)

	queue := NewMemoryQueue(16)
	publisher := NewPublisher(queue, logger)
	messenger := &fakeMessenger{}
	worker := NewWorker(f.svc, queue, messenger, logger, WithWorkerCount(1), WithReceiveWaitSeconds(1))

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	defer func() {
		cancel()
		worker.Wait()
	}()

	require.NoError(t, publisher.EnqueueMessage(ctx, "sess-1", "oi"))
	require.NoError(t, publisher.EnqueueMessage(ctx, "sess-1", "quero agendar"))

	waitFor(t, func() bool { return len(messenger.all()) == 2 })

	replies := messenger.all()
	assert.Equal(t, "sess-1", replies[0].SessionID)
	assert.Equal(t, replyGreeting, replies[0].Message.Text)
	assert.Contains(t, replies[1].Message.Text, "Qual serviço")
}

func TestWorkerSkipsUndecodableJobs(t *testing.T) {
	f := newServiceFixture(t)
	logger := logging.NewWithWriter("error", io.Discard)

	queue := NewMemoryQueue(16)
	messenger := &fakeMessenger{}
	worker := NewWorker(f.svc, queue, messenger, logger, WithWorkerCount(1), WithReceiveWaitSeconds(1))

	ctx, cancel := context.WithCancel(context.Background())
	worker.Start(ctx)
	defer func() {
		cancel()
		worker.Wait()
	}()

	require.NoError(t, queue.Send(ctx, "{not json"))
	require.NoError(t, NewPublisher(queue, logger).EnqueueMessage(ctx, "sess-1", "oi"))

	waitFor(t, func() bool { return len(messenger.all()) == 1 })
	assert.Equal(t, replyGreeting, messenger.all()[0].Message.Text)
}

func TestMemoryQueueSendReceive(t *testing.T) {
	queue := NewMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, queue.Send(ctx, "um"))
	require.NoError(t, queue.Send(ctx, "dois"))

	messages, err := queue.Receive(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "um", messages[0].Body)
	assert.Equal(t, "dois", messages[1].Body)
	assert.NotEmpty(t, messages[0].ID)
	assert.NotEmpty(t, messages[0].ReceiptHandle)
}

func TestMemoryQueueReceiveTimesOut(t *testing.T) {
	queue := NewMemoryQueue(4)

	start := time.Now()
	messages, err := queue.Receive(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestMemoryQueueReceiveHonorsContext(t *testing.T) {
	queue := NewMemoryQueue(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := queue.Receive(ctx, 1, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryQueueRespectsBatchSize(t *testing.T) {
	queue := NewMemoryQueue(8)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, queue.Send(ctx, "msg"))
	}

	messages, err := queue.Receive(ctx, 3, 0)
	require.NoError(t, err)
	assert.Len(t, messages, 3)
}
