package assistant

import (
	"context"
	"fmt"

	"github.com/atendeai/atende-platform/pkg/logging"
)

// Publisher enqueues visitor messages for asynchronous processing.
type Publisher struct {
	queue  queueClient
	logger *logging.Logger
}

// NewPublisher creates a queue-backed publisher.
func NewPublisher(queue queueClient, logger *logging.Logger) *Publisher {
	if queue == nil {
		panic("assistant: queue cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Publisher{
		queue:  queue,
		logger: logger,
	}
}

// EnqueueMessage publishes a process-message job for a session.
func (p *Publisher) EnqueueMessage(ctx context.Context, sessionID, text string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	payload, body, err := encodePayload(queuePayload{
		Kind:      jobTypeMessage,
		SessionID: sessionID,
		Text:      text,
	})
	if err != nil {
		return err
	}

	if err := p.queue.Send(ctx, body); err != nil {
		return fmt.Errorf("assistant: failed to enqueue job: %w", err)
	}

	p.logger.Debug("assistant job enqueued", "job_id", payload.ID, "session_id", sessionID)
	return nil
}
