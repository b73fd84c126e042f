package webchat

import (
	"context"
	"time"

	"github.com/atendeai/atende-platform/internal/assistant"
	"github.com/atendeai/atende-platform/pkg/logging"
)

// ReplyMessenger implements assistant.ReplyMessenger for web chat. It
// pushes processed replies back through the WebSocket connection. The
// engine already persisted the message, so a closed socket just means the
// visitor reads it from history on reconnect.
type ReplyMessenger struct {
	handler *Handler
	logger  *logging.Logger
}

// NewReplyMessenger creates a webchat reply messenger.
func NewReplyMessenger(handler *Handler, logger *logging.Logger) *ReplyMessenger {
	if logger == nil {
		logger = logging.Default()
	}
	return &ReplyMessenger{handler: handler, logger: logger}
}

// SendReply pushes the reply to the visitor's WebSocket.
func (m *ReplyMessenger) SendReply(_ context.Context, reply assistant.OutboundReply) error {
	m.handler.SendToSession(reply.SessionID, OutboundMessage{
		Type:      "message",
		Role:      reply.Message.Sender,
		Text:      reply.Message.Text,
		Timestamp: reply.Message.Timestamp.Format(time.RFC3339),
	})

	m.logger.Debug("webchat: reply sent",
		"session_id", reply.SessionID,
		"length", len(reply.Message.Text),
	)
	return nil
}
