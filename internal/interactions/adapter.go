package interactions

import (
	"context"

	"github.com/atendeai/atende-platform/internal/assistant"
)

// AssistantLogger adapts Store to the dialogue engine's interaction logger
// interface.
type AssistantLogger struct {
	store *Store
}

// NewAssistantLogger wraps a store. A nil store yields a logger that drops
// everything.
func NewAssistantLogger(store *Store) *AssistantLogger {
	return &AssistantLogger{store: store}
}

func (a *AssistantLogger) Append(ctx context.Context, entry assistant.InteractionEntry) error {
	if a == nil {
		return nil
	}
	return a.store.Append(ctx, Entry{
		SessionID:    entry.SessionID,
		Kind:         entry.Kind,
		Intent:       entry.Intent,
		UserText:     entry.UserText,
		ReplyText:    entry.ReplyText,
		Service:      entry.Service,
		ScheduledFor: entry.ScheduledFor,
	})
}
