package assistant

import (
	"context"
	"encoding/json"
	"time"

	"github.com/atendeai/atende-platform/pkg/logging"
)

// DialogueEvent is a structured event in the dialogue lifecycle. All events
// share the same base fields for easy filtering/grep.
type DialogueEvent struct {
	Time      string         `json:"time"`
	Event     string         `json:"event"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
}

// EventLogger emits structured JSON events at each decision point in the
// dialogue flow. Designed for fast grep/filter debugging:
//
//	grep '"event":"intent_matched"' /var/log/app.log
//	grep '"session_id":"sess_abc"' /var/log/app.log
type EventLogger struct {
	logger *logging.Logger
}

// NewEventLogger creates a dialogue event logger.
func NewEventLogger(logger *logging.Logger) *EventLogger {
	return &EventLogger{logger: logger}
}

// Log emits a structured dialogue event.
func (e *EventLogger) Log(_ context.Context, event, sessionID string, data map[string]any) {
	if e == nil || e.logger == nil {
		return
	}
	evt := DialogueEvent{
		Time:      time.Now().UTC().Format(time.RFC3339Nano),
		Event:     event,
		SessionID: sessionID,
		Data:      data,
	}
	b, _ := json.Marshal(evt)
	e.logger.Info(string(b))
}

// Convenience methods for common events:

func (e *EventLogger) MessageReceived(ctx context.Context, sessionID, message string) {
	msg := message
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	e.Log(ctx, "message_received", sessionID, map[string]any{"message": msg})
}

func (e *EventLogger) IntentMatched(ctx context.Context, sessionID string, intent Intent) {
	e.Log(ctx, "intent_matched", sessionID, map[string]any{"intent": string(intent)})
}

func (e *EventLogger) ServiceMatched(ctx context.Context, sessionID, service string) {
	e.Log(ctx, "service_matched", sessionID, map[string]any{"service": service})
}

func (e *EventLogger) DateTimeParsed(ctx context.Context, sessionID, date, clock string, available bool) {
	e.Log(ctx, "datetime_parsed", sessionID, map[string]any{
		"date":      date,
		"time":      clock,
		"available": available,
	})
}

func (e *EventLogger) BookingConfirmed(ctx context.Context, sessionID, service, date, clock string) {
	e.Log(ctx, "booking_confirmed", sessionID, map[string]any{
		"service": service,
		"date":    date,
		"time":    clock,
	})
}

func (e *EventLogger) BookingDeclined(ctx context.Context, sessionID, service string) {
	e.Log(ctx, "booking_declined", sessionID, map[string]any{"service": service})
}

func (e *EventLogger) TipSent(ctx context.Context, sessionID string, tipIndex int) {
	e.Log(ctx, "tip_sent", sessionID, map[string]any{"tip_index": tipIndex})
}

func (e *EventLogger) CollaboratorFailed(ctx context.Context, sessionID, op string, err error) {
	e.Log(ctx, "collaborator_failed", sessionID, map[string]any{
		"op":    op,
		"error": err.Error(),
	})
}
