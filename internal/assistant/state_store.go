package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const stateKeyPrefix = "dialogue_state:"

// defaultSessionTTL keeps abandoned sessions around for a week; the state
// deliberately outlives the browser session so the widget can rehydrate.
const defaultSessionTTL = 7 * 24 * time.Hour

// StateStore persists DialogueState per session in Redis.
type StateStore struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

// NewStateStore creates a Redis-backed dialogue state store.
func NewStateStore(redisClient *redis.Client) *StateStore {
	if redisClient == nil {
		return nil
	}
	return &StateStore{
		redis:  redisClient,
		tracer: otel.Tracer("atende.internal.assistant.state"),
		ttl:    defaultSessionTTL,
	}
}

// WithTTL overrides the session TTL.
func (s *StateStore) WithTTL(ttl time.Duration) *StateStore {
	if s != nil && ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// storedState is the wire form of DialogueState. The flow union flattens to
// a stage tag plus the pending fields that stage carries.
type storedState struct {
	Transcript  []Message      `json:"transcript"`
	LastService string         `json:"last_service,omitempty"`
	Stage       Stage          `json:"stage"`
	Pending     *storedPending `json:"pending,omitempty"`
}

type storedPending struct {
	Service string `json:"service"`
	Date    string `json:"date,omitempty"` // "2006-01-02"
	Time    string `json:"time,omitempty"` // "HH:MM"
}

// Save serializes the state. Called after every mutation.
func (s *StateStore) Save(ctx context.Context, sessionID string, state *DialogueState) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if sessionID == "" {
		return errors.New("assistant: sessionID required")
	}
	if state == nil {
		state = NewDialogueState()
	}

	ctx, span := s.tracer.Start(ctx, "assistant.state.save")
	defer span.End()

	data, err := json.Marshal(encodeState(state))
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: marshal dialogue state: %w", err)
	}
	if err := s.redis.Set(ctx, stateKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("assistant: persist dialogue state: %w", err)
	}
	return nil
}

// Load rehydrates the state for a session. A missing or malformed record
// never fails into the dialogue: both yield a fresh empty state in
// intent-matching mode. Messages missing a timestamp get one defaulted.
func (s *StateStore) Load(ctx context.Context, sessionID string) (*DialogueState, error) {
	if s == nil || s.redis == nil {
		return NewDialogueState(), nil
	}
	if sessionID == "" {
		return NewDialogueState(), nil
	}

	ctx, span := s.tracer.Start(ctx, "assistant.state.load")
	defer span.End()

	data, err := s.redis.Get(ctx, stateKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return NewDialogueState(), nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("assistant: load dialogue state: %w", err)
	}

	var stored storedState
	if err := json.Unmarshal(data, &stored); err != nil {
		// Corrupt state is discarded rather than wedging the widget.
		span.RecordError(err)
		return NewDialogueState(), nil
	}
	return decodeState(stored), nil
}

// Delete removes a session's state.
func (s *StateStore) Delete(ctx context.Context, sessionID string) error {
	if s == nil || s.redis == nil {
		return nil
	}
	if err := s.redis.Del(ctx, stateKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("assistant: delete dialogue state: %w", err)
	}
	return nil
}

func encodeState(state *DialogueState) storedState {
	out := storedState{
		Transcript:  state.Transcript,
		LastService: state.LastService,
		Stage:       state.Stage(),
	}
	switch f := state.Flow.(type) {
	case AwaitingDateTime:
		out.Pending = &storedPending{Service: f.Service}
	case AwaitingConfirm:
		out.Pending = &storedPending{
			Service: f.Service,
			Date:    f.Date.Format("2006-01-02"),
			Time:    f.Time,
		}
	}
	return out
}

func decodeState(stored storedState) *DialogueState {
	state := NewDialogueState()
	state.LastService = stored.LastService

	now := time.Now().UTC()
	for _, msg := range stored.Transcript {
		if msg.Timestamp.IsZero() {
			msg.Timestamp = now
		}
		state.Transcript = append(state.Transcript, msg)
	}

	switch stored.Stage {
	case StageService:
		state.Flow = AwaitingService{}
	case StageDateTime:
		if stored.Pending != nil && stored.Pending.Service != "" {
			state.Flow = AwaitingDateTime{Service: stored.Pending.Service}
		}
	case StageFinalConfirm:
		if stored.Pending != nil && stored.Pending.Service != "" && stored.Pending.Time != "" {
			if date, err := time.ParseInLocation("2006-01-02", stored.Pending.Date, time.UTC); err == nil {
				state.Flow = AwaitingConfirm{
					Service: stored.Pending.Service,
					Date:    date,
					Time:    stored.Pending.Time,
				}
			}
		}
	}
	// Unknown stages and inconsistent pending payloads fall back to Idle,
	// keeping the pendingAppointment-iff-stage invariant on rehydrate.
	return state
}

func stateKey(sessionID string) string {
	return stateKeyPrefix + sessionID
}
