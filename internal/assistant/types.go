package assistant

import (
	"time"

	"github.com/google/uuid"
)

// Message senders.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Message is one transcript entry. Messages are immutable once created and
// only ever appended to the transcript.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage creates a transcript message stamped with the current time.
func NewMessage(sender, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Timestamp: time.Now().UTC(),
	}
}

// Stage identifies the active step of the booking flow.
type Stage string

const (
	StageNone         Stage = "none"
	StageService      Stage = "service"
	StageDateTime     Stage = "date_time"
	StageFinalConfirm Stage = "final_confirm"
)

// FlowState is the booking flow's tagged union. Each variant carries exactly
// the fields collected so far, so a date can never exist without a service
// and a confirmation can never be pending without both.
type FlowState interface {
	Stage() Stage
}

// Idle means no booking flow is active; messages go through intent matching.
type Idle struct{}

func (Idle) Stage() Stage { return StageNone }

// AwaitingService means the assistant asked which service to book.
type AwaitingService struct{}

func (AwaitingService) Stage() Stage { return StageService }

// AwaitingDateTime means a service was chosen and the assistant asked for a
// date and time.
type AwaitingDateTime struct {
	Service string
}

func (AwaitingDateTime) Stage() Stage { return StageDateTime }

// AwaitingConfirm means all fields are collected and the assistant asked for
// a final sim/não.
type AwaitingConfirm struct {
	Service string
	Date    time.Time // calendar date, midnight UTC
	Time    string    // normalized "HH:MM"
}

func (AwaitingConfirm) Stage() Stage { return StageFinalConfirm }

// DialogueState is the per-session conversation state: the running
// transcript, the last service the visitor mentioned, and the booking flow
// position. It is persisted after every mutation and rehydrated on widget
// mount.
type DialogueState struct {
	Transcript  []Message
	LastService string
	Flow        FlowState
}

// NewDialogueState returns a fresh empty state in free intent-matching mode.
func NewDialogueState() *DialogueState {
	return &DialogueState{Flow: Idle{}}
}

// Append adds a message to the transcript.
func (s *DialogueState) Append(msg Message) {
	s.Transcript = append(s.Transcript, msg)
}

// Stage reports the active flow stage.
func (s *DialogueState) Stage() Stage {
	if s.Flow == nil {
		return StageNone
	}
	return s.Flow.Stage()
}

// PendingAppointment reports the partially collected appointment fields.
// ok is true only in the date_time and final_confirm stages.
func (s *DialogueState) PendingAppointment() (service string, date time.Time, clock string, ok bool) {
	switch f := s.Flow.(type) {
	case AwaitingDateTime:
		return f.Service, time.Time{}, "", true
	case AwaitingConfirm:
		return f.Service, f.Date, f.Time, true
	default:
		return "", time.Time{}, "", false
	}
}
