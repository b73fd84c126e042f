package assistant

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/atendeai/atende-platform/internal/catalog"
	"github.com/atendeai/atende-platform/internal/observability/metrics"
	"github.com/atendeai/atende-platform/pkg/logging"
)

// SlotProvider reads the bookable time-of-day strings for a service/date.
// The returned set is already filtered for taken slots; the flow only
// validates membership.
type SlotProvider interface {
	BookableTimes(ctx context.Context, service string, date time.Time) ([]string, error)
}

// AppointmentBooker writes confirmed appointments and reads a visitor's
// nearest upcoming one.
type AppointmentBooker interface {
	CreateConfirmed(ctx context.Context, sessionID, service string, startsAt time.Time) error
	NextUpcoming(ctx context.Context, sessionID string, now time.Time) (service string, startsAt time.Time, found bool, err error)
}

// InteractionEntry is one structured interaction log record.
type InteractionEntry struct {
	SessionID    string
	Kind         string // "reply" or "booking"
	Intent       string
	UserText     string
	ReplyText    string
	Service      string
	ScheduledFor *time.Time
}

// InteractionLogger appends interaction log entries. Calls are fire-and-
// forget: failures are logged and counted but never surface to the visitor.
type InteractionLogger interface {
	Append(ctx context.Context, entry InteractionEntry) error
}

// Service runs the dialogue: intent matching when idle, the slot-filling
// booking flow otherwise. Message handling is serialized per session.
type Service struct {
	store        *StateStore
	catalog      *catalog.Catalog
	slots        SlotProvider
	bookings     AppointmentBooker
	interactions InteractionLogger
	events       *EventLogger
	metrics      *metrics.AssistantMetrics
	logger       *logging.Logger

	typingDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration)
	now         func() time.Time

	mu           sync.Mutex
	sessionLocks map[string]*sync.Mutex
}

// ServiceConfig wires the engine's collaborators.
type ServiceConfig struct {
	Store        *StateStore
	Catalog      *catalog.Catalog
	Slots        SlotProvider
	Bookings     AppointmentBooker
	Interactions InteractionLogger
	Events       *EventLogger
	Metrics      *metrics.AssistantMetrics
	Logger       *logging.Logger
	TypingDelay  time.Duration
}

// NewService creates the dialogue engine.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{
		store:        cfg.Store,
		catalog:      cat,
		slots:        cfg.Slots,
		bookings:     cfg.Bookings,
		interactions: cfg.Interactions,
		events:       cfg.Events,
		metrics:      cfg.Metrics,
		logger:       logger,
		typingDelay:  cfg.TypingDelay,
		sleep:        sleepContext,
		now:          func() time.Time { return time.Now().UTC() },
		sessionLocks: make(map[string]*sync.Mutex),
	}
}

// HandleMessage processes one visitor submission to completion: append to
// the transcript, run the state machine, emit the reply after the typing
// delay, and persist after every mutation. Submissions for the same session
// are serialized; every branch produces a reply.
func (s *Service) HandleMessage(ctx context.Context, sessionID, text string) (Message, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		// Infra trouble loading state degrades to a fresh session rather
		// than a visitor-facing error.
		s.logger.Error("assistant: state load failed", "session_id", sessionID, "error", err)
		state = NewDialogueState()
	}

	s.events.MessageReceived(ctx, sessionID, text)
	s.metrics.ObserveMessage(SenderUser)

	userMsg := NewMessage(SenderUser, text)
	state.Append(userMsg)
	s.persist(ctx, sessionID, state)

	started := s.now()
	s.sleep(ctx, s.typingDelay)

	intent, replyText := s.respond(ctx, sessionID, state, text)

	reply := NewMessage(SenderAssistant, replyText)
	state.Append(reply)
	s.persist(ctx, sessionID, state)
	s.metrics.ObserveMessage(SenderAssistant)
	s.metrics.ObserveReplyLatency(s.now().Sub(started).Seconds())

	s.logInteraction(ctx, InteractionEntry{
		SessionID: sessionID,
		Kind:      "reply",
		Intent:    string(intent),
		UserText:  text,
		ReplyText: replyText,
		Service:   state.LastService,
	})

	return reply, nil
}

// InjectTip appends one proactive tip message to the transcript. Tips
// rotate; the caller owns the idle timer that decides when to fire.
func (s *Service) InjectTip(ctx context.Context, sessionID string) (Message, error) {
	unlock := s.lockSession(sessionID)
	defer unlock()

	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Message{}, err
	}

	idx := countAssistantMessages(state.Transcript) % len(tipMessages)
	tip := NewMessage(SenderAssistant, tipMessages[idx])
	state.Append(tip)
	s.persist(ctx, sessionID, state)

	s.events.TipSent(ctx, sessionID, idx)
	s.metrics.ObserveTip()
	return tip, nil
}

// History returns the transcript for a session.
func (s *Service) History(ctx context.Context, sessionID string) ([]Message, error) {
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return state.Transcript, nil
}

// respond runs one turn of the state machine and returns the matched intent
// (empty while a flow is active) and the reply text.
func (s *Service) respond(ctx context.Context, sessionID string, state *DialogueState, text string) (Intent, string) {
	switch f := state.Flow.(type) {
	case AwaitingService:
		return "", s.handleServiceStage(ctx, sessionID, state, text)
	case AwaitingDateTime:
		return "", s.handleDateTimeStage(ctx, sessionID, state, f, text)
	case AwaitingConfirm:
		return "", s.handleConfirmStage(ctx, sessionID, state, f, text)
	default:
		return s.handleIntent(ctx, sessionID, state, text)
	}
}

func (s *Service) handleIntent(ctx context.Context, sessionID string, state *DialogueState, text string) (Intent, string) {
	intent := MatchIntent(text)
	s.events.IntentMatched(ctx, sessionID, intent)
	s.metrics.ObserveIntent(string(intent))

	switch intent {
	case IntentGreeting:
		return intent, replyGreeting
	case IntentStatusCheck:
		return intent, s.statusCheckReply(ctx, sessionID)
	case IntentCancel:
		state.LastService = ""
		return intent, replyCancelInfo
	case IntentReschedule:
		return intent, replyRescheduleInfo
	case IntentStartBooking:
		state.Flow = AwaitingService{}
		return intent, formatList(replyAskService, s.catalog.Names())
	case IntentHours:
		return intent, replyHours
	case IntentServices:
		return intent, servicesReply(s.catalog.Names())
	case IntentPayment:
		return intent, replyPayment
	case IntentPromotion:
		return intent, replyPromotion
	case IntentHuman:
		return intent, replyHuman
	case IntentThanks:
		return intent, replyThanks
	case IntentGoodbye:
		state.LastService = ""
		return intent, replyGoodbye
	default:
		state.LastService = ""
		return IntentFallback, replyFallback
	}
}

// statusCheckReply reads (never writes) the visitor's appointments and
// reports the nearest upcoming one.
func (s *Service) statusCheckReply(ctx context.Context, sessionID string) string {
	if s.bookings == nil {
		return replyNoUpcoming
	}
	service, startsAt, found, err := s.bookings.NextUpcoming(ctx, sessionID, s.now())
	if err != nil {
		s.events.CollaboratorFailed(ctx, sessionID, "appointments.next_upcoming", err)
		s.metrics.ObserveCollaboratorFailure("appointments.next_upcoming")
		return replyNoUpcoming
	}
	if !found {
		return replyNoUpcoming
	}
	return upcomingReply(service, startsAt)
}

// handleServiceStage interprets the message as a service-name attempt. A
// repeated "quero agendar" here is just a failed attempt, not a second flow
// start, so the pending state is never duplicated.
func (s *Service) handleServiceStage(ctx context.Context, sessionID string, state *DialogueState, text string) string {
	svc, ok := s.catalog.Match(text)
	if !ok {
		return formatList(replyServiceNotRecognized, s.catalog.Names())
	}

	state.LastService = svc.Name
	state.Flow = AwaitingDateTime{Service: svc.Name}
	s.events.ServiceMatched(ctx, sessionID, svc.Name)
	return fmt.Sprintf(replyAskDateTime, svc.Name)
}

func (s *Service) handleDateTimeStage(ctx context.Context, sessionID string, state *DialogueState, f AwaitingDateTime, text string) string {
	date, clock, ok := ExtractDateTime(text, s.now())
	if !ok {
		return replyInvalidDateTime
	}

	available, err := s.isBookable(ctx, f.Service, date, clock)
	if err != nil {
		s.events.CollaboratorFailed(ctx, sessionID, "appointments.bookable_times", err)
		s.metrics.ObserveCollaboratorFailure("appointments.bookable_times")
		return replyInvalidDateTime
	}
	s.events.DateTimeParsed(ctx, sessionID, FormatDate(date), clock, available)
	if !available {
		return replyInvalidDateTime
	}

	state.Flow = AwaitingConfirm{Service: f.Service, Date: date, Time: clock}
	return formatConfirm(f.Service, date, clock)
}

func (s *Service) isBookable(ctx context.Context, service string, date time.Time, clock string) (bool, error) {
	if s.slots == nil {
		// No availability source configured, accept any requested time.
		return true, nil
	}
	slots, err := s.slots.BookableTimes(ctx, service, date)
	if err != nil {
		return false, err
	}
	for _, slot := range slots {
		if slot == clock {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) handleConfirmStage(ctx context.Context, sessionID string, state *DialogueState, f AwaitingConfirm, text string) string {
	switch {
	case isAffirmative(text):
		s.confirmBooking(ctx, sessionID, f)
		state.Flow = Idle{}
		state.LastService = ""
		return formatConfirmed(f.Service, f.Date, f.Time)
	case isNegative(text):
		s.events.BookingDeclined(ctx, sessionID, f.Service)
		s.metrics.ObserveBooking("declined")
		state.Flow = Idle{}
		state.LastService = ""
		return replyBookingDeclined
	default:
		return replyConfirmRetry
	}
}

// confirmBooking is the only transition that writes: one appointment row and
// one booking log entry, both best-effort with no transactional coupling.
// Failures are recorded operationally but the visitor still sees success.
func (s *Service) confirmBooking(ctx context.Context, sessionID string, f AwaitingConfirm) {
	startsAt := combineDateTime(f.Date, f.Time)

	if s.bookings != nil {
		if err := s.bookings.CreateConfirmed(ctx, sessionID, f.Service, startsAt); err != nil {
			s.events.CollaboratorFailed(ctx, sessionID, "appointments.create", err)
			s.metrics.ObserveCollaboratorFailure("appointments.create")
		}
	}

	s.logInteraction(ctx, InteractionEntry{
		SessionID:    sessionID,
		Kind:         "booking",
		Service:      f.Service,
		ScheduledFor: &startsAt,
	})

	s.events.BookingConfirmed(ctx, sessionID, f.Service, FormatDate(f.Date), f.Time)
	s.metrics.ObserveBooking("confirmed")
}

func (s *Service) logInteraction(ctx context.Context, entry InteractionEntry) {
	if s.interactions == nil {
		return
	}
	if err := s.interactions.Append(ctx, entry); err != nil {
		s.events.CollaboratorFailed(ctx, entry.SessionID, "interactions.append", err)
		s.metrics.ObserveCollaboratorFailure("interactions.append")
	}
}

func (s *Service) persist(ctx context.Context, sessionID string, state *DialogueState) {
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		s.logger.Error("assistant: state save failed", "session_id", sessionID, "error", err)
	}
}

// lockSession serializes processing per session.
func (s *Service) lockSession(sessionID string) func() {
	s.mu.Lock()
	lock, ok := s.sessionLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.sessionLocks[sessionID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func isAffirmative(text string) bool {
	msg := strings.ToLower(text)
	if strings.Contains(msg, "confirmar") || strings.Contains(msg, "confirmo") {
		return true
	}
	return word("sim")(msg)
}

func isNegative(text string) bool {
	msg := strings.ToLower(text)
	if strings.Contains(msg, "cancelar") {
		return true
	}
	return word("não")(msg) || word("nao")(msg)
}

func combineDateTime(date time.Time, clock string) time.Time {
	hour, minute := 0, 0
	if len(clock) == 5 {
		hour, _ = strconv.Atoi(clock[:2])
		minute, _ = strconv.Atoi(clock[3:])
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, time.UTC)
}

func formatConfirm(service string, date time.Time, clock string) string {
	return fmt.Sprintf(replyConfirm, service, FormatDate(date), clock)
}

func formatConfirmed(service string, date time.Time, clock string) string {
	return fmt.Sprintf(replyBookingConfirmed, service, FormatDate(date), clock)
}

func formatList(template string, names []string) string {
	return fmt.Sprintf(template, strings.Join(names, ", "))
}

func countAssistantMessages(transcript []Message) int {
	n := 0
	for _, msg := range transcript {
		if msg.Sender == SenderAssistant {
			n++
		}
	}
	return n
}

// sleepContext waits for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
