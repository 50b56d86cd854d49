package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ollender/ollender/internal/domain"
	"github.com/ollender/ollender/internal/scheduling"
)

// TitlePrefix marks events this system committed to the calendar.
const TitlePrefix = "[Ollender] "

// Calendar is the calendar collaborator boundary.
type Calendar interface {
	ListUpcomingEvents(ctx context.Context, maxResults int64) ([]domain.Event, error)
	CreateEvent(ctx context.Context, ev domain.Event) (string, error)
}

// ChatSession is the conversational channel the orchestrators hand to the
// reasoning core. *llm.Session satisfies it.
type ChatSession interface {
	Ask(ctx context.Context, prompt string) (string, error)
	AskContinuing(ctx context.Context, prompt string) (string, error)
	ResetMemory()
}

// EventServiceConfig tunes the scheduling orchestrator.
type EventServiceConfig struct {
	// MaxUpcoming bounds how many calendar events are fetched as context.
	MaxUpcoming int64
	// MultiStep selects the propose/validate/select pipeline; when false a
	// single propose-only round is used.
	MultiStep bool
}

// DefaultEventServiceConfig mirrors the defaults the CLI ships with.
func DefaultEventServiceConfig() EventServiceConfig {
	return EventServiceConfig{MaxUpcoming: 30, MultiStep: true}
}

// EventService schedules events: it fetches calendar context, drives the
// reasoning core, and commits the chosen slot. It is the only consumer of
// the core. On any core failure it returns without writing to the calendar.
type EventService struct {
	calendar Calendar
	session  ChatSession
	cfg      EventServiceConfig
	logger   *slog.Logger
}

// NewEventService creates the scheduling orchestrator.
func NewEventService(calendar Calendar, session ChatSession, cfg EventServiceConfig, logger *slog.Logger) *EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventService{calendar: calendar, session: session, cfg: cfg, logger: logger}
}

// ScheduleResult is the committed outcome of a scheduling run.
type ScheduleResult struct {
	Event   domain.Event
	EventID string
}

// Schedule finds a slot for the event and commits it. The input event is
// unscheduled user input; the committed event carries the model-chosen
// times and the "[Ollender] " title prefix.
func (s *EventService) Schedule(ctx context.Context, event domain.Event) (*ScheduleResult, error) {
	if err := event.Validate(); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}

	upcoming, err := s.calendar.ListUpcomingEvents(ctx, s.cfg.MaxUpcoming)
	if err != nil {
		return nil, fmt.Errorf("fetching upcoming events: %w", err)
	}
	s.logger.Info("scheduling event", "title", event.Title,
		"upcoming", len(upcoming), "multi_step", s.cfg.MultiStep)

	var chosen domain.Event
	if s.cfg.MultiStep {
		chosen, err = scheduling.NewReasoner(s.session, event, upcoming, s.logger).Run(ctx)
	} else {
		chosen, err = s.singleRound(ctx, event, upcoming)
	}
	if err != nil {
		s.logger.Error("scheduling pipeline failed, calendar left unchanged", "error", err)
		return nil, err
	}

	committed := domain.Event{
		Title:       TitlePrefix + chosen.Title,
		Description: chosen.Description,
		StartTime:   chosen.StartTime,
		EndTime:     chosen.EndTime,
	}
	if !committed.Scheduled() {
		return nil, fmt.Errorf("%w: chosen slot has no concrete times", scheduling.ErrSchema)
	}

	id, err := s.calendar.CreateEvent(ctx, committed)
	if err != nil {
		return nil, fmt.Errorf("committing event: %w", err)
	}

	s.logger.Info("event scheduled", "title", committed.Title, "id", id,
		"start", domain.FormatTime(committed.StartTime), "end", domain.FormatTime(committed.EndTime))
	return &ScheduleResult{Event: committed, EventID: id}, nil
}

// singleRound is the propose-only path: one stateless query returning a
// flat object instead of the staged event_data schema.
func (s *EventService) singleRound(ctx context.Context, event domain.Event, upcoming []domain.Event) (domain.Event, error) {
	prompt := scheduling.SingleRoundPrompt(event, upcoming, time.Now())

	reply, err := s.session.Ask(ctx, prompt)
	if err != nil {
		return domain.Event{}, fmt.Errorf("single-round query: %w", err)
	}

	return scheduling.ParseScheduledEvent(reply)
}
