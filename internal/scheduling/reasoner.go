package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ollender/ollender/internal/domain"
)

// Stage identifies one round of the multi-step reasoning pipeline.
type Stage string

const (
	StagePropose  Stage = "propose"
	StageValidate Stage = "validate"
	StageSelect   Stage = "select"
)

// proposedSlots is how many candidates the propose stage asks for.
const proposedSlots = 5

// ChatSession is the conversational channel the reasoner drives. The
// reasoner owns the session exclusively for the duration of one run.
type ChatSession interface {
	AskContinuing(ctx context.Context, prompt string) (string, error)
	ResetMemory()
}

// Reasoner sequences the propose, validate and select stages over a single
// chat session and yields one selected event. The event being scheduled and
// the upcoming-event list are read-only; the reasoner only ever produces new
// candidates.
type Reasoner struct {
	session  ChatSession
	event    domain.Event
	upcoming []domain.Event
	logger   *slog.Logger
	now      func() time.Time
}

// NewReasoner creates a Reasoner for one scheduling run.
func NewReasoner(session ChatSession, event domain.Event, upcoming []domain.Event, logger *slog.Logger) *Reasoner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reasoner{
		session:  session,
		event:    event,
		upcoming: upcoming,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the three stages in strict order and returns the selected
// slot. Wall-clock time is captured once at entry so all three prompts
// reason about the same point in time. Session memory is reset on every
// exit path, success or failure.
func (r *Reasoner) Run(ctx context.Context) (domain.Event, error) {
	now := r.now()
	defer r.session.ResetMemory()

	proposed, err := r.runStage(ctx, StagePropose, ProposePrompt(r.event, r.upcoming, now))
	if err != nil {
		return domain.Event{}, err
	}
	if len(proposed) == 0 {
		return domain.Event{}, fmt.Errorf("%w: propose stage returned no candidates", ErrSchema)
	}
	if len(proposed) != proposedSlots {
		r.logger.Warn("propose stage returned unexpected candidate count",
			"want", proposedSlots, "got", len(proposed))
	}
	r.logger.Info("received proposed slots", "count", len(proposed))

	validated, err := r.runStage(ctx, StageValidate, ValidatePrompt(r.event, r.upcoming, proposed, now))
	if err != nil {
		return domain.Event{}, err
	}
	if len(validated) == 0 {
		return domain.Event{}, fmt.Errorf("%w: validate stage discarded every candidate", ErrSchema)
	}
	if len(validated) > len(proposed) {
		return domain.Event{}, fmt.Errorf("%w: validate stage grew the candidate list from %d to %d",
			ErrSchema, len(proposed), len(validated))
	}
	r.logger.Info("received validated slots", "count", len(validated))

	selected, err := r.runStage(ctx, StageSelect, SelectPrompt(r.event, r.upcoming, validated, now))
	if err != nil {
		return domain.Event{}, err
	}
	if len(selected) != 1 {
		return domain.Event{}, fmt.Errorf("%w: select stage returned %d candidates, expected exactly one",
			ErrSchema, len(selected))
	}
	r.logger.Info("selected final slot", "title", selected[0].Title,
		"start", domain.FormatTime(selected[0].StartTime), "end", domain.FormatTime(selected[0].EndTime))

	return selected[0], nil
}

// runStage performs one prompt/query/parse round. The model's own error
// field is checked before the candidate list is trusted.
func (r *Reasoner) runStage(ctx context.Context, stage Stage, prompt string) ([]domain.Event, error) {
	r.logger.Debug("sending stage prompt", "stage", stage, "prompt_len", len(prompt))

	reply, err := r.session.AskContinuing(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", stage, err)
	}

	resp, err := ParseStructuredResponse(reply)
	if err != nil {
		return nil, fmt.Errorf("%s stage: %w", stage, err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%s stage: model reported error: %s", stage, resp.Error)
	}

	return resp.EventData, nil
}
