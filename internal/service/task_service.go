package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ollender/ollender/internal/domain"
	"github.com/ollender/ollender/internal/scheduling"
)

// TaskSystemPrompt pins the model to the two task response shapes. Task
// sessions must be seeded with it.
const TaskSystemPrompt = `You are a task manager assistant.
You will only respond with a valid JSON object and nothing else.
Do not include explanations or extra text.

There are two shapes you can return:

1. For a one-off task:
{
  "task_title": string,
  "task_description": string,
  "completed": boolean,
  "time_to_complete": "YYYY-MM-DDTHH:MM:SS"
}

2. For a recurring task:
{
  "task_title": string,
  "task_description": string,
  "completed": boolean,
  "interval": "daily" | "weekly" | "monthly" | "yearly"
}

Rules:
- Use the shape the request asks for.
- For one-off tasks, choose a realistic future "time_to_complete".
- Ensure the JSON can be parsed without errors.`

// TaskStore persists tasks locally.
type TaskStore interface {
	Create(ctx context.Context, t *domain.Task) error
	List(ctx context.Context) ([]*domain.Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
}

// TaskSink mirrors tasks into an external task list. Only regular tasks are
// mirrored; the external API has no recurrence support.
type TaskSink interface {
	CreateTask(ctx context.Context, task domain.Task) (string, error)
}

// TaskDraft is the user's description of a task before the model assigns
// scheduling data.
type TaskDraft struct {
	Kind        domain.TaskKind
	Title       string
	Description string
	Interval    domain.Interval // hint for recurring drafts, may be empty
}

// TaskService creates and lists tasks. The model assigns a due date to
// regular tasks and a cadence to recurring ones; dispatch is always on the
// explicit task kind.
type TaskService struct {
	store   TaskStore
	sink    TaskSink
	session ChatSession
	logger  *slog.Logger
	now     func() time.Time
}

// NewTaskService creates a TaskService. sink may be nil when no external
// task list is configured.
func NewTaskService(store TaskStore, sink TaskSink, session ChatSession, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{store: store, sink: sink, session: session, logger: logger, now: time.Now}
}

// Create asks the model to flesh out the draft, validates the result, and
// persists it. Regular tasks are also mirrored to the external sink.
func (s *TaskService) Create(ctx context.Context, draft TaskDraft) (*domain.Task, error) {
	prompt, err := s.draftPrompt(draft)
	if err != nil {
		return nil, err
	}
	s.logger.Info("creating task", "kind", draft.Kind, "title", draft.Title)

	reply, err := s.session.Ask(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("task assignment query: %w", err)
	}

	task, err := parseTaskAssignment(reply, draft.Kind)
	if err != nil {
		return nil, err
	}
	task.ID = uuid.NewString()
	task.CreatedAt = s.now().UTC()
	if err := task.Validate(); err != nil {
		return nil, fmt.Errorf("model produced invalid task: %w", err)
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}

	if task.Kind == domain.TaskRegular && s.sink != nil {
		if _, err := s.sink.CreateTask(ctx, *task); err != nil {
			// The local record is authoritative; a sink failure is not fatal.
			s.logger.Warn("mirroring task to external list failed", "title", task.Title, "error", err)
		}
	}

	s.logger.Info("task created", "id", task.ID, "kind", task.Kind, "title", task.Title)
	return task, nil
}

// List returns all locally stored tasks.
func (s *TaskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.store.List(ctx)
}

// Complete marks a stored task as done.
func (s *TaskService) Complete(ctx context.Context, id string) error {
	return s.store.SetCompleted(ctx, id, true)
}

// draftPrompt renders the kind-specific request. Unknown kinds are rejected
// here rather than defaulted.
func (s *TaskService) draftPrompt(draft TaskDraft) (string, error) {
	now := s.now().Format(domain.TimeLayout)
	switch draft.Kind {
	case domain.TaskRegular:
		return fmt.Sprintf(
			"Assign a time and date for the task: %s - %s. The current date and time is %s.",
			draft.Title, draft.Description, now), nil
	case domain.TaskRecurring:
		interval := string(draft.Interval)
		if interval == "" {
			interval = "a sensible cadence"
		}
		return fmt.Sprintf(
			"Assign scheduling for the recurring task: %s - %s, recurring every %s. The current date and time is %s.",
			draft.Title, draft.Description, interval, now), nil
	default:
		return "", fmt.Errorf("unknown task kind %q", draft.Kind)
	}
}

// taskAssignment is the wire shape the task prompts ask for.
type taskAssignment struct {
	TaskTitle       string `json:"task_title"`
	TaskDescription string `json:"task_description"`
	Completed       bool   `json:"completed"`
	TimeToComplete  string `json:"time_to_complete"`
	Interval        string `json:"interval"`
}

// parseTaskAssignment converts a model reply into a Task of the requested
// kind. The requested kind wins over whatever shape the model chose to
// return; a missing kind-specific field is a schema error.
func parseTaskAssignment(raw string, kind domain.TaskKind) (*domain.Task, error) {
	span, err := scheduling.ExtractObject(raw)
	if err != nil {
		return nil, err
	}

	var wire taskAssignment
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", scheduling.ErrSchema, err)
	}
	if wire.TaskTitle == "" {
		return nil, fmt.Errorf("%w: missing task_title", scheduling.ErrSchema)
	}

	task := &domain.Task{
		Kind:        kind,
		Title:       wire.TaskTitle,
		Description: wire.TaskDescription,
		Completed:   wire.Completed,
	}

	switch kind {
	case domain.TaskRegular:
		due, err := domain.ParseTime(wire.TimeToComplete)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid time_to_complete %q", scheduling.ErrSchema, wire.TimeToComplete)
		}
		task.DueDate = &due
	case domain.TaskRecurring:
		interval := strings.ToLower(wire.Interval)
		if !domain.ValidInterval(interval) {
			return nil, fmt.Errorf("%w: invalid interval %q", scheduling.ErrSchema, wire.Interval)
		}
		task.Interval = domain.Interval(interval)
	}

	return task, nil
}
