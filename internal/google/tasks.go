package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"

	"github.com/ollender/ollender/internal/domain"
)

// defaultTaskList is the Google Tasks alias for the primary list.
const defaultTaskList = "@default"

// TasksClient wraps the Google Tasks API.
type TasksClient struct {
	service *tasks.Service
	logger  *slog.Logger
}

// NewTasksClient creates an authenticated tasks client.
func NewTasksClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token, logger *slog.Logger) (*TasksClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	service, err := tasks.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating tasks service: %w", err)
	}
	return &TasksClient{service: service, logger: logger}, nil
}

// CreateTask inserts a task into the default task list. The due date, when
// present, is sent as an RFC 3339 UTC timestamp.
func (c *TasksClient) CreateTask(ctx context.Context, task domain.Task) (string, error) {
	body := &tasks.Task{
		Title: task.Title,
		Notes: task.Description,
	}
	if task.DueDate != nil {
		body.Due = task.DueDate.UTC().Format(time.RFC3339)
	}

	created, err := c.service.Tasks.Insert(defaultTaskList, body).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("inserting task: %w", err)
	}

	c.logger.Info("google task created", "title", created.Title, "id", created.Id)
	return created.Id, nil
}

// ListTasks returns tasks from the default list.
func (c *TasksClient) ListTasks(ctx context.Context, showCompleted bool, maxResults int64) ([]domain.Task, error) {
	result, err := c.service.Tasks.List(defaultTaskList).
		ShowCompleted(showCompleted).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	out := make([]domain.Task, 0, len(result.Items))
	for _, item := range result.Items {
		task := domain.Task{
			ID:          item.Id,
			Kind:        domain.TaskRegular,
			Title:       item.Title,
			Description: item.Notes,
			Completed:   item.Status == "completed",
		}
		if item.Due != "" {
			if due, err := time.Parse(time.RFC3339, item.Due); err == nil {
				task.DueDate = &due
			}
		}
		out = append(out, task)
	}
	return out, nil
}
