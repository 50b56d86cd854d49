package google

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/ollender/ollender/internal/domain"
)

// CalendarClient wraps the Google Calendar API for one calendar.
type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	logger     *slog.Logger
}

// NewCalendarClient creates an authenticated calendar client.
func NewCalendarClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token, calendarID string, logger *slog.Logger) (*CalendarClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	service, err := calendar.NewService(ctx, option.WithHTTPClient(config.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("creating calendar service: %w", err)
	}
	return &CalendarClient{service: service, calendarID: calendarID, logger: logger}, nil
}

// ListUpcomingEvents returns up to maxResults future events ordered by start
// time. Events without a concrete start or end (all-day entries) are mapped
// to nil timestamps rather than skipped, so the model still sees them.
func (c *CalendarClient) ListUpcomingEvents(ctx context.Context, maxResults int64) ([]domain.Event, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := c.service.Events.List(c.calendarID).
		TimeMin(now).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}

	events := make([]domain.Event, 0, len(result.Items))
	for _, item := range result.Items {
		events = append(events, domain.Event{
			Title:       item.Summary,
			Description: item.Description,
			StartTime:   parseEventTime(item.Start),
			EndTime:     parseEventTime(item.End),
		})
	}

	c.logger.Debug("fetched upcoming events", "count", len(events), "calendar", c.calendarID)
	return events, nil
}

// CreateEvent commits a fully scheduled event and returns its id.
func (c *CalendarClient) CreateEvent(ctx context.Context, ev domain.Event) (string, error) {
	if !ev.Scheduled() {
		return "", fmt.Errorf("event %q has no concrete start/end time", ev.Title)
	}

	created, err := c.service.Events.Insert(c.calendarID, &calendar.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Start:       &calendar.EventDateTime{DateTime: ev.StartTime.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: ev.EndTime.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("inserting event: %w", err)
	}

	c.logger.Info("calendar event created", "title", ev.Title, "id", created.Id)
	return created.Id, nil
}

func parseEventTime(edt *calendar.EventDateTime) *time.Time {
	if edt == nil || edt.DateTime == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, edt.DateTime)
	if err != nil {
		return nil
	}
	return &t
}
