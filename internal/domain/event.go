package domain

import (
	"errors"
	"fmt"
	"time"
)

// TimeLayout is the fixed textual date-time format used everywhere an event
// timestamp crosses a text boundary (prompts, model responses, storage).
// It is ISO 8601 without a zone designator.
const TimeLayout = "2006-01-02T15:04:05"

// Event is the unit of data passed through the whole scheduling pipeline.
// The same type carries the user's unscheduled request, events fetched from
// the calendar, and candidate slots produced by the model. A non-empty
// Reasoning always marks a model-produced candidate.
type Event struct {
	Title       string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time

	// AdditionalInfo holds free-text scheduling instructions from the user,
	// e.g. "Thursday next week, 9am-5pm, 20 minutes".
	AdditionalInfo string

	// Reasoning explains why the model chose this slot. Empty on user input
	// and calendar-fetched events.
	Reasoning string
}

// Validate checks the structural invariants of an Event.
func (e Event) Validate() error {
	if e.Title == "" {
		return errors.New("event title is required")
	}
	if e.StartTime != nil && e.EndTime != nil && !e.StartTime.Before(*e.EndTime) {
		return fmt.Errorf("event start %s must be before end %s",
			e.StartTime.Format(TimeLayout), e.EndTime.Format(TimeLayout))
	}
	return nil
}

// IsCandidate reports whether the event was produced by the model rather
// than supplied by the user or fetched from the calendar.
func (e Event) IsCandidate() bool {
	return e.Reasoning != ""
}

// Scheduled reports whether both timestamps are set. Only scheduled events
// may be committed to the calendar.
func (e Event) Scheduled() bool {
	return e.StartTime != nil && e.EndTime != nil
}

// Duration returns the event length, or zero when the event is unscheduled.
func (e Event) Duration() time.Duration {
	if !e.Scheduled() {
		return 0
	}
	return e.EndTime.Sub(*e.StartTime)
}

// FormatTime renders an optional timestamp in the fixed layout, or "N/A"
// when absent. Used when serializing events into prompt text.
func FormatTime(t *time.Time) string {
	if t == nil {
		return "N/A"
	}
	return t.Format(TimeLayout)
}

// ParseTime parses a timestamp in the fixed layout.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
