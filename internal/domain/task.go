package domain

import (
	"fmt"
	"time"
)

// TaskKind discriminates the two task shapes the system knows how to
// schedule. Dispatch on kind is explicit everywhere; there is no
// type-based overloading.
type TaskKind string

const (
	TaskRegular   TaskKind = "regular"
	TaskRecurring TaskKind = "recurring"
)

// Interval is the repeat cadence of a recurring task.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
	IntervalYearly  Interval = "yearly"
)

// ValidInterval reports whether s is a recognized repeat cadence.
func ValidInterval(s string) bool {
	switch Interval(s) {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	}
	return false
}

// Task is a to-do item. Regular tasks carry a due date; recurring tasks
// carry an interval instead.
type Task struct {
	ID          string
	Kind        TaskKind
	Title       string
	Description string
	DueDate     *time.Time // regular tasks only
	Interval    Interval   // recurring tasks only
	Completed   bool
	CreatedAt   time.Time
}

// Validate checks kind-specific invariants.
func (t Task) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("task title is required")
	}
	switch t.Kind {
	case TaskRegular:
		if t.DueDate == nil {
			return fmt.Errorf("regular task %q needs a due date", t.Title)
		}
	case TaskRecurring:
		if !ValidInterval(string(t.Interval)) {
			return fmt.Errorf("recurring task %q has invalid interval %q", t.Title, t.Interval)
		}
	default:
		return fmt.Errorf("unknown task kind %q", t.Kind)
	}
	return nil
}
