package formatter

import (
	"fmt"
	"strings"

	"github.com/ollender/ollender/internal/domain"
)

// FormatScheduled renders a committed event for terminal output.
func FormatScheduled(ev domain.Event, id string) string {
	var b strings.Builder

	b.WriteString(Header("Event scheduled"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s %s\n", StyleGreen.Render("✓"), StyleBold.Render(ev.Title))
	if ev.Description != "" {
		fmt.Fprintf(&b, "    %s\n", StyleFg.Render(ev.Description))
	}
	fmt.Fprintf(&b, "    %s %s %s %s\n",
		Dim("from"), StyleBlue.Render(domain.FormatTime(ev.StartTime)),
		Dim("to"), StyleBlue.Render(domain.FormatTime(ev.EndTime)))
	if d := ev.Duration(); d > 0 {
		fmt.Fprintf(&b, "    %s\n", Dim(fmt.Sprintf("duration %s", d)))
	}
	fmt.Fprintf(&b, "    %s\n", Dim("id "+id))

	return b.String()
}

// FormatTask renders one task.
func FormatTask(t *domain.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s\n", taskMark(t), StyleBold.Render(t.Title))
	if t.Description != "" {
		fmt.Fprintf(&b, "    %s\n", StyleFg.Render(t.Description))
	}
	fmt.Fprintf(&b, "    %s\n", Dim(taskSchedule(t)))
	fmt.Fprintf(&b, "    %s\n", Dim("id "+t.ID))
	return b.String()
}

// FormatTaskList renders all stored tasks, or a hint when there are none.
func FormatTaskList(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return Dim("No tasks yet. Create one with: ollender task add") + "\n"
	}

	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Tasks (%d)", len(tasks))))
	b.WriteString("\n\n")
	for _, t := range tasks {
		b.WriteString(FormatTask(t))
	}
	return b.String()
}

func taskMark(t *domain.Task) string {
	if t.Completed {
		return StyleGreen.Render("✓")
	}
	return StyleYellow.Render("○")
}

func taskSchedule(t *domain.Task) string {
	switch t.Kind {
	case domain.TaskRecurring:
		return "every " + string(t.Interval)
	default:
		return "due " + domain.FormatTime(t.DueDate)
	}
}
