package scheduling

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ollender/ollender/internal/domain"
)

// SystemPrompt is the directive every scheduling session is seeded with.
const SystemPrompt = "You are a helpful scheduling assistant. Your only output is a single, valid JSON object."

// responseShape declares, inline in every prompt, the exact JSON object the
// model must return.
const responseShape = `{
  "event_data": [
    {
      "title": "<event title>",
      "description": "<event description>",
      "start_time": "YYYY-MM-DDTHH:MM:SS",
      "end_time": "YYYY-MM-DDTHH:MM:SS",
      "reasoning": "<why this slot is suitable>"
    }
  ],
  "error": null
}`

// ProposePrompt asks the model for exactly 5 non-overlapping candidate
// slots for the event, honoring the user's instructions, a 15-minute buffer
// around existing events, working hours, and the current time as a floor.
func ProposePrompt(event domain.Event, upcoming []domain.Event, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are a highly intelligent scheduling AI. Analyze the user's new event, their existing calendar, and the constraints below, then propose exactly 5 suitable, non-overlapping, conflict-free time slots.\n\n")

	b.WriteString("### New Event to Schedule\n")
	b.WriteString(eventSection(event))

	b.WriteString("\n### Scheduling Constraints\n")
	b.WriteString(constraintsSection(event, now))

	b.WriteString("\n### Existing Calendar Events\n")
	b.WriteString(upcomingSection(upcoming))

	b.WriteString("\n\n### Output Format\n")
	b.WriteString("Return a single valid JSON object containing 5 event objects. Each object must include a \"reasoning\" field explaining why the slot is suitable. Set \"error\" to a message only if no valid slot exists.\n\n")
	b.WriteString(responseShape)

	return b.String()
}

// ValidatePrompt re-presents proposed candidates and asks the model to
// discard invalid ones and remove at least two of the remainder.
func ValidatePrompt(event domain.Event, upcoming []domain.Event, candidates []domain.Event, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an expert in validating calendar events. Check every proposed time slot below against the constraints and the user's existing calendar. Return only the valid options, and remove at least 2 of the options.\n\n")

	b.WriteString("### Proposed Time Slots\n")
	b.WriteString(candidatesSection(candidates))

	b.WriteString("\n\n### Existing Calendar Events\n")
	b.WriteString(upcomingSection(upcoming))

	b.WriteString("\n\n### Constraints\n")
	b.WriteString(constraintsSection(event, now))

	b.WriteString("\n### User Event\n")
	b.WriteString(eventSection(event))

	b.WriteString("\n### Output Format\n")
	b.WriteString("Return the surviving slots as the same JSON object shape:\n\n")
	b.WriteString(responseShape)

	return b.String()
}

// SelectPrompt re-presents the validated candidates and asks the model to
// pick exactly one.
func SelectPrompt(event domain.Event, upcoming []domain.Event, candidates []domain.Event, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are an expert scheduling assistant. From the proposed options below, select the single most suitable time slot for the new event, based on the user's preferences and the constraints.\n\n")

	b.WriteString("### Proposed Time Slots\n")
	b.WriteString(candidatesSection(candidates))

	b.WriteString("\n\n### Existing Calendar Events\n")
	b.WriteString(upcomingSection(upcoming))

	b.WriteString("\n\n### New Event\n")
	b.WriteString(eventSection(event))

	b.WriteString("\n### Constraints\n")
	b.WriteString(constraintsSection(event, now))

	b.WriteString("\n### Output Format\n")
	b.WriteString("Return exactly one selected slot in the same JSON object shape:\n\n")
	b.WriteString(responseShape)

	return b.String()
}

// SingleRoundPrompt is the one-shot scheduling prompt used when multi-step
// reasoning is disabled. It asks for a flat object rather than the staged
// event_data schema.
func SingleRoundPrompt(event domain.Event, upcoming []domain.Event, now time.Time) string {
	var b strings.Builder

	b.WriteString("Your task is to schedule the following event. Find a suitable time slot based on the given constraints and the user's existing calendar.\n\n")

	b.WriteString("### New Event\n")
	b.WriteString(eventSection(event))

	b.WriteString("\n### Constraints\n")
	fmt.Fprintf(&b, "- **User Instructions:** %q\n", orDefault(event.AdditionalInfo, "No specific instructions provided."))
	b.WriteString("- **Conflicts:** Must not overlap with any existing events.\n")
	b.WriteString("- **Buffer:** Must have a 15-minute buffer before and after existing events.\n")
	fmt.Fprintf(&b, "- **Current Time:** %s\n", now.Format(domain.TimeLayout))

	b.WriteString("\n### Existing Calendar Events\n")
	b.WriteString(upcomingSection(upcoming))

	b.WriteString("\n\n### Your Response\n")
	b.WriteString("Respond with a single JSON object with keys: \"title\", \"description\", \"start_time\", and \"end_time\".\n")

	return b.String()
}

func eventSection(event domain.Event) string {
	return fmt.Sprintf("- **Title:** %s\n- **Description:** %s\n", event.Title, event.Description)
}

func constraintsSection(event domain.Event, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "- **User Instructions:** %q\n", orDefault(event.AdditionalInfo, "No specific instructions provided."))
	b.WriteString("- **Conflicts:** Must not overlap with any events in the user's existing calendar.\n")
	b.WriteString("- **Buffer:** A **15-minute buffer** is required both before and after each existing event.\n")
	b.WriteString("- **Working Hours:** Only suggest slots between **09:00 and 18:00 on weekdays** (Monday-Friday).\n")
	fmt.Fprintf(&b, "- **Time Context:** All suggestions must be in the future. The current time is **%s** and today is **%s**.\n",
		now.Format(domain.TimeLayout), now.Weekday())
	return b.String()
}

// upcomingSection renders the existing calendar as a simple bullet list,
// one line per event, with N/A for missing timestamps.
func upcomingSection(upcoming []domain.Event) string {
	if len(upcoming) == 0 {
		return "No upcoming events."
	}
	lines := make([]string, 0, len(upcoming))
	for _, ev := range upcoming {
		lines = append(lines, fmt.Sprintf("- %s from %s to %s",
			ev.Title, domain.FormatTime(ev.StartTime), domain.FormatTime(ev.EndTime)))
	}
	return strings.Join(lines, "\n")
}

// candidatesSection serializes candidate slots as an indented JSON array so
// later stages see them in the same shape they were produced in.
func candidatesSection(candidates []domain.Event) string {
	wire := make([]wireEvent, 0, len(candidates))
	for _, c := range candidates {
		desc := c.Description
		wire = append(wire, wireEvent{
			Title:       c.Title,
			Description: &desc,
			StartTime:   formatOptional(c.StartTime),
			EndTime:     formatOptional(c.EndTime),
			Reasoning:   c.Reasoning,
		})
	}
	data, err := json.MarshalIndent(wire, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(data)
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.TimeLayout)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
