package scheduling

import (
	"testing"
	"time"

	"github.com/ollender/ollender/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) *time.Time {
	t.Helper()
	ts, err := domain.ParseTime(s)
	require.NoError(t, err)
	return &ts
}

func testEvent() domain.Event {
	return domain.Event{
		Title:          "Team Meeting",
		Description:    "Weekly sync",
		AdditionalInfo: "Thursday next week, 9am-5pm, 20 minutes",
	}
}

func testUpcoming(t *testing.T) []domain.Event {
	return []domain.Event{
		{
			Title:     "Standup",
			StartTime: mustTime(t, "2025-09-01T09:00:00"),
			EndTime:   mustTime(t, "2025-09-01T09:15:00"),
		},
		{Title: "OOO block"},
	}
}

func TestProposePrompt_Contents(t *testing.T) {
	now := time.Date(2025, 8, 29, 14, 30, 0, 0, time.UTC)
	prompt := ProposePrompt(testEvent(), testUpcoming(t), now)

	assert.Contains(t, prompt, "Team Meeting")
	assert.Contains(t, prompt, "Thursday next week, 9am-5pm, 20 minutes")
	assert.Contains(t, prompt, "15-minute buffer")
	assert.Contains(t, prompt, "09:00 and 18:00")
	assert.Contains(t, prompt, "2025-08-29T14:30:00")
	assert.Contains(t, prompt, "Friday") // weekday grounding
	assert.Contains(t, prompt, `"event_data"`)
	assert.Contains(t, prompt, "- Standup from 2025-09-01T09:00:00 to 2025-09-01T09:15:00")
	assert.Contains(t, prompt, "- OOO block from N/A to N/A")
}

func TestProposePrompt_NoUpcomingEvents(t *testing.T) {
	prompt := ProposePrompt(testEvent(), nil, time.Now())
	assert.Contains(t, prompt, "No upcoming events.")
}

func TestProposePrompt_NoInstructions(t *testing.T) {
	ev := testEvent()
	ev.AdditionalInfo = ""
	prompt := ProposePrompt(ev, nil, time.Now())
	assert.Contains(t, prompt, "No specific instructions provided.")
}

func TestValidatePrompt_ContainsEveryCandidate(t *testing.T) {
	now := time.Now()
	candidates := []domain.Event{
		{Title: "Slot A", Description: "d", StartTime: mustTime(t, "2025-09-04T09:30:00"), EndTime: mustTime(t, "2025-09-04T09:50:00"), Reasoning: "early"},
		{Title: "Slot B", Description: "d", StartTime: mustTime(t, "2025-09-04T10:30:00"), EndTime: mustTime(t, "2025-09-04T10:50:00"), Reasoning: "mid-morning"},
		{Title: "Slot C", Description: "d", StartTime: mustTime(t, "2025-09-04T14:00:00"), EndTime: mustTime(t, "2025-09-04T14:20:00"), Reasoning: "afternoon"},
	}

	prompt := ValidatePrompt(testEvent(), testUpcoming(t), candidates, now)
	for _, c := range candidates {
		assert.Contains(t, prompt, c.Title)
		assert.Contains(t, prompt, c.StartTime.Format(domain.TimeLayout))
	}
	assert.Contains(t, prompt, "remove at least 2")
}

func TestSelectPrompt_AsksForExactlyOne(t *testing.T) {
	candidates := []domain.Event{
		{Title: "Slot A", Description: "d", Reasoning: "r"},
		{Title: "Slot B", Description: "d", Reasoning: "r"},
	}
	prompt := SelectPrompt(testEvent(), nil, candidates, time.Now())
	assert.Contains(t, prompt, "Slot A")
	assert.Contains(t, prompt, "Slot B")
	assert.Contains(t, prompt, "exactly one")
}

func TestCandidatesSection_RoundTripsThroughParser(t *testing.T) {
	candidates := []domain.Event{
		{Title: "Slot A", Description: "d", StartTime: mustTime(t, "2025-09-04T09:30:00"), EndTime: mustTime(t, "2025-09-04T09:50:00"), Reasoning: "early"},
	}
	// The serialized candidate list is itself valid wire-format JSON.
	section := candidatesSection(candidates)
	resp, err := ParseStructuredResponse(`{"event_data": ` + section + `, "error": null}`)
	require.NoError(t, err)
	require.Len(t, resp.EventData, 1)
	assert.Equal(t, candidates[0].Title, resp.EventData[0].Title)
	assert.Equal(t, *candidates[0].StartTime, *resp.EventData[0].StartTime)
}

func TestSingleRoundPrompt(t *testing.T) {
	now := time.Date(2025, 8, 29, 14, 30, 0, 0, time.UTC)
	prompt := SingleRoundPrompt(testEvent(), testUpcoming(t), now)
	assert.Contains(t, prompt, "Team Meeting")
	assert.Contains(t, prompt, "15-minute buffer")
	assert.Contains(t, prompt, `"start_time"`)
	assert.NotContains(t, prompt, "event_data")
}
