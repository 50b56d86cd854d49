package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ollender/ollender/internal/domain"
	"github.com/ollender/ollender/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession replays canned stage replies and records prompts and resets.
type fakeSession struct {
	replies []string
	errAt   int // 1-based call index to fail at; 0 disables
	err     error

	prompts []string
	resets  int
}

func (f *fakeSession) AskContinuing(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.errAt > 0 && len(f.prompts) == f.errAt {
		return "", f.err
	}
	if len(f.replies) < len(f.prompts) {
		return "", fmt.Errorf("no scripted reply for call %d", len(f.prompts))
	}
	return f.replies[len(f.prompts)-1], nil
}

func (f *fakeSession) ResetMemory() { f.resets++ }

// slotsResponse builds a wire-format reply carrying one 20-minute slot per
// start time, titled sequentially Slot 1, Slot 2, ...
func slotsResponse(t *testing.T, starts ...string) string {
	t.Helper()
	var events []map[string]string
	for i, s := range starts {
		st, err := domain.ParseTime(s)
		require.NoError(t, err)
		events = append(events, map[string]string{
			"title":       fmt.Sprintf("Slot %d", i+1),
			"description": "Weekly sync",
			"start_time":  st.Format(domain.TimeLayout),
			"end_time":    st.Add(20 * time.Minute).Format(domain.TimeLayout),
			"reasoning":   "fits within working hours with buffers",
		})
	}
	data, err := json.Marshal(map[string]any{"event_data": events, "error": nil})
	require.NoError(t, err)
	return "Here is my answer:\n" + string(data)
}

func newTestReasoner(session ChatSession) *Reasoner {
	r := NewReasoner(session, domain.Event{
		Title:          "Team Meeting",
		Description:    "Weekly sync",
		AdditionalInfo: "Thursday next week, 9am-5pm, 20 minutes",
	}, []domain.Event{
		{Title: "Standup", StartTime: timePtr("2025-09-04T09:00:00"), EndTime: timePtr("2025-09-04T09:15:00")},
	}, nil)
	r.now = func() time.Time { return time.Date(2025, 8, 29, 10, 0, 0, 0, time.UTC) }
	return r
}

func timePtr(s string) *time.Time {
	t, err := domain.ParseTime(s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestReasoner_HappyPath(t *testing.T) {
	session := &fakeSession{replies: []string{
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00", "2025-09-04T11:30:00", "2025-09-04T14:00:00", "2025-09-04T15:00:00"),
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00", "2025-09-04T14:00:00"),
		slotsResponse(t, "2025-09-04T09:30:00"),
	}}

	selected, err := newTestReasoner(session).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Slot 1", selected.Title)
	assert.Equal(t, 20*time.Minute, selected.Duration())
	assert.True(t, selected.IsCandidate())

	// Three stages, strictly ordered, one reset at the end.
	require.Len(t, session.prompts, 3)
	assert.Contains(t, session.prompts[0], "propose exactly 5")
	assert.Contains(t, session.prompts[1], "remove at least 2")
	assert.Contains(t, session.prompts[2], "select the single most suitable")
	assert.Equal(t, 1, session.resets)

	// Validate's prompt carries every proposed candidate.
	for i := 1; i <= 5; i++ {
		assert.Contains(t, session.prompts[1], fmt.Sprintf("Slot %d", i))
	}
	// Select's prompt carries every surviving candidate but not the pruned ones.
	assert.Contains(t, session.prompts[2], "Slot 3")
	assert.NotContains(t, session.prompts[2], "Slot 4")
	assert.NotContains(t, session.prompts[2], "Slot 5")
}

func TestReasoner_SingleTimeContextAcrossStages(t *testing.T) {
	session := &fakeSession{replies: []string{
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		slotsResponse(t, "2025-09-04T09:30:00"),
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	require.NoError(t, err)

	for _, prompt := range session.prompts {
		assert.Contains(t, prompt, "2025-08-29T10:00:00",
			"every stage must reason about the same captured wall-clock time")
	}
}

func TestReasoner_ParseFailureAbortsRun(t *testing.T) {
	session := &fakeSession{replies: []string{
		"I think Thursday morning would work best for you!",
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	assert.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "propose stage")

	// Only the propose stage ran, and the session was still cleaned up.
	assert.Len(t, session.prompts, 1)
	assert.Equal(t, 1, session.resets)
}

func TestReasoner_TransportFailurePropagates(t *testing.T) {
	session := &fakeSession{
		replies: []string{slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00")},
		errAt:   2,
		err:     llm.ErrUnavailable,
	}

	_, err := newTestReasoner(session).Run(context.Background())
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.Contains(t, err.Error(), "validate stage")
	assert.Equal(t, 1, session.resets)
}

func TestReasoner_ModelReportedErrorAborts(t *testing.T) {
	session := &fakeSession{replies: []string{
		`{"event_data": [], "error": "calendar is fully booked"}`,
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calendar is fully booked")
}

func TestReasoner_ValidateMustNotGrowCandidates(t *testing.T) {
	session := &fakeSession{replies: []string{
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00", "2025-09-04T11:30:00"),
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "grew")
	assert.Len(t, session.prompts, 2, "select stage must not run")
}

func TestReasoner_SelectMustReturnExactlyOne(t *testing.T) {
	session := &fakeSession{replies: []string{
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
		slotsResponse(t, "2025-09-04T09:30:00", "2025-09-04T10:30:00"),
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "exactly one")
}

func TestReasoner_EmptyProposeFails(t *testing.T) {
	session := &fakeSession{replies: []string{
		`{"event_data": [], "error": null}`,
	}}

	_, err := newTestReasoner(session).Run(context.Background())
	assert.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "no candidates")
}
