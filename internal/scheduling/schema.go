package scheduling

import (
	"errors"
	"fmt"

	"github.com/ollender/ollender/internal/domain"
)

var (
	// ErrParse indicates the model text contained no parseable JSON payload.
	ErrParse = errors.New("no valid json payload in model response")

	// ErrSchema indicates the payload was valid JSON but did not match the
	// expected structured-response shape.
	ErrSchema = errors.New("model response does not match schema")
)

// StructuredResponse is the payload every reasoning stage instructs the
// model to return: an ordered list of candidate events plus an optional
// error string. When Error is non-empty the candidate list may be empty,
// and consumers must check Error first.
type StructuredResponse struct {
	EventData []domain.Event
	Error     string
}

// wireResponse mirrors the JSON shape declared in the prompts.
type wireResponse struct {
	EventData []wireEvent `json:"event_data"`
	Error     *string     `json:"error"`
}

// wireEvent is one candidate slot on the wire. Description is a pointer so
// a missing field can be told apart from an empty one.
type wireEvent struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Reasoning   string  `json:"reasoning"`
}

func (w wireResponse) toStructured() (StructuredResponse, error) {
	out := StructuredResponse{}
	if w.Error != nil {
		out.Error = *w.Error
	}
	for i, ev := range w.EventData {
		converted, err := ev.toEvent()
		if err != nil {
			return StructuredResponse{}, fmt.Errorf("%w: event_data[%d]: %v", ErrSchema, i, err)
		}
		out.EventData = append(out.EventData, converted)
	}
	return out, nil
}

func (w wireEvent) toEvent() (domain.Event, error) {
	if w.Title == "" {
		return domain.Event{}, errors.New("missing title")
	}
	if w.Description == nil {
		return domain.Event{}, errors.New("missing description")
	}

	ev := domain.Event{
		Title:       w.Title,
		Description: *w.Description,
		Reasoning:   w.Reasoning,
	}

	if w.StartTime != "" {
		t, err := domain.ParseTime(w.StartTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid start_time %q", w.StartTime)
		}
		ev.StartTime = &t
	}
	if w.EndTime != "" {
		t, err := domain.ParseTime(w.EndTime)
		if err != nil {
			return domain.Event{}, fmt.Errorf("invalid end_time %q", w.EndTime)
		}
		ev.EndTime = &t
	}
	if ev.StartTime != nil && ev.EndTime != nil && !ev.StartTime.Before(*ev.EndTime) {
		return domain.Event{}, fmt.Errorf("start_time %q is not before end_time %q", w.StartTime, w.EndTime)
	}

	return ev, nil
}
