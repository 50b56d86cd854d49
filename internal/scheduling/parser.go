package scheduling

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ollender/ollender/internal/domain"
)

// ParseStructuredResponse extracts the JSON object embedded in raw model
// text and validates it against the structured-response schema. Extraction
// and schema failures are reported as ErrParse and ErrSchema respectively.
func ParseStructuredResponse(raw string) (StructuredResponse, error) {
	span, err := ExtractObject(raw)
	if err != nil {
		return StructuredResponse{}, err
	}

	var wire wireResponse
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return StructuredResponse{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}

	return wire.toStructured()
}

// scheduledEvent is the flat shape the single-round path asks for.
type scheduledEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// ParseScheduledEvent extracts the flat single-round response: one object
// with title, description, start_time and end_time, all required.
func ParseScheduledEvent(raw string) (domain.Event, error) {
	span, err := ExtractObject(raw)
	if err != nil {
		return domain.Event{}, err
	}

	var wire scheduledEvent
	if err := json.Unmarshal([]byte(span), &wire); err != nil {
		return domain.Event{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if wire.Title == "" {
		return domain.Event{}, fmt.Errorf("%w: missing title", ErrSchema)
	}
	start, err := domain.ParseTime(wire.StartTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: invalid start_time %q", ErrSchema, wire.StartTime)
	}
	end, err := domain.ParseTime(wire.EndTime)
	if err != nil {
		return domain.Event{}, fmt.Errorf("%w: invalid end_time %q", ErrSchema, wire.EndTime)
	}
	if !start.Before(end) {
		return domain.Event{}, fmt.Errorf("%w: start_time is not before end_time", ErrSchema)
	}

	return domain.Event{
		Title:       wire.Title,
		Description: wire.Description,
		StartTime:   &start,
		EndTime:     &end,
	}, nil
}

// ExtractObject locates the single top-level JSON object embedded in free
// text. Scanning is brace-balanced and string-aware rather than a naive
// first-{/last-} span, and text containing more than one top-level object
// is rejected as ambiguous.
func ExtractObject(raw string) (string, error) {
	s := stripCodeFences(raw)

	var spans []string
	for i := 0; i < len(s); {
		start := strings.IndexByte(s[i:], '{')
		if start == -1 {
			break
		}
		start += i

		span, end := scanBalanced(s, start)
		if span == "" {
			// Unbalanced from this brace onward; nothing further can close.
			break
		}
		if json.Valid([]byte(span)) {
			spans = append(spans, span)
		}
		i = end
	}

	switch len(spans) {
	case 0:
		return "", fmt.Errorf("%w: no json object found", ErrParse)
	case 1:
		return spans[0], nil
	default:
		return "", fmt.Errorf("%w: %d top-level json objects found, expected one", ErrParse, len(spans))
	}
}

// scanBalanced returns the balanced { ... } span starting at start, plus the
// index just past it, or ("", start) if the braces never balance.
func scanBalanced(s string, start int) (string, int) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], i + 1
			}
		}
	}

	return "", start
}

// stripCodeFences removes markdown code fences (```json ... ``` or ``` ... ```).
func stripCodeFences(s string) string {
	lines := strings.Split(s, "\n")
	var result []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		result = append(result, line)
	}
	return strings.Join(result, "\n")
}
