package llm

import "errors"

var (
	// ErrUnavailable indicates the Ollama server is unreachable.
	ErrUnavailable = errors.New("ollama server unavailable")

	// ErrTimeout indicates the chat request exceeded the configured timeout.
	ErrTimeout = errors.New("chat request timed out")

	// ErrEmptyReply indicates the model returned a response with no content.
	// Callers cannot distinguish this from the model legitimately having
	// nothing to say.
	ErrEmptyReply = errors.New("model returned empty reply")
)
