package llm

import (
	"context"
	"log/slog"
)

// Session is a conversational channel to a language model. It owns the
// role-tagged message history for one scheduling run and must not be shared
// between concurrent runs.
type Session struct {
	client       ChatClient
	systemPrompt string
	messages     []Message
	logger       *slog.Logger
}

// NewSession creates a Session seeded with an optional system directive.
func NewSession(client ChatClient, systemPrompt string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		client:       client,
		systemPrompt: systemPrompt,
		logger:       logger,
	}
	s.seed()
	return s
}

func (s *Session) seed() {
	s.messages = nil
	if s.systemPrompt != "" {
		s.messages = append(s.messages, Message{Role: RoleSystem, Content: s.systemPrompt})
	}
}

// Ask sends a single-shot, stateless query. The persistent history is not
// read or mutated; only the system directive and the given prompt are sent.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	var messages []Message
	if s.systemPrompt != "" {
		messages = append(messages, Message{Role: RoleSystem, Content: s.systemPrompt})
	}
	messages = append(messages, Message{Role: RoleUser, Content: prompt})

	reply, err := s.client.Chat(ctx, messages)
	if err != nil {
		s.logger.Error("stateless chat query failed", "error", err)
		return "", err
	}
	return reply, nil
}

// AskContinuing sends a query as part of the stateful conversation. The
// prompt is appended to history before the call, so a failed call still
// leaves the user message in the transcript; the assistant reply is appended
// only on success.
func (s *Session) AskContinuing(ctx context.Context, prompt string) (string, error) {
	s.messages = append(s.messages, Message{Role: RoleUser, Content: prompt})

	reply, err := s.client.Chat(ctx, s.messages)
	if err != nil {
		s.logger.Error("continuing chat query failed", "error", err, "history_len", len(s.messages))
		return "", err
	}

	if reply != "" {
		s.messages = append(s.messages, Message{Role: RoleAssistant, Content: reply})
	}
	return reply, nil
}

// ResetMemory clears the conversation history back to just the system
// directive. Idempotent.
func (s *Session) ResetMemory() {
	s.seed()
	s.logger.Debug("conversation memory reset")
}

// History returns a copy of the current conversation transcript.
func (s *Session) History() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
