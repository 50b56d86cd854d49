package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Role tags a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatClient sends a full message list to a language model and returns the
// assistant's reply. Implementations own the transport; history management
// belongs to Session.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message) (string, error)

	// Available checks whether the model endpoint is reachable.
	Available(ctx context.Context) bool
}

// ollamaClient implements ChatClient against the Ollama /api/chat endpoint.
type ollamaClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewOllamaClient creates a ChatClient that talks to an Ollama instance.
func NewOllamaClient(cfg Config, observer Observer) ChatClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &ollamaClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// chatRequest is the JSON body sent to POST /api/chat.
type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

// chatResponse is the JSON body returned by POST /api/chat (non-streaming).
type chatResponse struct {
	Model   string  `json:"model"`
	Message Message `json:"message"`
}

func (c *ollamaClient) Chat(ctx context.Context, messages []Message) (string, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	reply, err := c.doRequest(ctx, chatRequest{
		Model:    c.cfg.Model,
		Messages: messages,
		Stream:   false,
	})

	latency := time.Since(start).Milliseconds()
	if err != nil {
		if ctx.Err() != nil {
			err = ErrTimeout
		} else if isConnectionError(err) {
			err = ErrUnavailable
		}
		c.observer.OnCallComplete(CallEvent{
			Model:     c.cfg.Model,
			Messages:  len(messages),
			LatencyMs: latency,
			Success:   false,
			ErrorCode: errorCode(err),
		})
		return "", err
	}

	c.observer.OnCallComplete(CallEvent{
		Model:     c.cfg.Model,
		Messages:  len(messages),
		LatencyMs: latency,
		Success:   true,
	})
	return reply, nil
}

func (c *ollamaClient) doRequest(ctx context.Context, body chatRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.cfg.Endpoint + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if resp.Message.Content == "" {
		return "", ErrEmptyReply
	}

	return resp.Message.Content, nil
}

func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	url := c.cfg.Endpoint + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyReply):
		return "EMPTY_REPLY"
	default:
		return "UNKNOWN"
	}
}
