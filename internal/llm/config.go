package llm

import (
	"os"
	"strconv"
)

// Config holds configuration for the chat subsystem.
type Config struct {
	Endpoint  string
	Model     string
	TimeoutMs int
}

// DefaultConfig returns a Config pointing at a local Ollama instance.
func DefaultConfig() Config {
	return Config{
		Endpoint:  "http://127.0.0.1:11434",
		Model:     "llama3",
		TimeoutMs: 90000,
	}
}

// LoadConfig reads chat configuration from environment variables, falling
// back to defaults for any unset values. OLLAMA_HOST is honored for
// compatibility with the ollama CLI.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("OLLENDER_OLLAMA_ENDPOINT"); v != "" {
		cfg.Endpoint = v
	}
	if v := os.Getenv("OLLENDER_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("OLLENDER_CHAT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	return cfg
}
