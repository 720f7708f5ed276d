// Package textgen wraps the hosted language models used for content generation and chat.
package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrEmptyOutput is returned when the model produced no text
	ErrEmptyOutput = errors.New("model returned no text")
	// ErrMalformedOutput is returned when structured output cannot be decoded
	ErrMalformedOutput = errors.New("model returned malformed JSON")
)

// Chat roles understood by every provider
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation
type Message struct {
	Role    string
	Content string
}

// Generator is a text-generation provider.
type Generator interface {
	// GenerateText returns free-form text for a system and user prompt.
	GenerateText(ctx context.Context, system, user string) (string, error)

	// GenerateJSON asks for output matching schema and decodes it into out.
	// "schema" is a JSON Schema object.
	// Returns ErrMalformedOutput (wrapped) if the output is not a JSON object.
	GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error

	// Chat continues a conversation given its prior turns.
	Chat(ctx context.Context, system string, history []Message, user string) (string, error)

	// Close releases provider resources.
	Close() error
}

// New creates the generator selected by cfg.Provider
func New(ctx context.Context, cfg config.TextGenConfig, logger *zap.Logger) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIClient(cfg, logger), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown text generation provider: %s", cfg.Provider)
	}
}

// ExtractJSONObject returns the outermost JSON object embedded in text.
// Markdown code fences and surrounding prose are ignored.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	candidate := text[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", false
	}
	return candidate, true
}

// decodeJSON decodes model output, falling back to the embedded object
func decodeJSON(text string, out any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyOutput
	}
	if err := json.Unmarshal([]byte(text), out); err == nil {
		return nil
	}
	obj, ok := ExtractJSONObject(text)
	if !ok {
		return fmt.Errorf("%w: no JSON object in output", ErrMalformedOutput)
	}
	if err := json.Unmarshal([]byte(obj), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}
