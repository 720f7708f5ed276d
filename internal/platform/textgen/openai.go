package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"go.uber.org/zap"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultOpenAIModel   = "gpt-4o-mini"
	maxRetryBackoff      = 10 * time.Second
)

// httpError is a non-2xx provider response
type httpError struct {
	StatusCode int
	Body       string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

// OpenAIClient calls the OpenAI Responses API
type OpenAIClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	maxRetries  int
	backoff     time.Duration
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(cfg config.TextGenConfig, logger *zap.Logger) *OpenAIClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OpenAIClient{
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		maxRetries:  cfg.MaxRetries,
		backoff:     time.Second,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}
}

type responsesInput struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Input           []responsesInput `json:"input"`
	Text            *responsesText   `json:"text,omitempty"`
	Temperature     *float64         `json:"temperature,omitempty"`
	MaxOutputTokens int              `json:"max_output_tokens,omitempty"`
}

type responsesText struct {
	Format map[string]any `json:"format"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Role    string `json:"role,omitempty"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text,omitempty"`
		} `json:"content,omitempty"`
	} `json:"output"`
	Refusal string `json:"refusal,omitempty"`
}

func extractOutputText(resp responsesResponse) string {
	var out strings.Builder
	for _, item := range resp.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" {
				out.WriteString(c.Text)
			}
		}
	}
	return out.String()
}

// GenerateText returns free-form text
func (c *OpenAIClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	return c.respond(ctx, c.newRequest(system, nil, user))
}

// GenerateJSON requests schema-constrained output and decodes it into out
func (c *OpenAIClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	if schemaName == "" || schema == nil {
		return errors.New("schema name and schema are required")
	}
	req := c.newRequest(system, nil, user)
	req.Text = &responsesText{Format: map[string]any{
		"type":   "json_schema",
		"name":   schemaName,
		"schema": schema,
		"strict": true,
	}}

	text, err := c.respond(ctx, req)
	if err != nil {
		return err
	}
	return decodeJSON(text, out)
}

// Chat continues a conversation
func (c *OpenAIClient) Chat(ctx context.Context, system string, history []Message, user string) (string, error) {
	return c.respond(ctx, c.newRequest(system, history, user))
}

// Close is a no-op for the HTTP client
func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) newRequest(system string, history []Message, user string) *responsesRequest {
	input := make([]responsesInput, 0, len(history)+2)
	if system != "" {
		input = append(input, responsesInput{Role: "system", Content: system})
	}
	for _, m := range history {
		role := RoleUser
		if m.Role == RoleAssistant {
			role = RoleAssistant
		}
		input = append(input, responsesInput{Role: role, Content: m.Content})
	}
	input = append(input, responsesInput{Role: RoleUser, Content: user})

	temperature := c.temperature
	return &responsesRequest{
		Model:           c.model,
		Input:           input,
		Temperature:     &temperature,
		MaxOutputTokens: c.maxTokens,
	}
}

func (c *OpenAIClient) respond(ctx context.Context, req *responsesRequest) (string, error) {
	var resp responsesResponse
	if err := c.do(ctx, "/v1/responses", req, &resp); err != nil {
		return "", err
	}
	if resp.Refusal != "" {
		return "", fmt.Errorf("model refused: %s", resp.Refusal)
	}
	text := extractOutputText(resp)
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

func (c *OpenAIClient) do(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	backoff := c.backoff
	for attempt := 0; ; attempt++ {
		raw, err := c.doOnce(ctx, path, payload)
		if err == nil {
			if err := json.Unmarshal(raw, out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
			return nil
		}
		if attempt >= c.maxRetries || !isRetryable(err) {
			return err
		}

		c.logger.Warn("text generation request retrying",
			zap.String("path", path),
			zap.Int("attempt", attempt+1),
			zap.Duration("sleep", backoff),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxRetryBackoff)
	}
}

func (c *OpenAIClient) doOnce(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &httpError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
