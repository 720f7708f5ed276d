package textgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewOpenAIClient(config.TextGenConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		MaxRetries: 2,
		Timeout:    5 * time.Second,
	}, zap.NewNop())
	c.backoff = time.Millisecond
	return c
}

func writeOutput(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"output": []map[string]any{{
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "output_text", "text": text},
			},
		}},
	})
}

func TestOpenAIClient_GenerateText(t *testing.T) {
	var got responsesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/responses", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeOutput(w, "hello")
	})

	text, err := c.GenerateText(context.Background(), "be brief", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, defaultOpenAIModel, got.Model)
	require.Len(t, got.Input, 2)
	assert.Equal(t, "system", got.Input[0].Role)
	assert.Equal(t, "hi", got.Input[1].Content)
}

func TestOpenAIClient_GenerateJSON(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr error
		want    string
	}{
		{name: "plain object", output: `{"summary":"ok"}`, want: "ok"},
		{name: "fenced object", output: "```json\n{\"summary\":\"fenced\"}\n```", want: "fenced"},
		{name: "prose only", output: "I cannot help with that", wantErr: ErrMalformedOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var req map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				format := req["text"].(map[string]any)["format"].(map[string]any)
				assert.Equal(t, "json_schema", format["type"])
				assert.Equal(t, "analysis", format["name"])
				writeOutput(w, tt.output)
			})

			var out struct {
				Summary string `json:"summary"`
			}
			err := c.GenerateJSON(context.Background(), "sys", "user", "analysis", map[string]any{"type": "object"}, &out)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Summary)
		})
	}
}

func TestOpenAIClient_Retry(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeOutput(w, "finally")
	})

	text, err := c.GenerateText(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOpenAIClient_Errors(t *testing.T) {
	t.Run("client error is not retried", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "bad key", http.StatusUnauthorized)
		})

		_, err := c.GenerateText(context.Background(), "", "hi")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("retries exhausted", func(t *testing.T) {
		var calls atomic.Int32
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		})

		_, err := c.GenerateText(context.Background(), "", "hi")
		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("empty output", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeOutput(w, "  ")
		})

		_, err := c.GenerateText(context.Background(), "", "hi")
		assert.ErrorIs(t, err, ErrEmptyOutput)
	})
}

func TestOpenAIClient_Chat(t *testing.T) {
	var got responsesRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeOutput(w, "sure")
	})

	history := []Message{
		{Role: RoleUser, Content: "what is a goroutine"},
		{Role: RoleAssistant, Content: "a lightweight thread"},
	}
	reply, err := c.Chat(context.Background(), "tutor", history, "and a channel?")
	require.NoError(t, err)
	assert.Equal(t, "sure", reply)

	require.Len(t, got.Input, 4)
	assert.Equal(t, RoleAssistant, got.Input[2].Role)
	assert.Equal(t, "and a channel?", got.Input[3].Content)
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   string
		wantOK bool
	}{
		{name: "bare", text: `{"a":1}`, want: `{"a":1}`, wantOK: true},
		{name: "surrounded", text: "Here you go: {\"a\":{\"b\":2}} enjoy", want: `{"a":{"b":2}}`, wantOK: true},
		{name: "no braces", text: "nothing here", wantOK: false},
		{name: "invalid json", text: "{not json}", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToGenaiSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary":  map[string]any{"type": "string"},
			"level":    map[string]any{"type": "string", "enum": []any{"beginner", "advanced"}},
			"keywords": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"answer":   map[string]any{"type": "integer"},
		},
		"required": []any{"summary", "keywords"},
	}

	got := toGenaiSchema(schema)
	require.NotNil(t, got)
	assert.Equal(t, genai.TypeObject, got.Type)
	assert.Equal(t, []string{"summary", "keywords"}, got.Required)
	assert.Equal(t, genai.TypeArray, got.Properties["keywords"].Type)
	assert.Equal(t, genai.TypeString, got.Properties["keywords"].Items.Type)
	assert.Equal(t, []string{"beginner", "advanced"}, got.Properties["level"].Enum)
	assert.Equal(t, genai.TypeInteger, got.Properties["answer"].Type)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.TextGenConfig{Provider: "other"}, zap.NewNop())
	assert.Error(t, err)
}
