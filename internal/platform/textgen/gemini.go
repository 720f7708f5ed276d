package textgen

import (
	"context"
	"fmt"
	"strings"

	"github.com/Vivek8951/byte-wise-nexus-sub000/internal/config"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// GeminiClient calls the Gemini API through the official SDK
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	logger      *zap.Logger
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, cfg config.TextGenConfig, logger *zap.Logger) (*GeminiClient, error) {
	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: float32(cfg.Temperature),
		maxTokens:   int32(cfg.MaxTokens),
		logger:      logger,
	}, nil
}

// GenerateText returns free-form text
func (c *GeminiClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	resp, err := c.newModel(system).GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return c.text(resp)
}

// GenerateJSON requests schema-constrained output and decodes it into out
func (c *GeminiClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any, out any) error {
	model := c.newModel(system)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = toGenaiSchema(schema)

	resp, err := model.GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return fmt.Errorf("gemini generate %s: %w", schemaName, err)
	}
	text, err := c.text(resp)
	if err != nil {
		return err
	}
	return decodeJSON(text, out)
}

// Chat continues a conversation
func (c *GeminiClient) Chat(ctx context.Context, system string, history []Message, user string) (string, error) {
	session := c.newModel(system).StartChat()
	for _, m := range history {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}})
	}

	resp, err := session.SendMessage(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	return c.text(resp)
}

// Close releases the SDK client
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) newModel(system string) *genai.GenerativeModel {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(c.temperature)
	if c.maxTokens > 0 {
		model.SetMaxOutputTokens(c.maxTokens)
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	return model
}

func (c *GeminiClient) text(resp *genai.GenerateContentResponse) (string, error) {
	var out strings.Builder
	for _, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop && cand.FinishReason != genai.FinishReasonUnspecified {
			c.logger.Warn("gemini stopped early", zap.String("reason", cand.FinishReason.String()))
		}
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				out.WriteString(string(t))
			}
		}
		break
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", ErrEmptyOutput
	}
	return out.String(), nil
}

// toGenaiSchema converts a JSON Schema object into the SDK schema type
func toGenaiSchema(schema map[string]any) *genai.Schema {
	if schema == nil {
		return nil
	}
	s := &genai.Schema{}
	if d, ok := schema["description"].(string); ok {
		s.Description = d
	}
	switch schema["type"] {
	case "object":
		s.Type = genai.TypeObject
		if props, ok := schema["properties"].(map[string]any); ok {
			s.Properties = make(map[string]*genai.Schema, len(props))
			for name, raw := range props {
				if prop, ok := raw.(map[string]any); ok {
					s.Properties[name] = toGenaiSchema(prop)
				}
			}
		}
		s.Required = stringList(schema["required"])
	case "array":
		s.Type = genai.TypeArray
		if items, ok := schema["items"].(map[string]any); ok {
			s.Items = toGenaiSchema(items)
		}
	case "integer":
		s.Type = genai.TypeInteger
	case "number":
		s.Type = genai.TypeNumber
	case "boolean":
		s.Type = genai.TypeBoolean
	default:
		s.Type = genai.TypeString
		s.Enum = stringList(schema["enum"])
	}
	return s
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
