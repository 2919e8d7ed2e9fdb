package oracle

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicBackend uses the Messages API. It has no JSON mode, so the
// schema is appended to the instructions and the reply is unfenced by the
// client.
type AnthropicBackend struct {
	api   *anthropic.Client
	model anthropic.Model
}

func NewAnthropicBackend(apiKey, baseURL, model string) *AnthropicBackend {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultAnthropicModel
	}
	client := anthropic.NewClient(opts...)
	return &AnthropicBackend{api: &client, model: anthropic.Model(model)}
}

func (b *AnthropicBackend) Complete(ctx context.Context, req Request) ([]byte, error) {
	system := req.System + "\n\nReturn valid JSON only, no markdown fencing or explanation. The JSON must satisfy this schema:\n" + req.Schema
	msg, err := b.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       b.model,
		MaxTokens:   2048,
		Temperature: anthropic.Float(float64(req.Temperature)),
		System: []anthropic.TextBlockParam{
			{Text: system},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.User)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API call: %w", err)
	}
	for _, block := range msg.Content {
		if block.Type == "text" && block.Text != "" {
			return []byte(block.Text), nil
		}
	}
	return nil, fmt.Errorf("no text content in API response")
}
