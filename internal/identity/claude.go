// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultClaudeModel is the model used when none is configured.
	DefaultClaudeModel = "claude-3-5-haiku-latest"

	claudeMaxTokens = 256
)

// ClaudeGenerator calls the Claude Messages API.
type ClaudeGenerator struct {
	client anthropic.Client
	model  string
}

// NewClaudeGenerator returns a generator for model. An empty baseURL uses the
// public endpoint. The SDK's automatic retries are disabled.
func NewClaudeGenerator(apiKey, model, baseURL string) *ClaudeGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultClaudeModel
	}
	return &ClaudeGenerator{client: anthropic.NewClient(opts...), model: model}
}

// Generate sends prompt as a single user message and returns the text blocks
// of the reply.
func (c *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}

	var out strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			out.WriteString(block.Text)
		}
	}
	return out.String(), nil
}
