// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-1.5-flash-8b"

// GeminiGenerator calls the Gemini API. The client is created on the first
// call, so a missing API key surfaces as a generation error.
type GeminiGenerator struct {
	APIKey  string
	Model   string
	BaseURL string

	once   sync.Once
	client *genai.Client
	err    error
}

func (g *GeminiGenerator) init(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cfg := &genai.ClientConfig{
			APIKey:  g.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
		if g.BaseURL != "" {
			cfg.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
		}
		g.client, g.err = genai.NewClient(ctx, cfg)
	})
	if g.err != nil {
		return nil, fmt.Errorf("initializing Gemini client: %w", g.err)
	}
	return g.client, nil
}

// Generate sends prompt as a single user turn and returns the response text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := g.init(ctx)
	if err != nil {
		return "", err
	}

	model := g.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	return resp.Text(), nil
}
