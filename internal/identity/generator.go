// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package identity

import (
	"fmt"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

// NewGenerator returns the generator for cfg.Provider. The API key is taken
// from cfg as given; an empty key is not rejected here.
func NewGenerator(cfg types.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case types.ProviderGemini, "":
		return &GeminiGenerator{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL}, nil
	case types.ProviderClaude:
		return NewClaudeGenerator(cfg.APIKey, cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unsupported generation provider %q: use gemini or claude", cfg.Provider)
	}
}
