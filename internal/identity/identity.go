// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package identity asks a text-generation model for the name of the person a
// document is about.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/phuslu/log"

	"github.com/pdiddy/cv-ingest/internal/logging"
)

// Generator abstracts the text-generation API so tests can supply a mock.
// It sends a single prompt and returns the model's raw text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Extractor extracts the owner's name from a document's markdown.
type Extractor struct {
	gen    Generator
	logger *log.Logger
}

// NewExtractor returns an Extractor that calls gen.
func NewExtractor(gen Generator, logger *log.Logger) *Extractor {
	return &Extractor{gen: gen, logger: logging.OrDiscard(logger)}
}

// ExtractName sends the first ExcerptRunes characters of markdown to the
// generator in the name prompt and returns the response with surrounding
// whitespace trimmed. The response is not validated; it may be empty or not a
// name at all. The generator is called exactly once.
func (e *Extractor) ExtractName(ctx context.Context, markdown string) (string, error) {
	prompt, err := RenderPrompt(markdown)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	e.logger.Debug().Int("prompt_chars", len(prompt)).Msg("requesting name")

	out, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("extracting name: %w", err)
	}
	return strings.TrimSpace(out), nil
}
