// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tokenize counts tokens the way an embedding model's tokenizer does,
// so chunks can be sized against the model's input limit.
package tokenize

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sugarme/tokenizer"
	"github.com/sugarme/tokenizer/pretrained"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

const (
	// DefaultModel is the embedding model whose tokenizer sizes chunks.
	DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

	// ModelEstimate selects the offline approximation.
	ModelEstimate = "estimate"

	tokenizerFile = "tokenizer.json"
)

// Tokenizer counts the tokens in a piece of text.
type Tokenizer interface {
	// Count returns the number of tokens in text, excluding special tokens.
	Count(text string) int

	// Name identifies the tokenizer in logs.
	Name() string
}

// New returns the tokenizer selected by cfg. A HuggingFace model id is
// resolved to its tokenizer.json, downloading it into the local cache on
// first use; TokenizerFile skips the download.
func New(cfg types.ChunkingConfig) (Tokenizer, error) {
	model := cfg.Tokenizer
	if model == "" {
		model = DefaultModel
	}
	if model == ModelEstimate {
		return Estimate{}, nil
	}

	path := cfg.TokenizerFile
	if path == "" {
		p, err := tokenizer.CachedPath(model, tokenizerFile)
		if err != nil {
			return nil, fmt.Errorf("fetching tokenizer for %s: %w", model, err)
		}
		path = p
	}

	tk, err := loadTokenizer(path)
	if err != nil {
		return nil, fmt.Errorf("loading tokenizer %s: %w", path, err)
	}
	return &HuggingFace{model: model, tk: tk}, nil
}

// loadTokenizer reads a tokenizer.json with its truncation and padding
// settings cleared. Counting must see every token of a chunk, and the
// loader cannot parse the padding strategies sentence-transformers exports.
func loadTokenizer(path string) (*tokenizer.Tokenizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg["truncation"] = json.RawMessage("null")
	cfg["padding"] = json.RawMessage("null")
	data, err = json.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "cv-ingest-tokenizer-*.json")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	tk, err := pretrained.FromFile(tmp.Name())
	if err != nil {
		return nil, err
	}
	tk.WithTruncation(nil)
	tk.WithPadding(nil)
	return tk, nil
}

// HuggingFace counts tokens with a model's tokenizer.json.
type HuggingFace struct {
	model string
	tk    *tokenizer.Tokenizer
}

// Count encodes text without special tokens and returns the id count.
// Text the tokenizer cannot encode is counted with the estimate.
func (h *HuggingFace) Count(text string) (n int) {
	if text == "" {
		return 0
	}
	defer func() {
		if r := recover(); r != nil {
			n = Estimate{}.Count(text)
		}
	}()
	enc, err := h.tk.EncodeSingle(text, false)
	if err != nil {
		return Estimate{}.Count(text)
	}
	return len(enc.Ids)
}

// Name returns the model id.
func (h *HuggingFace) Name() string {
	return h.model
}
