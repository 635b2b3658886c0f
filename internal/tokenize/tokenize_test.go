// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokenize

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

func TestEstimateCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace", " \n\t ", 0},
		{"short words", "Jane Doe is an engineer", 5},
		{"punctuation", "Go, Rust.", 4},
		{"long word", "internationalization", 1 + 18/4},
		{"email", "jane@example.com", 6},
		{"han", "简历", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Estimate{}).Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateCount_Monotonic(t *testing.T) {
	base := "Led the platform team"
	longer := base + " and shipped the ingestion service"
	if (Estimate{}).Count(longer) <= (Estimate{}).Count(base) {
		t.Error("appending words should increase the count")
	}
	if got := (Estimate{}).Count(strings.Repeat("word ", 100)); got != 100 {
		t.Errorf("Count = %d, want 100", got)
	}
}

func TestNew(t *testing.T) {
	tk, err := New(types.ChunkingConfig{Tokenizer: ModelEstimate})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tk.Name() != ModelEstimate {
		t.Errorf("Name = %q, want %q", tk.Name(), ModelEstimate)
	}

	_, err = New(types.ChunkingConfig{
		Tokenizer:     DefaultModel,
		TokenizerFile: filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil {
		t.Error("expected error for missing tokenizer file")
	}
}

func newFixture(t *testing.T, name string) Tokenizer {
	t.Helper()
	tk, err := New(types.ChunkingConfig{
		Tokenizer:     DefaultModel,
		TokenizerFile: filepath.Join("testdata", name),
	})
	if err != nil {
		t.Fatalf("New(%s): %v", name, err)
	}
	return tk
}

func TestHuggingFaceCount(t *testing.T) {
	tk := newFixture(t, "wordpiece.json")
	if tk.Name() != DefaultModel {
		t.Errorf("Name = %q, want %q", tk.Name(), DefaultModel)
	}

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"subwords and punctuation", "Jane Doe golang engineer.", 6},
		{"unknown word", "xyz", 1},
		{"mixed", "Led the team, Jane.", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tk.Count(tt.text); got != tt.want {
				t.Errorf("Count(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestHuggingFaceCount_NotCapped(t *testing.T) {
	text := strings.Repeat("jane ", 300)
	for _, name := range []string{"wordpiece.json", "minilm_header.json"} {
		t.Run(name, func(t *testing.T) {
			tk := newFixture(t, name)
			if got := tk.Count(text); got != 300 {
				t.Errorf("Count = %d, want 300", got)
			}
		})
	}
}
