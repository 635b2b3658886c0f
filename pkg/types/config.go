// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceConfig holds settings for loading the input document.
type SourceConfig struct {
	// Locator is a local path or URL (file://, http://, https://) of the document.
	Locator string `json:"locator" yaml:"locator" validate:"required"`
}

// ConversionBackend identifies the PDF conversion tool.
type ConversionBackend string

const (
	BackendNative     ConversionBackend = "native"
	BackendMarkitdown ConversionBackend = "markitdown"
	BackendDocling    ConversionBackend = "docling"
)

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the PDF converter: native, markitdown, or docling.
	Backend ConversionBackend `json:"backend" yaml:"backend" validate:"oneof=native markitdown docling"`

	// Image overrides the container image used by the markitdown and docling backends.
	Image string `json:"image,omitempty" yaml:"image,omitempty"`
}

// GenerationProvider identifies the text-generation service used for name extraction.
type GenerationProvider string

const (
	ProviderGemini GenerationProvider = "gemini"
	ProviderClaude GenerationProvider = "claude"
)

// GenerationConfig holds settings for the name-extraction call. The API key is
// carried explicitly; it is never read from the environment by the extractor.
type GenerationConfig struct {
	// Provider selects the generation backend: gemini or claude.
	Provider GenerationProvider `json:"provider" yaml:"provider" validate:"oneof=gemini claude"`

	// Model is the model identifier (e.g. "gemini-1.5-flash-8b").
	Model string `json:"model" yaml:"model"`

	// APIKey authenticates against the generation service. It is not validated
	// up front; a missing key surfaces on the first generation call.
	APIKey string `json:"-" yaml:"-"`

	// BaseURL overrides the service endpoint. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// ChunkingConfig holds settings for the tokenizer-aware chunker.
type ChunkingConfig struct {
	// Tokenizer is the HuggingFace model identifier whose tokenizer sizes the
	// chunks, or "estimate" for the offline approximation.
	Tokenizer string `json:"tokenizer" yaml:"tokenizer" validate:"required"`

	// TokenizerFile points to a local tokenizer.json, skipping the hub download.
	TokenizerFile string `json:"tokenizer_file,omitempty" yaml:"tokenizer_file,omitempty"`

	// MaxTokens is the token budget of a single chunk including its headings.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" validate:"min=16"`

	// MergePeers joins consecutive undersized chunks that share headings.
	MergePeers bool `json:"merge_peers" yaml:"merge_peers"`
}

// OutputFormat selects how the enriched records are reported.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// PipelineConfig groups all stage configurations for a single run.
type PipelineConfig struct {
	Source     SourceConfig     `json:"source" yaml:"source"`
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Chunking   ChunkingConfig   `json:"chunking" yaml:"chunking"`
	Format     OutputFormat     `json:"format" yaml:"format" validate:"oneof=text json yaml"`
}
