package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cv-ingest/internal/chunk"
	"github.com/pdiddy/cv-ingest/internal/convert"
	"github.com/pdiddy/cv-ingest/internal/identity"
	"github.com/pdiddy/cv-ingest/internal/logging"
	"github.com/pdiddy/cv-ingest/internal/pipeline"
	"github.com/pdiddy/cv-ingest/internal/secrets"
	"github.com/pdiddy/cv-ingest/internal/source"
	"github.com/pdiddy/cv-ingest/internal/tokenize"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

// Viper keys. Nested keys match the yaml layout of the config file.
const (
	keyBackend         = "conversion.backend"
	keyImage           = "conversion.image"
	keyProvider        = "generation.provider"
	keyModel           = "generation.model"
	keyBaseURL         = "generation.base_url"
	keyTokenizer       = "chunking.tokenizer"
	keyTokenizerFile   = "chunking.tokenizer_file"
	keyMaxTokens       = "chunking.max_tokens"
	keyMergePeers      = "chunking.merge_peers"
	keyFormat          = "format"
	keyGoogleAPIKey    = "google_api_key"
	keyAnthropicAPIKey = "anthropic_api_key"
)

var runCmd = &cobra.Command{
	Use:   "run <source>",
	Short: "Convert, name, chunk and enrich one document",
	Long: `Run processes one document, given as a local path or a URL (file://,
http://, https://). It converts the document to Markdown, extracts the name of
the person it is about, chunks it for the embedding model's tokenizer and
attaches document metadata to every chunk.

With --format text (the default) only the summary is printed. With json or
yaml the enriched records are written to stdout and the summary to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	f := runCmd.Flags()
	f.String("backend", string(types.BackendNative), "PDF conversion backend: native, markitdown, or docling")
	f.String("image", "", "container image for the markitdown or docling backend")
	f.String("provider", string(types.ProviderGemini), "name extraction provider: gemini or claude")
	f.String("model", "", "model identifier (default gemini-1.5-flash-8b, or claude-3-5-haiku-latest for claude)")
	f.String("base-url", "", "override the generation API endpoint")
	f.String("tokenizer", tokenize.DefaultModel, "HuggingFace tokenizer model id, or \"estimate\" to work offline")
	f.String("tokenizer-file", "", "local tokenizer.json to use instead of downloading one")
	f.Int("max-tokens", chunk.DefaultMaxTokens, "maximum tokens per chunk, headings included")
	f.Bool("merge-peers", true, "merge undersized neighbouring chunks that share headings")
	f.String("format", string(types.OutputText), "output format: text, json, or yaml")

	for key, flag := range map[string]string{
		keyBackend:       "backend",
		keyImage:         "image",
		keyProvider:      "provider",
		keyModel:         "model",
		keyBaseURL:       "base-url",
		keyTokenizer:     "tokenizer",
		keyTokenizerFile: "tokenizer-file",
		keyMaxTokens:     "max-tokens",
		keyMergePeers:    "merge-peers",
		keyFormat:        "format",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(runCmd)
}

// buildConfig assembles the run configuration. The API key for the selected
// provider comes from the secrets directory when present, otherwise from v.
func buildConfig(v *viper.Viper, locator string, s secrets.Set) types.PipelineConfig {
	provider := types.GenerationProvider(v.GetString(keyProvider))

	var apiKey string
	switch provider {
	case types.ProviderClaude:
		apiKey = s.Get(secrets.AnthropicAPIKey, v.GetString(keyAnthropicAPIKey))
	default:
		apiKey = s.Get(secrets.GoogleAPIKey, v.GetString(keyGoogleAPIKey))
	}

	return types.PipelineConfig{
		Source: types.SourceConfig{Locator: locator},
		Conversion: types.ConversionConfig{
			Backend: types.ConversionBackend(v.GetString(keyBackend)),
			Image:   v.GetString(keyImage),
		},
		Generation: types.GenerationConfig{
			Provider: provider,
			Model:    v.GetString(keyModel),
			APIKey:   apiKey,
			BaseURL:  v.GetString(keyBaseURL),
		},
		Chunking: types.ChunkingConfig{
			Tokenizer:     v.GetString(keyTokenizer),
			TokenizerFile: v.GetString(keyTokenizerFile),
			MaxTokens:     v.GetInt(keyMaxTokens),
			MergePeers:    v.GetBool(keyMergePeers),
		},
		Format: types.OutputFormat(v.GetString(keyFormat)),
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(viper.GetViper(), args[0], loadedSecrets)
	if err := cfg.Validate(); err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	report := stdout
	if cfg.Format != types.OutputText {
		report = cmd.ErrOrStderr()
	}
	logger := logging.New(viper.GetString("log_level"), cmd.ErrOrStderr())

	pdf, err := convert.NewPDFConverter(cfg.Conversion, nil, logger)
	if err != nil {
		return err
	}
	gen, err := identity.NewGenerator(cfg.Generation)
	if err != nil {
		return err
	}
	chunker, err := chunk.NewFromConfig(cfg.Chunking)
	if err != nil {
		return err
	}
	logger.Info().
		Str("backend", string(cfg.Conversion.Backend)).
		Str("provider", string(cfg.Generation.Provider)).
		Str("tokenizer", chunker.Tokenizer().Name()).
		Int("max_tokens", cfg.Chunking.MaxTokens).
		Msg("pipeline configured")

	runner := &pipeline.Runner{
		Loader:    source.NewLoader(),
		Converter: convert.NewService(pdf, logger),
		Extractor: identity.NewExtractor(gen, logger),
		Chunker:   chunker,
		Report:    report,
		Logger:    logger,
	}

	res, err := runner.Run(context.Background(), cfg.Source.Locator)
	if err != nil {
		return fmt.Errorf("processing %s: %w", cfg.Source.Locator, err)
	}
	return pipeline.WriteRecords(stdout, cfg.Format, res.Records)
}
