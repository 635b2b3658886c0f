// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a loaded source file into a Document: a markdown
// rendering plus the structured item list consumed by the chunker. PDF
// conversion has pluggable backends (native, markitdown, docling).
package convert

import (
	"context"
	"fmt"

	"github.com/phuslu/log"

	"github.com/pdiddy/cv-ingest/internal/container"
	"github.com/pdiddy/cv-ingest/internal/logging"
	"github.com/pdiddy/cv-ingest/internal/source"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

// Converter transforms a PDF into Markdown text. Different backends
// (native, markitdown, docling) implement this interface.
type Converter interface {
	// Convert reads the PDF bytes of f and returns the Markdown content.
	Convert(ctx context.Context, f *source.File) (string, error)
}

// RuntimeDetector locates a container runtime for container-based backends.
type RuntimeDetector func() (container.Runtime, error)

// NewPDFConverter returns the PDF backend selected by cfg. Container backends
// detect a runtime and verify their image before returning.
func NewPDFConverter(cfg types.ConversionConfig, detect RuntimeDetector, logger *log.Logger) (Converter, error) {
	switch cfg.Backend {
	case types.BackendNative, "":
		return NewNativeConverter(), nil
	case types.BackendMarkitdown, types.BackendDocling:
		if detect == nil {
			detect = container.DetectRuntime
		}
		rt, err := detect()
		if err != nil {
			return nil, err
		}
		if cfg.Backend == types.BackendMarkitdown {
			return NewMarkitdownConverter(rt, cfg.Image)
		}
		return NewDoclingConverter(rt, cfg.Image, logger)
	default:
		return nil, fmt.Errorf("unsupported conversion backend %q: use native, markitdown, or docling", cfg.Backend)
	}
}

// Service converts source files of any supported kind into Documents.
type Service struct {
	pdf    Converter
	html   *HTMLConverter
	logger *log.Logger
}

// NewService returns a Service that converts PDFs with pdf.
func NewService(pdf Converter, logger *log.Logger) *Service {
	return &Service{
		pdf:    pdf,
		html:   NewHTMLConverter(),
		logger: logging.OrDiscard(logger),
	}
}

// Convert produces the Document for f. PDFs go through the configured backend,
// HTML through the HTML converter; markdown and plain text pass through.
// Document.Source is always f.Locator.
func (s *Service) Convert(ctx context.Context, f *source.File) (*types.Document, error) {
	info := types.DocumentInfo{MIMEType: f.MIMEType}

	var markdown string
	switch f.Kind {
	case source.KindPDF:
		if s.pdf == nil {
			return nil, fmt.Errorf("converting %s: no PDF converter configured", f.Locator)
		}
		md, err := s.pdf.Convert(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", f.Locator, err)
		}
		markdown = md

		pi, err := ReadPDFInfo(f.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("source", f.Locator).Msg("could not read PDF properties")
		} else {
			info.PageCount = pi.PageCount
			info.Title = pi.Title
			info.Author = pi.Author
		}
	case source.KindHTML:
		md, err := s.html.Convert(f)
		if err != nil {
			return nil, fmt.Errorf("converting %s: %w", f.Locator, err)
		}
		markdown = md
	case source.KindMarkdown, source.KindText:
		markdown = string(f.Data)
	default:
		return nil, fmt.Errorf("converting %s: unsupported document type %s", f.Locator, f.MIMEType)
	}

	items := Structure(markdown)
	s.logger.Debug().
		Str("source", f.Locator).
		Str("kind", string(f.Kind)).
		Int("markdown_chars", len(markdown)).
		Int("items", len(items)).
		Msg("document converted")

	return &types.Document{
		Source:   f.Locator,
		Markdown: markdown,
		Items:    items,
		Info:     info,
	}, nil
}
