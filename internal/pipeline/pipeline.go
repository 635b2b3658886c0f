// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the ingestion stages for one document: load,
// convert, extract the owner's name, chunk and enrich.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/phuslu/log"

	"github.com/pdiddy/cv-ingest/internal/enrich"
	"github.com/pdiddy/cv-ingest/internal/logging"
	"github.com/pdiddy/cv-ingest/internal/source"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

// Loader resolves a locator to the source bytes.
type Loader interface {
	Load(ctx context.Context, locator string) (*source.File, error)
}

// Converter turns a loaded source into a Document.
type Converter interface {
	Convert(ctx context.Context, f *source.File) (*types.Document, error)
}

// NameExtractor returns the name of the person a document is about.
type NameExtractor interface {
	ExtractName(ctx context.Context, markdown string) (string, error)
}

// Chunker splits a document into chunks.
type Chunker interface {
	Chunk(doc *types.Document) []types.Chunk
}

// Result holds everything a run produced.
type Result struct {
	Document *types.Document
	Name     string
	Chunks   []types.Chunk
	Records  []types.EnrichedRecord
}

// Runner executes the stages in order. Any stage failure aborts the run.
type Runner struct {
	Loader    Loader
	Converter Converter
	Extractor NameExtractor
	Chunker   Chunker

	// Report receives the human-readable summary lines.
	Report io.Writer

	Logger *log.Logger
}

// Run processes the document at locator. The locator is used verbatim as
// the document identifier of every record.
func (r *Runner) Run(ctx context.Context, locator string) (*Result, error) {
	logger := logging.OrDiscard(r.Logger)
	w := r.Report
	if w == nil {
		w = io.Discard
	}

	logger.Info().Str("source", locator).Msg("loading")
	f, err := r.Loader.Load(ctx, locator)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("source", locator).Str("mime", f.MIMEType).Int("bytes", len(f.Data)).Msg("converting")
	doc, err := r.Converter.Convert(ctx, f)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("source", locator).Msg("extracting name")
	name, err := r.Extractor.ExtractName(ctx, doc.ExportToMarkdown())
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w, "Extracted name: %s\n", name)

	chunks := r.Chunker.Chunk(doc)
	logger.Info().Int("items", len(doc.Items)).Int("chunks", len(chunks)).Msg("chunked")
	fmt.Fprintf(w, "Number of chunks: %d\n", len(chunks))
	if len(chunks) > 0 {
		fmt.Fprintf(w, "First chunk: %s\n", chunks[0])
	}

	records := enrich.Records(chunks, doc.Source, name)
	fmt.Fprintf(w, "Total chunks with metadata: %d\n", len(records))

	return &Result{
		Document: doc,
		Name:     name,
		Chunks:   chunks,
		Records:  records,
	}, nil
}
