// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-ingest/internal/source"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

type fakeLoader struct {
	err     error
	locator string
}

func (f *fakeLoader) Load(_ context.Context, locator string) (*source.File, error) {
	f.locator = locator
	if f.err != nil {
		return nil, f.err
	}
	return &source.File{Locator: locator, Data: []byte("%PDF"), MIMEType: "application/pdf", Kind: source.KindPDF}, nil
}

type fakeConverter struct {
	markdown string
}

func (f *fakeConverter) Convert(_ context.Context, src *source.File) (*types.Document, error) {
	return &types.Document{Source: src.Locator, Markdown: f.markdown}, nil
}

type fakeExtractor struct {
	name     string
	err      error
	markdown string
}

func (f *fakeExtractor) ExtractName(_ context.Context, markdown string) (string, error) {
	f.markdown = markdown
	return f.name, f.err
}

type fakeChunker struct {
	chunks []types.Chunk
	called bool
}

func (f *fakeChunker) Chunk(_ *types.Document) []types.Chunk {
	f.called = true
	return f.chunks
}

func fiveChunks() []types.Chunk {
	return []types.Chunk{
		{Text: "Jane Doe, platform engineer", Headings: []string{"Jane Doe"}},
		{Text: "Acme Corp"},
		{Text: "Go, Rust"},
		{Text: "MSc"},
		{Text: "References"},
	}
}

func TestRun(t *testing.T) {
	const locator = "documents/CV_rev5.pdf"
	ext := &fakeExtractor{name: "Jane Doe"}
	var report bytes.Buffer
	r := &Runner{
		Loader:    &fakeLoader{},
		Converter: &fakeConverter{markdown: "# Jane Doe\n\nPlatform engineer"},
		Extractor: ext,
		Chunker:   &fakeChunker{chunks: fiveChunks()},
		Report:    &report,
	}

	res, err := r.Run(context.Background(), locator)
	require.NoError(t, err)

	assert.Equal(t, "# Jane Doe\n\nPlatform engineer", ext.markdown)
	assert.Equal(t, "Jane Doe", res.Name)
	require.Len(t, res.Records, 5)
	for i, rec := range res.Records {
		assert.Equal(t, locator, rec.Metadata.DocumentID)
		assert.Equal(t, "Jane Doe", rec.Metadata.PersonName)
		assert.Equal(t, i, rec.Metadata.ChunkIndex)
		assert.Equal(t, res.Chunks[i].Text, rec.Text)
	}

	lines := strings.Split(strings.TrimRight(report.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Extracted name: Jane Doe", lines[0])
	assert.Equal(t, "Number of chunks: 5", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "First chunk: "))
	assert.Contains(t, lines[2], "Jane Doe, platform engineer")
	assert.Equal(t, "Total chunks with metadata: 5", lines[3])
}

func TestRun_NoChunks(t *testing.T) {
	var report bytes.Buffer
	r := &Runner{
		Loader:    &fakeLoader{},
		Converter: &fakeConverter{},
		Extractor: &fakeExtractor{name: ""},
		Chunker:   &fakeChunker{},
		Report:    &report,
	}

	res, err := r.Run(context.Background(), "empty.pdf")
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Equal(t, "Extracted name: \nNumber of chunks: 0\nTotal chunks with metadata: 0\n", report.String())
}

func TestRun_StageFailureAborts(t *testing.T) {
	t.Run("loader", func(t *testing.T) {
		sentinel := errors.New("no such file")
		ch := &fakeChunker{}
		r := &Runner{Loader: &fakeLoader{err: sentinel}, Converter: &fakeConverter{}, Extractor: &fakeExtractor{}, Chunker: ch}
		_, err := r.Run(context.Background(), "missing.pdf")
		assert.ErrorIs(t, err, sentinel)
		assert.False(t, ch.called)
	})

	t.Run("extractor", func(t *testing.T) {
		sentinel := errors.New("permission denied")
		ch := &fakeChunker{chunks: fiveChunks()}
		var report bytes.Buffer
		r := &Runner{Loader: &fakeLoader{}, Converter: &fakeConverter{}, Extractor: &fakeExtractor{err: sentinel}, Chunker: ch, Report: &report}
		_, err := r.Run(context.Background(), "cv.pdf")
		assert.ErrorIs(t, err, sentinel)
		assert.False(t, ch.called, "chunking must not run after a failed extraction")
		assert.Empty(t, report.String())
	})
}

func TestWriteRecords(t *testing.T) {
	records := []types.EnrichedRecord{
		{ID: "id-0", Text: "Acme Corp", Metadata: types.RecordMetadata{DocumentID: "cv.pdf", PersonName: "Jane Doe", ChunkIndex: 0}},
	}

	t.Run("text writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRecords(&buf, types.OutputText, records))
		assert.Empty(t, buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRecords(&buf, types.OutputJSON, records))
		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		meta := got[0]["metadata"].(map[string]any)
		assert.Equal(t, "Jane Doe", meta["person_name"])
		assert.Equal(t, float64(0), meta["chunk_index"])
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRecords(&buf, types.OutputYAML, records))
		assert.Contains(t, buf.String(), "document_id: cv.pdf")
		var got []types.EnrichedRecord
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, records, got)
	})

	t.Run("empty json is an array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteRecords(&buf, types.OutputJSON, nil))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		assert.Error(t, WriteRecords(&bytes.Buffer{}, "csv", records))
	})
}
