// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// Chunk is a bounded span of a document's text sized for an embedding model.
// Chunks are produced once by the chunker and read-only afterwards.
type Chunk struct {
	// Text is the chunk payload without heading context.
	Text string `json:"text" yaml:"text"`

	// Headings is the heading path shared by the chunk's items.
	Headings []string `json:"headings,omitempty" yaml:"headings,omitempty"`

	// Pages lists the distinct pages the chunk spans, ascending.
	Pages []int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Items are indices into Document.Items covered by the chunk.
	Items []int `json:"items,omitempty" yaml:"items,omitempty"`
}

// TextContent returns the chunk payload.
func (c Chunk) TextContent() string {
	return c.Text
}

// Contextualize returns the text used for embedding: the heading path, one
// heading per line, followed by the payload.
func (c Chunk) Contextualize() string {
	if len(c.Headings) == 0 {
		return c.Text
	}
	return strings.Join(c.Headings, "\n") + "\n" + c.Text
}

// String renders the chunk for human-readable reports.
func (c Chunk) String() string {
	return fmt.Sprintf("text=%q headings=%q pages=%v", c.Text, c.Headings, c.Pages)
}
