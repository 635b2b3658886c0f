// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RecordMetadata identifies the document, person, and position of a chunk.
type RecordMetadata struct {
	// DocumentID is the source locator of the document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// PersonName is the extracted name, verbatim as returned by the model.
	PersonName string `json:"person_name" yaml:"person_name"`

	// ChunkIndex is the chunk's 0-based position in the chunk sequence.
	ChunkIndex int `json:"chunk_index" yaml:"chunk_index"`
}

// EnrichedRecord pairs a copy of a chunk's text with identity metadata.
type EnrichedRecord struct {
	// ID is stable for a given document and chunk index.
	ID string `json:"id" yaml:"id"`

	Text     string         `json:"text" yaml:"text"`
	Metadata RecordMetadata `json:"metadata" yaml:"metadata"`
}
