// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enrich attaches document identity metadata to chunks.
package enrich

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

// textContenter is implemented by chunks that expose their payload text.
type textContenter interface {
	TextContent() string
}

// Records returns one EnrichedRecord per chunk, in input order. The chunk
// index is the chunk's position in chunks; equal chunks get distinct
// indices. documentID and personName are copied verbatim into every record.
// Records has no side effects.
func Records[C any](chunks []C, documentID, personName string) []types.EnrichedRecord {
	records := make([]types.EnrichedRecord, 0, len(chunks))
	for i, c := range chunks {
		records = append(records, types.EnrichedRecord{
			ID:   RecordID(documentID, i),
			Text: TextOf(c),
			Metadata: types.RecordMetadata{
				DocumentID: documentID,
				PersonName: personName,
				ChunkIndex: i,
			},
		})
	}
	return records
}

// TextOf returns the chunk's text: TextContent when the chunk exposes it,
// otherwise its String rendering, otherwise the default formatting.
func TextOf(c any) string {
	switch v := c.(type) {
	case textContenter:
		return v.TextContent()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(c)
	}
}

// RecordID derives a stable identifier for the chunk at index of documentID.
func RecordID(documentID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(documentID+"#"+strconv.Itoa(index))).String()
}
