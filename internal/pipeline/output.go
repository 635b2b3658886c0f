// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

// WriteRecords emits records to w in the given format. The text format
// writes nothing; its report lines are the output.
func WriteRecords(w io.Writer, format types.OutputFormat, records []types.EnrichedRecord) error {
	if records == nil {
		records = []types.EnrichedRecord{}
	}
	switch format {
	case types.OutputText, "":
		return nil
	case types.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding records as JSON: %w", err)
		}
		return nil
	case types.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encoding records as YAML: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
