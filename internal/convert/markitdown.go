// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"

	"github.com/pdiddy/cv-ingest/internal/container"
	"github.com/pdiddy/cv-ingest/internal/source"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image. It depends on a container.Runtime (docker or podman)
// injected at construction time.
type MarkitdownConverter struct {
	runtime container.Runtime
	image   string
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run the markitdown image. An empty image selects the default.
// It verifies that the image exists locally before returning.
func NewMarkitdownConverter(rt container.Runtime, image string) (*MarkitdownConverter, error) {
	if image == "" {
		image = imageMarkitdown
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, image: image}, nil
}

// Convert pipes the PDF bytes through the markitdown container and returns
// the resulting Markdown text.
func (m *MarkitdownConverter) Convert(ctx context.Context, f *source.File) (string, error) {
	var out bytes.Buffer
	err := m.runtime.Run(ctx, container.Spec{
		Image:  m.image,
		Stdin:  bytes.NewReader(f.Data),
		Stdout: &out,
	})
	if err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", f.Name, err)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", f.Name)
	}

	return out.String(), nil
}
