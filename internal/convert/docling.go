// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"

	"github.com/pdiddy/cv-ingest/internal/container"
	"github.com/pdiddy/cv-ingest/internal/logging"
	"github.com/pdiddy/cv-ingest/internal/source"
)

const (
	imageDocling = "docling:latest"

	// doclingWorkDir is where the host work directory is mounted.
	doclingWorkDir = "/work"
)

// DoclingConverter converts PDFs with the docling CLI image, which performs
// layout analysis before rendering Markdown. The PDF is written to a
// temporary work directory mounted into the container and the generated
// Markdown is read back from it.
type DoclingConverter struct {
	runtime container.Runtime
	image   string

	// tempDir is the parent of per-run work directories; empty uses os.TempDir.
	tempDir string

	logger    *log.Logger
	removeAll func(string) error
}

// NewDoclingConverter creates a converter that runs the docling image through
// rt. An empty image selects the default.
func NewDoclingConverter(rt container.Runtime, image string, logger *log.Logger) (*DoclingConverter, error) {
	if image == "" {
		image = imageDocling
	}
	if err := rt.ImageExists(image); err != nil {
		return nil, fmt.Errorf("docling image not available in %s: %w", rt.Name(), err)
	}
	return &DoclingConverter{
		runtime:   rt,
		image:     image,
		logger:    logging.OrDiscard(logger),
		removeAll: os.RemoveAll,
	}, nil
}

// Convert runs docling on the PDF and returns the Markdown it produced.
func (d *DoclingConverter) Convert(ctx context.Context, f *source.File) (string, error) {
	work, err := os.MkdirTemp(d.tempDir, "cv-ingest-docling-*")
	if err != nil {
		return "", fmt.Errorf("creating work directory: %w", err)
	}
	defer d.cleanup(work)

	name := pdfFileName(f.Name)
	if err := os.WriteFile(filepath.Join(work, name), f.Data, 0o644); err != nil {
		return "", fmt.Errorf("staging %s: %w", name, err)
	}

	err = d.runtime.Run(ctx, container.Spec{
		Image:  d.image,
		Mounts: []container.Mount{{HostPath: work, ContainerPath: doclingWorkDir}},
		Args: []string{
			"--to", "md",
			"--output", doclingWorkDir,
			doclingWorkDir + "/" + name,
		},
	})
	if err != nil {
		return "", fmt.Errorf("converting %s with docling: %w", f.Name, err)
	}

	mdPath := filepath.Join(work, strings.TrimSuffix(name, filepath.Ext(name))+".md")
	data, err := os.ReadFile(mdPath)
	if err != nil {
		return "", fmt.Errorf("reading docling output for %s: %w", f.Name, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return "", fmt.Errorf("docling produced empty output for %s", f.Name)
	}
	return string(data), nil
}

// cleanup removes a work directory. Files written by a container running as
// root cannot be removed by an unprivileged user; those are reported.
func (d *DoclingConverter) cleanup(work string) {
	if err := d.removeAll(work); err != nil {
		d.logger.Warn().Err(err).Str("dir", work).Msg("could not remove docling work directory")
	}
}

// pdfFileName returns a safe filename with a .pdf extension for staging.
func pdfFileName(name string) string {
	base := filepath.Base(name)
	if base == "." || base == "/" || base == "" {
		base = "source"
	}
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '_'
		}
		return r
	}, base)
	if !strings.EqualFold(filepath.Ext(base), ".pdf") {
		base += ".pdf"
	}
	return base
}
