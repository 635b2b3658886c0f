// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFInfo holds document-level properties read from a PDF.
type PDFInfo struct {
	PageCount int
	Title     string
	Author    string
}

// ReadPDFInfo reads the page count and the title and author from the
// document information dictionary.
func ReadPDFInfo(data []byte) (PDFInfo, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return PDFInfo{}, fmt.Errorf("reading PDF context: %w", err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return PDFInfo{}, fmt.Errorf("validating PDF: %w", err)
	}

	return PDFInfo{
		PageCount: ctx.PageCount,
		Title:     strings.TrimSpace(ctx.Title),
		Author:    strings.TrimSpace(ctx.Author),
	}, nil
}
