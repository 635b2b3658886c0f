// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"net/url"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/pdiddy/cv-ingest/internal/source"
)

// HTMLConverter renders HTML sources (e.g. an online CV page) as Markdown.
type HTMLConverter struct{}

// NewHTMLConverter returns an HTMLConverter.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

// Convert renders f's HTML as Markdown. Relative links are resolved against
// the host f was fetched from.
func (h *HTMLConverter) Convert(f *source.File) (string, error) {
	domain := ""
	if u, err := url.Parse(f.URL); err == nil && u.Host != "" {
		domain = u.Scheme + "://" + u.Host
	}

	conv := md.NewConverter(domain, true, nil)
	out, err := conv.ConvertString(string(f.Data))
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return out, nil
}
