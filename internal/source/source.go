// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source resolves a document locator (local path or URL) to its bytes
// and detects what kind of document it is.
package source

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
)

// LocatorType classifies a document locator.
type LocatorType int

const (
	TypeUnknown LocatorType = iota
	TypePath
	TypeFileURL
	TypeHTTP
	TypeStorage
)

func (t LocatorType) String() string {
	switch t {
	case TypePath:
		return "path"
	case TypeFileURL:
		return "file"
	case TypeHTTP:
		return "http"
	case TypeStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Kind is the document format the converter dispatches on.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindHTML     Kind = "html"
	KindMarkdown Kind = "markdown"
	KindText     Kind = "text"
	KindUnknown  Kind = "unknown"
)

// File is a loaded source document.
type File struct {
	// Locator is the caller's locator, unmodified.
	Locator string

	// URL is the normalized URL the bytes were fetched from.
	URL string

	// Name is the base filename, e.g. "CV_rev5.pdf".
	Name string

	Data     []byte
	MIMEType string
	Kind     Kind
}

// Fetcher downloads the content at a URL. afs.Service satisfies it.
type Fetcher interface {
	DownloadWithURL(ctx context.Context, URL string, options ...storage.Option) ([]byte, error)
}

// Loader loads documents through a Fetcher.
type Loader struct {
	fetcher Fetcher
}

// NewLoader returns a Loader backed by the abstract file storage service, which
// handles local files, http(s), and the other registered storage schemes.
func NewLoader() *Loader {
	return &Loader{fetcher: afs.New()}
}

// NewLoaderWithFetcher returns a Loader using the given fetcher.
func NewLoaderWithFetcher(f Fetcher) *Loader {
	return &Loader{fetcher: f}
}

// Classify determines the locator type and returns the URL to fetch.
// Plain paths are made absolute and turned into file:// URLs.
func Classify(locator string) (LocatorType, string, error) {
	locator = strings.TrimSpace(locator)
	if locator == "" {
		return TypeUnknown, "", fmt.Errorf("empty document locator")
	}

	if !strings.Contains(locator, "://") {
		abs, err := filepath.Abs(locator)
		if err != nil {
			return TypeUnknown, "", fmt.Errorf("resolving path %s: %w", locator, err)
		}
		return TypePath, "file://" + filepath.ToSlash(abs), nil
	}

	u, err := url.Parse(locator)
	if err != nil {
		return TypeUnknown, "", fmt.Errorf("parsing locator %q: %w", locator, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return TypeFileURL, locator, nil
	case "http", "https":
		return TypeHTTP, locator, nil
	case "":
		return TypeUnknown, "", fmt.Errorf("locator %q has no scheme", locator)
	default:
		return TypeStorage, locator, nil
	}
}

// Load fetches the document at locator and detects its kind.
func (l *Loader) Load(ctx context.Context, locator string) (*File, error) {
	typ, fetchURL, err := Classify(locator)
	if err != nil {
		return nil, err
	}

	data, err := l.fetcher.DownloadWithURL(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", locator, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("loading %s: document is empty", locator)
	}

	name := baseName(fetchURL)
	if typ == TypePath {
		// A file name may contain '#' or '?'.
		name = filepath.Base(strings.TrimSpace(locator))
	}
	mime, kind := Detect(data, name)
	return &File{
		Locator:  locator,
		URL:      fetchURL,
		Name:     name,
		Data:     data,
		MIMEType: mime,
		Kind:     kind,
	}, nil
}

// Detect sniffs the content type of data. Markdown cannot be sniffed, so a
// text payload with a markdown extension is reported as markdown.
func Detect(data []byte, name string) (string, Kind) {
	m := mimetype.Detect(data)
	ext := strings.ToLower(path.Ext(name))

	switch {
	case m.Is("application/pdf"):
		return m.String(), KindPDF
	case m.Is("text/html"):
		return m.String(), KindHTML
	case strings.HasPrefix(m.String(), "text/"):
		if ext == ".md" || ext == ".markdown" {
			return "text/markdown", KindMarkdown
		}
		return m.String(), KindText
	default:
		return m.String(), KindUnknown
	}
}

// baseName returns the last path element of a URL, ignoring any query.
func baseName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}
