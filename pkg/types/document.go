// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ItemKind categorizes a structural element of a converted document.
type ItemKind string

const (
	ItemHeading   ItemKind = "heading"
	ItemParagraph ItemKind = "paragraph"
	ItemListItem  ItemKind = "list_item"
	ItemTable     ItemKind = "table"
	ItemCode      ItemKind = "code"
)

// DocItem is one structural element of a document in reading order.
type DocItem struct {
	// Kind categorizes the item.
	Kind ItemKind `json:"kind" yaml:"kind"`

	// Text is the item's text. Tables are rendered one row per line with
	// cells separated by " | ".
	Text string `json:"text" yaml:"text"`

	// Headings is the path of enclosing headings, outermost first. For a
	// heading item it does not include the heading itself.
	Headings []string `json:"headings,omitempty" yaml:"headings,omitempty"`

	// Level is the heading level (1-6) for heading items, zero otherwise.
	Level int `json:"level,omitempty" yaml:"level,omitempty"`

	// Page is the 1-based page the item was found on, zero when unknown.
	Page int `json:"page,omitempty" yaml:"page,omitempty"`
}

// DocumentInfo holds properties of the source file gathered during conversion.
type DocumentInfo struct {
	MIMEType  string `json:"mime_type" yaml:"mime_type"`
	PageCount int    `json:"page_count,omitempty" yaml:"page_count,omitempty"`
	Title     string `json:"title,omitempty" yaml:"title,omitempty"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
}

// Document is a converted source: its markdown rendering plus the structured
// representation consumed by the chunker. It is not modified after conversion.
type Document struct {
	// Source is the locator the document was loaded from, exactly as given.
	Source string `json:"source" yaml:"source"`

	// Markdown is the full markdown rendering.
	Markdown string `json:"markdown" yaml:"markdown"`

	// Items are the document's structural elements in reading order.
	Items []DocItem `json:"items" yaml:"items"`

	Info DocumentInfo `json:"info" yaml:"info"`
}

// ExportToMarkdown returns the markdown rendering of the document.
func (d *Document) ExportToMarkdown() string {
	return d.Markdown
}
