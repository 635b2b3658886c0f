// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/pdiddy/cv-ingest/pkg/types"
)

var pageMarker = regexp.MustCompile(`<!--\s*page\s+(\d+)\s*-->`)

var mdParser = goldmark.New(goldmark.WithExtensions(extension.Table))

// Structure parses Markdown into doc items in reading order. Each item
// carries the path of headings enclosing it. A <!-- page N --> comment sets
// the page of the items that follow it.
func Structure(md string) []types.DocItem {
	src := []byte(md)
	doc := mdParser.Parser().Parse(text.NewReader(src))

	w := &structureWalker{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n)
	}
	return w.items
}

type heading struct {
	level int
	text  string
}

type structureWalker struct {
	src   []byte
	stack []heading
	page  int
	items []types.DocItem
}

func (w *structureWalker) path() []string {
	if len(w.stack) == 0 {
		return nil
	}
	out := make([]string, len(w.stack))
	for i, h := range w.stack {
		out[i] = h.text
	}
	return out
}

func (w *structureWalker) add(kind types.ItemKind, s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	w.items = append(w.items, types.DocItem{
		Kind:     kind,
		Text:     s,
		Headings: w.path(),
		Page:     w.page,
	})
}

func (w *structureWalker) block(n ast.Node) {
	switch n := n.(type) {
	case *ast.Heading:
		t := plainText(n, w.src)
		if t == "" {
			return
		}
		for len(w.stack) > 0 && w.stack[len(w.stack)-1].level >= n.Level {
			w.stack = w.stack[:len(w.stack)-1]
		}
		w.items = append(w.items, types.DocItem{
			Kind:     types.ItemHeading,
			Text:     t,
			Headings: w.path(),
			Level:    n.Level,
			Page:     w.page,
		})
		w.stack = append(w.stack, heading{level: n.Level, text: t})
	case *ast.Paragraph, *ast.TextBlock:
		w.add(types.ItemParagraph, plainText(n, w.src))
	case *ast.List:
		w.list(n)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		w.add(types.ItemCode, strings.TrimRight(rawLines(n, w.src), "\n"))
	case *ast.Blockquote:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.block(c)
		}
	case *ast.HTMLBlock:
		raw := rawLines(n, w.src)
		if n.HasClosure() {
			raw += string(n.ClosureLine.Value(w.src))
		}
		if m := pageMarker.FindStringSubmatch(raw); m != nil {
			if p, err := strconv.Atoi(m[1]); err == nil {
				w.page = p
			}
		}
	case *extast.Table:
		w.add(types.ItemTable, tableText(n, w.src))
	}
}

// list emits one item per list entry. Nested lists yield their own items
// after the entry that contains them.
func (w *structureWalker) list(l *ast.List) {
	for li := l.FirstChild(); li != nil; li = li.NextSibling() {
		var parts []string
		var nested []ast.Node
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.List:
				nested = append(nested, c)
			case *ast.Paragraph, *ast.TextBlock:
				parts = append(parts, plainText(c, w.src))
			case *ast.FencedCodeBlock, *ast.CodeBlock:
				parts = append(parts, strings.TrimSpace(rawLines(c, w.src)))
			default:
				parts = append(parts, plainText(c, w.src))
			}
		}
		w.add(types.ItemListItem, strings.Join(nonEmpty(parts), " "))
		for _, n := range nested {
			w.list(n.(*ast.List))
		}
	}
}

func tableText(t *extast.Table, src []byte) string {
	var rows []string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, plainText(c, src))
		}
		rows = append(rows, strings.Join(cells, " | "))
	}
	return strings.Join(rows, "\n")
}

// plainText returns the inline text under n with markup removed and runs of
// whitespace collapsed.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.Label(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func rawLines(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return b.String()
}

func nonEmpty(ss []string) []string {
	out := ss[:0]
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
