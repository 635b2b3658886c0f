// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/pdiddy/cv-ingest/internal/source"
)

// Layout thresholds, relative to the body font size.
const (
	titleRatio     = 1.5
	headingRatio   = 1.15
	paragraphRatio = 1.8
	wordGapRatio   = 0.2
)

// bulletGlyphs are line prefixes rendered as markdown list items.
var bulletGlyphs = []string{"•", "●", "▪", "◦", "‣", "∙", "–"}

// NativeConverter extracts the text layer of a PDF in-process. Rows set in a
// font clearly larger than the body text become headings; every page is
// preceded by a page marker comment.
type NativeConverter struct{}

// NewNativeConverter returns a NativeConverter.
func NewNativeConverter() *NativeConverter {
	return &NativeConverter{}
}

// textLine is one visual row of a page.
type textLine struct {
	Text string
	Size float64
	Y    float64
}

// Convert returns the Markdown rendering of the PDF text layer.
func (n *NativeConverter) Convert(ctx context.Context, f *source.File) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", f.Name, err)
	}

	pages := make([][]textLine, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		lines, err := pageLines(p)
		if err != nil {
			return "", fmt.Errorf("reading page %d of %s: %w", i, f.Name, err)
		}
		pages = append(pages, lines)
	}

	body := bodySize(pages)
	var b strings.Builder
	for i, lines := range pages {
		renderPage(&b, i+1, lines, body)
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("no text layer in %s", f.Name)
	}
	return out + "\n", nil
}

// pageLines returns the rows of p top to bottom.
func pageLines(p pdf.Page) (lines []textLine, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()

	rows, err := p.GetTextByRow()
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		texts := row.Content
		sort.SliceStable(texts, func(i, j int) bool { return texts[i].X < texts[j].X })

		var sb strings.Builder
		var size float64
		prevEnd := math.Inf(-1)
		for _, t := range texts {
			if t.S == "" {
				continue
			}
			if t.FontSize > size {
				size = t.FontSize
			}
			if sb.Len() > 0 && t.X-prevEnd > wordGapRatio*t.FontSize && !endsWithSpace(sb.String()) && !strings.HasPrefix(t.S, " ") {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.S)
			prevEnd = t.X + t.W
		}

		text := strings.Join(strings.Fields(sb.String()), " ")
		if text == "" {
			continue
		}
		lines = append(lines, textLine{Text: text, Size: size, Y: float64(row.Position)})
	}
	return lines, nil
}

func endsWithSpace(s string) bool {
	return strings.HasSuffix(s, " ")
}

// bodySize returns the font size carrying the most characters.
func bodySize(pages [][]textLine) float64 {
	weight := make(map[float64]int)
	for _, lines := range pages {
		for _, l := range lines {
			weight[math.Round(l.Size*10)/10] += len([]rune(l.Text))
		}
	}

	var body float64
	best := -1
	for size, w := range weight {
		if w > best || (w == best && size < body) {
			body, best = size, w
		}
	}
	return body
}

// renderPage appends the Markdown for one page to b. A vertical gap larger
// than paragraphRatio body heights starts a new paragraph; lines following a
// bullet continue that list item until the next gap.
func renderPage(b *strings.Builder, page int, lines []textLine, body float64) {
	fmt.Fprintf(b, "<!-- page %d -->\n\n", page)

	var block []string
	inList := false
	flush := func() {
		if len(block) > 0 {
			b.WriteString(strings.Join(block, "\n") + "\n\n")
		}
		block = nil
		inList = false
	}

	prevY := math.NaN()
	for _, l := range lines {
		if prefix := headingPrefix(l.Size, body); prefix != "" {
			flush()
			b.WriteString(prefix + l.Text + "\n\n")
			prevY = l.Y
			continue
		}

		text, bullet := listItem(l.Text)
		broken := !math.IsNaN(prevY) && body > 0 && prevY-l.Y > paragraphRatio*body
		switch {
		case bullet:
			if !inList {
				flush()
			}
			block = append(block, "- "+text)
			inList = true
		case inList && !broken:
			block[len(block)-1] += " " + text
		default:
			if broken || inList {
				flush()
			}
			block = append(block, text)
		}
		prevY = l.Y
	}
	flush()
}

func headingPrefix(size, body float64) string {
	if body <= 0 {
		return ""
	}
	switch {
	case size >= titleRatio*body:
		return "# "
	case size >= headingRatio*body:
		return "## "
	default:
		return ""
	}
}

// listItem strips a bullet glyph from the start of s.
func listItem(s string) (string, bool) {
	for _, g := range bulletGlyphs {
		if rest, ok := strings.CutPrefix(s, g); ok {
			return strings.TrimSpace(rest), true
		}
	}
	return s, false
}
