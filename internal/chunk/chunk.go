// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunk splits a converted document into chunks that fit an
// embedding model's token limit while keeping the heading context of each
// chunk.
//
// Chunking runs in three passes. The hierarchical pass turns doc items into
// chunks that carry their heading path, grouping consecutive list items. The
// split pass breaks any chunk whose contextualized text exceeds the token
// limit, first between items and then inside the text by paragraph, line,
// sentence and word. The merge pass joins consecutive chunks that share a
// heading path while the result still fits.
package chunk

import (
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/cv-ingest/internal/tokenize"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

// DefaultMaxTokens is the token budget used when none is configured.
const DefaultMaxTokens = 512

// Chunker is the hybrid tokenizer-aware chunker.
type Chunker struct {
	tok        tokenize.Tokenizer
	maxTokens  int
	mergePeers bool
}

// New returns a Chunker that sizes chunks with tok.
func New(tok tokenize.Tokenizer, maxTokens int, mergePeers bool) *Chunker {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Chunker{tok: tok, maxTokens: maxTokens, mergePeers: mergePeers}
}

// NewFromConfig loads the tokenizer named in cfg and returns a Chunker.
func NewFromConfig(cfg types.ChunkingConfig) (*Chunker, error) {
	tok, err := tokenize.New(cfg)
	if err != nil {
		return nil, err
	}
	return New(tok, cfg.MaxTokens, cfg.MergePeers), nil
}

// Tokenizer returns the tokenizer the chunker counts with.
func (c *Chunker) Tokenizer() tokenize.Tokenizer {
	return c.tok
}

// segment is a piece of chunk text attributed to one doc item.
type segment struct {
	text string
	item int
	page int
}

// draft is a chunk under construction.
type draft struct {
	headings []string
	segs     []segment
}

func (d draft) text() string {
	parts := make([]string, len(d.segs))
	for i, s := range d.segs {
		parts[i] = s.text
	}
	return strings.Join(parts, "\n")
}

// Chunk splits doc into chunks in reading order. A document without items
// yields no chunks.
func (c *Chunker) Chunk(doc *types.Document) []types.Chunk {
	if doc == nil || len(doc.Items) == 0 {
		return nil
	}

	drafts := hierarchical(doc.Items)

	var split []draft
	for _, d := range drafts {
		split = append(split, c.split(d)...)
	}

	if c.mergePeers {
		split = c.merge(split)
	}

	chunks := make([]types.Chunk, 0, len(split))
	for _, d := range split {
		chunks = append(chunks, finish(d))
	}
	return chunks
}

// hierarchical emits one draft per content item, grouping consecutive list
// items with the same heading path. Headings only provide context, except a
// heading with no content below it, which becomes a draft of its own.
func hierarchical(items []types.DocItem) []draft {
	var out []draft
	for i := 0; i < len(items); i++ {
		it := items[i]
		switch it.Kind {
		case types.ItemHeading:
			if i+1 < len(items) {
				next := items[i+1]
				if next.Kind != types.ItemHeading || next.Level > it.Level {
					continue
				}
			}
			out = append(out, draft{
				headings: it.Headings,
				segs:     []segment{{text: it.Text, item: i, page: it.Page}},
			})
		case types.ItemListItem:
			d := draft{headings: it.Headings}
			for ; i < len(items) && items[i].Kind == types.ItemListItem && slices.Equal(items[i].Headings, it.Headings); i++ {
				d.segs = append(d.segs, segment{text: "- " + items[i].Text, item: i, page: items[i].Page})
			}
			i--
			out = append(out, d)
		default:
			out = append(out, draft{
				headings: it.Headings,
				segs:     []segment{{text: it.Text, item: i, page: it.Page}},
			})
		}
	}
	return out
}

// contextualized mirrors types.Chunk.Contextualize for a draft.
func contextualized(headings []string, text string) string {
	if len(headings) == 0 {
		return text
	}
	return strings.Join(headings, "\n") + "\n" + text
}

func (c *Chunker) fits(headings []string, text string) bool {
	return c.tok.Count(contextualized(headings, text)) <= c.maxTokens
}

// budget is the number of tokens left for text once the headings are counted.
func (c *Chunker) budget(headings []string) int {
	if len(headings) == 0 {
		return c.maxTokens
	}
	b := c.maxTokens - c.tok.Count(strings.Join(headings, "\n"))
	if b < c.maxTokens/4 {
		b = c.maxTokens / 4
	}
	return max(b, 1)
}

// split breaks an oversize draft between its segments, and splits any
// segment that cannot fit on its own.
func (c *Chunker) split(d draft) []draft {
	if c.fits(d.headings, d.text()) {
		return []draft{d}
	}

	var out []draft
	cur := draft{headings: d.headings}
	flush := func() {
		if len(cur.segs) > 0 {
			out = append(out, cur)
		}
		cur = draft{headings: d.headings}
	}

	for _, s := range d.segs {
		if !c.fits(d.headings, s.text) {
			flush()
			for _, piece := range c.splitText(s.text, c.budget(d.headings)) {
				out = append(out, draft{
					headings: d.headings,
					segs:     []segment{{text: piece, item: s.item, page: s.page}},
				})
			}
			continue
		}
		cand := cur
		cand.segs = append(slices.Clone(cur.segs), s)
		if len(cur.segs) > 0 && !c.fits(d.headings, cand.text()) {
			flush()
			cur.segs = []segment{s}
			continue
		}
		cur = cand
	}
	flush()
	return out
}

// textLevel is one way of splitting text, coarsest first.
type textLevel struct {
	split func(string) []string
	join  string
}

var textLevels = []textLevel{
	{split: func(s string) []string { return nonBlank(strings.Split(s, "\n\n")) }, join: "\n\n"},
	{split: func(s string) []string { return nonBlank(strings.Split(s, "\n")) }, join: "\n"},
	{split: sentences, join: " "},
	{split: strings.Fields, join: " "},
}

// splitText splits text into pieces of at most budget tokens, breaking at the
// coarsest boundary that produces more than one piece.
func (c *Chunker) splitText(text string, budget int) []string {
	if c.tok.Count(text) <= budget {
		return []string{text}
	}
	for _, lvl := range textLevels {
		parts := lvl.split(text)
		if len(parts) > 1 {
			return c.pack(parts, lvl.join, budget)
		}
	}
	return c.splitRunes(text, budget)
}

// pack greedily joins parts while they fit, splitting oversize parts further.
func (c *Chunker) pack(parts []string, join string, budget int) []string {
	var out []string
	cur := ""
	for _, p := range parts {
		if c.tok.Count(p) > budget {
			if cur != "" {
				out = append(out, cur)
				cur = ""
			}
			out = append(out, c.splitText(p, budget)...)
			continue
		}
		if cur == "" {
			cur = p
			continue
		}
		if cand := cur + join + p; c.tok.Count(cand) <= budget {
			cur = cand
			continue
		}
		out = append(out, cur)
		cur = p
	}
	if cur != "" {
		out = append(out, cur)
	}
	return out
}

// splitRunes cuts a single unbreakable word into the longest prefixes that fit.
func (c *Chunker) splitRunes(text string, budget int) []string {
	var out []string
	r := []rune(text)
	for len(r) > 0 {
		k := sort.Search(len(r), func(n int) bool {
			return c.tok.Count(string(r[:n+1])) > budget
		})
		if k == 0 {
			k = 1
		}
		out = append(out, string(r[:k]))
		r = r[k:]
	}
	return out
}

// merge joins consecutive drafts with identical heading paths while the
// merged draft fits.
func (c *Chunker) merge(in []draft) []draft {
	if len(in) < 2 {
		return in
	}
	out := []draft{in[0]}
	for _, d := range in[1:] {
		last := &out[len(out)-1]
		if slices.Equal(last.headings, d.headings) {
			cand := draft{headings: d.headings, segs: append(slices.Clone(last.segs), d.segs...)}
			if c.fits(cand.headings, cand.text()) {
				*last = cand
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

func finish(d draft) types.Chunk {
	ch := types.Chunk{
		Text:     d.text(),
		Headings: d.headings,
	}
	for _, s := range d.segs {
		if n := len(ch.Items); n == 0 || ch.Items[n-1] != s.item {
			ch.Items = append(ch.Items, s.item)
		}
		if s.page > 0 && !slices.Contains(ch.Pages, s.page) {
			ch.Pages = append(ch.Pages, s.page)
		}
	}
	slices.Sort(ch.Pages)
	return ch
}

func nonBlank(ss []string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// sentences splits after '.', '!' or '?' followed by whitespace.
func sentences(s string) []string {
	var out []string
	start := 0
	rs := []rune(s)
	for i := 0; i < len(rs)-1; i++ {
		switch rs[i] {
		case '.', '!', '?':
			if rs[i+1] == ' ' || rs[i+1] == '\n' || rs[i+1] == '\t' {
				out = append(out, string(rs[start:i+1]))
				start = i + 1
			}
		}
	}
	out = append(out, string(rs[start:]))
	return nonBlank(out)
}
