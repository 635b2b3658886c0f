// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/cv-ingest/internal/tokenize"
	"github.com/pdiddy/cv-ingest/pkg/types"
)

func heading(text string, level int, headings ...string) types.DocItem {
	return types.DocItem{Kind: types.ItemHeading, Text: text, Level: level, Headings: headings}
}

func para(text string, headings ...string) types.DocItem {
	return types.DocItem{Kind: types.ItemParagraph, Text: text, Headings: headings}
}

func listItem(text string, headings ...string) types.DocItem {
	return types.DocItem{Kind: types.ItemListItem, Text: text, Headings: headings}
}

func TestChunk_Empty(t *testing.T) {
	c := New(tokenize.Estimate{}, 64, true)
	assert.Empty(t, c.Chunk(&types.Document{}))
	assert.Empty(t, c.Chunk(nil))
}

func TestChunk_HierarchicalGrouping(t *testing.T) {
	doc := &types.Document{Items: []types.DocItem{
		heading("Jane Doe", 1),
		para("Engineer in Lisbon", "Jane Doe"),
		heading("Skills", 2, "Jane Doe"),
		listItem("Go", "Jane Doe", "Skills"),
		listItem("SQL", "Jane Doe", "Skills"),
	}}

	chunks := New(tokenize.Estimate{}, 64, false).Chunk(doc)
	require.Len(t, chunks, 2)

	assert.Equal(t, "Engineer in Lisbon", chunks[0].Text)
	assert.Equal(t, []string{"Jane Doe"}, chunks[0].Headings)
	assert.Equal(t, []int{1}, chunks[0].Items)

	assert.Equal(t, "- Go\n- SQL", chunks[1].Text)
	assert.Equal(t, []string{"Jane Doe", "Skills"}, chunks[1].Headings)
	assert.Equal(t, []int{3, 4}, chunks[1].Items)
	assert.Equal(t, "Jane Doe\nSkills\n- Go\n- SQL", chunks[1].Contextualize())
}

func TestChunk_HeadingWithoutContent(t *testing.T) {
	doc := &types.Document{Items: []types.DocItem{
		heading("Jane Doe", 1),
		heading("Summary", 2, "Jane Doe"),
		heading("Experience", 2, "Jane Doe"),
		para("Acme Corp", "Jane Doe", "Experience"),
		heading("References", 2, "Jane Doe"),
	}}

	chunks := New(tokenize.Estimate{}, 64, false).Chunk(doc)
	require.Len(t, chunks, 3)
	assert.Equal(t, "Summary", chunks[0].Text)
	assert.Equal(t, []string{"Jane Doe"}, chunks[0].Headings)
	assert.Equal(t, "Acme Corp", chunks[1].Text)
	assert.Equal(t, "References", chunks[2].Text)
	assert.Equal(t, []int{4}, chunks[2].Items)
}

func TestChunk_MergePeers(t *testing.T) {
	doc := &types.Document{Items: []types.DocItem{
		{Kind: types.ItemParagraph, Text: "Alpha one.", Headings: []string{"Experience"}, Page: 1},
		{Kind: types.ItemParagraph, Text: "Beta two.", Headings: []string{"Experience"}, Page: 2},
		{Kind: types.ItemParagraph, Text: "Gamma three.", Headings: []string{"Education"}, Page: 2},
	}}

	merged := New(tokenize.Estimate{}, 64, true).Chunk(doc)
	require.Len(t, merged, 2)
	assert.Equal(t, "Alpha one.\nBeta two.", merged[0].Text)
	assert.Equal(t, []int{0, 1}, merged[0].Items)
	assert.Equal(t, []int{1, 2}, merged[0].Pages)
	assert.Equal(t, "Gamma three.", merged[1].Text)

	unmerged := New(tokenize.Estimate{}, 64, false).Chunk(doc)
	assert.Len(t, unmerged, 3)
}

func TestChunk_MergeRespectsLimit(t *testing.T) {
	doc := &types.Document{Items: []types.DocItem{
		para("one two three four five"),
		para("six seven eight nine ten"),
		para("eleven"),
	}}

	chunks := New(tokenize.Estimate{}, 8, true).Chunk(doc)
	require.Len(t, chunks, 2)
	assert.Equal(t, "one two three four five", chunks[0].Text)
	assert.Equal(t, "six seven eight nine ten\neleven", chunks[1].Text)
}

func TestChunk_TokenLimit(t *testing.T) {
	words := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		words = append(words, "alpha")
	}
	long := strings.Join(words[:30], " ") + ". " + strings.Join(words[30:], " ") + "."

	doc := &types.Document{Items: []types.DocItem{
		para(long, "Experience"),
		listItem("Go", "Skills"),
	}}

	const maxTokens = 16
	tok := tokenize.Estimate{}
	chunks := New(tok, maxTokens, true).Chunk(doc)
	require.Greater(t, len(chunks), 2)

	var got int
	for i, ch := range chunks {
		assert.LessOrEqual(t, tok.Count(ch.Contextualize()), maxTokens, "chunk %d: %q", i, ch.Text)
		if ch.Headings[0] == "Experience" {
			assert.Equal(t, []int{0}, ch.Items)
			got += strings.Count(ch.Text, "alpha")
		}
	}
	assert.Equal(t, 60, got, "split must keep every word")
	assert.Equal(t, "- Go", chunks[len(chunks)-1].Text)
}

func TestChunk_SplitBetweenItems(t *testing.T) {
	var items []types.DocItem
	for i := 0; i < 6; i++ {
		items = append(items, listItem("one two three", "Skills"))
	}
	doc := &types.Document{Items: items}

	// Each list line is four tokens ("-" plus three words); with the heading
	// one token, three lines fit in fourteen.
	chunks := New(tokenize.Estimate{}, 14, false).Chunk(doc)
	require.Len(t, chunks, 2)
	assert.Equal(t, []int{0, 1, 2}, chunks[0].Items)
	assert.Equal(t, []int{3, 4, 5}, chunks[1].Items)
}

func TestSplitRunes(t *testing.T) {
	c := New(tokenize.Estimate{}, 16, false)
	// 40 runes count 1 + 38/4 = 10 tokens; a budget of 3 allows 13 runes.
	pieces := c.splitRunes(strings.Repeat("x", 40), 3)
	assert.Equal(t, strings.Repeat("x", 40), strings.Join(pieces, ""))
	for _, p := range pieces {
		assert.LessOrEqual(t, tokenize.Estimate{}.Count(p), 3)
	}
}

func TestSentences(t *testing.T) {
	got := sentences("Led the team. Shipped it! Why? Because")
	assert.Equal(t, []string{"Led the team.", "Shipped it!", "Why?", "Because"}, got)
	assert.Equal(t, []string{"v1.2 release"}, sentences("v1.2 release"))
}
