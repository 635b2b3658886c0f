// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tokenize

import (
	"unicode"
)

// wordPieceRunes is the average number of runes per WordPiece sub-token in
// a long word.
const wordPieceRunes = 4

// Estimate approximates an uncased WordPiece tokenizer without a vocabulary.
// Punctuation and symbols count one token each, as do CJK characters. A word
// of up to wordPieceRunes+2 runes counts one token; longer words count one
// more token per wordPieceRunes runes.
type Estimate struct{}

// Count returns the estimated number of tokens in text.
func (Estimate) Count(text string) int {
	n := 0
	word := 0
	flush := func() {
		if word > 0 {
			n += wordTokens(word)
			word = 0
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r) || unicode.IsControl(r):
			flush()
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.Is(unicode.Han, r):
			flush()
			n++
		default:
			word++
		}
	}
	flush()
	return n
}

// Name returns ModelEstimate.
func (Estimate) Name() string {
	return ModelEstimate
}

func wordTokens(runes int) int {
	if runes <= wordPieceRunes+2 {
		return 1
	}
	return 1 + (runes-2)/wordPieceRunes
}
