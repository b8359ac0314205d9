// Package annotate turns raw text into a document.Document: tokens with byte
// offsets, trailing whitespace, universal part-of-speech tags and sentence
// boundaries.
package annotate

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"storyboard/pkg/document"
)

// Annotator produces a Document for a text. Implementations must be safe for
// concurrent use.
type Annotator interface {
	Annotate(ctx context.Context, text string) (*document.Document, error)
}

// piece is a located token before whitespace is attached.
type piece struct {
	start, end int
	pos        string
}

// build assembles a Document from located pieces. Pieces must be ordered and
// non-overlapping. Any non-whitespace text not covered by a piece becomes its
// own token, so the token stream always reproduces text exactly. sentStarts
// holds the byte offsets where sentences begin.
func build(text string, pieces []piece, sentStarts []int) *document.Document {
	if text == "" {
		return document.New("", nil, nil)
	}

	var all []piece
	cursor := 0
	for _, p := range pieces {
		all = append(all, gapPieces(text, cursor, p.start)...)
		all = append(all, p)
		cursor = p.end
	}
	all = append(all, gapPieces(text, cursor, len(text))...)

	var tokens []document.Token
	if len(all) == 0 || all[0].start > 0 {
		end := len(text)
		if len(all) > 0 {
			end = all[0].start
		}
		tokens = append(tokens, document.Token{Text: text[:end], Start: 0, End: end, Pos: document.PosSpace})
	}
	for i, p := range all {
		next := len(text)
		if i+1 < len(all) {
			next = all[i+1].start
		}
		tokens = append(tokens, document.Token{
			Text:       text[p.start:p.end],
			Start:      p.start,
			End:        p.end,
			Pos:        p.pos,
			Whitespace: text[p.end:next],
		})
	}

	return document.New(text, tokens, sentences(tokens, sentStarts))
}

// gapPieces splits the non-whitespace runs of text[from:to] into pieces.
func gapPieces(text string, from, to int) []piece {
	var out []piece
	start := -1
	for i := from; i < to; {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) {
			if start >= 0 {
				out = append(out, piece{start: start, end: i, pos: fallbackPos(text[start:i])})
				start = -1
			}
		} else if start < 0 {
			start = i
		}
		i += size
	}
	if start >= 0 {
		out = append(out, piece{start: start, end: to, pos: fallbackPos(text[start:to])})
	}
	return out
}

func fallbackPos(s string) string {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return document.PosOther
		}
	}
	return document.PosPunct
}

// sentences partitions tokens at the given sentence start offsets. Leading
// whitespace-only tokens join the following sentence.
func sentences(tokens []document.Token, starts []int) []document.Sentence {
	var content bool
	for _, t := range tokens {
		if t.Pos != document.PosSpace {
			content = true
			break
		}
	}
	if !content {
		return nil
	}

	var out []document.Sentence
	cur := 0
	next := 0
	for next < len(starts) && starts[next] <= 0 {
		next++
	}
	for i, t := range tokens {
		if next < len(starts) && t.Start >= starts[next] {
			if i > cur && tokens[cur].Pos != document.PosSpace {
				out = append(out, document.Sentence{Start: cur, End: i})
				cur = i
			}
			for next < len(starts) && starts[next] <= t.Start {
				next++
			}
		}
	}
	out = append(out, document.Sentence{Start: cur, End: len(tokens)})
	return out
}

// locate finds each needle in order, starting the search after the previous
// match. Needles that cannot be found are reported as -1.
func locate(text string, needles []string) []int {
	out := make([]int, len(needles))
	cursor := 0
	for i, n := range needles {
		out[i] = -1
		if n == "" {
			continue
		}
		idx := strings.Index(text[cursor:], n)
		if idx < 0 {
			continue
		}
		out[i] = cursor + idx
		cursor += idx + len(n)
	}
	return out
}
