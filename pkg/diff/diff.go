// Package diff compares a story before and after pronoun resolution, word by
// word.
package diff

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/aryann/difflib"

	"storyboard/pkg/schema"
)

type Op int

const (
	Equal Op = iota
	Insert
	Delete
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	default:
		return "equal"
	}
}

type WordDelta struct {
	Op   Op
	Text string
}

// Tokenize splits s into runs of whitespace, word characters and punctuation.
// Concatenating the result yields s.
func Tokenize(s string) []string {
	var out []string
	var cur []rune
	kind := -1 // 0=space,1=word,2=punct
	flush := func() {
		if len(cur) == 0 {
			return
		}
		out = append(out, string(cur))
		cur = cur[:0]
	}
	for _, r := range s {
		k := 2
		switch {
		case unicode.IsSpace(r):
			k = 0
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' || r == '-' || r == '\'':
			k = 1
		}
		if kind == -1 {
			kind = k
		}
		if k != kind {
			flush()
			kind = k
		}
		cur = append(cur, r)
	}
	flush()
	return out
}

// Words returns the word-level edit script turning a into b.
func Words(a, b string) []WordDelta {
	if a == b {
		if a == "" {
			return nil
		}
		return []WordDelta{{Op: Equal, Text: a}}
	}
	recs := difflib.Diff(Tokenize(a), Tokenize(b))
	deltas := make([]WordDelta, 0, len(recs))
	for _, r := range recs {
		switch r.Delta {
		case difflib.Common:
			deltas = append(deltas, WordDelta{Op: Equal, Text: r.Payload})
		case difflib.LeftOnly:
			deltas = append(deltas, WordDelta{Op: Delete, Text: r.Payload})
		case difflib.RightOnly:
			deltas = append(deltas, WordDelta{Op: Insert, Text: r.Payload})
		}
	}
	return coalesce(deltas)
}

// coalesce merges adjacent deltas with the same op. Unchanged whitespace
// between two edits joins the surrounding run.
func coalesce(in []WordDelta) []WordDelta {
	out := make([]WordDelta, 0, len(in))
	for _, d := range in {
		if n := len(out); n > 0 && out[n-1].Op == d.Op {
			out[n-1].Text += d.Text
			continue
		}
		out = append(out, d)
	}
	return out
}

// Changes lists only the inserted and deleted runs.
func Changes(deltas []WordDelta) []schema.WordChange {
	var out []schema.WordChange
	for _, d := range deltas {
		if d.Op == Equal {
			continue
		}
		out = append(out, schema.WordChange{Op: d.Op.String(), Text: d.Text})
	}
	return out
}

const (
	ansiReset = "\x1b[0m"
	fgGreen   = "\x1b[32m"
	fgRed     = "\x1b[31m"
	uline     = "\x1b[4m"
	strike    = "\x1b[9m"
)

// Render writes deltas with inserted text underlined in green and deleted
// text struck through in red.
func Render(w io.Writer, deltas []WordDelta) error {
	var b strings.Builder
	for _, d := range deltas {
		switch d.Op {
		case Equal:
			b.WriteString(d.Text)
		case Insert:
			fmt.Fprintf(&b, "%s%s%s%s", fgGreen, uline, d.Text, ansiReset)
		case Delete:
			fmt.Fprintf(&b, "%s%s%s%s", fgRed, strike, d.Text, ansiReset)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
