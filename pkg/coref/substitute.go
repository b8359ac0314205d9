package coref

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"storyboard/pkg/document"
)

// Head returns the first mention in c containing a noun or proper noun. When
// no mention qualifies it returns the first mention and false.
func Head(doc *document.Document, c document.Cluster) (document.Span, bool) {
	for _, s := range c {
		for i := s.Start; i < s.End; i++ {
			switch doc.Token(i).Pos {
			case document.PosNoun, document.PosPropn:
				return s, true
			}
		}
	}
	if len(c) == 0 {
		return document.Span{}, false
	}
	return c[0], false
}

// IsCapitalizedPronoun reports whether s is a single pronoun token whose first
// letter is uppercase in the original text. Lowercase pronouns are never
// rewritten.
func IsCapitalizedPronoun(doc *document.Document, s document.Span) bool {
	if s.Len() != 1 {
		return false
	}
	tok := doc.Token(s.Start)
	if tok.Pos != document.PosPron {
		return false
	}
	r, _ := utf8.DecodeRuneInString(doc.Text()[tok.Start:tok.End])
	return unicode.IsUpper(r)
}

func overlapsAny(s document.Span, all []document.Span) bool {
	for _, o := range all {
		if s.Overlaps(o) {
			return true
		}
	}
	return false
}

// fragment replaces tokens [start, end) of a document.
type fragment struct {
	end  int
	text string
}

// Rewrites maps every mention Substitute replaces to its head's surface text.
// Only capitalized single-token pronoun mentions qualify. Mentions overlapping
// any other mention in any cluster are skipped, as are clusters without a
// noun-bearing mention.
func Rewrites(doc *document.Document, clusters []document.Cluster) map[document.Span]string {
	var all []document.Span
	for _, c := range clusters {
		all = append(all, c...)
	}

	out := make(map[document.Span]string)
	for _, c := range clusters {
		head, ok := Head(doc, c)
		if !ok {
			continue
		}
		headText := doc.SpanText(head)
		for _, m := range c {
			if m == head || overlapsAny(m, all) || !IsCapitalizedPronoun(doc, m) {
				continue
			}
			out[m] = headText
		}
	}
	return out
}

// Substitute applies Rewrites to doc. Text outside rewritten mentions keeps
// its original spacing.
func Substitute(doc *document.Document, clusters []document.Cluster) string {
	edits := make(map[int]fragment)
	for m, head := range Rewrites(doc, clusters) {
		edits[m.Start] = replacement(doc, m, head)
	}

	var b strings.Builder
	b.Grow(len(doc.Text()))
	for i := 0; i < doc.Len(); {
		if f, ok := edits[i]; ok {
			b.WriteString(f.text)
			i = f.end
			continue
		}
		b.WriteString(doc.Token(i).TextWithWS())
		i++
	}
	return b.String()
}

func replacement(doc *document.Document, m document.Span, head string) fragment {
	var prefix, suffix string
	if m.Start > 0 && doc.Token(m.Start-1).Whitespace == "" {
		prefix = " "
	}
	if m.End < doc.Len() {
		suffix = doc.Token(m.End - 1).Whitespace
	}
	return fragment{end: m.End, text: prefix + head + suffix}
}
