// Package document holds the annotated representation of a text that every
// pipeline stage reads: tokens with byte offsets and part-of-speech tags,
// sentence boundaries, and token-index mention spans.
package document

import "strings"

// Universal part-of-speech tags the pipeline cares about.
const (
	PosNoun  = "NOUN"
	PosPropn = "PROPN"
	PosPron  = "PRON"
	PosPunct = "PUNCT"
	PosSpace = "SPACE"
	PosOther = "X"
)

// Token is one annotated token. Start and End are byte offsets into the
// document text; Whitespace is the text between End and the next token.
type Token struct {
	Text       string `json:"text"`
	Start      int    `json:"start"`
	End        int    `json:"end"`
	Pos        string `json:"pos"`
	Whitespace string `json:"whitespace,omitempty"`
}

// TextWithWS returns the token text followed by its trailing whitespace.
func (t Token) TextWithWS() string {
	return t.Text + t.Whitespace
}

// Sentence is a half-open token-index range.
type Sentence struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Document is an immutable annotation of Text. Concatenating every token's
// TextWithWS reproduces Text exactly.
type Document struct {
	text      string
	tokens    []Token
	sentences []Sentence
}

// New builds a Document. The slices are owned by the Document afterwards.
func New(text string, tokens []Token, sentences []Sentence) *Document {
	return &Document{text: text, tokens: tokens, sentences: sentences}
}

func (d *Document) Text() string { return d.text }

func (d *Document) Len() int { return len(d.tokens) }

// Token returns the i-th token.
func (d *Document) Token(i int) Token { return d.tokens[i] }

// Tokens returns a copy of the token sequence.
func (d *Document) Tokens() []Token {
	out := make([]Token, len(d.tokens))
	copy(out, d.tokens)
	return out
}

// Sentences returns a copy of the sentence boundaries.
func (d *Document) Sentences() []Sentence {
	out := make([]Sentence, len(d.sentences))
	copy(out, d.sentences)
	return out
}

// SpanText returns the surface text of s without the trailing whitespace of
// its last token.
func (d *Document) SpanText(s Span) string {
	if s.Start >= s.End || s.Start < 0 || s.End > len(d.tokens) {
		return ""
	}
	return d.text[d.tokens[s.Start].Start:d.tokens[s.End-1].End]
}

// SentenceText returns the text of a sentence without surrounding whitespace.
func (d *Document) SentenceText(s Sentence) string {
	return strings.TrimSpace(d.SpanText(Span{Start: s.Start, End: s.End}))
}

// FindTokenSpan maps a byte range onto the tokens whose boundaries match it
// exactly. The boolean is false when either end falls inside a token or
// between tokens.
func (d *Document) FindTokenSpan(c CharSpan) (Span, bool) {
	if c.Start >= c.End {
		return Span{}, false
	}
	start, end := -1, -1
	for i, t := range d.tokens {
		if t.Start == c.Start {
			start = i
		}
		if t.End == c.End {
			end = i + 1
			break
		}
		if t.Start > c.End {
			break
		}
	}
	if start < 0 || end <= start {
		return Span{}, false
	}
	return Span{Start: start, End: end}, true
}
