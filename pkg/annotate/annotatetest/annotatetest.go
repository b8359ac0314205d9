// Package annotatetest provides a deterministic lexicon-driven Annotator for
// tests that must not depend on a statistical tagger.
package annotatetest

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"storyboard/pkg/document"
)

// Pronouns tagged PRON by default.
var Pronouns = []string{
	"i", "me", "my", "we", "us", "our", "you", "your",
	"he", "him", "his", "she", "her", "it", "its", "they", "them", "their",
}

// Annotator tags words from a lexicon. Unknown words are VERB when lowercase
// and PROPN when capitalized; punctuation is PUNCT. Sentences end after ., !
// or ? and any closing quotes that follow.
type Annotator struct {
	Lexicon map[string]string
	Err     error
	Calls   int
}

// New returns an Annotator with the default pronouns plus lexicon, whose keys
// are matched case-insensitively.
func New(lexicon map[string]string) *Annotator {
	lex := make(map[string]string, len(lexicon)+len(Pronouns))
	for _, p := range Pronouns {
		lex[p] = document.PosPron
	}
	for k, v := range lexicon {
		lex[strings.ToLower(k)] = v
	}
	return &Annotator{Lexicon: lex}
}

func (a *Annotator) Annotate(ctx context.Context, text string) (*document.Document, error) {
	a.Calls++
	if a.Err != nil {
		return nil, a.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tokens []document.Token
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case unicode.IsSpace(r):
			if len(tokens) == 0 {
				tokens = append(tokens, document.Token{Start: 0, Pos: document.PosSpace})
			}
			last := &tokens[len(tokens)-1]
			if last.Pos == document.PosSpace && last.Whitespace == "" {
				last.Text += string(r)
				last.End = i + size
			} else {
				last.Whitespace += string(r)
			}
			i += size
		case isWordRune(r):
			j := i
			for j < len(text) {
				r2, s2 := utf8.DecodeRuneInString(text[j:])
				if !isWordRune(r2) {
					break
				}
				j += s2
			}
			word := text[i:j]
			tokens = append(tokens, document.Token{Text: word, Start: i, End: j, Pos: a.pos(word)})
			i = j
		default:
			tokens = append(tokens, document.Token{Text: string(r), Start: i, End: i + size, Pos: document.PosPunct})
			i += size
		}
	}

	return document.New(text, tokens, split(tokens)), nil
}

func (a *Annotator) pos(word string) string {
	if p, ok := a.Lexicon[strings.ToLower(word)]; ok {
		return p
	}
	r, _ := utf8.DecodeRuneInString(word)
	if unicode.IsUpper(r) {
		return document.PosPropn
	}
	return "VERB"
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func split(tokens []document.Token) []document.Sentence {
	if len(tokens) == 0 || (len(tokens) == 1 && tokens[0].Pos == document.PosSpace) {
		return nil
	}
	var out []document.Sentence
	start := 0
	for i := 0; i < len(tokens); i++ {
		switch tokens[i].Text {
		case ".", "!", "?":
		default:
			continue
		}
		end := i + 1
		for end < len(tokens) && tokens[end-1].Whitespace == "" && isQuote(tokens[end].Text) {
			end++
		}
		out = append(out, document.Sentence{Start: start, End: end})
		start = end
		i = end - 1
	}
	if start < len(tokens) {
		out = append(out, document.Sentence{Start: start, End: len(tokens)})
	}
	return out
}

func isQuote(s string) bool {
	switch s {
	case "\"", "'", "”", "’":
		return true
	}
	return false
}
