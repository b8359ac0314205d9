package annotate

import (
	"context"
	"strings"
	"testing"

	"storyboard/pkg/document"
)

func rebuild(doc *document.Document) string {
	var b strings.Builder
	for _, t := range doc.Tokens() {
		b.WriteString(t.TextWithWS())
	}
	return b.String()
}

func TestBuildFillsGaps(t *testing.T) {
	text := "  Maria  walked ~home."
	pieces := []piece{
		{start: 2, end: 7, pos: document.PosPropn},
		{start: 9, end: 15, pos: "VERB"},
		{start: 21, end: 22, pos: document.PosPunct},
	}
	doc := build(text, pieces, []int{2})

	if got := rebuild(doc); got != text {
		t.Fatalf("rebuild = %q, want %q", got, text)
	}
	toks := doc.Tokens()
	if toks[0].Pos != document.PosSpace || toks[0].Text != "  " {
		t.Errorf("leading token = %+v, want SPACE", toks[0])
	}
	if toks[1].Whitespace != "  " {
		t.Errorf("Maria whitespace = %q", toks[1].Whitespace)
	}
	var gap *document.Token
	for i := range toks {
		if toks[i].Text == "~home" {
			gap = &toks[i]
		}
	}
	if gap == nil || gap.Pos != document.PosOther {
		t.Errorf("uncovered text not tokenized: %+v", toks)
	}
	sents := doc.Sentences()
	if len(sents) != 1 || sents[0].Start != 0 || sents[0].End != len(toks) {
		t.Errorf("sentences = %+v", sents)
	}
}

func TestBuildSentences(t *testing.T) {
	text := "Hi there. Bye now."
	pieces := []piece{
		{start: 0, end: 2, pos: "INTJ"},
		{start: 3, end: 8, pos: "ADV"},
		{start: 8, end: 9, pos: document.PosPunct},
		{start: 10, end: 13, pos: "INTJ"},
		{start: 14, end: 17, pos: "ADV"},
		{start: 17, end: 18, pos: document.PosPunct},
	}
	doc := build(text, pieces, []int{0, 10})
	sents := doc.Sentences()
	if len(sents) != 2 {
		t.Fatalf("expected 2 sentences, got %+v", sents)
	}
	if got := doc.SentenceText(sents[0]); got != "Hi there." {
		t.Errorf("first sentence = %q", got)
	}
	if got := doc.SentenceText(sents[1]); got != "Bye now." {
		t.Errorf("second sentence = %q", got)
	}
}

func TestBuildEmptyAndBlank(t *testing.T) {
	if doc := build("", nil, nil); doc.Len() != 0 || len(doc.Sentences()) != 0 {
		t.Errorf("empty text should produce an empty document")
	}
	doc := build(" \n ", nil, nil)
	if doc.Len() != 1 || doc.Token(0).Pos != document.PosSpace {
		t.Errorf("blank text should produce one SPACE token, got %+v", doc.Tokens())
	}
	if len(doc.Sentences()) != 0 {
		t.Errorf("blank text should have no sentences")
	}
}

func TestLocate(t *testing.T) {
	got := locate("a b a c", []string{"a", "a", "z", "c"})
	want := []int{0, 4, -1, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("locate = %v, want %v", got, want)
		}
	}
}

func TestUniversalPos(t *testing.T) {
	tests := map[string]string{
		"NN":   document.PosNoun,
		"NNS":  document.PosNoun,
		"NNP":  document.PosPropn,
		"PRP":  document.PosPron,
		"PRP$": document.PosPron,
		"VBD":  "VERB",
		".":    document.PosPunct,
		"FW":   document.PosOther,
	}
	for tag, want := range tests {
		if got := UniversalPos(tag); got != want {
			t.Errorf("UniversalPos(%q) = %q, want %q", tag, got, want)
		}
	}
}

func TestProseAnnotatorRoundTrip(t *testing.T) {
	text := "Maria walked home.  She said, \"I am tired.\" Her dog barked."
	doc, err := NewProseAnnotator().Annotate(context.Background(), text)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if got := rebuild(doc); got != text {
		t.Fatalf("rebuild = %q, want %q", got, text)
	}
	if len(doc.Sentences()) == 0 {
		t.Fatal("expected at least one sentence")
	}
	span, ok := doc.FindTokenSpan(document.CharSpan{Start: 0, End: 5})
	if !ok || doc.SpanText(span) != "Maria" {
		t.Errorf("Maria not aligned to a token: %v %v", span, ok)
	}
}

func TestProseAnnotatorBlank(t *testing.T) {
	doc, err := NewProseAnnotator().Annotate(context.Background(), "")
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("expected no tokens, got %d", doc.Len())
	}
}

func TestProseAnnotatorQuotesArePunct(t *testing.T) {
	doc, err := NewProseAnnotator().Annotate(context.Background(), `She said, "I am tired." Her dog barked.`)
	if err != nil {
		t.Fatal(err)
	}
	var quotes int
	for _, tok := range doc.Tokens() {
		if strings.Trim(tok.Text, `"`) == "" && tok.Text != "" {
			quotes++
			if tok.Pos != document.PosPunct {
				t.Errorf("quote token %q tagged %s", tok.Text, tok.Pos)
			}
		}
	}
	if quotes == 0 {
		t.Error("no quote tokens found")
	}
}
