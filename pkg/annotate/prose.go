package annotate

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"storyboard/pkg/document"
)

// ProseAnnotator annotates English text with the prose tokenizer, averaged
// perceptron tagger and sentence segmenter.
type ProseAnnotator struct{}

func NewProseAnnotator() *ProseAnnotator {
	return &ProseAnnotator{}
}

func (a *ProseAnnotator) Annotate(ctx context.Context, text string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return build(text, nil, nil), nil
	}

	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("prose annotation failed: %w", err)
	}

	toks := doc.Tokens()
	texts := make([]string, len(toks))
	for i, t := range toks {
		texts[i] = t.Text
	}
	offsets := locate(text, texts)

	pieces := make([]piece, 0, len(toks))
	for i, t := range toks {
		if offsets[i] < 0 {
			continue
		}
		pos := UniversalPos(t.Tag)
		// The tagger sometimes labels quote marks NNP or VB.
		if fallbackPos(t.Text) == document.PosPunct {
			pos = document.PosPunct
		}
		pieces = append(pieces, piece{
			start: offsets[i],
			end:   offsets[i] + len(t.Text),
			pos:   pos,
		})
	}

	sents := doc.Sentences()
	sentTexts := make([]string, len(sents))
	for i, s := range sents {
		sentTexts[i] = strings.TrimSpace(s.Text)
	}
	var starts []int
	for _, off := range locate(text, sentTexts) {
		if off >= 0 {
			starts = append(starts, off)
		}
	}

	return build(text, pieces, starts), nil
}

// UniversalPos maps a Penn Treebank tag onto the universal tag set.
func UniversalPos(tag string) string {
	switch tag {
	case "NN", "NNS":
		return document.PosNoun
	case "NNP", "NNPS":
		return document.PosPropn
	case "PRP", "PRP$", "WP", "WP$", "EX":
		return document.PosPron
	case "MD":
		return "AUX"
	case "JJ", "JJR", "JJS":
		return "ADJ"
	case "RB", "RBR", "RBS", "WRB":
		return "ADV"
	case "IN":
		return "ADP"
	case "DT", "PDT", "WDT":
		return "DET"
	case "CC":
		return "CCONJ"
	case "CD":
		return "NUM"
	case "UH":
		return "INTJ"
	case "RP", "TO", "POS":
		return "PART"
	case "SYM", "$", "#":
		return "SYM"
	case ".", ",", ":", "``", "''", "(", ")", "-LRB-", "-RRB-", "\"", "HYPH", "NFP":
		return document.PosPunct
	}
	if strings.HasPrefix(tag, "VB") {
		return "VERB"
	}
	return document.PosOther
}
