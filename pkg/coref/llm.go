package coref

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"storyboard/pkg/document"
	"storyboard/pkg/inference"
	"storyboard/pkg/schema"
	"storyboard/pkg/utils"
)

// LLMModel asks a chat model for mention clusters and locates each mention
// in the text by its whole-word occurrence index.
type LLMModel struct {
	Inferencer inference.Inferencer
}

func NewLLMModel(inf inference.Inferencer) *LLMModel {
	return &LLMModel{Inferencer: inf}
}

func (m *LLMModel) Predict(ctx context.Context, text string) ([][]document.CharSpan, error) {
	params := &openai.ChatCompletionNewParams{
		ResponseFormat: schema.CorefResponseFormat(),
		Temperature:    openai.Float(0.1),
	}
	raw, err := m.Inferencer.Infer(ctx, params, corefPrompt, text)
	if err != nil {
		return nil, err
	}

	var resp schema.CorefResponse
	if err := json.Unmarshal([]byte(utils.CleanJSON(raw)), &resp); err != nil {
		log.Warn("coreference response did not parse, asking for a fix", "error", err)
		fixed, ferr := m.Inferencer.Infer(ctx, params, fixJSONPrompt, raw)
		if ferr != nil {
			return nil, fmt.Errorf("failed to parse clusters: %w", err)
		}
		if err := json.Unmarshal([]byte(utils.CleanJSON(fixed)), &resp); err != nil {
			return nil, fmt.Errorf("failed to parse clusters (fixed): %w", err)
		}
	}

	return Locate(text, resp), nil
}

// Locate converts mention texts and occurrence indexes into byte ranges.
// Mentions that cannot be found are skipped.
func Locate(text string, resp schema.CorefResponse) [][]document.CharSpan {
	out := make([][]document.CharSpan, 0, len(resp.Clusters))
	for _, c := range resp.Clusters {
		var spans []document.CharSpan
		for _, m := range c.Mentions {
			span, ok := nthWord(text, strings.TrimSpace(m.Text), m.Occurrence)
			if !ok {
				log.Debug("mention not found in text", "entity", c.Entity, "mention", m.Text, "occurrence", m.Occurrence)
				continue
			}
			spans = append(spans, span)
		}
		if len(spans) > 0 {
			out = append(out, spans)
		}
	}
	return out
}

// nthWord finds the n-th (1-based) occurrence of needle in text that is not
// glued to a letter or digit on either side.
func nthWord(text, needle string, n int) (document.CharSpan, bool) {
	if needle == "" {
		return document.CharSpan{}, false
	}
	n = max(n, 1)
	for from := 0; from < len(text); {
		idx := strings.Index(text[from:], needle)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(needle)
		if wordBoundary(text, start, end) {
			n--
			if n == 0 {
				return document.CharSpan{Start: start, End: end}, true
			}
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return document.CharSpan{}, false
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
