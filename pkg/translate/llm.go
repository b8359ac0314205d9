package translate

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"storyboard/pkg/annotate"
	"storyboard/pkg/inference"
	"storyboard/pkg/utils"
)

var languageNames = map[string]string{
	"en":  "English",
	"tl":  "Filipino (Tagalog)",
	"fil": "Filipino",
}

var errRejected = errors.New("translation rejected")

func languageName(code string) string {
	return cmp.Or(languageNames[code], code)
}

// LLMTranslator translates through a chat model, one chunk at a time.
// Chunks are whole paragraphs packed under a token budget. A paragraph over
// the budget is split into sentences with Annotator, or into words when
// Annotator is nil or fails.
type LLMTranslator struct {
	Inferencer inference.Inferencer
	Annotator  annotate.Annotator
	// ChunkTokens bounds the size of each request. Zero means 2048.
	ChunkTokens int
}

func NewLLMTranslator(inf inference.Inferencer, a annotate.Annotator) *LLMTranslator {
	return &LLMTranslator{Inferencer: inf, Annotator: a}
}

// chunk is a piece of the source text and the separator that joins its
// translation to the previous one.
type chunk struct {
	text, sep string
}

func (t *LLMTranslator) Translate(ctx context.Context, text, from, to string) (string, error) {
	system := fmt.Sprintf(translatePrompt, languageName(from), languageName(to))

	var b strings.Builder
	for i, c := range t.chunks(ctx, text) {
		params := &openai.ChatCompletionNewParams{
			MaxCompletionTokens: openai.Int(int64(utils.CountTokens(c.text)*3 + 64)),
		}
		out, err := t.Inferencer.Edit(ctx, params, system, c.text)
		if err != nil {
			return "", err
		}
		out = utils.StripFence(out)
		ok, err := t.Inferencer.Verify(ctx, out)
		if err != nil {
			return "", fmt.Errorf("verify translation: %w", err)
		}
		if !ok {
			return "", errRejected
		}
		if i > 0 {
			b.WriteString(c.sep)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func (t *LLMTranslator) chunks(ctx context.Context, text string) []chunk {
	budget := cmp.Or(t.ChunkTokens, 2048)

	var out []chunk
	var paras []string
	flush := func() {
		for _, c := range utils.Pack(paras, budget, utils.CountTokens, "\n\n") {
			out = append(out, chunk{text: c, sep: "\n\n"})
		}
		paras = paras[:0]
	}
	for _, p := range utils.Paragraphs(text) {
		if utils.CountTokens(p) <= budget {
			paras = append(paras, p)
			continue
		}
		flush()
		for i, c := range utils.Pack(t.sentences(ctx, p), budget, utils.CountTokens, " ") {
			sep := " "
			if i == 0 {
				sep = "\n\n"
			}
			out = append(out, chunk{text: c, sep: sep})
		}
	}
	flush()
	return out
}

func (t *LLMTranslator) sentences(ctx context.Context, paragraph string) []string {
	if t.Annotator != nil {
		doc, err := t.Annotator.Annotate(ctx, paragraph)
		if err == nil && len(doc.Sentences()) > 0 {
			out := make([]string, 0, len(doc.Sentences()))
			for _, s := range doc.Sentences() {
				if st := doc.SentenceText(s); st != "" {
					out = append(out, st)
				}
			}
			return out
		}
		log.Debug("sentence split failed, chunking by words", "error", err)
	}
	return strings.Fields(paragraph)
}

const translatePrompt = `You are a literary translator. Translate the story from %s to %s.

**Rules:**
- Preserve sentence boundaries, paragraph breaks and quoted dialogue, including the quotation marks.
- Keep names of people and places unchanged.
- Do not summarize, explain or add anything.
- Output only the translated text.`
