// Package segment strips quoted dialogue from narrative text and splits what
// remains into sentences.
package segment

import (
	"context"
	"strings"

	"github.com/dlclark/regexp2"

	"storyboard/pkg/annotate"
)

// dialogueRX matches the shortest text between a pair of straight double
// quotes, a pair of apostrophes, or an opening curly quote and the next curly
// double quote. Matches may span lines.
var dialogueRX = regexp2.MustCompile(`(["'])(?s:.*?)\1|“(?s:.*?)[”“]`, regexp2.None)

// spaceRunRX matches two or more Unicode whitespace characters.
var spaceRunRX = regexp2.MustCompile(`\s{2,}`, regexp2.None)

// RemoveDialogues deletes every quoted span, quotes included, then collapses
// whitespace runs and trims the result. It is idempotent.
func RemoveDialogues(text string) string {
	out, err := dialogueRX.Replace(text, "", -1, -1)
	if err != nil {
		// Only a match timeout can fail, and none is configured.
		out = text
	}
	return CollapseWhitespace(out)
}

// CollapseWhitespace replaces runs of two or more whitespace characters with
// one space and trims the ends.
func CollapseWhitespace(text string) string {
	out, err := spaceRunRX.Replace(text, " ", -1, -1)
	if err != nil {
		out = text
	}
	return strings.TrimSpace(out)
}

// Sentences annotates text afresh and returns each sentence trimmed, skipping
// sentences that are empty after trimming.
func Sentences(ctx context.Context, a annotate.Annotator, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}
	doc, err := a.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(doc.Sentences()))
	for _, s := range doc.Sentences() {
		if t := doc.SentenceText(s); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}
