package coref

import (
	"context"
	"strings"

	"storyboard/pkg/annotate"
	"storyboard/pkg/document"
)

// personal holds the third-person pronouns the heuristic links.
var personal = map[string]struct{}{
	"he": {}, "him": {}, "his": {},
	"she": {}, "her": {}, "hers": {},
	"they": {}, "them": {}, "their": {}, "theirs": {},
}

// HeuristicModel links third-person pronouns to the most recently named
// entity. Consecutive proper nouns form one name; repeated names share a
// cluster. It needs no network access.
type HeuristicModel struct {
	Annotator annotate.Annotator
}

func NewHeuristicModel(a annotate.Annotator) *HeuristicModel {
	return &HeuristicModel{Annotator: a}
}

func (m *HeuristicModel) Predict(ctx context.Context, text string) ([][]document.CharSpan, error) {
	doc, err := m.Annotator.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var clusters [][]document.CharSpan
	recent := -1

	for i := 0; i < doc.Len(); {
		tok := doc.Token(i)
		switch tok.Pos {
		case document.PosPropn:
			j := i + 1
			for j < doc.Len() && doc.Token(j).Pos == document.PosPropn && doc.Token(j-1).Whitespace != "" {
				j++
			}
			name := doc.SpanText(document.Span{Start: i, End: j})
			idx, ok := index[name]
			if !ok {
				idx = len(clusters)
				index[name] = idx
				clusters = append(clusters, nil)
			}
			clusters[idx] = append(clusters[idx], document.CharSpan{Start: tok.Start, End: doc.Token(j - 1).End})
			recent = idx
			i = j
			continue
		case document.PosPron:
			if _, ok := personal[strings.ToLower(tok.Text)]; ok && recent >= 0 {
				clusters[recent] = append(clusters[recent], document.CharSpan{Start: tok.Start, End: tok.End})
			}
		}
		i++
	}

	out := clusters[:0]
	for _, c := range clusters {
		if len(c) > 1 {
			out = append(out, c)
		}
	}
	return out, nil
}
