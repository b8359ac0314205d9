// Package pipeline turns a story into image prompts: language normalization,
// coreference resolution, dialogue removal and sentence segmentation, in that
// order.
package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"storyboard/pkg/annotate"
	"storyboard/pkg/coref"
	"storyboard/pkg/document"
	"storyboard/pkg/segment"
	"storyboard/pkg/translate"
)

// Errors returned by Resolve when a model collaborator fails.
var (
	ErrAnnotation = coref.ErrAnnotation
	ErrCoref      = coref.ErrModel
)

// Pipeline holds the long-lived collaborators shared by every invocation.
// It is safe for concurrent use when its collaborators are.
type Pipeline struct {
	Normalizer *translate.Normalizer
	Annotator  annotate.Annotator
	Model      coref.Model
}

func New(n *translate.Normalizer, a annotate.Annotator, m coref.Model) *Pipeline {
	return &Pipeline{Normalizer: n, Annotator: a, Model: m}
}

// Result records every intermediate stage of one run.
type Result struct {
	Original   string
	Normalized translate.Outcome
	Document   *document.Document
	Clusters   []document.Cluster
	Resolved   string
	Cleaned    string
	Prompts    []string
}

// ResolvePrompts returns one trimmed prompt per narrative sentence of text.
func (p *Pipeline) ResolvePrompts(ctx context.Context, text string) ([]string, error) {
	res, err := p.Resolve(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Prompts, nil
}

// Resolve runs the pipeline and keeps the intermediate stages. Annotator and
// coreference failures are returned; translation failures are not.
func (p *Pipeline) Resolve(ctx context.Context, text string) (*Result, error) {
	res := &Result{Original: text, Prompts: []string{}}

	res.Normalized = p.Normalizer.Normalize(ctx, text)
	english := res.Normalized.Text

	resolver := coref.NewResolver(p.Annotator, p.Model)
	doc, clusters, err := resolver.Clusters(ctx, english)
	if err != nil {
		return nil, fmt.Errorf("resolve coreferences: %w", err)
	}
	res.Document = doc
	res.Clusters = clusters
	res.Resolved = coref.Substitute(doc, clusters)

	res.Cleaned = segment.RemoveDialogues(res.Resolved)
	prompts, err := segment.Sentences(ctx, p.Annotator, res.Cleaned)
	if err != nil {
		return nil, fmt.Errorf("segment sentences: %w: %w", ErrAnnotation, err)
	}
	res.Prompts = prompts

	log.Debug("pipeline finished",
		"translated", res.Normalized.Translated,
		"tokens", doc.Len(),
		"clusters", len(clusters),
		"prompts", len(prompts),
	)
	return res, nil
}
