// Package coref clusters co-referring mentions and rewrites capitalized
// pronoun mentions to the noun mention that heads their cluster.
package coref

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"storyboard/pkg/annotate"
	"storyboard/pkg/document"
)

// Model predicts coreference clusters for a text as byte ranges.
type Model interface {
	Predict(ctx context.Context, text string) ([][]document.CharSpan, error)
}

// ModelFunc adapts a function to the Model interface.
type ModelFunc func(ctx context.Context, text string) ([][]document.CharSpan, error)

func (f ModelFunc) Predict(ctx context.Context, text string) ([][]document.CharSpan, error) {
	return f(ctx, text)
}

var (
	ErrAnnotation = errors.New("annotation failed")
	ErrModel      = errors.New("coreference model failed")
)

// Resolver annotates a text once and anchors the model's clusters to that
// annotation.
type Resolver struct {
	Annotator annotate.Annotator
	Model     Model
}

func NewResolver(a annotate.Annotator, m Model) *Resolver {
	return &Resolver{Annotator: a, Model: m}
}

// Clusters returns the Document built from text and the model's clusters as
// token spans of that Document.
func (r *Resolver) Clusters(ctx context.Context, text string) (*document.Document, []document.Cluster, error) {
	doc, err := r.Annotator.Annotate(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrAnnotation, err)
	}
	if strings.TrimSpace(text) == "" {
		return doc, nil, nil
	}
	raw, err := r.Model.Predict(ctx, text)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrModel, err)
	}
	return doc, Align(doc, raw), nil
}

// Resolve returns text with eligible pronoun mentions replaced by their
// cluster heads.
func (r *Resolver) Resolve(ctx context.Context, text string) (string, error) {
	doc, clusters, err := r.Clusters(ctx, text)
	if err != nil {
		return "", err
	}
	return Substitute(doc, clusters), nil
}

// Align converts byte-range clusters into token-span clusters. Mentions whose
// range does not fall on token boundaries are dropped, and clusters left
// without mentions are dropped with them.
func Align(doc *document.Document, raw [][]document.CharSpan) []document.Cluster {
	var out []document.Cluster
	for _, rc := range raw {
		var cluster document.Cluster
		for _, cs := range rc {
			span, ok := doc.FindTokenSpan(cs)
			if !ok {
				log.Debug("dropping misaligned mention", "start", cs.Start, "end", cs.End)
				continue
			}
			cluster = append(cluster, span)
		}
		if len(cluster) > 0 {
			out = append(out, cluster)
		}
	}
	return out
}
