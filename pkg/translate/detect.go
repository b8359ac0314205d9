package translate

import (
	"context"
	"errors"

	"github.com/abadojack/whatlanggo"
)

var errUndetermined = errors.New("language could not be determined")

// DefaultLanguages are considered when a WhatlangDetector lists none.
var DefaultLanguages = []string{"tl", "en"}

// WhatlangDetector detects languages offline with trigram statistics,
// choosing only among Languages (ISO 639-1, "fil" meaning Tagalog). Tagalog
// and Cebuano profiles overlap, so the choice must stay restricted.
// Detections below MinConfidence are reported as errors.
type WhatlangDetector struct {
	MinConfidence float64
	Languages     []string
}

func (d WhatlangDetector) Detect(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info := whatlanggo.DetectWithOptions(text, whatlanggo.Options{Whitelist: whitelist(d.Languages)})
	if info.Lang < 0 || info.Confidence < d.MinConfidence {
		return "", errUndetermined
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "", errUndetermined
	}
	return code, nil
}

func whitelist(codes []string) map[whatlanggo.Lang]bool {
	if len(codes) == 0 {
		codes = DefaultLanguages
	}
	want := make(map[string]bool, len(codes))
	for _, c := range codes {
		if c == "fil" {
			c = "tl"
		}
		want[c] = true
	}
	out := make(map[whatlanggo.Lang]bool, len(want))
	for lang := range whatlanggo.Langs {
		if want[lang.Iso6391()] {
			out[lang] = true
		}
	}
	return out
}
