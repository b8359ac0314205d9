// Package translate normalizes story text to English. Detection or
// translation failures never reach the caller: the original text is used.
package translate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/unicode/norm"
)

// ErrTranslationUnavailable wraps every detection or translation failure.
var ErrTranslationUnavailable = errors.New("translation unavailable")

// Detector returns the ISO 639-1 code of the dominant language of text.
type Detector interface {
	Detect(ctx context.Context, text string) (string, error)
}

// Translator translates text between ISO 639-1 languages.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// Outcome reports what normalization did to a text.
type Outcome struct {
	Text       string
	Language   string
	Translated bool
	// Err is set when translation was needed or attempted but unavailable.
	Err error
}

// Normalizer translates texts detected in one of Sources into Target and
// passes every other text through unchanged.
type Normalizer struct {
	Detector   Detector
	Translator Translator
	Sources    []string
	Target     string
}

// NewNormalizer translates Filipino into English.
func NewNormalizer(d Detector, t Translator) *Normalizer {
	return &Normalizer{
		Detector:   d,
		Translator: t,
		Sources:    []string{"tl", "fil"},
		Target:     "en",
	}
}

// Normalize returns text in the target language, or text itself when it is
// not in a source language or translation is unavailable.
func (n *Normalizer) Normalize(ctx context.Context, text string) Outcome {
	out := Outcome{Text: text}
	if n == nil || n.Detector == nil || strings.TrimSpace(text) == "" {
		return out
	}

	lang, translated, err := n.tryTranslate(ctx, text)
	out.Language = lang
	if err != nil {
		log.Warn("language detection or translation failed, using original text", "error", err)
		out.Err = err
		return out
	}
	if translated != "" {
		out.Text = translated
		out.Translated = true
	}
	return out
}

// tryTranslate returns the detected language and, when the language is a
// source language, the translation. Every failure, including a panic inside
// a collaborator, comes back wrapped in ErrTranslationUnavailable.
func (n *Normalizer) tryTranslate(ctx context.Context, text string) (lang, translated string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrTranslationUnavailable, r)
		}
	}()

	canonical := norm.NFC.String(text)
	lang, err = n.Detector.Detect(ctx, canonical)
	if err != nil {
		return "", "", fmt.Errorf("%w: detect: %w", ErrTranslationUnavailable, err)
	}
	if !slices.Contains(n.Sources, lang) {
		return lang, "", nil
	}
	if n.Translator == nil {
		return lang, "", fmt.Errorf("%w: no translator configured", ErrTranslationUnavailable)
	}

	log.Info("translating story", "from", lang, "to", n.Target)
	translated, err = n.Translator.Translate(ctx, canonical, lang, n.Target)
	if err != nil {
		return lang, "", fmt.Errorf("%w: translate: %w", ErrTranslationUnavailable, err)
	}
	if strings.TrimSpace(translated) == "" {
		return lang, "", fmt.Errorf("%w: empty translation", ErrTranslationUnavailable)
	}
	return lang, translated, nil
}
