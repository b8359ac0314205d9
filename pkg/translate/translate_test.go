package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abadojack/whatlanggo"

	"storyboard/pkg/annotate/annotatetest"
	"storyboard/pkg/inference/inferencetest"
)

type detectorFunc func(ctx context.Context, text string) (string, error)

func (f detectorFunc) Detect(ctx context.Context, text string) (string, error) { return f(ctx, text) }

type translatorFunc func(ctx context.Context, text, from, to string) (string, error)

func (f translatorFunc) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}

func fixed(lang string) Detector {
	return detectorFunc(func(context.Context, string) (string, error) { return lang, nil })
}

func TestNormalize(t *testing.T) {
	boom := errors.New("network unreachable")
	echo := translatorFunc(func(_ context.Context, text, from, to string) (string, error) {
		return "[" + from + "->" + to + "] " + text, nil
	})

	tests := []struct {
		name       string
		detector   Detector
		translator Translator
		in         string
		want       string
		translated bool
		unavail    bool
	}{
		{"filipino is translated", fixed("tl"), echo, "Umuwi si Maria.", "[tl->en] Umuwi si Maria.", true, false},
		{"english passes through", fixed("en"), echo, "Maria walked home.", "Maria walked home.", false, false},
		{"other languages pass through", fixed("es"), echo, "Maria caminó.", "Maria caminó.", false, false},
		{"detection failure", detectorFunc(func(context.Context, string) (string, error) { return "", boom }), echo, "Umuwi si Maria.", "Umuwi si Maria.", false, true},
		{"translation failure", fixed("tl"), translatorFunc(func(context.Context, string, string, string) (string, error) { return "", boom }), "Umuwi si Maria.", "Umuwi si Maria.", false, true},
		{"translation panic", fixed("tl"), translatorFunc(func(context.Context, string, string, string) (string, error) { panic("client closed") }), "Umuwi si Maria.", "Umuwi si Maria.", false, true},
		{"empty translation", fixed("tl"), translatorFunc(func(context.Context, string, string, string) (string, error) { return "  ", nil }), "Umuwi si Maria.", "Umuwi si Maria.", false, true},
		{"missing translator", fixed("tl"), nil, "Umuwi si Maria.", "Umuwi si Maria.", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := NewNormalizer(tt.detector, tt.translator).Normalize(context.Background(), tt.in)
			if out.Text != tt.want {
				t.Errorf("Text = %q, want %q", out.Text, tt.want)
			}
			if out.Translated != tt.translated {
				t.Errorf("Translated = %v, want %v", out.Translated, tt.translated)
			}
			if got := errors.Is(out.Err, ErrTranslationUnavailable); got != tt.unavail {
				t.Errorf("Err = %v, unavailable = %v, want %v", out.Err, got, tt.unavail)
			}
		})
	}
}

func TestNormalizeSkipsBlankText(t *testing.T) {
	called := false
	d := detectorFunc(func(context.Context, string) (string, error) {
		called = true
		return "tl", nil
	})
	for _, in := range []string{"", "  \n"} {
		if out := NewNormalizer(d, nil).Normalize(context.Background(), in); out.Text != in {
			t.Errorf("Normalize(%q) = %q", in, out.Text)
		}
	}
	if called {
		t.Error("detector should not run on blank text")
	}

	var nilNormalizer *Normalizer
	if out := nilNormalizer.Normalize(context.Background(), "text"); out.Text != "text" {
		t.Errorf("nil normalizer changed text: %q", out.Text)
	}
}

func TestWhatlangDetector(t *testing.T) {
	d := WhatlangDetector{}
	en, err := d.Detect(context.Background(), "The old fisherman walked slowly to the harbor every morning before the sun came up.")
	if err != nil || en != "en" {
		t.Errorf("english detected as %q, %v", en, err)
	}
	tl, err := d.Detect(context.Background(), "Ang matandang mangingisda ay naglalakad papunta sa daungan tuwing umaga bago sumikat ang araw. Masaya siya dahil maganda ang panahon ngayon.")
	if err != nil || tl != "tl" {
		t.Errorf("tagalog detected as %q, %v", tl, err)
	}

	filipino := WhatlangDetector{Languages: []string{"fil", "en"}}
	if got, err := filipino.Detect(context.Background(), "Umuwi si Maria sa kanilang bahay at natulog siya nang mahimbing dahil pagod na pagod siya."); err != nil || got != "tl" {
		t.Errorf("fil whitelist detected %q, %v", got, err)
	}

	strict := WhatlangDetector{MinConfidence: 2}
	if _, err := strict.Detect(context.Background(), "hello"); err == nil {
		t.Error("expected an error below the confidence threshold")
	}
}

func TestWhitelist(t *testing.T) {
	wl := whitelist([]string{"fil", "en"})
	if len(wl) != 2 || !wl[whatlanggo.Tgl] || !wl[whatlanggo.Eng] {
		t.Errorf("whitelist = %v", wl)
	}
	if def := whitelist(nil); !def[whatlanggo.Tgl] || def[whatlanggo.Ceb] {
		t.Errorf("default whitelist = %v", def)
	}
}

func TestLLMTranslator(t *testing.T) {
	inf := &inferencetest.Inferencer{Respond: func(system, user string) (string, error) {
		if !strings.Contains(system, "Filipino (Tagalog) to English") {
			t.Errorf("system prompt = %q", system)
		}
		return "EN(" + user + ")", nil
	}}
	tr := &LLMTranslator{Inferencer: inf, Annotator: annotatetest.New(nil), ChunkTokens: 1}

	out, err := tr.Translate(context.Background(), "Umuwi si Maria.\n\nTumahol ang aso. Natulog siya.", "tl", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := "EN(Umuwi si Maria.)\n\nEN(Tumahol ang aso.) EN(Natulog siya.)"; out != want {
		t.Errorf("Translate = %q, want %q", out, want)
	}
	if n := len(inf.Calls()); n != 3 {
		t.Errorf("expected one call per sentence, got %d", n)
	}

	whole := &LLMTranslator{Inferencer: inf}
	out, err = whole.Translate(context.Background(), "Umuwi si Maria.\n\nTumahol ang aso.", "tl", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if want := "EN(Umuwi si Maria.\n\nTumahol ang aso.)"; out != want {
		t.Errorf("paragraphs within budget should share one request, got %q", out)
	}

	words := &LLMTranslator{Inferencer: &inferencetest.Inferencer{Respond: func(_, user string) (string, error) {
		return "```\n<" + user + ">\n```", nil
	}}, ChunkTokens: 1}
	out, err = words.Translate(context.Background(), "Umuwi si", "tl", "en")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "<Umuwi> <si>" {
		t.Errorf("word fallback = %q", out)
	}

	failing := &LLMTranslator{Inferencer: &inferencetest.Inferencer{Err: errors.New("quota")}}
	if _, err := failing.Translate(context.Background(), "Umuwi si Maria.", "tl", "en"); err == nil {
		t.Error("expected the inference error")
	}
}
