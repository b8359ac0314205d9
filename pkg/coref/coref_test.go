package coref

import (
	"context"
	"errors"
	"strings"
	"testing"

	"storyboard/pkg/annotate/annotatetest"
	"storyboard/pkg/document"
)

var lexicon = map[string]string{
	"home": document.PosNoun,
	"dog":  document.PosNoun,
	"so":   "ADV",
	"and":  "CCONJ",
	"at":   "ADP",
}

// charSpan returns the byte range of the n-th (1-based) occurrence of word.
func charSpan(t *testing.T, text, word string, n int) document.CharSpan {
	t.Helper()
	span, ok := nthWord(text, word, n)
	if !ok {
		t.Fatalf("%q occurrence %d not in %q", word, n, text)
	}
	return span
}

func resolveWith(t *testing.T, text string, clusters [][]document.CharSpan) string {
	t.Helper()
	model := ModelFunc(func(ctx context.Context, _ string) ([][]document.CharSpan, error) {
		return clusters, nil
	})
	out, err := NewResolver(annotatetest.New(lexicon), model).Resolve(context.Background(), text)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return out
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		build func(t *testing.T, text string) [][]document.CharSpan
		want  string
	}{
		{
			name: "capitalized pronouns take the head",
			text: `Maria walked home. She said, "I am tired." Her dog barked.`,
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{{
					charSpan(t, text, "Maria", 1),
					charSpan(t, text, "She", 1),
					charSpan(t, text, "Her", 1),
				}}
			},
			want: `Maria walked home. Maria said, "I am tired." Maria dog barked.`,
		},
		{
			name: "lowercase pronoun untouched",
			text: "Maria smiled. She waved at her dog.",
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{{
					charSpan(t, text, "Maria", 1),
					charSpan(t, text, "She", 1),
					charSpan(t, text, "her", 1),
				}}
			},
			want: "Maria smiled. Maria waved at her dog.",
		},
		{
			name: "nested mention untouched",
			text: "Maria smiled. Her dog barked. It ran.",
			build: func(t *testing.T, text string) [][]document.CharSpan {
				herDog := document.CharSpan{Start: strings.Index(text, "Her dog"), End: strings.Index(text, "Her dog") + len("Her dog")}
				return [][]document.CharSpan{
					{herDog, charSpan(t, text, "It", 1)},
					{charSpan(t, text, "Maria", 1), charSpan(t, text, "Her", 1)},
				}
			},
			want: "Maria smiled. Her dog barked. Her dog ran.",
		},
		{
			name: "cluster without a noun is skipped",
			text: "She smiled. Her dog barked.",
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{{charSpan(t, text, "She", 1), charSpan(t, text, "Her", 1)}}
			},
			want: "She smiled. Her dog barked.",
		},
		{
			name: "space inserted after glued token",
			text: `"She ran," Maria said.`,
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{{charSpan(t, text, "Maria", 1), charSpan(t, text, "She", 1)}}
			},
			want: `" Maria ran," Maria said.`,
		},
		{
			name: "final token drops trailing whitespace",
			text: "Maria laughed. So did She ",
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{{charSpan(t, text, "Maria", 1), charSpan(t, text, "She", 1)}}
			},
			want: "Maria laughed. So did Maria",
		},
		{
			name: "misaligned mentions are dropped",
			text: "Maria smiled. She waved.",
			build: func(t *testing.T, text string) [][]document.CharSpan {
				return [][]document.CharSpan{
					{{Start: 1, End: 4}, charSpan(t, text, "She", 1)},
					{{Start: 100, End: 104}},
				}
			},
			want: "Maria smiled. She waved.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveWith(t, tt.text, tt.build(t, tt.text)); got != tt.want {
				t.Errorf("resolved = %q\nwant       %q", got, tt.want)
			}
		})
	}
}

func TestHeadSelection(t *testing.T) {
	text := "She saw Maria. Maria waved."
	doc, err := annotatetest.New(lexicon).Annotate(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	cluster := Align(doc, [][]document.CharSpan{{
		charSpan(t, text, "She", 1),
		charSpan(t, text, "Maria", 2),
		charSpan(t, text, "Maria", 1),
	}})[0]
	head, ok := Head(doc, cluster)
	if !ok || head != cluster[1] {
		t.Errorf("Head = %v, %v; want %v", head, ok, cluster[1])
	}

	pronouns := Align(doc, [][]document.CharSpan{{charSpan(t, text, "She", 1)}})[0]
	head, ok = Head(doc, pronouns)
	if ok || head != pronouns[0] {
		t.Errorf("Head without noun = %v, %v; want fallback to first", head, ok)
	}
}

func TestAlignDropsEmptyClusters(t *testing.T) {
	text := "Maria smiled."
	doc, _ := annotatetest.New(nil).Annotate(context.Background(), text)
	got := Align(doc, [][]document.CharSpan{
		{{Start: 0, End: 3}},
		{{Start: 0, End: 5}, {Start: 6, End: 9}},
	})
	if len(got) != 1 || len(got[0]) != 1 || got[0][0] != (document.Span{Start: 0, End: 1}) {
		t.Errorf("Align = %v", got)
	}
}

func TestResolverErrors(t *testing.T) {
	boom := errors.New("boom")

	ann := annotatetest.New(nil)
	ann.Err = boom
	_, _, err := NewResolver(ann, ModelFunc(nil)).Clusters(context.Background(), "Maria smiled.")
	if !errors.Is(err, ErrAnnotation) || !errors.Is(err, boom) {
		t.Errorf("annotation error = %v", err)
	}

	failing := ModelFunc(func(context.Context, string) ([][]document.CharSpan, error) { return nil, boom })
	_, _, err = NewResolver(annotatetest.New(nil), failing).Clusters(context.Background(), "Maria smiled.")
	if !errors.Is(err, ErrModel) || !errors.Is(err, boom) {
		t.Errorf("model error = %v", err)
	}
}

func TestResolverBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t "} {
		called := false
		model := ModelFunc(func(context.Context, string) ([][]document.CharSpan, error) {
			called = true
			return nil, nil
		})
		out, err := NewResolver(annotatetest.New(nil), model).Resolve(context.Background(), text)
		if err != nil || out != text {
			t.Errorf("Resolve(%q) = %q, %v", text, out, err)
		}
		if called {
			t.Errorf("model ran on blank text %q", text)
		}
	}
}
