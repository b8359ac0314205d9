package coref

import (
	"context"
	"errors"
	"testing"

	"storyboard/pkg/annotate/annotatetest"
	"storyboard/pkg/document"
	"storyboard/pkg/inference/inferencetest"
	"storyboard/pkg/schema"
)

const story = `Maria walked home. She said, "I am tired." Her dog barked.`

func TestNthWord(t *testing.T) {
	text := "He said Hello. He left, and he smiled."
	tests := []struct {
		needle string
		n      int
		want   document.CharSpan
		ok     bool
	}{
		{"He", 1, document.CharSpan{Start: 0, End: 2}, true},
		{"He", 2, document.CharSpan{Start: 15, End: 17}, true},
		{"He", 3, document.CharSpan{}, false},
		{"he", 1, document.CharSpan{Start: 28, End: 30}, true},
		{"He", 0, document.CharSpan{Start: 0, End: 2}, true},
		{"", 1, document.CharSpan{}, false},
	}
	for _, tt := range tests {
		got, ok := nthWord(text, tt.needle, tt.n)
		if ok != tt.ok || got != tt.want {
			t.Errorf("nthWord(%q, %d) = %v, %v; want %v, %v", tt.needle, tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLLMModelPredict(t *testing.T) {
	inf := &inferencetest.Inferencer{Responses: []string{"```json\n" +
		`{"clusters":[{"entity":"Maria","mentions":[{"text":"Maria","occurrence":1},{"text":"She","occurrence":1},{"text":"Her","occurrence":1},{"text":"Nobody","occurrence":1}]}]}` +
		"\n```"}}

	clusters, err := NewLLMModel(inf).Predict(context.Background(), story)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0]) != 3 {
		t.Fatalf("clusters = %v", clusters)
	}
	if got := story[clusters[0][1].Start:clusters[0][1].End]; got != "She" {
		t.Errorf("second mention = %q", got)
	}

	calls := inf.Calls()
	if len(calls) != 1 || calls[0].User != story || !schema.WantsJSON(calls[0].Params) {
		t.Errorf("unexpected request: %+v", calls)
	}

	resolved, err := NewResolver(annotatetest.New(lexicon), ModelFunc(func(ctx context.Context, text string) ([][]document.CharSpan, error) {
		return clusters, nil
	})).Resolve(context.Background(), story)
	if err != nil {
		t.Fatal(err)
	}
	if want := `Maria walked home. Maria said, "I am tired." Maria dog barked.`; resolved != want {
		t.Errorf("resolved = %q", resolved)
	}
}

func TestLLMModelFixesJSON(t *testing.T) {
	inf := &inferencetest.Inferencer{Responses: []string{
		`{"clusters": [`,
		`{"clusters":[{"entity":"Maria","mentions":[{"text":"Maria","occurrence":1},{"text":"She","occurrence":1}]}]}`,
	}}
	clusters, err := NewLLMModel(inf).Predict(context.Background(), story)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0]) != 2 {
		t.Errorf("clusters = %v", clusters)
	}
	if n := len(inf.Calls()); n != 2 {
		t.Errorf("expected a repair call, got %d calls", n)
	}
}

func TestLLMModelErrors(t *testing.T) {
	boom := errors.New("service down")
	_, err := NewLLMModel(&inferencetest.Inferencer{Err: boom}).Predict(context.Background(), story)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}

	_, err = NewLLMModel(&inferencetest.Inferencer{Responses: []string{"nope", "still nope"}}).Predict(context.Background(), story)
	if err == nil {
		t.Error("expected a parse error")
	}
}

func TestHeuristicModel(t *testing.T) {
	text := "Maria walked home. She said hello. Her dog barked at Tom Lee. He ran."
	clusters, err := NewHeuristicModel(annotatetest.New(lexicon)).Predict(context.Background(), text)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %v", clusters)
	}

	var got []string
	for _, cs := range clusters[0] {
		got = append(got, text[cs.Start:cs.End])
	}
	want := []string{"Maria", "She", "Her"}
	if len(got) != len(want) {
		t.Fatalf("first cluster = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("first cluster = %q, want %q", got, want)
		}
	}
	if name := text[clusters[1][0].Start:clusters[1][0].End]; name != "Tom Lee" {
		t.Errorf("multi-token name = %q", name)
	}
}
