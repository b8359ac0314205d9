package inference

import (
	"cmp"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

type preset struct {
	baseURL string
	model   string
}

// presets are OpenAI-compatible providers reachable by base URL alone.
var presets = map[string]preset{
	"grok":     {baseURL: "https://api.x.ai/v1", model: "grok-4-fast-reasoning"},
	"kimi":     {baseURL: "https://api.kimi.com/coding/v1", model: "kimi-for-coding"},
	"moonshot": {baseURL: "https://api.moonshot.ai/v1", model: "kimi-k2-5"},
	"local":    {baseURL: "http://localhost:1234/v1"},
}

// NewCompatibleInferencer returns an OpenAIInferencer pointed at a named
// preset. An empty model selects the preset's default.
func NewCompatibleInferencer(name, apiKey, model string) (*OpenAIInferencer, error) {
	p, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown inference provider %q", name)
	}
	client := openai.NewClient(
		option.WithBaseURL(p.baseURL),
		option.WithAPIKey(apiKey),
	)
	return &OpenAIInferencer{
		client:   &client,
		apiKey:   apiKey,
		model:    cmp.Or(model, p.model),
		provider: name,
	}, nil
}
