package inference

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
)

// Inferencer defines an interface for running model inference and verification.
type Inferencer interface {
	Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Edit(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error)
	Verify(ctx context.Context, result string) (bool, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider string
	APIKey   string
	Model    string
	BaseURL  string
}

// New builds the Inferencer for opts.Provider. "openai" without an API key
// falls back to the local OpenAI-compatible preset.
func New(ctx context.Context, opts Options) (Inferencer, error) {
	switch opts.Provider {
	case "", "openai":
		if opts.APIKey == "" {
			return NewCompatibleInferencer("local", "", opts.Model)
		}
		inf := NewOpenAIInferencer(opts.APIKey, opts.Model)
		if opts.BaseURL != "" {
			inf.ChangeBaseURL(opts.BaseURL)
		}
		return inf, nil
	case "gemini":
		return NewGeminiInferencer(ctx, opts.APIKey, opts.Model)
	default:
		inf, err := NewCompatibleInferencer(opts.Provider, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		if opts.BaseURL != "" {
			inf.ChangeBaseURL(opts.BaseURL)
		}
		return inf, nil
	}
}

func errEmpty(provider string) error {
	return fmt.Errorf("%s: empty completion content", provider)
}
