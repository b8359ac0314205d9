package inference

import (
	"cmp"
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"google.golang.org/genai"

	"storyboard/pkg/schema"
)

type GeminiInferencer struct {
	client *genai.Client
	apiKey string
	model  string
}

// NewGeminiInferencer creates a new inferencer instance using the genai client.
func NewGeminiInferencer(ctx context.Context, apiKey string, model string) (*GeminiInferencer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiInferencer{
		client: client,
		apiKey: apiKey,
		model:  cmp.Or(model, "gemini-2.5-flash"),
	}, nil
}

// Infer sends text to GenerateContent. JSON output is requested only when
// params carry a JSON response format.
func (o *GeminiInferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	var p openai.ChatCompletionNewParams
	if params != nil {
		p = *params
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   int32(cmp.Or(p.MaxCompletionTokens.Value, 4096)),
	}
	if p.Temperature.Value != 0 {
		config.Temperature = genai.Ptr(float32(p.Temperature.Value))
	}
	if schema.WantsJSON(&p) {
		config.ResponseMIMEType = "application/json"
	}

	result, err := o.client.Models.GenerateContent(
		ctx,
		cmp.Or(string(p.Model), o.model),
		genai.Text(user),
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := result.Text()
	if text == "" {
		return "", errEmpty("gemini")
	}
	return text, nil
}

// Edit mirrors Infer with an output budget sized to the input.
func (o *GeminiInferencer) Edit(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	var p openai.ChatCompletionNewParams
	if params != nil {
		p = *params
	}
	if p.MaxCompletionTokens.Value == 0 {
		p.MaxCompletionTokens = openai.Int(int64(max(len(user)*2, 256)))
	}
	return o.Infer(ctx, &p, system, user)
}

func (o *GeminiInferencer) Verify(ctx context.Context, result string) (bool, error) {
	if result == "" {
		return false, errEmpty("gemini")
	}
	return true, nil
}
