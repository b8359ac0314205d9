// Package inferencetest provides a scripted Inferencer for tests.
package inferencetest

import (
	"context"
	"errors"
	"sync"

	"github.com/openai/openai-go/v3"
)

// Call records one request made to the Inferencer.
type Call struct {
	Params *openai.ChatCompletionNewParams
	System string
	User   string
}

// Inferencer replays Responses in order. Once they run out it returns Err,
// or an error when Err is nil. Respond, when set, takes precedence.
type Inferencer struct {
	Responses []string
	Err       error
	Respond   func(system, user string) (string, error)

	mu    sync.Mutex
	calls []Call
}

func (f *Inferencer) Infer(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Params: params, System: system, User: user})
	if f.Respond != nil {
		return f.Respond(system, user)
	}
	if len(f.Responses) == 0 {
		if f.Err != nil {
			return "", f.Err
		}
		return "", errors.New("no scripted response")
	}
	out := f.Responses[0]
	f.Responses = f.Responses[1:]
	return out, nil
}

func (f *Inferencer) Edit(ctx context.Context, params *openai.ChatCompletionNewParams, system, user string) (string, error) {
	return f.Infer(ctx, params, system, user)
}

func (f *Inferencer) Verify(ctx context.Context, result string) (bool, error) {
	if result == "" {
		return false, errors.New("empty result")
	}
	return true, nil
}

// Calls returns the recorded requests.
func (f *Inferencer) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}
