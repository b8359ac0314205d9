package utils

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// CountTokens returns the number of model tokens in text. When the encoding
// cannot be loaded it estimates four bytes per token.
func CountTokens(text string) int {
	encOnce.Do(func() {
		enc, _ = tiktoken.EncodingForModel("gpt-4-0613")
	})
	if enc == nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
