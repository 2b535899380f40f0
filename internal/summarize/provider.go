package summarize

import (
	"context"
	"fmt"
)

// Request contains the data sent to an LLM for summarization.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response contains the raw response from an LLM.
type Response struct {
	Content    string
	TokensUsed int
}

// Generator is the provider abstraction interface.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// NewGenerator creates a provider by name.
func NewGenerator(provider, model string) (Generator, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
