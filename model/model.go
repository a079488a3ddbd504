// Package model defines the synchronous text-generation interface the
// generation steps call, plus a mock for tests. Provider adapters live in the
// openai and anthropic subpackages.
package model

import "context"

// Request is one generation call. Context carries the consolidated session
// context block and is prepended to the prompt.
type Request struct {
	Instructions string
	Prompt       string
	Context      string
	MaxTokens    int64
	Temperature  float64
}

// Usage reports token consumption of a call when the provider exposes it.
type Usage struct {
	InputTokens  int64
	OutputTokens int64
}

// Response is the completed generation result.
type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Info identifies the backing provider and model.
type Info struct {
	Provider string
	Name     string
}

// Model is a synchronous text-generation backend. Implementations must be
// safe for concurrent use.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Info() Info
}

// MockModel is a test double driven by a caller-supplied function.
type MockModel struct {
	GenerateFunc func(ctx context.Context, req Request) (*Response, error)
	Provider     string
	Name         string
}

// Generate delegates to GenerateFunc, or echoes the prompt when unset.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return &Response{Text: req.Prompt, FinishReason: "stop"}, nil
}

// Info identifies the mock.
func (m *MockModel) Info() Info {
	provider := m.Provider
	if provider == "" {
		provider = "mock"
	}
	name := m.Name
	if name == "" {
		name = "mock-model"
	}
	return Info{Provider: provider, Name: name}
}
