package provider

import "context"

// Embedder converts text into a fixed-length dense vector.
// Implementations wrapping remote APIs must honour context cancellation,
// since the call is a blocking network round-trip outside our control.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// Generator produces text from a prompt.
// Same contract as Embedder regarding context cancellation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedFunc adapts a plain function to the Embedder interface
type EmbedFunc struct {
	Fn  func(ctx context.Context, text string) ([]float32, error)
	Dim int
}

func (e EmbedFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.Fn(ctx, text)
}

func (e EmbedFunc) Dimensions() int {
	return e.Dim
}

// GenerateFunc adapts a plain function to the Generator interface
type GenerateFunc func(ctx context.Context, prompt string) (string, error)

func (g GenerateFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return g(ctx, prompt)
}
