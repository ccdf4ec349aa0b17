package provider

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/siherrmann/retriever/helper"
)

// OpenAIEmbedderDimensions is the dimensionality requested from the
// text-embedding-3-small model.
const OpenAIEmbedderDimensions = 1536

// OpenAIEmbedder is an Embedder backed by the OpenAI embeddings API
type OpenAIEmbedder struct {
	client     openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAIEmbedder creates an embedder using text-embedding-3-small
func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client:     openai.NewClient(option.WithAPIKey(apiKey)),
		model:      openai.EmbeddingModelTextEmbedding3Small,
		dimensions: OpenAIEmbedderDimensions,
	}
}

// Embed requests an embedding for the given text
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input:      openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model:      e.model,
		Dimensions: openai.Int(int64(e.dimensions)),
	})
	if err != nil {
		return nil, helper.NewError("openai embeddings request", err)
	}
	if len(resp.Data) == 0 {
		return nil, helper.NewError("openai embeddings request", fmt.Errorf("no embedding returned"))
	}

	embedding := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		embedding[i] = float32(v)
	}

	if len(embedding) != e.dimensions {
		return nil, helper.NewError("openai embeddings request", fmt.Errorf("expected %d dimensions, got %d", e.dimensions, len(embedding)))
	}

	return embedding, nil
}

// Dimensions returns the embedding dimensionality of the model
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dimensions
}

// OpenAIGenerator is a Generator backed by the OpenAI chat completions API
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAIGenerator creates a generator using gpt-4o
func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModelGPT4o,
	}
}

// Generate sends the prompt as a single user message and returns the reply
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", helper.NewError("openai chat request", err)
	}
	if len(resp.Choices) == 0 {
		return "", helper.NewError("openai chat request", fmt.Errorf("no completion returned"))
	}

	return resp.Choices[0].Message.Content, nil
}
