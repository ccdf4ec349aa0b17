package retrieval

import (
	"context"
	"fmt"

	"github.com/siherrmann/retriever/core/provider"
	"github.com/siherrmann/retriever/database"
	"github.com/siherrmann/retriever/helper"
	"github.com/siherrmann/retriever/model"
)

// Engine turns free text into a ranked, filtered set of relevant documents.
// It holds no persistent state of its own, only references to the store
// and the embedding provider.
type Engine struct {
	documents *database.DocumentsDBHandler
	embedder  provider.Embedder
}

// NewEngine creates a new retrieval engine
func NewEngine(documents *database.DocumentsDBHandler, embedder provider.Embedder) *Engine {
	return &Engine{
		documents: documents,
		embedder:  embedder,
	}
}

// Retrieve embeds the query text and performs similarity search against
// the store. Provider and store failures surface as ErrRetrievalFailed;
// the engine itself never retries. An empty result is a valid outcome,
// not an error.
func (e *Engine) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate query config", err)
	}

	embedding, err := e.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, helper.NewError("generate query embedding", fmt.Errorf("%w: %v", model.ErrRetrievalFailed, err))
	}

	return e.RetrieveByEmbedding(ctx, embedding, config)
}

// RetrieveByEmbedding performs similarity search with a pre-computed
// query embedding
func (e *Engine) RetrieveByEmbedding(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	if config == nil {
		defaultConfig := model.DefaultQueryConfig()
		config = &defaultConfig
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("validate query config", err)
	}

	docs, err := e.documents.SelectDocumentsBySimilarity(embedding, config.TopK, config.SimilarityThreshold)
	if err != nil {
		return nil, helper.NewError("similarity search", fmt.Errorf("%w: %v", model.ErrRetrievalFailed, err))
	}

	results := make([]*model.RetrievalResult, len(docs))
	for i, doc := range docs {
		results[i] = &model.RetrievalResult{
			Document:   doc,
			Similarity: doc.Similarity,
		}
	}

	return results, nil
}
