package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/siherrmann/retriever/core/augment"
	"github.com/siherrmann/retriever/core/provider"
	"github.com/siherrmann/retriever/core/retrieval"
	"github.com/siherrmann/retriever/database"
	"github.com/siherrmann/retriever/helper"
	"github.com/siherrmann/retriever/model"
	loadSql "github.com/siherrmann/retriever/sql"
)

// Retriever provides a unified interface to the vector store, the
// retrieval engine and the prompt augmenter
type Retriever struct {
	DB        *helper.Database
	Documents *database.DocumentsDBHandler
	Engine    *retrieval.Engine
	Augmenter *augment.Augmenter
	Embedder  provider.Embedder
	Generator provider.Generator // Optional, required only for Answer
	// Logging
	log *slog.Logger
}

// NewRetriever creates a new Retriever instance with the store opened and
// all components initialized. The embedder's dimensionality fixes the
// store's vector column width. Callers own the returned handle and must
// Close it on all exit paths.
func NewRetriever(config *helper.DatabaseConfiguration, embedder provider.Embedder) (*Retriever, error) {
	if embedder == nil {
		return nil, helper.NewError("embedder validation", fmt.Errorf("embedder is nil"))
	}

	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("retriever", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, embedder.Dimensions(), false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	engine := retrieval.NewEngine(documents, embedder)

	return &Retriever{
		DB:        db,
		Documents: documents,
		Engine:    engine,
		Augmenter: augment.NewAugmenter(),
		Embedder:  embedder,
		log:       logger,
	}, nil
}

// Close closes the database connection
func (r *Retriever) Close() error {
	if r.DB != nil && r.DB.Instance != nil {
		return r.DB.Instance.Close()
	}
	return nil
}

// SetGenerator sets the language model provider used by Answer
func (r *Retriever) SetGenerator(generator provider.Generator) {
	r.Generator = generator
}

// UseOpenAI wires OpenAI-backed providers with bounded retry for the
// generation side. The embedder is fixed at construction time because it
// determines the store's dimensionality.
func (r *Retriever) UseOpenAI(apiKey string) {
	r.Generator = provider.NewRetryGenerator(provider.NewOpenAIGenerator(apiKey), provider.DefaultRetryConfig())
}

// IndexText embeds the given text and inserts it as a new document.
// The embedding is computed once here; documents are immutable afterwards.
func (r *Retriever) IndexText(ctx context.Context, text string, metadata model.Metadata) (*model.Document, error) {
	if text == "" {
		return nil, helper.NewError("index text", fmt.Errorf("text is empty"))
	}

	embedding, err := r.Embedder.Embed(ctx, text)
	if err != nil {
		return nil, helper.NewError("generate embedding", err)
	}

	doc := &model.Document{
		Content:   text,
		Embedding: embedding,
		Metadata:  metadata,
	}
	if err := r.Documents.InsertDocument(doc); err != nil {
		return nil, helper.NewError("insert document", err)
	}

	r.log.Info("Indexed document", slog.String("document_rid", doc.RID.String()), slog.Int("content_length", len(text)))

	return doc, nil
}

// IndexDocument embeds and inserts a prepared document, for example one
// created with model.NewDocumentFromFile
func (r *Retriever) IndexDocument(ctx context.Context, doc *model.Document) error {
	if doc == nil || doc.Content == "" {
		return helper.NewError("index document", fmt.Errorf("document content is empty"))
	}

	embedding, err := r.Embedder.Embed(ctx, doc.Content)
	if err != nil {
		return helper.NewError("generate embedding", err)
	}
	doc.Embedding = embedding

	if err := r.Documents.InsertDocument(doc); err != nil {
		return helper.NewError("insert document", err)
	}

	r.log.Info("Indexed document", slog.String("document_rid", doc.RID.String()))

	return nil
}

// Retrieve performs similarity search for the given query text
func (r *Retriever) Retrieve(ctx context.Context, queryText string, config *model.QueryConfig) ([]*model.RetrievalResult, error) {
	return r.Engine.Retrieve(ctx, queryText, config)
}

// Augment builds the prompt for the given query and retrieval results
// without calling any provider
func (r *Retriever) Augment(queryText string, results []*model.RetrievalResult) string {
	return r.Augmenter.Augment(queryText, model.Texts(results))
}

// Answer runs the full pipeline: retrieve, augment, generate.
// If retrieval fails the whole request fails; the pipeline never falls
// back to an unaugmented generation call.
func (r *Retriever) Answer(ctx context.Context, question string, config *model.QueryConfig) (string, error) {
	if r.Generator == nil {
		return "", helper.NewError("answer", fmt.Errorf("generator not set, use SetGenerator() or UseOpenAI() first"))
	}

	results, err := r.Engine.Retrieve(ctx, question, config)
	if err != nil {
		return "", helper.NewError("retrieve context", err)
	}

	r.log.Info("Retrieved context", slog.Int("num_results", len(results)))

	prompt := r.Augmenter.Augment(question, model.Texts(results))

	response, err := r.Generator.Generate(ctx, prompt)
	if err != nil {
		return "", helper.NewError("generate answer", err)
	}

	return response, nil
}

// ChangeIndexType changes the vector index type between HNSW, IVFFlat and
// exact brute-force scan
func (r *Retriever) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return r.Documents.ChangeIndexType(ctx, indexType, params)
}

// RebuildIndex rebuilds the vector index from the stored raw vectors
func (r *Retriever) RebuildIndex(ctx context.Context) error {
	return r.Documents.RebuildIndex(ctx)
}
