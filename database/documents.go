package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/retriever/helper"
	"github.com/siherrmann/retriever/model"
	loadSql "github.com/siherrmann/retriever/sql"
)

// DocumentsDBHandlerFunctions defines the interface for Documents database operations.
type DocumentsDBHandlerFunctions interface {
	InsertDocument(doc *model.Document) error
	DeleteDocument(rid uuid.UUID) error
	SelectDocument(rid uuid.UUID) (*model.Document, error)
	SelectAllDocuments(limit int, offset int) ([]*model.Document, error)
	SelectDocumentsBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.Document, error)
	CountDocuments() (int64, error)
	EmbeddingDim() int
}

// DocumentsDBHandler handles document-related database operations
type DocumentsDBHandler struct {
	db           *helper.Database
	embeddingDim int
}

// NewDocumentsDBHandler creates a new documents database handler.
// It initializes the database connection and loads document-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewDocumentsDBHandler(db *helper.Database, embeddingDim int, force bool) (*DocumentsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim < 1 {
		return nil, helper.NewError("embedding dimension validation", fmt.Errorf("embedding dimension must be at least 1, got %d", embeddingDim))
	}

	documentsDbHandler := &DocumentsDBHandler{
		db:           db,
		embeddingDim: embeddingDim,
	}

	err := loadSql.LoadDocumentsSql(documentsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load documents sql", err)
	}

	err = documentsDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized DocumentsDBHandler")

	return documentsDbHandler, nil
}

// CreateTable creates the 'documents' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *DocumentsDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_documents($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing documents table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table documents")

	return nil
}

// EmbeddingDim returns the configured embedding dimensionality of the store
func (h *DocumentsDBHandler) EmbeddingDim() int {
	return h.embeddingDim
}

// InsertDocument inserts a new document with its embedding.
// The embedding length must match the store's configured dimensionality,
// otherwise model.ErrDimensionMismatch is returned and no row is written.
func (h *DocumentsDBHandler) InsertDocument(doc *model.Document) error {
	if len(doc.Embedding) != h.embeddingDim {
		return helper.NewError(
			"insert document",
			fmt.Errorf("%w: got %d, store configured for %d", model.ErrDimensionMismatch, len(doc.Embedding), h.embeddingDim),
		)
	}

	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_document($1, $2, $3)`,
		doc.Content,
		pq.Array(doc.Embedding),
		doc.Metadata,
	)

	err := row.Scan(
		&doc.ID,
		&doc.RID,
		&doc.Content,
		pq.Array(&doc.Embedding),
		&doc.Metadata,
		&doc.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// DeleteDocument deletes a document by RID
func (h *DocumentsDBHandler) DeleteDocument(rid uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_document($1)`,
		rid,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

// SelectDocument retrieves a document by RID
func (h *DocumentsDBHandler) SelectDocument(rid uuid.UUID) (*model.Document, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_document($1)`,
		rid,
	)

	doc := &model.Document{}
	err := row.Scan(
		&doc.ID,
		&doc.RID,
		&doc.Content,
		pq.Array(&doc.Embedding),
		&doc.Metadata,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return doc, nil
}

// SelectAllDocuments retrieves documents in insertion order with pagination
func (h *DocumentsDBHandler) SelectAllDocuments(limit int, offset int) ([]*model.Document, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_all_documents($1, $2)`,
		limit,
		offset,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc := &model.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.RID,
			&doc.Content,
			pq.Array(&doc.Embedding),
			&doc.Metadata,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		docs = append(docs, doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return docs, nil
}

// SelectDocumentsBySimilarity retrieves documents by cosine similarity to
// the given embedding. Documents below the threshold are filtered out before
// ranking and limiting; ties are broken by insertion order. An empty result
// is valid, not an error.
func (h *DocumentsDBHandler) SelectDocumentsBySimilarity(embedding []float32, limit int, threshold float64) ([]*model.Document, error) {
	if len(embedding) != h.embeddingDim {
		return nil, helper.NewError(
			"similarity search",
			fmt.Errorf("%w: got %d, store configured for %d", model.ErrDimensionMismatch, len(embedding), h.embeddingDim),
		)
	}
	if limit < 1 {
		return nil, helper.NewError("similarity search", fmt.Errorf("limit must be at least 1, got %d", limit))
	}
	if threshold < -1 || threshold > 1 {
		return nil, helper.NewError("similarity search", fmt.Errorf("threshold must be in [-1, 1], got %f", threshold))
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_documents_by_similarity($1, $2, $3)`,
		pgvector.NewVector(embedding),
		limit,
		threshold,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		doc := &model.Document{}
		err := rows.Scan(
			&doc.ID,
			&doc.RID,
			&doc.Content,
			pq.Array(&doc.Embedding),
			&doc.Metadata,
			&doc.CreatedAt,
			&doc.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		docs = append(docs, doc)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return docs, nil
}

// CountDocuments returns the number of stored documents
func (h *DocumentsDBHandler) CountDocuments() (int64, error) {
	var count int64
	err := h.db.Instance.QueryRow(`SELECT count_documents()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("scan", err)
	}
	return count, nil
}
