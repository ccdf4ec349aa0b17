package database

import (
	"context"
	"fmt"
	"time"

	"github.com/siherrmann/retriever/helper"
)

// ChangeIndexType changes the vector index type.
// indexType: "hnsw", "ivfflat" or "none"
// params: optional parameters for index creation
//   - For HNSW: "m" (int, default 16), "ef_construction" (int, default 64)
//   - For IVFFlat: "lists" (int, default 100)
//
// "none" drops the index entirely, leaving exact brute-force scans.
func (h *DocumentsDBHandler) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	// Drop existing index
	_, err := h.db.Instance.ExecContext(ctx, `DROP INDEX IF EXISTS idx_documents_embedding;`)
	if err != nil {
		return helper.NewError("drop index", err)
	}

	h.db.Logger.Info("Dropped existing vector index")

	// Create new index based on type
	var createIndexSQL string

	switch indexType {
	case "hnsw":
		m := 16
		efConstruction := 64

		if mVal, ok := params["m"].(int); ok {
			m = mVal
		}
		if efVal, ok := params["ef_construction"].(int); ok {
			efConstruction = efVal
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_documents_embedding ON documents USING hnsw (embedding vector_cosine_ops) WITH (m = %d, ef_construction = %d);`,
			m, efConstruction,
		)

	case "ivfflat":
		lists := 100
		if listsVal, ok := params["lists"].(int); ok {
			lists = listsVal
		}

		createIndexSQL = fmt.Sprintf(
			`CREATE INDEX idx_documents_embedding ON documents USING ivfflat (embedding vector_cosine_ops) WITH (lists = %d);`,
			lists,
		)

	case "none":
		// Brute-force exact scan, nothing to create
		h.db.Logger.Info("Vector index disabled, queries use exact scan")
		return nil

	default:
		return helper.NewError("change index type", fmt.Errorf("unsupported index type: %s (use 'hnsw', 'ivfflat' or 'none')", indexType))
	}

	// Create the new index
	_, err = h.db.Instance.ExecContext(ctx, createIndexSQL)
	if err != nil {
		return helper.NewError("create index", err)
	}

	h.db.Logger.Info(fmt.Sprintf("Created %s index with params: %v", indexType, params))

	return nil
}

// RebuildIndex drops and recreates the vector index from the raw embedding
// column. The index is a derived cache; the stored vectors are the source
// of truth, so a rebuild never loses data.
func (h *DocumentsDBHandler) RebuildIndex(ctx context.Context) error {
	return h.ChangeIndexType(ctx, "hnsw", nil)
}
