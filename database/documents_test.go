package database

import (
	"errors"
	"testing"
	"time"

	"github.com/siherrmann/retriever/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmbeddingDim = 3

func TestNewDocumentsDBHandler(t *testing.T) {
	db := initDB(t)

	t.Run("Valid call NewDocumentsDBHandler", func(t *testing.T) {
		documentsDbHandler, err := NewDocumentsDBHandler(db, testEmbeddingDim, true)
		assert.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")
		require.NotNil(t, documentsDbHandler, "Expected NewDocumentsDBHandler to return a non-nil instance")
		require.NotNil(t, documentsDbHandler.db, "Expected NewDocumentsDBHandler to have a non-nil database instance")
		assert.Equal(t, testEmbeddingDim, documentsDbHandler.EmbeddingDim())
	})

	t.Run("Invalid call NewDocumentsDBHandler with nil database", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(nil, testEmbeddingDim, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil", "Expected specific error message for nil database connection")
	})

	t.Run("Invalid call NewDocumentsDBHandler with zero dimension", func(t *testing.T) {
		_, err := NewDocumentsDBHandler(db, 0, false)
		assert.Error(t, err, "Expected error when creating DocumentsDBHandler with zero dimension")
	})
}

func TestDocumentsInsert(t *testing.T) {
	db := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(db, testEmbeddingDim, true)
	require.NoError(t, err, "Expected NewDocumentsDBHandler to not return an error")

	t.Run("Insert document", func(t *testing.T) {
		doc := &model.Document{
			Content:   "Christoph Scheuch is a data consultant",
			Embedding: []float32{1, 0, 0},
			Metadata:  model.Metadata{"source": "about_page", "year": 2024},
		}

		err := documentsDbHandler.InsertDocument(doc)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEmpty(t, doc.RID, "Expected inserted document to have a RID")
		assert.NotZero(t, doc.ID, "Expected inserted document to have an ID")
		assert.WithinDuration(t, doc.CreatedAt, time.Now(), 2*time.Second, "Expected CreatedAt to be set")
		assert.Equal(t, "Christoph Scheuch is a data consultant", doc.Content, "Expected content to match")
		assert.Equal(t, []float32{1, 0, 0}, doc.Embedding, "Expected embedding to round-trip")

		// Cleanup
		documentsDbHandler.DeleteDocument(doc.RID)
	})

	t.Run("Insert with wrong dimension fails and writes nothing", func(t *testing.T) {
		countBefore, err := documentsDbHandler.CountDocuments()
		require.NoError(t, err)

		doc := &model.Document{
			Content:   "wrong dimensionality",
			Embedding: []float32{1, 0, 0, 0},
		}

		err = documentsDbHandler.InsertDocument(doc)
		require.Error(t, err, "Expected error for mismatched embedding length")
		assert.True(t, errors.Is(err, model.ErrDimensionMismatch), "Expected ErrDimensionMismatch")

		countAfter, err := documentsDbHandler.CountDocuments()
		require.NoError(t, err)
		assert.Equal(t, countBefore, countAfter, "Expected row count to be unchanged after failed insert")
	})
}

func TestDocumentsSelect(t *testing.T) {
	db := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(db, testEmbeddingDim, true)
	require.NoError(t, err)

	doc := &model.Document{
		Content:   "a stored passage",
		Embedding: []float32{0, 1, 0},
		Metadata:  model.Metadata{"source": "test"},
	}
	err = documentsDbHandler.InsertDocument(doc)
	require.NoError(t, err)

	t.Run("Select document by RID", func(t *testing.T) {
		retrieved, err := documentsDbHandler.SelectDocument(doc.RID)
		assert.NoError(t, err, "Expected Select to not return an error")
		require.NotNil(t, retrieved, "Expected Select to return a non-nil document")
		assert.Equal(t, doc.RID, retrieved.RID, "Expected document RIDs to match")
		assert.Equal(t, doc.Content, retrieved.Content, "Expected contents to match")
		assert.Equal(t, doc.Embedding, retrieved.Embedding, "Expected embeddings to match")
		assert.Equal(t, "test", retrieved.Metadata["source"])
	})

	t.Run("Select all documents with pagination", func(t *testing.T) {
		more := []*model.Document{
			{Content: "second", Embedding: []float32{0, 0, 1}},
			{Content: "third", Embedding: []float32{1, 1, 0}},
		}
		for _, m := range more {
			require.NoError(t, documentsDbHandler.InsertDocument(m))
		}

		all, err := documentsDbHandler.SelectAllDocuments(10, 0)
		assert.NoError(t, err)
		assert.GreaterOrEqual(t, len(all), 3, "Expected to retrieve at least the inserted documents")

		page, err := documentsDbHandler.SelectAllDocuments(2, 0)
		assert.NoError(t, err)
		assert.LessOrEqual(t, len(page), 2, "Expected at most the page length")

		for _, m := range more {
			documentsDbHandler.DeleteDocument(m.RID)
		}
	})

	t.Run("Delete document", func(t *testing.T) {
		err := documentsDbHandler.DeleteDocument(doc.RID)
		assert.NoError(t, err)

		_, err = documentsDbHandler.SelectDocument(doc.RID)
		assert.Error(t, err, "Expected deleted document to be gone")
	})
}

func TestDocumentsSelectBySimilarity(t *testing.T) {
	db := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(db, testEmbeddingDim, true)
	require.NoError(t, err)
	clearDocuments(t, documentsDbHandler)

	// Three documents at known angles to the query [1, 0, 0]:
	// exact match (similarity 1), close match (~0.894) and orthogonal (0)
	docs := []*model.Document{
		{Content: "exact", Embedding: []float32{1, 0, 0}},
		{Content: "close", Embedding: []float32{2, 1, 0}},
		{Content: "orthogonal", Embedding: []float32{0, 0, 1}},
	}
	for _, doc := range docs {
		require.NoError(t, documentsDbHandler.InsertDocument(doc))
	}
	t.Cleanup(func() {
		for _, doc := range docs {
			documentsDbHandler.DeleteDocument(doc.RID)
		}
	})

	query := []float32{1, 0, 0}

	t.Run("Self similarity is 1", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 1, 0.99)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "exact", results[0].Content)
		assert.InDelta(t, 1.0, results[0].Similarity, 0.001, "Expected cosine self-similarity of 1")
	})

	t.Run("Results are ordered by similarity descending", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 10, -1)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, "exact", results[0].Content)
		assert.Equal(t, "close", results[1].Content)
		assert.Equal(t, "orthogonal", results[2].Content)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity, "Expected descending similarity")
		}
	})

	t.Run("Threshold filters before ranking and limiting", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 10, 0.5)
		require.NoError(t, err)
		require.Len(t, results, 2, "Expected the orthogonal document to be filtered out")
		for _, result := range results {
			assert.GreaterOrEqual(t, result.Similarity, 0.5, "Expected no result below the threshold")
		}
	})

	t.Run("Limit caps the number of results", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 1, -1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "exact", results[0].Content)
	})

	t.Run("No match returns empty result, not an error", func(t *testing.T) {
		results, err := documentsDbHandler.SelectDocumentsBySimilarity([]float32{0, 1, 0}, 5, 0.999)
		assert.NoError(t, err, "Expected empty result to not be an error")
		assert.Empty(t, results)
	})

	t.Run("Identical queries return identical ordered results", func(t *testing.T) {
		first, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 10, -1)
		require.NoError(t, err)
		second, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 10, -1)
		require.NoError(t, err)

		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].RID, second[i].RID, "Expected stable ordering across identical queries")
		}
	})

	t.Run("Query with wrong dimension fails", func(t *testing.T) {
		_, err := documentsDbHandler.SelectDocumentsBySimilarity([]float32{1, 0}, 1, 0.5)
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrDimensionMismatch), "Expected ErrDimensionMismatch")
	})

	t.Run("Invalid limit and threshold are rejected", func(t *testing.T) {
		_, err := documentsDbHandler.SelectDocumentsBySimilarity(query, 0, 0.5)
		assert.Error(t, err, "Expected error for limit below 1")

		_, err = documentsDbHandler.SelectDocumentsBySimilarity(query, 1, 1.5)
		assert.Error(t, err, "Expected error for threshold above 1")
	})
}

func TestDocumentsCount(t *testing.T) {
	db := initDB(t)

	documentsDbHandler, err := NewDocumentsDBHandler(db, testEmbeddingDim, true)
	require.NoError(t, err)
	clearDocuments(t, documentsDbHandler)

	countBefore, err := documentsDbHandler.CountDocuments()
	require.NoError(t, err)

	doc := &model.Document{Content: "counted", Embedding: []float32{1, 0, 0}}
	require.NoError(t, documentsDbHandler.InsertDocument(doc))

	countAfter, err := documentsDbHandler.CountDocuments()
	require.NoError(t, err)
	assert.Equal(t, countBefore+1, countAfter)

	documentsDbHandler.DeleteDocument(doc.RID)
}
