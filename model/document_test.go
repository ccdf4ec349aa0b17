package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentFromFile(t *testing.T) {
	t.Run("Successfully reads file and creates document", func(t *testing.T) {
		// Create temporary file
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "test.txt")
		content := "This is test content"
		err := os.WriteFile(filePath, []byte(content), 0644)
		require.NoError(t, err)

		metadata := Metadata{"author": "test"}
		doc, err := NewDocumentFromFile(filePath, metadata)

		require.NoError(t, err)
		assert.Equal(t, content, doc.Content, "Content should match file content")
		assert.Equal(t, "test", doc.Metadata["author"])
		assert.Equal(t, filePath, doc.Metadata["source"], "Source path should be recorded in metadata")
	})

	t.Run("Returns error for non-existent file", func(t *testing.T) {
		doc, err := NewDocumentFromFile("/non/existent/file.txt", nil)

		require.Error(t, err)
		assert.Nil(t, doc)
	})

	t.Run("Nil metadata still records source", func(t *testing.T) {
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "note.txt")
		err := os.WriteFile(filePath, []byte("note"), 0644)
		require.NoError(t, err)

		doc, err := NewDocumentFromFile(filePath, nil)

		require.NoError(t, err)
		require.NotNil(t, doc.Metadata)
		assert.Equal(t, filePath, doc.Metadata["source"])
	})
}

func TestTexts(t *testing.T) {
	t.Run("Returns contents in ranked order", func(t *testing.T) {
		results := []*RetrievalResult{
			{Document: &Document{Content: "first"}, Similarity: 0.9},
			{Document: &Document{Content: "second"}, Similarity: 0.8},
		}

		texts := Texts(results)

		require.Len(t, texts, 2)
		assert.Equal(t, "first", texts[0])
		assert.Equal(t, "second", texts[1])
	})

	t.Run("Skips nil documents and handles empty input", func(t *testing.T) {
		assert.Empty(t, Texts(nil))
		assert.Empty(t, Texts([]*RetrievalResult{{Document: nil}}))
	})
}
