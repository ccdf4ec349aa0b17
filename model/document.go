package model

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// Document represents an indexed text passage with its embedding.
// Documents are immutable after insertion; the embedding is computed
// once when the document is indexed.
type Document struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Content   string    `json:"content"`
	Embedding []float32 `json:"embedding,omitempty"`
	Metadata  Metadata  `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	// Results
	Similarity float64 `json:"similarity,omitempty"`
}

// NewDocumentFromFile reads a file and creates a Document with the file content.
// The source path is recorded in the metadata under "source".
func NewDocumentFromFile(filePath string, metadata Metadata) (*Document, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	if metadata == nil {
		metadata = Metadata{}
	}
	metadata["source"] = filePath

	return &Document{
		Content:  string(content),
		Metadata: metadata,
	}, nil
}
