package model

import "fmt"

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	// TopK is the maximum number of documents returned.
	TopK int `json:"top_k"`
	// SimilarityThreshold is the minimum cosine similarity a document
	// must reach to be returned. Cosine similarity lies in [-1, 1].
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
}

// DefaultQueryConfig returns a sensible default configuration.
// The defaults favour precision over recall: irrelevant context harms
// downstream generation more than omitting marginally relevant context.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                1,
		SimilarityThreshold: 0.7,
	}
}

// Validate checks that the configuration is usable for a query
func (c *QueryConfig) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("top_k must be at least 1, got %d", c.TopK)
	}
	if c.SimilarityThreshold < -1 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [-1, 1], got %f", c.SimilarityThreshold)
	}
	return nil
}
