package model

// RetrievalResult represents a document retrieved by a query
type RetrievalResult struct {
	Document   *Document `json:"document"`
	Similarity float64   `json:"similarity"` // Cosine similarity score
}

// Texts returns the contents of all retrieved documents in ranked order
func Texts(results []*RetrievalResult) []string {
	texts := make([]string, 0, len(results))
	for _, result := range results {
		if result.Document != nil {
			texts = append(texts, result.Document.Content)
		}
	}
	return texts
}
