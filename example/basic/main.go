package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/retriever"
	"github.com/siherrmann/retriever/core/provider"
	"github.com/siherrmann/retriever/helper"
	"github.com/siherrmann/retriever/model"
)

var samplePassages = []string{
	"Christoph Scheuch is a data consultant who writes about comparing data science libraries across languages.",
	"pgvector adds vector similarity search to PostgreSQL, including HNSW and IVFFlat indexes.",
	"Sakura trees bloom across Japan in early spring, drawing visitors to parks and riversides.",
}

func main() {
	// Start a test PostgreSQL container
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(context.Background())

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	// Local embedder, no API key needed (downloads the model on first run)
	embedder, err := provider.NewLocalEmbedder()
	if err != nil {
		log.Fatalf("Failed to create embedder: %v", err)
	}
	defer embedder.Close()

	r, err := retriever.NewRetriever(dbConfig, embedder)
	if err != nil {
		log.Fatalf("Failed to create retriever: %v", err)
	}
	defer r.Close()

	ctx := context.Background()

	fmt.Println("Indexing passages...")
	for _, passage := range samplePassages {
		doc, err := r.IndexText(ctx, passage, model.Metadata{"source": "example"})
		if err != nil {
			log.Fatalf("Failed to index passage: %v", err)
		}
		fmt.Printf("Indexed document %s\n", doc.RID)
	}

	queryText := "Who is Christoph Scheuch?"
	fmt.Printf("\nQuerying: %s\n", queryText)

	config := model.DefaultQueryConfig()
	config.TopK = 3
	config.SimilarityThreshold = 0.3

	results, err := r.Retrieve(ctx, queryText, &config)
	if err != nil {
		log.Fatalf("Failed to retrieve: %v", err)
	}

	fmt.Printf("\nFound %d results:\n", len(results))
	for i, result := range results {
		fmt.Printf("\n--- Result %d ---\n", i+1)
		fmt.Printf("Similarity: %.4f\n", result.Similarity)
		fmt.Printf("Content: %s\n", result.Document.Content)
	}

	// Show the prompt that would be sent to a language model
	prompt := r.Augment(queryText, results)
	fmt.Printf("\nAugmented prompt:\n%s\n", prompt)

	fmt.Println("\nBasic example completed successfully!")
}
