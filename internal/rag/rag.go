// Package rag defines the client surface of the external retrieval and
// generation collaborator being evaluated. The harness only consumes these
// interfaces; retrieval and generation themselves live in the external
// system.
package rag

import "context"

// Document is one retrieved passage with its similarity score.
type Document struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Retriever performs similarity search over the collaborator's vector store.
type Retriever interface {
	// SimilaritySearchWithScore returns the top k documents for a query,
	// most similar first.
	SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]Document, error)
}

// Generator produces a grounded answer for a query from retrieved documents.
type Generator interface {
	Generate(ctx context.Context, query string, docs []Document) (string, error)
}

// Embedder converts text into a dense vector for similarity search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
