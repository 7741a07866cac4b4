package rag

import (
	"context"
	"strconv"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	apperrors "github.com/edurag/ragmark/internal/pkg/errors"
)

const (
	// DefaultQdrantPort is the Qdrant gRPC port.
	DefaultQdrantPort = 6334

	// DefaultSearchTimeout bounds one similarity search.
	DefaultSearchTimeout = 30 * time.Second
)

// QdrantRetrieverConfig configures the Qdrant-backed retriever.
type QdrantRetrieverConfig struct {
	// Host is the Qdrant server host.
	Host string

	// Port is the Qdrant gRPC port.
	Port int

	// APIKey for authentication (optional).
	APIKey string

	// UseTLS enables TLS connection.
	UseTLS bool

	// Collection is the collection to search.
	Collection string

	// Timeout for search operations.
	Timeout time.Duration

	// RequestsPerSecond rate-limits calls against the collaborator;
	// 0 disables limiting.
	RequestsPerSecond float64
}

// QdrantRetriever embeds the query and performs dense similarity search
// against a Qdrant collection.
type QdrantRetriever struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
	timeout    time.Duration
	limiter    *rate.Limiter
}

// NewQdrantRetriever creates a retriever over the given collection.
func NewQdrantRetriever(cfg QdrantRetrieverConfig, embedder Embedder) (*QdrantRetriever, error) {
	if cfg.Collection == "" {
		return nil, apperrors.ValidationError("qdrant collection cannot be empty")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultQdrantPort
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultSearchTimeout
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
		GrpcOptions: []grpc.DialOption{
			grpc.WithUserAgent("ragmark"),
		},
	})
	if err != nil {
		return nil, apperrors.RetrievalError("creating qdrant client", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &QdrantRetriever{
		client:     client,
		embedder:   embedder,
		collection: cfg.Collection,
		timeout:    cfg.Timeout,
		limiter:    limiter,
	}, nil
}

// Close releases the underlying gRPC connection.
func (r *QdrantRetriever) Close() error {
	return r.client.Close()
}

// SimilaritySearchWithScore implements Retriever.
func (r *QdrantRetriever) SimilaritySearchWithScore(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		return nil, apperrors.ValidationError("k must be positive")
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, apperrors.RetrievalError("rate limiter wait", err)
		}
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, apperrors.RetrievalError("similarity search failed", err)
	}

	docs := make([]Document, 0, len(points))
	for _, point := range points {
		doc := Document{
			Score: float64(point.Score),
		}

		switch id := point.Id.GetPointIdOptions().(type) {
		case *qdrant.PointId_Uuid:
			doc.ID = id.Uuid
		case *qdrant.PointId_Num:
			doc.ID = strconv.FormatUint(id.Num, 10)
		}

		if payload := point.Payload; payload != nil {
			if content, ok := payload["content"]; ok {
				doc.Content = content.GetStringValue()
			}
		}

		docs = append(docs, doc)
	}

	return docs, nil
}
