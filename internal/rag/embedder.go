package rag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/edurag/ragmark/internal/pkg/errors"
)

const (
	// DefaultEmbedModel is the default embedding model.
	DefaultEmbedModel = "nomic-embed-text"

	// DefaultEmbedTimeout bounds one embedding request.
	DefaultEmbedTimeout = 30 * time.Second
)

// OllamaEmbedder produces query embeddings via an Ollama-compatible
// embeddings endpoint.
type OllamaEmbedder struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// OllamaEmbedderConfig configures an OllamaEmbedder.
type OllamaEmbedderConfig struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string

	// Model is the embedding model name.
	Model string

	// HTTPClient optionally overrides the default client.
	HTTPClient *http.Client
}

// NewOllamaEmbedder creates an embedder with the given configuration.
func NewOllamaEmbedder(cfg OllamaEmbedderConfig) *OllamaEmbedder {
	model := cfg.Model
	if model == "" {
		model = DefaultEmbedModel
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultEmbedTimeout}
	}

	return &OllamaEmbedder{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		model:      model,
		httpClient: client,
	}
}

type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed implements Embedder.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, apperrors.RetrievalError("encoding embed request", err)
	}

	url := e.baseURL + "/api/embeddings"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.RetrievalError("building embed request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.RetrievalError("embed request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.RetrievalError(
			fmt.Sprintf("embeddings endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(msg))), nil)
	}

	var out embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, apperrors.RetrievalError("decoding embed response", err)
	}
	if len(out.Embedding) == 0 {
		return nil, apperrors.RetrievalError("embeddings endpoint returned an empty vector", nil)
	}

	vector := make([]float32, len(out.Embedding))
	for i, v := range out.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}
