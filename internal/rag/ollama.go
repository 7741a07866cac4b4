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

	"golang.org/x/time/rate"

	apperrors "github.com/edurag/ragmark/internal/pkg/errors"
)

const (
	// DefaultOllamaBaseURL is the default Ollama API endpoint.
	DefaultOllamaBaseURL = "http://localhost:11434"

	// DefaultGenerateModel is the default generation model.
	DefaultGenerateModel = "llama3.2"

	// DefaultGenerateTimeout bounds one generation request. Generation is
	// slow; this is deliberately long.
	DefaultGenerateTimeout = 5 * time.Minute

	// defaultTemperature keeps answers factual rather than creative.
	defaultTemperature = 0.3
)

// answerPromptTemplate grounds the model on the retrieved passages.
const answerPromptTemplate = `Answer the question using only the context below. If the context does not contain the answer, say so.

Context:
%s

Question: %s

Answer:`

// OllamaGeneratorConfig configures the generator client.
type OllamaGeneratorConfig struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string

	// Model is the generation model name.
	Model string

	// SystemPrompt optionally overrides the model's system instructions.
	SystemPrompt string

	// RequestsPerSecond rate-limits generation calls; 0 disables limiting.
	RequestsPerSecond float64

	// HTTPClient optionally overrides the default client.
	HTTPClient *http.Client
}

// OllamaGenerator produces grounded answers via an Ollama-compatible
// generate endpoint.
type OllamaGenerator struct {
	baseURL      string
	model        string
	systemPrompt string
	httpClient   *http.Client
	limiter      *rate.Limiter
}

// NewOllamaGenerator creates a generator client.
func NewOllamaGenerator(cfg OllamaGeneratorConfig) *OllamaGenerator {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOllamaBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGenerateModel
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: DefaultGenerateTimeout}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &OllamaGenerator{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		model:        model,
		systemPrompt: cfg.SystemPrompt,
		httpClient:   client,
		limiter:      limiter,
	}
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	System  string         `json:"system,omitempty"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Generate implements Generator.
func (g *OllamaGenerator) Generate(ctx context.Context, query string, docs []Document) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", apperrors.GenerationError("rate limiter wait", err)
		}
	}

	passages := make([]string, 0, len(docs))
	for _, doc := range docs {
		passages = append(passages, doc.Content)
	}
	prompt := fmt.Sprintf(answerPromptTemplate, strings.Join(passages, "\n\n---\n\n"), query)

	body, err := json.Marshal(generateRequest{
		Model:  g.model,
		Prompt: prompt,
		System: g.systemPrompt,
		Stream: false,
		Options: map[string]any{
			"temperature": defaultTemperature,
		},
	})
	if err != nil {
		return "", apperrors.GenerationError("encoding generate request", err)
	}

	url := g.baseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.GenerationError("building generate request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", apperrors.GenerationError("generate request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperrors.GenerationError(
			fmt.Sprintf("generate endpoint returned %s: %s", resp.Status, strings.TrimSpace(string(msg))), nil)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.GenerationError("decoding generate response", err)
	}

	return strings.TrimSpace(out.Response), nil
}
