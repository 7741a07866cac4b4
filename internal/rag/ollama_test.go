package rag

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaEmbedder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("path = %s, want /api/embeddings", r.URL.Path)
		}

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %s, want nomic-embed-text", req.Model)
		}
		if req.Prompt != "what is gravity" {
			t.Errorf("prompt = %q", req.Prompt)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"embedding": []float64{0.1, 0.2, 0.3},
		})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEmbedderConfig{BaseURL: srv.URL})

	vector, err := e.Embed(context.Background(), "what is gravity")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 3 {
		t.Fatalf("len(vector) = %d, want 3", len(vector))
	}
	if vector[1] != float32(0.2) {
		t.Errorf("vector[1] = %v, want 0.2", vector[1])
	}
}

func TestOllamaEmbedderEmptyVector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": []float64{}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEmbedderConfig{BaseURL: srv.URL})

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("Embed() = nil error for empty vector, want error")
	}
}

func TestOllamaEmbedderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder(OllamaEmbedderConfig{BaseURL: srv.URL})

	if _, err := e.Embed(context.Background(), "text"); err == nil {
		t.Error("Embed() = nil error for 404, want error")
	}
}

func TestOllamaGenerator(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s, want /api/generate", r.URL.Path)
		}

		var req struct {
			Model   string         `json:"model"`
			Prompt  string         `json:"prompt"`
			Stream  bool           `json:"stream"`
			Options map[string]any `json:"options"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		if temp, ok := req.Options["temperature"].(float64); !ok || temp != 0.3 {
			t.Errorf("temperature = %v, want 0.3", req.Options["temperature"])
		}
		gotPrompt = req.Prompt

		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "  Gravity attracts masses.  \n",
			"done":     true,
		})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaGeneratorConfig{BaseURL: srv.URL, Model: "llama3.1"})

	docs := []Document{
		{ID: "1", Content: "first passage"},
		{ID: "2", Content: "second passage"},
	}
	answer, err := g.Generate(context.Background(), "What is gravity?", docs)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if answer != "Gravity attracts masses." {
		t.Errorf("answer = %q, want trimmed response", answer)
	}

	// The prompt grounds the model in the passages and repeats the question.
	if !strings.Contains(gotPrompt, "first passage") || !strings.Contains(gotPrompt, "second passage") {
		t.Errorf("prompt missing passages:\n%s", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "What is gravity?") {
		t.Errorf("prompt missing question:\n%s", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "---") {
		t.Errorf("prompt missing passage separator:\n%s", gotPrompt)
	}
}

func TestOllamaGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaGeneratorConfig{BaseURL: srv.URL})

	if _, err := g.Generate(context.Background(), "q", nil); err == nil {
		t.Error("Generate() = nil error for 503, want error")
	}
}

func TestOllamaGeneratorRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
	}))
	defer srv.Close()

	g := NewOllamaGenerator(OllamaGeneratorConfig{BaseURL: srv.URL, RequestsPerSecond: 100})

	// A cancelled context fails the limiter wait before any request is made.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx, "q", nil); err == nil {
		t.Error("Generate() = nil error with cancelled context, want error")
	}

	if _, err := g.Generate(context.Background(), "q", nil); err != nil {
		t.Errorf("Generate() error = %v, want nil", err)
	}
}
