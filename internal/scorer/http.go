package scorer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/edurag/ragmark/internal/pkg/errors"
)

const (
	// DefaultTimeout bounds one scoring request. BERTScore loads a model
	// server-side, so the first request can be slow.
	DefaultTimeout = 2 * time.Minute
)

// Client talks to an external NLG scoring service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// NewClient creates a scoring service client. baseURL must be non-empty.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// check verifies that the service can compute the named metric.
func (c *Client) check(ctx context.Context, metric string) error {
	url := fmt.Sprintf("%s/v1/score/%s/health", c.baseURL, metric)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return apperrors.ScorerError("building health request", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.ScorerError("scoring service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.ServiceUnavailableError(metric).
			WithDetail("status", resp.Status)
	}
	return nil
}

// score posts a scoring request and decodes the response into out.
func (c *Client) score(ctx context.Context, metric string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return apperrors.ScorerError("encoding score request", err)
	}

	url := fmt.Sprintf("%s/v1/score/%s", c.baseURL, metric)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return apperrors.ScorerError("building score request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.TimeoutError("scoring " + metric)
		}
		return apperrors.ScorerError("score request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.ScorerError(
			fmt.Sprintf("scoring service returned %s: %s", resp.Status, strings.TrimSpace(string(msg))), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ScorerError("decoding score response", err)
	}
	return nil
}

// scoreRequest is the common request body for all metrics.
type scoreRequest struct {
	Candidate string `json:"candidate"`
	Reference string `json:"reference"`
	Lang      string `json:"lang,omitempty"`
	Smoothing string `json:"smoothing,omitempty"`
	Stemmer   bool   `json:"use_stemmer,omitempty"`
}

// prfResponse is the precision/recall/F1 response shape shared by BERTScore
// and ROUGE-L.
type prfResponse struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// BERTScorer computes BERTScore via the scoring service.
type BERTScorer struct {
	client *Client
}

// NewBERTScorer creates a BERTScore scorer.
func NewBERTScorer(client *Client) *BERTScorer {
	return &BERTScorer{client: client}
}

// Name implements Scorer.
func (s *BERTScorer) Name() string { return NameBERTScore }

// Probe implements Scorer.
func (s *BERTScorer) Probe(ctx context.Context) error {
	return s.client.check(ctx, NameBERTScore)
}

// Score implements Scorer.
func (s *BERTScorer) Score(ctx context.Context, candidate, reference string) Result {
	var out prfResponse
	err := s.client.score(ctx, NameBERTScore, scoreRequest{
		Candidate: candidate,
		Reference: reference,
		Lang:      "en",
	}, &out)
	if err != nil {
		return Failed(err)
	}

	return Scored(map[string]float64{
		"bertscore_precision": out.Precision,
		"bertscore_recall":    out.Recall,
		"bertscore_f1":        out.F1,
	})
}

// RougeLScorer computes ROUGE-L (longest common subsequence overlap) via the
// scoring service.
type RougeLScorer struct {
	client *Client
}

// NewRougeLScorer creates a ROUGE-L scorer.
func NewRougeLScorer(client *Client) *RougeLScorer {
	return &RougeLScorer{client: client}
}

// Name implements Scorer.
func (s *RougeLScorer) Name() string { return NameRougeL }

// Probe implements Scorer.
func (s *RougeLScorer) Probe(ctx context.Context) error {
	return s.client.check(ctx, NameRougeL)
}

// Score implements Scorer.
func (s *RougeLScorer) Score(ctx context.Context, candidate, reference string) Result {
	var out prfResponse
	err := s.client.score(ctx, NameRougeL, scoreRequest{
		Candidate: candidate,
		Reference: reference,
		Stemmer:   true,
	}, &out)
	if err != nil {
		return Failed(err)
	}

	return Scored(map[string]float64{
		"rouge_l_precision": out.Precision,
		"rouge_l_recall":    out.Recall,
		"rouge_l_f1":        out.F1,
	})
}

// BLEUScorer computes a smoothed sentence BLEU via the scoring service.
type BLEUScorer struct {
	client *Client
}

// NewBLEUScorer creates a BLEU scorer.
func NewBLEUScorer(client *Client) *BLEUScorer {
	return &BLEUScorer{client: client}
}

// Name implements Scorer.
func (s *BLEUScorer) Name() string { return NameBLEU }

// Probe implements Scorer.
func (s *BLEUScorer) Probe(ctx context.Context) error {
	return s.client.check(ctx, NameBLEU)
}

// Score implements Scorer.
func (s *BLEUScorer) Score(ctx context.Context, candidate, reference string) Result {
	var out struct {
		Score float64 `json:"score"`
	}
	err := s.client.score(ctx, NameBLEU, scoreRequest{
		Candidate: candidate,
		Reference: reference,
		Smoothing: "method1",
	}, &out)
	if err != nil {
		return Failed(err)
	}

	return Scored(map[string]float64{
		"bleu": out.Score,
	})
}

// NewDefaultScorers builds the standard scorer set against one service
// client.
func NewDefaultScorers(client *Client) []Scorer {
	return []Scorer{
		NewBERTScorer(client),
		NewRougeLScorer(client),
		NewBLEUScorer(client),
	}
}
