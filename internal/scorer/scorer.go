// Package scorer provides clients for optional NLG metrics (BERTScore,
// ROUGE-L, BLEU) computed by an external scoring service. Availability is
// probed once at startup and cached; a metric that cannot be scored reports
// a typed Unavailable or Failed result instead of a zero value, so
// aggregation can tell "could not score" apart from a genuine zero.
package scorer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/edurag/ragmark/internal/pkg/logger"
)

// Scorer names.
const (
	NameBERTScore = "bertscore"
	NameRougeL    = "rouge_l"
	NameBLEU      = "bleu"
)

// Status classifies the outcome of a scoring attempt.
type Status int

const (
	// StatusScored means Values holds genuine scores.
	StatusScored Status = iota

	// StatusUnavailable means the scorer is not configured or failed its
	// startup probe; no scoring was attempted.
	StatusUnavailable

	// StatusFailed means the scorer was available but this attempt failed.
	StatusFailed
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusScored:
		return "scored"
	case StatusUnavailable:
		return "unavailable"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the typed outcome of one scoring attempt.
type Result struct {
	Status Status
	Values map[string]float64
	Err    error
}

// Scored constructs a successful result.
func Scored(values map[string]float64) Result {
	return Result{Status: StatusScored, Values: values}
}

// Unavailable constructs a result for a scorer that cannot run.
func Unavailable() Result {
	return Result{Status: StatusUnavailable}
}

// Failed constructs a result for a scoring attempt that errored.
func Failed(err error) Result {
	return Result{Status: StatusFailed, Err: err}
}

// Scorer computes one NLG metric for a candidate text against a reference.
type Scorer interface {
	// Name identifies the scorer (e.g. "bertscore").
	Name() string

	// Probe checks whether the backing computation is available.
	Probe(ctx context.Context) error

	// Score computes the metric. Implementations return Failed rather than
	// propagating transport errors.
	Score(ctx context.Context, candidate, reference string) Result
}

// Registry holds the configured scorers and their probed availability.
type Registry struct {
	mu        sync.RWMutex
	scorers   map[string]Scorer
	available map[string]bool
	log       *logger.Logger
}

// NewRegistry creates a registry over the given scorers. All scorers start
// out unavailable until Probe runs.
func NewRegistry(log *logger.Logger, scorers ...Scorer) *Registry {
	r := &Registry{
		scorers:   make(map[string]Scorer, len(scorers)),
		available: make(map[string]bool, len(scorers)),
		log:       log,
	}
	for _, s := range scorers {
		r.scorers[s.Name()] = s
	}
	return r
}

// Probe checks every registered scorer concurrently and caches the results.
// A failed probe marks the scorer unavailable; it is logged, not returned.
func (r *Registry) Probe(ctx context.Context) {
	g, ctx := errgroup.WithContext(ctx)

	for name, s := range r.scorers {
		g.Go(func() error {
			err := s.Probe(ctx)

			r.mu.Lock()
			r.available[name] = err == nil
			r.mu.Unlock()

			if err != nil {
				r.log.WithScorer(name).WithError(err).Warn("scorer unavailable, metric will be skipped")
			} else {
				r.log.WithScorer(name).Debug("scorer available")
			}
			return nil
		})
	}

	_ = g.Wait()
}

// Available reports whether a scorer passed its probe.
func (r *Registry) Available(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.available[name]
}

// Score runs the named scorer if it probed available. Unknown or unavailable
// scorers yield Unavailable; runtime failures yield Failed and are logged.
func (r *Registry) Score(ctx context.Context, name, candidate, reference string) Result {
	r.mu.RLock()
	s, ok := r.scorers[name]
	avail := r.available[name]
	r.mu.RUnlock()

	if !ok || !avail {
		return Unavailable()
	}

	res := s.Score(ctx, candidate, reference)
	if res.Status == StatusFailed {
		r.log.WithScorer(name).WithError(res.Err).Warn("scoring attempt failed")
	}
	return res
}
