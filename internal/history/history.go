// Package history persists per-run aggregate statistics so successive
// evaluation runs can be compared over time.
package history

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/edurag/ragmark/internal/pkg/errors"
)

// Point is one historical observation of a metric.
type Point struct {
	At    time.Time `json:"at"`
	RunID string    `json:"run_id"`
	Value float64   `json:"value"`
}

// Store records run aggregates and serves them back as time series.
type Store interface {
	// SaveRun persists the aggregate statistics of one evaluation run.
	SaveRun(ctx context.Context, runID string, at time.Time, aggregates map[string]float64) error

	// LoadMetric returns the observations of one aggregate metric since
	// the given time, oldest first.
	LoadMetric(ctx context.Context, metric string, since time.Time) ([]Point, error)

	// Close releases resources.
	Close() error
}

// Config holds history storage settings.
type Config struct {
	Type     string // "memory" or "redis"
	RedisURL string
}

// New creates a Store based on configuration.
func New(cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Type) {
	case "memory", "":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.RedisURL)
	default:
		return nil, errors.New(errors.CodeValidation, fmt.Sprintf("unknown history store type: %s", cfg.Type))
	}
}

// MemoryStore keeps run history in process memory. Useful for one-off runs
// and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	points map[string][]Point
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		points: make(map[string][]Point),
	}
}

// SaveRun implements Store.
func (s *MemoryStore) SaveRun(ctx context.Context, runID string, at time.Time, aggregates map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for metric, value := range aggregates {
		s.points[metric] = append(s.points[metric], Point{At: at, RunID: runID, Value: value})
	}
	return nil
}

// LoadMetric implements Store.
func (s *MemoryStore) LoadMetric(ctx context.Context, metric string, since time.Time) ([]Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Point
	for _, p := range s.points[metric] {
		if !p.At.Before(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}

// RecordBusPublish implements bus.PublishRecorder, keeping bus publish
// latency alongside run metrics.
func (s *MemoryStore) RecordBusPublish(topic string, latencyMs int64, err error) {
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points["bus_publish_ms"] = append(s.points["bus_publish_ms"], Point{
		At:    time.Now(),
		Value: float64(latencyMs),
	})
}
