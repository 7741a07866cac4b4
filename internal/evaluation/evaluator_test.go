package evaluation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edurag/ragmark/internal/bus"
	"github.com/edurag/ragmark/internal/dataset"
	"github.com/edurag/ragmark/internal/history"
	"github.com/edurag/ragmark/internal/pkg/logger"
	"github.com/edurag/ragmark/internal/rag"
)

// fakeRetriever returns canned documents, failing for query IDs in failFor.
type fakeRetriever struct {
	docs    []rag.Document
	failFor map[string]bool
	calls   int
}

func (f *fakeRetriever) SimilaritySearchWithScore(_ context.Context, query string, k int) ([]rag.Document, error) {
	f.calls++
	if f.failFor[query] {
		return nil, errors.New("retrieval down")
	}
	if k > len(f.docs) {
		k = len(f.docs)
	}
	return f.docs[:k], nil
}

type fakeGenerator struct {
	response string
	err      error
}

func (f *fakeGenerator) Generate(context.Context, string, []rag.Document) (string, error) {
	return f.response, f.err
}

func physicsDocs(n int) []rag.Document {
	docs := make([]rag.Document, n)
	for i := range docs {
		docs[i] = rag.Document{
			ID:      string(rune('a' + i)),
			Content: "Quantum entanglement links particle states across any distance.",
			Score:   1.0 - float64(i)*0.05,
		}
	}
	return docs
}

func testQueriesSubset(t *testing.T, ids ...string) []dataset.Query {
	t.Helper()
	queries := make([]dataset.Query, 0, len(ids))
	for _, id := range ids {
		q, ok := dataset.QueryByID(id)
		if !ok {
			t.Fatalf("unknown query id %s", id)
		}
		queries = append(queries, q)
	}
	return queries
}

func TestEvaluatorRun(t *testing.T) {
	retriever := &fakeRetriever{docs: physicsDocs(10)}
	generator := &fakeGenerator{response: "Quantum entanglement links the states of particles across any distance."}

	ev := NewEvaluator(retriever, generator, nil, nil, nil, logger.New("error", "text"), DefaultOptions())

	queries := testQueriesSubset(t, "Q1", "Q2")
	result, err := ev.Run(context.Background(), queries, false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Evaluated != 2 {
		t.Errorf("Evaluated = %d, want 2", result.Evaluated)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}
	if len(result.Records) != 2 {
		t.Fatalf("len(Records) = %d, want 2", len(result.Records))
	}
	if result.QueryIDs[0] != "Q1" || result.QueryIDs[1] != "Q2" {
		t.Errorf("QueryIDs = %v, want [Q1 Q2]", result.QueryIDs)
	}

	// Top-N proxy labeling puts a relevant document at rank 1.
	if got := result.Records[0][MetricMRR]; got != 1.0 {
		t.Errorf("mrr = %v, want 1.0", got)
	}

	if _, ok := result.Aggregates["avg_mrr"]; !ok {
		t.Error("Aggregates missing avg_mrr")
	}
}

func TestEvaluatorRunSkipsFailedQueries(t *testing.T) {
	q1, _ := dataset.QueryByID("Q1")
	retriever := &fakeRetriever{
		docs:    physicsDocs(10),
		failFor: map[string]bool{q1.Text: true},
	}
	generator := &fakeGenerator{response: "An answer about physics topics."}

	ev := NewEvaluator(retriever, generator, nil, nil, nil, logger.New("error", "text"), DefaultOptions())

	result, err := ev.Run(context.Background(), testQueriesSubset(t, "Q1", "Q2"), false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.Failed != 1 {
		t.Errorf("Failed = %d, want 1", result.Failed)
	}
	if result.Evaluated != 1 {
		t.Errorf("Evaluated = %d, want 1", result.Evaluated)
	}
	if len(result.QueryIDs) != 1 || result.QueryIDs[0] != "Q2" {
		t.Errorf("QueryIDs = %v, want [Q2]", result.QueryIDs)
	}
}

func TestEvaluatorRunCancellation(t *testing.T) {
	retriever := &fakeRetriever{docs: physicsDocs(10)}
	generator := &fakeGenerator{response: "An answer."}

	ev := NewEvaluator(retriever, generator, nil, nil, nil, logger.New("error", "text"), DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := ev.Run(ctx, dataset.Queries(), false); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if retriever.calls != 0 {
		t.Errorf("retriever called %d times after cancellation, want 0", retriever.calls)
	}
}

func TestEvaluatorRunPublishesEvents(t *testing.T) {
	log := logger.New("error", "text")
	events := bus.NewMemoryBus(log)
	defer events.Close()

	var mu sync.Mutex
	var seen []string
	record := func(topic string) func(context.Context, bus.Event) error {
		return func(context.Context, bus.Event) error {
			mu.Lock()
			seen = append(seen, topic)
			mu.Unlock()
			return nil
		}
	}
	ctx := context.Background()
	for _, topic := range []string{bus.TopicRunStarted, bus.TopicQueryScored, bus.TopicRunCompleted} {
		if err := events.Subscribe(ctx, topic, record(topic)); err != nil {
			t.Fatalf("Subscribe(%s) error = %v", topic, err)
		}
	}

	retriever := &fakeRetriever{docs: physicsDocs(10)}
	generator := &fakeGenerator{response: "An answer about physics."}
	runs := history.NewMemoryStore()

	ev := NewEvaluator(retriever, generator, nil, events, runs, log, DefaultOptions())

	result, err := ev.Run(ctx, testQueriesSubset(t, "Q1"), false)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !events.DrainTimeout(time.Second) {
		t.Fatal("bus did not drain")
	}

	counts := map[string]int{}
	for _, topic := range seen {
		counts[topic]++
	}
	if counts[bus.TopicRunStarted] != 1 {
		t.Errorf("run started events = %d, want 1", counts[bus.TopicRunStarted])
	}
	if counts[bus.TopicQueryScored] != 1 {
		t.Errorf("query scored events = %d, want 1", counts[bus.TopicQueryScored])
	}
	if counts[bus.TopicRunCompleted] != 1 {
		t.Errorf("run completed events = %d, want 1", counts[bus.TopicRunCompleted])
	}

	points, err := runs.LoadMetric(ctx, "avg_mrr", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("LoadMetric() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("history points = %d, want 1", len(points))
	}
	if points[0].RunID != result.RunID {
		t.Errorf("history run id = %s, want %s", points[0].RunID, result.RunID)
	}
}
