package history

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSaveAndLoad(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	aggs := map[string]float64{"avg_mrr": 0.8, "avg_faithfulness": 0.7}
	if err := s.SaveRun(ctx, "run-1", base, aggs); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}
	if err := s.SaveRun(ctx, "run-2", base.Add(time.Minute), map[string]float64{"avg_mrr": 0.9}); err != nil {
		t.Fatalf("SaveRun() error = %v", err)
	}

	points, err := s.LoadMetric(ctx, "avg_mrr", base.Add(-time.Minute))
	if err != nil {
		t.Fatalf("LoadMetric() error = %v", err)
	}

	if len(points) != 2 {
		t.Fatalf("points = %d, want 2", len(points))
	}
	// Oldest first.
	if points[0].RunID != "run-1" || points[1].RunID != "run-2" {
		t.Errorf("order = [%s %s], want [run-1 run-2]", points[0].RunID, points[1].RunID)
	}
	if points[0].Value != 0.8 || points[1].Value != 0.9 {
		t.Errorf("values = [%v %v], want [0.8 0.9]", points[0].Value, points[1].Value)
	}
}

func TestMemoryStoreSinceFilter(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)
	recent := time.Now().Add(-time.Minute)

	_ = s.SaveRun(ctx, "run-old", old, map[string]float64{"avg_mrr": 0.5})
	_ = s.SaveRun(ctx, "run-new", recent, map[string]float64{"avg_mrr": 0.9})

	points, err := s.LoadMetric(ctx, "avg_mrr", time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("LoadMetric() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].RunID != "run-new" {
		t.Errorf("RunID = %s, want run-new", points[0].RunID)
	}
}

func TestMemoryStoreUnknownMetric(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	points, err := s.LoadMetric(context.Background(), "avg_nothing", time.Time{})
	if err != nil {
		t.Fatalf("LoadMetric() error = %v", err)
	}
	if len(points) != 0 {
		t.Errorf("points = %d, want 0", len(points))
	}
}

func TestMemoryStoreRecordBusPublish(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	s.RecordBusPublish("eval.run.started", 12, nil)

	points, err := s.LoadMetric(context.Background(), "bus_publish_ms", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("LoadMetric() error = %v", err)
	}
	if len(points) != 1 {
		t.Fatalf("points = %d, want 1", len(points))
	}
	if points[0].Value != 12 {
		t.Errorf("latency = %v, want 12", points[0].Value)
	}
}

func TestFactory(t *testing.T) {
	s, err := New(Config{Type: "memory"})
	if err != nil {
		t.Fatalf("New(memory) error = %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Errorf("New(memory) = %T, want *MemoryStore", s)
	}
	s.Close()

	s, err = New(Config{})
	if err != nil {
		t.Fatalf("New(default) error = %v", err)
	}
	s.Close()

	if _, err := New(Config{Type: "papyrus"}); err == nil {
		t.Error("New(papyrus) = nil error, want validation error")
	}
}
