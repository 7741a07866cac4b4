package main

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/edurag/ragmark/internal/bus"
)

func TestStreamEvents(t *testing.T) {
	b := bus.NewMemoryBus(nil)
	defer b.Close()

	var sb strings.Builder
	topics := []string{bus.TopicRunStarted, bus.TopicRunCompleted}
	if err := streamEvents(context.Background(), b, &sb, topics); err != nil {
		t.Fatalf("streamEvents() error = %v", err)
	}

	ctx := context.Background()
	if err := b.Publish(ctx, bus.TopicRunStarted, bus.NewEvent(bus.TopicRunStarted, "run-1", nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := b.Publish(ctx, bus.TopicQueryScored, bus.NewEvent(bus.TopicQueryScored, "run-1", nil)); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if !b.DrainTimeout(time.Second) {
		t.Fatal("bus did not drain in time")
	}

	got := sb.String()
	if !strings.Contains(got, bus.TopicRunStarted) {
		t.Errorf("output missing %s event: %q", bus.TopicRunStarted, got)
	}
	if !strings.Contains(got, `"run_id":"run-1"`) {
		t.Errorf("output missing run id: %q", got)
	}
	if strings.Contains(got, bus.TopicQueryScored) {
		t.Errorf("received event on unsubscribed topic: %q", got)
	}
}

func TestStreamEventsClosedBus(t *testing.T) {
	b := bus.NewMemoryBus(nil)
	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	err := streamEvents(context.Background(), b, io.Discard, []string{bus.TopicRunStarted})
	if err == nil {
		t.Error("streamEvents() on closed bus: expected error")
	}
}
