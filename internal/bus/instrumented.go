package bus

import (
	"context"
	"time"
)

// PublishRecorder receives publish latency observations. This is an
// interface to avoid coupling the bus to any particular sink; the run
// history store implements it.
type PublishRecorder interface {
	RecordBusPublish(topic string, latencyMs int64, err error)
}

// InstrumentedBus wraps a Bus implementation and records publish latency.
type InstrumentedBus struct {
	inner    Bus
	recorder PublishRecorder
}

// NewInstrumentedBus creates a bus wrapper that records metrics.
func NewInstrumentedBus(inner Bus, recorder PublishRecorder) *InstrumentedBus {
	return &InstrumentedBus{
		inner:    inner,
		recorder: recorder,
	}
}

// Publish publishes an event to a topic and records latency.
func (b *InstrumentedBus) Publish(ctx context.Context, topic string, event Event) error {
	start := time.Now()
	err := b.inner.Publish(ctx, topic, event)
	latencyMs := time.Since(start).Milliseconds()

	if b.recorder != nil {
		b.recorder.RecordBusPublish(topic, latencyMs, err)
	}

	return err
}

// Subscribe subscribes to events on a topic.
func (b *InstrumentedBus) Subscribe(ctx context.Context, topic string, handler Handler) error {
	return b.inner.Subscribe(ctx, topic, handler)
}

// Close closes the underlying bus.
func (b *InstrumentedBus) Close() error {
	return b.inner.Close()
}
