package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "ragmark:history:"

	// defaultRetention is how long run history is kept.
	defaultRetention = 90 * 24 * time.Hour
)

// RedisStore persists run history to Redis sorted sets, one per metric, with
// the run time as score for efficient range queries.
type RedisStore struct {
	client    *redis.Client
	retention time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &RedisStore{
		client:    client,
		retention: defaultRetention,
	}, nil
}

// SaveRun implements Store. One pipeline saves every aggregate and trims
// entries older than the retention window.
func (s *RedisStore) SaveRun(ctx context.Context, runID string, at time.Time, aggregates map[string]float64) error {
	pipe := s.client.Pipeline()
	score := float64(at.Unix())
	minScore := fmt.Sprintf("%d", time.Now().Add(-s.retention).Unix())

	for metric, value := range aggregates {
		key := keyPrefix + metric
		pipe.ZAdd(ctx, key, redis.Z{
			Score: score,
			// Run ID keeps members unique across runs with equal values.
			Member: fmt.Sprintf("%s|%.6f", runID, value),
		})
		pipe.ZRemRangeByScore(ctx, key, "-inf", minScore)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving run history: %w", err)
	}
	return nil
}

// LoadMetric implements Store.
func (s *RedisStore) LoadMetric(ctx context.Context, metric string, since time.Time) ([]Point, error) {
	key := keyPrefix + metric

	results, err := s.client.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", since.Unix()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	points := make([]Point, 0, len(results))
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		runID, valueStr, found := strings.Cut(member, "|")
		if !found {
			continue
		}
		value, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			continue
		}
		points = append(points, Point{
			At:    time.Unix(int64(z.Score), 0),
			RunID: runID,
			Value: value,
		})
	}

	return points, nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// RecordBusPublish implements bus.PublishRecorder. Persisted asynchronously
// so a slow Redis never blocks a publish.
func (s *RedisStore) RecordBusPublish(topic string, latencyMs int64, err error) {
	if err != nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		key := keyPrefix + "bus_publish_ms"
		now := time.Now()
		_ = s.client.ZAdd(ctx, key, redis.Z{
			Score: float64(now.Unix()),
			// Nanosecond suffix keeps members unique per observation.
			Member: fmt.Sprintf("%s-%d|%d", topic, now.UnixNano(), latencyMs),
		}).Err()
	}()
}
