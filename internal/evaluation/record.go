package evaluation

import (
	"context"
	"math"

	"github.com/edurag/ragmark/internal/scorer"
)

// QueryInput bundles everything needed to score one query-response pair.
type QueryInput struct {
	// Query is the user question.
	Query string

	// Response is the generated answer.
	Response string

	// Context holds the passages the generator was grounded on.
	Context []string

	// Retrieved is the full ranked retrieval list with relevance flags.
	Retrieved []RetrievalResult

	// Reference is an optional reference answer for NLG metrics.
	Reference string

	// Advanced requests BERTScore, ROUGE-L and BLEU when a reference is
	// present.
	Advanced bool
}

// EvaluateSingleQuery computes the metric record for one query. Advanced
// metrics are merged only when the registry actually produced a score, so an
// unavailable or failed scorer leaves no key in the record rather than a
// zero that would be indistinguishable from a genuine zero score.
func EvaluateSingleQuery(ctx context.Context, in QueryInput, scorers *scorer.Registry) Record {
	rec := Record{
		MetricMRR:            MRR(in.Retrieved),
		MetricHitAt10:        HitAtK(in.Retrieved, 10),
		MetricHitAt5:         HitAtK(in.Retrieved, 5),
		MetricFaithfulness:   Faithfulness(in.Response, in.Context),
		MetricRelevancy:      Relevancy(in.Query, in.Response),
		MetricResponseLength: float64(ResponseLength(in.Response)),
	}

	if !in.Advanced || in.Reference == "" || scorers == nil {
		return rec
	}

	if res := scorers.Score(ctx, scorer.NameBERTScore, in.Response, in.Reference); res.Status == scorer.StatusScored {
		rec[MetricBERTScoreF1] = res.Values["bertscore_f1"]
	}
	if res := scorers.Score(ctx, scorer.NameRougeL, in.Response, in.Reference); res.Status == scorer.StatusScored {
		rec[MetricRougeLF1] = res.Values["rouge_l_f1"]
	}
	if res := scorers.Score(ctx, scorer.NameBLEU, in.Response, in.Reference); res.Status == scorer.StatusScored {
		rec[MetricBLEU] = res.Values["bleu"]
	}

	return rec
}

// AggregatePolicy selects which values qualify for aggregation.
type AggregatePolicy int

const (
	// PolicySkipZeros averages only strictly positive values. This is the
	// historical behaviour: it was meant to exclude "metric unavailable"
	// placeholders, but it also drops legitimate zero scores and so biases
	// averages upward. Kept as the default for comparability with
	// previously reported numbers.
	PolicySkipZeros AggregatePolicy = iota

	// PolicyIncludeZeros averages every present value. With typed scorer
	// results unavailable metrics never enter a record, so zeros under
	// this policy are always genuine scores.
	PolicyIncludeZeros
)

// Aggregate reduces records to per-metric mean and population standard
// deviation, keyed "avg_<metric>" and "std_<metric>". Metrics with no
// qualifying values emit no entry; an empty record list yields an empty map.
// Advanced metrics are aggregated only when the first record carries
// bertscore_f1.
func Aggregate(records []Record, policy AggregatePolicy) map[string]float64 {
	if len(records) == 0 {
		return map[string]float64{}
	}

	metrics := coreMetrics
	if _, ok := records[0][MetricBERTScoreF1]; ok {
		metrics = append(append([]string{}, coreMetrics...), advancedMetrics...)
	}

	aggregated := make(map[string]float64)
	for _, metric := range metrics {
		var values []float64
		for _, rec := range records {
			v, ok := rec[metric]
			if !ok {
				continue
			}
			if policy == PolicySkipZeros && v <= 0 {
				continue
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			continue
		}
		aggregated["avg_"+metric] = mean(values)
		aggregated["std_"+metric] = stddev(values)
	}

	return aggregated
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation.
func stddev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
