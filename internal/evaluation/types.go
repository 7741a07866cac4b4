package evaluation

// RetrievalResult is one retrieved item in ranked order (rank = position + 1).
type RetrievalResult struct {
	Content    string  `json:"content"`
	Score      float64 `json:"score,omitempty"`
	IsRelevant bool    `json:"is_relevant"`
}

// Metric names used as Record keys. They match the names reported in the
// evaluation tables.
const (
	MetricMRR            = "mrr"
	MetricHitAt10        = "hit@10"
	MetricHitAt5         = "hit@5"
	MetricFaithfulness   = "faithfulness"
	MetricRelevancy      = "relevancy"
	MetricResponseLength = "response_length"
	MetricBERTScoreF1    = "bertscore_f1"
	MetricRougeLF1       = "rouge_l_f1"
	MetricBLEU           = "bleu"
)

// Record maps metric name to value for a single evaluated query. Ratio-style
// metrics lie in [0, 1]; response_length is a non-negative word count.
type Record map[string]float64

// coreMetrics are computed for every query.
var coreMetrics = []string{
	MetricMRR,
	MetricHitAt10,
	MetricHitAt5,
	MetricFaithfulness,
	MetricRelevancy,
	MetricResponseLength,
}

// advancedMetrics are merged in only when a reference answer is available
// and the external scoring service produced a value.
var advancedMetrics = []string{
	MetricBERTScoreF1,
	MetricRougeLF1,
	MetricBLEU,
}

// RunResult is the outcome of evaluating a batch of queries.
type RunResult struct {
	RunID      string             `json:"run_id"`
	QueryIDs   []string           `json:"query_ids"`
	Records    []Record           `json:"records"`
	Aggregates map[string]float64 `json:"aggregates"`
	Evaluated  int                `json:"evaluated"`
	Failed     int                `json:"failed"`
	Advanced   bool               `json:"advanced"`
}
