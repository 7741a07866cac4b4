package evaluation

import (
	"fmt"
	"io"
	"strings"
)

// queryID returns the supplied ID for row i, or a positional fallback.
func queryID(queryIDs []string, i int) string {
	if i < len(queryIDs) {
		return queryIDs[i]
	}
	return fmt.Sprintf("Q%d", i+1)
}

// columnAverage is the mean of one metric over records where it is present
// and strictly positive. Unlike Aggregate, advanced metrics are not gated on
// the first record carrying them, so a run whose first query could not be
// scored still averages the queries that were.
func columnAverage(records []Record, metric string) float64 {
	sum, n := 0.0, 0
	for _, rec := range records {
		v, ok := rec[metric]
		if !ok || v <= 0 {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// WriteEvaluationTable renders the per-query core metrics followed by an
// AVERAGE row, in fixed-width columns.
func WriteEvaluationTable(w io.Writer, records []Record, queryIDs []string) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results to display.")
		return
	}

	rule := strings.Repeat("=", 100)
	sep := strings.Repeat("-", 100)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "EVALUATION RESULTS - RAG SYSTEM PERFORMANCE")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %-10s %-10s %-15s %-15s %-10s\n",
		"Query ID", "MRR", "Hit@10", "Faithfulness", "Relevancy", "Length")
	fmt.Fprintln(w, sep)

	for i, rec := range records {
		fmt.Fprintf(w, "%-12s %-10.4f %-10.4f %-15.4f %-15.4f %-10.0f\n",
			queryID(queryIDs, i),
			rec[MetricMRR],
			rec[MetricHitAt10],
			rec[MetricFaithfulness],
			rec[MetricRelevancy],
			rec[MetricResponseLength])
	}

	fmt.Fprintln(w, sep)

	agg := Aggregate(records, PolicySkipZeros)
	fmt.Fprintf(w, "%-12s %-10.4f %-10.4f %-15.4f %-15.4f %-10.0f\n",
		"AVERAGE",
		agg["avg_"+MetricMRR],
		agg["avg_"+MetricHitAt10],
		agg["avg_"+MetricFaithfulness],
		agg["avg_"+MetricRelevancy],
		agg["avg_"+MetricResponseLength])
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// WriteAdvancedTable renders the NLG metrics table. Records without advanced
// metrics produce a hint instead of an empty table.
func WriteAdvancedTable(w io.Writer, records []Record, queryIDs []string) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results to display.")
		return
	}

	hasAdvanced := false
	for _, rec := range records {
		if _, ok := rec[MetricBERTScoreF1]; ok {
			hasAdvanced = true
			break
		}
	}
	if !hasAdvanced {
		fmt.Fprintln(w, "No advanced metrics found. Run with --advanced to enable NLG scoring.")
		return
	}

	rule := strings.Repeat("=", 120)
	sep := strings.Repeat("-", 120)

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "ADVANCED METRICS - NLG EVALUATION")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-12s %-15s %-15s %-10s %-15s %-15s\n",
		"Query ID", "BERTScore F1", "ROUGE-L F1", "BLEU", "Faithfulness", "Relevancy")
	fmt.Fprintln(w, sep)

	for i, rec := range records {
		fmt.Fprintf(w, "%-12s %-15.4f %-15.4f %-10.4f %-15.4f %-15.4f\n",
			queryID(queryIDs, i),
			rec[MetricBERTScoreF1],
			rec[MetricRougeLF1],
			rec[MetricBLEU],
			rec[MetricFaithfulness],
			rec[MetricRelevancy])
	}

	fmt.Fprintln(w, sep)

	fmt.Fprintf(w, "%-12s %-15.4f %-15.4f %-10.4f %-15.4f %-15.4f\n",
		"AVERAGE",
		columnAverage(records, MetricBERTScoreF1),
		columnAverage(records, MetricRougeLF1),
		columnAverage(records, MetricBLEU),
		columnAverage(records, MetricFaithfulness),
		columnAverage(records, MetricRelevancy))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// WriteSummary renders the detailed statistics block and the interpretive
// buckets for faithfulness, relevancy and retrieval quality.
func WriteSummary(w io.Writer, aggregated map[string]float64, evaluated int, advanced bool) {
	rule := strings.Repeat("=", 100)

	fmt.Fprintln(w, "DETAILED STATISTICS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Number of queries evaluated: %d\n", evaluated)

	fmt.Fprintln(w, "\nRetrieval Metrics:")
	fmt.Fprintf(w, "  Average MRR:        %.4f ± %.4f\n",
		aggregated["avg_"+MetricMRR], aggregated["std_"+MetricMRR])
	fmt.Fprintf(w, "  Average Hit@10:     %.4f ± %.4f\n",
		aggregated["avg_"+MetricHitAt10], aggregated["std_"+MetricHitAt10])
	fmt.Fprintf(w, "  Average Hit@5:      %.4f ± %.4f\n",
		aggregated["avg_"+MetricHitAt5], aggregated["std_"+MetricHitAt5])

	fmt.Fprintln(w, "\nGeneration Metrics:")
	fmt.Fprintf(w, "  Average Faithfulness: %.4f ± %.4f\n",
		aggregated["avg_"+MetricFaithfulness], aggregated["std_"+MetricFaithfulness])
	fmt.Fprintf(w, "  Average Relevancy:    %.4f ± %.4f\n",
		aggregated["avg_"+MetricRelevancy], aggregated["std_"+MetricRelevancy])
	fmt.Fprintf(w, "  Average Response Length: %.0f ± %.0f words\n",
		aggregated["avg_"+MetricResponseLength], aggregated["std_"+MetricResponseLength])

	if advanced {
		fmt.Fprintln(w, "\nAdvanced NLG Metrics:")
		fmt.Fprintf(w, "  Average BERTScore F1: %.4f ± %.4f\n",
			aggregated["avg_"+MetricBERTScoreF1], aggregated["std_"+MetricBERTScoreF1])
		fmt.Fprintf(w, "  Average ROUGE-L F1:   %.4f ± %.4f\n",
			aggregated["avg_"+MetricRougeLF1], aggregated["std_"+MetricRougeLF1])
		fmt.Fprintf(w, "  Average BLEU:         %.4f ± %.4f\n",
			aggregated["avg_"+MetricBLEU], aggregated["std_"+MetricBLEU])
	}

	fmt.Fprintln(w, rule)

	fmt.Fprintln(w, "\nINTERPRETATION")
	fmt.Fprintln(w, rule)
	writeBucket(w, "FAITHFULNESS", aggregated["avg_"+MetricFaithfulness],
		"Responses are well-grounded in context",
		"Some responses may include unsupported information",
		"Responses may hallucinate or drift from context")
	writeBucket(w, "RELEVANCY", aggregated["avg_"+MetricRelevancy],
		"Responses address queries well",
		"Most responses address queries adequately",
		"Responses may not fully address queries")
	writeBucket(w, "RETRIEVAL", aggregated["avg_"+MetricMRR],
		"Relevant documents ranked highly",
		"Relevant documents usually found in top results",
		"Relevant documents may be missed or ranked low")
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

func writeBucket(w io.Writer, label string, value float64, excellent, good, poor string) {
	switch {
	case value >= 0.7:
		fmt.Fprintf(w, "✓ %s: Excellent - %s\n", label, excellent)
	case value >= 0.5:
		fmt.Fprintf(w, "⚠ %s: Good - %s\n", label, good)
	default:
		fmt.Fprintf(w, "✗ %s: Needs Improvement - %s\n", label, poor)
	}
}
