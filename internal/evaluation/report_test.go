package evaluation

import (
	"strings"
	"testing"
)

func TestWriteEvaluationTable(t *testing.T) {
	records := []Record{
		{MetricMRR: 1.0, MetricHitAt10: 1.0, MetricHitAt5: 1.0, MetricFaithfulness: 0.8, MetricRelevancy: 0.9, MetricResponseLength: 42},
		{MetricMRR: 0.5, MetricHitAt10: 1.0, MetricHitAt5: 0.0, MetricFaithfulness: 0.6, MetricRelevancy: 0.7, MetricResponseLength: 30},
	}

	var sb strings.Builder
	WriteEvaluationTable(&sb, records, []string{"Q1", "Q2"})
	out := sb.String()

	for _, want := range []string{
		"EVALUATION RESULTS - RAG SYSTEM PERFORMANCE",
		"Query ID",
		"Q1",
		"Q2",
		"AVERAGE",
		"1.0000",
		"0.7500", // average MRR
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteEvaluationTableEmpty(t *testing.T) {
	var sb strings.Builder
	WriteEvaluationTable(&sb, nil, nil)

	if got := sb.String(); !strings.Contains(got, "No results to display.") {
		t.Errorf("empty table output = %q, want placeholder", got)
	}
}

func TestWriteEvaluationTablePositionalIDs(t *testing.T) {
	records := []Record{{MetricMRR: 1.0}}

	var sb strings.Builder
	WriteEvaluationTable(&sb, records, nil)

	if !strings.Contains(sb.String(), "Q1") {
		t.Errorf("table output missing positional Q1 fallback:\n%s", sb.String())
	}
}

func TestWriteAdvancedTableWithoutAdvancedMetrics(t *testing.T) {
	records := []Record{{MetricMRR: 1.0}}

	var sb strings.Builder
	WriteAdvancedTable(&sb, records, []string{"Q1"})

	if got := sb.String(); !strings.Contains(got, "Run with --advanced") {
		t.Errorf("advanced table output = %q, want hint", got)
	}
}

func TestWriteAdvancedTable(t *testing.T) {
	records := []Record{
		{MetricBERTScoreF1: 0.85, MetricRougeLF1: 0.4, MetricBLEU: 0.1, MetricFaithfulness: 0.8, MetricRelevancy: 0.9},
	}

	var sb strings.Builder
	WriteAdvancedTable(&sb, records, []string{"Q1"})
	out := sb.String()

	for _, want := range []string{"ADVANCED METRICS - NLG EVALUATION", "BERTScore F1", "0.8500", "AVERAGE"} {
		if !strings.Contains(out, want) {
			t.Errorf("advanced table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteAdvancedTableFirstRecordUnscored(t *testing.T) {
	// The first query's scorers failed, so its record carries no advanced
	// keys. The AVERAGE row must still average the queries that were scored.
	records := []Record{
		{MetricMRR: 1.0, MetricFaithfulness: 0.7, MetricRelevancy: 0.7},
		{MetricMRR: 0.5, MetricFaithfulness: 0.7, MetricRelevancy: 0.7,
			MetricBERTScoreF1: 0.8, MetricRougeLF1: 0.4, MetricBLEU: 0.1},
	}

	var sb strings.Builder
	WriteAdvancedTable(&sb, records, []string{"Q1", "Q2"})

	var avgLine string
	for _, line := range strings.Split(sb.String(), "\n") {
		if strings.HasPrefix(line, "AVERAGE") {
			avgLine = line
		}
	}
	if avgLine == "" {
		t.Fatalf("no AVERAGE row in output:\n%s", sb.String())
	}

	for _, want := range []string{"0.8000", "0.4000", "0.1000"} {
		if !strings.Contains(avgLine, want) {
			t.Errorf("AVERAGE row missing %q: %q", want, avgLine)
		}
	}
}

func TestWriteSummaryInterpretation(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"excellent", 0.8, "✓ FAITHFULNESS: Excellent"},
		{"boundary excellent", 0.7, "✓ FAITHFULNESS: Excellent"},
		{"good", 0.6, "⚠ FAITHFULNESS: Good"},
		{"boundary good", 0.5, "⚠ FAITHFULNESS: Good"},
		{"poor", 0.3, "✗ FAITHFULNESS: Needs Improvement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := map[string]float64{"avg_" + MetricFaithfulness: tt.value}

			var sb strings.Builder
			WriteSummary(&sb, agg, 5, false)

			if !strings.Contains(sb.String(), tt.want) {
				t.Errorf("summary missing %q for value %v", tt.want, tt.value)
			}
		})
	}
}

func TestWriteSummaryAdvancedSection(t *testing.T) {
	agg := map[string]float64{"avg_" + MetricBERTScoreF1: 0.8}

	var sb strings.Builder
	WriteSummary(&sb, agg, 15, true)
	if !strings.Contains(sb.String(), "Advanced NLG Metrics") {
		t.Error("summary missing advanced section with advanced=true")
	}

	sb.Reset()
	WriteSummary(&sb, agg, 15, false)
	if strings.Contains(sb.String(), "Advanced NLG Metrics") {
		t.Error("summary contains advanced section with advanced=false")
	}
}
