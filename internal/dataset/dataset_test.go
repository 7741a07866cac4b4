package dataset

import (
	"strings"
	"testing"
)

func TestQueries(t *testing.T) {
	queries := Queries()

	if len(queries) != 15 {
		t.Fatalf("len(Queries()) = %d, want 15", len(queries))
	}

	seen := make(map[string]bool, len(queries))
	for _, q := range queries {
		if q.ID == "" || q.Text == "" || q.Category == "" {
			t.Errorf("query %+v has empty fields", q)
		}
		if seen[q.ID] {
			t.Errorf("duplicate query ID %s", q.ID)
		}
		seen[q.ID] = true
		if len(q.ExpectedTopics) == 0 {
			t.Errorf("query %s has no expected topics", q.ID)
		}
	}

	if queries[0].ID != "Q1" || queries[len(queries)-1].ID != "Q15" {
		t.Errorf("queries span %s..%s, want Q1..Q15", queries[0].ID, queries[len(queries)-1].ID)
	}
}

func TestQueriesReturnsCopy(t *testing.T) {
	first := Queries()
	first[0].Text = "mutated"

	if Queries()[0].Text == "mutated" {
		t.Error("Queries() exposes internal slice")
	}
}

func TestQueryByID(t *testing.T) {
	q, ok := QueryByID("Q3")
	if !ok {
		t.Fatal("QueryByID(Q3) not found")
	}
	if q.ID != "Q3" {
		t.Errorf("ID = %s, want Q3", q.ID)
	}

	if _, ok := QueryByID("Q99"); ok {
		t.Error("QueryByID(Q99) found, want miss")
	}
}

func TestQueriesByCategory(t *testing.T) {
	for _, q := range Queries() {
		matches := QueriesByCategory(q.Category)
		if len(matches) == 0 {
			t.Errorf("QueriesByCategory(%s) empty", q.Category)
		}
		for _, m := range matches {
			if m.Category != q.Category {
				t.Errorf("QueriesByCategory(%s) returned category %s", q.Category, m.Category)
			}
		}
	}
}

func TestReferenceAnswers(t *testing.T) {
	for _, q := range Queries() {
		ref := ReferenceAnswer(q.ID)
		if ref == "" {
			t.Errorf("no reference answer for %s", q.ID)
			continue
		}
		if !HasReferenceAnswer(q.ID) {
			t.Errorf("HasReferenceAnswer(%s) = false with non-empty answer", q.ID)
		}
		if len(strings.Fields(ref)) < 5 {
			t.Errorf("reference answer for %s suspiciously short: %q", q.ID, ref)
		}
	}

	if ReferenceAnswer("Q99") != "" {
		t.Error("ReferenceAnswer(Q99) non-empty, want empty")
	}
	if HasReferenceAnswer("Q99") {
		t.Error("HasReferenceAnswer(Q99) = true, want false")
	}
}
