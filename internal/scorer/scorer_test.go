package scorer

import (
	"context"
	"errors"
	"testing"

	"github.com/edurag/ragmark/internal/pkg/logger"
)

type fakeScorer struct {
	name     string
	probeErr error
	result   Result
	scored   int
}

func (f *fakeScorer) Name() string                { return f.name }
func (f *fakeScorer) Probe(context.Context) error { return f.probeErr }
func (f *fakeScorer) Score(context.Context, string, string) Result {
	f.scored++
	return f.result
}

func testLog() *logger.Logger {
	return logger.New("error", "text")
}

func TestRegistryUnprobedIsUnavailable(t *testing.T) {
	reg := NewRegistry(testLog(), &fakeScorer{name: "bertscore", result: Scored(nil)})

	res := reg.Score(context.Background(), "bertscore", "a", "b")
	if res.Status != StatusUnavailable {
		t.Errorf("Status = %v, want unavailable before probing", res.Status)
	}
}

func TestRegistryProbe(t *testing.T) {
	good := &fakeScorer{name: "bertscore", result: Scored(map[string]float64{"bertscore_f1": 0.9})}
	bad := &fakeScorer{name: "bleu", probeErr: errors.New("service down"), result: Scored(nil)}

	reg := NewRegistry(testLog(), good, bad)
	reg.Probe(context.Background())

	if !reg.Available("bertscore") {
		t.Error("bertscore unavailable after successful probe")
	}
	if reg.Available("bleu") {
		t.Error("bleu available despite failed probe")
	}

	res := reg.Score(context.Background(), "bertscore", "candidate", "reference")
	if res.Status != StatusScored {
		t.Fatalf("Status = %v, want scored", res.Status)
	}
	if res.Values["bertscore_f1"] != 0.9 {
		t.Errorf("bertscore_f1 = %v, want 0.9", res.Values["bertscore_f1"])
	}

	res = reg.Score(context.Background(), "bleu", "candidate", "reference")
	if res.Status != StatusUnavailable {
		t.Errorf("Status = %v, want unavailable", res.Status)
	}
	if bad.scored != 0 {
		t.Errorf("unavailable scorer invoked %d times", bad.scored)
	}
}

func TestRegistryUnknownScorer(t *testing.T) {
	reg := NewRegistry(testLog())
	reg.Probe(context.Background())

	if res := reg.Score(context.Background(), "nope", "a", "b"); res.Status != StatusUnavailable {
		t.Errorf("Status = %v, want unavailable for unknown scorer", res.Status)
	}
}

func TestRegistryFailedAttempt(t *testing.T) {
	failing := &fakeScorer{name: "rouge_l", result: Failed(errors.New("timeout"))}

	reg := NewRegistry(testLog(), failing)
	reg.Probe(context.Background())

	res := reg.Score(context.Background(), "rouge_l", "a", "b")
	if res.Status != StatusFailed {
		t.Errorf("Status = %v, want failed", res.Status)
	}
	if res.Err == nil {
		t.Error("Err is nil for a failed result")
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusScored, "scored"},
		{StatusUnavailable, "unavailable"},
		{StatusFailed, "failed"},
		{Status(42), "status(42)"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(tt.status), got, tt.want)
		}
	}
}
