package perf

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"

	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"
)

func TestLinspace(t *testing.T) {
	cases := []struct {
		n    int
		want []float64
	}{
		{2, []float64{0, 1}},
		{3, []float64{0, 0.5, 1}},
		{5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}

	for _, tc := range cases {
		got := linspace(tc.n)
		if len(got) != tc.n {
			t.Fatalf("linspace(%d): expected %d samples, got %d", tc.n, tc.n, len(got))
		}
		for i := range got {
			if math.Abs(got[i]-tc.want[i]) > 1e-9 {
				t.Errorf("linspace(%d)[%d] = %v, want %v", tc.n, i, got[i], tc.want[i])
			}
		}
		if got[0] != 0 || got[tc.n-1] != 1 {
			t.Errorf("linspace(%d) must span [0,1] inclusive, got %v", tc.n, got)
		}
	}
}

func sweepRows() []dataset.Utterance {
	// Three rows, all labeled A with correct raw predictions, whose
	// postprocessed confidences straddle the sampled thresholds.
	return []dataset.Utterance{
		utt(0, 0, 0, 0, 0.3),
		utt(1, 0, 0, 0, 0.6),
		utt(2, 0, 0, 0, 0.9),
	}
}

func TestOutcomeCountPerThreshold_Sweep(t *testing.T) {
	r := newTestReporter(t, sweepRows(), nil)

	res, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 0, 3)
	if err != nil {
		t.Fatalf("OutcomeCountPerThreshold failed: %v", err)
	}

	values := res.OutcomeCountPerThreshold
	if len(values) != 3 {
		t.Fatalf("Expected 3 sampled thresholds, got %d", len(values))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Threshold >= values[i].Threshold {
			t.Errorf("Thresholds not in ascending order: %v then %v", values[i-1].Threshold, values[i].Threshold)
		}
	}

	// th=0: every confidence clears it; th=0.5 rejects the 0.3 row;
	// th=1 rejects everything.
	if got := values[0].OutcomeCount[outcome.CorrectAndPredicted]; got != 3 {
		t.Errorf("At threshold 0: expected 3 CorrectAndPredicted, got %d", got)
	}
	if got := values[1].OutcomeCount[outcome.CorrectAndPredicted]; got != 2 {
		t.Errorf("At threshold 0.5: expected 2 CorrectAndPredicted, got %d", got)
	}
	if got := values[1].OutcomeCount[outcome.IncorrectAndRejected]; got != 1 {
		t.Errorf("At threshold 0.5: expected 1 IncorrectAndRejected, got %d", got)
	}
	if got := values[2].OutcomeCount[outcome.IncorrectAndRejected]; got != 3 {
		t.Errorf("At threshold 1: expected 3 IncorrectAndRejected, got %d", got)
	}

	if res.ConfidenceThreshold != 0.7 {
		t.Errorf("Expected configured confidence threshold 0.7, got %v", res.ConfidenceThreshold)
	}
	if res.UtteranceCount != 3 {
		t.Errorf("Expected 3 utterances, got %d", res.UtteranceCount)
	}
}

func TestOutcomeCountPerThreshold_NotEditable(t *testing.T) {
	r := newTestReporter(t, sweepRows(), nil)

	// Pipeline 1 is configured without postprocessors.
	res, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 1, 3)
	if err == nil {
		t.Fatalf("Expected error for non-editable pipeline")
	}
	if !errors.Is(err, ErrNotEditable) {
		t.Errorf("Expected ErrNotEditable, got %v", err)
	}
	if res != nil {
		t.Errorf("Expected no partial result, got %+v", res)
	}
}

func TestOutcomeCountPerThreshold_TickCount(t *testing.T) {
	r := newTestReporter(t, sweepRows(), nil)

	// ticks <= 0 falls back to the configured default.
	res, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 0, 0)
	if err != nil {
		t.Fatalf("OutcomeCountPerThreshold failed: %v", err)
	}
	if len(res.OutcomeCountPerThreshold) != 10 {
		t.Errorf("Expected 10 default ticks, got %d", len(res.OutcomeCountPerThreshold))
	}

	if _, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 0, 1); err == nil {
		t.Errorf("Expected error for tick count below 2")
	}
}

func TestOutcomeCountPerThreshold_Idempotent(t *testing.T) {
	r := newTestReporter(t, sweepRows(), nil)

	first, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 0, 5)
	if err != nil {
		t.Fatalf("OutcomeCountPerThreshold failed: %v", err)
	}
	second, err := r.OutcomeCountPerThreshold(context.Background(), dataset.SplitEval, 0, 5)
	if err != nil {
		t.Fatalf("OutcomeCountPerThreshold failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Repeated sweep over the same snapshot differs")
	}
}
