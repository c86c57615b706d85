package pipeline

import (
	"context"
	"testing"

	"scrutiny/internal/config"
	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"
)

func testRunner() *Runner {
	store := dataset.NewSplitStore([]string{"A", "B"}, "B")
	store.SetSplit(dataset.SplitEval, []dataset.Utterance{
		{RowIdx: 0, Label: 0, ModelPrediction: 0, PostprocessedConfidence: 0.2},
		{RowIdx: 1, Label: 0, ModelPrediction: 0, PostprocessedConfidence: 0.8},
		{RowIdx: 2, Label: 1, ModelPrediction: 0, PostprocessedConfidence: 0.4},
	})

	threshold := 0.7
	pipelines := []config.Pipeline{
		{Name: "default", Postprocessors: []config.Postprocessor{{Threshold: &threshold}}},
		{Name: "fixed", Postprocessors: nil},
	}
	return NewRunner(store, pipelines)
}

func TestRunner_Editable(t *testing.T) {
	r := testRunner()

	if !r.Editable(0) {
		t.Errorf("Pipeline 0 carries a threshold postprocessor and must be editable")
	}
	if r.Editable(1) {
		t.Errorf("Pipeline 1 has no postprocessors and must not be editable")
	}
	if r.Editable(5) || r.Editable(-1) {
		t.Errorf("Out-of-range pipeline indices must not be editable")
	}
}

func TestRunner_ConfidenceThreshold(t *testing.T) {
	r := testRunner()

	if got := r.ConfidenceThreshold(0); got != 0.7 {
		t.Errorf("Expected configured threshold 0.7, got %v", got)
	}
	if got := r.ConfidenceThreshold(1); got != DefaultThreshold {
		t.Errorf("Expected default threshold for fixed pipeline, got %v", got)
	}
}

func TestRunner_OutcomesAt(t *testing.T) {
	r := testRunner()

	// At threshold 0.5: row 0 (conf 0.2) and row 2 (conf 0.4) fall back to
	// the rejection class; row 1 keeps its model prediction.
	outcomes, err := r.OutcomesAt(context.Background(), dataset.SplitEval, 0, 0.5)
	if err != nil {
		t.Fatalf("OutcomesAt failed: %v", err)
	}

	want := []outcome.Outcome{
		outcome.IncorrectAndRejected, // label A, rejected
		outcome.CorrectAndPredicted,  // label A, predicted A
		outcome.CorrectAndRejected,   // label B (the rejection class), rejected
	}
	for i, w := range want {
		if outcomes[i] != w {
			t.Errorf("Row %d: expected %s, got %s", i, w, outcomes[i])
		}
	}
}

func TestRunner_OutcomesAtBounds(t *testing.T) {
	r := testRunner()

	if _, err := r.OutcomesAt(context.Background(), dataset.SplitEval, 9, 0.5); err == nil {
		t.Errorf("Expected error for out-of-range pipeline index")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.OutcomesAt(ctx, dataset.SplitEval, 0, 0.5); err == nil {
		t.Errorf("Expected error for cancelled context")
	}
}
