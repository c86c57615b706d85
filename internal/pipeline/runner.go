// Package pipeline re-runs the postprocessing stage of a configured
// inference pipeline at arbitrary thresholds and reports the resulting
// per-row outcomes. Raw model predictions are never recomputed here; they
// are read from the dataset snapshot.
package pipeline

import (
	"context"

	"scrutiny/internal/config"
	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"

	"github.com/rotisserie/eris"
)

// DefaultThreshold applies when a pipeline's threshold postprocessor does
// not set an explicit value.
const DefaultThreshold = 0.5

// Runner recomputes postprocessed outcomes for a dataset split.
type Runner struct {
	store     *dataset.SplitStore
	pipelines []config.Pipeline
}

// NewRunner creates a Runner over the given split snapshots and pipelines.
func NewRunner(store *dataset.SplitStore, pipelines []config.Pipeline) *Runner {
	return &Runner{store: store, pipelines: pipelines}
}

// NumPipelines returns how many pipelines are configured.
func (r *Runner) NumPipelines() int {
	return len(r.pipelines)
}

// Editable reports whether the pipeline at the given index exposes a tunable
// threshold postprocessor. Pipelines configured without postprocessors are
// fixed and cannot be swept.
func (r *Runner) Editable(pipelineIndex int) bool {
	if pipelineIndex < 0 || pipelineIndex >= len(r.pipelines) {
		return false
	}
	for _, pp := range r.pipelines[pipelineIndex].Postprocessors {
		if pp.Threshold != nil {
			return true
		}
	}
	return false
}

// ConfidenceThreshold returns the currently configured confidence threshold
// for the pipeline, or DefaultThreshold when none is set.
func (r *Runner) ConfidenceThreshold(pipelineIndex int) float64 {
	if pipelineIndex < 0 || pipelineIndex >= len(r.pipelines) {
		return DefaultThreshold
	}
	for _, pp := range r.pipelines[pipelineIndex].Postprocessors {
		if pp.Threshold != nil {
			return *pp.Threshold
		}
	}
	return DefaultThreshold
}

// OutcomesAt recomputes the postprocessed outcome of every row in the split
// with the given threshold substituted into the pipeline's postprocessing
// stage. A row keeps its top model prediction when its postprocessed
// confidence exceeds the threshold and falls back to the rejection class
// otherwise. Results are in row-index order.
func (r *Runner) OutcomesAt(ctx context.Context, split dataset.Split, pipelineIndex int, threshold float64) ([]outcome.Outcome, error) {
	if pipelineIndex < 0 || pipelineIndex >= len(r.pipelines) {
		return nil, eris.Errorf("pipeline index %d out of range (%d pipelines configured)", pipelineIndex, len(r.pipelines))
	}
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "outcome computation aborted")
	}

	rejection := r.store.RejectionClassIdx()
	rows := r.store.Utterances(split)
	outcomes := make([]outcome.Outcome, len(rows))
	for i, u := range rows {
		prediction := u.ModelPrediction
		if u.PostprocessedConfidence <= threshold {
			prediction = rejection
		}
		outcomes[i] = outcome.Resolve(prediction, u.Label, rejection)
	}
	return outcomes, nil
}
