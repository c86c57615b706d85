package perf

import (
	"context"

	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds the number of in-flight outcome recomputations.
const sweepConcurrency = 4

// ErrNotEditable is returned when a threshold sweep targets a pipeline whose
// postprocessing stage is fixed.
var ErrNotEditable = eris.New("postprocessing is not editable")

// OutcomeCountPerThreshold re-runs the outcome computation at evenly spaced
// thresholds across [0, 1] and reports the postprocessed-outcome distribution
// at each one, in ascending threshold order. ticks <= 0 selects the
// configured default. The iterations are independent pure computations over
// the same snapshot, so they run concurrently; results keep sample order.
func (r *Reporter) OutcomeCountPerThreshold(ctx context.Context, split dataset.Split, pipelineIndex, ticks int) (*OutcomeCountPerThresholdResponse, error) {
	if !r.runner.Editable(pipelineIndex) {
		return nil, eris.Wrapf(ErrNotEditable, "pipeline %d", pipelineIndex)
	}
	if ticks <= 0 {
		ticks = r.ticks
	}
	if ticks < 2 {
		return nil, eris.Errorf("threshold sweep needs at least 2 ticks, got %d", ticks)
	}

	thresholds := linspace(ticks)
	values := make([]OutcomeCountPerThresholdValue, len(thresholds))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for i, th := range thresholds {
		g.Go(func() error {
			outcomes, err := r.runner.OutcomesAt(ctx, split, pipelineIndex, th)
			if err != nil {
				return eris.Wrapf(err, "outcome computation failed at threshold %.3f", th)
			}
			freq := make(map[outcome.Outcome]int)
			for _, o := range outcomes {
				freq[o]++
			}
			values[i] = OutcomeCountPerThresholdValue{Threshold: th, OutcomeCount: freq}
			log.Debug().
				Str("split", string(split)).
				Int("pipeline", pipelineIndex).
				Float64("threshold", th).
				Msg("Threshold sweep tick computed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &OutcomeCountPerThresholdResponse{
		OutcomeCountPerThreshold: values,
		ConfidenceThreshold:      r.runner.ConfidenceThreshold(pipelineIndex),
		UtteranceCount:           r.store.NumRows(split),
	}, nil
}

// linspace samples n evenly spaced values spanning [0, 1] inclusive.
func linspace(n int) []float64 {
	samples := make([]float64, n)
	step := 1.0 / float64(n-1)
	for i := range samples {
		samples[i] = float64(i) * step
	}
	samples[n-1] = 1 // guard the upper endpoint against rounding drift
	return samples
}
