package perf

import (
	"testing"

	"scrutiny/internal/config"
	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"
	"scrutiny/internal/pipeline"
)

// Test fixtures use two classes [A, B] with B as the rejection class.
const testRejectionIdx = 1

func utt(idx, label, prediction, postprocessed int, confidence float64) dataset.Utterance {
	return dataset.Utterance{
		RowIdx:                  idx,
		Label:                   label,
		ModelPrediction:         prediction,
		PostprocessedPrediction: postprocessed,
		ModelConfidence:         confidence,
		PostprocessedConfidence: confidence,
		ModelOutcome:            outcome.Resolve(prediction, label, testRejectionIdx),
		PostprocessedOutcome:    outcome.Resolve(postprocessed, label, testRejectionIdx),
	}
}

func testPipelines() []config.Pipeline {
	threshold := 0.7
	temperature := 1.0
	return []config.Pipeline{
		{Name: "default", Postprocessors: []config.Postprocessor{{Temperature: &temperature}, {Threshold: &threshold}}},
		{Name: "fixed", Postprocessors: nil},
	}
}

// newTestReporter builds a reporter over an eval split with the given rows
// and tag table (keyed for pipeline 0).
func newTestReporter(t *testing.T, rows []dataset.Utterance, rowTags map[int]map[string]bool) *Reporter {
	t.Helper()

	store := dataset.NewSplitStore([]string{"A", "B"}, "B")
	store.SetSplit(dataset.SplitEval, rows)

	tags := dataset.NewTagStore()
	key := dataset.TableKey{Split: dataset.SplitEval, PipelineIndex: 0}
	for idx, tg := range rowTags {
		tags.Set(key, idx, tg)
	}

	runner := pipeline.NewRunner(store, testPipelines())
	r, err := NewReporter(store, tags, runner, Options{
		DataActions: []string{"relabel", "remove"},
		SmartTags: map[string][]string{
			"extreme_length": {"long_utterance", "short_utterance"},
		},
		XTicksCount: 10,
	})
	if err != nil {
		t.Fatalf("NewReporter failed: %v", err)
	}
	return r
}

func entryFor(t *testing.T, entries []CountPerFilterValue, filterValue string) CountPerFilterValue {
	t.Helper()
	for _, e := range entries {
		if e.FilterValue == filterValue {
			return e
		}
	}
	t.Fatalf("No entry for filter value %q in %+v", filterValue, entries)
	return CountPerFilterValue{}
}
