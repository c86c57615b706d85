// Package dataset provides the immutable dataset-split and tag snapshots the
// reporting core reads: per-row labels, predictions, confidences and computed
// outcomes, plus the boolean tag tables keyed by row index.
package dataset

import (
	"scrutiny/internal/outcome"

	"github.com/rotisserie/eris"
)

// Split names one dataset split.
type Split string

const (
	SplitTrain Split = "train"
	SplitEval  Split = "eval"
)

// ParseSplit validates a caller-supplied split name.
func ParseSplit(s string) (Split, error) {
	switch Split(s) {
	case SplitTrain, SplitEval:
		return Split(s), nil
	}
	return "", eris.Errorf("unknown dataset split %q (expected train or eval)", s)
}

// Utterance is one row of a dataset split. Rows are immutable for the
// duration of a report computation.
type Utterance struct {
	RowIdx                  int             `json:"row_idx"`
	Text                    string          `json:"text,omitempty"`
	Label                   int             `json:"label"`
	ModelPrediction         int             `json:"model_prediction"`
	PostprocessedPrediction int             `json:"postprocessed_prediction"`
	ModelConfidence         float64         `json:"model_confidence"`
	PostprocessedConfidence float64         `json:"postprocessed_confidence"`
	ModelOutcome            outcome.Outcome `json:"model_outcome"`
	PostprocessedOutcome    outcome.Outcome `json:"postprocessed_outcome"`
}

// TableKey identifies one tag table snapshot. The reporting core passes it
// through opaquely; a new key means a fresh tag snapshot.
type TableKey struct {
	Split         Split `json:"split"`
	PipelineIndex int   `json:"pipeline_index"`
}
