// Package perf computes the model-performance reports the dashboard reads:
// outcome counts partitioned by filter dimension, outcome counts swept across
// postprocessing thresholds, and raw utterance counts per filter dimension.
package perf

import (
	"scrutiny/internal/outcome"

	"github.com/rotisserie/eris"
)

// SmartTagFamily names one behavioral tag family. Families are fixed at
// compile time; the tag vocabulary inside each family is configuration.
type SmartTagFamily string

const (
	FamilyExtremeLength      SmartTagFamily = "extreme_length"
	FamilyPartialSyntax      SmartTagFamily = "partial_syntax"
	FamilyDissimilar         SmartTagFamily = "dissimilar"
	FamilyAlmostCorrect      SmartTagFamily = "almost_correct"
	FamilyBehavioralTesting  SmartTagFamily = "behavioral_testing"
	FamilyPipelineComparison SmartTagFamily = "pipeline_comparison"
	FamilyUncertain          SmartTagFamily = "uncertain"
)

// SmartTagFamilies returns every family in display order.
func SmartTagFamilies() []SmartTagFamily {
	return []SmartTagFamily{
		FamilyExtremeLength,
		FamilyPartialSyntax,
		FamilyDissimilar,
		FamilyAlmostCorrect,
		FamilyBehavioralTesting,
		FamilyPipelineComparison,
		FamilyUncertain,
	}
}

// DatasetSmartTagFamilies returns the families whose tags depend only on the
// dataset, not on any pipeline's predictions. Utterance-count reports are
// restricted to these.
func DatasetSmartTagFamilies() []SmartTagFamily {
	return []SmartTagFamily{
		FamilyExtremeLength,
		FamilyPartialSyntax,
		FamilyDissimilar,
	}
}

// Reserved catch-all filter values for utterances matching no named tag in a
// dimension.
const (
	NoSmartTag = "NO_SMART_TAGS"
	NoAction   = "NO_ACTION"
)

// FilterSet is one tag dimension: the named filter values in display order
// plus the reserved catch-all for rows matching none of them.
type FilterSet struct {
	Values   []string
	CatchAll string
}

// All returns the named values followed by the catch-all.
func (f FilterSet) All() []string {
	return append(append([]string{}, f.Values...), f.CatchAll)
}

// Validate checks the catch-all contract.
func (f FilterSet) Validate() error {
	if f.CatchAll == "" {
		return eris.New("filter set must carry a catch-all value")
	}
	for _, v := range f.Values {
		if v == f.CatchAll {
			return eris.Errorf("catch-all %q must not appear among the named filter values", f.CatchAll)
		}
	}
	return nil
}

// CountPerFilterValue is one row of an outcome-count table: the outcome
// breakdown for a single filter value. OutcomeCount carries an entry for
// every outcome in the vocabulary, zero-filled, and UtteranceCount is their
// sum.
type CountPerFilterValue struct {
	FilterValue    string                  `json:"filter_value"`
	OutcomeCount   map[outcome.Outcome]int `json:"outcome_count"`
	UtteranceCount int                     `json:"utterance_count"`
}

func (v CountPerFilterValue) count() int    { return v.UtteranceCount }
func (v CountPerFilterValue) value() string { return v.FilterValue }

// CountPerFilter is the composite outcome-count report for one dataset
// split, one table per filter dimension.
type CountPerFilter struct {
	Label              []CountPerFilterValue `json:"label"`
	Prediction         []CountPerFilterValue `json:"prediction"`
	DataAction         []CountPerFilterValue `json:"data_action"`
	Outcome            []CountPerFilterValue `json:"outcome"`
	ExtremeLength      []CountPerFilterValue `json:"extreme_length"`
	PartialSyntax      []CountPerFilterValue `json:"partial_syntax"`
	Dissimilar         []CountPerFilterValue `json:"dissimilar"`
	AlmostCorrect      []CountPerFilterValue `json:"almost_correct"`
	BehavioralTesting  []CountPerFilterValue `json:"behavioral_testing"`
	PipelineComparison []CountPerFilterValue `json:"pipeline_comparison"`
	Uncertain          []CountPerFilterValue `json:"uncertain"`
}

func (c *CountPerFilter) setFamily(family SmartTagFamily, entries []CountPerFilterValue) {
	switch family {
	case FamilyExtremeLength:
		c.ExtremeLength = entries
	case FamilyPartialSyntax:
		c.PartialSyntax = entries
	case FamilyDissimilar:
		c.Dissimilar = entries
	case FamilyAlmostCorrect:
		c.AlmostCorrect = entries
	case FamilyBehavioralTesting:
		c.BehavioralTesting = entries
	case FamilyPipelineComparison:
		c.PipelineComparison = entries
	case FamilyUncertain:
		c.Uncertain = entries
	}
}

// OutcomeCountPerFilterResponse is the full-split outcome-count report.
type OutcomeCountPerFilterResponse struct {
	CountPerFilter CountPerFilter `json:"count_per_filter"`
	UtteranceCount int            `json:"utterance_count"`
}

// OutcomeCountPerThresholdValue is the outcome distribution observed at one
// sampled threshold. Outcomes absent at that threshold are omitted; callers
// read absent keys as zero.
type OutcomeCountPerThresholdValue struct {
	Threshold    float64                 `json:"threshold"`
	OutcomeCount map[outcome.Outcome]int `json:"outcome_count"`
}

// OutcomeCountPerThresholdResponse is the threshold-sweep report, one value
// per sampled threshold in ascending order.
type OutcomeCountPerThresholdResponse struct {
	OutcomeCountPerThreshold []OutcomeCountPerThresholdValue `json:"outcome_count_per_threshold"`
	ConfidenceThreshold      float64                         `json:"confidence_threshold"`
	UtteranceCount           int                             `json:"utterance_count"`
}

// UtteranceCountPerFilterValue is one row of a raw utterance-count table.
type UtteranceCountPerFilterValue struct {
	FilterValue    string `json:"filter_value"`
	UtteranceCount int    `json:"utterance_count"`
}

func (v UtteranceCountPerFilterValue) count() int    { return v.UtteranceCount }
func (v UtteranceCountPerFilterValue) value() string { return v.FilterValue }

// UtteranceCountPerFilter is the composite utterance-count report. Only
// dataset-scoped smart-tag families appear here; prediction-dependent
// families need a pipeline and belong to the outcome-count report.
type UtteranceCountPerFilter struct {
	Label         []UtteranceCountPerFilterValue `json:"label"`
	DataAction    []UtteranceCountPerFilterValue `json:"data_action"`
	ExtremeLength []UtteranceCountPerFilterValue `json:"extreme_length"`
	PartialSyntax []UtteranceCountPerFilterValue `json:"partial_syntax"`
	Dissimilar    []UtteranceCountPerFilterValue `json:"dissimilar"`
}

func (c *UtteranceCountPerFilter) setFamily(family SmartTagFamily, entries []UtteranceCountPerFilterValue) {
	switch family {
	case FamilyExtremeLength:
		c.ExtremeLength = entries
	case FamilyPartialSyntax:
		c.PartialSyntax = entries
	case FamilyDissimilar:
		c.Dissimilar = entries
	}
}

// UtteranceCountPerFilterResponse is the full-split utterance-count report.
type UtteranceCountPerFilterResponse struct {
	CountPerFilter UtteranceCountPerFilter `json:"count_per_filter"`
	UtteranceCount int                     `json:"utterance_count"`
}
