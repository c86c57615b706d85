package perf

import (
	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"

	"github.com/rotisserie/eris"
)

// outcomeOf selects which outcome column of a row a report reads.
type outcomeOf func(dataset.Utterance) outcome.Outcome

func outcomeColumn(withoutPostprocessing bool) outcomeOf {
	if withoutPostprocessing {
		return func(u dataset.Utterance) outcome.Outcome { return u.ModelOutcome }
	}
	return func(u dataset.Utterance) outcome.Outcome { return u.PostprocessedOutcome }
}

// OutcomeCountPerFilter assembles the composite outcome-count report for one
// dataset split: label, prediction, data-action and outcome breakdowns plus
// one breakdown per smart-tag family. Any sub-builder failure fails the whole
// report; no partial result is returned.
func (r *Reporter) OutcomeCountPerFilter(split dataset.Split, pipelineIndex int, withoutPostprocessing bool) (*OutcomeCountPerFilterResponse, error) {
	rows := r.store.Utterances(split)
	key := dataset.TableKey{Split: split, PipelineIndex: pipelineIndex}
	col := outcomeColumn(withoutPostprocessing)

	result := CountPerFilter{
		Label:      r.outcomeCountPerClass(rows, func(u dataset.Utterance) int { return u.Label }, col),
		Prediction: r.outcomeCountPerClass(rows, func(u dataset.Utterance) int { return u.PostprocessedPrediction }, col),
		Outcome:    r.outcomeCountPerOutcome(rows, col),
	}

	dataAction, err := r.outcomeCountPerTag(key, rows, r.dataActions, col)
	if err != nil {
		return nil, eris.Wrap(err, "data-action breakdown failed")
	}
	result.DataAction = dataAction

	for _, family := range SmartTagFamilies() {
		entries, err := r.outcomeCountPerTag(key, rows, r.smartTags[family], col)
		if err != nil {
			return nil, eris.Wrapf(err, "smart-tag breakdown failed for family %s", family)
		}
		result.setFamily(family, entries)
	}

	return &OutcomeCountPerFilterResponse{
		CountPerFilter: result,
		UtteranceCount: len(rows),
	}, nil
}

// outcomeCountPerClass partitions rows by a class-valued column (label or
// postprocessed prediction) and counts outcomes per class name. The
// rejection class entry is forced last regardless of its count.
func (r *Reporter) outcomeCountPerClass(rows []dataset.Utterance, classOf func(dataset.Utterance) int, col outcomeOf) []CountPerFilterValue {
	counts := make(map[filterOutcome]int)
	for _, u := range rows {
		counts[filterOutcome{filter: r.store.ClassName(classOf(u)), out: col(u)}]++
	}
	entries := outcomeCountsFor(counts, r.classFilterValues(), r.vocab)
	return sortedByCountWithLast(entries, r.store.RejectionClass())
}

// outcomeCountPerTag partitions rows by a tag dimension. A row contributes
// one count per true named tag; a row with no true named tag contributes
// exactly one count to the catch-all. The catch-all entry is forced last.
func (r *Reporter) outcomeCountPerTag(key dataset.TableKey, rows []dataset.Utterance, filters FilterSet, col outcomeOf) ([]CountPerFilterValue, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	tagsByRow := r.tags.Tags(key, rowIndices(rows))
	counts := make(map[filterOutcome]int)
	for _, u := range rows {
		rowTags := tagsByRow[u.RowIdx]
		tagged := false
		for _, name := range filters.Values {
			if rowTags[name] {
				counts[filterOutcome{filter: name, out: col(u)}]++
				tagged = true
			}
		}
		if !tagged {
			counts[filterOutcome{filter: filters.CatchAll, out: col(u)}]++
		}
	}

	entries := outcomeCountsFor(counts, filters.All(), r.vocab)
	return sortedByCountWithLast(entries, filters.CatchAll), nil
}

// outcomeCountPerOutcome counts rows by outcome alone. Each entry's
// outcome-count map carries only its own outcome (all others zero) and there
// is no forced-last entry: every outcome is a first-class filter value.
func (r *Reporter) outcomeCountPerOutcome(rows []dataset.Utterance, col outcomeOf) []CountPerFilterValue {
	freq := make(map[outcome.Outcome]int, len(r.vocab))
	for _, u := range rows {
		freq[col(u)]++
	}

	entries := make([]CountPerFilterValue, 0, len(r.vocab))
	for _, o := range r.vocab {
		outcomeCount := make(map[outcome.Outcome]int, len(r.vocab))
		for _, other := range r.vocab {
			outcomeCount[other] = 0
		}
		outcomeCount[o] = freq[o]
		entries = append(entries, CountPerFilterValue{
			FilterValue:    string(o),
			OutcomeCount:   outcomeCount,
			UtteranceCount: freq[o],
		})
	}
	return sortedByCount(entries)
}
