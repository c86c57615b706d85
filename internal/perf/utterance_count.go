package perf

import (
	"scrutiny/internal/dataset"

	"github.com/rotisserie/eris"
)

// UtteranceCountPerFilter assembles the raw utterance-count report for one
// dataset split: label and data-action breakdowns plus one breakdown per
// dataset-scoped smart-tag family, with no outcome dimension. Counts come
// from column-level frequencies; tag catch-alls are derived in the same pass
// as "rows where every named tag in the family is false".
func (r *Reporter) UtteranceCountPerFilter(split dataset.Split, pipelineIndex int) (*UtteranceCountPerFilterResponse, error) {
	rows := r.store.Utterances(split)
	key := dataset.TableKey{Split: split, PipelineIndex: pipelineIndex}

	result := UtteranceCountPerFilter{
		Label: r.utteranceCountPerLabel(rows),
	}

	dataAction, err := r.utteranceCountPerTag(key, rows, r.dataActions)
	if err != nil {
		return nil, eris.Wrap(err, "data-action breakdown failed")
	}
	result.DataAction = dataAction

	for _, family := range DatasetSmartTagFamilies() {
		entries, err := r.utteranceCountPerTag(key, rows, r.smartTags[family])
		if err != nil {
			return nil, eris.Wrapf(err, "smart-tag breakdown failed for family %s", family)
		}
		result.setFamily(family, entries)
	}

	return &UtteranceCountPerFilterResponse{
		CountPerFilter: result,
		UtteranceCount: len(rows),
	}, nil
}

func (r *Reporter) utteranceCountPerLabel(rows []dataset.Utterance) []UtteranceCountPerFilterValue {
	freq := make(map[string]int)
	for _, u := range rows {
		freq[r.store.ClassName(u.Label)]++
	}

	filters := r.classFilterValues()
	entries := make([]UtteranceCountPerFilterValue, 0, len(filters))
	for _, name := range filters {
		entries = append(entries, UtteranceCountPerFilterValue{FilterValue: name, UtteranceCount: freq[name]})
	}
	return sortedByCountWithLast(entries, r.store.RejectionClass())
}

// utteranceCountPerTag sums each named tag column and counts the rows whose
// named tags are all false in the same pass.
func (r *Reporter) utteranceCountPerTag(key dataset.TableKey, rows []dataset.Utterance, filters FilterSet) ([]UtteranceCountPerFilterValue, error) {
	if err := filters.Validate(); err != nil {
		return nil, err
	}

	tagsByRow := r.tags.Tags(key, rowIndices(rows))
	sums := make(map[string]int, len(filters.Values))
	untagged := 0
	for _, u := range rows {
		rowTags := tagsByRow[u.RowIdx]
		tagged := false
		for _, name := range filters.Values {
			if rowTags[name] {
				sums[name]++
				tagged = true
			}
		}
		if !tagged {
			untagged++
		}
	}

	entries := make([]UtteranceCountPerFilterValue, 0, len(filters.Values)+1)
	for _, name := range filters.Values {
		entries = append(entries, UtteranceCountPerFilterValue{FilterValue: name, UtteranceCount: sums[name]})
	}
	entries = append(entries, UtteranceCountPerFilterValue{FilterValue: filters.CatchAll, UtteranceCount: untagged})
	return sortedByCountWithLast(entries, filters.CatchAll), nil
}
