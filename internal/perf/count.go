package perf

import "scrutiny/internal/outcome"

// filterOutcome keys the sparse accumulator the report builders fill before
// handing it to the counting primitive.
type filterOutcome struct {
	filter string
	out    outcome.Outcome
}

// outcomeCountsFor builds one count-table entry per filter value from a
// sparse (filter value, outcome) accumulator. The filters list, not the map's
// key set, decides which entries appear and in what order, so empty buckets
// (including the catch-all) come back zero-filled.
func outcomeCountsFor(counts map[filterOutcome]int, filters []string, vocab []outcome.Outcome) []CountPerFilterValue {
	entries := make([]CountPerFilterValue, 0, len(filters))
	for _, filter := range filters {
		outcomeCount := make(map[outcome.Outcome]int, len(vocab))
		total := 0
		for _, o := range vocab {
			n := counts[filterOutcome{filter: filter, out: o}]
			outcomeCount[o] = n
			total += n
		}
		entries = append(entries, CountPerFilterValue{
			FilterValue:    filter,
			OutcomeCount:   outcomeCount,
			UtteranceCount: total,
		})
	}
	return entries
}
