package perf

import "sort"

// counted is satisfied by both count-table entry types.
type counted interface {
	count() int
	value() string
}

// sortedByCount returns the entries in descending utterance-count order.
// The sort is stable: ties keep the order of the input filter list.
func sortedByCount[T counted](entries []T) []T {
	sorted := append([]T{}, entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].count() > sorted[j].count()
	})
	return sorted
}

// sortedByCountWithLast sorts by descending utterance count but forces every
// entry whose filter value equals last (the rejection class or a dimension's
// catch-all) to the end, regardless of its count.
func sortedByCountWithLast[T counted](entries []T, last string) []T {
	head := make([]T, 0, len(entries))
	tail := make([]T, 0, 1)
	for _, e := range entries {
		if e.value() == last {
			tail = append(tail, e)
		} else {
			head = append(head, e)
		}
	}
	return append(sortedByCount(head), tail...)
}
