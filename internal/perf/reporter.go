package perf

import (
	"scrutiny/internal/dataset"
	"scrutiny/internal/outcome"
	"scrutiny/internal/pipeline"

	"github.com/rotisserie/eris"
)

// Options carries the vocabularies and defaults a Reporter is built with.
// Everything here is treated as immutable after construction.
type Options struct {
	// Outcomes is the outcome vocabulary; defaults to outcome.All().
	Outcomes []outcome.Outcome
	// DataActions is the data-action tag vocabulary, in display order.
	DataActions []string
	// SmartTags maps family names to their tag vocabularies. Keys must be
	// known SmartTagFamily values; families left out get an empty vocabulary
	// (every row lands in the catch-all).
	SmartTags map[string][]string
	// XTicksCount is the default threshold-sweep tick count; minimum 2.
	XTicksCount int
}

// Reporter builds the model-performance reports for dataset splits. It holds
// read-only collaborators and vocabulary data; every report method is a pure
// function of the current snapshots and may be called concurrently.
type Reporter struct {
	store  *dataset.SplitStore
	tags   *dataset.TagStore
	runner *pipeline.Runner

	vocab       []outcome.Outcome
	dataActions FilterSet
	smartTags   map[SmartTagFamily]FilterSet
	ticks       int
}

// NewReporter validates the vocabularies and builds a Reporter.
func NewReporter(store *dataset.SplitStore, tags *dataset.TagStore, runner *pipeline.Runner, opts Options) (*Reporter, error) {
	vocab := opts.Outcomes
	if len(vocab) == 0 {
		vocab = outcome.All()
	}
	if opts.XTicksCount < 2 {
		return nil, eris.Errorf("sweep tick count must be at least 2, got %d", opts.XTicksCount)
	}

	known := make(map[SmartTagFamily]bool)
	for _, f := range SmartTagFamilies() {
		known[f] = true
	}
	smartTags := make(map[SmartTagFamily]FilterSet, len(known))
	for name, tagList := range opts.SmartTags {
		family := SmartTagFamily(name)
		if !known[family] {
			return nil, eris.Errorf("unknown smart-tag family %q", name)
		}
		smartTags[family] = FilterSet{Values: append([]string{}, tagList...), CatchAll: NoSmartTag}
	}
	for _, f := range SmartTagFamilies() {
		if _, ok := smartTags[f]; !ok {
			smartTags[f] = FilterSet{CatchAll: NoSmartTag}
		}
	}

	dataActions := FilterSet{Values: append([]string{}, opts.DataActions...), CatchAll: NoAction}
	if err := dataActions.Validate(); err != nil {
		return nil, eris.Wrap(err, "invalid data-action vocabulary")
	}
	for _, fs := range smartTags {
		if err := fs.Validate(); err != nil {
			return nil, eris.Wrap(err, "invalid smart-tag vocabulary")
		}
	}

	return &Reporter{
		store:       store,
		tags:        tags,
		runner:      runner,
		vocab:       vocab,
		dataActions: dataActions,
		smartTags:   smartTags,
		ticks:       opts.XTicksCount,
	}, nil
}

// NumPipelines returns how many pipelines the underlying runner knows about.
func (r *Reporter) NumPipelines() int {
	return r.runner.NumPipelines()
}

// classFilterValues returns the class-name filter list for per-class tables.
// When the rejection class is not a real class, it is appended so the table
// still carries a (zero-filled) entry for it.
func (r *Reporter) classFilterValues() []string {
	names := r.store.ClassNames()
	if r.store.RejectionClassIdx() == len(names) {
		names = append(names, r.store.RejectionClass())
	}
	return names
}

func rowIndices(rows []dataset.Utterance) []int {
	indices := make([]int, len(rows))
	for i, u := range rows {
		indices[i] = u.RowIdx
	}
	return indices
}
