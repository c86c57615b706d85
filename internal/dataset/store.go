package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// SplitStore provides thread-safe access to immutable dataset-split
// snapshots, plus the class-name vocabulary shared by all splits.
type SplitStore struct {
	mu     sync.RWMutex
	splits map[Split][]Utterance

	classNames        []string
	rejectionClass    string
	rejectionClassIdx int
}

// NewSplitStore creates an empty store for the given class vocabulary.
// When rejectionClass is not one of classNames, RejectionClassIdx() equals
// len(classNames): the sentinel id predictions use when they abstain.
func NewSplitStore(classNames []string, rejectionClass string) *SplitStore {
	idx := len(classNames)
	for i, name := range classNames {
		if name == rejectionClass {
			idx = i
			break
		}
	}
	return &SplitStore{
		splits:            make(map[Split][]Utterance),
		classNames:        append([]string{}, classNames...),
		rejectionClass:    rejectionClass,
		rejectionClassIdx: idx,
	}
}

// SetSplit replaces the snapshot for a split. Rows are sorted by row index.
func (s *SplitStore) SetSplit(split Split, rows []Utterance) {
	sorted := append([]Utterance{}, rows...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RowIdx < sorted[j].RowIdx })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.splits[split] = sorted
}

// Load reads a split snapshot from a JSONL file in dataDir. A missing file
// leaves the split empty; that is not an error.
func (s *SplitStore) Load(dataDir string, split Split) error {
	path := filepath.Join(dataDir, fmt.Sprintf("%s.jsonl", split))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "failed to open split snapshot %q", path)
	}
	defer file.Close()

	var rows []Utterance
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var u Utterance
		if err := json.Unmarshal(scanner.Bytes(), &u); err != nil {
			log.Warn().Err(err).Str("split", string(split)).Msg("Skipping invalid JSON line in split snapshot")
			continue
		}
		rows = append(rows, u)
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrapf(err, "error reading split snapshot %q", path)
	}

	s.SetSplit(split, rows)
	log.Info().Str("split", string(split)).Int("rows", len(rows)).Msg("Loaded dataset split")
	return nil
}

// Utterances returns a copy of the split's rows in row-index order.
func (s *SplitStore) Utterances(split Split) []Utterance {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Utterance{}, s.splits[split]...)
}

// NumRows returns the number of rows in a split.
func (s *SplitStore) NumRows(split Split) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.splits[split])
}

// ClassNames returns the class vocabulary in label-id order.
func (s *SplitStore) ClassNames() []string {
	return append([]string{}, s.classNames...)
}

// RejectionClass returns the configured rejection class name.
func (s *SplitStore) RejectionClass() string {
	return s.rejectionClass
}

// RejectionClassIdx returns the class id of the rejection class, or
// len(ClassNames()) when no class carries that name.
func (s *SplitStore) RejectionClassIdx() int {
	return s.rejectionClassIdx
}

// ClassName resolves a class id to its name. The rejection sentinel id
// resolves to the rejection class name even when it is not a real class.
// Any other out-of-range id means the snapshot is inconsistent and panics.
func (s *SplitStore) ClassName(id int) string {
	if id >= 0 && id < len(s.classNames) {
		return s.classNames[id]
	}
	if id == s.rejectionClassIdx {
		return s.rejectionClass
	}
	panic(fmt.Sprintf("dataset: class id %d out of range for %d classes", id, len(s.classNames)))
}
