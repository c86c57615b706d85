package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

// TagStore provides thread-safe access to boolean tag tables, partitioned by
// TableKey and keyed by row index. A row missing from a table carries no tags.
type TagStore struct {
	mu     sync.RWMutex
	tables map[TableKey]map[int]map[string]bool
}

// NewTagStore creates an empty tag store.
func NewTagStore() *TagStore {
	return &TagStore{tables: make(map[TableKey]map[int]map[string]bool)}
}

// tagRow is the JSONL line format of a tag table snapshot.
type tagRow struct {
	RowIdx int             `json:"row_idx"`
	Tags   map[string]bool `json:"tags"`
}

// Set merges tag values for one row into the table for key.
func (t *TagStore) Set(key TableKey, rowIdx int, tags map[string]bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	table, ok := t.tables[key]
	if !ok {
		table = make(map[int]map[string]bool)
		t.tables[key] = table
	}
	row, ok := table[rowIdx]
	if !ok {
		row = make(map[string]bool)
		table[rowIdx] = row
	}
	for name, v := range tags {
		row[name] = v
	}
}

// Load reads a tag table snapshot from a JSONL file in dataDir. A missing
// file leaves the table empty; that is not an error.
func (t *TagStore) Load(dataDir string, key TableKey) error {
	path := filepath.Join(dataDir, fmt.Sprintf("%s_p%d.tags.jsonl", key.Split, key.PipelineIndex))
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return eris.Wrapf(err, "failed to open tag snapshot %q", path)
	}
	defer file.Close()

	rows := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var r tagRow
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			log.Warn().Err(err).Str("split", string(key.Split)).Msg("Skipping invalid JSON line in tag snapshot")
			continue
		}
		t.Set(key, r.RowIdx, r.Tags)
		rows++
	}
	if err := scanner.Err(); err != nil {
		return eris.Wrapf(err, "error reading tag snapshot %q", path)
	}

	log.Info().Str("split", string(key.Split)).Int("pipeline", key.PipelineIndex).Int("rows", rows).Msg("Loaded tag table")
	return nil
}

// Tags returns the tag map for each requested row index. Rows without any
// recorded tags map to an empty (all-false) tag set.
func (t *TagStore) Tags(key TableKey, indices []int) map[int]map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	table := t.tables[key]
	result := make(map[int]map[string]bool, len(indices))
	for _, idx := range indices {
		row, ok := table[idx]
		if !ok {
			result[idx] = map[string]bool{}
			continue
		}
		copied := make(map[string]bool, len(row))
		for name, v := range row {
			copied[name] = v
		}
		result[idx] = copied
	}
	return result
}
