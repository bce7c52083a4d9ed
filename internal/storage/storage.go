package storage

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/artifact-narrator/narrator/internal/results"
)

// DefaultSize is the number of runs kept when no size is given
const DefaultSize = 50

// RunStore keeps the most recent runs in memory. It is safe for
// concurrent use.
type RunStore struct {
	runs *lru.Cache[string, *results.RunRecord]
}

func New(size int) (*RunStore, error) {
	if size <= 0 {
		size = DefaultSize
	}
	cache, err := lru.New[string, *results.RunRecord](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create run cache: %w", err)
	}
	return &RunStore{runs: cache}, nil
}

// Get returns a run without changing its position in the history
func (s *RunStore) Get(id string) (*results.RunRecord, bool) {
	return s.runs.Peek(id)
}

func (s *RunStore) Set(record *results.RunRecord) {
	s.runs.Add(record.ID, record)
}

// List returns the stored runs, newest first
func (s *RunStore) List() []*results.RunRecord {
	keys := s.runs.Keys()
	list := make([]*results.RunRecord, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if record, ok := s.runs.Peek(keys[i]); ok {
			list = append(list, record)
		}
	}
	return list
}

func (s *RunStore) Delete(id string) bool {
	return s.runs.Remove(id)
}

func (s *RunStore) Len() int {
	return s.runs.Len()
}
