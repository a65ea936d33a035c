package services

import (
	"fmt"
	"sort"
	"sync"
)

// RunStore holds completed ingestion runs.
type RunStore interface {
	Create(run *Run) (evicted []string, err error)
	Get(id string) (*Run, error)
	List() []*Run
	Delete(id string) error
	Len() int
}

// MemoryRunStore is an in-memory RunStore bounded to a fixed number of runs.
// When full, Create evicts the oldest run. Runs are immutable once stored,
// so Get hands out the stored pointer without copying.
type MemoryRunStore struct {
	mu    sync.RWMutex
	runs  map[string]*Run
	order []string
	max   int
}

// NewMemoryRunStore creates a store holding at most maxRuns runs.
// maxRuns <= 0 means unbounded.
func NewMemoryRunStore(maxRuns int) *MemoryRunStore {
	return &MemoryRunStore{
		runs: make(map[string]*Run),
		max:  maxRuns,
	}
}

// Create stores a run and returns the IDs of any runs evicted to make room.
func (s *MemoryRunStore) Create(run *Run) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[run.ID]; exists {
		return nil, fmt.Errorf("%w: %s", ErrRunExists, run.ID)
	}

	var evicted []string
	for s.max > 0 && len(s.order) >= s.max {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.runs, oldest)
		evicted = append(evicted, oldest)
	}

	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)
	return evicted, nil
}

// Get retrieves a run by ID
func (s *MemoryRunStore) Get(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, exists := s.runs[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, nil
}

// List returns every stored run, newest first.
func (s *MemoryRunStore) List() []*Run {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.runs[s.order[i]])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Delete removes a run from the store
func (s *MemoryRunStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[id]; !exists {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	delete(s.runs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored runs
func (s *MemoryRunStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.runs)
}
