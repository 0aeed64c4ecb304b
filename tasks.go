package pdfstract

import "sync"

// TaskStore retains comparison reports by task identifier for later
// retrieval over the HTTP API. Reports are read-only once stored; the only
// mutation is deletion. Safe for concurrent use.
//
// The store is in-memory: durable persistence belongs to whatever backs
// the deployment (the HTTP server keeps one store per process, matching
// the original service's task semantics).
type TaskStore struct {
	mu    sync.RWMutex
	tasks map[string]*ComparisonReport
}

// NewTaskStore returns an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]*ComparisonReport)}
}

// Save stores the report under its TaskID. Reports without a TaskID are
// ignored.
func (s *TaskStore) Save(r *ComparisonReport) {
	if r == nil || r.TaskID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[r.TaskID] = r
}

// Get returns the report stored under id, or [ErrTaskNotFound].
func (s *TaskStore) Get(id string) (*ComparisonReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.tasks[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return r, nil
}

// Delete removes the report stored under id, or returns [ErrTaskNotFound]
// if there is none.
func (s *TaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

// IDs returns the stored task identifiers, in no particular order.
func (s *TaskStore) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.tasks))
	for id := range s.tasks {
		ids = append(ids, id)
	}
	return ids
}
