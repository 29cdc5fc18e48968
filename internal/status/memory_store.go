package status

import (
	"context"
	"sync"
	"time"

	"server/internal/domain"
)

// MemoryStore is a process-local StatusStore for tests and redis-less
// development. It only sees one process, so running API and worker
// separately against it loses the shared stop flag.
type MemoryStore struct {
	mu       sync.Mutex
	statuses map[string]domain.GenerationStatus
	stops    map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		statuses: make(map[string]domain.GenerationStatus),
		stops:    make(map[string]bool),
	}
}

var _ domain.StatusStore = (*MemoryStore)(nil)

func (s *MemoryStore) Get(_ context.Context, userID string) (*domain.GenerationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.statuses[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) Set(_ context.Context, st domain.GenerationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.UpdatedAt = time.Now()
	s.statuses[st.UserID] = st
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.statuses, userID)
	return nil
}

func (s *MemoryStore) RequestStop(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops[userID] = true
	return nil
}

func (s *MemoryStore) StopRequested(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stops[userID], nil
}

func (s *MemoryStore) ClearStop(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stops, userID)
	return nil
}
