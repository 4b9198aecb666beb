package drafts

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string]Draft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: make(map[string]Draft)}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[sessionID]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return d, nil
}

func (s *MemoryStore) Save(ctx context.Context, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var stored *Draft
	if current, ok := s.drafts[d.SessionID]; ok {
		stored = &current
	}
	if err := checkRevision(stored, d); err != nil {
		return err
	}
	d.UpdatedAt = time.Now()
	s.drafts[d.SessionID] = d
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}
