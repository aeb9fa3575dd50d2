package session

import (
	"context"
	"sync"
)

// MemoryProvider keeps sessions in process memory; sessions never expire.
type MemoryProvider struct {
	mu       sync.Mutex
	sessions map[string]map[string]int64
}

var _ Provider = (*MemoryProvider)(nil)

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{sessions: make(map[string]map[string]int64)}
}

func (p *MemoryProvider) Open(sessionID string) Store {
	return &memoryStore{p: p, id: sessionID}
}

type memoryStore struct {
	p  *MemoryProvider
	id string
}

func (s *memoryStore) ID() string { return s.id }

func (s *memoryStore) GetInt(ctx context.Context, key string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	v, ok := s.p.sessions[s.id][key]
	return v, ok, nil
}

func (s *memoryStore) SetInt(ctx context.Context, key string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.p.mu.Lock()
	defer s.p.mu.Unlock()

	data, ok := s.p.sessions[s.id]
	if !ok {
		data = make(map[string]int64)
		s.p.sessions[s.id] = data
	}
	data[key] = value
	return nil
}
