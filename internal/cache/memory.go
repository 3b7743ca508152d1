package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// MemoryStore — хранилище в памяти процесса; используется, когда Redis не сконфигурирован.
// Просроченные записи удаляются лениво, при чтении.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}
	if !s.now().Before(it.expiresAt) {
		delete(s.items, key)
		return nil, false, nil
	}

	e := it.entry
	e.Body = append([]byte(nil), it.entry.Body...)

	return &e, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e *Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = memoryItem{
		entry: Entry{
			Body:     append([]byte(nil), e.Body...),
			StoredAt: e.StoredAt,
		},
		expiresAt: s.now().Add(ttl),
	}

	return nil
}

func (s *MemoryStore) Close() error { return nil }
