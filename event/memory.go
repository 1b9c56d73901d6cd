package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a map-backed Store for tests and storeless dev runs.
type MemoryStore struct {
	mu   sync.RWMutex
	byID map[string]*Event
	keys map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[string]*Event),
		keys: make(map[string]string),
	}
}

func memoryKey(source Source, foreignID string) string {
	return fmt.Sprintf("%s.%s", source, foreignID)
}

// FindBySourceAndForeignID returns the event for the dedup key, or
// ErrNotFound when absent.
func (s *MemoryStore) FindBySourceAndForeignID(_ context.Context, source Source, foreignID string) (*Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.keys[memoryKey(source, foreignID)]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *s.byID[id]
	return &copied, nil
}

// Insert stores a new event, returning ErrDuplicate on a dedup key
// collision.
func (s *MemoryStore) Insert(_ context.Context, ev *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := memoryKey(ev.Source, ev.ForeignID)
	if _, ok := s.keys[key]; ok {
		return ErrDuplicate
	}

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}

	copied := *ev
	s.byID[ev.ID] = &copied
	s.keys[key] = ev.ID

	return nil
}

// UpdateMetadata replaces the stored metadata snapshot of one event.
func (s *MemoryStore) UpdateMetadata(_ context.Context, id string, metadata json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}

	ev.Metadata = metadata
	return nil
}

// Len reports how many events the store holds.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
