package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/thullagame/thulla/game"
)

// MemoryStore is an in-process SnapshotStore for tests and single-node runs
// without Redis. Snapshots round-trip through JSON so the two
// implementations store the same shape.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

// NewMemoryStore creates an empty in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, roomID string, snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[roomID] = data
	return nil
}

func (s *MemoryStore) Load(_ context.Context, roomID string) (*game.Snapshot, error) {
	s.mu.RLock()
	data, ok := s.snaps[roomID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *MemoryStore) Delete(_ context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, roomID)
	return nil
}
