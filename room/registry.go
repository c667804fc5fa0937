package room

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/store"
)

// Registry tracks the live rooms. Rooms are fully independent; the registry
// only maps IDs to loops.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]*Room
	store     events.Store
	snapshots store.SnapshotStore
	rules     game.Rules
	debug     bool
}

// NewRegistry creates a registry. A nil snapshot store disables persistence.
func NewRegistry(eventStore events.Store, snapshots store.SnapshotStore, rules game.Rules, debug bool) *Registry {
	return &Registry{
		rooms:     make(map[string]*Room),
		store:     eventStore,
		snapshots: snapshots,
		rules:     rules,
		debug:     debug,
	}
}

// Create makes a new room with a fresh engine and starts its loop.
func (reg *Registry) Create() *Room {
	id := uuid.NewString()
	engine := game.NewEngine(reg.store, id, reg.rules)
	r := New(id, engine, reg.rules, reg.snapshots, reg.debug)

	reg.mu.Lock()
	reg.rooms[id] = r
	reg.mu.Unlock()

	r.Start()
	return r
}

// Get returns the room with the given ID.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// List returns all live rooms.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Restore rebuilds a room from its last persisted snapshot plus any events
// appended after it, then starts its loop.
func (reg *Registry) Restore(ctx context.Context, id string) (*Room, error) {
	if reg.snapshots == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}

	snap, err := reg.snapshots.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for room %s: %w", id, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("no snapshot for room %s", id)
	}

	engine, err := game.NewEngineFromSnapshot(reg.store, *snap, reg.rules)
	if err != nil {
		return nil, err
	}

	r := New(id, engine, reg.rules, reg.snapshots, reg.debug)

	reg.mu.Lock()
	reg.rooms[id] = r
	reg.mu.Unlock()

	r.Start()
	return r, nil
}

// Remove stops a room and forgets it.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	r, ok := reg.rooms[id]
	delete(reg.rooms, id)
	reg.mu.Unlock()

	if ok {
		r.Stop()
	}
}
