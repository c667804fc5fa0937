package events

import (
	"sync"
	"time"
)

// Store is the interface for the ordered per-room event log.
type Store interface {
	// Append stamps the event with the room's next sequence number and stores it.
	Append(roomID string, event Event) (Record, error)
	// Load retrieves all records for the room, in sequence order.
	Load(roomID string) ([]Record, error)
	// Since retrieves the records with sequence numbers strictly greater than seq.
	Since(roomID string, seq uint64) ([]Record, error)
	// LatestSeq returns the highest sequence number assigned in the room, 0 if none.
	LatestSeq(roomID string) uint64
	// Drop discards the room's log entirely.
	Drop(roomID string)
}

// InMemoryStore is an in-memory implementation of the Store interface.
type InMemoryStore struct {
	records map[string][]Record
	mutex   sync.RWMutex
}

// NewInMemoryStore creates a new in-memory event store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[string][]Record),
	}
}

// Append adds a new event to the room's log and assigns its sequence number.
func (s *InMemoryStore) Append(roomID string, event Event) (Record, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	log := s.records[roomID]
	record := Record{
		RoomID: roomID,
		Seq:    uint64(len(log)) + 1,
		At:     time.Now(),
		Event:  event,
	}

	s.records[roomID] = append(log, record)
	return record, nil
}

// Load retrieves all records for the given room.
func (s *InMemoryStore) Load(roomID string) ([]Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	log := s.records[roomID]
	result := make([]Record, len(log))
	copy(result, log)
	return result, nil
}

// Since retrieves records after the given sequence number.
func (s *InMemoryStore) Since(roomID string, seq uint64) ([]Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	log := s.records[roomID]
	if seq >= uint64(len(log)) {
		return []Record{}, nil
	}

	// Seq numbers are dense, so the record with Seq == seq+1 sits at index seq.
	result := make([]Record, len(log)-int(seq))
	copy(result, log[seq:])
	return result, nil
}

// LatestSeq returns the highest assigned sequence number for the room.
func (s *InMemoryStore) LatestSeq(roomID string) uint64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return uint64(len(s.records[roomID]))
}

// Drop discards the room's log.
func (s *InMemoryStore) Drop(roomID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.records, roomID)
}
