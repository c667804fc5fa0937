package events

import "time"

// Event is the interface that all domain events must implement.
type Event interface {
	EventName() string // Returns a unique name for the event type
}

// Record wraps an event with its per-room sequence number. Sequence numbers
// are assigned by the store on append, start at 1, and increase by exactly 1
// for each event in a room. Consumers use them to deduplicate at-least-once
// delivery and to catch up after a disconnect.
type Record struct {
	RoomID string    `json:"roomId"`
	Seq    uint64    `json:"seq"`
	At     time.Time `json:"at"`
	Event  Event     `json:"event"`
}

// Handler is a callback invoked for each appended record.
type Handler func(Record)
