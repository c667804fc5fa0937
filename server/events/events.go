package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/thullagame/thulla/cards"
	domainevents "github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
	"github.com/thullagame/thulla/server/connection"
)

// Envelope wraps an event with its name and room sequence number for client
// consumption. Clients deduplicate on (roomId, seq) and resync on gaps.
type Envelope struct {
	Name    string          `json:"name"`
	RoomID  string          `json:"roomId"`
	Seq     uint64          `json:"seq"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher routes authoritative event records to clients. Delivery is
// at-least-once and fire-and-forget: per-player sends get a bounded retry
// with backoff, room broadcasts drop slow consumers, and reconnecting
// clients catch up through a full state resync rather than event replay.
// Records are relayed through a queue so retries never block the engine.
type Dispatcher struct {
	connMgr    *connection.Manager
	queue      chan domainevents.Record
	maxRetries int
	backoff    time.Duration
}

// NewDispatcher creates a new event dispatcher and starts its relay loop.
func NewDispatcher(connMgr *connection.Manager) *Dispatcher {
	d := &Dispatcher{
		connMgr:    connMgr,
		queue:      make(chan domainevents.Record, 256),
		maxRetries: 3,
		backoff:    50 * time.Millisecond,
	}
	go d.run()
	return d
}

// HandleRecord enqueues one appended event record for delivery. Called on
// the engine's acting goroutine, so it must never block; if the relay queue
// is full the record is dropped and clients recover via resync.
func (d *Dispatcher) HandleRecord(rec domainevents.Record) {
	select {
	case d.queue <- rec:
	default:
		log.Printf("event queue full, dropping %s #%d for room %s", rec.Event.EventName(), rec.Seq, rec.RoomID)
	}
}

func (d *Dispatcher) run() {
	for rec := range d.queue {
		d.dispatch(rec)
	}
}

func (d *Dispatcher) dispatch(rec domainevents.Record) {
	switch ev := rec.Event.(type) {
	case game.CardsDealt:
		// Hands are private: each player receives only their own.
		for playerID, hand := range ev.Hands {
			private := game.CardsDealt{
				RoomID:           ev.RoomID,
				StartingPlayerID: ev.StartingPlayerID,
				Hands:            map[string]cards.Hand{playerID: hand},
			}
			data, err := d.envelope(rec, private)
			if err != nil {
				log.Println("failed to marshal CARDS_DEALT envelope:", err)
				return
			}
			d.sendToPlayerWithRetry(playerID, data)
		}

	default:
		data, err := d.envelope(rec, rec.Event)
		if err != nil {
			log.Printf("failed to marshal %s envelope: %v", rec.Event.EventName(), err)
			return
		}
		d.connMgr.SendToRoom(rec.RoomID, data)
	}
}

func (d *Dispatcher) envelope(rec domainevents.Record, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Name:    rec.Event.EventName(),
		RoomID:  rec.RoomID,
		Seq:     rec.Seq,
		Payload: raw,
	})
}

func (d *Dispatcher) sendToPlayerWithRetry(playerID string, data []byte) {
	for attempt := 0; attempt <= d.maxRetries; attempt++ {
		if d.connMgr.SendToPlayer(playerID, data) {
			return
		}
		time.Sleep(d.backoff * time.Duration(attempt+1))
	}
	// The player reconciles through a full state resync on reconnect.
	log.Printf("dropping event for offline player %s", playerID)
}
