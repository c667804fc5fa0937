package game

import (
	"fmt"

	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/events"
)

// PlayerSnapshot is the serializable form of a player's state. HandSize is
// always populated; Hand is dropped when the snapshot is redacted for
// another participant.
type PlayerSnapshot struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Seat     int        `json:"seat"`
	IsBot    bool       `json:"isBot"`
	Active   bool       `json:"active"`
	Finished bool       `json:"finished"`
	HandSize int        `json:"handSize"`
	Hand     cards.Hand `json:"hand,omitempty"`
}

// Snapshot is the full serializable room state plus the sequence number of
// the last event it reflects. A room is reconstructible from a snapshot plus
// the events appended after it; reconnecting clients resync from one instead
// of replaying missed events.
type Snapshot struct {
	RoomID           string           `json:"roomId"`
	Seq              uint64           `json:"seq"`
	Status           Status           `json:"status"`
	Players          []PlayerSnapshot `json:"players"`
	Trick            Trick            `json:"trick"`
	Pile             cards.Hand       `json:"pile,omitempty"`
	Discarded        cards.Hand       `json:"discarded,omitempty"`
	CurrentPlayerID  string           `json:"currentPlayerId,omitempty"`
	StartingPlayerID string           `json:"startingPlayerId,omitempty"`
	ActiveSuit       cards.Suit       `json:"activeSuit,omitempty"`
	PendingPickerID  string           `json:"pendingPickerId,omitempty"`
	TrickNumber      int              `json:"trickNumber"`
	FirstTrick       bool             `json:"firstTrick"`
	DealtCount       int              `json:"dealtCount"`
	WinnerID         string           `json:"winnerId,omitempty"`
	FinishOrder      []string         `json:"finishOrder,omitempty"`
	Corrupt          bool             `json:"corrupt,omitempty"`
}

// Snapshot captures a deep copy of the current state under the engine lock.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	snap := Snapshot{
		RoomID:           s.RoomID,
		Seq:              e.lastSeq,
		Status:           s.Status,
		Trick:            Trick{LeadSuit: s.Trick.LeadSuit, Plays: append([]Play{}, s.Trick.Plays...)},
		Pile:             append(cards.Hand{}, s.Pile...),
		Discarded:        append(cards.Hand{}, s.Discarded...),
		CurrentPlayerID:  s.CurrentPlayerID,
		StartingPlayerID: s.StartingPlayerID,
		ActiveSuit:       s.ActiveSuit,
		PendingPickerID:  s.PendingPickerID,
		TrickNumber:      s.TrickNumber,
		FirstTrick:       s.FirstTrick,
		DealtCount:       s.DealtCount,
		WinnerID:         s.WinnerID,
		FinishOrder:      append([]string{}, s.FinishOrder...),
		Corrupt:          s.Corrupt,
	}
	for _, p := range s.Players {
		snap.Players = append(snap.Players, PlayerSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     p.Seat,
			IsBot:    p.IsBot,
			Active:   p.Active,
			Finished: p.Finished,
			HandSize: len(p.Hand),
			Hand:     append(cards.Hand{}, p.Hand...),
		})
	}
	return snap
}

// RedactFor strips the hands of everyone but the given participant. Hand
// sizes stay visible.
func (snap Snapshot) RedactFor(playerID string) Snapshot {
	out := snap
	out.Players = make([]PlayerSnapshot, len(snap.Players))
	copy(out.Players, snap.Players)
	for i := range out.Players {
		if out.Players[i].ID != playerID {
			out.Players[i].Hand = nil
		}
	}
	return out
}

// NewEngineFromSnapshot restores a room from its last snapshot and replays
// any events appended after it.
func NewEngineFromSnapshot(store events.Store, snap Snapshot, rules Rules) (*Engine, error) {
	state := &State{
		RoomID:           snap.RoomID,
		Status:           snap.Status,
		Trick:            Trick{LeadSuit: snap.Trick.LeadSuit, Plays: append([]Play{}, snap.Trick.Plays...)},
		Pile:             append(cards.Hand{}, snap.Pile...),
		Discarded:        append(cards.Hand{}, snap.Discarded...),
		CurrentPlayerID:  snap.CurrentPlayerID,
		StartingPlayerID: snap.StartingPlayerID,
		ActiveSuit:       snap.ActiveSuit,
		PendingPickerID:  snap.PendingPickerID,
		TrickNumber:      snap.TrickNumber,
		FirstTrick:       snap.FirstTrick,
		DealtCount:       snap.DealtCount,
		WinnerID:         snap.WinnerID,
		FinishOrder:      append([]string{}, snap.FinishOrder...),
		Corrupt:          snap.Corrupt,
	}
	for _, p := range snap.Players {
		hand := p.Hand
		if hand == nil && p.HandSize > 0 {
			return nil, fmt.Errorf("cannot restore from a redacted snapshot")
		}
		state.Players = append(state.Players, &PlayerState{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     p.Seat,
			IsBot:    p.IsBot,
			Active:   p.Active,
			Finished: p.Finished,
			Hand:     append(cards.Hand{}, hand...),
		})
	}
	state.sortPlayersBySeat()

	engine := &Engine{
		roomID:  snap.RoomID,
		rules:   rules,
		store:   store,
		state:   state,
		lastSeq: snap.Seq,
	}

	records, err := store.Since(snap.RoomID, snap.Seq)
	if err != nil {
		return nil, fmt.Errorf("failed to load events after snapshot: %w", err)
	}
	for _, rec := range records {
		engine.applyEvent(rec.Event)
		engine.lastSeq = rec.Seq
	}
	return engine, nil
}
