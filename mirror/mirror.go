package mirror

import (
	"sync"

	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
)

// PlayerView is what a participant sees of another player: everything but
// the cards themselves.
type PlayerView struct {
	ID       string
	Name     string
	Seat     int
	IsBot    bool
	Finished bool
	HandSize int
}

// View is the reduced, regenerable game state a client renders.
type View struct {
	RoomID          string
	Status          game.Status
	Players         []PlayerView
	Hand            cards.Hand // own cards only
	Trick           []game.Play
	PileSize        int
	CurrentPlayerID string
	ActiveSuit      cards.Suit
	WinnerID        string
}

// Mirror is a client-side read-only copy of a room, driven entirely by
// authoritative events plus a short-lived optimistic overlay for the
// client's own pending play. Events are applied idempotently by sequence
// number, so at-least-once delivery is safe.
type Mirror struct {
	mu       sync.Mutex
	playerID string
	lastSeq  uint64
	view     View
	pending  *cards.Card
}

// New creates a mirror for the given participant.
func New(playerID string) *Mirror {
	return &Mirror{playerID: playerID}
}

// LastSeq returns the sequence number of the last applied event.
func (m *Mirror) LastSeq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSeq
}

// Apply folds one authoritative event into the view. Returns false for a
// duplicate or out-of-date record, which is a no-op.
func (m *Mirror) Apply(rec events.Record) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.Seq <= m.lastSeq {
		return false
	}
	m.lastSeq = rec.Seq

	switch ev := rec.Event.(type) {
	case game.GameStarted:
		m.view = View{RoomID: ev.RoomID, Status: game.StatusDealing}
		for _, seat := range ev.Players {
			m.view.Players = append(m.view.Players, PlayerView{
				ID:    seat.ID,
				Name:  seat.Name,
				Seat:  seat.Seat,
				IsBot: seat.IsBot,
			})
		}

	case game.CardsDealt:
		// The dispatcher redacts hands to the recipient's own; hands are
		// equal at the deal, so one hand length sizes them all.
		own := ev.Hands[m.playerID]
		m.view.Hand = append(cards.Hand{}, own...)
		size := len(own)
		for id, hand := range ev.Hands {
			if len(hand) > 0 && id != m.playerID {
				size = len(hand)
			}
		}
		for i := range m.view.Players {
			m.view.Players[i].HandSize = size
		}
		m.view.Status = game.StatusPlaying
		m.view.Trick = nil
		m.view.PileSize = 0
		m.view.ActiveSuit = ""
		m.view.WinnerID = ""

	case game.CardPlayed:
		if ev.PlayerID == m.playerID {
			m.view.Hand, _ = m.view.Hand.Remove(ev.Card)
			// The authoritative play confirms (or supersedes) the overlay.
			m.pending = nil
		}
		if p := m.player(ev.PlayerID); p != nil {
			p.HandSize--
		}
		if m.view.ActiveSuit == "" {
			m.view.ActiveSuit = ev.Card.Suit
		}
		m.view.Trick = append(m.view.Trick, game.Play{PlayerID: ev.PlayerID, Card: ev.Card, Thulla: ev.Thulla})

	case game.ThullaTriggered:
		m.view.PileSize += len(m.view.Trick)
		m.view.Trick = nil
		m.view.Status = game.StatusThullaPending

	case game.TrickCleared:
		m.view.Trick = nil
		m.view.ActiveSuit = ""
		m.view.Status = game.StatusPlaying

	case game.PilePickedUp:
		if p := m.player(ev.PickerID); p != nil {
			p.HandSize += len(ev.Cards)
			p.Finished = false
		}
		if ev.PickerID == m.playerID {
			m.view.Hand = append(m.view.Hand, ev.Cards...)
		}
		m.view.PileSize = 0
		m.view.Trick = nil
		m.view.ActiveSuit = ""
		m.view.Status = game.StatusPlaying

	case game.PlayerFinished:
		if p := m.player(ev.PlayerID); p != nil {
			p.Finished = true
		}

	case game.TurnChanged:
		m.view.CurrentPlayerID = ev.CurrentPlayerID

	case game.GameEnded:
		m.view.WinnerID = ev.WinnerID
		m.view.CurrentPlayerID = ""
		m.view.Status = game.StatusFinished
	}

	return true
}

// PlayOptimistically overlays the client's own play before the server
// confirms it, for immediate feedback. The overlay is discarded when the
// matching authoritative event arrives, or rolled back on rejection.
func (m *Mirror) PlayOptimistically(card cards.Card) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := card
	m.pending = &c
}

// Rollback discards the optimistic overlay after a rejected play.
func (m *Mirror) Rollback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = nil
}

// ResyncFrom replaces the whole view from an authoritative snapshot and
// fast-forwards the sequence cursor. Used after reconnecting instead of
// replaying missed events.
func (m *Mirror) ResyncFrom(snap game.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = nil
	m.lastSeq = snap.Seq
	m.view = View{
		RoomID:          snap.RoomID,
		Status:          snap.Status,
		PileSize:        len(snap.Pile),
		CurrentPlayerID: snap.CurrentPlayerID,
		ActiveSuit:      snap.ActiveSuit,
		WinnerID:        snap.WinnerID,
		Trick:           append([]game.Play{}, snap.Trick.Plays...),
	}
	for _, p := range snap.Players {
		m.view.Players = append(m.view.Players, PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Seat:     p.Seat,
			IsBot:    p.IsBot,
			Finished: p.Finished,
			HandSize: p.HandSize,
		})
		if p.ID == m.playerID {
			m.view.Hand = append(cards.Hand{}, p.Hand...)
		}
	}
}

// View returns a copy of the current view with the optimistic overlay
// applied.
func (m *Mirror) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.view
	out.Players = append([]PlayerView{}, m.view.Players...)
	out.Hand = append(cards.Hand{}, m.view.Hand...)
	out.Trick = append([]game.Play{}, m.view.Trick...)

	if m.pending != nil {
		if hand, ok := out.Hand.Remove(*m.pending); ok {
			out.Hand = hand
			out.Trick = append(out.Trick, game.Play{PlayerID: m.playerID, Card: *m.pending})
			if out.ActiveSuit == "" {
				out.ActiveSuit = m.pending.Suit
			}
		}
	}
	return out
}

func (m *Mirror) player(id string) *PlayerView {
	for i := range m.view.Players {
		if m.view.Players[i].ID == id {
			return &m.view.Players[i]
		}
	}
	return nil
}
