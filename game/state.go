package game

import (
	"fmt"
	"sort"

	"github.com/thullagame/thulla/cards"
)

// Status represents the lifecycle state of a room's game.
type Status string

const (
	StatusWaiting        Status = "waiting"
	StatusDealing        Status = "dealing"
	StatusPlaying        Status = "playing"
	StatusThullaPending  Status = "thulla_pending"
	StatusTrickResolving Status = "trick_resolving"
	StatusFinished       Status = "finished"
)

// Seat describes a participant as supplied by the lobby at game start.
type Seat struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Seat  int    `json:"seat"`
	IsBot bool   `json:"isBot"`
}

// PlayerState is the authoritative per-player state. Hands are mutated only
// through event appliers.
type PlayerState struct {
	ID       string
	Name     string
	Seat     int
	IsBot    bool
	Active   bool
	Finished bool
	Hand     cards.Hand
}

// Eligible reports whether the player can still be scheduled to act.
func (p *PlayerState) Eligible() bool {
	return p.Active && !p.Finished
}

// State is the authoritative game state for one room.
type State struct {
	RoomID           string
	Status           Status
	Players          []*PlayerState // ascending seat order
	Trick            Trick
	Pile             cards.Hand
	Discarded        cards.Hand // cards gone from play for the round
	CurrentPlayerID  string
	StartingPlayerID string
	ActiveSuit       cards.Suit // mirrors Trick.LeadSuit, "" between tricks
	PendingPickerID  string     // senior-card holder owed the pile during thulla_pending
	TrickNumber      int
	FirstTrick       bool
	DealtCount       int
	WinnerID         string
	FinishOrder      []string
	Corrupt          bool
}

func newState(roomID string) *State {
	return &State{
		RoomID: roomID,
		Status: StatusWaiting,
	}
}

// Player returns the player with the given ID, or nil.
func (s *State) Player(id string) *PlayerState {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// sortPlayersBySeat keeps Players in ascending seat order, the sole ordering
// key for scheduling.
func (s *State) sortPlayersBySeat() {
	sort.Slice(s.Players, func(i, j int) bool {
		return s.Players[i].Seat < s.Players[j].Seat
	})
}

// playersWithCards counts players still holding at least one card.
func (s *State) playersWithCards() int {
	n := 0
	for _, p := range s.Players {
		if len(p.Hand) > 0 {
			n++
		}
	}
	return n
}

// trickComplete reports whether every eligible player has played into the
// current trick. Players who finished on their play this trick already
// count through their recorded play.
func (s *State) trickComplete() bool {
	for _, p := range s.Players {
		if p.Eligible() && !s.Trick.HasPlayed(p.ID) {
			return false
		}
	}
	return len(s.Trick.Plays) > 0
}

// checkConservation verifies that no card has been created, duplicated or
// lost: hands + pile + discarded + current trick must equal the dealt count.
func (s *State) checkConservation() error {
	if s.DealtCount == 0 {
		return nil
	}

	total := len(s.Pile) + len(s.Discarded) + len(s.Trick.Plays)
	for _, p := range s.Players {
		total += len(p.Hand)
	}
	if total != s.DealtCount {
		return fmt.Errorf("card count %d, expected %d", total, s.DealtCount)
	}

	seen := make(map[cards.Card]string, s.DealtCount)
	note := func(c cards.Card, where string) error {
		if prev, dup := seen[c]; dup {
			return fmt.Errorf("card %s held by both %s and %s", c, prev, where)
		}
		seen[c] = where
		return nil
	}
	for _, p := range s.Players {
		for _, c := range p.Hand {
			if err := note(c, "hand:"+p.ID); err != nil {
				return err
			}
		}
	}
	for _, c := range s.Pile {
		if err := note(c, "pile"); err != nil {
			return err
		}
	}
	for _, c := range s.Discarded {
		if err := note(c, "discarded"); err != nil {
			return err
		}
	}
	for _, play := range s.Trick.Plays {
		if err := note(play.Card, "trick"); err != nil {
			return err
		}
	}
	return nil
}
