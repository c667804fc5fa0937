package game

import (
	"github.com/thullagame/thulla/cards"
)

// The closed set of authoritative domain events. Every state mutation in a
// room is expressed as exactly one of these, appended to the room's event log
// before being applied.

// GameStarted represents the event when a room's game begins.
type GameStarted struct {
	RoomID  string `json:"roomId"`
	Players []Seat `json:"players"`
}

func (e GameStarted) EventName() string { return "GAME_STARTED" }

// CardsDealt represents the event when shuffled hands are distributed.
// The starting player is whoever was dealt the Ace of Spades.
type CardsDealt struct {
	RoomID           string                `json:"roomId"`
	Hands            map[string]cards.Hand `json:"hands"`
	StartingPlayerID string                `json:"startingPlayerId"`
}

func (e CardsDealt) EventName() string { return "CARDS_DEALT" }

// CardPlayed represents the event when a player's card enters the trick.
type CardPlayed struct {
	RoomID   string     `json:"roomId"`
	PlayerID string     `json:"playerId"`
	Card     cards.Card `json:"card"`
	Thulla   bool       `json:"thulla"`
}

func (e CardPlayed) EventName() string { return "CARD_PLAYED" }

// ThullaTriggered represents the event when a player breaks suit while
// holding the lead suit. The picker is the senior-card holder of the trick.
type ThullaTriggered struct {
	RoomID     string     `json:"roomId"`
	OffenderID string     `json:"offenderId"`
	Card       cards.Card `json:"card"`
	LeadSuit   cards.Suit `json:"leadSuit"`
	PickerID   string     `json:"pickerId"`
}

func (e ThullaTriggered) EventName() string { return "THULLA_TRIGGERED" }

// TrickCleared represents the event when a clean trick's cards leave play.
// The winner leads the next trick but does not receive the cards.
type TrickCleared struct {
	RoomID   string       `json:"roomId"`
	WinnerID string       `json:"winnerId"`
	Cards    []cards.Card `json:"cards"`
}

func (e TrickCleared) EventName() string { return "TRICK_CLEARED" }

// PilePickedUp represents the event when the trick plus any standing pile is
// absorbed into the senior-card holder's hand.
type PilePickedUp struct {
	RoomID   string       `json:"roomId"`
	PickerID string       `json:"pickerId"`
	Cards    []cards.Card `json:"cards"`
}

func (e PilePickedUp) EventName() string { return "PILE_PICKED_UP" }

// PlayerFinished represents the event when a player empties their hand.
type PlayerFinished struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Place    int    `json:"place"`
}

func (e PlayerFinished) EventName() string { return "PLAYER_FINISHED" }

// TurnChanged represents the event when the next player to act changes.
type TurnChanged struct {
	RoomID          string `json:"roomId"`
	CurrentPlayerID string `json:"currentPlayerId"`
}

func (e TurnChanged) EventName() string { return "TURN_CHANGED" }

// GameEnded represents the event when at most one player still holds cards.
type GameEnded struct {
	RoomID   string `json:"roomId"`
	WinnerID string `json:"winnerId"`
}

func (e GameEnded) EventName() string { return "GAME_ENDED" }
