package game

import (
	"github.com/thullagame/thulla/cards"
)

// Play is one card played into a trick, in play order.
type Play struct {
	PlayerID string     `json:"playerId"`
	Card     cards.Card `json:"card"`
	Thulla   bool       `json:"thulla"`
}

// Trick tracks the plays of one trick. Created empty when a trick begins,
// consumed on resolution, then discarded.
type Trick struct {
	LeadSuit cards.Suit `json:"leadSuit"` // "" before any play
	Plays    []Play     `json:"plays"`
}

// HasPlayed reports whether the player already played into this trick.
func (t *Trick) HasPlayed(playerID string) bool {
	for _, p := range t.Plays {
		if p.PlayerID == playerID {
			return true
		}
	}
	return false
}

// Cards returns the cards played so far, in play order.
func (t *Trick) Cards() []cards.Card {
	out := make([]cards.Card, len(t.Plays))
	for i, p := range t.Plays {
		out[i] = p.Card
	}
	return out
}

// RecordPlay appends a play and reports whether it is a thulla: the lead suit
// was set, the card is off-suit, and the player's hand before removal still
// held the lead suit. A forced off-suit discard is not a thulla.
func (t *Trick) RecordPlay(playerID string, card cards.Card, handBefore cards.Hand) bool {
	thulla := t.LeadSuit != "" && card.Suit != t.LeadSuit && handBefore.HasSuit(t.LeadSuit)

	if t.LeadSuit == "" {
		t.LeadSuit = card.Suit
	}
	t.Plays = append(t.Plays, Play{PlayerID: playerID, Card: card, Thulla: thulla})
	return thulla
}

// SeniorCard returns the highest-ranked play of the given suit. Ties cannot
// occur in a single deck. The second return is false if nobody played the
// suit, which cannot happen for the lead suit of a non-empty trick.
func (t *Trick) SeniorCard(suit cards.Suit) (Play, bool) {
	var senior Play
	found := false
	for _, p := range t.Plays {
		if p.Card.Suit != suit {
			continue
		}
		if !found || cards.Compare(p.Card, senior.Card) > 0 {
			senior = p
			found = true
		}
	}
	return senior, found
}

// Broken reports whether any play failed to follow the lead suit, whether as
// a thulla or as a forced legal discard. A broken trick's cards are picked
// up rather than discarded.
func (t *Trick) Broken() bool {
	for _, p := range t.Plays {
		if p.Card.Suit != t.LeadSuit {
			return true
		}
	}
	return false
}

// TrickResult is the outcome of resolving a trick.
type TrickResult struct {
	WinnerID  string
	PileTaken bool
}

// Resolve determines the senior-card holder and whether the trick's cards
// (plus any standing pile) are picked up. On a clean trick the winner leads
// next but the cards are discarded to the void.
func (t *Trick) Resolve() (TrickResult, bool) {
	senior, ok := t.SeniorCard(t.LeadSuit)
	if !ok {
		return TrickResult{}, false
	}
	return TrickResult{
		WinnerID:  senior.PlayerID,
		PileTaken: t.Broken(),
	}, true
}

// CanPlay reports whether the card is a legal play from the hand given the
// current lead suit. On the round's first trick only the Ace of Spades opens.
// With a lead suit set, the player must follow if able; a player out of the
// lead suit may play anything (a forced, legal discard).
func CanPlay(card cards.Card, hand cards.Hand, leadSuit cards.Suit, firstTrick bool) bool {
	if leadSuit == "" {
		if firstTrick {
			return card.Equals(cards.AceOfSpades)
		}
		return true
	}
	if hand.HasSuit(leadSuit) {
		return card.Suit == leadSuit
	}
	return true
}

// LegalPlays returns every card of the hand that CanPlay permits.
func LegalPlays(hand cards.Hand, leadSuit cards.Suit, firstTrick bool) cards.Hand {
	var out cards.Hand
	for _, c := range hand {
		if CanPlay(c, hand, leadSuit, firstTrick) {
			out = append(out, c)
		}
	}
	return out
}
