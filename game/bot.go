package game

import (
	"github.com/thullagame/thulla/cards"
)

// ChooseCard is the greedy bot policy: follow suit with the lowest eligible
// card, otherwise dump the lowest card in hand. Leading a trick it opens with
// the lowest card (the Ace of Spades when the round demands it). The engine
// still validates the choice against CanPlay before committing it.
func ChooseCard(hand cards.Hand, leadSuit cards.Suit, firstTrick bool) (cards.Card, bool) {
	if len(hand) == 0 {
		return cards.Card{}, false
	}

	if leadSuit == "" {
		if firstTrick {
			if hand.Contains(cards.AceOfSpades) {
				return cards.AceOfSpades, true
			}
			return cards.Card{}, false
		}
		low, _ := hand.Lowest()
		return low, true
	}

	if low, ok := hand.LowestOfSuit(leadSuit); ok {
		return low, true
	}

	low, _ := hand.Lowest()
	return low, true
}

// FallbackCard returns the lowest legal play, used when a bot policy returns
// an illegal choice. The second return is false when no legal play exists,
// which cannot happen for a non-empty hand on a player's turn.
func FallbackCard(hand cards.Hand, leadSuit cards.Suit, firstTrick bool) (cards.Card, bool) {
	return LegalPlays(hand, leadSuit, firstTrick).Lowest()
}
