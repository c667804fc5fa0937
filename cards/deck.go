package cards

import (
	"fmt"
	"math/rand"
	"time"
)

// MinPlayers and MaxPlayers bound how many hands a single deck is dealt into.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// NewDeck52 creates a standard deck of 52 unique cards
func NewDeck52() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range AllSuits() {
		for _, rank := range AllRanks() {
			deck = append(deck, Card{Suit: suit, Rank: rank})
		}
	}
	return deck
}

// Shuffle returns a uniformly shuffled copy of the deck
func Shuffle(deck []Card) []Card {
	return ShuffleWithRand(deck, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// ShuffleWithRand shuffles with the caller's rand source, so tests can seed it
func ShuffleWithRand(deck []Card, r *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)

	r.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return shuffled
}

// HandSize returns how many cards each player receives for a given player
// count. Hands are always equal; when 52 does not divide evenly the leftover
// cards are withheld from play entirely.
func HandSize(playerCount int) int {
	return 52 / playerCount
}

// Deal slices the deck into playerCount equal, disjoint hands. Leftover cards
// that cannot be dealt evenly stay in the deck and never enter play.
func Deal(deck []Card, playerCount int) ([]Hand, error) {
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return nil, fmt.Errorf("player count %d out of range [%d,%d]", playerCount, MinPlayers, MaxPlayers)
	}

	size := len(deck) / playerCount
	hands := make([]Hand, playerCount)
	for i := 0; i < playerCount; i++ {
		hand := make(Hand, size)
		copy(hand, deck[i*size:(i+1)*size])
		hands[i] = hand
	}

	return hands, nil
}
