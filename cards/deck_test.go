package cards

import (
	"math/rand"
	"testing"
)

func TestNewDeck52(t *testing.T) {
	deck := NewDeck52()

	if len(deck) != 52 {
		t.Errorf("Expected deck to have 52 cards, got %d", len(deck))
	}

	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Errorf("Duplicate card in deck: %s", c)
		}
		seen[c] = true
	}
}

func TestShuffle(t *testing.T) {
	originalDeck := NewDeck52()
	shuffledDeck := Shuffle(originalDeck)

	if len(shuffledDeck) != len(originalDeck) {
		t.Errorf("Shuffled deck length %d does not match original deck length %d",
			len(shuffledDeck), len(originalDeck))
	}

	// Check that cards moved (probabilistic but overwhelmingly likely)
	differences := 0
	for i := 0; i < len(originalDeck); i++ {
		if shuffledDeck[i] != originalDeck[i] {
			differences++
		}
	}

	if differences == 0 {
		t.Error("Shuffled deck is identical to original deck")
	}

	// The original must be untouched
	fresh := NewDeck52()
	for i := range originalDeck {
		if originalDeck[i] != fresh[i] {
			t.Error("Shuffle mutated its input")
			break
		}
	}
}

// TestShuffleUniformity checks that every card reaches every position with
// roughly equal frequency over many shuffles of a small deck.
func TestShuffleUniformity(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	deck := NewDeck52()[:4]

	const trials = 40000
	counts := [4][4]int{}
	for i := 0; i < trials; i++ {
		shuffled := ShuffleWithRand(deck, r)
		for pos, c := range shuffled {
			for orig, oc := range deck {
				if c == oc {
					counts[orig][pos]++
				}
			}
		}
	}

	// Each of the 16 (card, position) cells expects trials/4. Allow 5% drift,
	// far looser than the statistical bound for this many trials.
	expected := float64(trials) / 4
	for i := range counts {
		for j := range counts[i] {
			got := float64(counts[i][j])
			if got < expected*0.95 || got > expected*1.05 {
				t.Errorf("card %d landed at position %d %v times, expected about %v", i, j, got, expected)
			}
		}
	}
}

func TestDeal(t *testing.T) {
	tests := []struct {
		playerCount int
		handSize    int
		leftover    int
	}{
		{2, 26, 0},
		{3, 17, 1},
		{4, 13, 0},
		{5, 10, 2},
		{6, 8, 4},
	}

	for _, tt := range tests {
		deck := Shuffle(NewDeck52())
		hands, err := Deal(deck, tt.playerCount)
		if err != nil {
			t.Fatalf("Deal(%d players): %v", tt.playerCount, err)
		}

		if len(hands) != tt.playerCount {
			t.Errorf("Expected %d hands, got %d", tt.playerCount, len(hands))
		}

		dealt := 0
		seen := make(map[Card]bool)
		for _, hand := range hands {
			if len(hand) != tt.handSize {
				t.Errorf("%d players: expected hand of %d, got %d", tt.playerCount, tt.handSize, len(hand))
			}
			dealt += len(hand)
			for _, c := range hand {
				if seen[c] {
					t.Errorf("Card %s dealt twice", c)
				}
				seen[c] = true
			}
		}

		if 52-dealt != tt.leftover {
			t.Errorf("%d players: expected %d leftover cards, got %d", tt.playerCount, tt.leftover, 52-dealt)
		}
	}
}

func TestDealRejectsBadPlayerCounts(t *testing.T) {
	deck := NewDeck52()
	for _, count := range []int{0, 1, 7, -1} {
		if _, err := Deal(deck, count); err == nil {
			t.Errorf("Deal with %d players should fail", count)
		}
	}
}
