package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		{"Ace of Spades Unicode", "A♠", Card{Suit: Spades, Rank: Ace}, false},
		{"Ace of Spades lowercase", "As", Card{Suit: Spades, Rank: Ace}, false},
		{"Ace of Spades uppercase", "AS", Card{Suit: Spades, Rank: Ace}, false},
		{"Ten of Hearts Unicode", "10♥", Card{Suit: Hearts, Rank: Ten}, false},
		{"Ten of Hearts lowercase", "10h", Card{Suit: Hearts, Rank: Ten}, false},
		{"Queen of Diamonds", "Qd", Card{Suit: Diamonds, Rank: Queen}, false},
		{"Two of Clubs", "2c", Card{Suit: Clubs, Rank: Two}, false},
		{"King of Hearts", "Kh", Card{Suit: Hearts, Rank: King}, false},
		{"Jack of Hearts", "Jh", Card{Suit: Hearts, Rank: Jack}, false},
		{"Mixed case", "aS", Card{Suit: Spades, Rank: Ace}, false},

		{"Empty string", "", Card{}, true},
		{"Single char", "A", Card{}, true},
		{"Bad suit", "Ax", Card{}, true},
		{"Bad rank", "1♠", Card{}, true},
		{"Trailing space", "AS ", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestRankValue(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Two, 2},
		{Nine, 9},
		{Ten, 10},
		{Jack, 11},
		{Queen, 12},
		{King, 13},
		{Ace, 14},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, RankValue(tt.rank), "rank %s", tt.rank)
	}

	// Ranks must be strictly increasing in declared order.
	ranks := AllRanks()
	for i := 1; i < len(ranks); i++ {
		require.Less(t, RankValue(ranks[i-1]), RankValue(ranks[i]))
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		want int
	}{
		{"lower rank", Card{Hearts, Two}, Card{Hearts, Three}, -1},
		{"higher rank", Card{Hearts, Ace}, Card{Hearts, King}, 1},
		{"equal rank same suit", Card{Hearts, Five}, Card{Hearts, Five}, 0},
		{"equal rank cross suit", Card{Hearts, Five}, Card{Clubs, Five}, 0},
		{"suit never breaks ties", Card{Spades, Seven}, Card{Diamonds, Seven}, 0},
		{"ten below jack", Card{Clubs, Ten}, Card{Spades, Jack}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}
