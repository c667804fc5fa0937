package cards

// Hand represents the cards held by a single player
type Hand []Card

func (h Hand) String() string {
	var s string
	for i, c := range h {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s
}

// Contains checks whether the hand holds the given card
func (h Hand) Contains(card Card) bool {
	for _, c := range h {
		if c.Equals(card) {
			return true
		}
	}
	return false
}

// HasSuit checks whether the hand holds at least one card of the suit
func (h Hand) HasSuit(suit Suit) bool {
	for _, c := range h {
		if c.Suit == suit {
			return true
		}
	}
	return false
}

// OfSuit returns the cards of the given suit, in hand order
func (h Hand) OfSuit(suit Suit) Hand {
	var out Hand
	for _, c := range h {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}

// Remove returns a copy of the hand without the given card.
// The second return is false if the card was not held.
func (h Hand) Remove(card Card) (Hand, bool) {
	for i, c := range h {
		if c.Equals(card) {
			out := make(Hand, 0, len(h)-1)
			out = append(out, h[:i]...)
			out = append(out, h[i+1:]...)
			return out, true
		}
	}
	return h, false
}

// Lowest returns the lowest-ranked card in the hand.
// The second return is false for an empty hand.
func (h Hand) Lowest() (Card, bool) {
	if len(h) == 0 {
		return Card{}, false
	}
	low := h[0]
	for _, c := range h[1:] {
		if Compare(c, low) < 0 {
			low = c
		}
	}
	return low, true
}

// LowestOfSuit returns the lowest-ranked card of the given suit.
// The second return is false if the hand holds none of the suit.
func (h Hand) LowestOfSuit(suit Suit) (Card, bool) {
	return h.OfSuit(suit).Lowest()
}
