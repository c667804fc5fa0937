package game

import "time"

// Rules defines the per-room rule and pacing knobs.
type Rules struct {
	// StrictFollowing rejects an off-suit play from a player who holds the
	// lead suit instead of accepting it as a thulla. Off by default: the
	// violation-with-penalty is the game's namesake mechanic.
	StrictFollowing bool

	// BotSpeed scales the bot think-time band. 1.0 is human-ish pacing;
	// higher is faster.
	BotSpeed float64

	// ResolveDelay holds a completed or thulla'd trick on screen before
	// resolution. Presentation pacing only; zero resolves immediately.
	ResolveDelay time.Duration
}

// DefaultRules returns the standard rule set.
func DefaultRules() Rules {
	return Rules{
		StrictFollowing: false,
		BotSpeed:        1.0,
		ResolveDelay:    800 * time.Millisecond,
	}
}
