package game

import (
	"math/rand"
	"sync"
	"time"
)

// NextEligible returns the ID of the next player to act after currentID,
// walking seat order ascending with wrap and skipping inactive or finished
// players. If currentID is not eligible or unknown, the walk starts from the
// lowest eligible seat. Returns "" when no eligible player remains.
func NextEligible(players []*PlayerState, currentID string) string {
	if len(players) == 0 {
		return ""
	}

	current := -1
	for i, p := range players {
		if p.ID == currentID {
			current = i
			break
		}
	}

	if current == -1 {
		for _, p := range players {
			if p.Eligible() {
				return p.ID
			}
		}
		return ""
	}

	for i := 1; i <= len(players); i++ {
		p := players[(current+i)%len(players)]
		if p.ID == currentID {
			break
		}
		if p.Eligible() {
			return p.ID
		}
	}
	if players[current].Eligible() {
		// Everyone else is out; the current player keeps the turn.
		return currentID
	}
	return ""
}

// LeaderOrNext returns winnerID if that player is still eligible to lead the
// next trick, otherwise the next eligible player after their seat.
func LeaderOrNext(players []*PlayerState, winnerID string) string {
	for _, p := range players {
		if p.ID == winnerID && p.Eligible() {
			return winnerID
		}
	}
	return NextEligible(players, winnerID)
}

// ThinkDelay picks a randomized think-time within the pacing band, scaled
// down by the speed multiplier.
func ThinkDelay(r *rand.Rand, speed float64) time.Duration {
	const (
		minThink = 600 * time.Millisecond
		maxThink = 1800 * time.Millisecond
	)
	if speed <= 0 {
		speed = 1
	}
	d := minThink + time.Duration(r.Int63n(int64(maxThink-minThink)))
	return time.Duration(float64(d) / speed)
}

// ThinkTimer schedules a single pending callback after a delay. Scheduling
// again or stopping cancels the pending callback; a stale timer that fires
// after cancellation never runs its callback. This is what keeps a restart
// from committing a bot play scheduled before the restart.
type ThinkTimer struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   int
}

// Schedule cancels any pending callback and arms a new one.
func (t *ThinkTimer) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen

	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		stale := gen != t.gen
		t.mu.Unlock()
		if stale {
			return
		}
		fn()
	})
}

// Stop cancels any pending callback without firing it.
func (t *ThinkTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
