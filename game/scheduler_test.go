package game

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func eligiblePlayers(ids ...string) []*PlayerState {
	players := make([]*PlayerState, 0, len(ids))
	for i, id := range ids {
		players = append(players, &PlayerState{ID: id, Seat: i, Active: true})
	}
	return players
}

func TestNextEligibleWalksSeatsWithWrap(t *testing.T) {
	players := eligiblePlayers("p1", "p2", "p3", "p4")

	assert.Equal(t, "p2", NextEligible(players, "p1"))
	assert.Equal(t, "p1", NextEligible(players, "p4"), "the walk wraps around the table")
}

func TestNextEligibleSkipsFinishedAndInactive(t *testing.T) {
	players := eligiblePlayers("p1", "p2", "p3", "p4")
	players[1].Finished = true
	players[2].Active = false

	assert.Equal(t, "p4", NextEligible(players, "p1"))
}

func TestNextEligibleFromUnknownStartsAtLowestSeat(t *testing.T) {
	players := eligiblePlayers("p1", "p2", "p3")
	players[0].Finished = true

	assert.Equal(t, "p2", NextEligible(players, "ghost"))
}

func TestNextEligibleSoleSurvivorKeepsTurn(t *testing.T) {
	players := eligiblePlayers("p1", "p2", "p3")
	players[0].Finished = true
	players[2].Finished = true

	assert.Equal(t, "p2", NextEligible(players, "p2"))
}

func TestNextEligibleNobodyLeft(t *testing.T) {
	players := eligiblePlayers("p1", "p2")
	players[0].Finished = true
	players[1].Finished = true

	assert.Empty(t, NextEligible(players, "p1"))
	assert.Empty(t, NextEligible(nil, "p1"))
}

func TestLeaderOrNext(t *testing.T) {
	players := eligiblePlayers("p1", "p2", "p3")
	assert.Equal(t, "p2", LeaderOrNext(players, "p2"), "an eligible winner leads the next trick")

	players[1].Finished = true
	assert.Equal(t, "p3", LeaderOrNext(players, "p2"), "a finished winner passes the lead clockwise")
}

func TestThinkDelayScalesWithSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		d := ThinkDelay(rng, 1.0)
		assert.GreaterOrEqual(t, d, 600*time.Millisecond)
		assert.Less(t, d, 1800*time.Millisecond)

		fast := ThinkDelay(rng, 10.0)
		assert.Less(t, fast, 180*time.Millisecond)
	}
}

func TestThinkTimerStopCancelsPendingCallback(t *testing.T) {
	var timer ThinkTimer
	fired := make(chan struct{}, 1)

	timer.Schedule(10*time.Millisecond, func() { fired <- struct{}{} })
	timer.Stop()

	select {
	case <-fired:
		t.Fatal("stopped callback must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestThinkTimerRescheduleSupersedes(t *testing.T) {
	var timer ThinkTimer
	fired := make(chan string, 2)

	timer.Schedule(10*time.Millisecond, func() { fired <- "first" })
	timer.Schedule(20*time.Millisecond, func() { fired <- "second" })

	select {
	case got := <-fired:
		assert.Equal(t, "second", got)
	case <-time.After(200 * time.Millisecond):
		t.Fatal("rescheduled callback never fired")
	}

	select {
	case <-fired:
		t.Fatal("superseded callback must not fire")
	case <-time.After(50 * time.Millisecond):
	}
}
