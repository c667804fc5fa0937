package mirror

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/events"
	"github.com/thullagame/thulla/game"
)

func rec(seq uint64, event events.Event) events.Record {
	return events.Record{RoomID: "room-1", Seq: seq, Event: event}
}

func mustCard(t *testing.T, shorthand string) cards.Card {
	t.Helper()
	c, err := cards.CardFromString(shorthand)
	require.NoError(t, err)
	return c
}

func mustHand(t *testing.T, shorthands ...string) cards.Hand {
	t.Helper()
	hand := make(cards.Hand, 0, len(shorthands))
	for _, s := range shorthands {
		hand = append(hand, mustCard(t, s))
	}
	return hand
}

func startedMirror(t *testing.T) *Mirror {
	t.Helper()
	m := New("p1")
	require.True(t, m.Apply(rec(1, game.GameStarted{
		RoomID: "room-1",
		Players: []game.Seat{
			{ID: "p1", Name: "Asha", Seat: 0},
			{ID: "p2", Name: "Bilal", Seat: 1, IsBot: true},
		},
	})))
	require.True(t, m.Apply(rec(2, game.CardsDealt{
		RoomID: "room-1",
		Hands: map[string]cards.Hand{
			// Redacted delivery: only the recipient's own hand has cards.
			"p1": mustHand(t, "As", "5h", "7d"),
			"p2": nil,
		},
		StartingPlayerID: "p1",
	})))
	require.True(t, m.Apply(rec(3, game.TurnChanged{RoomID: "room-1", CurrentPlayerID: "p1"})))
	return m
}

func TestMirrorFollowsDeal(t *testing.T) {
	m := startedMirror(t)

	view := m.View()
	assert.Equal(t, game.StatusPlaying, view.Status)
	assert.Equal(t, "p1", view.CurrentPlayerID)
	assert.ElementsMatch(t, mustHand(t, "As", "5h", "7d"), view.Hand)
	for _, p := range view.Players {
		assert.Equal(t, 3, p.HandSize, "hand sizes come from the deal, not the cards")
	}
}

func TestMirrorApplyIsIdempotent(t *testing.T) {
	m := startedMirror(t)
	played := rec(4, game.CardPlayed{RoomID: "room-1", PlayerID: "p1", Card: mustCard(t, "As")})

	require.True(t, m.Apply(played))
	before := m.View()

	// At-least-once delivery: the duplicate is a no-op.
	assert.False(t, m.Apply(played))
	assert.Equal(t, before, m.View())
	assert.Len(t, before.Hand, 2)
	assert.Len(t, before.Trick, 1)
}

func TestMirrorStaleRecordIgnored(t *testing.T) {
	m := startedMirror(t)
	require.Equal(t, uint64(3), m.LastSeq())

	assert.False(t, m.Apply(rec(2, game.TurnChanged{RoomID: "room-1", CurrentPlayerID: "p2"})))
	assert.Equal(t, "p1", m.View().CurrentPlayerID)
}

func TestMirrorOtherPlayersTracked(t *testing.T) {
	m := startedMirror(t)

	require.True(t, m.Apply(rec(4, game.CardPlayed{RoomID: "room-1", PlayerID: "p2", Card: mustCard(t, "2s")})))

	view := m.View()
	assert.ElementsMatch(t, mustHand(t, "As", "5h", "7d"), view.Hand, "own hand untouched")
	assert.Equal(t, cards.Spades, view.ActiveSuit)
	for _, p := range view.Players {
		if p.ID == "p2" {
			assert.Equal(t, 2, p.HandSize)
		}
	}
}

func TestMirrorThullaAndPickup(t *testing.T) {
	m := startedMirror(t)

	require.True(t, m.Apply(rec(4, game.CardPlayed{RoomID: "room-1", PlayerID: "p1", Card: mustCard(t, "5h")})))
	require.True(t, m.Apply(rec(5, game.CardPlayed{RoomID: "room-1", PlayerID: "p2", Card: mustCard(t, "3c"), Thulla: true})))
	require.True(t, m.Apply(rec(6, game.ThullaTriggered{
		RoomID: "room-1", OffenderID: "p2", Card: mustCard(t, "3c"),
		LeadSuit: cards.Hearts, PickerID: "p1",
	})))

	view := m.View()
	assert.Equal(t, game.StatusThullaPending, view.Status)
	assert.Empty(t, view.Trick)
	assert.Equal(t, 2, view.PileSize)

	require.True(t, m.Apply(rec(7, game.PilePickedUp{
		RoomID: "room-1", PickerID: "p1", Cards: mustHand(t, "5h", "3c"),
	})))

	view = m.View()
	assert.Equal(t, game.StatusPlaying, view.Status)
	assert.Zero(t, view.PileSize)
	assert.ElementsMatch(t, mustHand(t, "As", "7d", "5h", "3c"), view.Hand, "the pile lands back in the picker's hand")
	assert.Empty(t, view.ActiveSuit)
}

func TestMirrorOptimisticPlayConfirmedByEvent(t *testing.T) {
	m := startedMirror(t)

	m.PlayOptimistically(mustCard(t, "As"))

	view := m.View()
	assert.Len(t, view.Hand, 2, "the pending card leaves the rendered hand immediately")
	require.Len(t, view.Trick, 1)
	assert.Equal(t, mustCard(t, "As"), view.Trick[0].Card)
	assert.Equal(t, cards.Spades, view.ActiveSuit)

	// The authoritative event confirms the overlay without double-removal.
	require.True(t, m.Apply(rec(4, game.CardPlayed{RoomID: "room-1", PlayerID: "p1", Card: mustCard(t, "As")})))
	view = m.View()
	assert.Len(t, view.Hand, 2)
	assert.Len(t, view.Trick, 1)
}

func TestMirrorOptimisticPlayRollback(t *testing.T) {
	m := startedMirror(t)

	m.PlayOptimistically(mustCard(t, "5h"))
	require.Len(t, m.View().Hand, 2)

	m.Rollback()

	view := m.View()
	assert.ElementsMatch(t, mustHand(t, "As", "5h", "7d"), view.Hand)
	assert.Empty(t, view.Trick)
}

func TestMirrorResyncFromSnapshot(t *testing.T) {
	m := startedMirror(t)
	m.PlayOptimistically(mustCard(t, "As"))

	snap := game.Snapshot{
		RoomID:          "room-1",
		Seq:             42,
		Status:          game.StatusPlaying,
		CurrentPlayerID: "p2",
		ActiveSuit:      cards.Hearts,
		Trick: game.Trick{LeadSuit: cards.Hearts, Plays: []game.Play{
			{PlayerID: "p1", Card: mustCard(t, "5h")},
		}},
		Players: []game.PlayerSnapshot{
			{ID: "p1", Name: "Asha", Seat: 0, HandSize: 2, Hand: mustHand(t, "As", "7d")},
			{ID: "p2", Name: "Bilal", Seat: 1, IsBot: true, HandSize: 3},
		},
	}
	m.ResyncFrom(snap)

	assert.Equal(t, uint64(42), m.LastSeq())
	view := m.View()
	assert.Equal(t, "p2", view.CurrentPlayerID)
	assert.ElementsMatch(t, mustHand(t, "As", "7d"), view.Hand)
	assert.Len(t, view.Trick, 1)

	// Events older than the snapshot no longer apply.
	assert.False(t, m.Apply(rec(10, game.TurnChanged{RoomID: "room-1", CurrentPlayerID: "p1"})))
}

func TestMirrorGameEnd(t *testing.T) {
	m := startedMirror(t)

	require.True(t, m.Apply(rec(4, game.PlayerFinished{RoomID: "room-1", PlayerID: "p2", Place: 1})))
	require.True(t, m.Apply(rec(5, game.GameEnded{RoomID: "room-1", WinnerID: "p2"})))

	view := m.View()
	assert.Equal(t, game.StatusFinished, view.Status)
	assert.Equal(t, "p2", view.WinnerID)
	assert.Empty(t, view.CurrentPlayerID)
	for _, p := range view.Players {
		if p.ID == "p2" {
			assert.True(t, p.Finished)
		}
	}
}
