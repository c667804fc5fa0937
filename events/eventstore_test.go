package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Label string
}

func (e testEvent) EventName() string { return "TEST_EVENT" }

func TestAppendAssignsDenseSequence(t *testing.T) {
	store := NewInMemoryStore()

	for i := 1; i <= 5; i++ {
		rec, err := store.Append("room-1", testEvent{Label: "e"})
		require.NoError(t, err)
		assert.Equal(t, uint64(i), rec.Seq)
		assert.Equal(t, "room-1", rec.RoomID)
	}

	assert.Equal(t, uint64(5), store.LatestSeq("room-1"))
}

func TestRoomsAreIsolated(t *testing.T) {
	store := NewInMemoryStore()

	_, err := store.Append("room-a", testEvent{})
	require.NoError(t, err)
	rec, err := store.Append("room-b", testEvent{})
	require.NoError(t, err)

	// Each room numbers from 1 independently.
	assert.Equal(t, uint64(1), rec.Seq)

	a, err := store.Load("room-a")
	require.NoError(t, err)
	assert.Len(t, a, 1)

	assert.Equal(t, uint64(0), store.LatestSeq("room-unknown"))
}

func TestSince(t *testing.T) {
	store := NewInMemoryStore()
	for i := 0; i < 4; i++ {
		_, err := store.Append("room-1", testEvent{})
		require.NoError(t, err)
	}

	recs, err := store.Since("room-1", 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, uint64(3), recs[0].Seq)
	assert.Equal(t, uint64(4), recs[1].Seq)

	recs, err = store.Since("room-1", 0)
	require.NoError(t, err)
	assert.Len(t, recs, 4)

	recs, err = store.Since("room-1", 99)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestDrop(t *testing.T) {
	store := NewInMemoryStore()
	_, err := store.Append("room-1", testEvent{})
	require.NoError(t, err)

	store.Drop("room-1")
	assert.Equal(t, uint64(0), store.LatestSeq("room-1"))

	rec, err := store.Append("room-1", testEvent{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.Seq)
}
