package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomManager_Create(t *testing.T) {
	rm := NewRoomManager()

	room := rm.Create("a", "b")
	require.NotEmpty(t, room.ID)
	assert.Equal(t, []string{"a", "b"}, room.Users)
	assert.False(t, room.CreatedAt.IsZero())
	assert.Equal(t, 1, rm.Count())

	got, ok := rm.Get(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)
}

func TestRoomManager_RemoveParticipant(t *testing.T) {
	rm := NewRoomManager()
	room := rm.Create("a", "b")

	mutated, remaining, found := rm.RemoveParticipant("a")
	require.True(t, found)
	assert.Equal(t, room.ID, mutated.ID)
	assert.Equal(t, "b", remaining)
	assert.Equal(t, []string{"b"}, mutated.Users)
	assert.Equal(t, 1, rm.Count())

	// Removing the last member deletes the room.
	_, remaining, found = rm.RemoveParticipant("b")
	require.True(t, found)
	assert.Empty(t, remaining)
	assert.Equal(t, 0, rm.Count())
}

func TestRoomManager_RemoveParticipantUnknown(t *testing.T) {
	rm := NewRoomManager()
	rm.Create("a", "b")

	_, _, found := rm.RemoveParticipant("zz")
	assert.False(t, found)
	assert.Equal(t, 1, rm.Count())
}

func TestRoomManager_SnapshotFiltersUnregistered(t *testing.T) {
	registry := NewPresenceRegistry()
	rm := NewRoomManager()

	_, err := registry.Register("a", "10.0.0.1")
	require.NoError(t, err)
	room := rm.Create("a", "ghost")

	snaps := rm.Snapshot(registry)
	require.Len(t, snaps, 1)
	assert.Equal(t, room.ID, snaps[0].ID)
	assert.Equal(t, []string{"a"}, snaps[0].Users)

	// The stored room keeps its full member list; only the view is filtered.
	got, ok := rm.Get(room.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "ghost"}, got.Users)
}

func TestRoomManager_SnapshotPrunesEmptyRooms(t *testing.T) {
	registry := NewPresenceRegistry()
	rm := NewRoomManager()

	rm.Create("ghost1", "ghost2")

	snaps := rm.Snapshot(registry)
	assert.Empty(t, snaps)
	assert.Equal(t, 0, rm.Count())
}
