package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilthontt/drift/internal/domain"
)

func TestPresenceRegistry_Register(t *testing.T) {
	r := NewPresenceRegistry()

	p, err := r.Register("u1", "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "10.0.0.1", p.IP)
	assert.Equal(t, domain.StatusWaiting, p.Status)
	assert.False(t, p.ConnectedAt.IsZero())
	assert.Equal(t, 1, r.Count())
}

func TestPresenceRegistry_RegisterDuplicate(t *testing.T) {
	r := NewPresenceRegistry()

	first, err := r.Register("u1", "10.0.0.1")
	require.NoError(t, err)

	_, err = r.Register("u1", "10.0.0.2")
	require.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	// The original entry survives untouched.
	got, ok := r.Get("u1")
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, "10.0.0.1", got.IP)
	assert.Equal(t, 1, r.Count())
}

func TestPresenceRegistry_Remove(t *testing.T) {
	r := NewPresenceRegistry()

	_, err := r.Register("u1", "10.0.0.1")
	require.NoError(t, err)

	r.Remove("u1")
	_, ok := r.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())

	// Removing again is a no-op.
	r.Remove("u1")
	assert.Equal(t, 0, r.Count())
}

func TestPresenceRegistry_AllConnectionOrder(t *testing.T) {
	r := NewPresenceRegistry()

	for _, id := range []string{"c", "a", "b"} {
		_, err := r.Register(id, "10.0.0.1")
		require.NoError(t, err)
	}
	r.Remove("a")

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
}

func TestPresenceRegistry_AllReturnsCopies(t *testing.T) {
	r := NewPresenceRegistry()

	_, err := r.Register("u1", "10.0.0.1")
	require.NoError(t, err)

	all := r.All()
	all[0].Status = domain.StatusChatting

	got, ok := r.Get("u1")
	require.True(t, ok)
	assert.Equal(t, domain.StatusWaiting, got.Status)
}
