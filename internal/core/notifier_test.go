package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilthontt/drift/internal/domain"
)

func TestBroadcastNotifier_Authenticate(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		supplied string
		want     bool
	}{
		{name: "correct secret", secret: "s3cret", supplied: "s3cret", want: true},
		{name: "wrong secret", secret: "s3cret", supplied: "nope", want: false},
		{name: "empty supplied", secret: "s3cret", supplied: "", want: false},
		{name: "no secret configured rejects everything", secret: "", supplied: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewBroadcastNotifier(&recordingEmitter{}, tt.secret)

			got := n.Authenticate("u1", tt.supplied)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, n.IsObserver("u1"))
		})
	}
}

func TestBroadcastNotifier_Forget(t *testing.T) {
	n := NewBroadcastNotifier(&recordingEmitter{}, "s3cret")
	require.True(t, n.Authenticate("u1", "s3cret"))

	n.Forget("u1")
	assert.False(t, n.IsObserver("u1"))
	assert.False(t, n.HasObservers())

	// Forgetting a non-observer is a no-op.
	n.Forget("u2")
}

func TestBroadcastNotifier_ObserverIDsSorted(t *testing.T) {
	n := NewBroadcastNotifier(&recordingEmitter{}, "s3cret")
	for _, id := range []string{"zz", "aa", "mm"} {
		require.True(t, n.Authenticate(id, "s3cret"))
	}

	assert.Equal(t, []string{"aa", "mm", "zz"}, n.ObserverIDs())
	assert.Equal(t, 3, n.ObserverCount())
}

func TestBroadcastNotifier_Publish(t *testing.T) {
	em := &recordingEmitter{}
	n := NewBroadcastNotifier(em, "s3cret")
	require.True(t, n.Authenticate("u1", "s3cret"))
	require.True(t, n.Authenticate("u2", "s3cret"))

	n.Publish(domain.Snapshot{})

	events := em.eventsFor("u1")
	require.Len(t, events, 1)
	assert.Equal(t, EventAdminData, events[0].Name)

	events = em.eventsFor("u2")
	require.Len(t, events, 1)
	assert.Equal(t, EventAdminData, events[0].Name)
}
