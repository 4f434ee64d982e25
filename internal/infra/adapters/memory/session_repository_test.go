package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_Lifecycle(t *testing.T) {
	repo := NewSessionRepository()

	repo.Add("c1")

	session, ok := repo.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "c1", session.ConnID)
	assert.False(t, session.Active())

	repo.SetRoom("c1", "AB12CD", "Alice")

	session, ok = repo.Get("c1")
	require.True(t, ok)
	assert.True(t, session.Active())
	assert.Equal(t, "AB12CD", session.RoomID)
	assert.Equal(t, "Alice", session.Username)

	repo.ClearRoom("c1")

	session, ok = repo.Get("c1")
	require.True(t, ok)
	assert.False(t, session.Active())
	// Display name survives leaving the room.
	assert.Equal(t, "Alice", session.Username)

	repo.Remove("c1")

	_, ok = repo.Get("c1")
	assert.False(t, ok)
}

func TestSessionRepository_UnknownConnection(t *testing.T) {
	repo := NewSessionRepository()

	_, ok := repo.Get("ghost")
	assert.False(t, ok)

	// Mutations on unknown connections are no-ops.
	repo.SetRoom("ghost", "AB12CD", "Alice")
	repo.ClearRoom("ghost")
	repo.Remove("ghost")

	_, ok = repo.Get("ghost")
	assert.False(t, ok)
}
