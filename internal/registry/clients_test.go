package registry

import (
	"strings"
	"testing"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistry_Register(t *testing.T) {
	t.Run("Assigns monotonically increasing ids", func(t *testing.T) {
		// Given: an empty registry
		clients := NewClientRegistry(4)

		// When: registering three clients
		first, err := clients.Register()
		require.NoError(t, err)
		second, err := clients.Register()
		require.NoError(t, err)
		third, err := clients.Register()
		require.NoError(t, err)

		// Then: ids increase and start at 1
		assert.Equal(t, 1, first.ID)
		assert.Equal(t, 2, second.ID)
		assert.Equal(t, 3, third.ID)
	})

	t.Run("Fails with ErrServerFull at capacity", func(t *testing.T) {
		clients := NewClientRegistry(1)

		_, err := clients.Register()
		require.NoError(t, err)

		_, err = clients.Register()
		assert.ErrorIs(t, err, apperror.ErrServerFull)
	})

	t.Run("Reuses a freed slot but never reuses an id", func(t *testing.T) {
		// Given: a full registry of one
		clients := NewClientRegistry(1)
		first, err := clients.Register()
		require.NoError(t, err)

		// When: the client disconnects and a new one registers
		clients.Unregister(first.ID)
		second, err := clients.Register()

		// Then: the slot is reused with a fresh id
		require.NoError(t, err)
		assert.Greater(t, second.ID, first.ID)
	})
}

func TestClientRegistry_Unregister(t *testing.T) {
	t.Run("Is idempotent", func(t *testing.T) {
		clients := NewClientRegistry(2)
		player, err := clients.Register()
		require.NoError(t, err)

		clients.Unregister(player.ID)
		clients.Unregister(player.ID)

		_, ok := clients.Find(player.ID)
		assert.False(t, ok)
	})
}

func TestClientRegistry_FindByUsername(t *testing.T) {
	t.Run("Returns the first match when usernames collide", func(t *testing.T) {
		// Given: two clients that chose the same name
		clients := NewClientRegistry(4)
		first, err := clients.Register()
		require.NoError(t, err)
		second, err := clients.Register()
		require.NoError(t, err)

		clients.SetUsername(first.ID, "alice")
		clients.SetUsername(second.ID, "alice")

		// When: resolving the name
		found, ok := clients.FindByUsername("alice")

		// Then: the earlier slot wins
		require.True(t, ok)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("Returns false for an unknown name", func(t *testing.T) {
		clients := NewClientRegistry(2)

		_, ok := clients.FindByUsername("nobody")

		assert.False(t, ok)
	})
}

func TestClientRegistry_SetUsername(t *testing.T) {
	t.Run("Truncates names longer than the wire limit", func(t *testing.T) {
		clients := NewClientRegistry(1)
		player, err := clients.Register()
		require.NoError(t, err)

		clients.SetUsername(player.ID, strings.Repeat("a", entity.MaxUsernameLen+10))

		found, ok := clients.Find(player.ID)
		require.True(t, ok)
		assert.Len(t, found.Username, entity.MaxUsernameLen)
	})
}

func TestClientRegistry_GameRefs(t *testing.T) {
	t.Run("SetCurrentGame and ClearGameRefs update membership", func(t *testing.T) {
		// Given: two clients in game 7
		clients := NewClientRegistry(4)
		first, err := clients.Register()
		require.NoError(t, err)
		second, err := clients.Register()
		require.NoError(t, err)

		clients.SetCurrentGame(first.ID, 7)
		clients.SetCurrentGame(second.ID, 7)

		// When: the game is torn down
		clients.ClearGameRefs(7)

		// Then: neither client references it anymore
		found, _ := clients.Find(first.ID)
		assert.Equal(t, entity.NoGame, found.GameID)
		found, _ = clients.Find(second.ID)
		assert.Equal(t, entity.NoGame, found.GameID)
	})
}

func TestClientRegistry_ConnectedIDs(t *testing.T) {
	t.Run("Excludes the given id", func(t *testing.T) {
		clients := NewClientRegistry(4)
		first, err := clients.Register()
		require.NoError(t, err)
		second, err := clients.Register()
		require.NoError(t, err)

		ids := clients.ConnectedIDs(first.ID)

		assert.Equal(t, []int{second.ID}, ids)
	})

	t.Run("NoPlayer excludes nobody", func(t *testing.T) {
		clients := NewClientRegistry(4)
		first, err := clients.Register()
		require.NoError(t, err)
		second, err := clients.Register()
		require.NoError(t, err)

		ids := clients.ConnectedIDs(entity.NoPlayer)

		assert.ElementsMatch(t, []int{first.ID, second.ID}, ids)
	})
}
