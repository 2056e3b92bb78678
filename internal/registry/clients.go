// Package registry holds the two fixed-capacity shared registries: connected
// clients and active games. Each registry owns one lock; iteration never
// escapes it (callers get copies, not references into the slot tables).
package registry

import (
	"sync"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
)

// ClientRegistry is the bounded set of connected sessions. Slots are reused
// first-free-index after a disconnect; client ids are monotonic and never
// reused while the process runs.
type ClientRegistry struct {
	mu     sync.Mutex
	slots  []*entity.Player
	nextID int
}

func NewClientRegistry(capacity int) *ClientRegistry {
	return &ClientRegistry{
		slots: make([]*entity.Player, capacity),
	}
}

// Register claims the first free slot and assigns a fresh id.
func (that *ClientRegistry) Register() (entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, slot := range that.slots {
		if slot != nil {
			continue
		}

		that.nextID++
		player := &entity.Player{
			ID:        that.nextID,
			Connected: true,
			GameID:    entity.NoGame,
		}
		that.slots[i] = player

		return *player, nil
	}

	return entity.Player{}, apperror.ErrServerFull
}

// SetUsername records the login name, truncated to the wire limit.
func (that *ClientRegistry) SetUsername(id int, username string) {
	if len(username) > entity.MaxUsernameLen {
		username = username[:entity.MaxUsernameLen]
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if player := that.findLocked(id); player != nil {
		player.Username = username
	}
}

// Unregister frees the client's slot. Idempotent; the id is never handed
// out again.
func (that *ClientRegistry) Unregister(id int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, slot := range that.slots {
		if slot != nil && slot.ID == id {
			that.slots[i] = nil
			return
		}
	}
}

func (that *ClientRegistry) Find(id int) (entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if player := that.findLocked(id); player != nil {
		return *player, true
	}

	return entity.Player{}, false
}

// FindByUsername returns the first connected client with that name, in slot
// order. Usernames are not unique; duplicates resolve to the first match.
func (that *ClientRegistry) FindByUsername(username string) (entity.Player, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, slot := range that.slots {
		if slot != nil && slot.Connected && slot.Username == username {
			return *slot, true
		}
	}

	return entity.Player{}, false
}

// SetCurrentGame points the client's game reference at gameID
// (entity.NoGame clears it).
func (that *ClientRegistry) SetCurrentGame(id, gameID int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if player := that.findLocked(id); player != nil {
		player.GameID = gameID
	}
}

// ClearGameRefs drops every reference to gameID, for game teardown.
func (that *ClientRegistry) ClearGameRefs(gameID int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for _, slot := range that.slots {
		if slot != nil && slot.GameID == gameID {
			slot.GameID = entity.NoGame
		}
	}
}

// ConnectedIDs returns the ids of every connected client except excludeID
// (entity.NoPlayer excludes nobody).
func (that *ClientRegistry) ConnectedIDs(excludeID int) []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	var ids []int
	for _, slot := range that.slots {
		if slot != nil && slot.Connected && slot.ID != excludeID {
			ids = append(ids, slot.ID)
		}
	}

	return ids
}

func (that *ClientRegistry) findLocked(id int) *entity.Player {
	for _, slot := range that.slots {
		if slot != nil && slot.ID == id {
			return slot
		}
	}
	return nil
}
