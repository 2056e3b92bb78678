package registry

import (
	"sync"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
)

// GameRegistry is the bounded table of active games. A game's id is its
// slot index, so ids are reused after Free. The registry lock only guards
// the table; each game's state is behind the game's own lock, and the two
// are never held together.
type GameRegistry struct {
	mu    sync.Mutex
	slots []*entity.Game
}

func NewGameRegistry(capacity int) *GameRegistry {
	return &GameRegistry{
		slots: make([]*entity.Game, capacity),
	}
}

// Allocate claims the first free slot for a new waiting game.
func (that *GameRegistry) Allocate(creatorID int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for i, slot := range that.slots {
		if slot == nil {
			game := entity.NewGame(i, creatorID)
			that.slots[i] = game

			return game, nil
		}
	}

	return nil, apperror.ErrNoFreeGames
}

func (that *GameRegistry) Find(gameID int) (*entity.Game, bool) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if gameID < 0 || gameID >= len(that.slots) {
		return nil, false
	}

	if that.slots[gameID] == nil {
		return nil, false
	}

	return that.slots[gameID], true
}

// Free marks the slot reusable. Idempotent.
func (that *GameRegistry) Free(gameID int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if gameID < 0 || gameID >= len(that.slots) {
		return
	}

	that.slots[gameID] = nil
}

// Snapshots returns a consistent copy of every active game. Game locks are
// taken one at a time after the table scan, never under the registry lock.
func (that *GameRegistry) Snapshots() []entity.GameSnapshot {
	that.mu.Lock()
	games := make([]*entity.Game, 0, len(that.slots))
	for _, slot := range that.slots {
		if slot != nil {
			games = append(games, slot)
		}
	}
	that.mu.Unlock()

	snapshots := make([]entity.GameSnapshot, 0, len(games))
	for _, game := range games {
		snapshots = append(snapshots, game.Snapshot())
	}

	return snapshots
}
