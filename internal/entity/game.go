package entity

import (
	"sync"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
)

const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusFinished   = "finished"
)

// WinnerDraw is the Winner value of a drawn game; NoPlayer means no outcome yet.
const WinnerDraw = -1

const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// JoinRequest is a non-creator's ask to become the opponent of a waiting
// game. Requests are kept after resolution; disposition changes are one-way.
type JoinRequest struct {
	RequesterID int
	Disposition string
}

// Game is one two-player board contest. All state behind the mutex; callers
// go through the methods or Snapshot, never through the fields directly
// while the game is shared.
type Game struct {
	mu sync.Mutex

	ID         int
	Board      Board
	Status     string
	CreatorID  int
	OpponentID int
	Turn       int
	Winner     int
	Requests   []*JoinRequest

	// firstTurn is the opener of the current round; it alternates between
	// the participants on every rematch.
	firstTurn int
}

// GameSnapshot is a consistent copy of one game's state, safe to read
// without holding the game lock.
type GameSnapshot struct {
	ID         int
	Board      Board
	Status     string
	CreatorID  int
	OpponentID int
	Turn       int
	Winner     int
}

func NewGame(id, creatorID int) *Game {
	return &Game{
		ID:         id,
		Board:      NewBoard(),
		Status:     StatusWaiting,
		CreatorID:  creatorID,
		OpponentID: NoPlayer,
		Turn:       creatorID,
		Winner:     NoPlayer,
		firstTurn:  creatorID,
	}
}

// RequestJoin records a pending join request from requesterID. The checks
// and the insertion are a single atomic step under the game lock.
func (that *Game) RequestJoin(requesterID int) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.Status != StatusWaiting {
		return apperror.ErrGameNotWaiting
	}

	if that.CreatorID == requesterID {
		return apperror.ErrOwnGame
	}

	for _, req := range that.Requests {
		if req.RequesterID == requesterID && req.Disposition == RequestPending {
			return apperror.ErrDuplicateRequest
		}
	}

	that.Requests = append(that.Requests, &JoinRequest{
		RequesterID: requesterID,
		Disposition: RequestPending,
	})

	return nil
}

// ResolveJoin accepts or rejects the pending request from requesterID.
// Accepting sets the opponent (exactly once), starts the game, and gives
// the creator the first turn.
func (that *Game) ResolveJoin(requesterID int, accept bool) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.Status != StatusWaiting {
		return apperror.ErrGameNotWaiting
	}

	for _, req := range that.Requests {
		if req.RequesterID != requesterID || req.Disposition != RequestPending {
			continue
		}

		if !accept {
			req.Disposition = RequestRejected
			return nil
		}

		req.Disposition = RequestAccepted
		that.OpponentID = requesterID
		that.Status = StatusInProgress
		that.Turn = that.CreatorID
		that.firstTurn = that.CreatorID

		return nil
	}

	return apperror.ErrRequestNotFound
}

// Move drops playerID's piece in column (0-based). On a connect-four the
// mover wins; on a full board the game is a draw; otherwise the turn
// passes to the other participant.
func (that *Game) Move(playerID, column int) (GameSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.Status != StatusInProgress {
		return GameSnapshot{}, apperror.ErrGameNotInProgress
	}

	if that.Turn != playerID {
		return GameSnapshot{}, apperror.ErrNotYourTurn
	}

	piece := that.pieceOf(playerID)
	if _, err := that.Board.Drop(column, piece); err != nil {
		return GameSnapshot{}, err
	}

	switch {
	case that.Board.HasConnectFour(piece):
		that.Winner = playerID
		that.Status = StatusFinished
	case that.Board.IsFull():
		that.Winner = WinnerDraw
		that.Status = StatusFinished
	default:
		that.Turn = that.otherParticipant(playerID)
	}

	return that.snapshot(), nil
}

// Leave removes playerID from the game. Mid-game the remaining participant
// wins by forfeit. Returns the post-leave snapshot and the forfeit winner
// (NoPlayer if the game was not in progress).
func (that *Game) Leave(playerID int) (GameSnapshot, int) {
	that.mu.Lock()
	defer that.mu.Unlock()

	forfeitWinner := NoPlayer

	if that.Status == StatusInProgress {
		forfeitWinner = that.otherParticipant(playerID)
		that.Winner = forfeitWinner
		that.Status = StatusFinished
	}

	return that.snapshot(), forfeitWinner
}

// Rematch resets a finished game for another round between the same
// participants. Pieces stay fixed; the opener alternates each round.
func (that *Game) Rematch() (GameSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.Status != StatusFinished {
		return GameSnapshot{}, apperror.ErrGameNotFinished
	}

	that.Board.Reset()
	that.Winner = NoPlayer
	that.Status = StatusInProgress
	that.firstTurn = that.otherParticipant(that.firstTurn)
	that.Turn = that.firstTurn

	return that.snapshot(), nil
}

// PendingRequesterIDs returns the requester ids that are still pending,
// in arrival order.
func (that *Game) PendingRequesterIDs() []int {
	that.mu.Lock()
	defer that.mu.Unlock()

	var ids []int
	for _, req := range that.Requests {
		if req.Disposition == RequestPending {
			ids = append(ids, req.RequesterID)
		}
	}

	return ids
}

func (that *Game) Snapshot() GameSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshot()
}

func (that *Game) snapshot() GameSnapshot {
	return GameSnapshot{
		ID:         that.ID,
		Board:      that.Board,
		Status:     that.Status,
		CreatorID:  that.CreatorID,
		OpponentID: that.OpponentID,
		Turn:       that.Turn,
		Winner:     that.Winner,
	}
}

func (that *Game) pieceOf(playerID int) byte {
	if playerID == that.CreatorID {
		return PieceCreator
	}
	return PieceOpponent
}

func (that *Game) otherParticipant(playerID int) int {
	if playerID == that.CreatorID {
		return that.OpponentID
	}
	return that.CreatorID
}

func (that *GameSnapshot) IsWaiting() bool    { return that.Status == StatusWaiting }
func (that *GameSnapshot) IsInProgress() bool { return that.Status == StatusInProgress }
func (that *GameSnapshot) IsFinished() bool   { return that.Status == StatusFinished }

func (that *GameSnapshot) IsDraw() bool {
	return that.Winner == WinnerDraw
}

// PieceOf returns the mark playerID plays with. Pieces are fixed for the
// game's lifetime: creator X, opponent O, across rematches.
func (that *GameSnapshot) PieceOf(playerID int) byte {
	if playerID == that.CreatorID {
		return PieceCreator
	}
	return PieceOpponent
}

// OtherParticipant returns the id of playerID's counterpart.
func (that *GameSnapshot) OtherParticipant(playerID int) int {
	if playerID == that.CreatorID {
		return that.OpponentID
	}
	return that.CreatorID
}

// IsParticipant reports whether playerID is the creator or the opponent.
func (that *GameSnapshot) IsParticipant(playerID int) bool {
	return playerID == that.CreatorID || (playerID == that.OpponentID && playerID != NoPlayer)
}
