package apperror

import "errors"

var (
	ErrServerFull  = errors.New("server is full")
	ErrNoFreeGames = errors.New("no free game slots")

	ErrGameNotFound   = errors.New("game not found")
	ErrPlayerNotFound = errors.New("player not found")

	ErrGameNotWaiting    = errors.New("game is not waiting for players")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrGameNotFinished   = errors.New("game is not finished")

	ErrNotYourTurn = errors.New("it's not your turn")
	ErrNotCreator  = errors.New("you are not the creator of this game")
	ErrOwnGame     = errors.New("you can't join your own game")

	ErrDuplicateRequest = errors.New("join request already sent")
	ErrRequestNotFound  = errors.New("join request not found")

	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("column is full")

	ErrAlreadyInGame = errors.New("already in an active game")
	ErrNotInGame     = errors.New("not in a game")
)
