package usecase

import "github.com/forzalabs/connectfour-backend/internal/entity"

type CreateResult struct {
	GameID int
}

type JoinResult struct {
	GameID  int
	Creator string
}

type RequestsResult struct {
	GameID     int
	Requesters []string
}

type ResolveResult struct {
	Game      entity.GameSnapshot
	Requester string
	Accepted  bool
}

type MoveResult struct {
	Game   entity.GameSnapshot
	Column int // 0-based
}

type GridResult struct {
	Game     entity.GameSnapshot
	YourTurn bool
}

type LeaveResult struct {
	GameID     int
	ForfeitWin bool
}

type RematchResult struct {
	Game      entity.GameSnapshot
	FirstTurn string
}

type StatusResult struct {
	Player entity.Player
	Game   *entity.GameSnapshot
}

// GameListing is one row of the lobby list.
type GameListing struct {
	ID      int
	Creator string
	Status  string
}
