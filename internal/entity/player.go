package entity

import "time"

const (
	// NoGame marks a client that is not in any game. Game ids are slot
	// indexes starting at 0, so the sentinel has to be negative.
	NoGame = -1

	// NoPlayer is the zero client id; real ids start at 1.
	NoPlayer = 0

	// MaxUsernameLen - usernames longer than this are truncated at login.
	MaxUsernameLen = 32
)

// Player is one connected client from login to disconnect. The slot is
// owned by the client registry; ID and Username never change after login.
type Player struct {
	ID        int
	Username  string
	Connected bool
	GameID    int
}

// GameRecord is the archived result of one finished game.
type GameRecord struct {
	GameID     int       `json:"game_id"`
	Creator    string    `json:"creator"`
	Opponent   string    `json:"opponent"`
	Winner     string    `json:"winner,omitempty"`
	Draw       bool      `json:"draw,omitempty"`
	Forfeit    bool      `json:"forfeit,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
