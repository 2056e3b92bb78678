package usecase

import "github.com/forzalabs/connectfour-backend/internal/entity"

// Event kinds delivered through the Notifier. Directed events go to one
// participant; lobby events go to every connected client except the actor.
const (
	EventPlayerConnected    = "lobby:player_connected"
	EventPlayerDisconnected = "lobby:player_disconnected"
	EventGameCreated        = "lobby:game_created"
	EventGameStarted        = "lobby:game_started"
	EventGameFinished       = "lobby:game_finished"
	EventRematchStarted     = "lobby:rematch_started"

	EventJoinRequested = "game:join_requested"
	EventJoinAccepted  = "game:join_accepted"
	EventJoinRejected  = "game:join_rejected"
	EventOpponentMoved = "game:opponent_moved"
	EventOpponentLeft  = "game:opponent_left"
	EventYouLose       = "game:you_lose"
	EventDraw          = "game:draw"
	EventRematchReady  = "game:rematch_ready"
)

// Event is one notification to one recipient. Actor is the username of the
// client whose command triggered it. Game is a snapshot taken at the moment
// of the triggering command, nil for pure lobby notices.
type Event struct {
	Kind      string
	GameID    int
	Actor     string
	Opponent  string
	Column    int // 1-based, move events only
	FirstTurn string
	Forfeit   bool
	Draw      bool
	Game      *entity.GameSnapshot
}

// Notifier delivers an event to one client. Delivery is best-effort; the
// implementation must swallow send failures and must be safe to call from
// any goroutine.
type Notifier interface {
	Notify(playerID int, event Event)
}
