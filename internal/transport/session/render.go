package session

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
	"github.com/forzalabs/connectfour-backend/internal/usecase"
)

const bannerWidth = 64

func banner(title string, body ...string) string {
	var b strings.Builder

	b.WriteString("\n╔" + strings.Repeat("═", bannerWidth) + "╗\n")
	b.WriteString("║" + center(title) + "║\n")

	if len(body) > 0 {
		b.WriteString("╠" + strings.Repeat("═", bannerWidth) + "╣\n")
		for _, line := range body {
			b.WriteString("║" + pad("  "+line) + "║\n")
		}
	}

	b.WriteString("╚" + strings.Repeat("═", bannerWidth) + "╝\n\n")

	return b.String()
}

func pad(s string) string {
	if n := bannerWidth - utf8.RuneCountInString(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func center(s string) string {
	left := (bannerWidth - utf8.RuneCountInString(s)) / 2
	if left < 0 {
		left = 0
	}
	return pad(strings.Repeat(" ", left) + s)
}

// renderGrid draws the board the way the original server did: columns
// numbered 1-7 on top, one row per line.
func renderGrid(board *entity.Board) string {
	var b strings.Builder

	b.WriteString("\n  1 2 3 4 5 6 7\n")
	b.WriteString(" +---------------+\n")

	for r := 0; r < entity.BoardRows; r++ {
		b.WriteString(" | ")
		for c := 0; c < entity.BoardCols; c++ {
			b.WriteByte(board[r][c])
			b.WriteByte(' ')
		}
		b.WriteString("|\n")
	}

	b.WriteString(" +---------------+\n")

	return b.String()
}

var welcomeBanner = banner("WELCOME TO THE CONNECT FOUR SERVER!", "Enter your username:") + "Username: "

var helpText = banner("CONNECT FOUR - AVAILABLE COMMANDS",
	"GENERAL:",
	"  help              - Show this message",
	"  list              - List available games",
	"  status            - Your current status",
	"  quit              - Disconnect from the server",
	"",
	"GAME MANAGEMENT:",
	"  create            - Create a new game",
	"  join <id>         - Ask to join game <id>",
	"  requests          - See pending join requests",
	"  accept <username> - Accept <username>'s request",
	"  reject <username> - Reject <username>'s request",
	"  leave             - Abandon your current game",
	"",
	"DURING A GAME:",
	"  move <1-7>        - Drop a piece in column 1-7",
	"  grid              - Show the game grid",
	"  rematch           - Propose/accept a rematch",
)

// renderError translates a command rejection into one response line. Every
// taxonomy error has a fixed message; anything else falls through verbatim.
func renderError(err error) string {
	switch {
	case errors.Is(err, apperror.ErrAlreadyInGame):
		return "\n[ERROR] You are already in an active game. Use 'leave' to abandon it first.\n\n"
	case errors.Is(err, apperror.ErrNotInGame):
		return "\n[ERROR] You are not in a game.\n\n"
	case errors.Is(err, apperror.ErrGameNotFound):
		return "\n[ERROR] Game not found.\n\n"
	case errors.Is(err, apperror.ErrPlayerNotFound):
		return "\n[ERROR] Player not found.\n\n"
	case errors.Is(err, apperror.ErrGameNotWaiting):
		return "\n[ERROR] That game is not waiting for players.\n\n"
	case errors.Is(err, apperror.ErrOwnGame):
		return "\n[ERROR] You can't join your own game!\n\n"
	case errors.Is(err, apperror.ErrDuplicateRequest):
		return "\n[ERROR] You already sent a request for this game.\n\n"
	case errors.Is(err, apperror.ErrNotCreator):
		return "\n[ERROR] You are not the creator of this game.\n\n"
	case errors.Is(err, apperror.ErrRequestNotFound):
		return "\n[ERROR] No pending request from that player.\n\n"
	case errors.Is(err, apperror.ErrGameNotInProgress):
		return "\n[ERROR] The game is not in progress.\n\n"
	case errors.Is(err, apperror.ErrNotYourTurn):
		return "\n[ERROR] It's not your turn!\n\n"
	case errors.Is(err, apperror.ErrColumnFull), errors.Is(err, apperror.ErrInvalidColumn):
		return "\n[ERROR] Column full or invalid. Pick a column from 1 to 7.\n\n"
	case errors.Is(err, apperror.ErrGameNotFinished):
		return "\n[ERROR] The game must be finished to request a rematch.\n\n"
	case errors.Is(err, apperror.ErrNoFreeGames):
		return "\n[ERROR] Unable to create the game. Server full.\n\n"
	default:
		return fmt.Sprintf("\n[ERROR] %v\n\n", err)
	}
}

// renderEvent formats a lobby notification for one recipient. The recipient
// id picks the right piece and perspective out of the event's snapshot.
func renderEvent(playerID int, event usecase.Event) string {
	switch event.Kind {
	case usecase.EventPlayerConnected:
		return fmt.Sprintf("\n[NOTICE] %s connected to the server.\n\n", event.Actor)

	case usecase.EventPlayerDisconnected:
		return fmt.Sprintf("\n[NOTICE] %s disconnected.\n\n", event.Actor)

	case usecase.EventGameCreated:
		return fmt.Sprintf("\n[NOTICE] %s created game #%d. Use 'join %d' to play!\n\n",
			event.Actor, event.GameID, event.GameID)

	case usecase.EventGameStarted:
		return fmt.Sprintf("\n[NOTICE] Game #%d between %s and %s has started!\n\n",
			event.GameID, event.Actor, event.Opponent)

	case usecase.EventGameFinished:
		switch {
		case event.Draw:
			return fmt.Sprintf("\n[NOTICE] Game #%d between %s and %s ended in a draw!\n\n",
				event.GameID, event.Actor, event.Opponent)
		case event.Forfeit:
			return fmt.Sprintf("\n[NOTICE] Game #%d is over. %s wins by forfeit.\n\n",
				event.GameID, event.Actor)
		default:
			return fmt.Sprintf("\n[NOTICE] Game #%d is over! Winner: %s\n\n",
				event.GameID, event.Actor)
		}

	case usecase.EventRematchStarted:
		return fmt.Sprintf("\n[NOTICE] Rematch started in game #%d!\n\n", event.GameID)

	case usecase.EventJoinRequested:
		return fmt.Sprintf("\n[REQUEST] %s wants to join your game #%d!\n"+
			"          Use 'accept %s' or 'reject %s'\n\n",
			event.Actor, event.GameID, event.Actor, event.Actor)

	case usecase.EventJoinAccepted:
		return banner("THE GAME BEGINS!",
			fmt.Sprintf("%s accepted your request!", event.Actor),
			fmt.Sprintf("You play with: %c", event.Game.PieceOf(playerID)),
			"Wait for your opponent's move...",
		) + renderGrid(&event.Game.Board)

	case usecase.EventJoinRejected:
		return fmt.Sprintf("\n[NOTICE] %s rejected your request for game #%d.\n\n",
			event.Actor, event.GameID)

	case usecase.EventOpponentMoved:
		return renderGrid(&event.Game.Board) +
			fmt.Sprintf("\n[TURN] %s played column %d. It's your turn!\n"+
				"       Use 'move <1-7>' to make your move.\n\n",
				event.Actor, event.Column)

	case usecase.EventOpponentLeft:
		return banner("YOU WIN!",
			fmt.Sprintf("%s abandoned the game!", event.Actor),
			"Victory by forfeit.",
		)

	case usecase.EventYouLose:
		return renderGrid(&event.Game.Board) + banner("YOU LOSE!",
			fmt.Sprintf("%s connected 4 pieces.", event.Actor),
			"Use 'rematch' to accept a rematch.",
		)

	case usecase.EventDraw:
		return renderGrid(&event.Game.Board) + banner("DRAW!",
			"The grid is full! No winner.",
			"Use 'rematch' to propose/accept a rematch.",
		)

	case usecase.EventRematchReady:
		return banner("REMATCH STARTED!",
			fmt.Sprintf("%s accepted the rematch!", event.Actor),
			fmt.Sprintf("You play with: %c", event.Game.PieceOf(playerID)),
			fmt.Sprintf("First move: %s", event.FirstTurn),
		) + renderGrid(&event.Game.Board)

	default:
		return ""
	}
}
