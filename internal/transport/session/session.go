package session

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/forzalabs/connectfour-backend/internal/entity"
	"github.com/forzalabs/connectfour-backend/internal/usecase"
)

// Handler runs one client's whole session: registration, the login prompt,
// then one command per line until quit, read failure, or shutdown. Every
// transport hands its connections here.
type Handler struct {
	logger *slog.Logger
	lobby  *usecase.Lobby
	table  *Table
}

func New(logger *slog.Logger, lobby *usecase.Lobby, table *Table) *Handler {
	return &Handler{
		logger: logger.With("component", "session"),
		lobby:  lobby,
		table:  table,
	}
}

// Handle owns conn for the connection's lifetime and always closes it.
func (that *Handler) Handle(ctx context.Context, conn Conn) {
	defer conn.Close()

	player, err := that.lobby.Connect()
	if err != nil {
		_ = conn.WriteString("Server full. Try again later.\n")
		return
	}

	log := that.logger.With("playerID", player.ID)

	that.table.Add(player.ID, conn)
	defer func() {
		that.table.Remove(player.ID)
		that.lobby.Disconnect(ctx, player.ID)
	}()

	if err = conn.WriteString(welcomeBanner); err != nil {
		return
	}

	line, err := conn.ReadLine()
	if err != nil {
		log.Info("client disconnected during login")
		return
	}

	username := trimUsername(line)

	player, notes, err := that.lobby.Login(player.ID, username)
	if err != nil {
		log.Error("login failed", "error", err)
		return
	}

	log = log.With("username", player.Username)
	log.Info("player logged in")

	_ = conn.WriteString(fmt.Sprintf(
		"\n[OK] Welcome %s! Type 'help' to see the available commands.\n\n", player.Username))
	that.lobby.Deliver(notes)

	for {
		if ctx.Err() != nil {
			return
		}

		line, err = conn.ReadLine()
		if err != nil {
			log.Info("client disconnected")
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if quit := that.dispatch(ctx, player.ID, line, conn); quit {
			return
		}
	}
}

// dispatch runs one command line and writes the response. Returns true on
// quit/exit. Malformed input never reaches the lobby.
func (that *Handler) dispatch(ctx context.Context, playerID int, line string, conn Conn) bool {
	fields := strings.Fields(line)
	command := strings.ToLower(fields[0])

	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch command {
	case "help":
		_ = conn.WriteString(helpText)

	case "list":
		_ = conn.WriteString(renderList(that.lobby.List()))

	case "status":
		that.handleStatus(playerID, conn)

	case "create":
		that.handleCreate(playerID, conn)

	case "join":
		gameID, err := strconv.Atoi(arg)
		if err != nil {
			_ = conn.WriteString("\n[ERROR] Usage: join <game_id>\n\n")
			return false
		}
		that.handleJoin(playerID, gameID, conn)

	case "requests":
		that.handleRequests(playerID, conn)

	case "accept", "reject":
		if arg == "" {
			_ = conn.WriteString(fmt.Sprintf("\n[ERROR] Usage: %s <username>\n\n", command))
			return false
		}
		that.handleResolve(playerID, arg, command == "accept", conn)

	case "move":
		column, err := strconv.Atoi(arg)
		if err != nil || column < 1 || column > entity.BoardCols {
			_ = conn.WriteString("\n[ERROR] Usage: move <1-7>\n\n")
			return false
		}
		that.handleMove(ctx, playerID, column-1, conn)

	case "grid":
		that.handleGrid(playerID, conn)

	case "leave":
		that.handleLeave(ctx, playerID, conn)

	case "rematch":
		that.handleRematch(playerID, conn)

	case "quit", "exit":
		_ = conn.WriteString("\n[OK] Goodbye!\n\n")
		return true

	default:
		_ = conn.WriteString(fmt.Sprintf(
			"\n[ERROR] Unknown command: %s. Type 'help' for help.\n\n", command))
	}

	return false
}

// Each handler writes the caller's response before delivering the
// notifications the command produced: a player must see its own result
// ahead of anything another player does in reaction.
func (that *Handler) handleCreate(playerID int, conn Conn) {
	result, notes, err := that.lobby.Create(playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	_ = conn.WriteString(banner("GAME CREATED!",
		fmt.Sprintf("Game ID: %d", result.GameID),
		"State: waiting for an opponent...",
		"",
		fmt.Sprintf("Other players can join with: join %d", result.GameID),
		"Use 'requests' to see pending join requests",
	))
	that.lobby.Deliver(notes)
}

func (that *Handler) handleJoin(playerID, gameID int, conn Conn) {
	result, notes, err := that.lobby.Join(playerID, gameID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	_ = conn.WriteString(fmt.Sprintf(
		"\n[OK] Join request sent for game #%d.\n"+
			"     Wait for %s to accept your request...\n\n",
		result.GameID, result.Creator))
	that.lobby.Deliver(notes)
}

func (that *Handler) handleRequests(playerID int, conn Conn) {
	result, err := that.lobby.Requests(playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	body := []string{"No pending requests"}
	if len(result.Requesters) > 0 {
		body = body[:0]
		for _, name := range result.Requesters {
			body = append(body, fmt.Sprintf("- %s (pending)", name))
		}
	}

	_ = conn.WriteString(banner("JOIN REQUESTS", body...))
}

func (that *Handler) handleResolve(playerID int, username string, accept bool, conn Conn) {
	result, notes, err := that.lobby.Resolve(playerID, username, accept)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	if !accept {
		_ = conn.WriteString(fmt.Sprintf(
			"\n[OK] You rejected %s's request.\n\n", result.Requester))
		that.lobby.Deliver(notes)
		return
	}

	_ = conn.WriteString(banner("THE GAME BEGINS!",
		fmt.Sprintf("You accepted %s into the game.", result.Requester),
		fmt.Sprintf("You play with: %c (first move)", entity.PieceCreator),
		"Use 'move <1-7>' to make your move!",
	) + renderGrid(&result.Game.Board))
	that.lobby.Deliver(notes)
}

func (that *Handler) handleMove(ctx context.Context, playerID, column int, conn Conn) {
	result, notes, err := that.lobby.Move(ctx, playerID, column)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	grid := renderGrid(&result.Game.Board)

	switch {
	case result.Game.Winner == playerID:
		_ = conn.WriteString(grid + banner("YOU WIN!",
			"Congratulations! You connected 4 pieces!",
			"Use 'rematch' to propose a rematch.",
		))
	case result.Game.IsDraw():
		_ = conn.WriteString(grid + banner("DRAW!",
			"The grid is full! No winner.",
			"Use 'rematch' to propose/accept a rematch.",
		))
	default:
		_ = conn.WriteString(fmt.Sprintf(
			"%s\n[OK] Piece dropped in column %d. Wait for your opponent...\n\n",
			grid, result.Column+1))
	}

	that.lobby.Deliver(notes)
}

func (that *Handler) handleGrid(playerID int, conn Conn) {
	result, err := that.lobby.Grid(playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	out := renderGrid(&result.Game.Board)

	if result.Game.IsInProgress() {
		if result.YourTurn {
			out += "[INFO] It's your turn! Use 'move <1-7>'.\n\n"
		} else {
			out += "[INFO] Wait for your opponent's move...\n\n"
		}
	}

	_ = conn.WriteString(out)
}

func (that *Handler) handleLeave(ctx context.Context, playerID int, conn Conn) {
	result, notes, err := that.lobby.Leave(ctx, playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	_ = conn.WriteString(fmt.Sprintf("\n[OK] You left game #%d.\n\n", result.GameID))
	that.lobby.Deliver(notes)
}

func (that *Handler) handleRematch(playerID int, conn Conn) {
	result, notes, err := that.lobby.Rematch(playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	_ = conn.WriteString(banner("REMATCH STARTED!",
		"The grid has been reset.",
		fmt.Sprintf("You play with: %c", result.Game.PieceOf(playerID)),
		fmt.Sprintf("First move: %s", result.FirstTurn),
	) + renderGrid(&result.Game.Board))
	that.lobby.Deliver(notes)
}

func (that *Handler) handleStatus(playerID int, conn Conn) {
	result, err := that.lobby.Status(playerID)
	if err != nil {
		_ = conn.WriteString(renderError(err))
		return
	}

	if result.Game == nil {
		_ = conn.WriteString(fmt.Sprintf(
			"\n[STATUS] Username: %s | You are not in any game.\n"+
				"         Use 'create' to start a game or 'join <id>' to join one.\n\n",
			result.Player.Username))
		return
	}

	state := describeState(result.Game, playerID)
	_ = conn.WriteString(fmt.Sprintf(
		"\n[STATUS] Username: %s | Game #%d | %s\n\n",
		result.Player.Username, result.Game.ID, state))
}

func describeState(game *entity.GameSnapshot, playerID int) string {
	switch game.Status {
	case entity.StatusWaiting:
		return "Waiting for an opponent"
	case entity.StatusInProgress:
		if game.Turn == playerID {
			return "In progress - IT'S YOUR TURN!"
		}
		return "In progress - opponent's turn"
	case entity.StatusFinished:
		return "Finished"
	default:
		return game.Status
	}
}

func renderList(listings []usecase.GameListing) string {
	body := []string{"No games available"}
	if len(listings) > 0 {
		body = body[:0]
		for _, listing := range listings {
			body = append(body, fmt.Sprintf("Game #%-3d | Creator: %-12s | State: %s",
				listing.ID, listing.Creator, describeListing(listing.Status)))
		}
	}

	return banner("GAME LIST", body...)
}

func describeListing(status string) string {
	switch status {
	case entity.StatusWaiting:
		return "waiting"
	case entity.StatusInProgress:
		return "in progress"
	case entity.StatusFinished:
		return "finished"
	default:
		return status
	}
}

// trimUsername cleans the login line and enforces the wire length limit.
func trimUsername(line string) string {
	username := strings.TrimSpace(line)
	if len(username) > entity.MaxUsernameLen {
		username = username[:entity.MaxUsernameLen]
	}

	return username
}
