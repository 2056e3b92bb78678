package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
	"github.com/forzalabs/connectfour-backend/internal/registry"
)

// unknownUsername stands in when an id no longer resolves, e.g. a requester
// that disconnected between asking and being accepted.
const unknownUsername = "unknown"

type gameArchive interface {
	SaveResult(ctx context.Context, record *entity.GameRecord) error
}

// Notification is one queued event for one recipient. Command methods
// return their notifications instead of sending them directly: the caller
// writes its own response first and then flushes the queue with Deliver,
// so a client's own result always reaches it before anything the command
// set off elsewhere.
type Notification struct {
	PlayerID int
	Event    Event
}

// Lobby is the session orchestrator: every command a connected client can
// issue runs through one of its methods, synchronously on that client's
// goroutine. Each method validates the caller against the target game,
// performs one registry or game operation, and returns the notifications
// owed to other clients.
//
// Lock discipline: Lobby never takes two locks at once. Game methods lock
// only the game; registry updates that belong to the same logical
// transaction (like pointing the accepted opponent at the game) run right
// after the game lock is released.
type Lobby struct {
	logger   *slog.Logger
	clients  *registry.ClientRegistry
	games    *registry.GameRegistry
	notifier Notifier
	archive  gameArchive
}

// NewLobby - archive may be nil when no result store is configured.
func NewLobby(logger *slog.Logger, clients *registry.ClientRegistry, games *registry.GameRegistry, notifier Notifier, archive gameArchive) *Lobby {
	return &Lobby{
		logger:   logger.With("component", "lobby"),
		clients:  clients,
		games:    games,
		notifier: notifier,
		archive:  archive,
	}
}

// Deliver flushes queued notifications through the notifier, in order.
func (that *Lobby) Deliver(notes []Notification) {
	for _, note := range notes {
		that.notifier.Notify(note.PlayerID, note.Event)
	}
}

// Connect claims a registry slot for a fresh connection, before login.
// Fails with ErrServerFull at capacity.
func (that *Lobby) Connect() (entity.Player, error) {
	player, err := that.clients.Register()
	if err != nil {
		return entity.Player{}, err
	}

	that.logger.Info("client connected", "playerID", player.ID)

	return player, nil
}

// Login records the username picked at the prompt and announces the player
// to the rest of the lobby. Usernames are not required to be unique and an
// empty name is accepted.
func (that *Lobby) Login(playerID int, username string) (entity.Player, []Notification, error) {
	that.clients.SetUsername(playerID, username)

	player, ok := that.clients.Find(playerID)
	if !ok {
		return entity.Player{}, nil, apperror.ErrPlayerNotFound
	}

	notes := that.broadcast(Event{Kind: EventPlayerConnected, Actor: player.Username}, playerID)

	return player, notes, nil
}

// Create allocates a waiting game with the caller as creator.
func (that *Lobby) Create(playerID int) (CreateResult, []Notification, error) {
	player, err := that.requireIdle(playerID)
	if err != nil {
		return CreateResult{}, nil, err
	}

	game, err := that.games.Allocate(playerID)
	if err != nil {
		return CreateResult{}, nil, err
	}

	that.clients.SetCurrentGame(playerID, game.ID)

	that.logger.Info("game created", "gameID", game.ID, "creator", player.Username)
	notes := that.broadcast(Event{Kind: EventGameCreated, GameID: game.ID, Actor: player.Username}, playerID)

	return CreateResult{GameID: game.ID}, notes, nil
}

// Join submits a join request for a waiting game and queues the notice for
// its creator.
func (that *Lobby) Join(playerID, gameID int) (JoinResult, []Notification, error) {
	player, err := that.requireIdle(playerID)
	if err != nil {
		return JoinResult{}, nil, err
	}

	game, ok := that.games.Find(gameID)
	if !ok {
		return JoinResult{}, nil, fmt.Errorf("%w: game %d", apperror.ErrGameNotFound, gameID)
	}

	if err = game.RequestJoin(playerID); err != nil {
		return JoinResult{}, nil, err
	}

	snapshot := game.Snapshot()
	notes := []Notification{{
		PlayerID: snapshot.CreatorID,
		Event: Event{
			Kind:   EventJoinRequested,
			GameID: gameID,
			Actor:  player.Username,
		},
	}}

	return JoinResult{GameID: gameID, Creator: that.usernameOf(snapshot.CreatorID)}, notes, nil
}

// Requests lists the pending join requests for the caller's own game.
func (that *Lobby) Requests(playerID int) (RequestsResult, error) {
	game, err := that.currentGameOf(playerID)
	if err != nil {
		return RequestsResult{}, err
	}

	if game.Snapshot().CreatorID != playerID {
		return RequestsResult{}, apperror.ErrNotCreator
	}

	var requesters []string
	for _, id := range game.PendingRequesterIDs() {
		requesters = append(requesters, that.usernameOf(id))
	}

	return RequestsResult{GameID: game.ID, Requesters: requesters}, nil
}

// Resolve accepts or rejects the pending request of the first connected
// client named username. Accepting starts the game with the creator to move.
func (that *Lobby) Resolve(playerID int, username string, accept bool) (ResolveResult, []Notification, error) {
	game, err := that.currentGameOf(playerID)
	if err != nil {
		return ResolveResult{}, nil, err
	}

	if game.Snapshot().CreatorID != playerID {
		return ResolveResult{}, nil, apperror.ErrNotCreator
	}

	requester, ok := that.clients.FindByUsername(username)
	if !ok {
		return ResolveResult{}, nil, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, username)
	}

	if err = game.ResolveJoin(requester.ID, accept); err != nil {
		return ResolveResult{}, nil, err
	}

	snapshot := game.Snapshot()

	if !accept {
		notes := []Notification{{
			PlayerID: requester.ID,
			Event: Event{
				Kind:   EventJoinRejected,
				GameID: game.ID,
				Actor:  that.usernameOf(playerID),
			},
		}}

		return ResolveResult{Game: snapshot, Requester: requester.Username, Accepted: false}, notes, nil
	}

	// Same logical transaction as the accept; runs after the game lock is
	// released per the lock ordering rule.
	that.clients.SetCurrentGame(requester.ID, game.ID)

	creatorName := that.usernameOf(playerID)
	notes := []Notification{{
		PlayerID: requester.ID,
		Event: Event{
			Kind:   EventJoinAccepted,
			GameID: game.ID,
			Actor:  creatorName,
			Game:   &snapshot,
		},
	}}
	notes = append(notes, that.broadcast(Event{
		Kind:     EventGameStarted,
		GameID:   game.ID,
		Actor:    creatorName,
		Opponent: requester.Username,
	}, playerID, requester.ID)...)

	that.logger.Info("game started", "gameID", game.ID, "creator", creatorName, "opponent", requester.Username)

	return ResolveResult{Game: snapshot, Requester: requester.Username, Accepted: true}, notes, nil
}

// Move drops the caller's piece in column (0-based) and queues the new turn
// or the outcome for the opponent.
func (that *Lobby) Move(ctx context.Context, playerID, column int) (MoveResult, []Notification, error) {
	game, err := that.currentGameOf(playerID)
	if err != nil {
		return MoveResult{}, nil, err
	}

	snapshot, err := game.Move(playerID, column)
	if err != nil {
		return MoveResult{}, nil, err
	}

	playerName := that.usernameOf(playerID)
	opponentID := snapshot.OtherParticipant(playerID)

	if !snapshot.IsFinished() {
		notes := []Notification{{
			PlayerID: opponentID,
			Event: Event{
				Kind:   EventOpponentMoved,
				GameID: game.ID,
				Actor:  playerName,
				Column: column + 1,
				Game:   &snapshot,
			},
		}}

		return MoveResult{Game: snapshot, Column: column}, notes, nil
	}

	// Finished games stay in the registry so either participant can ask
	// for a rematch; the slot is freed when someone leaves.
	that.archiveResult(ctx, &snapshot, false)

	var notes []Notification
	if snapshot.IsDraw() {
		notes = append(notes, Notification{
			PlayerID: opponentID,
			Event:    Event{Kind: EventDraw, GameID: game.ID, Game: &snapshot},
		})
		notes = append(notes, that.broadcast(Event{
			Kind:     EventGameFinished,
			GameID:   game.ID,
			Actor:    playerName,
			Opponent: that.usernameOf(opponentID),
			Draw:     true,
		}, playerID, opponentID)...)
	} else {
		notes = append(notes, Notification{
			PlayerID: opponentID,
			Event: Event{
				Kind:   EventYouLose,
				GameID: game.ID,
				Actor:  playerName,
				Game:   &snapshot,
			},
		})
		notes = append(notes, that.broadcast(Event{
			Kind:   EventGameFinished,
			GameID: game.ID,
			Actor:  playerName,
		}, playerID, opponentID)...)
	}

	that.logger.Info("game finished", "gameID", game.ID, "winner", snapshot.Winner)

	return MoveResult{Game: snapshot, Column: column}, notes, nil
}

// Grid redisplays the caller's current board.
func (that *Lobby) Grid(playerID int) (GridResult, error) {
	game, err := that.currentGameOf(playerID)
	if err != nil {
		return GridResult{}, err
	}

	snapshot := game.Snapshot()

	return GridResult{
		Game:     snapshot,
		YourTurn: snapshot.IsInProgress() && snapshot.Turn == playerID,
	}, nil
}

// Leave abandons the caller's current game. Mid-game the opponent wins by
// forfeit; a waiting or finished game is torn down and its slot freed.
func (that *Lobby) Leave(ctx context.Context, playerID int) (LeaveResult, []Notification, error) {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return LeaveResult{}, nil, apperror.ErrPlayerNotFound
	}

	if player.GameID == entity.NoGame {
		return LeaveResult{}, nil, apperror.ErrNotInGame
	}

	game, ok := that.games.Find(player.GameID)
	if !ok {
		// Stale reference, the game is already gone.
		that.clients.SetCurrentGame(playerID, entity.NoGame)
		return LeaveResult{GameID: player.GameID}, nil, nil
	}

	snapshot, forfeitWinner := game.Leave(playerID)
	that.clients.SetCurrentGame(playerID, entity.NoGame)

	var notes []Notification
	if forfeitWinner != entity.NoPlayer {
		that.archiveResult(ctx, &snapshot, true)

		notes = append(notes, Notification{
			PlayerID: forfeitWinner,
			Event: Event{
				Kind:    EventOpponentLeft,
				GameID:  game.ID,
				Actor:   player.Username,
				Forfeit: true,
			},
		})
		notes = append(notes, that.broadcast(Event{
			Kind:    EventGameFinished,
			GameID:  game.ID,
			Actor:   that.usernameOf(forfeitWinner),
			Forfeit: true,
		}, playerID, forfeitWinner)...)

		that.logger.Info("game forfeited", "gameID", game.ID, "leaver", player.Username)
	}

	if snapshot.IsFinished() || snapshot.IsWaiting() {
		that.teardownGame(game.ID)
	}

	return LeaveResult{GameID: game.ID, ForfeitWin: forfeitWinner != entity.NoPlayer}, notes, nil
}

// Rematch restarts the caller's finished game with the opener alternated.
func (that *Lobby) Rematch(playerID int) (RematchResult, []Notification, error) {
	game, err := that.currentGameOf(playerID)
	if err != nil {
		return RematchResult{}, nil, err
	}

	snapshot, err := game.Rematch()
	if err != nil {
		return RematchResult{}, nil, err
	}

	firstTurn := that.usernameOf(snapshot.Turn)
	opponentID := snapshot.OtherParticipant(playerID)

	notes := []Notification{{
		PlayerID: opponentID,
		Event: Event{
			Kind:      EventRematchReady,
			GameID:    game.ID,
			Actor:     that.usernameOf(playerID),
			FirstTurn: firstTurn,
			Game:      &snapshot,
		},
	}}
	notes = append(notes, that.broadcast(Event{Kind: EventRematchStarted, GameID: game.ID}, playerID, opponentID)...)

	return RematchResult{Game: snapshot, FirstTurn: firstTurn}, notes, nil
}

// Status reports the caller's game and role, healing a stale reference to
// a game that no longer exists.
func (that *Lobby) Status(playerID int) (StatusResult, error) {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return StatusResult{}, apperror.ErrPlayerNotFound
	}

	if player.GameID == entity.NoGame {
		return StatusResult{Player: player}, nil
	}

	game, ok := that.games.Find(player.GameID)
	if !ok {
		that.clients.SetCurrentGame(playerID, entity.NoGame)
		player.GameID = entity.NoGame

		return StatusResult{Player: player}, nil
	}

	snapshot := game.Snapshot()

	return StatusResult{Player: player, Game: &snapshot}, nil
}

// List enumerates every active game with its creator and state.
func (that *Lobby) List() []GameListing {
	snapshots := that.games.Snapshots()

	listings := make([]GameListing, 0, len(snapshots))
	for _, snapshot := range snapshots {
		listings = append(listings, GameListing{
			ID:      snapshot.ID,
			Creator: that.usernameOf(snapshot.CreatorID),
			Status:  snapshot.Status,
		})
	}

	return listings
}

// Disconnect runs a client's cleanup exactly once: leave the current game
// if any, free the registry slot, tell the lobby. The leaver has no
// connection left to respond to, so notifications are delivered here.
// Safe to call for an id that is already gone.
func (that *Lobby) Disconnect(ctx context.Context, playerID int) {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return
	}

	if player.GameID != entity.NoGame {
		_, notes, err := that.Leave(ctx, playerID)
		if err != nil {
			that.logger.Error("failed to leave game on disconnect", "playerID", playerID, "error", err)
		}
		that.Deliver(notes)
	}

	that.clients.Unregister(playerID)
	that.Deliver(that.broadcast(Event{Kind: EventPlayerDisconnected, Actor: player.Username}, playerID))

	that.logger.Info("player disconnected", "playerID", playerID, "username", player.Username)
}

// requireIdle rejects create/join while the caller is in a non-finished
// game. A finished game does not block, and a dangling reference is healed.
func (that *Lobby) requireIdle(playerID int) (entity.Player, error) {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return entity.Player{}, apperror.ErrPlayerNotFound
	}

	if player.GameID == entity.NoGame {
		return player, nil
	}

	if game, ok := that.games.Find(player.GameID); ok {
		snapshot := game.Snapshot()
		if !snapshot.IsFinished() {
			return entity.Player{}, fmt.Errorf("%w: game %d", apperror.ErrAlreadyInGame, player.GameID)
		}
	}

	that.clients.SetCurrentGame(playerID, entity.NoGame)
	player.GameID = entity.NoGame

	return player, nil
}

func (that *Lobby) currentGameOf(playerID int) (*entity.Game, error) {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return nil, apperror.ErrPlayerNotFound
	}

	if player.GameID == entity.NoGame {
		return nil, apperror.ErrNotInGame
	}

	game, ok := that.games.Find(player.GameID)
	if !ok {
		return nil, fmt.Errorf("%w: game %d", apperror.ErrGameNotFound, player.GameID)
	}

	return game, nil
}

// teardownGame frees the slot and clears every client reference to it.
// Pending requests go away with the game.
func (that *Lobby) teardownGame(gameID int) {
	that.games.Free(gameID)
	that.clients.ClearGameRefs(gameID)
}

// broadcast queues event for every connected client except excludeIDs.
func (that *Lobby) broadcast(event Event, excludeIDs ...int) []Notification {
	var notes []Notification
	for _, id := range that.clients.ConnectedIDs(entity.NoPlayer) {
		if containsID(excludeIDs, id) {
			continue
		}
		notes = append(notes, Notification{PlayerID: id, Event: event})
	}

	return notes
}

func (that *Lobby) archiveResult(ctx context.Context, snapshot *entity.GameSnapshot, forfeit bool) {
	if that.archive == nil {
		return
	}

	record := &entity.GameRecord{
		GameID:     snapshot.ID,
		Creator:    that.usernameOf(snapshot.CreatorID),
		Opponent:   that.usernameOf(snapshot.OpponentID),
		Forfeit:    forfeit,
		FinishedAt: time.Now().UTC(),
	}

	if snapshot.IsDraw() {
		record.Draw = true
	} else {
		record.Winner = that.usernameOf(snapshot.Winner)
	}

	if err := that.archive.SaveResult(ctx, record); err != nil {
		that.logger.Error("failed to archive game result", "gameID", snapshot.ID, "error", err)
	}
}

func (that *Lobby) usernameOf(playerID int) string {
	player, ok := that.clients.Find(playerID)
	if !ok {
		return unknownUsername
	}

	return player.Username
}

func containsID(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
