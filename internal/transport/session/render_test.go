package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
	"github.com/forzalabs/connectfour-backend/internal/entity"
	"github.com/forzalabs/connectfour-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderError(t *testing.T) {
	t.Run("Maps taxonomy errors to fixed messages", func(t *testing.T) {
		cases := []struct {
			err  error
			want string
		}{
			{apperror.ErrNotYourTurn, "It's not your turn!"},
			{apperror.ErrOwnGame, "You can't join your own game!"},
			{apperror.ErrColumnFull, "Pick a column from 1 to 7"},
			{apperror.ErrInvalidColumn, "Pick a column from 1 to 7"},
			{apperror.ErrNoFreeGames, "Server full"},
			{apperror.ErrGameNotFinished, "must be finished"},
		}

		for _, tc := range cases {
			out := renderError(tc.err)
			assert.True(t, strings.HasPrefix(out, "\n[ERROR]"), "missing tag for %v", tc.err)
			assert.Contains(t, out, tc.want)
		}
	})

	t.Run("Unwraps annotated errors", func(t *testing.T) {
		// Given: a sentinel wrapped with context, the way the lobby returns it
		err := fmt.Errorf("%w: game 7", apperror.ErrGameNotFound)

		// Then: the fixed message still applies
		assert.Contains(t, renderError(err), "Game not found.")
	})

	t.Run("Falls through verbatim for unknown errors", func(t *testing.T) {
		out := renderError(errors.New("something odd"))

		assert.Contains(t, out, "something odd")
	})
}

func TestRenderGrid(t *testing.T) {
	t.Run("Draws the board row by row under a column header", func(t *testing.T) {
		// Given: a board with one piece of each color
		board := entity.NewBoard()
		_, err := board.Drop(0, entity.PieceCreator)
		require.NoError(t, err)
		_, err = board.Drop(1, entity.PieceOpponent)
		require.NoError(t, err)

		// When: rendering
		out := renderGrid(&board)

		// Then: header, borders and the bottom row are present
		assert.Contains(t, out, "  1 2 3 4 5 6 7\n")
		assert.Contains(t, out, " +---------------+\n")
		assert.Contains(t, out, " | X O . . . . . |\n")

		lines := strings.Split(strings.TrimSpace(out), "\n")
		assert.Len(t, lines, entity.BoardRows+3)
	})
}

func TestBanner(t *testing.T) {
	t.Run("Every line is the same width", func(t *testing.T) {
		out := banner("TITLE", "first line", "a much longer second line of body text")

		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			assert.Equal(t, bannerWidth+2, utf8.RuneCountInString(line), "line %q", line)
		}
	})
}

func TestRenderEvent(t *testing.T) {
	t.Run("Shows the recipient's own piece on accept", func(t *testing.T) {
		// Given: an accepted opponent looking at the fresh game
		game := entity.NewGame(0, 1)
		require.NoError(t, game.RequestJoin(2))
		require.NoError(t, game.ResolveJoin(2, true))
		snapshot := game.Snapshot()

		// When: rendering the acceptance for player 2
		out := renderEvent(2, usecase.Event{
			Kind:  usecase.EventJoinAccepted,
			Actor: "alice",
			Game:  &snapshot,
		})

		// Then: the opponent plays O and sees the empty grid
		assert.Contains(t, out, "alice accepted your request!")
		assert.Contains(t, out, "You play with: O")
		assert.Contains(t, out, " | . . . . . . . |\n")
	})

	t.Run("Announces a forfeit as a win for the one who stayed", func(t *testing.T) {
		out := renderEvent(2, usecase.Event{
			Kind:    usecase.EventOpponentLeft,
			Actor:   "alice",
			Forfeit: true,
		})

		assert.Contains(t, out, "YOU WIN!")
		assert.Contains(t, out, "alice abandoned the game!")
	})

	t.Run("Unknown kinds render nothing", func(t *testing.T) {
		assert.Empty(t, renderEvent(1, usecase.Event{Kind: "bogus"}))
	})
}
