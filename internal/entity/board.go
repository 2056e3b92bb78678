package entity

import (
	"fmt"

	"github.com/forzalabs/connectfour-backend/internal/apperror"
)

const (
	BoardRows = 6
	BoardCols = 7

	EmptyCell     = byte('.')
	PieceCreator  = byte('X')
	PieceOpponent = byte('O')
)

// winDirections - row/col deltas for the four line axes.
var winDirections = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

// Board is one game's grid. Row 0 is the top row; pieces fall toward
// row BoardRows-1. Callers hold the owning game's lock.
type Board [BoardRows][BoardCols]byte

func NewBoard() Board {
	var board Board
	board.Reset()

	return board
}

func (that *Board) Reset() {
	for r := 0; r < BoardRows; r++ {
		for c := 0; c < BoardCols; c++ {
			that[r][c] = EmptyCell
		}
	}
}

// Drop places a piece in a column and returns the row it settled at.
func (that *Board) Drop(column int, piece byte) (int, error) {
	if column < 0 || column >= BoardCols {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	for row := BoardRows - 1; row >= 0; row-- {
		if that[row][column] == EmptyCell {
			that[row][column] = piece
			return row, nil
		}
	}

	return 0, fmt.Errorf("%w: %d", apperror.ErrColumnFull, column)
}

// HasConnectFour reports whether piece holds a straight run of 4 or more
// cells in any of the four axes.
func (that *Board) HasConnectFour(piece byte) bool {
	for row := 0; row < BoardRows; row++ {
		for col := 0; col < BoardCols; col++ {
			for _, dir := range winDirections {
				if that.countRun(row, col, dir[0], dir[1], piece) >= 4 {
					return true
				}
			}
		}
	}

	return false
}

func (that *Board) countRun(row, col, dr, dc int, piece byte) int {
	count := 0

	for i := 0; i < 4; i++ {
		r := row + i*dr
		c := col + i*dc

		if r < 0 || r >= BoardRows || c < 0 || c >= BoardCols {
			break
		}

		if that[r][c] != piece {
			break
		}

		count++
	}

	return count
}

// IsFull reports whether every column has been played to capacity.
// With gravity fill, checking the top row is enough.
func (that *Board) IsFull() bool {
	for col := 0; col < BoardCols; col++ {
		if that[0][col] == EmptyCell {
			return false
		}
	}

	return true
}
