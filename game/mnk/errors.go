package mnk

import (
	"fmt"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
)

// InvalidDimensionError is returned when a board cannot host the requested winning length.
type InvalidDimensionError struct {
	Size, Length int
}

func (err InvalidDimensionError) Error() string {
	return fmt.Sprintf("Unable to play %d in a row on a %dx%d board", err.Length, err.Size, err.Size)
}

// OccupiedCellError is returned when a move targets a cell that already holds a mark.
type OccupiedCellError struct {
	Coord game.Coord
	Owner game.Colour
}

func (err OccupiedCellError) Error() string {
	return fmt.Sprintf("Cell %v is already taken by %v", err.Coord, err.Owner)
}

// OutOfBoundsError is returned when a move targets a cell outside of the board.
type OutOfBoundsError struct {
	Coord game.Coord
	Size  int
}

func (err OutOfBoundsError) Error() string {
	return fmt.Sprintf("Cell %v is outside of the %dx%d board", err.Coord, err.Size, err.Size)
}
