package game

import (
	"fmt"
)

type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		}
	case 's': // used in board games
		fmt.Fprint(s, string(cl.Glyph()))
	}
}

// Glyph returns the single byte used to draw the colour on a board.
func (cl Colour) Glyph() byte {
	switch cl {
	case Black:
		return 'X'
	case White:
		return 'O'
	}
	return ' '
}

// Player represents a player. It's also a colour.
//
// Black (X) always moves first and is the maximizing side.
type Player Colour

func (p Player) Format(s fmt.State, c rune) { Colour(p).Format(s, c) }

// Opponent returns the other player. None has no opponent.
func (p Player) Opponent() Player {
	switch Colour(p) {
	case Black:
		return Player(White)
	case White:
		return Player(Black)
	}
	return Player(None)
}

// Sign returns +1 for the maximizing player, -1 for the minimizing player and 0 for None.
// Scores are always expressed from the maximizing player's point of view, so a state's score
// multiplied by the sign of the player to move gives "goodness for the mover".
func (p Player) Sign() float32 {
	switch Colour(p) {
	case Black:
		return 1
	case White:
		return -1
	}
	return 0
}

// PlayerMove is a tuple indicating the player and the move to be made.
type PlayerMove struct {
	Player
	Coord
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Coord == other.Coord
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%v", p.Player, p.Coord) }

// Coord represents a (row, col) coordinate.
//
// The Coord uses a standard computer cartesian coordinates
//		- (0, 0) represents the top left
//		- (2, 2) represents the bottom right of a 3x3 board
type Coord struct {
	Row, Col int
}

func (c Coord) Add(other Coord) Coord { return Coord{c.Row + other.Row, c.Col + other.Col} }

// Scale multiplies both components by n.
func (c Coord) Scale(n int) Coord { return Coord{c.Row * n, c.Col * n} }

func (c Coord) Eq(other Coord) bool { return c.Row == other.Row && c.Col == other.Col }

// In returns true if the coordinate lies on a size x size board.
func (c Coord) In(size int) bool { return c.Row >= 0 && c.Row < size && c.Col >= 0 && c.Col < size }

func (c Coord) Format(s fmt.State, r rune) { fmt.Fprintf(s, "(%d, %d)", c.Row, c.Col) }

// Single represents a coordinate as a single number, utilized in a rowmajor fashion.
//		- 0 represents the top left
//		- 2 represents the top right of a 3x3 board
//		- 3 represents (1, 0)
type Single int32

// Directions are the four axes a winning line may run along: horizontal, vertical and both diagonals.
var Directions = [4]Coord{{0, 1}, {1, 0}, {1, 1}, {-1, 1}}

// CoordConverter converts between the two coordinate representations.
type CoordConverter interface {
	Ltoi(Coord) Single
	Itol(Single) Coord
}
