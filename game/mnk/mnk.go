package mnk

import (
	"bytes"
	"fmt"
	"math"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
)

var (
	Cross  = game.Player(game.Black)
	Nought = game.Player(game.White)
)

var _ game.CoordConverter = &State{}

// State is an immutable position of an N-in-a-row game played on a square board.
//
// A State records whose turn it is to produce its children, how many plies it is away from the
// root it was expanded from, and the length of a winning line. The winner, whether the game
// has ended and the coordinates held by each colour are computed once at construction.
type State struct {
	board        []game.Colour
	size, length int
	toMove       game.Player
	depth        int
	parent       *State // non-owning. nil for roots

	// derived
	coords [3][]game.Coord // indexed by game.Colour
	winner game.Player
	ended  bool
	key    string
}

// New creates the empty board of the given size. Cross moves first.
func New(size, length int) (*State, error) {
	return NewState(make([]game.Colour, size*size), Cross, nil, 0, length)
}

// TicTacToe creates the empty 3x3 board with 3 in a row to win.
func TicTacToe() *State {
	s, err := New(3, 3)
	if err != nil {
		panic(err)
	}
	return s
}

// NewState creates a state from a row-major board. The board is copied.
func NewState(board []game.Colour, toMove game.Player, parent *State, depth, length int) (*State, error) {
	size := int(math.Sqrt(float64(len(board))))
	if size*size != len(board) || size == 0 {
		return nil, errors.Errorf("Expected a square board. Got %d cells", len(board))
	}
	if length < 1 || length > size {
		return nil, errors.WithStack(InvalidDimensionError{Size: size, Length: length})
	}
	if toMove != Cross && toMove != Nought {
		return nil, errors.Errorf("Expected Cross or Nought to move. Got %v", toMove)
	}
	b := make([]game.Colour, len(board))
	copy(b, board)
	return newState(b, size, length, toMove, parent, depth), nil
}

// FromRows creates a root state from a nested board. Mostly useful for tests and puzzles.
func FromRows(rows [][]game.Colour, toMove game.Player, length int) (*State, error) {
	board := make([]game.Colour, 0, len(rows)*len(rows))
	for i, row := range rows {
		if len(row) != len(rows) {
			return nil, errors.Errorf("Row %d has %d cells. Expected %d", i, len(row), len(rows))
		}
		board = append(board, row...)
	}
	return NewState(board, toMove, nil, 0, length)
}

// newState takes ownership of board.
func newState(board []game.Colour, size, length int, toMove game.Player, parent *State, depth int) *State {
	s := &State{
		board:  board,
		size:   size,
		length: length,
		toMove: toMove,
		parent: parent,
		depth:  depth,
	}
	s.collect()
	s.winner = s.findWinner()
	s.ended = s.winner != game.Player(game.None) || len(s.coords[game.None]) == 0
	s.key = s.encode()
	return s
}

func (s *State) collect() {
	for i, c := range s.board {
		s.coords[c] = append(s.coords[c], s.Itol(game.Single(i)))
	}
}

// findWinner looks for a complete line starting at any mark of a player that holds enough marks.
func (s *State) findWinner() game.Player {
	for _, p := range []game.Player{Cross, Nought} {
		colour := game.Colour(p)
		if len(s.coords[colour]) < s.length {
			continue
		}
		for _, c := range s.coords[colour] {
			for _, d := range game.Directions {
				if s.owns(colour, c, d) {
					return p
				}
			}
		}
	}
	return game.Player(game.None)
}

// owns checks that the length-long segment starting at c going along d is entirely of colour.
func (s *State) owns(colour game.Colour, c, d game.Coord) bool {
	for i := 0; i < s.length; i++ {
		at := c.Add(d.Scale(i))
		if !at.In(s.size) || s.board[s.Ltoi(at)] != colour {
			return false
		}
	}
	return true
}

func (s *State) encode() string {
	buf := make([]byte, len(s.board)+1)
	for i, c := range s.board {
		buf[i] = c.Glyph()
	}
	buf[len(s.board)] = game.Colour(s.toMove).Glyph()
	return string(buf)
}

func (s *State) Ltoi(c game.Coord) game.Single { return game.Single(c.Row*s.size + c.Col) }
func (s *State) Itol(i game.Single) game.Coord {
	return game.Coord{Row: int(i) / s.size, Col: int(i) % s.size}
}

func (s *State) Size() int            { return s.size }
func (s *State) Length() int          { return s.length }
func (s *State) ToMove() game.Player  { return s.toMove }
func (s *State) Depth() int           { return s.depth }
func (s *State) Parent() *State       { return s.parent }
func (s *State) Winner() game.Player  { return s.winner }
func (s *State) Ended() bool          { return s.ended }
func (s *State) Board() []game.Colour { return s.board }

// Key is the canonical encoding of the board and the player to move. Two states are equal iff their keys are.
func (s *State) Key() string { return s.key }

// Eq returns true if both states hold the same marks and the same player is to move.
func (s *State) Eq(other *State) bool { return other != nil && s.key == other.key }

// At returns the colour at the given coordinate. Coordinates off the board are None.
func (s *State) At(c game.Coord) game.Colour {
	if !c.In(s.size) {
		return game.None
	}
	return s.board[s.Ltoi(c)]
}

// Coordinates returns the coordinates holding the given colour. The returned slice must not be modified.
func (s *State) Coordinates(c game.Colour) []game.Coord { return s.coords[c] }

// LegalMoves returns the empty coordinates in row major order. An ended game has no legal moves.
func (s *State) LegalMoves() []game.Coord {
	if s.ended {
		return nil
	}
	retVal := make([]game.Coord, len(s.coords[game.None]))
	copy(retVal, s.coords[game.None])
	return retVal
}

// ExpandOne places the mark of the player to move on c, returning the child state.
func (s *State) ExpandOne(c game.Coord) (*State, error) {
	if !c.In(s.size) {
		return nil, errors.WithStack(OutOfBoundsError{Coord: c, Size: s.size})
	}
	idx := s.Ltoi(c)
	if owner := s.board[idx]; owner != game.None {
		return nil, errors.WithStack(OccupiedCellError{Coord: c, Owner: owner})
	}
	board := make([]game.Colour, len(s.board))
	copy(board, s.board)
	board[idx] = game.Colour(s.toMove)
	return newState(board, s.size, s.length, s.toMove.Opponent(), s, s.depth+1), nil
}

// ExpandAll returns one child per legal move, in row major order. Every call builds new children.
func (s *State) ExpandAll() []*State {
	if s.ended {
		return nil
	}
	retVal := make([]*State, 0, len(s.coords[game.None]))
	for _, c := range s.coords[game.None] {
		child, err := s.ExpandOne(c)
		if err != nil {
			panic(err) // empty coordinates are always playable
		}
		retVal = append(retVal, child)
	}
	return retVal
}

// Path returns the states from the root this state was expanded from, down to this state.
func (s *State) Path() []*State {
	var retVal []*State
	for n := s; n != nil; n = n.parent {
		retVal = append(retVal, n)
	}
	for i, j := 0, len(retVal)-1; i < j; i, j = i+1, j-1 {
		retVal[i], retVal[j] = retVal[j], retVal[i]
	}
	return retVal
}

// Rows returns a row view of a copy of the board.
func (s *State) Rows() [][]game.Colour {
	backing := make([]game.Colour, len(s.board))
	copy(backing, s.board)
	return rowsOf(backing, s.size)
}

func rowsOf(backing []game.Colour, size int) [][]game.Colour {
	data := tensor.New(tensor.WithShape(size, size), tensor.WithBacking(backing))
	it, err := native.Matrix(data)
	if err != nil {
		panic(err)
	}
	return it.([][]game.Colour)
}

// Rotate returns the state rotated by 90 degrees counterclockwise. The player to move, the depth and the parent are kept.
func (s *State) Rotate() *State {
	m := s.size
	backing := make([]game.Colour, len(s.board))
	copy(backing, s.board)
	it := rowsOf(backing, m)
	for i := 0; i < m/2; i++ {
		mi1 := m - i - 1
		for j := i; j < mi1; j++ {
			mj1 := m - j - 1
			tmp := it[i][j]
			// right to top
			it[i][j] = it[j][mi1]

			// bottom to right
			it[j][mi1] = it[mi1][mj1]

			// left to bottom
			it[mi1][mj1] = it[mj1][i]

			// tmp is left
			it[mj1][i] = tmp
		}
	}
	return newState(backing, s.size, s.length, s.toMove, s.parent, s.depth)
}

// String renders one line per row prefixed by the row index, followed by the column indices.
func (s *State) String() string {
	var buf bytes.Buffer
	for i, row := range s.Rows() {
		fmt.Fprintf(&buf, "%d", i)
		for _, c := range row {
			fmt.Fprintf(&buf, " %s", c)
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(" ")
	for j := 0; j < s.size; j++ {
		fmt.Fprintf(&buf, " %d", j)
	}
	buf.WriteByte('\n')
	return buf.String()
}

func (s *State) Format(f fmt.State, c rune) {
	switch c {
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "%sto move: %v depth: %d ended: %t winner: %v\n", s.String(), s.toMove, s.depth, s.ended, s.winner)
			return
		}
		fallthrough
	default:
		fmt.Fprint(f, s.String())
	}
}
