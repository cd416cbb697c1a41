package mnk

import (
	"sync"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

// Line is a set of coordinates that wins the game when a single player owns all of them.
type Line []game.Coord

// OpenLine is a line of length+1 cells: the player owns the inner length-1 cells, and either
// empty end completes a win. The opponent can only block one of the ends.
type OpenLine struct {
	Ends  [2]game.Coord
	Inner []game.Coord
}

// Detector estimates win potential of non terminal states from precomputed winning lines.
//
// A Detector is immutable once built and is shared by every search on the same board configuration.
type Detector struct {
	size, length int
	lines        []Line
	open         []OpenLine
}

type dims struct{ size, length int }

var detectors = struct {
	sync.Mutex
	m map[dims]*Detector
}{m: make(map[dims]*Detector)}

// Patterns returns the Detector for the given board size and winning length, building it on first use.
func Patterns(size, length int) (*Detector, error) {
	if size < 1 || length < 1 || length > size {
		return nil, errors.WithStack(InvalidDimensionError{Size: size, Length: length})
	}
	key := dims{size, length}
	detectors.Lock()
	defer detectors.Unlock()
	if d, ok := detectors.m[key]; ok {
		return d, nil
	}
	d := generatePatterns(size, length)
	detectors.m[key] = d
	return d, nil
}

// PatternsFor returns the Detector matching the state's board.
func PatternsFor(s *State) *Detector {
	d, err := Patterns(s.size, s.length)
	if err != nil {
		panic(err) // a constructed state always has valid dimensions
	}
	return d
}

func generatePatterns(size, length int) *Detector {
	d := &Detector{size: size, length: length}
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			start := game.Coord{Row: row, Col: col}
			for _, dir := range game.Directions {
				seg := make([]game.Coord, length+1)
				for i := range seg {
					seg[i] = start.Add(dir.Scale(i))
				}
				if inBounds(seg[:length], size) {
					d.lines = append(d.lines, Line(seg[:length:length]))
				}
				if inBounds(seg, size) {
					d.open = append(d.open, OpenLine{
						Ends:  [2]game.Coord{seg[0], seg[length]},
						Inner: seg[1:length],
					})
				}
			}
		}
	}
	return d
}

func inBounds(seg []game.Coord, size int) bool {
	for _, c := range seg {
		if !c.In(size) {
			return false
		}
	}
	return true
}

func (d *Detector) Lines() []Line         { return d.lines }
func (d *Detector) OpenLines() []OpenLine { return d.open }

// Detect returns a [draws, Cross, Nought] tally. For ended states the tally is one-hot on the winner.
//
// For the others, it counts the lines each player is one move away from completing (the player
// not to move gets one threat discounted, since it can be blocked) plus the open lines each
// player holds. This is a heuristic: mixed signals mean nothing certain.
func (d *Detector) Detect(s *State) []float32 {
	retVal := make([]float32, 3)
	if s.Ended() {
		retVal[game.Colour(s.Winner())] = 1
		return retVal
	}
	vecf32.Add(retVal, d.oneMove(s))
	vecf32.Add(retVal, d.twoMoves(s))
	return retVal
}

func (d *Detector) oneMove(s *State) []float32 {
	retVal := make([]float32, 3)
	for _, p := range []game.Colour{game.Black, game.White} {
		for _, l := range d.lines {
			var empty, owned int
			for _, c := range l {
				switch s.At(c) {
				case game.None:
					empty++
				case p:
					owned++
				}
			}
			if empty == 1 && owned == d.length-1 {
				retVal[p]++
			}
		}
	}
	waiting := game.Colour(s.ToMove().Opponent())
	if retVal[waiting] > 0 {
		retVal[waiting]--
	}
	return retVal
}

func (d *Detector) twoMoves(s *State) []float32 {
	retVal := make([]float32, 3)
	for _, p := range []game.Colour{game.Black, game.White} {
	next:
		for _, l := range d.open {
			if s.At(l.Ends[0]) != game.None || s.At(l.Ends[1]) != game.None {
				continue
			}
			for _, c := range l.Inner {
				if s.At(c) != p {
					continue next
				}
			}
			retVal[p]++
		}
	}
	return retVal
}

// Forced reports the outcome the detector is certain about. ok is false otherwise.
//
// The player to move wins if it can complete a line right away. The waiting player wins if
// it threatens to complete lines on two or more distinct cells, since only one can be blocked.
// When no line is open for either player, the game is a draw.
func (d *Detector) Forced(s *State) (winner game.Player, ok bool) {
	if s.Ended() {
		return s.Winner(), true
	}
	mover := s.ToMove()
	waiting := mover.Opponent()
	if len(d.Threats(s, mover)) > 0 {
		return mover, true
	}
	if len(d.Threats(s, waiting)) > 1 {
		return waiting, true
	}
	if x, o := d.CountOpen(s); x == 0 && o == 0 {
		return game.Player(game.None), true
	}
	return game.Player(game.None), false
}

// Threats returns the distinct empty cells that would complete a line for p.
func (d *Detector) Threats(s *State, p game.Player) []game.Coord {
	colour := game.Colour(p)
	var retVal []game.Coord
	for _, l := range d.lines {
		var owned int
		var hole game.Coord
		var holes int
		for _, c := range l {
			switch s.At(c) {
			case game.None:
				holes++
				hole = c
			case colour:
				owned++
			}
		}
		if holes != 1 || owned != d.length-1 || containsCoord(retVal, hole) {
			continue
		}
		retVal = append(retVal, hole)
	}
	return retVal
}

func containsCoord(a []game.Coord, c game.Coord) bool {
	for _, v := range a {
		if v == c {
			return true
		}
	}
	return false
}

// CountOpen returns, per player, the number of winning lines that hold none of the opponent's marks.
func (d *Detector) CountOpen(s *State) (cross, nought int) {
	for _, l := range d.lines {
		var hasX, hasO bool
		for _, c := range l {
			switch s.At(c) {
			case game.Black:
				hasX = true
			case game.White:
				hasO = true
			}
		}
		if !hasO {
			cross++
		}
		if !hasX {
			nought++
		}
	}
	return
}
