package tictactoe

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/entropy"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Selector picks moves with a Strategy.
type Selector struct {
	strategy Strategy
	rand     *rand.Rand
}

// NewSelector creates a selector. Ties are broken with r. A nil r uses a freshly seeded generator.
func NewSelector(strategy Strategy, r *rand.Rand) *Selector {
	return &Selector{
		strategy: strategy,
		rand:     entropy.OrNew(r),
	}
}

// Setup builds the empty board, the strategy and the selector described by conf.
func Setup(conf Config) (*mnk.State, *Selector, error) {
	root, err := conf.Root()
	if err != nil {
		return nil, nil, err
	}
	r := conf.Rand()
	strategy, err := NewStrategy(conf, root, r)
	if err != nil {
		return nil, nil, err
	}
	return root, NewSelector(strategy, r), nil
}

func (s *Selector) Strategy() Strategy { return s.strategy }

// Next returns the child of state that is best for the player to move. Children with equal
// scores are chosen from at random. Next returns nil if the game has ended.
func (s *Selector) Next(state *mnk.State) (*mnk.State, error) {
	if state.Ended() {
		return nil, nil
	}
	if s.stale(state) {
		if err := s.transfer(state); err != nil {
			return nil, err
		}
	}

	children := state.ExpandAll()
	best, v := s.best(state, children)
	if math32.IsInf(v, -1) && !s.strategy.Root().Eq(state) {
		// none of the children is resolved
		if err := s.transfer(state); err != nil {
			return nil, err
		}
		best, v = s.best(state, children)
	}
	return best[s.rand.Intn(len(best))], nil
}

// Path plays the strategy against itself from state, and returns every state from state down to the end of the game.
func (s *Selector) Path(state *mnk.State) ([]*mnk.State, error) {
	retVal := []*mnk.State{state}
	for cur := state; ; {
		next, err := s.Next(cur)
		if err != nil {
			return retVal, err
		}
		if next == nil {
			return retVal, nil
		}
		retVal = append(retVal, next)
		cur = next
	}
}

// stale returns true if the strategy's tree cannot be used to decide on state.
func (s *Selector) stale(state *mnk.State) bool {
	if s.strategy.Renew() && !s.strategy.Root().Eq(state) {
		return true
	}
	return math32.IsInf(s.strategy.Score(state), 0)
}

func (s *Selector) transfer(state *mnk.State) error {
	log.Debug().
		Int("from", s.strategy.Root().Depth()).
		Int("to", state.Depth()).
		Msg("rebuilding tree")
	return errors.Wrap(s.strategy.Build(state), "Unable to rebuild the tree")
}

// best returns the children with the highest score for the player to move, along with that score.
func (s *Selector) best(state *mnk.State, children []*mnk.State) (best []*mnk.State, v float32) {
	sign := state.ToMove().Sign()
	v = math32.Inf(-1)
	for i, child := range children {
		score := s.strategy.Score(child) * sign
		switch {
		case i == 0 || score > v:
			v = score
			best = append(best[:0], child)
		case score == v:
			best = append(best, child)
		}
	}
	return best, v
}

// FormatPath writes every state of a path, separated by rules, followed by the outcome.
func FormatPath(w io.Writer, path []*mnk.State) {
	for _, s := range path {
		fmt.Fprintf(w, "%s-----------\n", s)
	}
	if len(path) == 0 {
		return
	}
	last := path[len(path)-1]
	switch {
	case !last.Ended():
		fmt.Fprintln(w, "game in progress")
	case last.Winner() == game.Player(game.None):
		fmt.Fprintln(w, "winner: none (draw)")
	default:
		fmt.Fprintf(w, "winner: %s\n", last.Winner())
	}
}
