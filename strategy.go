// Package tictactoe plays N in a row games on square boards with interchangeable search strategies.
//
// A Strategy scores states. A Selector asks its strategy for the scores of the children of the
// current state and moves to the best one, rebuilding the strategy's tree when the current state
// is beyond what the strategy knows.
package tictactoe

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/mcts"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/minimax"
	"github.com/pkg/errors"
)

// Strategy is a game tree that scores states.
//
// Scores are from Cross's point of view. A state the strategy has no score for is given an
// infinite score in favour of its player to move.
type Strategy interface {
	// Root returns the state the tree is rooted at.
	Root() *mnk.State
	// Score returns the score of the state.
	Score(s *mnk.State) float32
	// Renew returns true if the tree must be rebuilt for every state a decision is made on.
	Renew() bool
	// Build discards the tree and builds a new one rooted at root.
	Build(root *mnk.State) error
}

// Inspector is a Strategy that can describe its tree.
type Inspector interface {
	Summary(w io.Writer)
	ToDot() (string, error)
}

var (
	_ Strategy  = &minimax.Tree{}
	_ Strategy  = &minimax.AlphaBeta{}
	_ Strategy  = &mcts.MCTS{}
	_ Inspector = &minimax.Tree{}
	_ Inspector = &minimax.AlphaBeta{}
	_ Inspector = &mcts.MCTS{}
)

// UnknownStrategyError is returned for strategy names NewStrategy does not know.
type UnknownStrategyError string

func (err UnknownStrategyError) Error() string {
	return fmt.Sprintf("Unknown strategy %q. Expected one of %v", string(err), Strategies)
}

// NewStrategy builds the configured strategy rooted at root. Random choices draw from r.
func NewStrategy(conf Config, root *mnk.State, r *rand.Rand) (Strategy, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	var (
		s   Strategy
		err error
	)
	switch conf.Strategy {
	case Minimax:
		s, err = minimax.New(root, conf.minimax())
	case Negamax:
		s, err = minimax.NewNegamax(root, conf.minimax())
	case AlphaBeta:
		s, err = minimax.NewAlphaBeta(root, conf.minimax())
	case Rollout:
		s, err = minimax.NewRollout(root, conf.minimax(), r)
	case MonteCarlo:
		s, err = mcts.New(root, conf.mcts(), r)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to build strategy %q", conf.Strategy)
	}
	return s, nil
}
