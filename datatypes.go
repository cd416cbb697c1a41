package tictactoe

import (
	"math/rand"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/entropy"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/mcts"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/minimax"
	"github.com/pkg/errors"
)

// Names of the strategies NewStrategy knows about.
const (
	Minimax    = "minimax"
	AlphaBeta  = "alpha_beta"
	Negamax    = "negamax"
	MonteCarlo = "monte_carlo"
	Rollout    = "rollout"
)

// Strategies lists every strategy name, in the order they are documented.
var Strategies = []string{Minimax, AlphaBeta, Negamax, MonteCarlo, Rollout}

// Config configures a game and the strategy that plays it.
type Config struct {
	Strategy      string
	BoardSize     int
	WinningLength int

	// minimax family
	DepthLimit    int // 0 means unlimited
	Rollouts      int // rollout only
	AdjustByDepth bool

	// monte carlo
	TimeLimit         time.Duration
	ExplorationWeight float32
	Budget            int

	Seed int64 // 0 means fresh entropy
}

// DefaultConfig returns the configuration of a 3x3 board, 3 in a row, played by the named strategy.
func DefaultConfig(strategy string) Config {
	mm := minimax.DefaultConfig()
	mc := mcts.DefaultConfig()
	conf := Config{
		Strategy:          strategy,
		BoardSize:         3,
		WinningLength:     3,
		DepthLimit:        mm.DepthLimit,
		Rollouts:          mm.Rollouts,
		TimeLimit:         mc.Timeout,
		ExplorationWeight: mc.ExplorationWeight,
		Budget:            mc.Budget,
	}
	if strategy == Rollout {
		conf.DepthLimit = minimax.RolloutConfig().DepthLimit
	}
	return conf
}

// Validate returns an error describing the first problem found with the configuration.
func (c Config) Validate() error {
	if !knownStrategy(c.Strategy) {
		return errors.WithStack(UnknownStrategyError(c.Strategy))
	}
	switch {
	case c.BoardSize < 1:
		return errors.Errorf("Board size must be positive. Got %d", c.BoardSize)
	case c.WinningLength < 1:
		return errors.Errorf("Winning length must be positive. Got %d", c.WinningLength)
	case c.WinningLength > c.BoardSize:
		return errors.WithStack(mnk.InvalidDimensionError{Size: c.BoardSize, Length: c.WinningLength})
	case c.DepthLimit < 0:
		return errors.Errorf("Depth limit cannot be negative. Got %d", c.DepthLimit)
	case c.Rollouts < 0:
		return errors.Errorf("Rollouts cannot be negative. Got %d", c.Rollouts)
	case c.Budget < 0:
		return errors.Errorf("Budget cannot be negative. Got %d", c.Budget)
	case c.ExplorationWeight < 0:
		return errors.Errorf("Exploration weight cannot be negative. Got %v", c.ExplorationWeight)
	case c.Strategy == MonteCarlo && c.TimeLimit <= 0:
		return errors.Errorf("Monte Carlo search needs a positive time limit. Got %v", c.TimeLimit)
	}
	return nil
}

// Root returns the empty board the configuration describes.
func (c Config) Root() (*mnk.State, error) { return mnk.New(c.BoardSize, c.WinningLength) }

// Rand returns a generator seeded with Seed, or with fresh entropy if Seed is 0.
func (c Config) Rand() *rand.Rand { return entropy.New(c.Seed) }

func (c Config) minimax() minimax.Config {
	return minimax.Config{
		DepthLimit:    c.DepthLimit,
		Rollouts:      c.Rollouts,
		AdjustByDepth: c.AdjustByDepth,
	}
}

func (c Config) mcts() mcts.Config {
	return mcts.Config{
		ExplorationWeight: c.ExplorationWeight,
		Timeout:           c.TimeLimit,
		Budget:            c.Budget,
	}
}

func knownStrategy(name string) bool {
	for _, s := range Strategies {
		if s == name {
			return true
		}
	}
	return false
}
