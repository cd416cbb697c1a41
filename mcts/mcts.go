// Package mcts implements a time bounded Monte Carlo tree search over mnk states.
//
// Every node of the tree keeps a [draws, Cross wins, Nought wins] tally of the simulations that
// went through it. Positions reached by different move orders share a node, and a simulation
// is counted once by every ancestor of the node it started from.
package mcts

import (
	"context"
	"io"
	"math/rand"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/entropy"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Config is the structure to configure the search.
type Config struct {
	ExplorationWeight float32       // weight of the exploration term of the priority
	Timeout           time.Duration // wall clock budget of a search
	Budget            int           // iteration budget. 0 means the search runs until Timeout
}

func DefaultConfig() Config {
	return Config{
		ExplorationWeight: 1.41,
		Timeout:           time.Second,
	}
}

func (c Config) IsValid() bool {
	return c.ExplorationWeight >= 0 && c.Timeout > 0 && c.Budget >= 0
}

// MCTS is the search tree. Nodes live in a single arena and refer to one another by index.
type MCTS struct {
	Config
	rand     *rand.Rand
	detector *mnk.Detector

	// memory related fields
	nodes    []Node
	children [][]naughty
	parents  [][]naughty
	index    map[string]naughty
	root     naughty

	simulations float32 // over the whole tree, used by the exploration term
	iterations  int
	elapsed     time.Duration
}

// New searches the tree rooted at root for conf.Timeout. Random choices draw from r. A nil r
// uses a freshly seeded generator.
func New(root *mnk.State, conf Config, r *rand.Rand) (*MCTS, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid MCTS configuration %+v", conf)
	}
	t := &MCTS{
		Config: conf,
		rand:   entropy.OrNew(r),
	}
	if err := t.Build(root); err != nil {
		return nil, err
	}
	return t, nil
}

// Build discards the tree and searches a new one rooted at root.
func (t *MCTS) Build(root *mnk.State) error { return t.BuildContext(context.Background(), root) }

// BuildContext is Build, stopping early if ctx is done before the time budget elapses.
func (t *MCTS) BuildContext(ctx context.Context, root *mnk.State) error {
	if root == nil {
		return errors.New("Cannot search without a root")
	}
	t.reset(root)

	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	start := time.Now()
	t.search(ctx)
	t.elapsed = time.Since(start)

	log.Debug().
		Int("iterations", t.iterations).
		Int("nodes", len(t.nodes)).
		Float32("simulations", t.simulations).
		Dur("elapsed", t.elapsed).
		Msg("monte carlo tree built")
	return nil
}

// Transfer returns a new tree rooted at root, searched with the same configuration and random source.
func (t *MCTS) Transfer(root *mnk.State) (*MCTS, error) { return New(root, t.Config, t.rand) }

// Renew returns true. Visit counts below the root are too thin to be trusted, so every decision gets a search of its own.
func (t *MCTS) Renew() bool { return true }

func (t *MCTS) Root() *mnk.State { return t.nodes[t.root].state }

// Nodes returns the number of nodes in the tree.
func (t *MCTS) Nodes() int { return len(t.nodes) }

// Iterations returns the number of SELECT, SIMULATE, EXPAND, BACKPROPAGATE cycles the last search ran.
func (t *MCTS) Iterations() int { return t.iterations }

func (t *MCTS) BuildTime() time.Duration { return t.elapsed }

// Score returns the average outcome of the simulations through s, from Cross's point of view.
// Ended states score their winner, and states without any simulation score the sentinel.
func (t *MCTS) Score(s *mnk.State) float32 {
	if s.Ended() {
		return s.Winner().Sign()
	}
	n, ok := t.lookup(s)
	if !ok || t.nodes[n].Rollouts() == 0 {
		return sentinel(s)
	}
	return t.nodes[n].Value()
}

// Counts returns the [draws, Cross wins, Nought wins] tally of s. ok is false if s is not in the tree.
func (t *MCTS) Counts(s *mnk.State) (counts []float32, ok bool) {
	n, ok := t.lookup(s)
	if !ok {
		return nil, false
	}
	counts = make([]float32, len(t.nodes[n].counts))
	copy(counts, t.nodes[n].counts)
	return counts, true
}

// Summary writes the statistics of the root's children, most visited first.
func (t *MCTS) Summary(w io.Writer) { t.summarize(w) }
