// Package minimax builds game trees over mnk states and scores them exactly, or with random
// playouts at the depth limit.
//
// Scores are always from Cross's point of view: +1 is a win for Cross, -1 a win for Nought, 0 a draw.
// A state a tree has not scored reports an infinite score in favour of the player to move.
package minimax

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/entropy"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Rule is the way a Tree computes the score of its interior states.
type Rule byte

const (
	Minimax Rule = iota // max over children on Cross's turn, min on Nought's
	Negamax             // max over the negated children, from the mover's point of view
	Rollout             // Minimax, with states at the depth limit estimated by random playouts
)

func (r Rule) String() string {
	switch r {
	case Minimax:
		return "minimax"
	case Negamax:
		return "negamax"
	case Rollout:
		return "rollout"
	}
	return fmt.Sprintf("Rule(%d)", byte(r))
}

// Config is the configuration of the trees in this package.
type Config struct {
	DepthLimit    int  // plies below the root. 0 means unlimited
	Rollouts      int  // random playouts per state at the depth limit. Rollout only
	AdjustByDepth bool // weight each playout by the inverse of its length. Rollout only
}

// DefaultConfig returns an unlimited configuration, suitable for the exact rules.
func DefaultConfig() Config {
	return Config{Rollouts: 500}
}

// RolloutConfig returns the default configuration of a Rollout tree.
func RolloutConfig() Config {
	return Config{DepthLimit: 4, Rollouts: 500}
}

func (c Config) IsValid() bool { return c.DepthLimit >= 0 && c.Rollouts >= 0 }

// Tree is a layered game tree scored with minimax, negamax or rollout minimax.
//
// Every reachable state down to the depth limit is collected first, and the whole tree is scored
// in a second pass. Once built, a Tree is read only.
type Tree struct {
	Config
	arena
	rule Rule
	rand *rand.Rand

	scores []float32
	done   []bool // negamax memo
	built  time.Duration
}

// New builds an exhaustive minimax tree rooted at root.
func New(root *mnk.State, conf Config) (*Tree, error) { return newTree(root, conf, Minimax, nil) }

// NewNegamax builds an exhaustive tree scored with negamax.
func NewNegamax(root *mnk.State, conf Config) (*Tree, error) {
	return newTree(root, conf, Negamax, nil)
}

// NewRollout builds a depth limited tree whose frontier is estimated with random playouts drawn
// from r. A nil r uses a freshly seeded generator.
func NewRollout(root *mnk.State, conf Config, r *rand.Rand) (*Tree, error) {
	return newTree(root, conf, Rollout, entropy.OrNew(r))
}

func newTree(root *mnk.State, conf Config, rule Rule, r *rand.Rand) (*Tree, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid %v configuration %+v", rule, conf)
	}
	t := &Tree{Config: conf, rule: rule, rand: r}
	if err := t.Build(root); err != nil {
		return nil, err
	}
	return t, nil
}

// Build discards the tree and builds a new one rooted at root.
func (t *Tree) Build(root *mnk.State) error {
	if root == nil {
		return errors.New("Cannot build a tree without a root")
	}
	start := time.Now()
	t.arena = makeArena(root)
	t.expand()
	t.score()
	t.built = time.Since(start)

	log.Debug().
		Stringer("rule", t.rule).
		Int("nodes", t.Len()).
		Int("layers", len(t.layers)).
		Dur("elapsed", t.built).
		Msg("tree built")
	return nil
}

// Transfer builds a new tree with the same configuration, rooted at root.
func (t *Tree) Transfer(root *mnk.State) (*Tree, error) {
	return newTree(root, t.Config, t.rule, t.rand)
}

// Renew returns false: a tree keeps serving the states below its root.
func (t *Tree) Renew() bool { return false }

func (t *Tree) Rule() Rule { return t.rule }

// BuildTime returns how long the last Build took.
func (t *Tree) BuildTime() time.Duration { return t.built }

// Score returns the score of s. Ended states always score their winner.
func (t *Tree) Score(s *mnk.State) float32 {
	if s.Ended() {
		return exact(s)
	}
	if n, ok := t.lookup(s); ok {
		return t.scores[n]
	}
	return sentinel(s)
}

// Summary writes the size and the score distribution of every layer to w.
func (t *Tree) Summary(w io.Writer) { t.summarize(w, t.built, t.Score) }

// ToDot returns the tree in graphviz format.
func (t *Tree) ToDot() (string, error) {
	return t.toDot(t.rule.String(), func(n naughty) string { return fmt.Sprintf("%v", t.scores[n]) })
}

// expand collects every state reachable from the root depth first.
func (t *Tree) expand() {
	stack := []naughty{t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := t.state(n)
		if s.Ended() || t.boundary(s, t.DepthLimit) {
			continue
		}
		t.nodes[n].expanded = true
		for _, child := range s.ExpandAll() {
			kid, fresh := t.add(child, n)
			t.link(n, kid)
			if fresh {
				stack = append(stack, kid)
			}
		}
	}
}

func (t *Tree) score() {
	t.scores = make([]float32, len(t.nodes))
	if t.rule == Negamax {
		t.done = make([]bool, len(t.nodes))
		t.negamax(t.root)
		return
	}
	for d := len(t.layers) - 1; d >= 0; d-- {
		for _, n := range t.layers[d] {
			t.scores[n] = t.minimax(n)
		}
	}
}

// minimax expects the children of n to be scored already.
func (t *Tree) minimax(n naughty) float32 {
	s := t.state(n)
	if s.Ended() {
		return exact(s)
	}
	sign := s.ToMove().Sign()
	if !t.nodes[n].expanded {
		if t.rule == Rollout {
			return t.estimate(s)
		}
		return math32.Inf(-int(sign))
	}
	best := math32.Inf(-int(sign))
	for _, kid := range t.nodes[n].children {
		if v := t.scores[kid]; v*sign > best*sign {
			best = v
		}
	}
	return best
}

// negamax returns the value of n for the player to move, and records it from Cross's point of view.
func (t *Tree) negamax(n naughty) float32 {
	s := t.state(n)
	sign := s.ToMove().Sign()
	if t.done[n] {
		return t.scores[n] * sign
	}
	var v float32
	switch {
	case s.Ended():
		v = exact(s) * sign
	case !t.nodes[n].expanded:
		v = math32.Inf(-1)
	default:
		v = math32.Inf(-1)
		for _, kid := range t.nodes[n].children {
			if w := -t.negamax(kid); w > v {
				v = w
			}
		}
	}
	t.scores[n] = v * sign
	t.done[n] = true
	return v
}

// estimate plays random games from s. The score is how much more often Cross wins than Nought,
// scaled to [-1, 1]. Drawn playouts only count when no playout was won.
func (t *Tree) estimate(s *mnk.State) float32 {
	tally := make([]float32, 3)
	for i := 0; i < t.Rollouts; i++ {
		end := s.Playout(t.rand)
		w := float32(1)
		if t.AdjustByDepth {
			w = 1 / float32(end.Depth()-s.Depth())
		}
		tally[game.Colour(end.Winner())] += w
	}
	x, o := tally[game.Black], tally[game.White]
	if x+o == 0 {
		return 0
	}
	return (x/(x+o) - 0.5) / 0.5
}
