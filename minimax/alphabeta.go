package minimax

import (
	"fmt"
	"io"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Range brackets the true score of a state.
type Range struct {
	Lo, Hi float32
}

func unbounded() Range { return Range{Lo: math32.Inf(-1), Hi: math32.Inf(1)} }

// Converged returns true once the bounds meet, at which point Lo is the exact score.
func (r Range) Converged() bool { return r.Lo == r.Hi }

func (r Range) Format(s fmt.State, c rune) { fmt.Fprintf(s, "[%v, %v]", r.Lo, r.Hi) }

// AlphaBeta is a minimax tree that is expanded and scored at the same time, skipping the
// branches that cannot change the choice of an ancestor.
//
// Each visited state keeps a Range instead of a value. A search that fails low only proves an
// upper bound, one that fails high only a lower bound. Ranges of transposed states are tightened
// by every search that reaches them, and a state whose range already decides the comparison
// is not searched again.
type AlphaBeta struct {
	Config
	arena
	ranges []Range
	built  time.Duration
}

// frame is a state being searched, with the window it was entered with.
type frame struct {
	n      naughty
	kids   []*mnk.State
	next   int
	sign   float32
	a0, b0 float32 // window on entry
	alpha  float32
	beta   float32
	best   float32
}

// NewAlphaBeta searches the tree rooted at root.
func NewAlphaBeta(root *mnk.State, conf Config) (*AlphaBeta, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("Invalid alpha-beta configuration %+v", conf)
	}
	t := &AlphaBeta{Config: conf}
	if err := t.Build(root); err != nil {
		return nil, err
	}
	return t, nil
}

// Build discards the tree and searches a new one rooted at root.
func (t *AlphaBeta) Build(root *mnk.State) error {
	if root == nil {
		return errors.New("Cannot build a tree without a root")
	}
	start := time.Now()
	t.arena = arena{index: make(map[string]naughty)}
	t.ranges = t.ranges[:0]
	t.search(root)
	t.built = time.Since(start)

	r := t.ranges[t.root]
	log.Debug().
		Int("nodes", t.Len()).
		Int("layers", len(t.layers)).
		Float32("lo", r.Lo).
		Float32("hi", r.Hi).
		Dur("elapsed", t.built).
		Msg("alpha-beta tree built")
	return nil
}

// Transfer searches a new tree with the same configuration, rooted at root.
func (t *AlphaBeta) Transfer(root *mnk.State) (*AlphaBeta, error) {
	return NewAlphaBeta(root, t.Config)
}

// Renew returns true. Only the root and its best children are known exactly, so the tree has
// to be searched again from every state a decision is made on.
func (t *AlphaBeta) Renew() bool { return true }

func (t *AlphaBeta) BuildTime() time.Duration { return t.built }

// Range returns the bounds known for s. ok is false if s was never visited.
func (t *AlphaBeta) Range(s *mnk.State) (r Range, ok bool) {
	n, ok := t.lookup(s)
	if !ok {
		return unbounded(), false
	}
	return t.ranges[n], true
}

// Score returns the exact score of s if its range converged, and the sentinel otherwise.
func (t *AlphaBeta) Score(s *mnk.State) float32 {
	if s.Ended() {
		return exact(s)
	}
	if r, ok := t.Range(s); ok && r.Converged() {
		return r.Lo
	}
	return sentinel(s)
}

func (t *AlphaBeta) Summary(w io.Writer) { t.summarize(w, t.built, t.Score) }

// ToDot returns the visited states in graphviz format. Each node is labelled with its range.
func (t *AlphaBeta) ToDot() (string, error) {
	return t.toDot("alpha_beta", func(n naughty) string { return fmt.Sprintf("%v", t.ranges[n]) })
}

// search is a fail soft alpha-beta over an explicit stack of frames.
func (t *AlphaBeta) search(root *mnk.State) {
	inf := math32.Inf(1)
	t.root = 0
	f, _, leaf := t.open(root, nilNode, -inf, inf)
	if leaf {
		return
	}
	stack := []frame{f}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.kids) && top.alpha < top.beta {
			kid := top.kids[top.next]
			top.next++
			f, v, leaf := t.open(kid, top.n, top.alpha, top.beta)
			if leaf {
				top.absorb(v)
				continue
			}
			stack = append(stack, f)
			continue
		}

		v := top.best
		t.store(top.n, v, top.a0, top.b0)
		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			stack[len(stack)-1].absorb(v)
		}
	}
}

// open visits s. If its value can be decided without searching its children, leaf is true and v
// holds the value. Otherwise the returned frame must be searched.
func (t *AlphaBeta) open(s *mnk.State, parent naughty, alpha, beta float32) (f frame, v float32, leaf bool) {
	n, fresh := t.add(s, parent)
	if fresh {
		t.ranges = append(t.ranges, unbounded())
	}
	if parent.isValid() {
		t.linkOnce(parent, n)
	}
	sign := s.ToMove().Sign()
	r := &t.ranges[n]
	switch {
	case s.Ended():
		w := exact(s)
		*r = Range{Lo: w, Hi: w}
		return f, w, true
	case r.Converged():
		return f, r.Lo, true
	case r.Lo >= beta:
		return f, r.Lo, true
	case r.Hi <= alpha:
		return f, r.Hi, true
	case t.boundary(s, t.DepthLimit):
		return f, math32.Inf(-int(sign)), true
	}
	t.nodes[n].expanded = true
	return frame{
		n:     n,
		kids:  s.ExpandAll(),
		sign:  sign,
		a0:    alpha,
		b0:    beta,
		alpha: alpha,
		beta:  beta,
		best:  math32.Inf(-int(sign)),
	}, 0, false
}

func (f *frame) absorb(v float32) {
	if f.sign > 0 {
		if v > f.best {
			f.best = v
		}
		if v > f.alpha {
			f.alpha = v
		}
		return
	}
	if v < f.best {
		f.best = v
	}
	if v < f.beta {
		f.beta = v
	}
}

// store records the result of a search of n entered with the window (a0, b0).
func (t *AlphaBeta) store(n naughty, v, a0, b0 float32) {
	r := &t.ranges[n]
	switch {
	case v <= a0:
		if v < r.Hi {
			r.Hi = v
		}
	case v >= b0:
		if v > r.Lo {
			r.Lo = v
		}
	default:
		*r = Range{Lo: v, Hi: v}
	}
}
