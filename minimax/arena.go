package minimax

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/dot"
	"github.com/chewxy/math32"
)

// naughty is essentially *node: an index into the arena.
type naughty int

const nilNode naughty = -1

func (n naughty) isValid() bool { return n >= 0 }

type node struct {
	state    *mnk.State
	parent   naughty // the first parent the state was reached from
	children []naughty
	expanded bool
}

// arena holds every state a tree knows about exactly once. States reached through different
// move orders share a node, which keeps the tree at the number of distinct positions.
type arena struct {
	root   naughty
	nodes  []node
	index  map[string]naughty
	layers [][]naughty // by depth relative to the root
}

func makeArena(root *mnk.State) arena {
	a := arena{
		nodes: make([]node, 0, 1024),
		index: make(map[string]naughty),
	}
	a.root, _ = a.add(root, nilNode)
	return a
}

// add registers the state. fresh is false if the state was already known, in which case the existing node is returned.
func (a *arena) add(s *mnk.State, parent naughty) (n naughty, fresh bool) {
	if n, ok := a.index[s.Key()]; ok {
		return n, false
	}
	n = naughty(len(a.nodes))
	a.nodes = append(a.nodes, node{state: s, parent: parent})
	a.index[s.Key()] = n
	depth := a.relDepth(s)
	for len(a.layers) <= depth {
		a.layers = append(a.layers, nil)
	}
	a.layers[depth] = append(a.layers[depth], n)
	return n, true
}

func (a *arena) lookup(s *mnk.State) (naughty, bool) {
	n, ok := a.index[s.Key()]
	return n, ok
}

func (a *arena) state(n naughty) *mnk.State { return a.nodes[n].state }

// relDepth is the number of plies between the root and s.
func (a *arena) relDepth(s *mnk.State) int {
	if len(a.nodes) == 0 {
		return 0
	}
	return s.Depth() - a.nodes[a.root].state.Depth()
}

// boundary returns true if s sits at the depth limit and must not be expanded.
func (a *arena) boundary(s *mnk.State, limit int) bool {
	return limit > 0 && !s.Ended() && a.relDepth(s) >= limit
}

func (a *arena) link(parent, child naughty) {
	a.nodes[parent].children = append(a.nodes[parent].children, child)
}

// linkOnce links child to parent unless an earlier visit already did.
func (a *arena) linkOnce(parent, child naughty) {
	for _, kid := range a.nodes[parent].children {
		if kid == child {
			return
		}
	}
	a.link(parent, child)
}

// Root returns the state the tree is rooted at.
func (a *arena) Root() *mnk.State { return a.nodes[a.root].state }

// Len returns the number of distinct states in the tree.
func (a *arena) Len() int { return len(a.nodes) }

// Contains returns true if the tree holds the state.
func (a *arena) Contains(s *mnk.State) bool {
	_, ok := a.index[s.Key()]
	return ok
}

// States returns every state of the tree, layer by layer.
func (a *arena) States() []*mnk.State {
	retVal := make([]*mnk.State, 0, len(a.nodes))
	for _, layer := range a.layers {
		for _, n := range layer {
			retVal = append(retVal, a.nodes[n].state)
		}
	}
	return retVal
}

// Layers returns the states of the tree grouped by depth.
func (a *arena) Layers() [][]*mnk.State {
	retVal := make([][]*mnk.State, len(a.layers))
	for i, layer := range a.layers {
		for _, n := range layer {
			retVal[i] = append(retVal[i], a.nodes[n].state)
		}
	}
	return retVal
}

// summarize prints the size and the score distribution of each layer.
func (a *arena) summarize(w io.Writer, built time.Duration, score func(*mnk.State) float32) {
	fmt.Fprintf(w, "building time of the tree: %.2fs\n", built.Seconds())
	fmt.Fprintf(w, "%-8s %-7s %s\n", "depth", "size", "score_distribution")
	for depth, layer := range a.layers {
		dist := make(map[float32]int)
		for _, n := range layer {
			dist[bucket(score(a.nodes[n].state))]++
		}
		fmt.Fprintf(w, "%-8d %-7d %s\n", depth, len(layer), formatDistribution(dist))
	}
}

// bucket maps fractional estimates onto their sign. Exact and unresolved scores are kept.
func bucket(v float32) float32 {
	switch {
	case math32.IsInf(v, 0), v == 0:
		return v
	case v > 0:
		return 1
	}
	return -1
}

func formatDistribution(dist map[float32]int) string {
	keys := make([]float32, 0, len(dist))
	for k := range dist {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var s string
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%v:%d", k, dist[k])
	}
	return "{" + s + "}"
}

// toDot draws the tree. Every node is labelled with its board and a description from label.
func (a *arena) toDot(name string, label func(naughty) string) (string, error) {
	g, err := dot.New(name)
	if err != nil {
		return "", err
	}
	for i := range a.nodes {
		n := &a.nodes[i]
		if err := g.AddNode(i,
			dot.Field{Name: "Node ID", Value: fmt.Sprintf("%d", i)},
			dot.Field{Name: "Player", Value: fmt.Sprintf("%v", n.state.ToMove())},
			dot.Field{Name: "Score", Value: label(naughty(i))},
			dot.Field{Name: "State", Value: dot.Board(n.state.String())},
		); err != nil {
			return "", err
		}
	}
	for i := range a.nodes {
		for _, kid := range a.nodes[i].children {
			if err := g.AddEdge(i, int(kid)); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}

// sentinel is the score of a state a tree knows nothing about: infinitely good for the player
// to move, which the selector reads as unresolved.
func sentinel(s *mnk.State) float32 { return math32.Inf(int(s.ToMove().Sign())) }

// exact is the score of an ended state.
func exact(s *mnk.State) float32 { return s.Winner().Sign() }
