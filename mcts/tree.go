package mcts

import (
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/chewxy/math32"
)

// reset empties the arena and allocates the root. The backing memory is reused.
func (t *MCTS) reset(root *mnk.State) {
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.parents = t.parents[:0]
	t.index = make(map[string]naughty)
	t.detector = mnk.PatternsFor(root)
	t.simulations = 0
	t.iterations = 0
	t.root, _ = t.alloc(root)
}

// alloc returns the node holding s, allocating one in the arena if s was never seen.
func (t *MCTS) alloc(s *mnk.State) (n naughty, fresh bool) {
	if n, ok := t.index[s.Key()]; ok {
		return n, false
	}
	n = naughty(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		id:     n,
		state:  s,
		counts: make([]float32, 3),
	})
	t.children = append(t.children, nil)
	t.parents = append(t.parents, nil)
	t.index[s.Key()] = n
	return n, true
}

func (t *MCTS) lookup(s *mnk.State) (naughty, bool) {
	n, ok := t.index[s.Key()]
	return n, ok
}

func (t *MCTS) nodeFromNaughty(n naughty) *Node { return &t.nodes[int(n)] }

// Children returns the children of a node. The returned slice must not be modified.
func (t *MCTS) Children(of naughty) []naughty { return t.children[of] }

// Parents returns every node the given node was reached from.
func (t *MCTS) Parents(of naughty) []naughty { return t.parents[of] }

// addChild links child under parent, unless they are already linked.
func (t *MCTS) addChild(parent, child naughty) {
	for _, p := range t.parents[child] {
		if p == parent {
			return
		}
	}
	t.children[parent] = append(t.children[parent], child)
	t.parents[child] = append(t.parents[child], parent)
}

// ancestors returns n and every node above it, each exactly once.
func (t *MCTS) ancestors(n naughty) []naughty {
	seen := map[naughty]struct{}{n: {}}
	retVal := []naughty{n}
	for i := 0; i < len(retVal); i++ {
		for _, p := range t.parents[retVal[i]] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			retVal = append(retVal, p)
		}
	}
	return retVal
}

func sentinel(s *mnk.State) float32 { return math32.Inf(int(s.ToMove().Sign())) }
