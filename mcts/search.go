package mcts

import (
	"context"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
)

/*
Here lies the search loop, while node.go and tree.go handle the data structure stuff.

Each iteration runs the pipeline
	SELECT, SIMULATE, EXPAND, BACKPROPAGATE
from the root until the context is done or the iteration budget is spent.
*/

func (t *MCTS) search(ctx context.Context) {
	if t.Root().Ended() {
		return
	}
	for t.Budget == 0 || t.iterations < t.Budget {
		if ctx.Err() != nil {
			return
		}
		t.pipeline()
		t.iterations++
	}
}

func (t *MCTS) pipeline() {
	n := t.selectLeaf()
	outcome := t.simulate(t.nodeFromNaughty(n).state)
	t.expand(n)
	t.backpropagate(n, outcome)
}

// selectLeaf descends from the root through the children with the lowest priority, and stops at
// the first node that was not expanded yet, or has no children.
func (t *MCTS) selectLeaf() naughty {
	n := t.root
	for t.nodes[n].expanded && len(t.children[n]) > 0 {
		n = t.pick(t.children[n])
	}
	return n
}

// pick returns the child with the lowest priority. Ties are broken at random.
func (t *MCTS) pick(children []naughty) naughty {
	best := make([]naughty, 0, len(children))
	var lowest float32
	for i, kid := range children {
		p := t.nodes[kid].priority(t.simulations, t.ExplorationWeight)
		switch {
		case i == 0 || p < lowest:
			lowest = p
			best = append(best[:0], kid)
		case p == lowest:
			best = append(best, kid)
		}
	}
	return best[t.rand.Intn(len(best))]
}

// simulate returns the outcome of a game played from s as a one-hot [draws, Cross, Nought] vector.
// Outcomes the detector is certain about are taken as they are.
func (t *MCTS) simulate(s *mnk.State) []float32 {
	winner, ok := t.detector.Forced(s)
	if !ok {
		winner = s.Playout(t.rand).Winner()
	}
	return oneHot(winner)
}

// expand adds the immediate children of n to the tree. Children that are already known are shared.
func (t *MCTS) expand(n naughty) {
	node := t.nodeFromNaughty(n)
	if node.expanded || node.state.Ended() {
		return
	}
	node.expanded = true
	for _, child := range node.state.ExpandAll() {
		kid, _ := t.alloc(child)
		t.addChild(n, kid)
	}
}

// backpropagate counts the outcome in n and in every one of its ancestors, along all paths.
func (t *MCTS) backpropagate(n naughty, outcome []float32) {
	for _, a := range t.ancestors(n) {
		t.nodes[a].update(outcome)
	}
	t.simulations++
}

func oneHot(winner game.Player) []float32 {
	retVal := make([]float32, 3)
	retVal[game.Colour(winner)] = 1
	return retVal
}
