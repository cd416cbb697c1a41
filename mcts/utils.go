package mcts

import (
	"fmt"
	"io"
	"sort"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
)

// fancySort sorts the list of nodes under a certain condition of evaluation (i.e. which player are we considering).
// Most visited nodes come first. Equal visits are sorted by evaluation.
type fancySort struct {
	underEval game.Player
	l         []naughty
	t         *MCTS
}

func (l fancySort) Len() int      { return len(l.l) }
func (l fancySort) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }
func (l fancySort) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])

	liVisits := li.Rollouts()
	ljVisits := lj.Rollouts()
	if liVisits != ljVisits {
		return liVisits > ljVisits
	}
	return li.Evaluate(l.underEval) > lj.Evaluate(l.underEval)
}

// sortedChildren returns a copy of the root's children, most visited first.
func (t *MCTS) sortedChildren() []naughty {
	kids := make([]naughty, len(t.children[t.root]))
	copy(kids, t.children[t.root])
	sort.Stable(fancySort{underEval: t.Root().ToMove(), l: kids, t: t})
	return kids
}

// BestChild returns the most visited child of the root, or nil if the root has no children.
func (t *MCTS) BestChild() *mnk.State {
	kids := t.sortedChildren()
	if len(kids) == 0 {
		return nil
	}
	return t.nodes[kids[0]].state
}

func (t *MCTS) summarize(w io.Writer) {
	fmt.Fprintf(w, "search time: %.2fs iterations: %d nodes: %d simulations: %v\n", t.elapsed.Seconds(), t.iterations, len(t.nodes), t.simulations)
	fmt.Fprintf(w, "%-8s %-9s %-8s %s\n", "move", "rollouts", "score", "counts")
	root := t.Root()
	for _, kid := range t.sortedChildren() {
		n := &t.nodes[kid]
		fmt.Fprintf(w, "%-8v %-9v %-8.3f %v\n", lastMove(root, n.state), n.Rollouts(), n.Value(), n.counts)
	}
}

// lastMove returns the coordinate that differs between a parent and its child.
func lastMove(parent, child *mnk.State) game.Coord {
	for i, c := range child.Board() {
		if parent.Board()[i] != c {
			return child.Itol(game.Single(i))
		}
	}
	return game.Coord{Row: -1, Col: -1}
}
