package mcts

import (
	"fmt"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/dot"
)

// ToDot returns the visited part of the tree in graphviz format.
func (t *MCTS) ToDot() (string, error) {
	g, err := dot.New("G")
	if err != nil {
		return "", err
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.IsNotVisited() {
			continue
		}
		if err := g.AddNode(n.ID(),
			dot.Field{Name: "Node ID", Value: fmt.Sprintf("%d", n.id)},
			dot.Field{Name: "Player", Value: fmt.Sprintf("%v", n.state.ToMove())},
			dot.Field{Name: "Rollouts", Value: fmt.Sprintf("%v", n.Rollouts())},
			dot.Field{Name: "Score", Value: fmt.Sprintf("%.3f", n.Value())},
			dot.Field{Name: "State", Value: dot.Board(n.state.String())},
		); err != nil {
			return "", err
		}
	}
	for i, kids := range t.children {
		if t.nodes[i].IsNotVisited() {
			continue
		}
		for _, kid := range kids {
			if t.nodes[kid].IsNotVisited() {
				continue
			}
			if err := g.AddEdge(i, int(kid)); err != nil {
				return "", err
			}
		}
	}
	return g.String(), nil
}
