package mcts

import (
	"fmt"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// naughty is essentially *Node
type naughty int

func (n naughty) isValid() bool { return n >= 0 }

const (
	nilNode naughty = -1
)

type Node struct {
	id       naughty
	state    *mnk.State
	counts   []float32 // indexed by game.Colour: draws, Cross wins, Nought wins
	expanded bool
}

func (n *Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v ToMove: %v Rollouts: %v Counts: %v Expanded: %t}", n.id, n.state.ToMove(), n.Rollouts(), n.counts, n.expanded)
}

func (n *Node) ID() int { return int(n.id) }

func (n *Node) State() *mnk.State { return n.state }

// Rollouts returns the number of simulations counted by this node.
func (n *Node) Rollouts() float32 { return vecf32.Sum(n.counts) }

// IsNotVisited returns true if no simulation went through this node.
func (n *Node) IsNotVisited() bool { return n.Rollouts() == 0 }

// Value is the average outcome from Cross's point of view, between -1 and 1.
func (n *Node) Value() float32 {
	rollouts := n.Rollouts()
	if rollouts == 0 {
		return 0
	}
	return (n.counts[game.Black] - n.counts[game.White]) / rollouts
}

// Evaluate returns how favourable the node is to the given player, counting draws as half a win.
func (n *Node) Evaluate(player game.Player) float32 {
	rollouts := n.Rollouts()
	if rollouts == 0 {
		return 0
	}
	return (n.counts[game.Colour(player)] + 0.5*n.counts[game.None]) / rollouts
}

// priority is minimized when selecting. Unvisited nodes always come first.
//
// The player who moved into the node is the one choosing it, so its wins are what is exploited.
func (n *Node) priority(total, explorationWeight float32) float32 {
	rollouts := n.Rollouts()
	if rollouts == 0 {
		return math32.Inf(-1)
	}
	chooser := n.state.ToMove().Opponent()
	exploitation := n.Evaluate(chooser)
	exploration := explorationWeight * math32.Sqrt(math32.Log(total)/rollouts)
	return -(exploitation + exploration)
}

// update adds the one-hot outcome of a simulation to the tally.
func (n *Node) update(outcome []float32) { vecf32.Add(n.counts, outcome) }
