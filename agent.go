package tictactoe

import (
	"sync"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
)

// An Agent is a computer player.
type Agent struct {
	Name     string
	Selector *Selector
	Player   game.Player

	// Statistics
	Wins float32
	Loss float32
	Draw float32
	sync.Mutex
}

// NewAgent creates an agent that plays with the given selector.
func NewAgent(name string, selector *Selector) *Agent {
	return &Agent{
		Name:     name,
		Selector: selector,
	}
}

// Move returns the state after the agent's move.
func (a *Agent) Move(s *mnk.State) (*mnk.State, error) { return a.Selector.Next(s) }

func (a *Agent) record(winner game.Player) {
	a.Lock()
	switch winner {
	case game.Player(game.None):
		a.Draw++
	case a.Player:
		a.Wins++
	default:
		a.Loss++
	}
	a.Unlock()
}

func (a *Agent) resetStats() {
	a.Lock()
	a.Wins = 0
	a.Loss = 0
	a.Draw = 0
	a.Unlock()
}
