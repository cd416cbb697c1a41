package mcts_test

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/mcts"
)

var (
	X = game.Black
	O = game.White
	Z = game.None
)

func Example() {
	g, err := mnk.FromRows([][]game.Colour{
		{X, X, Z},
		{O, O, Z},
		{Z, Z, Z},
	}, mnk.Cross, 3)
	if err != nil {
		panic(err)
	}
	conf := mcts.Config{
		ExplorationWeight: 1.41,
		Timeout:           time.Minute,
		Budget:            2000,
	}
	t, err := mcts.New(g, conf, rand.New(rand.NewSource(1337)))
	if err != nil {
		panic(err)
	}
	best := t.BestChild()
	fmt.Printf("Move: %v\n", best.Key()[:3])
	fmt.Printf("Winner: %v\n", best.Winner())

	// Output:
	// Move: XXX
	// Winner: Black
}
