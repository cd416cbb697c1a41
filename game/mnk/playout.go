package mnk

import (
	"math/rand"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
)

// Playout plays uniformly random moves from s until the game ends, and returns the final state.
// The number of plies played is the final state's depth minus s's depth.
func (s *State) Playout(r *rand.Rand) *State {
	cur := s
	for !cur.ended {
		empty := cur.coords[game.None]
		c := empty[r.Intn(len(empty))]
		next, err := cur.ExpandOne(c)
		if err != nil {
			panic(err) // empty coordinates are always playable
		}
		cur = next
	}
	return cur
}
