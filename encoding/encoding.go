// Package encoding defines what output encoders see of a game in progress.
package encoding

import "github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"

// MetaState is a game being played, along with information about the match it belongs to.
type MetaState interface {
	Name() string
	GameNumber() int
	State() *mnk.State
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the gif Encoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms MetaState) error
	Flush() error
}
