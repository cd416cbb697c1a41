package tictactoe

import (
	"math/rand"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/encoding"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/internal/entropy"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ encoding.MetaState = &Arena{}

// Arena is where two agents play each other.
type Arena struct {
	r    *rand.Rand
	root *mnk.State
	game *mnk.State
	A, B *Agent

	// state
	currentPlayer *Agent
	name          string
	gameNumber    int
}

// NewArena creates an arena where a and b play games starting from root. Sides are drawn with r.
func NewArena(root *mnk.State, a, b *Agent, name string, r *rand.Rand) *Arena {
	if name == "" {
		name = "UNKNOWN GAME"
	}
	return &Arena{
		r:    entropy.OrNew(r),
		root: root,
		game: root,
		A:    a,
		B:    b,
		name: name,
	}
}

// Play plays a game from the root, and returns the winner along with every state of the game.
// If it is a draw, the returned player is None. enc, if not nil, is fed the game after every ply.
func (a *Arena) Play(enc encoding.OutputEncoder) (winner game.Player, path []*mnk.State, err error) {
	a.gameNumber++
	if a.r.Intn(2) == 0 {
		a.A.Player, a.B.Player = mnk.Cross, mnk.Nought
	} else {
		a.A.Player, a.B.Player = mnk.Nought, mnk.Cross
	}
	a.currentPlayer = a.A
	if a.root.ToMove() != a.A.Player {
		a.currentPlayer = a.B
	}

	a.game = a.root
	path = append(path, a.game)
	if enc != nil {
		if err = enc.Encode(a); err != nil {
			return winner, path, errors.Wrap(err, "Unable to encode the game")
		}
	}
	for !a.game.Ended() {
		var next *mnk.State
		if next, err = a.currentPlayer.Move(a.game); err != nil {
			return winner, path, errors.Wrapf(err, "%v failed to move", a.currentPlayer.Name)
		}
		log.Debug().
			Str("agent", a.currentPlayer.Name).
			Int("ply", next.Depth()).
			Msg("moved")
		a.game = next
		path = append(path, next)
		a.switchPlayer()
		if enc != nil {
			if err = enc.Encode(a); err != nil {
				return winner, path, errors.Wrap(err, "Unable to encode the game")
			}
		}
	}

	winner = a.game.Winner()
	a.A.record(winner)
	a.B.record(winner)
	log.Info().
		Str("arena", a.name).
		Int("game", a.gameNumber).
		Str("winner", a.winnerName(winner)).
		Int("plies", len(path)-1).
		Msg("game over")
	return winner, path, nil
}

func (a *Arena) GameNumber() int   { return a.gameNumber }
func (a *Arena) Name() string      { return a.name }
func (a *Arena) State() *mnk.State { return a.game }

func (a *Arena) switchPlayer() {
	switch a.currentPlayer {
	case a.A:
		a.currentPlayer = a.B
	case a.B:
		a.currentPlayer = a.A
	}
}

func (a *Arena) winnerName(winner game.Player) string {
	switch winner {
	case a.A.Player:
		return a.A.Name
	case a.B.Player:
		return a.B.Name
	}
	return "none"
}
