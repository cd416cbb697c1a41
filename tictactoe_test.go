package tictactoe

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/encoding"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	X = game.Black
	O = game.White
	Z = game.None
)

func TestConfigValidate(t *testing.T) {
	for _, name := range Strategies {
		assert.NoError(t, DefaultConfig(name).Validate(), name)
	}
	assert.Equal(t, 4, DefaultConfig(Rollout).DepthLimit)
	assert.Equal(t, 0, DefaultConfig(Minimax).DepthLimit)

	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Strategy = "bogo" }},
		{"zero board", func(c *Config) { c.BoardSize = 0 }},
		{"zero length", func(c *Config) { c.WinningLength = 0 }},
		{"long line", func(c *Config) { c.WinningLength = 4 }},
		{"negative depth", func(c *Config) { c.DepthLimit = -1 }},
		{"negative rollouts", func(c *Config) { c.Rollouts = -1 }},
		{"negative budget", func(c *Config) { c.Budget = -1 }},
		{"negative exploration", func(c *Config) { c.ExplorationWeight = -1 }},
		{"no time", func(c *Config) { c.Strategy = MonteCarlo; c.TimeLimit = 0 }},
	}
	for _, c := range cases {
		conf := DefaultConfig(Minimax)
		c.modify(&conf)
		assert.Error(t, conf.Validate(), c.name)
	}

	conf := DefaultConfig(Minimax)
	conf.WinningLength = 4
	var dimErr mnk.InvalidDimensionError
	assert.True(t, errors.As(conf.Validate(), &dimErr))

	conf = DefaultConfig("bogo")
	_, err := NewStrategy(conf, mnk.TicTacToe(), nil)
	var unknown UnknownStrategyError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, UnknownStrategyError("bogo"), unknown)
}

func TestSelfPlayDraws(t *testing.T) {
	const trials = 100
	root := mnk.TicTacToe()
	for _, name := range []string{Minimax, AlphaBeta, Negamax} {
		t.Run(name, func(t *testing.T) {
			strategy, err := NewStrategy(DefaultConfig(name), root, nil)
			require.NoError(t, err)
			for i := 0; i < trials; i++ {
				selector := NewSelector(strategy, rand.New(rand.NewSource(int64(i))))
				path, err := selector.Path(root)
				require.NoError(t, err)

				last := path[len(path)-1]
				require.True(t, last.Ended())
				if winner := last.Winner(); winner != game.Player(game.None) {
					var buf bytes.Buffer
					FormatPath(&buf, path)
					t.Fatalf("Trial %d was won by %v\n%s", i, winner, buf.String())
				}
			}
		})
	}
}

func TestMonteCarloOpening(t *testing.T) {
	if testing.Short() {
		t.Skip("wall clock bound")
	}
	const runs = 10
	root := mnk.TicTacToe()
	edges := []game.Coord{{Row: 0, Col: 1}, {Row: 1, Col: 0}, {Row: 1, Col: 2}, {Row: 2, Col: 1}}

	var good int
	for i := 0; i < runs; i++ {
		conf := DefaultConfig(MonteCarlo)
		conf.TimeLimit = time.Second
		strategy, err := NewStrategy(conf, root, nil)
		require.NoError(t, err)
		next, err := NewSelector(strategy, nil).Next(root)
		require.NoError(t, err)

		move := next.Coordinates(game.Black)[0]
		isEdge := false
		for _, e := range edges {
			if e.Eq(move) {
				isEdge = true
			}
		}
		if !isEdge {
			good++
		}
	}
	assert.True(t, good*10 >= runs*9, "only %d of %d openings were the centre or a corner", good, runs)
}

func TestSelectorTakesTheWin(t *testing.T) {
	state, err := mnk.FromRows([][]game.Colour{
		{X, X, Z},
		{O, O, Z},
		{Z, Z, Z},
	}, mnk.Cross, 3)
	require.NoError(t, err)

	for _, name := range Strategies {
		conf := DefaultConfig(name)
		conf.TimeLimit = 200 * time.Millisecond
		conf.Seed = 1337
		root, selector, err := Setup(conf)
		require.NoError(t, err, name)
		require.True(t, root.Eq(mnk.TicTacToe()))

		next, err := selector.Next(state)
		require.NoError(t, err, name)
		assert.Equal(t, mnk.Cross, next.Winner(), "%v did not take the win\n%v", name, next)
	}
}

func TestSelectorTransfer(t *testing.T) {
	conf := DefaultConfig(Minimax)
	conf.DepthLimit = 3
	strategy, err := NewStrategy(conf, mnk.TicTacToe(), nil)
	require.NoError(t, err)
	selector := NewSelector(strategy, rand.New(rand.NewSource(1)))

	state, err := mnk.FromRows([][]game.Colour{
		{X, O, X},
		{Z, O, Z},
		{Z, Z, Z},
	}, mnk.Cross, 3)
	require.NoError(t, err)

	next, err := selector.Next(state)
	require.NoError(t, err)
	assert.True(t, strategy.Root().Eq(state), "the tree should have been rebuilt at the state")
	// O threatens the middle column
	assert.Equal(t, X, next.At(game.Coord{Row: 2, Col: 1}))

	ended, err := mnk.FromRows([][]game.Colour{
		{X, X, X},
		{O, O, Z},
		{Z, Z, Z},
	}, mnk.Nought, 3)
	require.NoError(t, err)
	next, err = selector.Next(ended)
	assert.NoError(t, err)
	assert.Nil(t, next)
}

func TestSelectorBreaksTies(t *testing.T) {
	root := mnk.TicTacToe()
	strategy, err := NewStrategy(DefaultConfig(Minimax), root, nil)
	require.NoError(t, err)

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		next, err := NewSelector(strategy, rand.New(rand.NewSource(int64(i)))).Next(root)
		require.NoError(t, err)
		seen[next.Key()] = struct{}{}
	}
	// every opening draws, so all of them are fair game
	assert.True(t, len(seen) > 1, "always picked the same opening")
}

func TestPath(t *testing.T) {
	conf := DefaultConfig(AlphaBeta)
	conf.Seed = 42
	root, selector, err := Setup(conf)
	require.NoError(t, err)

	path, err := selector.Path(root)
	require.NoError(t, err)
	require.Len(t, path, 10, "a drawn game fills the board")
	assert.True(t, path[0].Eq(root))
	for i := 1; i < len(path); i++ {
		assert.Equal(t, path[i-1].Depth()+1, path[i].Depth())
		assert.Equal(t, path[i-1].ToMove().Opponent(), path[i].ToMove())
	}

	var buf bytes.Buffer
	FormatPath(&buf, path)
	out := buf.String()
	assert.Equal(t, len(path), strings.Count(out, "-----------\n"))
	assert.True(t, strings.HasSuffix(out, "winner: none (draw)\n"))
}

type countingEncoder struct {
	frames  []*mnk.State
	flushed bool
}

func (enc *countingEncoder) Encode(ms encoding.MetaState) error {
	enc.frames = append(enc.frames, ms.State())
	return nil
}

func (enc *countingEncoder) Flush() error { enc.flushed = true; return nil }

func newMinimaxAgent(t *testing.T, name string, seed int64) *Agent {
	conf := DefaultConfig(Minimax)
	conf.Seed = seed
	_, selector, err := Setup(conf)
	require.NoError(t, err)
	return NewAgent(name, selector)
}

func TestArenaPlay(t *testing.T) {
	a := newMinimaxAgent(t, "A", 1)
	b := newMinimaxAgent(t, "B", 2)
	arena := NewArena(mnk.TicTacToe(), a, b, "test", rand.New(rand.NewSource(3)))

	var enc countingEncoder
	winner, path, err := arena.Play(&enc)
	require.NoError(t, err)
	assert.Equal(t, game.Player(game.None), winner)
	assert.Len(t, enc.frames, len(path))
	assert.True(t, arena.State().Ended())
	assert.Equal(t, 1, arena.GameNumber())
	assert.Equal(t, "test", arena.Name())

	assert.Equal(t, float32(1), a.Draw)
	assert.Equal(t, float32(1), b.Draw)
	assert.NotEqual(t, a.Player, b.Player)
}

func TestTournament(t *testing.T) {
	const games = 8
	newArena := func(i int) (*Arena, error) {
		agents := make([]*Agent, 2)
		for j, name := range []string{Minimax, AlphaBeta} {
			conf := DefaultConfig(name)
			conf.Seed = int64(2*i + j + 1)
			_, selector, err := Setup(conf)
			if err != nil {
				return nil, err
			}
			agents[j] = NewAgent(name, selector)
		}
		return NewArena(mnk.TicTacToe(), agents[0], agents[1], fmt.Sprintf("game %d", i), nil), nil
	}

	stats, err := Tournament(context.Background(), games, 4, newArena)
	require.NoError(t, err)
	assert.Equal(t, []string{"minimax", "alpha_beta"}, stats.Creation)
	for _, name := range stats.Creation {
		w, l, d := stats.Totals(name)
		assert.Equal(t, float32(0), w, name)
		assert.Equal(t, float32(0), l, name)
		assert.Equal(t, float32(games), d, name)
	}

	filename := filepath.Join(t.TempDir(), "stats.csv")
	require.NoError(t, stats.Dump(filename))
	f, err := os.Open(filename)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+2*games)
	assert.Equal(t, "win_rate", records[0][5])
	assert.Equal(t, "0.000", records[1][5])

	_, err = Tournament(context.Background(), games, 0, newArena)
	assert.Error(t, err)
	_, err = Tournament(context.Background(), 1, 1, func(int) (*Arena, error) { return nil, errors.New("nope") })
	assert.Error(t, err)
}
