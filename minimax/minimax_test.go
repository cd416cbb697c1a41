package minimax

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	X = game.Black
	O = game.White
	Z = game.None
)

func mustRows(t *testing.T, rows [][]game.Colour, toMove game.Player) *mnk.State {
	t.Helper()
	s, err := mnk.FromRows(rows, toMove, len(rows))
	require.NoError(t, err)
	return s
}

func TestExhaustiveTree(t *testing.T) {
	tree, err := New(mnk.TicTacToe(), DefaultConfig())
	require.NoError(t, err)

	// distinct positions of tic-tac-toe, the empty board included
	assert.Equal(t, 5478, tree.Len())
	assert.Len(t, tree.Layers(), 10)
	assert.Equal(t, float32(0), tree.Score(tree.Root()))

	for _, layer := range tree.Layers() {
		for _, s := range layer {
			if s.Ended() {
				assert.Equal(t, s.Winner().Sign(), tree.Score(s), "%v", s)
			}
		}
	}
}

func TestStrategiesAgree(t *testing.T) {
	root := mnk.TicTacToe()
	mm, err := New(root, DefaultConfig())
	require.NoError(t, err)
	nm, err := NewNegamax(root, DefaultConfig())
	require.NoError(t, err)
	ab, err := NewAlphaBeta(root, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, float32(0), mm.Score(root))
	assert.Equal(t, float32(0), nm.Score(root))
	assert.Equal(t, float32(0), ab.Score(root))
	assert.Less(t, ab.Len(), mm.Len())
}

func TestNegamaxMatchesMinimax(t *testing.T) {
	roots := []*mnk.State{mnk.TicTacToe()}
	s44, err := mnk.New(4, 3)
	require.NoError(t, err)
	roots = append(roots, s44)

	for _, root := range roots {
		conf := DefaultConfig()
		if root.Size() > 3 {
			conf.DepthLimit = 3
		}
		mm, err := New(root, conf)
		require.NoError(t, err)
		nm, err := NewNegamax(root, conf)
		require.NoError(t, err)

		require.Equal(t, mm.Len(), nm.Len())
		for _, s := range mm.States() {
			if mm.Score(s) != nm.Score(s) {
				t.Errorf("Scores differ for\n%v\nminimax %v, negamax %v", s, mm.Score(s), nm.Score(s))
			}
		}
	}
}

func TestAlphaBetaExploresSubset(t *testing.T) {
	cases := []struct {
		name string
		root *mnk.State
	}{
		{"empty", mnk.TicTacToe()},
		{"opening", mustRows(t, [][]game.Colour{
			{X, Z, Z},
			{Z, O, Z},
			{Z, Z, Z},
		}, mnk.Cross)},
		{"late", mustRows(t, [][]game.Colour{
			{X, O, X},
			{Z, O, Z},
			{Z, Z, Z},
		}, mnk.Cross)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			mm, err := New(c.root, DefaultConfig())
			require.NoError(t, err)
			ab, err := NewAlphaBeta(c.root, DefaultConfig())
			require.NoError(t, err)

			assert.LessOrEqual(t, ab.Len(), mm.Len())
			assert.Equal(t, mm.Score(c.root), ab.Score(c.root))
			for _, s := range ab.States() {
				require.True(t, mm.Contains(s), "alpha-beta visited a state minimax does not know\n%v", s)
				r, ok := ab.Range(s)
				require.True(t, ok)
				want := mm.Score(s)
				if r.Converged() {
					assert.Equal(t, want, ab.Score(s), "%v", s)
					continue
				}
				assert.True(t, r.Lo <= want && want <= r.Hi, "%v outside of %v for\n%v", want, r, s)
				assert.True(t, math32.IsInf(ab.Score(s), 0))
			}
		})
	}
}

func TestAlphaBetaBestChildIsExact(t *testing.T) {
	root := mustRows(t, [][]game.Colour{
		{X, Z, Z},
		{Z, Z, Z},
		{Z, Z, Z},
	}, mnk.Nought)
	mm, err := New(root, DefaultConfig())
	require.NoError(t, err)
	ab, err := NewAlphaBeta(root, DefaultConfig())
	require.NoError(t, err)

	sign := root.ToMove().Sign()
	best := math32.Inf(-1)
	for _, child := range root.ExpandAll() {
		if v := ab.Score(child) * sign; v > best {
			best = v
		}
	}
	assert.Equal(t, mm.Score(root)*sign, best)
}

func TestRotationInvariance(t *testing.T) {
	mm, err := New(mnk.TicTacToe(), DefaultConfig())
	require.NoError(t, err)
	for _, s := range mm.Layers()[3] {
		r := s
		for i := 0; i < 4; i++ {
			r = r.Rotate()
			require.True(t, mm.Contains(r))
			assert.Equal(t, mm.Score(s), mm.Score(r), "%v rotated %d times", s, i+1)
		}
	}
}

func TestDepthLimit(t *testing.T) {
	root := mnk.TicTacToe()
	tree, err := New(root, Config{DepthLimit: 2})
	require.NoError(t, err)
	require.Len(t, tree.Layers(), 3)

	for _, s := range tree.Layers()[2] {
		// Cross is to move at the boundary, so unexpanded states score as lost causes
		assert.Equal(t, math32.Inf(-1), tree.Score(s))
	}

	deep := mustRows(t, [][]game.Colour{
		{X, O, X},
		{Z, O, Z},
		{Z, Z, Z},
	}, mnk.Cross)
	assert.False(t, tree.Contains(deep))
	assert.Equal(t, math32.Inf(1), tree.Score(deep))
	assert.Equal(t, math32.Inf(-1), tree.Score(deep.ExpandAll()[0]))
}

func TestTransfer(t *testing.T) {
	tree, err := New(mnk.TicTacToe(), Config{DepthLimit: 1})
	require.NoError(t, err)
	root := mustRows(t, [][]game.Colour{
		{X, X, Z},
		{O, O, Z},
		{Z, Z, Z},
	}, mnk.Cross)

	moved, err := tree.Transfer(root)
	require.NoError(t, err)
	assert.True(t, moved.Root().Eq(root))
	assert.Equal(t, float32(1), moved.Score(root))
	assert.Equal(t, mnk.TicTacToe().Key(), tree.Root().Key())
}

func TestInvalidConfig(t *testing.T) {
	_, err := New(mnk.TicTacToe(), Config{DepthLimit: -1})
	assert.Error(t, err)
	_, err = NewAlphaBeta(mnk.TicTacToe(), Config{Rollouts: -1})
	assert.Error(t, err)
	_, err = New(nil, DefaultConfig())
	assert.Error(t, err)
}

func TestRollout(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	root := mustRows(t, [][]game.Colour{
		{X, X, Z},
		{O, O, Z},
		{Z, Z, Z},
	}, mnk.Cross)
	tree, err := NewRollout(root, RolloutConfig(), r)
	require.NoError(t, err)
	assert.Equal(t, Rollout, tree.Rule())
	assert.Equal(t, float32(1), tree.Score(root))

	conf := RolloutConfig()
	conf.DepthLimit = 2
	conf.Rollouts = 50
	conf.AdjustByDepth = true
	tree, err = NewRollout(mnk.TicTacToe(), conf, r)
	require.NoError(t, err)
	for _, s := range tree.Layers()[2] {
		v := tree.Score(s)
		assert.True(t, v >= -1 && v <= 1, "estimate %v out of range", v)
	}
}

func TestSummaryAndDot(t *testing.T) {
	tree, err := New(mnk.TicTacToe(), Config{DepthLimit: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	tree.Summary(&buf)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "building time of the tree"))
	assert.Contains(t, out, "score_distribution")
	assert.Equal(t, 3+2, strings.Count(out, "\n"))

	dot, err := tree.ToDot()
	require.NoError(t, err)
	assert.Contains(t, dot, "digraph")
	assert.Contains(t, dot, "->")

	ab, err := NewAlphaBeta(mnk.TicTacToe(), Config{DepthLimit: 2})
	require.NoError(t, err)
	dot, err = ab.ToDot()
	require.NoError(t, err)
	assert.Contains(t, dot, "Score")
}
