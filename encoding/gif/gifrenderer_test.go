package gif

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type match struct{ s *mnk.State }

func (m match) Name() string      { return "test" }
func (m match) GameNumber() int   { return 1 }
func (m match) State() *mnk.State { return m.s }

func TestEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewGifEncoder(&buf, 1000, 1000)
	assert.Error(t, enc.Flush())

	s := mnk.TicTacToe()
	moves := []game.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 0, Col: 1}, {Row: 2, Col: 2}, {Row: 0, Col: 2}}
	require.NoError(t, enc.Encode(match{s}))
	for _, m := range moves {
		var err error
		s, err = s.ExpandOne(m)
		require.NoError(t, err)
		require.NoError(t, enc.Encode(match{s}))
	}
	require.True(t, s.Ended())
	assert.Equal(t, len(moves)+1, enc.Frames())
	require.NoError(t, enc.Flush())

	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, len(moves)+1)
	assert.Equal(t, endDelay, g.Delay[len(g.Delay)-1])
	assert.Equal(t, plyDelay, g.Delay[0])

	assert.Error(t, enc.Encode(match{}))
}
