// Package gif renders games as animated GIFs, one frame per ply.
package gif

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"strings"

	"github.com/Cyber-Ninja-2047/tic-tac-toe/encoding"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi             = 144.0
	fontsize        = 12.0
	lineheight      = 1.2
	dummyLongString = `Game Number: 10000, Ply: 100`
	endDelay        = 300 // hundredths of a second
	plyDelay        = 50
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

var globPalette = color.Palette{
	color.Gray{0},
	color.Gray{253},
}

var _ encoding.OutputEncoder = &Encoder{}

// Encoder draws every state it is given on a frame of its own.
type Encoder struct {
	H, W int
	font.Drawer

	out *gif.GIF
	io.Writer
	face font.Face

	maxH, maxW  int // maxHeight and maxWidth
	padH, padW  int // padding so everything don't start at the topleft
	initialized bool
}

// NewGifEncoder creates an encoder whose frames are at most h by w pixels. Flush writes to w.
func NewGifEncoder(w io.Writer, maxH, maxW int) *Encoder {
	return &Encoder{
		H:      -1,
		W:      -1,
		maxH:   maxH,
		maxW:   maxW,
		padH:   10,
		padW:   10,
		Writer: w,

		Drawer: font.Drawer{
			Src: image.Black,
		},
		out: &gif.GIF{LoopCount: -1},
	}
}

// Encode draws the current state of the game as a new frame.
func (enc *Encoder) Encode(ms encoding.MetaState) error {
	g := ms.State()
	if g == nil {
		return errors.New("Cannot encode a game without a state")
	}
	repr := strings.TrimRight(g.String(), "\n")
	text := strings.Split(repr, "\n")

	if !enc.initialized {
		// lazy init of frame dimensions
		enc.face = truetype.NewFace(regular, &truetype.Options{
			Size:    fontsize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		})
		enc.Drawer.Src = image.Black
		enc.Drawer.Face = enc.face

		maxW := maxInt(font.MeasureString(enc.Face, text[0]).Ceil(), font.MeasureString(enc.Face, dummyLongString).Ceil())
		dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
		w := maxW + 2*enc.padW
		h := (len(text)+3)*dy + 2*enc.padH // the 3 extra lines: match name, game number and winner

		w = minInt(w, enc.maxW)
		h = minInt(h, enc.maxH)
		if w == enc.maxW {
			enc.padW = 0
		}
		if h == enc.maxH {
			enc.padH = 0
		}
		enc.H = h
		enc.W = w
		enc.initialized = true
	}

	im := image.NewPaletted(image.Rect(0, 0, enc.W, enc.H), globPalette)
	draw.Draw(im, im.Bounds(), image.White, image.Point{}, draw.Src)
	enc.Dst = im

	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	y := dy
	line := func(s string) {
		enc.Dot = fixed.P(enc.padW, y+enc.padH)
		enc.DrawString(s)
		y += dy
	}
	for _, s := range text {
		line(s)
	}
	line(ms.Name())
	line(fmt.Sprintf("Game Number: %d, Ply: %d", ms.GameNumber(), g.Depth()))

	delay := plyDelay
	if g.Ended() {
		delay = endDelay
		if winner := g.Winner(); winner != game.Player(game.None) {
			line(fmt.Sprintf("Winner: %s", winner))
		} else {
			line("Draw")
		}
	}
	enc.out.Image = append(enc.out.Image, im)
	enc.out.Delay = append(enc.out.Delay, delay)
	return nil
}

// Frames returns the number of frames encoded so far.
func (enc *Encoder) Frames() int { return len(enc.out.Image) }

// Flush writes the gif into the writer
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("Nothing to flush")
	}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
