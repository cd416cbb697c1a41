// Command tictactoe plays N in a row against a human on the terminal, or against itself.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	tictactoe "github.com/Cyber-Ninja-2047/tic-tac-toe"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/encoding/gif"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game"
	"github.com/Cyber-Ninja-2047/tic-tac-toe/game/mnk"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	strategy  = flag.String("strategy", tictactoe.Minimax, fmt.Sprintf("search strategy, one of %v", tictactoe.Strategies))
	size      = flag.Int("size", 3, "board size")
	length    = flag.Int("length", 3, "number of marks in a row needed to win")
	depth     = flag.Int("depth", -1, "depth limit in plies. 0 is unlimited, -1 uses the strategy's default")
	timeLimit = flag.Duration("time", time.Second, "time budget of a monte carlo search")
	explore   = flag.Float64("c", 1.41, "exploration weight of a monte carlo search")
	rollouts  = flag.Int("rollouts", 500, "random playouts per frontier state of the rollout strategy")
	seed      = flag.Int64("seed", 0, "random seed. 0 draws a fresh one")
	verbose   = flag.Bool("v", false, "log at debug level")
	dotFile   = flag.String("dot", "", "write the tree to this file in graphviz format after the first computer move")
	gifFile   = flag.String("gif", "", "render the game to this file as an animated gif")
	show      = flag.Bool("show", false, "print a summary of the tree after every computer move")
	selfplay  = flag.Int("selfplay", 0, "play this many games of the strategy against itself instead of a human")
	statsFile = flag.String("stats", "", "write the self play statistics to this file as CSV")
)

func main() {
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	conf := tictactoe.DefaultConfig(*strategy)
	conf.BoardSize = *size
	conf.WinningLength = *length
	if *depth >= 0 {
		conf.DepthLimit = *depth
	}
	conf.TimeLimit = *timeLimit
	conf.ExplorationWeight = float32(*explore)
	conf.Rollouts = *rollouts
	conf.Seed = *seed
	if err := conf.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	var err error
	if *selfplay > 0 {
		err = tournament(conf, *selfplay)
	} else {
		err = play(conf, os.Stdin, os.Stdout)
	}
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func tournament(conf tictactoe.Config, games int) error {
	newArena := func(i int) (*tictactoe.Arena, error) {
		var root *mnk.State
		agents := make([]*tictactoe.Agent, 2)
		for j, name := range []string{"A", "B"} {
			c := conf
			if c.Seed != 0 {
				c.Seed += int64(2*i + j)
			}
			var selector *tictactoe.Selector
			var err error
			if root, selector, err = tictactoe.Setup(c); err != nil {
				return nil, err
			}
			agents[j] = tictactoe.NewAgent(fmt.Sprintf("%s (%s)", name, conf.Strategy), selector)
		}
		return tictactoe.NewArena(root, agents[0], agents[1], "self play", nil), nil
	}
	stats, err := tictactoe.Tournament(context.Background(), games, runtime.NumCPU(), newArena)
	if err != nil {
		return err
	}
	for _, name := range stats.Creation {
		w, l, d := stats.Totals(name)
		fmt.Printf("%s: %v wins, %v losses, %v draws\n", name, w, l, d)
	}
	if *statsFile != "" {
		return stats.Dump(*statsFile)
	}
	return nil
}

// match is the single game played on the terminal, as seen by the gif encoder.
type match struct{ state *mnk.State }

func (m *match) Name() string      { return fmt.Sprintf("%s vs human", *strategy) }
func (m *match) GameNumber() int   { return 1 }
func (m *match) State() *mnk.State { return m.state }

func play(conf tictactoe.Config, in io.Reader, out io.Writer) error {
	state, selector, err := tictactoe.Setup(conf)
	if err != nil {
		return err
	}
	reader := bufio.NewReader(in)
	human, err := chooseSide(reader, out)
	if err != nil {
		return err
	}

	var enc *gif.Encoder
	var f *os.File
	if *gifFile != "" {
		if f, err = os.Create(*gifFile); err != nil {
			return errors.WithStack(err)
		}
		defer f.Close()
		enc = gif.NewGifEncoder(f, 800, 800)
	}
	m := &match{state: state}
	encode := func() error {
		if enc == nil {
			return nil
		}
		m.state = state
		return enc.Encode(m)
	}
	if err := encode(); err != nil {
		return err
	}

	var moved bool
	for !state.Ended() {
		fmt.Fprintf(out, "%v\n", state)
		if state.ToMove() == human {
			if state, err = ask(reader, out, state); err != nil {
				return err
			}
		} else {
			if state, err = selector.Next(state); err != nil {
				return err
			}
			if err := inspect(selector.Strategy(), out, !moved); err != nil {
				return err
			}
			moved = true
		}
		if err := encode(); err != nil {
			return err
		}
	}

	fmt.Fprintf(out, "%v\n", state)
	switch winner := state.Winner(); winner {
	case game.Player(game.None):
		fmt.Fprintln(out, "Draw!")
	case human:
		fmt.Fprintln(out, "You win!")
	default:
		fmt.Fprintf(out, "%s wins!\n", winner)
	}
	if enc != nil {
		return enc.Flush()
	}
	return nil
}

// inspect prints the tree summary and writes the dot file, as requested by the flags.
func inspect(s tictactoe.Strategy, out io.Writer, first bool) error {
	inspector, ok := s.(tictactoe.Inspector)
	if !ok {
		return nil
	}
	if *show {
		inspector.Summary(out)
	}
	if !first || *dotFile == "" {
		return nil
	}
	dot, err := inspector.ToDot()
	if err != nil {
		return err
	}
	return errors.WithStack(os.WriteFile(*dotFile, []byte(dot), 0644))
}

func chooseSide(reader *bufio.Reader, out io.Writer) (game.Player, error) {
	for {
		fmt.Fprint(out, "Play as X (first) or O? [X/o]: ")
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return game.Player(game.None), errors.WithStack(err)
		}
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "", "X":
			return mnk.Cross, nil
		case "O":
			return mnk.Nought, nil
		}
	}
}

// ask reads moves until one of them is legal.
func ask(reader *bufio.Reader, out io.Writer, state *mnk.State) (*mnk.State, error) {
	for {
		fmt.Fprintf(out, "Your move as %s (row,col): ", state.ToMove())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return nil, errors.WithStack(err)
		}
		c, err := parseCoord(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		next, err := state.ExpandOne(c)
		var occupied mnk.OccupiedCellError
		var outside mnk.OutOfBoundsError
		switch {
		case errors.As(err, &occupied), errors.As(err, &outside):
			fmt.Fprintln(out, err)
			continue
		case err != nil:
			return nil, err
		}
		return next, nil
	}
}

func parseCoord(line string) (game.Coord, error) {
	parts := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	if len(parts) != 2 {
		return game.Coord{}, errors.Errorf("Expected row,col. Got %q", strings.TrimSpace(line))
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return game.Coord{}, errors.Wrapf(err, "Bad row %q", parts[0])
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return game.Coord{}, errors.Wrapf(err, "Bad column %q", parts[1])
	}
	return game.Coord{Row: row, Col: col}, nil
}
