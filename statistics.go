package tictactoe

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Statistics holds the running tallies of every agent, one snapshot per game played.
type Statistics struct {
	Creation []string // agent names, in order of first appearance
	Wins     map[string][]float32
	Losses   map[string][]float32
	Draws    map[string][]float32
}

func makeStatistics() Statistics {
	return Statistics{
		Creation: make([]string, 0, 4),
		Wins:     make(map[string][]float32),
		Losses:   make(map[string][]float32),
		Draws:    make(map[string][]float32),
	}
}

// update adds the tallies of A to the running tallies of its name.
func (s *Statistics) update(A *Agent) {
	A.Lock()
	win, loss, draw := A.Wins, A.Loss, A.Draw
	A.Unlock()

	name := A.Name
	if _, ok := s.Wins[name]; !ok {
		s.Creation = append(s.Creation, name)
	}
	w, l, d := s.Totals(name)
	s.Wins[name] = append(s.Wins[name], w+win)
	s.Losses[name] = append(s.Losses[name], l+loss)
	s.Draws[name] = append(s.Draws[name], d+draw)
}

// Totals returns the latest tallies of the named agent.
func (s *Statistics) Totals(name string) (wins, losses, draws float32) {
	n := len(s.Wins[name])
	if n == 0 {
		return 0, 0, 0
	}
	return s.Wins[name][n-1], s.Losses[name][n-1], s.Draws[name][n-1]
}

// Dump writes every snapshot as CSV, one row per agent and game.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.Write([]string{"agent", "games", "wins", "losses", "draws", "win_rate"}); err != nil {
		return errors.WithStack(err)
	}
	var records [][]string
	for _, agent := range s.Creation {
		for j, win := range s.Wins[agent] {
			loss, draw := s.Losses[agent][j], s.Draws[agent][j]
			winRate := win / (win + loss + draw)
			records = append(records, []string{
				agent,
				strconv.Itoa(j + 1),
				formatFloat(win),
				formatFloat(loss),
				formatFloat(draw),
				strconv.FormatFloat(float64(winRate), 'f', 3, 32),
			})
		}
	}
	if err := w.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(f.Sync())
}

func formatFloat(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
