package tictactoe

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Tournament plays games independent games, at most parallelism at a time, and collects the
// results of every agent by name.
//
// newArena is called once per game and must return an arena whose agents and strategies are
// not shared with any other game. The tournament stops at the first error.
func Tournament(ctx context.Context, games, parallelism int, newArena func(game int) (*Arena, error)) (*Statistics, error) {
	if games < 0 || parallelism < 1 {
		return nil, errors.Errorf("Cannot play %d games, %d at a time", games, parallelism)
	}
	stats := makeStatistics()
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < games; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			arena, err := newArena(i)
			if err != nil {
				return errors.Wrapf(err, "Unable to set up game %d", i)
			}
			if _, _, err := arena.Play(nil); err != nil {
				return errors.Wrapf(err, "Game %d", i)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, agent := range []*Agent{arena.A, arena.B} {
				stats.update(agent)
				agent.resetStats()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, name := range stats.Creation {
		w, l, d := stats.Totals(name)
		log.Info().
			Str("agent", name).
			Float32("wins", w).
			Float32("losses", l).
			Float32("draws", d).
			Msg("tournament over")
	}
	return &stats, nil
}
