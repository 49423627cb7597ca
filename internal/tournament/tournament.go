// Package tournament plays the same match under many seeds in parallel.
package tournament

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/game"
	"github.com/zeusync/arena/internal/injector"
	"github.com/zeusync/arena/pkg/concurrent"
)

// Result is the outcome of one match.
type Result struct {
	Seed      uint64
	Ticks     uint64
	Winner    string
	Standings []game.Standing
	// Digest fingerprints the final simulation state; replaying the seed
	// reproduces it.
	Digest uint64
}

// Tally sums a player's results over a tournament.
type Tally struct {
	Name   string
	Wins   int
	Points int
}

// Run plays cfg once per seed on at most workers goroutines and returns the
// results in seed order. The first failing match cancels the others.
func Run(ctx context.Context, cfg *config.Config, seeds []uint64, workers int, l log.Log) ([]Result, error) {
	l.Info("tournament started", log.Int("matches", len(seeds)), log.Int("workers", workers))
	results, err := concurrent.Map(ctx, seeds, workers, func(ctx context.Context, seed uint64) (Result, error) {
		return Play(ctx, cfg, seed, l.With(log.Uint64("seed", seed)))
	})
	if err != nil {
		return nil, err
	}
	l.Info("tournament finished", log.Int("matches", len(results)))
	return results, nil
}

// Play runs a single match until it is decided or cfg.MaxTicks have been
// played. Without a last robot standing the best scorer wins.
func Play(ctx context.Context, cfg *config.Config, seed uint64, l log.Log) (Result, error) {
	g, err := injector.InitializeSession(cfg, injector.Seed(seed), l)
	if err != nil {
		return Result{}, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Close()

	ticks, err := g.Run(ctx, cfg.MaxTicks)
	if err != nil {
		return Result{}, fmt.Errorf("seed %d: tick %d: %w", seed, ticks, err)
	}

	res := Result{
		Seed:      seed,
		Ticks:     ticks,
		Standings: g.Standings(),
		Digest:    g.Simulation().Digest(),
	}
	if winner, ok := g.Winner(); ok {
		res.Winner = winner
	} else if len(res.Standings) > 0 {
		res.Winner = res.Standings[0].Name
	}
	l.Info("match finished",
		log.String("winner", res.Winner),
		log.Uint64("ticks", ticks),
	)
	return res, nil
}

// Summarize tallies wins and points per player, best first.
func Summarize(results []Result) []Tally {
	byName := make(map[string]*Tally)
	for _, r := range results {
		for _, s := range r.Standings {
			t, ok := byName[s.Name]
			if !ok {
				t = &Tally{Name: s.Name}
				byName[s.Name] = t
			}
			t.Points += s.Points
			if s.Name == r.Winner {
				t.Wins++
			}
		}
	}

	out := make([]Tally, 0, len(byName))
	for _, t := range byName {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b Tally) int {
		return cmp.Or(cmp.Compare(b.Wins, a.Wins), cmp.Compare(b.Points, a.Points), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Seeds derives n consecutive seeds starting at base.
func Seeds(base uint64, n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = base + uint64(i)
	}
	return out
}
