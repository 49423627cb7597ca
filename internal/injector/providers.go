package injector

import (
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/core/sim"
	"github.com/zeusync/arena/internal/game"
)

// Seed distinguishes the simulation seed from other integers in the graph.
type Seed uint64

func ProvideRules(cfg *config.Config) rules.Rules {
	return cfg.Rules
}

func ProvideSimulation(r rules.Rules, seed Seed, l log.Log) (*sim.Simulation, error) {
	return sim.New(r, uint64(seed), sim.WithLogger(l))
}

func ProvideSession(cfg *config.Config, s *sim.Simulation, l log.Log) (*game.Session, error) {
	g := game.NewSession(s, l)
	if err := cfg.Populate(g); err != nil {
		_ = g.Close()
		return nil, err
	}
	return g, nil
}
