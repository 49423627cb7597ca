//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/game"
)

// InitializeSession builds a populated session for one seed of cfg.
func InitializeSession(cfg *config.Config, seed Seed, l log.Log) (*game.Session, error) {
	wire.Build(ProvideRules, ProvideSimulation, ProvideSession)
	return nil, nil
}
