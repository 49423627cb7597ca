package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/agents"
	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/observability/log"
)

func TestInitializeSession(t *testing.T) {
	cfg := config.Default()
	g, err := InitializeSession(cfg, Seed(cfg.Seed), log.NewNop())
	require.NoError(t, err)
	defer g.Close()

	assert.Equal(t, 26, g.Simulation().NumPlayers())
	assert.Equal(t, cfg.Rules, g.Simulation().Rules())
	assert.Equal(t, 1, g.Simulation().DeathSignal().Len())
}

func TestInitializeSessionIsSeeded(t *testing.T) {
	cfg := config.Default()
	a, err := InitializeSession(cfg, 5, log.NewNop())
	require.NoError(t, err)
	b, err := InitializeSession(cfg, 5, log.NewNop())
	require.NoError(t, err)
	c, err := InitializeSession(cfg, 6, log.NewNop())
	require.NoError(t, err)

	assert.Equal(t, a.Simulation().Digest(), b.Simulation().Digest())
	assert.NotEqual(t, a.Simulation().Digest(), c.Simulation().Digest())
}

func TestInitializeSessionRejectsBadPlayer(t *testing.T) {
	cfg := config.Default()
	cfg.Players = []config.Player{{Name: "A", Agent: "hunter", Params: agents.Params{"colour": 1}}}
	_, err := InitializeSession(cfg, 1, log.NewNop())
	assert.ErrorIs(t, err, agents.ErrUnknownParam)
}
