package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/config"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/tournament"
)

func example(t *testing.T) string {
	t.Helper()
	return filepath.Join("..", "..", "examples", "arena.yaml")
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)

	cfg, err = loadConfig(example(t), "", 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.MaxTicks)
	assert.Len(t, cfg.Players, 5)

	_, err = loadConfig("does-not-exist.yaml", "", 0)
	assert.Error(t, err)
}

func TestLoadConfigRulesOverride(t *testing.T) {
	cfg, err := loadConfig(example(t), filepath.Join("..", "..", "examples", "rules.yaml"), 0)
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.Rules.ArenaWidth)
	assert.Equal(t, 600.0, cfg.Rules.ArenaHeight)
	assert.Equal(t, rules.Default().ScanRange, cfg.Rules.ScanRange)
	assert.Len(t, cfg.Players, 5)

	bad := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("arena-width: 600\n"), 0o600))
	_, err = loadConfig("", bad, 0)
	assert.Error(t, err)
}

func TestRunAction(t *testing.T) {
	cfg, err := loadConfig(example(t), "", 50)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runAction(cfg, 3, false, 0, false, &out))
	assert.Contains(t, out.String(), "seed 3, ")
	assert.Contains(t, out.String(), "PLAYER")
	assert.Contains(t, out.String(), "Eric")

	var again bytes.Buffer
	require.NoError(t, runAction(cfg, 3, false, 0, false, &again))
	assert.Equal(t, out.String(), again.String())
}

func TestTournamentAction(t *testing.T) {
	cfg, err := loadConfig(example(t), "", 50)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, tournamentAction(cfg, tournament.Seeds(1, 3), 2, false, &out))
	assert.Contains(t, out.String(), "SEED")
	assert.Contains(t, out.String(), "WINS")
}

func TestCommands(t *testing.T) {
	app := makeapp()
	var names []string
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"run", "tournament"}, names)
	assert.Error(t, app.Run([]string{"arena", "tournament", "--seeds", "0"}))
}
