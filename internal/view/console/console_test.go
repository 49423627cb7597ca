package console

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/rules"
	"github.com/zeusync/arena/internal/core/sim"
	"github.com/zeusync/arena/internal/game"
)

type grid struct {
	w, h   int
	cells  map[[2]int]rune
	styles map[[2]int]tcell.Style
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: map[[2]int]rune{}, styles: map[[2]int]tcell.Style{}}
}

func (g *grid) SetContent(x, y int, mainc rune, _ []rune, style tcell.Style) {
	g.cells[[2]int{x, y}] = mainc
	g.styles[[2]int{x, y}] = style
}

func (g *grid) Size() (int, int) { return g.w, g.h }

func (g *grid) at(x, y int) rune { return g.cells[[2]int{x, y}] }

func (g *grid) row(y int) string {
	var b strings.Builder
	for x := 0; x < g.w; x++ {
		b.WriteRune(g.at(x, y))
	}
	return b.String()
}

var idle = sim.AgentFunc(func(sim.View) sim.Action { return sim.Action{} })

func smallArena(t *testing.T) *sim.Simulation {
	t.Helper()
	r := rules.Default()
	r.ArenaWidth, r.ArenaHeight = 100, 100
	s, err := sim.New(r, 1)
	require.NoError(t, err)
	return s
}

func TestDraw(t *testing.T) {
	s := smallArena(t)
	require.NoError(t, s.PlacePlayer("Albert", idle, geometry.Vec(55, 55), 0))
	require.NoError(t, s.PlacePlayer("Bob", sim.AgentFunc(func(sim.View) sim.Action { return sim.Action{Shoot: true} }), geometry.Vec(15, 85), 0))
	require.NoError(t, s.Update())
	require.Len(t, s.Projectiles(), 1)

	g := newGrid(10, 11)
	NewRenderer(g).Draw(s, "hello")

	assert.Equal(t, 'A', g.at(5, 5))
	assert.Equal(t, '→', g.at(6, 5))
	assert.Equal(t, styleHealthy, g.styles[[2]int{5, 5}])

	assert.Equal(t, 'B', g.at(1, 2))
	assert.Equal(t, '→', g.at(2, 2))
	assert.Equal(t, '*', g.at(5, 2))

	assert.Equal(t, " tick 1  p", g.row(0))
	assert.Equal(t, strings.Repeat(" ", 10), g.row(10))
}

func TestDrawHUDIsPadded(t *testing.T) {
	s := smallArena(t)
	g := newGrid(40, 5)
	NewRenderer(g).Draw(s, "x")

	assert.Equal(t, " tick 0  players 0  x"+strings.Repeat(" ", 19), g.row(0))
	assert.Equal(t, styleHUD, g.styles[[2]int{39, 0}])
}

func TestDrawClampsOutsideRobots(t *testing.T) {
	s := smallArena(t)
	require.NoError(t, s.PlacePlayer("zed", idle, geometry.Vec(-5, 50), math.Pi))

	g := newGrid(10, 11)
	NewRenderer(g).Draw(s, "")
	assert.Equal(t, 'z', g.at(0, 6))
}

func TestDrawIgnoresTinyCanvas(t *testing.T) {
	s := smallArena(t)
	require.NoError(t, s.PlacePlayer("A", idle, geometry.Vec(50, 50), 0))

	g := newGrid(1, 1)
	NewRenderer(g).Draw(s, "")
	assert.Empty(t, g.cells)
}

func TestArrowFor(t *testing.T) {
	tests := []struct {
		facing float64
		want   rune
	}{
		{0, '→'},
		{0.3, '→'},
		{math.Pi / 2, '↑'},
		{3 * math.Pi / 4, '↖'},
		{math.Pi, '←'},
		{-math.Pi / 2, '↓'},
		{-math.Pi / 4, '↘'},
		{2*math.Pi + math.Pi/4, '↗'},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(arrowFor(tt.facing).r), "facing %v", tt.facing)
	}
}

func TestHealthStyle(t *testing.T) {
	assert.Equal(t, styleHealthy, healthStyle(1))
	assert.Equal(t, styleHurt, healthStyle(0.5))
	assert.Equal(t, styleCritical, healthStyle(0.2))
}

func newScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(40, 20)
	t.Cleanup(screen.Fini)
	return screen
}

func TestPlay(t *testing.T) {
	screen := newScreen(t)
	s := smallArena(t)
	g := game.NewSession(s, log.NewNop())
	require.NoError(t, g.AddPlayer("A", 0, func() sim.Agent { return idle }))
	require.NoError(t, g.AddPlayer("B", 0, func() sim.Agent { return idle }))

	require.NoError(t, Play(context.Background(), screen, g, 3, time.Millisecond))
	assert.Equal(t, uint64(3), s.Tick())

	var hud strings.Builder
	for x := 0; x < 8; x++ {
		mainc, _, _, _ := screen.GetContent(x, 0)
		hud.WriteRune(mainc)
	}
	assert.Equal(t, " tick 3 ", hud.String())
}

func TestPlayCancelled(t *testing.T) {
	screen := newScreen(t)
	s := smallArena(t)
	g := game.NewSession(s, log.NewNop())
	require.NoError(t, g.AddPlayer("A", 0, func() sim.Agent { return idle }))
	require.NoError(t, g.AddPlayer("B", 0, func() sim.Agent { return idle }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Play(ctx, screen, g, 0, time.Millisecond), context.Canceled)
	assert.Zero(t, s.Tick())
}
