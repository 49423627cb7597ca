// Package console draws the arena in a terminal.
package console

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/sim"
)

// Canvas is the part of tcell.Screen the renderer draws on.
type Canvas interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Size() (width, height int)
}

var _ Canvas = tcell.Screen(nil)

var (
	styleBackground = tcell.StyleDefault
	styleHUD        = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver)
	styleProjectile = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleArrow      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHealthy    = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHurt       = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleCritical   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

type arrow struct {
	r      rune
	dx, dy int
}

// arrows are indexed by facing in steps of 45 degrees, counter-clockwise
// from east.
var arrows = [8]arrow{
	{'→', 1, 0}, {'↗', 1, -1}, {'↑', 0, -1}, {'↖', -1, -1},
	{'←', -1, 0}, {'↙', -1, 1}, {'↓', 0, 1}, {'↘', 1, 1},
}

// Renderer maps arena coordinates onto a canvas. Row 0 holds the HUD, the
// remaining rows show the arena with y pointing up.
type Renderer struct {
	canvas Canvas
}

func NewRenderer(c Canvas) *Renderer {
	return &Renderer{canvas: c}
}

// Draw paints one frame. status is appended to the HUD line.
func (r *Renderer) Draw(s *sim.Simulation, status string) {
	width, height := r.canvas.Size()
	if width < 1 || height < 2 {
		return
	}
	rules := s.Rules()

	for y := 1; y < height; y++ {
		for x := 0; x < width; x++ {
			r.canvas.SetContent(x, y, ' ', nil, styleBackground)
		}
	}

	for _, p := range s.Projectiles() {
		if x, y, ok := r.cell(p.Position(), rules.ArenaWidth, rules.ArenaHeight); ok {
			r.canvas.SetContent(x, y, '*', nil, styleProjectile)
		}
	}

	robots := s.Robots()
	for _, robot := range robots {
		x, y, ok := r.cell(robot.Position(), rules.ArenaWidth, rules.ArenaHeight)
		if !ok {
			continue
		}
		a := arrowFor(robot.Facing())
		if ax, ay := x+a.dx, y+a.dy; ax >= 0 && ax < width && ay >= 1 && ay < height {
			r.canvas.SetContent(ax, ay, a.r, nil, styleArrow)
		}
	}
	for _, robot := range robots {
		if x, y, ok := r.cell(robot.Position(), rules.ArenaWidth, rules.ArenaHeight); ok {
			r.canvas.SetContent(x, y, []rune(robot.Name())[0], nil, healthStyle(robot.Health()/rules.MaxHealth))
		}
	}

	hud := fmt.Sprintf(" tick %d  players %d  %s", s.Tick(), s.NumPlayers(), status)
	r.drawText(0, width, hud, styleHUD)
}

// cell converts an arena position to canvas coordinates. Positions outside
// the arena are clamped onto its edge.
func (r *Renderer) cell(p geometry.Vector, arenaWidth, arenaHeight float64) (int, int, bool) {
	width, height := r.canvas.Size()
	rows := height - 1
	if width < 1 || rows < 1 || math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return 0, 0, false
	}
	x := clampInt(int(p.X/arenaWidth*float64(width)), 0, width-1)
	y := clampInt(int((arenaHeight-p.Y)/arenaHeight*float64(rows)), 0, rows-1)
	return x, y + 1, true
}

func (r *Renderer) drawText(row, width int, text string, style tcell.Style) {
	x := 0
	for _, ch := range text {
		if x >= width {
			return
		}
		r.canvas.SetContent(x, row, ch, nil, style)
		x++
	}
	for ; x < width; x++ {
		r.canvas.SetContent(x, row, ' ', nil, style)
	}
}

func arrowFor(facing float64) arrow {
	idx := int(math.Round(geometry.Wrap(facing) / (math.Pi / 4)))
	return arrows[(idx%8+8)%8]
}

func healthStyle(fraction float64) tcell.Style {
	switch {
	case fraction > 2.0/3:
		return styleHealthy
	case fraction > 1.0/3:
		return styleHurt
	default:
		return styleCritical
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
