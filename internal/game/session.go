// Package game runs a match on top of a simulation: players have a number of
// lives, are respawned after dying and score a point for every hit they land.
package game

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/sim"
)

var (
	ErrInvalidLives   = errors.New("lives must not be negative")
	ErrMissingFactory = errors.New("player has no agent factory")
)

// Standing is one row of the scoreboard.
type Standing struct {
	Name   string
	Points int
	Deaths int
	Lives  int
	Alive  bool
}

type player struct {
	name    string
	lives   int
	points  int
	deaths  int
	factory func() sim.Agent
}

// Session owns the players of one match. Like the simulation it drives, it
// is not safe for concurrent use.
type Session struct {
	sim     *sim.Simulation
	log     log.Log
	players map[string]*player
	order   []string
	respawn []string
	subs    []bus.Subscription
}

// NewSession attaches a session to s. Close detaches it again.
func NewSession(s *sim.Simulation, l log.Log) *Session {
	g := &Session{
		sim:     s,
		log:     l,
		players: make(map[string]*player),
	}
	g.subs = append(g.subs,
		s.DeathSignal().Connect(g.onDeath),
		s.HitSignal().Connect(g.onHit),
	)
	return g
}

func (g *Session) Simulation() *sim.Simulation { return g.sim }

// AddPlayer registers a player at a random position. lives is the number of
// respawns left after the first death; factory builds the agent for the
// first spawn and for every respawn.
func (g *Session) AddPlayer(name string, lives int, factory func() sim.Agent) error {
	if lives < 0 {
		return fmt.Errorf("player %q: %w", name, ErrInvalidLives)
	}
	if factory == nil {
		return fmt.Errorf("player %q: %w", name, ErrMissingFactory)
	}
	if err := g.sim.NewPlayer(name, factory()); err != nil {
		return err
	}
	g.players[name] = &player{name: name, lives: lives, factory: factory}
	g.order = append(g.order, name)
	return nil
}

// onDeath only records the death; the roster cannot change while the
// simulation is culling, so the respawn waits for Step.
func (g *Session) onDeath(d sim.Death) error {
	p, ok := g.players[d.Name]
	if !ok {
		return nil
	}
	p.deaths++
	if p.lives > 0 {
		p.lives--
		g.respawn = append(g.respawn, d.Name)
		g.log.Info("player died",
			log.String("player", d.Name),
			log.Int("lives", p.lives),
			log.Uint64("tick", d.Tick),
		)
		return nil
	}
	g.log.Info("player eliminated",
		log.String("player", d.Name),
		log.Int("remaining", g.sim.NumPlayers()-1),
		log.Uint64("tick", d.Tick),
	)
	return nil
}

func (g *Session) onHit(h sim.Hit) error {
	if p, ok := g.players[h.Attacker]; ok {
		p.points++
	}
	return nil
}

// Step advances the simulation by one tick and respawns the players that
// died during it.
func (g *Session) Step() error {
	err := g.sim.Update()

	var errs []error
	for _, name := range g.respawn {
		if rerr := g.sim.NewPlayer(name, g.players[name].factory()); rerr != nil {
			errs = append(errs, fmt.Errorf("respawn %q: %w", name, rerr))
		}
	}
	clear(g.respawn)
	g.respawn = g.respawn[:0]
	return errors.Join(err, errors.Join(errs...))
}

// Done reports whether the match is over: the simulation was stopped or at
// most one robot is left.
func (g *Session) Done() bool {
	return !g.sim.IsRunning() || g.sim.NumPlayers() <= 1
}

// Run steps until Done, until maxTicks ticks have been played (0 means no
// limit) or until ctx is cancelled. It returns the number of ticks played.
func (g *Session) Run(ctx context.Context, maxTicks uint64) (uint64, error) {
	var played uint64
	for !g.Done() && (maxTicks == 0 || played < maxTicks) {
		if err := ctx.Err(); err != nil {
			return played, err
		}
		if err := g.Step(); err != nil {
			return played, err
		}
		played++
	}
	return played, nil
}

// Winner returns the last robot standing, if there is exactly one.
func (g *Session) Winner() (string, bool) {
	if names := g.sim.Names(); len(names) == 1 {
		return names[0], true
	}
	return "", false
}

// Standings ranks players by points, then by name.
func (g *Session) Standings() []Standing {
	out := make([]Standing, 0, len(g.order))
	for _, name := range g.order {
		p := g.players[name]
		_, alive := g.sim.Robot(name)
		out = append(out, Standing{Name: name, Points: p.points, Deaths: p.deaths, Lives: p.lives, Alive: alive})
	}
	slices.SortFunc(out, func(a, b Standing) int {
		return cmp.Or(cmp.Compare(b.Points, a.Points), cmp.Compare(a.Name, b.Name))
	})
	return out
}

// Close disconnects the session from the simulation's signals.
func (g *Session) Close() error {
	var errs []error
	for _, sub := range g.subs {
		errs = append(errs, sub.Cancel())
	}
	g.subs = nil
	return errors.Join(errs...)
}
