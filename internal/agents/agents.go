// Package agents contains the built-in robot strategies.
//
// Every strategy only reads the View it is given. Wanderer is the only one
// with state of its own, so create a fresh value per robot; New and Factory
// do that.
package agents

import (
	"math"
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/sim"
)

var (
	_ sim.Agent = Hunter{}
	_ sim.Agent = Sniper{}
	_ sim.Agent = Follower{}
	_ sim.Agent = Orbiter{}
	_ sim.Agent = (*Wanderer)(nil)
	_ sim.Agent = Idle{}
)

// Hunter chases the closest visible robot until it is within Range and
// shoots whenever the turret is on target. With nothing in sight it cruises
// in a wide circle and sweeps the turret by Turn degrees per tick.
type Hunter struct {
	Range float64
	Speed float64
	Turn  float64
}

func (h Hunter) Decide(v sim.View) sim.Action {
	t, ok := v.Closest()
	if !ok {
		return sim.Action{
			V:           h.Speed / 2,
			W:           v.Rules.WMax / 4,
			TurretAngle: v.TurretAngle + geometry.Radians(h.Turn),
		}
	}

	a := aimAt(v, t)
	a.W = bodyBearing(v, t) / v.Rules.TimeStep
	if t.Distance > h.Range {
		a.V = h.Speed
	}
	return a
}

// Follower shadows the closest visible robot at Distance, backing off when
// it gets too close. Speed caps the correction per tick. With nothing in
// sight it stands still and sweeps the turret by Turn degrees per tick.
type Follower struct {
	Distance float64
	Speed    float64
	Turn     float64
}

func (f Follower) Decide(v sim.View) sim.Action {
	t, ok := v.Closest()
	if !ok {
		return sim.Action{TurretAngle: v.TurretAngle + geometry.Radians(f.Turn)}
	}

	a := aimAt(v, t)
	a.W = bodyBearing(v, t) / v.Rules.TimeStep
	gap := (t.Distance - f.Distance) / v.Rules.TimeStep
	a.V = math.Max(-f.Speed, math.Min(f.Speed, gap))
	return a
}

// Sniper never moves. It sweeps the turret by Sweep degrees per tick and
// fires at anything it sees.
type Sniper struct {
	Sweep float64
}

func (s Sniper) Decide(v sim.View) sim.Action {
	if t, ok := v.Closest(); ok {
		return aimAt(v, t)
	}
	return sim.Action{TurretAngle: v.TurretAngle + geometry.Radians(s.Sweep)}
}

// Orbiter drives in a fixed circle: Speed forward, Turn radians per tick.
type Orbiter struct {
	Speed float64
	Turn  float64
}

func (o Orbiter) Decide(v sim.View) sim.Action {
	a := sim.Action{TurretAngle: v.TurretAngle}
	if t, ok := v.Closest(); ok {
		a = aimAt(v, t)
	}
	a.V = o.Speed
	a.W = o.Turn / v.Rules.TimeStep
	return a
}

// Wanderer is a random walk driven by its own generator, so a run stays
// reproducible. A zero Seed derives one from the robot name.
type Wanderer struct {
	Turn  float64
	Speed float64
	Seed  uint64

	rng *rand.Rand
}

func (w *Wanderer) Decide(v sim.View) sim.Action {
	if w.rng == nil {
		seed := w.Seed
		if seed == 0 {
			seed = xxhash.Sum64String(v.Name)
		}
		w.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	turn := (w.rng.Float64()*2 - 1) * w.Turn
	a := sim.Action{TurretAngle: v.TurretAngle + turn}
	if t, ok := v.Any(); ok {
		a = aimAt(v, t)
	}
	a.V = w.Speed
	a.W = v.TurnRate + turn
	return a
}

// Idle does nothing.
type Idle struct{}

func (Idle) Decide(sim.View) sim.Action { return sim.Action{} }

// aimAt turns the turret onto t and shoots once the target is covered.
func aimAt(v sim.View, t sim.Target) sim.Action {
	return sim.Action{
		TurretAngle: v.TurretAngle + t.Bearing,
		Shoot:       v.CanShoot() && onTarget(v, t),
	}
}

// onTarget reports whether a shot fired along the current facing would pass
// through the target's body.
func onTarget(v sim.View, t sim.Target) bool {
	if t.Distance == 0 {
		return true
	}
	return math.Abs(t.Bearing) <= math.Atan2(v.Rules.RobotHeight/2, t.Distance)
}

// bodyBearing is the angle from the body heading to the target.
func bodyBearing(v sim.View, t sim.Target) float64 {
	return geometry.AngDiff(v.TurretAngle+t.Bearing, 0)
}
