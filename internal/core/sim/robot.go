package sim

import (
	"fmt"
	"math"
	"slices"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/rules"
)

// Robot is one entity in the arena. Its exported methods are read-only and
// meant for renderers and tests; all mutation goes through the Simulation
// that owns it.
type Robot struct {
	name  string
	rules *rules.Rules
	agent Agent

	body        geometry.Rectangle
	turretAngle float64
	health      float64
	cooldown    float64

	v          float64
	w          float64
	turretRate float64
	shooting   bool

	targets []Target
}

func newRobot(name string, r *rules.Rules, agent Agent, position geometry.Vector, rotation float64) *Robot {
	return &Robot{
		name:   name,
		rules:  r,
		agent:  agent,
		body:   geometry.NewRectangle(position, geometry.Vec(r.RobotWidth, r.RobotHeight), geometry.Wrap(rotation)),
		health: r.MaxHealth,
	}
}

func (r *Robot) Name() string              { return r.name }
func (r *Robot) Position() geometry.Vector { return r.body.Position }
func (r *Robot) Rotation() float64         { return r.body.Rotation }
func (r *Robot) Body() geometry.Rectangle  { return r.body }
func (r *Robot) TurretAngle() float64      { return r.turretAngle }
func (r *Robot) Health() float64           { return r.health }
func (r *Robot) Cooldown() float64         { return r.cooldown }
func (r *Robot) Speed() float64            { return r.v }
func (r *Robot) TurnRate() float64         { return r.w }
func (r *Robot) TurretRate() float64       { return r.turretRate }
func (r *Robot) Shooting() bool            { return r.shooting }
func (r *Robot) Alive() bool               { return r.health > 0 }
func (r *Robot) ScanTargets() []Target     { return slices.Clone(r.targets) }

// Facing is the absolute direction of the turret.
func (r *Robot) Facing() float64 { return r.body.Rotation + r.turretAngle }

func (r *Robot) String() string {
	return fmt.Sprintf("%s{pos=(%.2f, %.2f) rot=%.3f turret=%.3f health=%.1f}",
		r.name, r.body.Position.X, r.body.Position.Y, r.body.Rotation, r.turretAngle, r.health)
}

func (r *Robot) view(tick uint64) View {
	return View{
		Name:        r.name,
		Tick:        tick,
		Body:        r.body,
		TurretAngle: r.turretAngle,
		Health:      r.health,
		Cooldown:    r.cooldown,
		Speed:       r.v,
		TurnRate:    r.w,
		Rules:       *r.rules,
		Targets:     slices.Clone(r.targets),
	}
}

func (r *Robot) setScanTargets(targets []Target) {
	r.targets = targets
}

// applyAction advances the robot by one tick and reports whether it fired.
func (r *Robot) applyAction(a Action) bool {
	dt := r.rules.TimeStep

	r.v = clamp(limitRate(r.v, a.V, r.rules.VDelta), r.rules.VMax)
	r.w = clamp(limitRate(r.w, a.W, r.rules.WDelta), r.rules.WMax)
	r.rotateTurret(a.TurretAngle, dt)

	r.body.Position = r.body.Position.Add(geometry.FromPolar(r.v*dt, r.body.Rotation))
	r.body.Rotation = geometry.Wrap(r.body.Rotation + r.w*dt)

	r.cooldown = math.Max(0, r.cooldown-dt)
	r.shooting = a.Shoot
	if a.Shoot && r.cooldown == 0 {
		r.cooldown = r.rules.ShotCooldown
		return true
	}
	return false
}

// rotateTurret moves the turret toward the requested angle. The turret rate
// is limited like v and w, and the turret never turns away from or past the
// requested angle.
func (r *Robot) rotateTurret(requested, dt float64) {
	if math.IsNaN(requested) || math.IsInf(requested, 0) {
		requested = r.turretAngle
	}
	delta := geometry.AngDiff(requested, r.turretAngle)
	rate := clamp(limitRate(r.turretRate, delta/dt, r.rules.TurretWDelta), r.rules.TurretWMax)

	step := rate * dt
	step = math.Max(math.Min(step, math.Max(0, delta)), math.Min(0, delta))

	r.turretRate = step / dt
	r.turretAngle = geometry.Wrap(r.turretAngle + step)
}

// takeDamage lowers health by amount without going below zero and returns
// the amount actually applied.
func (r *Robot) takeDamage(amount float64) float64 {
	if !(amount > 0) {
		return 0
	}
	applied := math.Min(amount, r.health)
	r.health -= applied
	return applied
}

func (r *Robot) onCollision() {
	r.takeDamage(r.rules.CollisionDamage)
}

func (r *Robot) setPose(position geometry.Vector, rotation float64) {
	r.body.Position = position
	r.body.Rotation = geometry.Wrap(rotation)
}

// limitRate moves previous toward requested by at most maxDelta. A NaN
// request keeps the previous value.
func limitRate(previous, requested, maxDelta float64) float64 {
	if math.IsNaN(requested) {
		return previous
	}
	switch delta := requested - previous; {
	case delta > maxDelta:
		return previous + maxDelta
	case delta < -maxDelta:
		return previous - maxDelta
	default:
		return requested
	}
}

func clamp(value, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, value))
}
