package sim

import (
	"reflect"

	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/rules"
)

// Action is what an agent wants its robot to do during one tick.
type Action struct {
	// V is the desired linear speed.
	V float64
	// W is the desired turn rate of the body.
	W float64
	// TurretAngle is the desired turret angle relative to the body.
	TurretAngle float64
	// Shoot requests a shot; it only fires when the cooldown is over.
	Shoot bool
}

// Agent decides what a robot does. Decide is called exactly once per robot
// per tick and must not keep the View beyond the call.
type Agent interface {
	Decide(view View) Action
}

// AgentFunc adapts a plain function to Agent.
type AgentFunc func(view View) Action

func (f AgentFunc) Decide(view View) Action { return f(view) }

// isNilAgent reports whether a cannot decide anything, including typed nils
// such as AgentFunc(nil) or a nil pointer to a strategy.
func isNilAgent(a Agent) bool {
	if a == nil {
		return true
	}
	switch v := reflect.ValueOf(a); v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// Target is a snapshot of another robot taken during the scan phase.
type Target struct {
	Name        string
	Position    geometry.Vector
	Rotation    float64
	TurretAngle float64
	Health      float64
	// Distance from the observer.
	Distance float64
	// Bearing relative to the observer's turret facing, in [-pi, pi).
	Bearing float64
}

// View is the read-only state an agent receives. It is a value copy;
// changing it has no effect on the simulation.
type View struct {
	Name        string
	Tick        uint64
	Body        geometry.Rectangle
	TurretAngle float64
	Health      float64
	Cooldown    float64
	Speed       float64
	TurnRate    float64
	Rules       rules.Rules
	Targets     []Target
}

func (v View) Position() geometry.Vector { return v.Body.Position }
func (v View) Rotation() float64         { return v.Body.Rotation }

// Facing is the absolute direction the turret points at.
func (v View) Facing() float64 { return v.Body.Rotation + v.TurretAngle }

// CanShoot reports whether a shot requested now would fire. The cooldown is
// decremented before the shot check, so one tick of cooldown left is enough.
func (v View) CanShoot() bool { return v.Cooldown <= v.Rules.TimeStep }

// Closest returns the nearest visible target.
func (v View) Closest() (Target, bool) {
	if len(v.Targets) == 0 {
		return Target{}, false
	}
	best := v.Targets[0]
	for _, t := range v.Targets[1:] {
		if t.Distance < best.Distance {
			best = t
		}
	}
	return best, true
}

// Any returns the first visible target in roster order.
func (v View) Any() (Target, bool) {
	if len(v.Targets) == 0 {
		return Target{}, false
	}
	return v.Targets[0], true
}
