package tree

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/zeusync/arena/internal/core/geometry"
)

var (
	ErrUnknownLeaf  = errors.New("unknown leaf")
	ErrInvalidParam = errors.New("invalid leaf parameter")
)

// LeafFactory builds a leaf from its configuration parameters.
type LeafFactory func(params map[string]any) (Node, error)

// Registry maps leaf names used in configuration to their factories.
type Registry struct {
	mu         sync.RWMutex
	actions    map[string]LeafFactory
	conditions map[string]LeafFactory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		actions:    make(map[string]LeafFactory),
		conditions: make(map[string]LeafFactory),
	}
}

// Builtins returns a registry holding the built-in leaves.
func Builtins() *Registry {
	r := NewRegistry()
	RegisterBuiltins(r)
	return r
}

func (r *Registry) RegisterAction(name string, factory LeafFactory) {
	r.mu.Lock()
	r.actions[name] = factory
	r.mu.Unlock()
}

func (r *Registry) RegisterCondition(name string, factory LeafFactory) {
	r.mu.Lock()
	r.conditions[name] = factory
	r.mu.Unlock()
}

func (r *Registry) NewAction(name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.actions[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: action %q", ErrUnknownLeaf, name)
	}
	return f(params)
}

func (r *Registry) NewCondition(name string, params map[string]any) (Node, error) {
	r.mu.RLock()
	f := r.conditions[name]
	r.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("%w: condition %q", ErrUnknownLeaf, name)
	}
	return f(params)
}

// RegisterBuiltins adds the standard robot leaves to r.
//
// Conditions: target_visible [range], cooldown_ready, health_below value.
// Actions: aim, fire, advance [speed, steer], turn rate, sweep [step], hold.
func RegisterBuiltins(r *Registry) {
	r.RegisterCondition("target_visible", func(params map[string]any) (Node, error) {
		maxRange, err := floatParam(params, "range", math.Inf(1))
		if err != nil {
			return nil, err
		}
		return NewCondition("target_visible", func(c *Context) bool {
			t, ok := c.View.Closest()
			return ok && t.Distance <= maxRange
		}), nil
	})
	r.RegisterCondition("cooldown_ready", func(map[string]any) (Node, error) {
		return NewCondition("cooldown_ready", func(c *Context) bool { return c.View.CanShoot() }), nil
	})
	r.RegisterCondition("health_below", func(params map[string]any) (Node, error) {
		value, err := requiredFloat(params, "value")
		if err != nil {
			return nil, err
		}
		return NewCondition(fmt.Sprintf("health_below(%g)", value), func(c *Context) bool {
			return c.View.Health < value
		}), nil
	})

	r.RegisterAction("aim", func(map[string]any) (Node, error) {
		return NewAction("aim", func(c *Context) Status {
			t, ok := c.View.Closest()
			if !ok {
				return StatusFailure
			}
			c.Action.TurretAngle = c.View.TurretAngle + t.Bearing
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("fire", func(map[string]any) (Node, error) {
		return NewAction("fire", func(c *Context) Status {
			c.Action.Shoot = true
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("advance", func(params map[string]any) (Node, error) {
		speed, err := floatParam(params, "speed", math.NaN())
		if err != nil {
			return nil, err
		}
		steer, err := boolParam(params, "steer", true)
		if err != nil {
			return nil, err
		}
		return NewAction("advance", func(c *Context) Status {
			c.Action.V = speed
			if math.IsNaN(speed) {
				c.Action.V = c.View.Rules.VMax
			}
			if t, ok := c.View.Closest(); ok && steer {
				c.Action.W = geometry.AngDiff(c.View.TurretAngle+t.Bearing, 0) / c.View.Rules.TimeStep
			}
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("turn", func(params map[string]any) (Node, error) {
		rate, err := requiredFloat(params, "rate")
		if err != nil {
			return nil, err
		}
		return NewAction("turn", func(c *Context) Status {
			c.Action.W = rate / c.View.Rules.TimeStep
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("sweep", func(params map[string]any) (Node, error) {
		step, err := floatParam(params, "step", 15)
		if err != nil {
			return nil, err
		}
		return NewAction("sweep", func(c *Context) Status {
			c.Action.TurretAngle = c.View.TurretAngle + geometry.Radians(step)
			return StatusSuccess
		}), nil
	})
	r.RegisterAction("hold", func(map[string]any) (Node, error) {
		return NewAction("hold", func(c *Context) Status {
			c.Action.V, c.Action.W = 0, 0
			return StatusSuccess
		}), nil
	})
}

// floatParam reads a number; YAML decodes integers and floats differently.
func floatParam(params map[string]any, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParam, key, v)
	}
}

func requiredFloat(params map[string]any, key string) (float64, error) {
	if _, ok := params[key]; !ok {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidParam, key)
	}
	return floatParam(params, key, 0)
}

func boolParam(params map[string]any, key string, def bool) (bool, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean, got %T", ErrInvalidParam, key, v)
	}
	return b, nil
}
