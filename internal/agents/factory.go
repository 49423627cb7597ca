package agents

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zeusync/arena/internal/core/sim"
)

var (
	ErrUnknownKind  = errors.New("unknown agent kind")
	ErrUnknownParam = errors.New("unknown agent parameter")
)

// Params are the numeric settings of a strategy, keyed by lower-case field
// name. Missing keys take the kind's default.
type Params map[string]float64

var defaults = map[string]Params{
	"hunter":   {"range": 100, "speed": 20, "turn": 30},
	"follower": {"distance": 100, "speed": 100, "turn": 10},
	"sniper":   {"sweep": 15},
	"orbiter":  {"speed": 20, "turn": 0.6},
	"wanderer": {"turn": 0.1, "speed": 20, "seed": 0},
	"idle":     {},
}

// Kinds lists the strategies New knows about, sorted.
func Kinds() []string {
	return slices.Sorted(maps.Keys(defaults))
}

// Factory validates kind and params once and returns a constructor that
// builds a fresh agent on every call.
func Factory(kind string, params Params) (func() sim.Agent, error) {
	def, ok := defaults[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	p := maps.Clone(def)
	for key, value := range params {
		if _, known := def[key]; !known {
			return nil, fmt.Errorf("%s: %w: %q", kind, ErrUnknownParam, key)
		}
		p[key] = value
	}

	switch kind {
	case "hunter":
		h := Hunter{Range: p["range"], Speed: p["speed"], Turn: p["turn"]}
		return func() sim.Agent { return h }, nil
	case "follower":
		f := Follower{Distance: p["distance"], Speed: p["speed"], Turn: p["turn"]}
		return func() sim.Agent { return f }, nil
	case "sniper":
		s := Sniper{Sweep: p["sweep"]}
		return func() sim.Agent { return s }, nil
	case "orbiter":
		o := Orbiter{Speed: p["speed"], Turn: p["turn"]}
		return func() sim.Agent { return o }, nil
	case "wanderer":
		turn, speed, seed := p["turn"], p["speed"], uint64(p["seed"])
		return func() sim.Agent { return &Wanderer{Turn: turn, Speed: speed, Seed: seed} }, nil
	default:
		return func() sim.Agent { return Idle{} }, nil
	}
}

// New builds a single agent of the given kind.
func New(kind string, params Params) (sim.Agent, error) {
	f, err := Factory(kind, params)
	if err != nil {
		return nil, err
	}
	return f(), nil
}
