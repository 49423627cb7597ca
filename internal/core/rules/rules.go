package rules

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules holds the tunable constants of one simulation. A Rules value is
// copied into the simulation at construction and never mutated afterwards.
//
// Angles are radians, rates are per unit of time and the *Delta limits are
// the largest change allowed within a single tick.
type Rules struct {
	ArenaWidth  float64 `yaml:"arena_width"`
	ArenaHeight float64 `yaml:"arena_height"`
	TimeStep    float64 `yaml:"time_step"`

	RobotWidth  float64 `yaml:"robot_width"`
	RobotHeight float64 `yaml:"robot_height"`
	MaxHealth   float64 `yaml:"max_health"`

	ScanRange float64 `yaml:"scan_range"`
	ScanAngle float64 `yaml:"scan_angle"`

	VMax            float64 `yaml:"v_max"`
	VDelta          float64 `yaml:"v_delta"`
	WMax            float64 `yaml:"w_max"`
	WDelta          float64 `yaml:"w_delta"`
	TurretWMax      float64 `yaml:"turret_w_max"`
	TurretWDelta    float64 `yaml:"turret_w_delta"`
	CollisionDamage float64 `yaml:"collision_damage"`

	ShotCooldown     float64 `yaml:"shot_cooldown"`
	ShotDamage       float64 `yaml:"shot_damage"`
	ProjectileSpeed  float64 `yaml:"projectile_speed"`
	ProjectileLength float64 `yaml:"projectile_length"`
	ProjectileWidth  float64 `yaml:"projectile_width"`
}

// Default returns the canonical rule set.
func Default() Rules {
	return Rules{
		ArenaWidth:  1000,
		ArenaHeight: 1000,
		TimeStep:    1,

		RobotWidth:  20,
		RobotHeight: 10,
		MaxHealth:   100,

		ScanRange: 200,
		ScanAngle: math.Pi / 3,

		VMax:            20,
		VDelta:          20,
		WMax:            math.Pi / 8,
		WDelta:          math.Pi / 16,
		TurretWMax:      math.Pi / 4,
		TurretWDelta:    math.Pi / 4,
		CollisionDamage: 10,

		ShotCooldown:     10,
		ShotDamage:       10,
		ProjectileSpeed:  40,
		ProjectileLength: 6,
		ProjectileWidth:  2,
	}
}

// Validate checks that every limit is usable by the simulation.
func (r Rules) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"arena_width", r.ArenaWidth},
		{"arena_height", r.ArenaHeight},
		{"time_step", r.TimeStep},
		{"robot_width", r.RobotWidth},
		{"robot_height", r.RobotHeight},
		{"max_health", r.MaxHealth},
		{"scan_range", r.ScanRange},
		{"scan_angle", r.ScanAngle},
		{"v_max", r.VMax},
		{"v_delta", r.VDelta},
		{"w_max", r.WMax},
		{"w_delta", r.WDelta},
		{"turret_w_max", r.TurretWMax},
		{"turret_w_delta", r.TurretWDelta},
		{"projectile_speed", r.ProjectileSpeed},
		{"projectile_length", r.ProjectileLength},
		{"projectile_width", r.ProjectileWidth},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive and finite, got %v", ErrInvalidRules, p.name, p.value)
		}
	}

	nonNegative := []struct {
		name  string
		value float64
	}{
		{"collision_damage", r.CollisionDamage},
		{"shot_cooldown", r.ShotCooldown},
		{"shot_damage", r.ShotDamage},
	}
	for _, p := range nonNegative {
		if !(p.value >= 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be non-negative and finite, got %v", ErrInvalidRules, p.name, p.value)
		}
	}
	return nil
}

// Decode reads YAML rules from r. Fields missing from the document keep
// their Default values; unknown fields are an error.
func Decode(r io.Reader) (Rules, error) {
	out := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("decode rules: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Rules{}, err
	}
	return out, nil
}

// Load reads YAML rules from a file.
func Load(path string) (Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return Rules{}, err
	}
	defer f.Close()
	return Decode(f)
}
