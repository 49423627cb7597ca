package sim

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync/atomic"

	"github.com/zeusync/arena/internal/core/events/bus"
	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/observability/log"
	"github.com/zeusync/arena/internal/core/rules"
)

// Death is emitted once for every robot removed from the roster.
type Death struct {
	Name string
	Tick uint64
}

// Hit is emitted when a projectile fired by Attacker strikes Victim.
type Hit struct {
	Attacker string
	Victim   string
	Damage   float64
	Tick     uint64
}

// Simulation owns the roster and advances it one tick per Update.
//
// A Simulation is not safe for concurrent use, except for Stop and
// IsRunning. Listeners connected to its signals run inside Update and must
// not call Update, NewPlayer or PlacePlayer; those calls fail with
// ErrReentrant.
type Simulation struct {
	rules *rules.Rules
	rng   *rand.Rand
	log   log.Log

	robots      map[string]*Robot
	names       []string
	projectiles []*Projectile

	death *bus.Signal[Death]
	hit   *bus.Signal[Hit]

	tick     uint64
	inTick   bool
	stopped  atomic.Bool
	scratch  []string
	worklist []string
}

// Option configures a Simulation.
type Option func(*Simulation)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l log.Log) Option {
	return func(s *Simulation) { s.log = l }
}

// WithDeathSignal injects the channel deaths are emitted on.
func WithDeathSignal(sig *bus.Signal[Death]) Option {
	return func(s *Simulation) { s.death = sig }
}

// WithHitSignal injects the channel hits are emitted on.
func WithHitSignal(sig *bus.Signal[Hit]) Option {
	return func(s *Simulation) { s.hit = sig }
}

// New creates an empty simulation. The rules are copied; seed drives the
// only random source, which is used for initial placement.
func New(r rules.Rules, seed uint64, opts ...Option) (*Simulation, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		rules:  &r,
		rng:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		log:    log.NewNop(),
		robots: make(map[string]*Robot),
		death:  bus.NewSignal[Death](),
		hit:    bus.NewSignal[Hit](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Rules returns a copy of the simulation rules.
func (s *Simulation) Rules() rules.Rules { return *s.rules }

func (s *Simulation) DeathSignal() *bus.Signal[Death] { return s.death }
func (s *Simulation) HitSignal() *bus.Signal[Hit]     { return s.hit }

// Tick returns the number of completed updates.
func (s *Simulation) Tick() uint64 { return s.tick }

// IsRunning reports whether the driving loop should keep calling Update.
// The simulation never stops by itself.
func (s *Simulation) IsRunning() bool { return !s.stopped.Load() }

// Stop asks the driving loop to finish. Safe to call from any goroutine.
func (s *Simulation) Stop() { s.stopped.Store(true) }

func (s *Simulation) NumPlayers() int { return len(s.names) }

// Names returns the roster keys in iteration order.
func (s *Simulation) Names() []string { return slices.Clone(s.names) }

// Robot looks a robot up by name.
func (s *Simulation) Robot(name string) (*Robot, bool) {
	r, ok := s.robots[name]
	return r, ok
}

// Robots returns the live robots in roster order.
func (s *Simulation) Robots() []*Robot {
	out := make([]*Robot, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, s.robots[name])
	}
	return out
}

// Projectiles returns the projectiles in flight, oldest first.
func (s *Simulation) Projectiles() []*Projectile { return slices.Clone(s.projectiles) }

// NewPlayer registers a robot at a random position with a random rotation.
// The simulation takes ownership of agent.
func (s *Simulation) NewPlayer(name string, agent Agent) error {
	if err := s.checkRegistration(name, agent); err != nil {
		return err
	}
	x := s.rng.Float64() * s.rules.ArenaWidth
	y := s.rng.Float64() * s.rules.ArenaHeight
	rotation := s.rng.Float64() * 2 * math.Pi
	s.register(newRobot(name, s.rules, agent, geometry.Vec(x, y), rotation))
	return nil
}

// PlacePlayer registers a robot at an explicit pose without touching the
// random source.
func (s *Simulation) PlacePlayer(name string, agent Agent, position geometry.Vector, rotation float64) error {
	if err := s.checkRegistration(name, agent); err != nil {
		return err
	}
	s.register(newRobot(name, s.rules, agent, position, rotation))
	return nil
}

func (s *Simulation) checkRegistration(name string, agent Agent) error {
	switch {
	case s.inTick:
		return fmt.Errorf("register %q: %w", name, ErrReentrant)
	case name == "":
		return ErrInvalidName
	case isNilAgent(agent):
		return fmt.Errorf("register %q: %w", name, ErrMissingAgent)
	}
	if _, exists := s.robots[name]; exists {
		return fmt.Errorf("register %q: %w", name, ErrDuplicateName)
	}
	return nil
}

func (s *Simulation) register(r *Robot) {
	s.robots[r.name] = r
	i, _ := slices.BinarySearch(s.names, r.name)
	s.names = slices.Insert(s.names, i, r.name)
	s.log.Debug("robot registered",
		log.String("robot", r.name),
		log.Float64("x", r.body.Position.X),
		log.Float64("y", r.body.Position.Y),
		log.Float64("rotation", r.body.Rotation),
	)
}

func (s *Simulation) unregister(name string) {
	delete(s.robots, name)
	if i, found := slices.BinarySearch(s.names, name); found {
		s.names = slices.Delete(s.names, i, i+1)
	}
}

// Update advances the simulation by one tick:
// scan, decide and move, collide, resolve, boundary, projectiles, cull.
func (s *Simulation) Update() error {
	if s.inTick {
		return ErrReentrant
	}
	for _, name := range s.names {
		if isNilAgent(s.robots[name].agent) {
			return fmt.Errorf("tick %d: robot %q: %w", s.tick, name, ErrMissingAgent)
		}
	}
	s.inTick = true
	defer func() { s.inTick = false }()

	s.scanPhase()
	s.movePhase()
	s.collisionPhase()
	s.boundaryPhase()
	hitErr := s.projectilePhase()
	cullErr := s.cullPhase()

	s.tick++
	if s.log.Enabled(log.LevelDebug) {
		s.log.Debug("tick completed",
			log.Uint64("tick", s.tick),
			log.Int("robots", len(s.names)),
			log.Int("projectiles", len(s.projectiles)),
		)
	}
	return errors.Join(hitErr, cullErr)
}

// scanPhase refreshes every robot's targets from pre-movement positions.
func (s *Simulation) scanPhase() {
	for _, name := range s.names {
		observer := s.robots[name]
		facing := observer.Facing()
		var targets []Target
		for _, other := range s.names {
			if other == name {
				continue
			}
			target := s.robots[other]
			if !geometry.InSector(observer.body.Position, facing, target.body.Position, s.rules.ScanRange, s.rules.ScanAngle) {
				continue
			}
			offset := target.body.Position.Sub(observer.body.Position)
			targets = append(targets, Target{
				Name:        target.name,
				Position:    target.body.Position,
				Rotation:    target.body.Rotation,
				TurretAngle: target.turretAngle,
				Health:      target.health,
				Distance:    offset.Magnitude(),
				Bearing:     geometry.AngDiff(offset.Angle(), facing),
			})
		}
		observer.setScanTargets(targets)
	}
}

func (s *Simulation) movePhase() {
	for _, name := range s.names {
		r := s.robots[name]
		action := r.agent.Decide(r.view(s.tick))
		if r.applyAction(action) {
			s.projectiles = append(s.projectiles, newProjectile(name, s.rules, r.body.Position, r.Facing()))
		}
	}
}

// collisionPhase checks every ordered pair, so a robot overlapping two
// others is damaged twice in the same tick.
func (s *Simulation) collisionPhase() {
	s.worklist = s.worklist[:0]
	for _, a := range s.names {
		bodyA := s.robots[a].body
		for _, b := range s.names {
			if a == b {
				continue
			}
			if geometry.Collides(bodyA, s.robots[b].body) {
				s.worklist = append(s.worklist, a)
			}
		}
	}
	for _, name := range s.worklist {
		s.robots[name].onCollision()
	}
}

func (s *Simulation) boundaryPhase() {
	for _, name := range s.names {
		r := s.robots[name]
		if !r.body.Position.Inside(s.rules.ArenaWidth, s.rules.ArenaHeight) {
			r.onCollision()
		}
	}
}

// projectilePhase moves every projectile; the first live robot other than
// its owner that it touches takes the shot damage. Robots already at zero
// health wait for the cull and do not stop shots.
func (s *Simulation) projectilePhase() error {
	var errs []error
	kept := s.projectiles[:0]
	for _, p := range s.projectiles {
		swept := p.advance(s.rules.TimeStep)
		victim := s.firstStruck(p.owner, swept)
		if victim != nil {
			damage := victim.takeDamage(s.rules.ShotDamage)
			if err := s.hit.Emit(Hit{Attacker: p.owner, Victim: victim.name, Damage: damage, Tick: s.tick}); err != nil {
				errs = append(errs, fmt.Errorf("hit %s -> %s: %w", p.owner, victim.name, err))
			}
			continue
		}
		if p.body.Position.Inside(s.rules.ArenaWidth, s.rules.ArenaHeight) {
			kept = append(kept, p)
		}
	}
	clear(s.projectiles[len(kept):])
	s.projectiles = kept
	return errors.Join(errs...)
}

func (s *Simulation) firstStruck(owner string, swept geometry.Rectangle) *Robot {
	for _, name := range s.names {
		if name == owner {
			continue
		}
		if r := s.robots[name]; r.health > 0 && geometry.Collides(swept, r.body) {
			return r
		}
	}
	return nil
}

// cullPhase emits a death for every robot without health and removes it.
// A failing listener does not keep a dead robot in the roster.
func (s *Simulation) cullPhase() error {
	s.scratch = s.scratch[:0]
	for _, name := range s.names {
		if s.robots[name].health <= 0 {
			s.scratch = append(s.scratch, name)
		}
	}

	var errs []error
	for _, name := range s.scratch {
		if err := s.death.Emit(Death{Name: name, Tick: s.tick}); err != nil {
			errs = append(errs, fmt.Errorf("death %s: %w", name, err))
		}
		s.unregister(name)
		s.log.Info("robot destroyed",
			log.String("robot", name),
			log.Uint64("tick", s.tick),
			log.Int("remaining", len(s.names)),
		)
	}
	return errors.Join(errs...)
}
