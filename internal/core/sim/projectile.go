package sim

import (
	"github.com/zeusync/arena/internal/core/geometry"
	"github.com/zeusync/arena/internal/core/rules"
)

// Projectile is a shot travelling in a straight line. It belongs to the
// robot that fired it, by name; the owner may be gone by the time it hits.
type Projectile struct {
	owner string
	body  geometry.Rectangle
	speed float64
}

func newProjectile(owner string, r *rules.Rules, position geometry.Vector, direction float64) *Projectile {
	return &Projectile{
		owner: owner,
		body:  geometry.NewRectangle(position, geometry.Vec(r.ProjectileLength, r.ProjectileWidth), direction),
		speed: r.ProjectileSpeed,
	}
}

func (p *Projectile) Owner() string             { return p.owner }
func (p *Projectile) Body() geometry.Rectangle  { return p.body }
func (p *Projectile) Position() geometry.Vector { return p.body.Position }
func (p *Projectile) Direction() float64        { return p.body.Rotation }

// advance moves the projectile one tick forward and returns the area swept
// between the old and the new position.
func (p *Projectile) advance(dt float64) geometry.Rectangle {
	travel := geometry.FromPolar(p.speed*dt, p.body.Rotation)
	from := p.body.Position
	p.body.Position = from.Add(travel)
	return geometry.NewRectangle(
		from.Add(travel.Scale(0.5)),
		geometry.Vec(p.body.Size.X+p.speed*dt, p.body.Size.Y),
		p.body.Rotation,
	)
}
