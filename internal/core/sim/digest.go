package sim

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Digest fingerprints the roster and the projectiles in flight. Two
// simulations that were seeded and driven identically have equal digests
// after every tick.
func (s *Simulation) Digest() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 128)

	buf = binary.LittleEndian.AppendUint64(buf, s.tick)
	_, _ = d.Write(buf)

	for _, name := range s.names {
		r := s.robots[name]
		buf = buf[:0]
		buf = append(buf, name...)
		buf = append(buf, 0)
		buf = appendFloats(buf,
			r.body.Position.X, r.body.Position.Y, r.body.Rotation,
			r.turretAngle, r.health, r.cooldown, r.v, r.w, r.turretRate,
		)
		_, _ = d.Write(buf)
	}

	for _, p := range s.projectiles {
		buf = buf[:0]
		buf = append(buf, p.owner...)
		buf = append(buf, 0)
		buf = appendFloats(buf, p.body.Position.X, p.body.Position.Y, p.body.Rotation)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

func appendFloats(buf []byte, values ...float64) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return buf
}
