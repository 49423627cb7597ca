package geometry

import "math"

// AMod is a modulo whose result takes the sign of the divisor,
// unlike math.Mod which follows the dividend.
func AMod(a, n float64) float64 {
	return a - math.Floor(a/n)*n
}

// AngDiff returns a-b normalized into [-pi, pi).
func AngDiff(a, b float64) float64 {
	return AMod(a-b+math.Pi, 2*math.Pi) - math.Pi
}

// Wrap normalizes an angle into (-pi, pi].
func Wrap(a float64) float64 {
	w := AngDiff(a, 0)
	if w == -math.Pi {
		return math.Pi
	}
	return w
}

func Radians(degrees float64) float64 { return degrees * math.Pi / 180 }
func Degrees(radians float64) float64 { return radians * 180 / math.Pi }

// InSector reports whether target lies strictly inside the scan cone of an
// observer at position facing the given direction. scanAngle is the full
// cone width.
func InSector(observer Vector, facing float64, target Vector, scanRange, scanAngle float64) bool {
	v := target.Sub(observer)
	if !(v.Magnitude() < scanRange) {
		return false
	}
	beta := AngDiff(v.Angle(), facing)
	return -scanAngle/2 < beta && beta < scanAngle/2
}
