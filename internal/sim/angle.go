package sim

import "math"

// Angle is an integer degree in [0, 360).
type Angle int16

// cosTable/sinTable hold the 360-entry precomputed lookup, in Q16.16. This
// is the one place floating point legitimately appears: a build-time table
// generation, never consulted again at runtime, mirroring the original's
// precomputed trig table.
var cosTable [360]Fixed
var sinTable [360]Fixed

func init() {
	for i := 0; i < 360; i++ {
		rad := float64(i) * math.Pi / 180.0
		cosTable[i] = Fixed(math.Round(math.Cos(rad) * 65536.0))
		sinTable[i] = Fixed(math.Round(math.Sin(rad) * 65536.0))
	}
}

// normalize wraps an angle into [0, 360).
func normalize(d int32) Angle {
	d %= 360
	if d < 0 {
		d += 360
	}
	return Angle(d)
}

// AddAngle adds k degrees to d, wrapping modulo 360.
func AddAngle(d Angle, k int32) Angle {
	return normalize(int32(d) + k)
}

// Cos returns the table cosine for angle a, in Q16.16. Never interpolated.
func Cos(a Angle) Fixed {
	return cosTable[normalize(int32(a))]
}

// Sin returns the table sine for angle a, in Q16.16. Never interpolated.
func Sin(a Angle) Fixed {
	return sinTable[normalize(int32(a))]
}

// AngleFromSlope derives the nearest table angle for a direction vector
// (h, v): it scans all 360 table entries, skips those pointing away from
// (h, v), and keeps the one with the smallest cross product against it.
// On equal error the lowest angle wins; both branches of the |h| >= |v|
// split scan the same way, so no tie-break toward the larger axis is
// applied.
func AngleFromSlope(h, v Fixed) Angle {
	if h == 0 && v == 0 {
		return 0
	}
	ah, av := AbsFixed(h), AbsFixed(v)
	best := Angle(0)
	bestErr := int64(-1)
	consider := func(a Angle) {
		ch, cv := Cos(a), Sin(a)
		// Compare direction via cross product magnitude (sin of angle
		// between), done in wide integer math to avoid overflow.
		cross := int64(ch)*int64(v) - int64(cv)*int64(h)
		if cross < 0 {
			cross = -cross
		}
		dot := int64(ch)*int64(h) + int64(cv)*int64(v)
		if dot < 0 {
			return
		}
		if bestErr < 0 || cross < bestErr {
			bestErr = cross
			best = a
		}
	}
	if ah >= av {
		for a := 0; a < 360; a++ {
			consider(Angle(a))
		}
	} else {
		for a := 0; a < 360; a++ {
			consider(Angle(a))
		}
	}
	return best
}

// RotPoint rotates a unit-scaled (h, v) point by angle a using the
// precomputed table, returning Q16.16 components.
func RotPoint(h, v Fixed, a Angle) (Fixed, Fixed) {
	c, s := Cos(a), Sin(a)
	rh := MulFixed(h, c) - MulFixed(v, s)
	rv := MulFixed(h, s) + MulFixed(v, c)
	return rh, rv
}

// UnitVector returns the Q16.16 unit vector for angle a.
func UnitVector(a Angle) (Fixed, Fixed) {
	return Cos(a), Sin(a)
}
