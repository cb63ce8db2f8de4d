// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 [3]float32

type Vec4 [4]float32

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// LengthSquared returns the squared length of the vector
func (v Vec3) LengthSquared() float32 {
	return Dot(v, v)
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		a[0] + b[0],
		a[1] + b[1],
		a[2] + b[2],
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		a[0] - b[0],
		a[1] - b[1],
		a[2] - b[2],
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		v[0] * s,
		v[1] * s,
		v[2] * s,
	}
}

// Negate returns -v
func (v Vec3) Negate() Vec3 {
	return Vec3{-v[0], -v[1], -v[2]}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// MA returns a + s*b
func MA(a Vec3, s float32, b Vec3) Vec3 {
	return Vec3{
		a[0] + s*b[0],
		a[1] + s*b[1],
		a[2] + s*b[2],
	}
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Dot4 returns a dot b
func Dot4(a, b Vec4) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Lerp computes a weighted average between two points
func Lerp(a, b Vec3, frac float32) Vec3 {
	fi := 1 - frac
	return Vec3{
		fi*a[0] + frac*b[0],
		fi*a[1] + frac*b[1],
		fi*a[2] + frac*b[2],
	}
}

func minmax(a, b float32) (float32, float32) {
	if a < b {
		return a, b
	}
	return b, a
}

func MinMax(a, b Vec3) (Vec3, Vec3) {
	var r, s Vec3
	r[0], s[0] = minmax(a[0], b[0])
	r[1], s[1] = minmax(a[1], b[1])
	r[2], s[2] = minmax(a[2], b[2])
	return r, s
}

// ClearBounds returns an inverted box that any AddPointToBounds call
// will replace.
func ClearBounds() (mins, maxs Vec3) {
	return Vec3{99999, 99999, 99999}, Vec3{-99999, -99999, -99999}
}

// AddPointToBounds grows mins/maxs so that they contain p.
func AddPointToBounds(p Vec3, mins, maxs *Vec3) {
	for i := 0; i < 3; i++ {
		if p[i] < mins[i] {
			mins[i] = p[i]
		}
		if p[i] > maxs[i] {
			maxs[i] = p[i]
		}
	}
}

// Perpendicular returns a unit vector perpendicular to the unit vector src.
func Perpendicular(src Vec3) Vec3 {
	pos := 0
	minelem := float32(1)
	for i := 0; i < 3; i++ {
		if a := math32.Abs(src[i]); a < minelem {
			pos = i
			minelem = a
		}
	}
	var tmp Vec3
	tmp[pos] = 1
	return ProjectPointOnPlane(tmp, src).Normalize()
}

// ProjectPointOnPlane projects p onto the plane through the origin with the given normal.
func ProjectPointOnPlane(p, normal Vec3) Vec3 {
	invDenom := 1 / Dot(normal, normal)
	d := Dot(normal, p) * invDenom
	n := normal.Scale(invDenom)
	return MA(p, -d, n)
}

// RotatePointAroundVector rotates point by degrees counterclockwise around dir.
func RotatePointAroundVector(dir, point Vec3, degrees float32) Vec3 {
	k := dir.Normalize()
	s, c := math32.Sincos(degrees * (math32.Pi / 180))
	kxp := Cross(k, point)
	kdp := Dot(k, point)
	return Vec3{
		point[0]*c + kxp[0]*s + k[0]*kdp*(1-c),
		point[1]*c + kxp[1]*s + k[1]*kdp*(1-c),
		point[2]*c + kxp[2]*s + k[2]*kdp*(1-c),
	}
}

// PlaneFromPoints returns the plane through a, b and c. ok is false for
// degenerate triangles.
func PlaneFromPoints(a, b, c Vec3) (normal Vec3, dist float32, ok bool) {
	d1 := Sub(b, a)
	d2 := Sub(c, a)
	n := Cross(d2, d1)
	if n.Length() == 0 {
		return Vec3{}, 0, false
	}
	normal = n.Normalize()
	return normal, Dot(a, normal), true
}

func AngleVectors(angles Vec3) (forward, right, up Vec3) {
	deg := math32.Pi * 2 / 360
	sp, cp := math32.Sincos(angles[0] * deg) // PITCH
	sy, cy := math32.Sincos(angles[1] * deg) // YAW
	sr, cr := math32.Sincos(angles[2] * deg) // ROLL

	forward = Vec3{cp * cy, cp * sy, -sp}
	right = Vec3{
		(-1*sr*sp*cy + -1*cr*-sy),
		(-1*sr*sp*sy + -1*cr*cy),
		-1 * sr * cp,
	}
	up = Vec3{
		(cr*sp*cy + -sr*-sy),
		(cr*sp*sy + -sr*cy),
		cr * cp,
	}
	return
}

// AnglesToAxis returns forward, left and up as used for view and entity axes.
func AnglesToAxis(angles Vec3) [3]Vec3 {
	f, r, u := AngleVectors(angles)
	return [3]Vec3{f, r.Negate(), u}
}

// IdentityAxis is the unrotated axis set.
var IdentityAxis = [3]Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
