// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"q3front/math/vec"
)

const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneNonAxial
)

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte
	SignBits byte
}

// NewPlane returns a plane with Type and SignBits filled in.
func NewPlane(normal vec.Vec3, dist float32) Plane {
	p := Plane{Normal: normal, Dist: dist}
	p.Type = PlaneTypeForNormal(normal)
	p.SetSignBits()
	return p
}

func PlaneTypeForNormal(n vec.Vec3) byte {
	switch {
	case n[0] == 1:
		return PlaneX
	case n[1] == 1:
		return PlaneY
	case n[2] == 1:
		return PlaneZ
	}
	return PlaneNonAxial
}

// SetSignBits stores which normal components are negative, bit i for axis i.
func (p *Plane) SetSignBits() {
	var bits byte
	for i := 0; i < 3; i++ {
		if p.Normal[i] < 0 {
			bits |= 1 << i
		}
	}
	p.SignBits = bits
}

// Distance returns the signed distance of pt to the plane.
func (p *Plane) Distance(pt vec.Vec3) float32 {
	return vec.Dot(pt, p.Normal) - p.Dist
}

// BoxOnPlaneSide returns 1 if the box is in front of the plane, 2 if it is
// behind and 3 if it crosses it.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Type < 3 {
		if p.Dist <= mins[int(p.Type)] {
			return 1
		}
		if p.Dist >= maxs[int(p.Type)] {
			return 2
		}
		return 3
	}
	// d1 uses the corner furthest along the normal, d2 the nearest one
	var d1, d2 float32
	n := p.Normal
	for i := 0; i < 3; i++ {
		if p.SignBits&(1<<i) != 0 {
			d1 += n[i] * mins[i]
			d2 += n[i] * maxs[i]
		} else {
			d1 += n[i] * maxs[i]
			d2 += n[i] * mins[i]
		}
	}
	sides := 0
	if d1 >= p.Dist {
		sides = 1
	}
	if d2 < p.Dist {
		sides |= 2
	}
	return sides
}
