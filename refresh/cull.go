// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/bsp"
	"q3front/cvars"
	"q3front/math/vec"
	"q3front/shader"
)

type CullResult int

const (
	CullIn CullResult = iota
	CullClip
	CullOut
)

// CullBox tests a world space box against the side planes of the frustum.
func (tr *Renderer) CullBox(mins, maxs vec.Vec3) CullResult {
	if cvars.RNoCull.Bool() {
		return CullClip
	}
	anyBack := false
	for i := 0; i < 4; i++ {
		switch tr.viewParms.Frustum[i].BoxOnPlaneSide(mins, maxs) {
		case 2:
			return CullOut
		case 3:
			anyBack = true
		}
	}
	if !anyBack {
		return CullIn
	}
	return CullClip
}

// CullLocalBox tests a box given in the current entity's space.
func (tr *Renderer) CullLocalBox(bounds [2]vec.Vec3) CullResult {
	if cvars.RNoCull.Bool() {
		return CullClip
	}
	if tr.currentEntityNum == RefEntityNumWorld {
		return tr.CullBox(bounds[0], bounds[1])
	}

	var corners [8]vec.Vec3
	for i := range corners {
		v := vec.Vec3{bounds[i&1][0], bounds[(i>>1)&1][1], bounds[(i>>2)&1][2]}
		corners[i] = tr.LocalPointToWorld(v)
	}

	anyBack := false
	for i := 0; i < 4; i++ {
		frust := &tr.viewParms.Frustum[i]
		front, back := false, false
		for _, c := range corners {
			if frust.Distance(c) > 0 {
				front = true
				if back {
					break
				}
			} else {
				back = true
			}
		}
		if !front {
			// all points were behind one of the planes
			return CullOut
		}
		if back {
			anyBack = true
		}
	}
	if !anyBack {
		return CullIn
	}
	return CullClip
}

// CullPointAndRadius tests a world space sphere against the side planes
// of the frustum.
func (tr *Renderer) CullPointAndRadius(p vec.Vec3, radius float32) CullResult {
	if cvars.RNoCull.Bool() {
		return CullClip
	}
	clipped := false
	for i := 0; i < 4; i++ {
		d := tr.viewParms.Frustum[i].Distance(p)
		if d < -radius {
			return CullOut
		}
		if d <= radius {
			clipped = true
		}
	}
	if clipped {
		return CullClip
	}
	return CullIn
}

// CullLocalPointAndRadius tests a sphere given in the current entity's space.
func (tr *Renderer) CullLocalPointAndRadius(p vec.Vec3, radius float32) CullResult {
	return tr.CullPointAndRadius(tr.LocalPointToWorld(p), radius)
}

// cullSurface reports whether a world or brush model surface can be
// skipped in the current view.
func (tr *Renderer) cullSurface(surf *bsp.Surface) bool {
	if _, ok := surf.Data.(*bsp.Grid); ok && cvars.RNoCurves.Bool() {
		return true
	}
	if cvars.RNoCull.Bool() {
		return false
	}
	switch d := surf.Data.(type) {
	case *bsp.Grid:
		return tr.cullGrid(d)
	case *bsp.Triangles:
		return tr.CullLocalBox(d.Bounds) == CullOut
	case *bsp.Face:
		return tr.cullFace(d, surf.Shader)
	}
	return false
}

func (tr *Renderer) cullFace(f *bsp.Face, sh *shader.Shader) bool {
	if !cvars.RFacePlaneCull.Bool() || sh.CullType == shader.CullTwoSided {
		return false
	}
	d := vec.Dot(tr.ort.ViewOrigin, f.Plane.Normal)
	// an epsilon avoids pixel gaps from rounding at faces seen edge on
	eps := cvars.RFacePlaneEpsilon.Value()
	if sh.CullType == shader.CullFrontSided {
		if d < f.Plane.Dist-eps {
			return true
		}
	} else {
		if d > f.Plane.Dist+eps {
			return true
		}
	}
	return false
}

func (tr *Renderer) cullGrid(g *bsp.Grid) bool {
	var sphere CullResult
	if tr.currentEntityNum != RefEntityNumWorld {
		sphere = tr.CullLocalPointAndRadius(g.LocalOrigin, g.MeshRadius)
	} else {
		sphere = tr.CullPointAndRadius(g.LocalOrigin, g.MeshRadius)
	}
	switch sphere {
	case CullOut:
		tr.pc.SphereCullPatchOut++
		return true
	case CullIn:
		tr.pc.SphereCullPatchIn++
		return false
	}
	tr.pc.SphereCullPatchClip++
	switch tr.CullLocalBox(g.MeshBounds) {
	case CullOut:
		tr.pc.BoxCullPatchOut++
		return true
	case CullIn:
		tr.pc.BoxCullPatchIn++
	default:
		tr.pc.BoxCullPatchClip++
	}
	return false
}
