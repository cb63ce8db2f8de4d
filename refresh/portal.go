// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"github.com/chewxy/math32"

	"q3front/bsp"
	"q3front/conlog"
	"q3front/cvars"
	"q3front/glh"
	"q3front/math"
	"q3front/math/vec"
)

// portalOrientation is the frame of a portal surface or of the camera
// looking out of the other end.
type portalOrientation struct {
	origin vec.Vec3
	axis   [3]vec.Vec3
}

// mirrorViewBySurface renders the view seen through a portal or mirror
// surface and reports whether it did. Portal views never nest.
func (tr *Renderer) mirrorViewBySurface(ds *DrawSurf, entityNum int) bool {
	// don't recursively mirror
	if tr.viewParms.PortalView != PortalViewNone {
		tr.pc.PortalsRefused++
		conlog.DPrintf("WARNING: recursive mirror/portal found")
		return false
	}
	if cvars.RNoPortals.Int() > 1 {
		return false
	}

	// save old viewParms so we can return to it after the mirror view
	oldParms := tr.viewParms
	oldOrt := tr.ort
	oldEntityNum := tr.currentEntityNum
	oldEntity := tr.currentEntity
	oldShifted := tr.shiftedEntityNum
	defer func() {
		tr.viewParms = oldParms
		tr.ort = oldOrt
		tr.currentEntityNum = oldEntityNum
		tr.currentEntity = oldEntity
		tr.shiftedEntityNum = oldShifted
	}()

	// trivially reject portal/mirror
	offscreen, verts := tr.surfIsOffscreen(ds, entityNum)
	if offscreen {
		return false
	}

	newParms := tr.viewParms
	newParms.PortalView = PortalViewNone

	surface, camera, pvsOrigin, view, ok := tr.portalOrientations(ds, entityNum)
	if !ok {
		// bad portal, no portal entity
		return false
	}
	if view != PortalViewMirror && cvars.RNoPortals.Bool() {
		return false
	}
	newParms.PVSOrigin = pvsOrigin
	newParms.PortalView = view

	if cvars.RPortalScissor.Bool() && len(verts) > 2 {
		mins, maxs := tr.modelViewBounds(verts)
		newParms.ScissorX = newParms.ViewportX + mins[0]
		newParms.ScissorY = newParms.ViewportY + mins[1]
		newParms.ScissorWidth = maxs[0] - mins[0]
		newParms.ScissorHeight = maxs[1] - mins[1]
	}

	newParms.Ort.Origin = mirrorPoint(oldParms.Ort.Origin, &surface, &camera)
	newParms.PortalPlane = bsp.NewPlane(camera.axis[0].Negate(), 0)
	newParms.PortalPlane.Dist = vec.Dot(camera.origin, newParms.PortalPlane.Normal)
	for i := 0; i < 3; i++ {
		newParms.Ort.Axis[i] = mirrorVector(oldParms.Ort.Axis[i], &surface, &camera)
	}

	// the nested view works on its own copy of the lights, without room
	// it renders unlit so the lists of this view are kept
	f := tr.frame()
	if len(f.Dlights)+oldParms.NumDlights <= cap(f.Dlights) {
		newParms.FirstDlight = len(f.Dlights)
		f.Dlights = append(f.Dlights, f.Dlights[oldParms.FirstDlight:oldParms.FirstDlight+oldParms.NumDlights]...)
	} else {
		tr.pc.DlightsDropped += oldParms.NumDlights
		newParms.NumDlights = 0
	}

	tr.pc.PortalViews++
	tr.RenderView(&newParms)
	return true
}

// surfIsOffscreen reports whether the portal surface can be skipped: it
// is outside the view, facing away or out of range. It also returns the
// surface vertices for scissoring.
func (tr *Renderer) surfIsOffscreen(ds *DrawSurf, entityNum int) (bool, []bsp.Vertex) {
	tr.rotateForViewer()

	verts, indexes := bsp.Tessellate(ds.Surface)
	shaderIndex, _, _, _, _ := DecomposeSort(ds.Sort)
	sh := tr.shaders.BySortedIndex(shaderIndex)

	pointAnd := ^uint32(0)
	for _, v := range verts {
		_, clip := glh.TransformModelToClip(v.XYZ, tr.ort.ModelMatrix, tr.viewParms.ProjectionMatrix)
		var pointFlags uint32
		for j := 0; j < 3; j++ {
			if clip[j] >= clip[3] {
				pointFlags |= 1 << (j * 2)
			} else if clip[j] <= -clip[3] {
				pointFlags |= 1 << (j*2 + 1)
			}
		}
		pointAnd &= pointFlags
	}
	// trivially reject
	if pointAnd != 0 {
		return true, verts
	}

	// Determine if this surface is backfaced and also determine the
	// distance to the nearest vertex so we can cull based on portal range.
	shortest := float32(100000000)
	numTriangles := len(indexes) / 3
	for i := 0; i+2 < len(indexes); i += 3 {
		v := verts[indexes[i]]
		normal := vec.Sub(v.XYZ, tr.viewParms.Ort.Origin)
		if l := normal.LengthSquared(); l < shortest {
			shortest = l
		}
		if vec.Dot(normal, v.Normal) >= 0 {
			numTriangles--
		}
	}
	if numTriangles == 0 {
		return true, verts
	}

	// mirrors are not faded over distance
	if tr.isMirror(ds, entityNum) {
		return false, verts
	}

	if shortest > sh.PortalRange*sh.PortalRange {
		return true, verts
	}
	return false, verts
}

// portalEntity locates the portal entity closest to the plane of the
// surface. It returns the plane in world space and the untransformed
// plane moved to the entity origin.
func (tr *Renderer) portalEntity(ds *DrawSurf, entityNum int) (ent *RefEntity, plane, original bsp.Plane) {
	original = bsp.PlaneForSurface(ds.Surface)

	// rotate the plane if necessary
	if entityNum != RefEntityNumWorld {
		tr.currentEntityNum = entityNum
		tr.currentEntity = &tr.refdef.entities[entityNum]
		tr.ort = RotateForEntity(tr.currentEntity, &tr.viewParms)

		// rotate the plane, but keep the non-rotated version for
		// matching against the portal entity
		n := tr.LocalNormalToWorld(original.Normal)
		plane = bsp.NewPlane(n, original.Dist+vec.Dot(n, tr.ort.Origin))
		original.Dist += vec.Dot(original.Normal, tr.ort.Origin)
	} else {
		plane = original
	}

	tolerance := cvars.RPortalTolerance.Value()
	for i := range tr.refdef.entities {
		e := &tr.refdef.entities[i]
		if e.Type != RTPortalSurface {
			continue
		}
		d := original.Distance(e.Origin)
		if d > tolerance || d < -tolerance {
			continue
		}
		return e, plane, original
	}
	return nil, plane, original
}

func (tr *Renderer) isMirror(ds *DrawSurf, entityNum int) bool {
	e, _, _ := tr.portalEntity(ds, entityNum)
	return e != nil && e.OldOrigin == e.Origin
}

// portalOrientations computes the frames of the portal surface and of
// the camera. Without a matching portal entity nothing is rendered.
func (tr *Renderer) portalOrientations(ds *DrawSurf, entityNum int) (surface, camera portalOrientation, pvsOrigin vec.Vec3, view PortalView, ok bool) {
	e, plane, _ := tr.portalEntity(ds, entityNum)
	if e == nil {
		return surface, camera, pvsOrigin, PortalViewNone, false
	}

	surface.axis[0] = plane.Normal
	surface.axis[1] = vec.Perpendicular(surface.axis[0])
	surface.axis[2] = vec.Cross(surface.axis[0], surface.axis[1])

	pvsOrigin = e.OldOrigin

	// a portal entity without a separate camera point is a mirror
	if e.OldOrigin == e.Origin {
		surface.origin = plane.Normal.Scale(plane.Dist)
		camera.origin = surface.origin
		camera.axis[0] = surface.axis[0].Negate()
		camera.axis[1] = surface.axis[1]
		camera.axis[2] = surface.axis[2]
		return surface, camera, pvsOrigin, PortalViewMirror, true
	}

	// project the origin onto the surface plane to get an origin point
	// we can rotate around
	d := plane.Distance(e.Origin)
	surface.origin = vec.MA(e.Origin, -d, surface.axis[0])

	camera.origin = e.OldOrigin
	camera.axis = e.Axis
	camera.axis[0] = camera.axis[0].Negate()
	camera.axis[1] = camera.axis[1].Negate()

	// optionally rotate
	var angle float32
	rotate := false
	switch {
	case e.OldFrame != 0 && e.Frame != 0:
		// continuous rotation
		angle = math.AngleMod32(float32(tr.refdef.time) / 1000 * float32(e.Frame))
		rotate = true
	case e.OldFrame != 0:
		// bobbing rotation, with skinNum being the rotation offset
		angle = float32(e.SkinNum) + math32.Sin(float32(tr.refdef.time)*0.003)*4
		rotate = true
	case e.SkinNum != 0:
		angle = float32(e.SkinNum)
		rotate = true
	}
	if rotate {
		camera.axis[1] = vec.RotatePointAroundVector(camera.axis[0], camera.axis[1], angle)
		camera.axis[2] = vec.Cross(camera.axis[0], camera.axis[1])
	}
	return surface, camera, pvsOrigin, PortalViewPortal, true
}

func mirrorPoint(in vec.Vec3, surface, camera *portalOrientation) vec.Vec3 {
	local := vec.Sub(in, surface.origin)
	var transformed vec.Vec3
	for i := 0; i < 3; i++ {
		d := vec.Dot(local, surface.axis[i])
		transformed = vec.MA(transformed, d, camera.axis[i])
	}
	return vec.Add(transformed, camera.origin)
}

func mirrorVector(in vec.Vec3, surface, camera *portalOrientation) vec.Vec3 {
	var out vec.Vec3
	for i := 0; i < 3; i++ {
		d := vec.Dot(in, surface.axis[i])
		out = vec.MA(out, d, camera.axis[i])
	}
	return out
}

// modelViewBounds returns the window space bounds of verts relative to
// the viewport, clamped to it. A vertex behind the viewer has no usable
// projection, it widens the bounds to the edges of the side planes it is
// outside of.
func (tr *Renderer) modelViewBounds(verts []bsp.Vertex) (mins, maxs [2]int) {
	minn := [2]float32{1, 1}
	maxn := [2]float32{-1, -1}
	fr := &tr.viewParms.Frustum
	for _, v := range verts {
		_, clip := glh.TransformModelToClip(v.XYZ, tr.ort.ModelMatrix, tr.viewParms.ProjectionMatrix)
		if clip[3] <= 0 {
			p := tr.LocalPointToWorld(v.XYZ)
			// right and left
			widenBehind(fr[0].Distance(p), fr[1].Distance(p), &maxn[0], 1, &minn[0], -1)
			// bottom and top
			widenBehind(fr[2].Distance(p), fr[3].Distance(p), &minn[1], -1, &maxn[1], 1)
			continue
		}
		normalized, _ := glh.TransformClipToWindow(clip, tr.viewParms.ViewportWidth, tr.viewParms.ViewportHeight)
		for j := 0; j < 2; j++ {
			n := math.ClampAbs(normalized[j], 1)
			if n < minn[j] {
				minn[j] = n
			}
			if n > maxn[j] {
				maxn[j] = n
			}
		}
	}
	w := float32(tr.viewParms.ViewportWidth)
	h := float32(tr.viewParms.ViewportHeight)
	mins[0] = int(-0.5 + 0.5*(1+minn[0])*w)
	mins[1] = int(-0.5 + 0.5*(1+minn[1])*h)
	maxs[0] = int(0.5 + 0.5*(1+maxn[0])*w)
	maxs[1] = int(0.5 + 0.5*(1+maxn[1])*h)
	mins[0] = math.Clamp(0, mins[0], tr.viewParms.ViewportWidth)
	mins[1] = math.Clamp(0, mins[1], tr.viewParms.ViewportHeight)
	maxs[0] = math.Clamp(0, maxs[0], tr.viewParms.ViewportWidth)
	maxs[1] = math.Clamp(0, maxs[1], tr.viewParms.ViewportHeight)
	return mins, maxs
}

// widenBehind sets *a to va if the point is outside plane a and *b to vb
// if it is outside plane b, given the distances da and db. Outside of
// both only the farther plane counts.
func widenBehind(da, db float32, a *float32, va float32, b *float32, vb float32) {
	if da <= 0 && db <= 0 {
		if da < db {
			*a = va
		} else {
			*b = vb
		}
		return
	}
	if da <= 0 {
		*a = va
	}
	if db <= 0 {
		*b = vb
	}
}
