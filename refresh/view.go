// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"q3front/bsp"
	"q3front/cvars"
	"q3front/glh"
	"q3front/math/vec"
)

type PortalView int

const (
	PortalViewNone PortalView = iota
	PortalViewMirror
	PortalViewPortal
)

func (p PortalView) String() string {
	switch p {
	case PortalViewNone:
		return "none"
	case PortalViewMirror:
		return "mirror"
	case PortalViewPortal:
		return "portal"
	}
	return fmt.Sprintf("PortalView(%d)", int(p))
}

type StereoFrame int

const (
	StereoCenter StereoFrame = iota
	StereoLeft
	StereoRight
)

func (s StereoFrame) String() string {
	switch s {
	case StereoCenter:
		return "center"
	case StereoLeft:
		return "left"
	case StereoRight:
		return "right"
	}
	return fmt.Sprintf("StereoFrame(%d)", int(s))
}

// Orientation places an entity or the viewer in the world.
type Orientation struct {
	Origin vec.Vec3
	Axis   [3]vec.Vec3
	// ViewOrigin is the viewer position in local coordinates.
	ViewOrigin  vec.Vec3
	ModelMatrix mgl32.Mat4
}

// ViewParms describes one view: the primary camera of a scene or a
// mirror or portal view derived from it.
type ViewParms struct {
	// Ort is the camera, World the orientation of world geometry.
	Ort   Orientation
	World Orientation

	PVSOrigin   vec.Vec3
	PortalView  PortalView
	PortalPlane bsp.Plane

	ViewportX, ViewportY          int
	ViewportWidth, ViewportHeight int
	ScissorX, ScissorY            int
	ScissorWidth, ScissorHeight   int

	FovX, FovY       float32
	ProjectionMatrix mgl32.Mat4
	// Frustum holds the right, left, bottom, top and near planes.
	Frustum   [5]bsp.Plane
	VisBounds [2]vec.Vec3
	ZFar      float32

	StereoFrame   StereoFrame
	FrameSceneNum int
	FrameCount    int

	// FirstDlight and NumDlights select the lights of this view from
	// the frame's Dlights.
	FirstDlight int
	NumDlights  int
}

// RenderView renders one view: the world and entities of the current
// scene are culled, collected and sorted, and a draw command is emitted.
// Mirrors and portals seen in the view are rendered first as views of
// their own.
func (tr *Renderer) RenderView(parms *ViewParms) {
	if parms.ViewportWidth <= 0 || parms.ViewportHeight <= 0 {
		return
	}
	tr.viewCount++
	tr.pc.Views++

	tr.viewParms = *parms
	tr.viewParms.FrameSceneNum = tr.frameSceneNum
	tr.viewParms.FrameCount = tr.frameCount

	first := tr.frame().DrawSurfs.Len()

	dls := tr.viewDlights()
	for i := range dls {
		dls[i].Head, dls[i].Tail = nil, nil
	}

	tr.rotateForViewer()
	tr.setupProjection(&tr.viewParms, cvars.RZProj.Value(), true)

	tr.generateDrawSurfs()

	tr.sortDrawSurfs(first, tr.frame().DrawSurfs.Len()-first)
}

func (tr *Renderer) generateDrawSurfs() {
	tr.addWorldSurfaces()
	tr.addPolygonSurfaces()

	// the far clip distance depends on what the world pass saw, so the
	// depth part of the projection is only set up now
	tr.setFarClip()
	tr.setupProjectionZ(&tr.viewParms)

	tr.addEntitySurfaces()
}

// rotateForViewer sets up the world orientation for the current view.
func (tr *Renderer) rotateForViewer() {
	vp := &tr.viewParms
	tr.ort = Orientation{
		Axis:       vec.IdentityAxis,
		ViewOrigin: vp.Ort.Origin,
	}
	viewer := glh.ViewerMatrix(vp.Ort.Origin, vp.Ort.Axis)
	tr.ort.ModelMatrix = glh.Multiply(viewer, glh.FlipMatrix)
	vp.World = tr.ort
}

// setupProjection sets up the x and y part of the projection and,
// if computeFrustum is set, the frustum planes.
func (tr *Renderer) setupProjection(dest *ViewParms, zProj float32, computeFrustum bool) {
	var stereoSep float32
	if sep := cvars.RStereoSeparation.Value(); sep != 0 {
		switch dest.StereoFrame {
		case StereoLeft:
			stereoSep = zProj / sep
		case StereoRight:
			stereoSep = -zProj / sep
		}
	}

	ymax := zProj * math32.Tan(dest.FovY*math32.Pi/360)
	ymin := -ymax
	xmax := zProj * math32.Tan(dest.FovX*math32.Pi/360)
	xmin := -xmax

	width := xmax - xmin
	height := ymax - ymin

	m := &dest.ProjectionMatrix
	m[0] = 2 * zProj / width
	m[4] = 0
	m[8] = (xmax + xmin + 2*stereoSep) / width
	m[12] = 2 * zProj * stereoSep / width

	m[1] = 0
	m[5] = 2 * zProj / height
	m[9] = (ymax + ymin) / height
	m[13] = 0

	m[3] = 0
	m[7] = 0
	m[11] = -1
	m[15] = 0

	if computeFrustum {
		tr.setupFrustum(dest, xmin, xmax, ymax, zProj, stereoSep)
	}
}

// setupFrustum derives the side planes from the projection so they
// match it exactly, also for asymmetric stereo frusta.
func (tr *Renderer) setupFrustum(dest *ViewParms, xmin, xmax, ymax, zProj, stereoSep float32) {
	axis := &dest.Ort.Axis
	ofsOrigin := dest.Ort.Origin
	if stereoSep == 0 && xmin == -xmax {
		// symmetric case
		length := math32.Sqrt(xmax*xmax + zProj*zProj)
		oppleg := xmax / length
		adjleg := zProj / length

		dest.Frustum[0].Normal = vec.MA(axis[0].Scale(oppleg), adjleg, axis[1])
		dest.Frustum[1].Normal = vec.MA(axis[0].Scale(oppleg), -adjleg, axis[1])
	} else {
		// the tip of the pyramid is offset to the eye
		ofsOrigin = vec.MA(dest.Ort.Origin, stereoSep, axis[1])
		oppleg := xmax + stereoSep
		length := math32.Sqrt(oppleg*oppleg + zProj*zProj)
		dest.Frustum[0].Normal = vec.MA(axis[0].Scale(oppleg/length), zProj/length, axis[1])

		oppleg = xmin + stereoSep
		length = math32.Sqrt(oppleg*oppleg + zProj*zProj)
		dest.Frustum[1].Normal = vec.MA(axis[0].Scale(-oppleg/length), -zProj/length, axis[1])
	}

	length := math32.Sqrt(ymax*ymax + zProj*zProj)
	oppleg := ymax / length
	adjleg := zProj / length

	dest.Frustum[2].Normal = vec.MA(axis[0].Scale(oppleg), adjleg, axis[2])
	dest.Frustum[3].Normal = vec.MA(axis[0].Scale(oppleg), -adjleg, axis[2])

	for i := 0; i < 4; i++ {
		dest.Frustum[i].Dist = vec.Dot(ofsOrigin, dest.Frustum[i].Normal)
	}

	// near clipping plane
	dest.Frustum[4].Normal = axis[0]
	dest.Frustum[4].Dist = vec.Dot(ofsOrigin, axis[0]) + cvars.RZNear.Value()

	for i := range dest.Frustum {
		dest.Frustum[i].Type = bsp.PlaneNonAxial
		dest.Frustum[i].SetSignBits()
	}
}

// setFarClip puts the far plane behind the farthest corner of the
// visible world bounds.
func (tr *Renderer) setFarClip() {
	vp := &tr.viewParms
	if tr.refdef.rdFlags&RDFNoWorldModel != 0 {
		vp.ZFar = 2048
		return
	}
	var farthest float32
	for i := 0; i < 8; i++ {
		var v vec.Vec3
		for j := 0; j < 3; j++ {
			if i&(1<<j) != 0 {
				v[j] = vp.VisBounds[0][j]
			} else {
				v[j] = vp.VisBounds[1][j]
			}
		}
		if d := vec.Sub(v, vp.Ort.Origin).LengthSquared(); d > farthest {
			farthest = d
		}
	}
	vp.ZFar = math32.Sqrt(farthest)
}

// setupProjectionZ sets up the depth part of the projection. Portal
// views get an oblique near plane lying in the portal plane, so nothing
// between the camera and the portal is drawn.
func (tr *Renderer) setupProjectionZ(dest *ViewParms) {
	zNear := cvars.RZNear.Value()
	zFar := dest.ZFar
	depth := zFar - zNear

	m := &dest.ProjectionMatrix
	m[2] = 0
	m[6] = 0
	m[10] = -(zFar + zNear) / depth
	m[14] = -2 * zFar * zNear / depth

	if dest.PortalView == PortalViewNone {
		return
	}

	// transform the portal plane into eye space
	pn := dest.PortalPlane.Normal
	axis := &dest.Ort.Axis
	plane := vec.Vec4{
		-vec.Dot(axis[1], pn),
		vec.Dot(axis[2], pn),
		-vec.Dot(axis[0], pn),
		vec.Dot(pn, dest.Ort.Origin) - dest.PortalPlane.Dist,
	}

	// Lengyel, "Modifying the Projection Matrix to Perform Oblique
	// Near-plane Clipping"
	q := vec.Vec4{
		(sign(plane[0]) + m[8]) / m[0],
		(sign(plane[1]) + m[9]) / m[5],
		-1,
		(1 + m[10]) / m[14],
	}
	d := 2 / vec.Dot4(plane, q)

	m[2] = plane[0] * d
	m[6] = plane[1] * d
	m[10] = plane[2]*d + 1
	m[14] = plane[3] * d
}

func sign(f float32) float32 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// RotateForEntity computes the orientation of ent as seen from the
// view described by vp.
func RotateForEntity(ent *RefEntity, vp *ViewParms) Orientation {
	if ent.Type != RTModel {
		return vp.World
	}
	ort := Orientation{
		Origin: ent.Origin,
		Axis:   ent.Axis,
	}
	ort.ModelMatrix = glh.Multiply(glh.LocalMatrix(ort.Origin, ort.Axis), vp.World.ModelMatrix)

	// the viewer origin in entity space
	delta := vec.Sub(vp.Ort.Origin, ort.Origin)
	// compensate for scale in the axes if necessary
	axisLength := float32(1)
	if ent.NonNormalizedAxes {
		axisLength = 0
		if l := ent.Axis[0].Length(); l != 0 {
			axisLength = 1 / l
		}
	}
	for i := 0; i < 3; i++ {
		ort.ViewOrigin[i] = vec.Dot(delta, ort.Axis[i]) * axisLength
	}
	return ort
}

// LocalPointToWorld transforms p from the current entity's space.
func (tr *Renderer) LocalPointToWorld(p vec.Vec3) vec.Vec3 {
	return vec.Add(tr.LocalNormalToWorld(p), tr.ort.Origin)
}

func (tr *Renderer) LocalNormalToWorld(n vec.Vec3) vec.Vec3 {
	a := &tr.ort.Axis
	return vec.Vec3{
		n[0]*a[0][0] + n[1]*a[1][0] + n[2]*a[2][0],
		n[0]*a[0][1] + n[1]*a[1][1] + n[2]*a[2][1],
		n[0]*a[0][2] + n[1]*a[1][2] + n[2]*a[2][2],
	}
}

// WorldToLocal transforms p into the current entity's space.
func (tr *Renderer) WorldToLocal(p vec.Vec3) vec.Vec3 {
	return vec.Vec3{
		vec.Dot(p, tr.ort.Axis[0]),
		vec.Dot(p, tr.ort.Axis[1]),
		vec.Dot(p, tr.ort.Axis[2]),
	}
}
