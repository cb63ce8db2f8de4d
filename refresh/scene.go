// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/chewxy/math32"

	"q3front/bsp"
	"q3front/conlog"
	"q3front/cvars"
	"q3front/math/vec"
)

// Render flags of a scene
const (
	// RDFNoWorldModel is used for player configuration screens
	RDFNoWorldModel = 1 << 0
	// RDFHyperspace is the teleportation effect
	RDFHyperspace = 1 << 2
)

// SceneDef describes the camera of one scene.
type SceneDef struct {
	X, Y          int
	Width, Height int
	FovX, FovY    float32
	ViewOrg       vec.Vec3
	ViewAxis      [3]vec.Vec3
	// Time is in milliseconds
	Time    int
	RdFlags int
	// AreaMask has a bit set for every area that is closed off,
	// e.g. by a door. nil means all areas are open.
	AreaMask *bitset.BitSet
}

// refdef is the scene currently rendered.
type refdef struct {
	x, y          int
	width, height int
	fovX, fovY    float32
	viewOrg       vec.Vec3
	viewAxis      [3]vec.Vec3
	time          int
	floatTime     float32
	rdFlags       int

	areaMask         *bitset.BitSet
	areaMaskModified bool

	firstEntity int
	entities    []RefEntity
	firstDlight int
	numDlights  int
	firstPoly   int
	polys       []bsp.Poly

	stereoFrame StereoFrame
}

func (rd *refdef) areaHidden(area int) bool {
	if rd.areaMask == nil || area < 0 {
		return false
	}
	return rd.areaMask.Test(uint(area))
}

// ClearScene starts a new scene. Entities, lights and polys added
// before belong to the previous scenes of the frame.
func (tr *Renderer) ClearScene() {
	f := tr.frame()
	tr.firstSceneEntity = len(f.Entities)
	tr.firstSceneDlight = len(f.Dlights)
	tr.firstScenePoly = len(f.Polys)
}

// AddRefEntityToScene copies ent into the scene.
func (tr *Renderer) AddRefEntityToScene(ent *RefEntity) {
	if !tr.registered {
		return
	}
	f := tr.frame()
	if len(f.Entities) >= cap(f.Entities) {
		tr.pc.EntitiesDropped++
		conlog.DPrintf("RE_AddRefEntityToScene: Dropping refEntity, reached MAX_REFENTITIES")
		return
	}
	if math32.IsNaN(ent.Origin[0]) || math32.IsNaN(ent.Origin[1]) || math32.IsNaN(ent.Origin[2]) {
		conlog.Warnf("RE_AddRefEntityToScene passed a refEntity which has an origin with a NaN component")
		return
	}
	if ent.Type < 0 || ent.Type >= RTMaxRefEntityType {
		tr.fatalf("RE_AddRefEntityToScene: bad reType %d", ent.Type)
		return
	}
	f.Entities = append(f.Entities, *ent)
}

// AddLightToScene adds a point light. Lights without intensity are ignored.
func (tr *Renderer) AddLightToScene(org vec.Vec3, intensity, r, g, b float32) {
	tr.addDlight(DLight{
		Origin: org,
		Radius: intensity,
		Color:  [3]float32{r, g, b},
	})
}

// AddAdditiveLightToScene adds a point light that is blended additively.
func (tr *Renderer) AddAdditiveLightToScene(org vec.Vec3, intensity, r, g, b float32) {
	tr.addDlight(DLight{
		Origin:   org,
		Radius:   intensity,
		Color:    [3]float32{r, g, b},
		Additive: true,
	})
}

// AddLinearLightToScene adds a light spanning from start to end.
func (tr *Renderer) AddLinearLightToScene(start, end vec.Vec3, intensity, r, g, b float32) {
	tr.addDlight(DLight{
		Origin:  start,
		Origin2: end,
		Radius:  intensity,
		Color:   [3]float32{r, g, b},
		Linear:  true,
	})
}

func (tr *Renderer) addDlight(dl DLight) {
	if !tr.registered {
		return
	}
	if dl.Radius <= 0 {
		return
	}
	f := tr.frame()
	// the rest of the capacity is for copies made by portal views
	if len(f.Dlights)-tr.firstSceneDlight >= MaxDlights || len(f.Dlights) >= cap(f.Dlights) {
		tr.pc.DlightsDropped++
		return
	}
	f.Dlights = append(f.Dlights, dl)
}

// AddPolyToScene adds numPolys polygons of numVerts vertices each,
// stored one after the other in verts.
func (tr *Renderer) AddPolyToScene(hShader, numVerts int, verts []bsp.PolyVert, numPolys int) {
	if !tr.registered {
		return
	}
	if hShader == 0 {
		conlog.Warnf("WARNING: RE_AddPolyToScene: NULL poly shader")
		return
	}
	if numVerts < 3 || len(verts) < numVerts*numPolys {
		conlog.Warnf("WARNING: RE_AddPolyToScene: %d polys of %d verts with %d verts given", numPolys, numVerts, len(verts))
		return
	}
	f := tr.frame()
	for j := 0; j < numPolys; j++ {
		if tr.numPolyVerts+numVerts > MaxPolyVerts || len(f.Polys) >= cap(f.Polys) {
			tr.pc.PolysDropped++
			conlog.DPrintf("WARNING: RE_AddPolyToScene: r_max_polys or r_max_polyverts reached")
			return
		}
		p := bsp.Poly{
			Shader: hShader,
			Verts:  make([]bsp.PolyVert, numVerts),
		}
		copy(p.Verts, verts[j*numVerts:(j+1)*numVerts])

		// see if it is in a fog volume
		if tr.world != nil && len(tr.world.Fogs) > 1 {
			mins, maxs := vec.ClearBounds()
			for _, v := range p.Verts {
				vec.AddPointToBounds(v.XYZ, &mins, &maxs)
			}
			p.FogIndex = tr.world.FogForBounds(mins, maxs)
		}

		f.Polys = append(f.Polys, p)
		tr.numPolyVerts += numVerts
	}
}

// RenderScene renders the entities, lights and polys added since the
// last ClearScene from the camera in fd.
func (tr *Renderer) RenderScene(fd *SceneDef) {
	if !tr.registered {
		return
	}
	if cvars.RNoRefresh.Bool() {
		return
	}
	start := time.Now()

	if tr.world == nil && fd.RdFlags&RDFNoWorldModel == 0 {
		tr.fatalf("R_RenderScene: NULL worldmodel")
		return
	}

	rd := &tr.refdef
	rd.x = fd.X
	rd.y = fd.Y
	rd.width = fd.Width
	rd.height = fd.Height
	rd.fovX = fd.FovX
	rd.fovY = fd.FovY
	rd.viewOrg = fd.ViewOrg
	rd.viewAxis = fd.ViewAxis
	rd.time = fd.Time
	rd.rdFlags = fd.RdFlags

	// a changed area mask forces the visible leafs to be marked again
	// even if the view has not moved
	rd.areaMaskModified = false
	if fd.RdFlags&RDFNoWorldModel == 0 {
		if !sameAreaMask(rd.areaMask, fd.AreaMask) {
			rd.areaMaskModified = true
		}
		rd.areaMask = nil
		if fd.AreaMask != nil {
			rd.areaMask = fd.AreaMask.Clone()
		}
	}

	rd.floatTime = float32(float64(fd.Time) * 0.001)

	f := tr.frame()
	rd.firstEntity = tr.firstSceneEntity
	rd.entities = f.Entities[tr.firstSceneEntity:]
	rd.firstDlight = tr.firstSceneDlight
	rd.numDlights = len(f.Dlights) - tr.firstSceneDlight
	rd.firstPoly = tr.firstScenePoly
	rd.polys = f.Polys[tr.firstScenePoly:]

	// A single frame may have multiple scenes, e.g. a 3D status bar.
	// They are told apart because the visibility state of a surface may
	// be different in each scene.
	tr.frameSceneNum++
	tr.sceneCount++

	// the scene takes 0-at-the-top y coordinates, the viewport is
	// 0-at-the-bottom
	parms := ViewParms{
		ViewportX:      rd.x,
		ViewportY:      tr.gl.VidHeight - (rd.y + rd.height),
		ViewportWidth:  rd.width,
		ViewportHeight: rd.height,
		PortalView:     PortalViewNone,
		FovX:           rd.fovX,
		FovY:           rd.fovY,
		StereoFrame:    rd.stereoFrame,
		PVSOrigin:      fd.ViewOrg,
		FirstDlight:    rd.firstDlight,
		NumDlights:     rd.numDlights,
	}
	parms.ScissorX = parms.ViewportX
	parms.ScissorY = parms.ViewportY
	parms.ScissorWidth = parms.ViewportWidth
	parms.ScissorHeight = parms.ViewportHeight
	parms.Ort.Origin = fd.ViewOrg
	parms.Ort.Axis = fd.ViewAxis

	tr.RenderView(&parms)

	// the next scene rendered in this frame will tack on after this one
	tr.firstSceneEntity = len(f.Entities)
	tr.firstSceneDlight = len(f.Dlights)
	tr.firstScenePoly = len(f.Polys)

	tr.frontEndTime += time.Since(start)
}

func sameAreaMask(a, b *bitset.BitSet) bool {
	if a == nil || b == nil {
		return (a == nil || a.None()) && (b == nil || b.None())
	}
	return a.Equal(b)
}
