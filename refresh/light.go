// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/bsp"
	"q3front/cvars"
	"q3front/math/vec"
)

// DLight is a dynamic light. Linear lights span from Origin to Origin2.
type DLight struct {
	Origin   vec.Vec3
	Origin2  vec.Vec3
	Color    [3]float32
	Radius   float32
	Linear   bool
	Additive bool

	// Transformed and Transformed2 are the origins in the space of the
	// entity being processed.
	Transformed  vec.Vec3
	Transformed2 vec.Vec3

	// Head and Tail link the surfaces lit in the current view.
	Head *LitSurf
	Tail *LitSurf
}

// viewDlights returns the lights of the current view. The elements are
// stored in the frame and stay in place until the frame is reset.
func (tr *Renderer) viewDlights() []DLight {
	vp := &tr.viewParms
	return tr.frame().Dlights[vp.FirstDlight : vp.FirstDlight+vp.NumDlights]
}

// lightListMode reports whether dynamic lights collect per light
// surface lists instead of per surface light masks.
func lightListMode() bool {
	return cvars.RDlightMode.Int() != 0
}

// transformDlights moves the view's lights into the current entity's space.
func (tr *Renderer) transformDlights() {
	dls := tr.viewDlights()
	for i := range dls {
		dl := &dls[i]
		dl.Transformed = tr.WorldToLocal(vec.Sub(dl.Origin, tr.ort.Origin))
		if dl.Linear {
			dl.Transformed2 = tr.WorldToLocal(vec.Sub(dl.Origin2, tr.ort.Origin))
		}
	}
}

// cullDlight tests the light volume against the frustum. Linear lights
// are only culled if both ends are outside the same plane.
func (tr *Renderer) cullDlight(dl *DLight) CullResult {
	if cvars.RNoCull.Bool() {
		return CullClip
	}
	clipped := false
	for i := 0; i < 4; i++ {
		frust := &tr.viewParms.Frustum[i]
		d := frust.Distance(dl.Origin)
		if dl.Linear {
			d2 := frust.Distance(dl.Origin2)
			if d < -dl.Radius && d2 < -dl.Radius {
				return CullOut
			}
			if d <= dl.Radius || d2 <= dl.Radius {
				clipped = true
			}
			continue
		}
		if d < -dl.Radius {
			return CullOut
		}
		if d <= dl.Radius {
			clipped = true
		}
	}
	if clipped {
		return CullClip
	}
	return CullIn
}

// addWorldLights builds the lit surface lists of the view's lights
// from the world surfaces already found visible.
func (tr *Renderer) addWorldLights() {
	dls := tr.viewDlights()
	for i := range dls {
		dl := &dls[i]
		if tr.cullDlight(dl) == CullOut {
			tr.pc.DlightsCulled++
			continue
		}
		tr.pc.Dlights++
		tr.lightCount++
		tr.light = dl
		tr.recursiveLightNode(tr.world.Nodes[0])
	}
	tr.light = nil
}

func (tr *Renderer) recursiveLightNode(node *bsp.Node) {
	dl := tr.light
	for {
		if node.VisFrame != tr.visCount {
			return
		}
		if node.IsLeaf() {
			break
		}
		var children [2]bool
		d := node.Plane.Distance(dl.Origin)
		if d > -dl.Radius {
			children[0] = true
		}
		if d < dl.Radius {
			children[1] = true
		}
		if dl.Linear {
			d = node.Plane.Distance(dl.Origin2)
			if d > -dl.Radius {
				children[0] = true
			}
			if d < dl.Radius {
				children[1] = true
			}
		}
		switch {
		case children[0] && children[1]:
			tr.recursiveLightNode(node.Children[0])
			node = node.Children[1]
		case children[0]:
			node = node.Children[0]
		case children[1]:
			node = node.Children[1]
		default:
			return
		}
	}

	tr.pc.LitLeafs++
	for _, surf := range node.MarkSurfaces {
		tr.addLitSurface(surf, dl)
	}
}

// addLitSurface adds a surface to the light's list if it is visible in
// the current view and actually touched by the light.
func (tr *Renderer) addLitSurface(surf *bsp.Surface, dl *DLight) {
	// ViewCount only tells the surface was tested, VisibleCount that it
	// passed
	if surf.VisibleCount != tr.viewCount {
		return
	}
	if surf.Shader.LightingStage < 0 {
		return
	}
	if surf.LightCount == tr.lightCount {
		return
	}
	surf.LightCount = tr.lightCount

	if lightCullSurface(surf.Data, dl) {
		tr.pc.LitCulls++
		return
	}
	tr.addLitSurf(surf.Data, surf.Shader, surf.FogIndex)
}

func lightCullSurface(d bsp.SurfaceData, dl *DLight) bool {
	switch s := d.(type) {
	case *bsp.Face:
		return lightCullFace(s, dl)
	case *bsp.Grid:
		return lightCullBounds(dl, s.MeshBounds[0], s.MeshBounds[1])
	case *bsp.Triangles:
		return lightCullBounds(dl, s.Bounds[0], s.Bounds[1])
	}
	return false
}

// lightCullBounds reports whether the light misses the box. A linear
// light is tested with the box spanned by its ends.
func lightCullBounds(dl *DLight, mins, maxs vec.Vec3) bool {
	lo, hi := dl.Transformed, dl.Transformed
	if dl.Linear {
		lo, hi = vec.MinMax(dl.Transformed, dl.Transformed2)
	}
	for i := 0; i < 3; i++ {
		if lo[i]-dl.Radius > maxs[i] || hi[i]+dl.Radius < mins[i] {
			return true
		}
	}
	return false
}

func lightCullFace(f *bsp.Face, dl *DLight) bool {
	d := f.Plane.Distance(dl.Transformed)
	if dl.Linear {
		d2 := f.Plane.Distance(dl.Transformed2)
		if d < -dl.Radius && d2 < -dl.Radius {
			return true
		}
		if d > dl.Radius && d2 > dl.Radius {
			return true
		}
		return false
	}
	return d < -dl.Radius || d > dl.Radius
}

// dlightSurface returns the subset of dlightBits touching the surface
// and stores it with the surface. Only used without light lists.
func (tr *Renderer) dlightSurface(surf *bsp.Surface, dlightBits uint32) uint32 {
	dls := tr.viewDlights()
	for i := range dls {
		if dlightBits&(1<<i) == 0 {
			continue
		}
		dl := &dls[i]
		var culled bool
		switch s := surf.Data.(type) {
		case *bsp.Face:
			d := s.Plane.Distance(dl.Transformed)
			culled = d < -dl.Radius || d > dl.Radius
		case *bsp.Grid:
			culled = lightCullBounds(dl, s.MeshBounds[0], s.MeshBounds[1])
		}
		// triangle soups keep every light that reached their leaf
		if culled {
			dlightBits &^= 1 << i
		}
	}
	if dlightBits == 0 {
		tr.pc.DlightSurfacesCulled++
	} else {
		tr.pc.DlightSurfaces++
	}
	surf.DlightBits = dlightBits
	return dlightBits
}

// dlightMask returns the mask of all view lights usable as bits.
func (tr *Renderer) dlightMask() uint32 {
	n := tr.viewParms.NumDlights
	if n > MaxDlights {
		n = MaxDlights
	}
	return uint32(1<<n) - 1
}
