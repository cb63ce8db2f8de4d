// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"q3front/math/vec"
	"q3front/shader"
)

// Surface is a piece of world or brush model geometry. The counters are
// only meaningful while they equal the renderer's current counters.
type Surface struct {
	// ViewCount is the last view that visited the surface.
	ViewCount int
	// VisibleCount is the last view in which the surface passed culling.
	VisibleCount int
	// LightCount is the last dynamic light pass that lit the surface.
	LightCount int
	// DlightBits holds the lights touching the surface when the
	// light-list mode is off.
	DlightBits uint32

	Shader   *shader.Shader
	FogIndex int
	Data     SurfaceData
}

// SurfaceData is one of *Face, *Grid, *Triangles, *Poly or EntitySurface.
type SurfaceData interface {
	surfaceData()
}

type Vertex struct {
	XYZ    vec.Vec3
	Normal vec.Vec3
}

// Face is a planar polygon.
type Face struct {
	Plane   Plane
	Verts   []Vertex
	Indexes []int
}

// Grid is a tessellated curved patch.
type Grid struct {
	Width       int
	Height      int
	Verts       []Vertex
	MeshBounds  [2]vec.Vec3
	LocalOrigin vec.Vec3
	MeshRadius  float32
}

// Triangles is a raw triangle soup, e.g. a misc_model baked into the world.
type Triangles struct {
	Bounds  [2]vec.Vec3
	Verts   []Vertex
	Indexes []int
}

type PolyVert struct {
	XYZ      vec.Vec3
	ST       [2]float32
	Modulate [4]byte
}

// Poly is a scene polygon added per frame (marks, particles).
type Poly struct {
	Shader   int
	FogIndex int
	Verts    []PolyVert
}

// EntitySurface stands in for geometry generated from an entity by the
// back end, like sprites and beams.
type EntitySurface struct{}

func (*Face) surfaceData()         {}
func (*Grid) surfaceData()         {}
func (*Triangles) surfaceData()    {}
func (*Poly) surfaceData()         {}
func (EntitySurface) surfaceData() {}

// NewFace returns a planar surface. verts must lie in plane.
func NewFace(sh *shader.Shader, plane Plane, verts []vec.Vec3) (*Surface, error) {
	if len(verts) < 3 {
		return nil, errors.Errorf("NewFace: %d verts", len(verts))
	}
	f := &Face{Plane: plane}
	for _, v := range verts {
		f.Verts = append(f.Verts, Vertex{XYZ: v, Normal: plane.Normal})
	}
	for i := 2; i < len(verts); i++ {
		f.Indexes = append(f.Indexes, 0, i-1, i)
	}
	return &Surface{Shader: sh, Data: f}, nil
}

// NewGrid returns a curved surface from an already tessellated
// width x height vertex mesh.
func NewGrid(sh *shader.Shader, width, height int, verts []Vertex) (*Surface, error) {
	if width < 2 || height < 2 || len(verts) != width*height {
		return nil, errors.Errorf("NewGrid: bad size %dx%d with %d verts", width, height, len(verts))
	}
	g := &Grid{
		Width:  width,
		Height: height,
		Verts:  verts,
	}
	g.MeshBounds[0], g.MeshBounds[1] = vec.ClearBounds()
	for _, v := range verts {
		vec.AddPointToBounds(v.XYZ, &g.MeshBounds[0], &g.MeshBounds[1])
	}
	g.LocalOrigin = vec.Add(g.MeshBounds[0], g.MeshBounds[1]).Scale(0.5)
	g.MeshRadius = vec.Sub(g.MeshBounds[0], g.LocalOrigin).Length()
	return &Surface{Shader: sh, Data: g}, nil
}

// NewTriangles returns a triangle soup surface.
func NewTriangles(sh *shader.Shader, verts []Vertex, indexes []int) (*Surface, error) {
	if len(indexes) == 0 || len(indexes)%3 != 0 {
		return nil, errors.Errorf("NewTriangles: %d indexes", len(indexes))
	}
	for _, i := range indexes {
		if i < 0 || i >= len(verts) {
			return nil, errors.Errorf("NewTriangles: index %d out of range", i)
		}
	}
	t := &Triangles{Verts: verts, Indexes: indexes}
	t.Bounds[0], t.Bounds[1] = vec.ClearBounds()
	for _, v := range verts {
		vec.AddPointToBounds(v.XYZ, &t.Bounds[0], &t.Bounds[1])
	}
	return &Surface{Shader: sh, Data: t}, nil
}

// Tessellate returns triangles for the surface, as the back end would
// build them. Entity surfaces have no geometry of their own.
func Tessellate(d SurfaceData) ([]Vertex, []int) {
	switch s := d.(type) {
	case *Face:
		return s.Verts, s.Indexes
	case *Triangles:
		return s.Verts, s.Indexes
	case *Grid:
		var idx []int
		for y := 0; y < s.Height-1; y++ {
			for x := 0; x < s.Width-1; x++ {
				v1 := y*s.Width + x
				v2 := v1 + 1
				v3 := v1 + s.Width
				v4 := v3 + 1
				idx = append(idx, v1, v3, v2, v2, v3, v4)
			}
		}
		return s.Verts, idx
	case *Poly:
		if len(s.Verts) < 3 {
			return nil, nil
		}
		n, _, _ := vec.PlaneFromPoints(s.Verts[0].XYZ, s.Verts[1].XYZ, s.Verts[2].XYZ)
		verts := make([]Vertex, len(s.Verts))
		for i, v := range s.Verts {
			verts[i] = Vertex{XYZ: v.XYZ, Normal: n}
		}
		var idx []int
		for i := 2; i < len(s.Verts); i++ {
			idx = append(idx, 0, i-1, i)
		}
		return verts, idx
	}
	return nil, nil
}

// PlaneForSurface returns the plane of planar surfaces. Other surfaces
// get a default plane facing +X through the origin.
func PlaneForSurface(d SurfaceData) Plane {
	switch s := d.(type) {
	case *Face:
		return s.Plane
	case *Triangles:
		if n, dist, ok := vec.PlaneFromPoints(s.Verts[s.Indexes[0]].XYZ, s.Verts[s.Indexes[1]].XYZ, s.Verts[s.Indexes[2]].XYZ); ok {
			return NewPlane(n, dist)
		}
	case *Poly:
		if len(s.Verts) >= 3 {
			if n, dist, ok := vec.PlaneFromPoints(s.Verts[0].XYZ, s.Verts[1].XYZ, s.Verts[2].XYZ); ok {
				return NewPlane(n, dist)
			}
		}
	}
	return NewPlane(vec.Vec3{1, 0, 0}, 0)
}
