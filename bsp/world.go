// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"log/slog"

	"github.com/pkg/errors"

	"q3front/math/vec"
	"q3front/model"
)

// Fog is a fog volume. Index 0 of World.Fogs means no fog.
type Fog struct {
	Bounds [2]vec.Vec3
}

// World is the static spatial index of a map.
type World struct {
	Name string
	// Nodes holds all nodes in pre-order, Nodes[0] is the root.
	Nodes    []*Node
	Surfaces []*Surface
	Fogs     []Fog

	NumClusters  int
	ClusterBytes int
	vis          []byte
	novis        []byte
}

// NewWorld links the tree below root and validates it. vis is the
// uncompressed cluster-major PVS, or nil if the map has none.
func NewWorld(name string, root *Node, numClusters int, vis []byte) (*World, error) {
	if root == nil {
		return nil, errors.Errorf("NewWorld %s: no nodes", name)
	}
	if numClusters < 0 {
		return nil, errors.Errorf("NewWorld %s: %d clusters", name, numClusters)
	}
	w := &World{
		Name:         name,
		Fogs:         []Fog{{}},
		NumClusters:  numClusters,
		ClusterBytes: (numClusters + 7) / 8,
	}
	w.novis = bytes.Repeat([]byte{0xff}, max(w.ClusterBytes, 1))
	seen := make(map[*Surface]bool)
	if err := w.link(root, nil, seen); err != nil {
		return nil, errors.Wrapf(err, "NewWorld %s", name)
	}
	if len(vis) != 0 {
		if len(vis) != numClusters*w.ClusterBytes {
			return nil, errors.Errorf("NewWorld %s: vis has %d bytes, want %d", name, len(vis), numClusters*w.ClusterBytes)
		}
		w.vis = make([]byte, len(vis))
		copy(w.vis, vis)
		// a cluster can always see itself
		for c := 0; c < numClusters; c++ {
			w.vis[c*w.ClusterBytes+c>>3] |= 1 << (c & 7)
		}
	}
	return w, nil
}

func (w *World) link(n, parent *Node, seen map[*Surface]bool) error {
	n.Parent = parent
	w.Nodes = append(w.Nodes, n)
	if !n.IsLeaf() {
		if n.Plane == nil || n.Children[0] == nil || n.Children[1] == nil {
			return errors.Errorf("node %d is incomplete", len(w.Nodes)-1)
		}
		for _, c := range n.Children {
			if err := w.link(c, n, seen); err != nil {
				return err
			}
		}
		return nil
	}
	if n.Cluster >= w.NumClusters {
		return errors.Errorf("leaf cluster %d >= %d", n.Cluster, w.NumClusters)
	}
	for _, s := range n.MarkSurfaces {
		if !seen[s] {
			seen[s] = true
			w.Surfaces = append(w.Surfaces, s)
		}
	}
	return nil
}

// AddFog adds a fog volume and returns its index.
func (w *World) AddFog(mins, maxs vec.Vec3) int {
	w.Fogs = append(w.Fogs, Fog{Bounds: [2]vec.Vec3{mins, maxs}})
	return len(w.Fogs) - 1
}

// HasVis reports whether the world carries cluster visibility data.
func (w *World) HasVis() bool {
	return w.vis != nil
}

func (w *World) PointInLeaf(p vec.Vec3) (*Node, error) {
	if w == nil || len(w.Nodes) == 0 {
		return nil, errors.New("PointInLeaf: bad model")
	}
	node := w.Nodes[0]
	for !node.IsLeaf() {
		if node.Plane.Distance(p) > 0 {
			node = node.Children[0]
		} else {
			node = node.Children[1]
		}
	}
	return node, nil
}

// ClusterPVS returns the row of clusters visible from cluster. Without vis
// data or for invalid clusters every cluster is visible.
func (w *World) ClusterPVS(cluster int) []byte {
	if !w.HasVis() || cluster < 0 || cluster >= w.NumClusters {
		return w.novis
	}
	return w.vis[cluster*w.ClusterBytes : (cluster+1)*w.ClusterBytes]
}

// ClusterVisible tests the bit of cluster in a PVS row.
func ClusterVisible(row []byte, cluster int) bool {
	if cluster < 0 || cluster>>3 >= len(row) {
		return false
	}
	return row[cluster>>3]&(1<<(cluster&7)) != 0
}

// InPVS reports whether p2 is potentially visible from p1.
func (w *World) InPVS(p1, p2 vec.Vec3) bool {
	l1, err := w.PointInLeaf(p1)
	if err != nil {
		return false
	}
	l2, err := w.PointInLeaf(p2)
	if err != nil {
		return false
	}
	return ClusterVisible(w.ClusterPVS(l1.Cluster), l2.Cluster)
}

// FogForSphere returns the first fog volume touched by the sphere, 0 if none.
func (w *World) FogForSphere(origin vec.Vec3, radius float32) int {
	for i := 1; i < len(w.Fogs); i++ {
		f := &w.Fogs[i]
		j := 0
		for ; j < 3; j++ {
			if origin[j]-radius >= f.Bounds[1][j] {
				break
			}
			if origin[j]+radius <= f.Bounds[0][j] {
				break
			}
		}
		if j == 3 {
			return i
		}
	}
	return 0
}

// FogForBounds returns the first fog volume overlapping the box, 0 if none.
func (w *World) FogForBounds(mins, maxs vec.Vec3) int {
	for i := 1; i < len(w.Fogs); i++ {
		f := &w.Fogs[i]
		if maxs[0] >= f.Bounds[0][0] && maxs[1] >= f.Bounds[0][1] && maxs[2] >= f.Bounds[0][2] &&
			mins[0] <= f.Bounds[1][0] && mins[1] <= f.Bounds[1][1] && mins[2] <= f.Bounds[1][2] {
			return i
		}
	}
	return 0
}

// DecompressVis expands a run length compressed vis row.
// A zero byte is followed by the number of zero bytes it stands for.
func DecompressVis(in []byte, rowBytes int) []byte {
	out := make([]byte, rowBytes)
	if len(in) == 0 {
		// no vis info, so make all visible
		for i := range out {
			out[i] = 0xff
		}
		return out
	}

	// 'in' is compressed and looks like
	// 70550311
	// and gets uncompressed to
	// 700000500011	(7 5x0 5 3x0 1 1)

	j := 0
	for i := 0; i < len(in) && j < rowBytes; i++ {
		if in[i] != 0 {
			out[j] = in[i]
			j++
			continue
		}
		i++
		if i >= len(in) {
			slog.Warn("Faulty vis data")
			break
		}
		j += int(in[i])
	}
	if j > rowBytes {
		slog.Warn("Strange vis data", "got", j, "want", rowBytes)
	}
	return out
}

// BModel is a brush model, like a door or a platform.
type BModel struct {
	name     string
	Bounds   [2]vec.Vec3
	Surfaces []*Surface
}

func NewBModel(name string, surfs []*Surface) *BModel {
	m := &BModel{name: name, Surfaces: surfs}
	m.Bounds[0], m.Bounds[1] = vec.ClearBounds()
	for _, s := range surfs {
		verts, _ := Tessellate(s.Data)
		for _, v := range verts {
			vec.AddPointToBounds(v.XYZ, &m.Bounds[0], &m.Bounds[1])
		}
	}
	return m
}

func (m *BModel) Name() string     { return m.name }
func (m *BModel) Kind() model.Kind { return model.KindBrush }
func (m *BModel) Mins() vec.Vec3   { return m.Bounds[0] }
func (m *BModel) Maxs() vec.Vec3   { return m.Bounds[1] }
