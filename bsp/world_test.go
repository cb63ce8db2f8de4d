// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"testing"

	"q3front/math/vec"
	"q3front/shader"
)

// twoLeafWorld splits space at x = 0. The front leaf is cluster 0,
// the back leaf cluster 1.
func twoLeafWorld(t *testing.T, vis []byte) *World {
	t.Helper()
	front := NewLeaf(0, 0, vec.Vec3{0, -100, -100}, vec.Vec3{100, 100, 100})
	back := NewLeaf(1, 0, vec.Vec3{-100, -100, -100}, vec.Vec3{0, 100, 100})
	root := NewNode(NewPlane(vec.Vec3{1, 0, 0}, 0), front, back)
	w, err := NewWorld("two", root, 2, vis)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	return w
}

func TestVisDecompress(t *testing.T) {
	in := []byte{0x7, 0x0, 0x5, 0x5, 0x0, 0x3, 0x1, 0x1}
	got := DecompressVis(in, 12)
	want := []byte{0x7, 0x0, 0x0, 0x0, 0x0, 0x0, 0x5, 0x0, 0x0, 0x0, 0x1, 0x1}
	if !bytes.Equal(got, want) {
		t.Errorf("Decompress(%v) = %v, want %v", in, got, want)
	}
	got = DecompressVis(nil, 3)
	if want := []byte{0xff, 0xff, 0xff}; !bytes.Equal(got, want) {
		t.Errorf("Decompress(nil) = %v, want %v", got, want)
	}
	// truncated run, must not panic
	got = DecompressVis([]byte{0x1, 0x0}, 2)
	if want := []byte{0x1, 0x0}; !bytes.Equal(got, want) {
		t.Errorf("Decompress(truncated) = %v, want %v", got, want)
	}
}

func TestPointInLeaf(t *testing.T) {
	w := twoLeafWorld(t, nil)
	tests := []struct {
		p       vec.Vec3
		cluster int
	}{
		{vec.Vec3{10, 0, 0}, 0},
		{vec.Vec3{-10, 0, 0}, 1},
		// on the plane goes to the back
		{vec.Vec3{0, 5, 5}, 1},
	}
	for i, tc := range tests {
		leaf, err := w.PointInLeaf(tc.p)
		if err != nil {
			t.Fatalf("Testcase %d. %v", i, err)
		}
		if leaf.Cluster != tc.cluster {
			t.Errorf("Testcase %d. got: %v, want %v", i, leaf.Cluster, tc.cluster)
		}
	}
	var empty *World
	if _, err := empty.PointInLeaf(vec.Vec3{}); err == nil {
		t.Errorf("PointInLeaf on nil world succeeded")
	}
}

func TestClusterPVSFallback(t *testing.T) {
	// cluster 0 sees nothing but itself, cluster 1 sees nothing
	w := twoLeafWorld(t, []byte{0x00, 0x00})
	for _, c := range []int{-1, 2, 1000} {
		row := w.ClusterPVS(c)
		if !ClusterVisible(row, 0) || !ClusterVisible(row, 1) {
			t.Errorf("ClusterPVS(%d) = %v, want all visible", c, row)
		}
	}
	noVis := twoLeafWorld(t, nil)
	if !w.HasVis() || noVis.HasVis() {
		t.Errorf("HasVis = %v %v, want true false", w.HasVis(), noVis.HasVis())
	}
	if row := noVis.ClusterPVS(0); !ClusterVisible(row, 1) {
		t.Errorf("ClusterPVS without vis = %v, want all visible", row)
	}
}

func TestClusterSeesItself(t *testing.T) {
	w := twoLeafWorld(t, []byte{0x00, 0x00})
	for c := 0; c < w.NumClusters; c++ {
		if !ClusterVisible(w.ClusterPVS(c), c) {
			t.Errorf("cluster %d can not see itself", c)
		}
	}
	if ClusterVisible(w.ClusterPVS(0), 1) {
		t.Errorf("cluster 0 sees cluster 1")
	}
	if w.InPVS(vec.Vec3{10, 0, 0}, vec.Vec3{-10, 0, 0}) {
		t.Errorf("InPVS across disjoint clusters")
	}
	if !w.InPVS(vec.Vec3{10, 0, 0}, vec.Vec3{20, 0, 0}) {
		t.Errorf("InPVS inside one cluster failed")
	}
}

func TestNewWorldErrors(t *testing.T) {
	leaf := func(c int) *Node { return NewLeaf(c, 0, vec.Vec3{}, vec.Vec3{}) }
	tests := []struct {
		name     string
		root     *Node
		clusters int
		vis      []byte
	}{
		{"nil root", nil, 1, nil},
		{"cluster out of range", leaf(3), 2, nil},
		{"short vis", leaf(0), 2, []byte{1}},
		{"missing child", NewNode(NewPlane(vec.Vec3{1, 0, 0}, 0), leaf(0), nil), 1, nil},
	}
	for _, tc := range tests {
		if _, err := NewWorld(tc.name, tc.root, tc.clusters, tc.vis); err == nil {
			t.Errorf("%s: NewWorld succeeded", tc.name)
		}
	}
}

func TestLinking(t *testing.T) {
	sh := &shader.Shader{Name: "wall"}
	s, err := NewFace(sh, NewPlane(vec.Vec3{0, 0, 1}, 0), []vec.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}})
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	front := NewLeaf(0, 0, vec.Vec3{0, 0, 0}, vec.Vec3{10, 10, 10}, s)
	back := NewLeaf(0, 0, vec.Vec3{-10, 0, 0}, vec.Vec3{0, 10, 10}, s)
	root := NewNode(NewPlane(vec.Vec3{1, 0, 0}, 0), front, back)
	w, err := NewWorld("link", root, 1, nil)
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	if len(w.Nodes) != 3 || w.Nodes[0] != root {
		t.Errorf("got %d nodes", len(w.Nodes))
	}
	if front.Parent != root || back.Parent != root || root.Parent != nil {
		t.Errorf("parents not linked")
	}
	if len(w.Surfaces) != 1 {
		t.Errorf("shared surface listed %d times", len(w.Surfaces))
	}
	if root.Mins != (vec.Vec3{-10, 0, 0}) || root.Maxs != (vec.Vec3{10, 10, 10}) {
		t.Errorf("node bounds %v %v", root.Mins, root.Maxs)
	}
}

func TestFog(t *testing.T) {
	w := twoLeafWorld(t, nil)
	fog := w.AddFog(vec.Vec3{0, 0, 0}, vec.Vec3{10, 10, 10})
	tests := []struct {
		origin vec.Vec3
		radius float32
		want   int
	}{
		{vec.Vec3{5, 5, 5}, 1, fog},
		{vec.Vec3{12, 5, 5}, 1, 0},
		{vec.Vec3{12, 5, 5}, 3, fog},
	}
	for i, tc := range tests {
		if got := w.FogForSphere(tc.origin, tc.radius); got != tc.want {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, tc.want)
		}
	}
	if got := w.FogForBounds(vec.Vec3{-5, -5, -5}, vec.Vec3{1, 1, 1}); got != fog {
		t.Errorf("FogForBounds overlap = %d", got)
	}
	if got := w.FogForBounds(vec.Vec3{20, 20, 20}, vec.Vec3{30, 30, 30}); got != 0 {
		t.Errorf("FogForBounds disjoint = %d", got)
	}
}
