// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"q3front/math/vec"
)

const (
	// ContentsNode marks interior nodes, leafs carry content flags >= 0.
	ContentsNode  = -1
	ContentsEmpty = 0
	ContentsSolid = 1
)

// Node is either an interior node with a splitting plane or a leaf.
type Node struct {
	Contents int
	// VisFrame is the vis count of the last MarkLeaves that reached this node.
	VisFrame int
	Mins     vec.Vec3
	Maxs     vec.Vec3
	Parent   *Node

	// interior nodes
	Plane    *Plane
	Children [2]*Node

	// leafs
	Cluster      int
	Area         int
	MarkSurfaces []*Surface
}

func (n *Node) IsLeaf() bool {
	return n.Contents != ContentsNode
}

// NewNode returns an interior node whose bounds enclose both children.
func NewNode(plane Plane, front, back *Node) *Node {
	n := &Node{
		Contents: ContentsNode,
		Plane:    &plane,
		Children: [2]*Node{front, back},
		Cluster:  -1,
	}
	n.Mins, n.Maxs = vec.ClearBounds()
	for _, c := range n.Children {
		if c == nil {
			continue
		}
		vec.AddPointToBounds(c.Mins, &n.Mins, &n.Maxs)
		vec.AddPointToBounds(c.Maxs, &n.Mins, &n.Maxs)
	}
	return n
}

// NewLeaf returns an empty leaf in the given cluster and area.
func NewLeaf(cluster, area int, mins, maxs vec.Vec3, surfs ...*Surface) *Node {
	return &Node{
		Contents:     ContentsEmpty,
		Mins:         mins,
		Maxs:         maxs,
		Cluster:      cluster,
		Area:         area,
		MarkSurfaces: surfs,
	}
}

// NewSolidLeaf returns a leaf inside solid space. It has no cluster.
func NewSolidLeaf(mins, maxs vec.Vec3) *Node {
	return &Node{
		Contents: ContentsSolid,
		Mins:     mins,
		Maxs:     maxs,
		Cluster:  -1,
	}
}
