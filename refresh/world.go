// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/bsp"
	"q3front/conlog"
	"q3front/cvars"
	"q3front/math/vec"
)

// addWorldSurfaces marks the leafs visible from the view's PVS origin
// and adds all world surfaces in them that survive culling.
func (tr *Renderer) addWorldSurfaces() {
	if !cvars.RDrawWorld.Bool() {
		return
	}
	if tr.refdef.rdFlags&RDFNoWorldModel != 0 {
		return
	}
	if tr.world == nil {
		return
	}

	tr.currentEntityNum = RefEntityNumWorld
	tr.shiftedEntityNum = uint32(tr.currentEntityNum) << entityShift
	tr.currentEntity = nil
	tr.ort = tr.viewParms.World

	tr.markLeaves()

	tr.viewParms.VisBounds[0], tr.viewParms.VisBounds[1] = vec.ClearBounds()

	tr.transformDlights()
	if lightListMode() {
		tr.recursiveWorldNode(tr.world.Nodes[0], 15, 0)
		tr.addWorldLights()
		return
	}
	tr.recursiveWorldNode(tr.world.Nodes[0], 15, tr.dlightMask())
}

// markLeaves stamps every node on the path from a potentially visible
// leaf to the root with a new vis count. Nothing is done while the
// view cluster and the area mask stay the same.
func (tr *Renderer) markLeaves() {
	// lockpvs keeps the current pvs while moving around
	if cvars.RLockPVS.Bool() {
		return
	}

	leaf, err := tr.world.PointInLeaf(tr.viewParms.PVSOrigin)
	if err != nil {
		tr.fatal(err)
		return
	}
	cluster := leaf.Cluster

	if tr.viewCluster == cluster && !tr.refdef.areaMaskModified &&
		!cvars.RShowCluster.Modified() && !cvars.RNoVis.Modified() {
		return
	}
	cvars.RNoVis.ClearModified()
	if cvars.RShowCluster.Modified() || cvars.RShowCluster.Bool() {
		cvars.RShowCluster.ClearModified()
		if cvars.RShowCluster.Bool() {
			conlog.Printf("cluster:%d  area:%d", cluster, leaf.Area)
		}
	}

	tr.visCount++
	tr.viewCluster = cluster

	if cvars.RNoVis.Bool() || tr.viewCluster == -1 {
		for _, n := range tr.world.Nodes {
			if n.Contents != bsp.ContentsSolid {
				n.VisFrame = tr.visCount
			}
		}
		return
	}

	vis := tr.world.ClusterPVS(tr.viewCluster)
	for _, n := range tr.world.Nodes {
		if !n.IsLeaf() {
			continue
		}
		c := n.Cluster
		if c < 0 || c >= tr.world.NumClusters {
			continue
		}
		if !bsp.ClusterVisible(vis, c) {
			continue
		}
		// check for door connection
		if tr.refdef.areaHidden(n.Area) {
			continue
		}
		for p := n; p != nil; p = p.Parent {
			if p.VisFrame == tr.visCount {
				break
			}
			p.VisFrame = tr.visCount
		}
	}
}

// recursiveWorldNode walks the marked part of the tree. planeBits holds
// the frustum planes the node is not yet known to be in front of.
func (tr *Renderer) recursiveWorldNode(node *bsp.Node, planeBits int, dlightBits uint32) {
	for {
		if node.VisFrame != tr.visCount {
			return
		}

		// if the node isn't in front of all planes the bounding box
		// decides
		if !cvars.RNoCull.Bool() {
			for i := 0; i < 4; i++ {
				if planeBits&(1<<i) == 0 {
					continue
				}
				switch tr.viewParms.Frustum[i].BoxOnPlaneSide(node.Mins, node.Maxs) {
				case 2:
					return
				case 1:
					// completely in front of this plane
					planeBits &^= 1 << i
				}
			}
		}

		if node.IsLeaf() {
			break
		}

		var newDlights [2]uint32
		if dlightBits != 0 {
			dls := tr.viewDlights()
			for i := range dls {
				if dlightBits&(1<<i) == 0 {
					continue
				}
				dl := &dls[i]
				d := node.Plane.Distance(dl.Origin)
				if d > -dl.Radius {
					newDlights[0] |= 1 << i
				}
				if d < dl.Radius {
					newDlights[1] |= 1 << i
				}
			}
		}

		tr.recursiveWorldNode(node.Children[0], planeBits, newDlights[0])

		node = node.Children[1]
		dlightBits = newDlights[1]
	}

	tr.pc.Leafs++

	vp := &tr.viewParms
	vec.AddPointToBounds(node.Mins, &vp.VisBounds[0], &vp.VisBounds[1])
	vec.AddPointToBounds(node.Maxs, &vp.VisBounds[0], &vp.VisBounds[1])

	for _, surf := range node.MarkSurfaces {
		tr.addWorldSurface(surf, dlightBits)
	}
}

// addWorldSurface adds a surface once per view if it survives culling.
func (tr *Renderer) addWorldSurface(surf *bsp.Surface, dlightBits uint32) {
	if surf.ViewCount == tr.viewCount {
		return
	}
	surf.ViewCount = tr.viewCount

	if tr.cullSurface(surf) {
		return
	}

	dlighted := false
	if !lightListMode() && dlightBits != 0 {
		dlighted = tr.dlightSurface(surf, dlightBits) != 0
	}

	surf.VisibleCount = tr.viewCount
	tr.AddDrawSurf(surf.Data, surf.Shader, surf.FogIndex, dlighted)
}

// addBrushModelSurfaces adds the surfaces of a brush model entity.
// The entity's orientation must be set up.
func (tr *Renderer) addBrushModelSurfaces(bm *bsp.BModel) {
	if tr.CullLocalBox(bm.Bounds) == CullOut {
		return
	}

	tr.transformDlights()
	if !lightListMode() {
		bits := tr.dlightMask()
		for _, surf := range bm.Surfaces {
			tr.addWorldSurface(surf, bits)
		}
		return
	}

	for _, surf := range bm.Surfaces {
		tr.addWorldSurface(surf, 0)
	}
	dls := tr.viewDlights()
	for i := range dls {
		dl := &dls[i]
		if lightCullBounds(dl, bm.Bounds[0], bm.Bounds[1]) {
			continue
		}
		tr.lightCount++
		tr.light = dl
		for _, surf := range bm.Surfaces {
			tr.addLitSurface(surf, dl)
		}
	}
	tr.light = nil
}
