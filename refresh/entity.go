// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/bsp"
	"q3front/cvars"
	"q3front/math/vec"
	"q3front/model"
)

type RefEntityType int

const (
	RTModel RefEntityType = iota
	RTSprite
	RTBeam
	RTRailCore
	RTRailRings
	RTLightning
	// RTPortalSurface marks the location of a portal or mirror,
	// it draws nothing by itself
	RTPortalSurface
	RTMaxRefEntityType
)

func (t RefEntityType) String() string {
	switch t {
	case RTModel:
		return "model"
	case RTSprite:
		return "sprite"
	case RTBeam:
		return "beam"
	case RTRailCore:
		return "rail core"
	case RTRailRings:
		return "rail rings"
	case RTLightning:
		return "lightning"
	case RTPortalSurface:
		return "portal surface"
	}
	return "bad"
}

// RenderFx flags
const (
	// RFMinLight allows some light even in full shadow
	RFMinLight = 1 << iota
	// RFThirdPerson is only drawn through mirrors and portals
	RFThirdPerson
	// RFFirstPerson is only drawn in the primary view
	RFFirstPerson
	// RFDepthHack keeps weapons from poking into walls
	RFDepthHack
	RFCrosshair
	_
	RFNoShadow
	// RFLightingOrigin uses LightingOrigin instead of Origin for lighting
	RFLightingOrigin
	RFShadowPlane
	RFWrapFrames
)

// RefEntity is an entity handed to the renderer for one scene.
type RefEntity struct {
	Type     RefEntityType
	RenderFx int
	// Model is a model handle, 0 is no model
	Model int

	LightingOrigin vec.Vec3
	ShadowPlane    float32

	Axis              [3]vec.Vec3
	NonNormalizedAxes bool
	Origin            vec.Vec3
	Frame             int

	// OldOrigin doubles as the camera position of portal entities
	OldOrigin vec.Vec3
	OldFrame  int
	Backlerp  float32

	SkinNum      int
	CustomSkin   int
	CustomShader int

	ShaderRGBA [4]byte
	ShaderTime float32

	Radius   float32
	Rotation float32
}

// SurfaceEmitter adds the draw surfaces of model entities of one kind.
// It is called with the entity's orientation set up and uses
// AddDrawSurf and the culling methods of the renderer.
type SurfaceEmitter interface {
	AddSurfaces(tr *Renderer, ent *RefEntity, m model.Model)
}

// SurfaceEmitterFunc adapts a function to a SurfaceEmitter.
type SurfaceEmitterFunc func(tr *Renderer, ent *RefEntity, m model.Model)

func (f SurfaceEmitterFunc) AddSurfaces(tr *Renderer, ent *RefEntity, m model.Model) {
	f(tr, ent, m)
}

// addEntitySurfaces adds the surfaces of all scene entities.
func (tr *Renderer) addEntitySurfaces() {
	if !cvars.RDrawEntities.Bool() {
		return
	}
	for i := range tr.refdef.entities {
		ent := &tr.refdef.entities[i]
		tr.currentEntityNum = i
		tr.currentEntity = ent
		tr.shiftedEntityNum = uint32(i) << entityShift

		// the first person weapon model would show in mirrors in its
		// hacked position, the body is already drawn
		if ent.RenderFx&RFFirstPerson != 0 && tr.viewParms.PortalView != PortalViewNone {
			continue
		}

		switch ent.Type {
		case RTPortalSurface:
			// don't draw anything
		case RTSprite, RTBeam, RTLightning, RTRailCore, RTRailRings:
			// self blood sprites, talk balloons, etc should not be drawn
			// in the primary view
			if ent.RenderFx&RFThirdPerson != 0 && tr.viewParms.PortalView == PortalViewNone {
				continue
			}
			// simple generated models are not culled
			sh := tr.shaders.ByHandle(ent.CustomShader)
			tr.AddDrawSurf(bsp.EntitySurface{}, sh, tr.spriteFogNum(ent), false)
		case RTModel:
			// parts of the orientation are needed for model culling
			tr.ort = RotateForEntity(ent, &tr.viewParms)
			m := tr.models.ByHandle(ent.Model)
			if m == nil {
				tr.AddDrawSurf(bsp.EntitySurface{}, tr.shaders.Default(), 0, false)
				continue
			}
			switch m.Kind() {
			case model.KindBrush:
				bm, ok := m.(*bsp.BModel)
				if !ok {
					tr.fatalf("R_AddEntitySurfaces: brush model %s is a %T", m.Name(), m)
					return
				}
				tr.addBrushModelSurfaces(bm)
			case model.KindMesh, model.KindMDR, model.KindIQM:
				if e, ok := tr.emitters[m.Kind()]; ok {
					e.AddSurfaces(tr, ent, m)
				}
			case model.KindBad:
				// null model axis
				if ent.RenderFx&RFThirdPerson != 0 && tr.viewParms.PortalView == PortalViewNone {
					continue
				}
				tr.AddDrawSurf(bsp.EntitySurface{}, tr.shaders.Default(), 0, false)
			default:
				tr.fatalf("R_AddEntitySurfaces: Bad modeltype %v", m.Kind())
				return
			}
		default:
			tr.fatalf("R_AddEntitySurfaces: Bad reType %d", ent.Type)
			return
		}
	}
}

// spriteFogNum returns the fog volume a sprite like entity is in.
func (tr *Renderer) spriteFogNum(ent *RefEntity) int {
	if tr.refdef.rdFlags&RDFNoWorldModel != 0 || tr.world == nil {
		return 0
	}
	if ent.RenderFx&RFDepthHack != 0 {
		return 0
	}
	return tr.world.FogForSphere(ent.Origin, ent.Radius)
}

// addPolygonSurfaces adds the scene polygons. They belong to the world.
func (tr *Renderer) addPolygonSurfaces() {
	tr.currentEntityNum = RefEntityNumWorld
	tr.shiftedEntityNum = uint32(tr.currentEntityNum) << entityShift
	tr.currentEntity = nil

	for i := range tr.refdef.polys {
		p := &tr.refdef.polys[i]
		sh := tr.shaders.ByHandle(p.Shader)
		tr.AddDrawSurf(p, sh, p.FogIndex, false)
	}
}
