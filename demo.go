// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"q3front/bsp"
	"q3front/commandline"
	"q3front/gametime"
	"q3front/math/vec"
	"q3front/model"
	"q3front/rand"
	"q3front/refresh"
	"q3front/shader"
)

// demo is a two room map built in code: a lit room with a mirror, a
// fogged floor, a curved patch and a door, and a dark room the camera
// starts in.
type demo struct {
	shaders *shader.Table
	models  *model.Registry
	world   *bsp.World

	door   int
	flare  int
	laser  int
	marks  int
	mirror vec.Vec3

	rng rand.Generator
}

func newDemo() (*demo, error) {
	d := &demo{
		shaders: shader.NewTable(),
		models:  model.NewRegistry(),
		rng:     rand.New(0x5eed),
	}
	sh := make(map[string]*shader.Shader)
	for _, s := range []*shader.Shader{
		{Name: "textures/base/floor", Sort: shader.SortOpaque},
		{Name: "textures/base/wall", Sort: shader.SortOpaque},
		{Name: "textures/base/curve", Sort: shader.SortOpaque, CullType: shader.CullTwoSided},
		{Name: "textures/base/door", Sort: shader.SortOpaque},
		{Name: "textures/base/mirror", Sort: shader.SortPortal},
		{Name: "textures/skies/dusk", Sort: shader.SortEnvironment, IsSky: true},
		{Name: "textures/effects/flare", Sort: shader.SortBlend0, CullType: shader.CullTwoSided},
		{Name: "textures/effects/laser", Sort: shader.SortBlend1, CullType: shader.CullTwoSided},
		{Name: "gfx/damage/bullet_mrk", Sort: shader.SortDecal, CullType: shader.CullTwoSided},
	} {
		if _, err := d.shaders.Register(s); err != nil {
			return nil, err
		}
		sh[s.Name] = s
	}
	d.flare = sh["textures/effects/flare"].Index
	d.laser = sh["textures/effects/laser"].Index
	d.marks = sh["gfx/damage/bullet_mrk"].Index

	var lit, dark []*bsp.Surface
	addTo := func(list *[]*bsp.Surface) func(*bsp.Surface, error) error {
		return func(s *bsp.Surface, err error) error {
			if err != nil {
				return err
			}
			*list = append(*list, s)
			return nil
		}
	}
	// the lit room spans x 0..512
	if err := addTo(&lit)(wallX(sh["textures/base/wall"], 500, -1, vec.Vec3{500, -200, -64}, vec.Vec3{500, 200, 128})); err != nil {
		return nil, err
	}
	d.mirror = vec.Vec3{400, -150, 0}
	if err := addTo(&lit)(wallX(sh["textures/base/mirror"], 400, -1, vec.Vec3{400, -180, -30}, vec.Vec3{400, -120, 30})); err != nil {
		return nil, err
	}
	floor, err := floorAt(sh["textures/base/floor"], -64, vec.Vec3{0, -200, -64}, vec.Vec3{512, 200, -64})
	if err := addTo(&lit)(floor, err); err != nil {
		return nil, err
	}
	if err := addTo(&lit)(curveAt(sh["textures/base/curve"], 300, 100, 160)); err != nil {
		return nil, err
	}
	// the dark room spans x -512..0
	if err := addTo(&dark)(wallX(sh["textures/base/wall"], -500, 1, vec.Vec3{-500, -200, -64}, vec.Vec3{-500, 200, 128})); err != nil {
		return nil, err
	}
	sky, err := bsp.NewFace(sh["textures/skies/dusk"], bsp.NewPlane(vec.Vec3{0, 0, -1}, -256), []vec.Vec3{
		{-512, -200, 256}, {0, -200, 256}, {0, 200, 256}, {-512, 200, 256},
	})
	if err := addTo(&dark)(sky, err); err != nil {
		return nil, err
	}

	litLeaf := bsp.NewLeaf(0, 0, vec.Vec3{0, -256, -64}, vec.Vec3{512, 256, 256}, lit...)
	darkLeaf := bsp.NewLeaf(1, 1, vec.Vec3{-512, -256, -64}, vec.Vec3{0, 256, 256}, dark...)
	root := bsp.NewNode(bsp.NewPlane(vec.Vec3{1, 0, 0}, 0), litLeaf, darkLeaf)
	// both rooms see each other
	w, err := bsp.NewWorld("demo", root, 2, []byte{0x03, 0x03})
	if err != nil {
		return nil, err
	}
	fog := w.AddFog(vec.Vec3{0, -256, -64}, vec.Vec3{512, 256, -32})
	floor.FogIndex = fog
	d.world = w

	door, err := wallX(sh["textures/base/door"], 0, -1, vec.Vec3{0, -32, -64}, vec.Vec3{0, 32, 64})
	if err != nil {
		return nil, err
	}
	if d.door, err = d.models.Register(bsp.NewBModel("*1", []*bsp.Surface{door})); err != nil {
		return nil, err
	}
	return d, nil
}

// wallX returns a rectangle in the plane x = x facing along facing*X.
func wallX(sh *shader.Shader, x, facing float32, mins, maxs vec.Vec3) (*bsp.Surface, error) {
	verts := []vec.Vec3{
		{x, mins[1], mins[2]}, {x, mins[1], maxs[2]}, {x, maxs[1], maxs[2]}, {x, maxs[1], mins[2]},
	}
	if facing > 0 {
		verts[1], verts[3] = verts[3], verts[1]
	}
	s, err := bsp.NewFace(sh, bsp.NewPlane(vec.Vec3{facing, 0, 0}, facing*x), verts)
	return s, errors.Wrapf(err, "wall at %v", x)
}

func floorAt(sh *shader.Shader, z float32, mins, maxs vec.Vec3) (*bsp.Surface, error) {
	return bsp.NewFace(sh, bsp.NewPlane(vec.Vec3{0, 0, 1}, z), []vec.Vec3{
		{mins[0], mins[1], z}, {maxs[0], mins[1], z}, {maxs[0], maxs[1], z}, {mins[0], maxs[1], z},
	})
}

// curveAt returns a 3x3 patch bulging towards -X.
func curveAt(sh *shader.Shader, x, y0, y1 float32) (*bsp.Surface, error) {
	verts := make([]bsp.Vertex, 0, 9)
	for row := 0; row < 3; row++ {
		z := -30 + 30*float32(row)
		for col := 0; col < 3; col++ {
			bulge := float32(0)
			if col == 1 {
				bulge = 16
			}
			verts = append(verts, bsp.Vertex{
				XYZ:    vec.Vec3{x - bulge, y0 + (y1-y0)*float32(col)/2, z},
				Normal: vec.Vec3{-1, 0, 0},
			})
		}
	}
	return bsp.NewGrid(sh, 3, 3, verts)
}

// renderFrame walks the camera from the dark room into the lit one.
func (d *demo) renderFrame(tr *refresh.Renderer, clock *gametime.GameTime, eye refresh.StereoFrame) {
	t := float32(clock.Time())
	tr.BeginFrame(eye)
	tr.ClearScene()

	tr.AddRefEntityToScene(&refresh.RefEntity{
		Type:   refresh.RTModel,
		Model:  d.door,
		Origin: vec.Vec3{0, 0, 48 * math32.Sin(2*t)},
		Axis:   vec.IdentityAxis,
	})
	tr.AddRefEntityToScene(&refresh.RefEntity{
		Type:      refresh.RTPortalSurface,
		Origin:    d.mirror,
		OldOrigin: d.mirror,
	})
	tr.AddRefEntityToScene(&refresh.RefEntity{
		Type:         refresh.RTSprite,
		Origin:       vec.Vec3{250, 60, 16},
		Radius:       8,
		CustomShader: d.flare,
	})
	tr.AddRefEntityToScene(&refresh.RefEntity{
		Type:         refresh.RTBeam,
		Origin:       vec.Vec3{100, -100, -40},
		OldOrigin:    vec.Vec3{450, 100, -40},
		CustomShader: d.laser,
	})

	flicker := d.rng.Range(0.8, 1)
	tr.AddLightToScene(vec.Vec3{250, 60, 16}, 200*flicker, 1, 0.8, 0.5)
	tr.AddLinearLightToScene(vec.Vec3{100, -100, -40}, vec.Vec3{450, 100, -40}, 64, 1, 0, 0)
	tr.AddAdditiveLightToScene(vec.Vec3{-300, 0, 64}, 120, 0.3, 0.3, 1)

	mark := []bsp.PolyVert{
		{XYZ: vec.Vec3{499, -8, 8}, ST: [2]float32{0, 0}},
		{XYZ: vec.Vec3{499, -8, 24}, ST: [2]float32{0, 1}},
		{XYZ: vec.Vec3{499, 8, 24}, ST: [2]float32{1, 1}},
		{XYZ: vec.Vec3{499, 8, 8}, ST: [2]float32{1, 0}},
	}
	tr.AddPolyToScene(d.marks, len(mark), mark, 1)

	tr.RenderScene(&refresh.SceneDef{
		Width:    commandline.Width(),
		Height:   commandline.Height(),
		FovX:     90,
		FovY:     73.74,
		ViewOrg:  vec.Lerp(vec.Vec3{-300, 0, 0}, vec.Vec3{100, 0, 0}, t),
		ViewAxis: vec.AnglesToAxis(vec.Vec3{0, 20 * math32.Sin(2*t), 0}),
		Time:     clock.Milliseconds(),
	})
	tr.SetColor(nil)
	tr.StretchPic(0, 0, 32, 32, 0, 0, 1, 1, d.flare)
	tr.EndFrame()
}
