// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"testing"

	"q3front/bsp"
	"q3front/cvars"
	"q3front/math/vec"
	"q3front/shader"
)

type portalEnv struct {
	*testEnv
	mirror *shader.Shader
	// surface seen from the origin
	front *bsp.Surface
	// surface only seen in the mirror
	back *bsp.Surface
}

// newPortalEnv builds a world with a portal surface at x = 100 facing
// the origin and a second one at x = 50 facing away from it.
func newPortalEnv(t *testing.T, portalRange float32) *portalEnv {
	t.Helper()
	m := &shader.Shader{Name: "textures/base/mirror", Sort: shader.SortPortal, PortalRange: portalRange}
	env := &portalEnv{testEnv: newTestEnv(t, m), mirror: m}
	env.front = wallAt(t, m, 100, 50)
	back, err := bsp.NewFace(m, bsp.NewPlane(vec.Vec3{1, 0, 0}, 50), []vec.Vec3{
		{50, -10, -10}, {50, 10, -10}, {50, 10, 10}, {50, -10, 10},
	})
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	env.back = back
	env.tr.LoadWorld(twoLeafWorld(t, []*bsp.Surface{env.front, env.back}, nil))
	return env
}

func (env *portalEnv) render(ents ...RefEntity) Counters {
	tr := env.tr
	tr.BeginFrame(StereoCenter)
	tr.ClearScene()
	for i := range ents {
		tr.AddRefEntityToScene(&ents[i])
	}
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))
	pc := tr.Counters()
	tr.EndFrame()
	return pc
}

var mirrorEntity = RefEntity{
	Type:      RTPortalSurface,
	Origin:    vec.Vec3{100, 0, 0},
	OldOrigin: vec.Vec3{100, 0, 0},
}

var portalEntity = RefEntity{
	Type:      RTPortalSurface,
	Origin:    vec.Vec3{100, 0, 0},
	OldOrigin: vec.Vec3{0, 500, 0},
	Axis:      vec.IdentityAxis,
}

func TestMirrorView(t *testing.T) {
	setCvar(t, cvars.RNoVis, "0")
	env := newPortalEnv(t, 0)
	pc := env.render(mirrorEntity)

	if len(env.fatals) != 0 {
		t.Fatalf("fatal: %v", env.fatals)
	}
	if pc.Views != 2 || pc.PortalViews != 1 || pc.PortalsRefused != 1 {
		t.Errorf("views %d portal views %d refused %d", pc.Views, pc.PortalViews, pc.PortalsRefused)
	}

	draws := env.backEnd.draws
	if len(draws) != 2 {
		t.Fatalf("got %d draw commands, want 2", len(draws))
	}
	// the mirror view is emitted before the view it is seen in
	mirror, main := draws[0], draws[1]
	if mirror.View.PortalView != int32(PortalViewMirror) || main.View.PortalView != int32(PortalViewNone) {
		t.Errorf("portal views %d %d", mirror.View.PortalView, main.View.PortalView)
	}
	if mirror.First != 1 || mirror.Count != 1 || main.First != 0 || main.Count != 1 {
		t.Errorf("ranges %d+%d %d+%d", mirror.First, mirror.Count, main.First, main.Count)
	}
	if want := [4]float32{-1, 0, 0, -100}; mirror.View.PortalPlane != want {
		t.Errorf("portal plane %v, want %v", mirror.View.PortalPlane, want)
	}
	if want := [3]float32{200, 0, 0}; !vecNear(mirror.View.Origin, want, 1e-3) {
		t.Errorf("mirrored origin %v, want %v", mirror.View.Origin, want)
	}
	if want := [3]float32{-1, 0, 0}; !vecNear(mirror.View.Axis[0], want, 1e-5) {
		t.Errorf("mirrored forward %v, want %v", mirror.View.Axis[0], want)
	}
	if mirror.View.PVSOrigin != [3]float32{100, 0, 0} {
		t.Errorf("pvs origin %v", mirror.View.PVSOrigin)
	}
	if env.tr.ViewParms().PortalView != PortalViewNone {
		t.Errorf("view parms not restored")
	}
}

func TestMirrorViewRestoresState(t *testing.T) {
	env := newPortalEnv(t, 0)
	tr := env.tr
	tr.BeginFrame(StereoCenter)
	tr.ClearScene()
	tr.AddRefEntityToScene(&mirrorEntity)
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))

	var ds *DrawSurf
	for i, d := range tr.Frame().DrawSurfs.All() {
		if d.Surface == env.front.Data {
			ds = &tr.Frame().DrawSurfs.All()[i]
		}
	}
	if ds == nil {
		t.Fatalf("mirror surface not drawn")
	}

	parms := tr.ViewParms()
	ort := tr.Orientation()
	entityNum := tr.currentEntityNum
	views := tr.Counters().Views
	if !tr.mirrorViewBySurface(ds, RefEntityNumWorld) {
		t.Fatalf("mirror not rendered")
	}
	if tr.Counters().Views != views+1 {
		t.Errorf("no view rendered")
	}
	if tr.ViewParms() != parms {
		t.Errorf("view parms changed")
	}
	if tr.Orientation() != ort {
		t.Errorf("orientation changed")
	}
	if tr.currentEntityNum != entityNum {
		t.Errorf("current entity %d, want %d", tr.currentEntityNum, entityNum)
	}
}

func TestPortalView(t *testing.T) {
	tests := []struct {
		portalRange float32
		ents        []RefEntity
		noPortals   string
		views       int
		portalViews int
	}{
		// no portal entity
		{1000, nil, "0", 1, 0},
		// out of range
		{100, []RefEntity{portalEntity}, "0", 1, 0},
		{1000, []RefEntity{portalEntity}, "0", 2, 1},
		// the entity is too far from the surface plane
		{1000, []RefEntity{{Type: RTPortalSurface, Origin: vec.Vec3{300, 0, 0}, OldOrigin: vec.Vec3{0, 500, 0}}}, "0", 1, 0},
		{1000, []RefEntity{portalEntity}, "1", 1, 0},
		// mirrors are not limited by range
		{1, []RefEntity{mirrorEntity}, "1", 2, 1},
		{1, []RefEntity{mirrorEntity}, "2", 1, 0},
	}
	for i, tc := range tests {
		setCvar(t, cvars.RNoPortals, tc.noPortals)
		env := newPortalEnv(t, tc.portalRange)
		pc := env.render(tc.ents...)
		if len(env.fatals) != 0 {
			t.Errorf("Testcase %d. fatal: %v", i, env.fatals)
		}
		if pc.Views != tc.views || pc.PortalViews != tc.portalViews {
			t.Errorf("Testcase %d. got: %d/%d views, want %d/%d", i, pc.Views, pc.PortalViews, tc.views, tc.portalViews)
		}
	}
}

func TestPortalViewKind(t *testing.T) {
	env := newPortalEnv(t, 1000)
	env.render(portalEntity)
	draws := env.backEnd.draws
	if len(draws) < 2 {
		t.Fatalf("got %d draw commands", len(draws))
	}
	v := draws[0].View
	if v.PortalView != int32(PortalViewPortal) {
		t.Errorf("portal view %d", v.PortalView)
	}
	if v.PVSOrigin != [3]float32{0, 500, 0} {
		t.Errorf("pvs origin %v", v.PVSOrigin)
	}
	// the viewer is 100 units in front of the portal, so is the camera
	if !vecNear(v.Origin, [3]float32{-100, 500, 0}, 1e-3) {
		t.Errorf("camera at %v", v.Origin)
	}
}

func TestPortalOnly(t *testing.T) {
	setCvar(t, cvars.RPortalOnly, "1")
	env := newPortalEnv(t, 0)
	env.render(mirrorEntity)
	draws := env.backEnd.draws
	if len(draws) != 1 || draws[0].View.PortalView != int32(PortalViewMirror) {
		t.Errorf("draw commands %+v", draws)
	}
}

func TestPortalScissor(t *testing.T) {
	setCvar(t, cvars.RPortalScissor, "1")
	env := newPortalEnv(t, 0)
	env.render(mirrorEntity)
	draws := env.backEnd.draws
	if len(draws) != 2 {
		t.Fatalf("got %d draw commands", len(draws))
	}
	// the mirror covers the middle half of a 640x480 view
	s := draws[0].View.Scissor
	want := [4]int32{160, 120, 320, 240}
	for i := range s {
		if d := s[i] - want[i]; d < -2 || d > 2 {
			t.Errorf("Testcase %d. got: %v, want %v", i, s[i], want[i])
		}
	}
	if v := draws[1].View.Scissor; v != [4]int32{0, 0, 640, 480} {
		t.Errorf("main view scissor %v", v)
	}
}

func TestSurfIsOffscreen(t *testing.T) {
	env := newPortalEnv(t, 1000)
	setupView(env.testEnv, vec.Vec3{}, vec.IdentityAxis)
	tr := env.tr
	key := PackSortKey(env.mirror.SortedIndex, RefEntityNumWorld, 0, false, false)
	tests := []struct {
		surf *bsp.Surface
		want bool
	}{
		{env.front, false},
		// facing away
		{env.back, true},
		// behind the viewer
		{wallAt(t, env.mirror, -100, 10), true},
	}
	for i, tc := range tests {
		ds := &DrawSurf{Sort: key, Surface: tc.surf.Data}
		if got, _ := tr.surfIsOffscreen(ds, RefEntityNumWorld); got != tc.want {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, tc.want)
		}
	}
}

func vecNear(a, b [3]float32, eps float32) bool {
	for i := range a {
		if d := a[i] - b[i]; d < -eps || d > eps {
			return false
		}
	}
	return true
}

func TestModelViewBoundsBehindViewer(t *testing.T) {
	env := newTestEnv(t)
	setupView(env, vec.Vec3{}, vec.IdentityAxis)
	tests := []struct {
		verts      []vec.Vec3
		mins, maxs [2]int
	}{
		// in front of the viewer, right half of the view
		{[]vec.Vec3{{100, -60, -10}, {100, -60, 10}, {100, -100, 10}, {100, -100, -10}}, [2]int{511, 215}, [2]int{640, 264}},
		// starts behind the viewer to the right, only the right side grows
		{[]vec.Vec3{{-50, -60, -10}, {-50, -60, 10}, {100, -60, 10}, {100, -60, -10}}, [2]int{511, 0}, [2]int{640, 480}},
		// behind the viewer to the left
		{[]vec.Vec3{{-50, 60, -10}, {-50, 60, 10}, {100, 60, 10}, {100, 60, -10}}, [2]int{0, 0}, [2]int{128, 480}},
	}
	for i, tc := range tests {
		verts := make([]bsp.Vertex, len(tc.verts))
		for j, p := range tc.verts {
			verts[j].XYZ = p
		}
		mins, maxs := env.tr.modelViewBounds(verts)
		for j := 0; j < 2; j++ {
			if d := mins[j] - tc.mins[j]; d < -2 || d > 2 {
				t.Errorf("Testcase %d. got: mins %v, want %v", i, mins, tc.mins)
			}
			if d := maxs[j] - tc.maxs[j]; d < -2 || d > 2 {
				t.Errorf("Testcase %d. got: maxs %v, want %v", i, maxs, tc.maxs)
			}
		}
	}
}

func TestWidenBehind(t *testing.T) {
	tests := []struct {
		da, db float32
		a, b   float32
	}{
		{1, 1, 0, 0},
		{-1, 1, 1, 0},
		{1, -1, 0, -1},
		// outside of both, the farther plane wins
		{-5, -1, 1, 0},
		{-1, -5, 0, -1},
	}
	for i, tc := range tests {
		var a, b float32
		widenBehind(tc.da, tc.db, &a, 1, &b, -1)
		if a != tc.a || b != tc.b {
			t.Errorf("Testcase %d. got: %v %v, want %v %v", i, a, b, tc.a, tc.b)
		}
	}
}

func TestMirrorViewWithoutLightRoom(t *testing.T) {
	setCvar(t, cvars.RDlightMode, "1")
	setCvar(t, cvars.RNoVis, "0")
	env := newPortalEnv(t, 0)
	tr := env.tr
	tr.BeginFrame(StereoCenter)
	// leave room for the scene light only
	f := tr.frame()
	f.Dlights = f.Dlights[:cap(f.Dlights)-1]
	tr.ClearScene()
	tr.AddRefEntityToScene(&mirrorEntity)
	tr.AddLightToScene(vec.Vec3{90, 0, 0}, 50, 1, 1, 1)
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))

	pc := tr.Counters()
	if pc.PortalViews != 1 {
		t.Fatalf("got %d portal views", pc.PortalViews)
	}
	if pc.DlightsDropped != 1 {
		t.Errorf("dropped %d lights, want 1", pc.DlightsDropped)
	}
	dls := tr.Frame().Dlights
	if len(dls) != cap(dls) {
		t.Errorf("got %d lights, want %d", len(dls), cap(dls))
	}
	// the mirror view did not touch the lists of the main view
	if h := dls[len(dls)-1].Head; h == nil || h.Surface != env.front.Data {
		t.Errorf("main view light list lost")
	}
	tr.EndFrame()
	draws := env.backEnd.draws
	if len(draws) != 2 {
		t.Fatalf("got %d draw commands", len(draws))
	}
	if draws[0].View.NumDlights != 0 || draws[1].View.NumDlights != 1 {
		t.Errorf("lights %d %d, want 0 1", draws[0].View.NumDlights, draws[1].View.NumDlights)
	}
}

func TestMirrorViewWithoutPortalEntity(t *testing.T) {
	env := newPortalEnv(t, 1000)
	tr := env.tr
	// a mirror face carried by a brush entity away from the origin
	face := wallAt(t, env.mirror, 100, 50)
	h, err := env.models.Register(bsp.NewBModel("*1", []*bsp.Surface{face}))
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	tr.BeginFrame(StereoCenter)
	tr.ClearScene()
	tr.AddRefEntityToScene(&RefEntity{Type: RTModel, Model: h, Origin: vec.Vec3{10, 0, 0}, Axis: vec.IdentityAxis})
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))
	if len(env.fatals) != 0 {
		t.Fatalf("fatal: %v", env.fatals)
	}

	tests := []struct {
		surf      *bsp.Surface
		entityNum int
	}{
		{env.front, RefEntityNumWorld},
		{face, 0},
	}
	for i, tc := range tests {
		var ds *DrawSurf
		all := tr.Frame().DrawSurfs.All()
		for j := range all {
			if all[j].Surface == tc.surf.Data {
				ds = &all[j]
			}
		}
		if ds == nil {
			t.Fatalf("Testcase %d. surface not drawn", i)
		}
		tr.rotateForViewer()
		tr.currentEntityNum = RefEntityNumWorld
		tr.currentEntity = nil
		parms := tr.ViewParms()
		ort := tr.Orientation()
		views := tr.Counters().Views

		if tr.mirrorViewBySurface(ds, tc.entityNum) {
			t.Errorf("Testcase %d. rendered a view without portal entity", i)
		}
		if tr.Counters().Views != views {
			t.Errorf("Testcase %d. got: %d views, want %d", i, tr.Counters().Views, views)
		}
		if tr.ViewParms().PortalView != PortalViewNone {
			t.Errorf("Testcase %d. got: %v, want %v", i, tr.ViewParms().PortalView, PortalViewNone)
		}
		if tr.ViewParms() != parms {
			t.Errorf("Testcase %d. view parms changed", i)
		}
		if tr.Orientation() != ort {
			t.Errorf("Testcase %d. got: %v, want %v", i, tr.Orientation().Origin, ort.Origin)
		}
		if tr.currentEntityNum != RefEntityNumWorld || tr.currentEntity != nil {
			t.Errorf("Testcase %d. current entity %d not restored", i, tr.currentEntityNum)
		}
	}
}
