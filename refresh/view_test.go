// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"testing"

	"github.com/chewxy/math32"

	"q3front/bsp"
	"q3front/cvars"
	"q3front/glh"
	"q3front/math/vec"
)

func near(a, b, eps float32) bool {
	return math32.Abs(a-b) <= eps
}

func TestSetupProjection(t *testing.T) {
	env := newTestEnv(t)
	setupView(env, vec.Vec3{}, vec.IdentityAxis)
	m := env.tr.viewParms.ProjectionMatrix
	tests := []struct {
		i    int
		want float32
	}{
		{0, 1},
		{5, 1},
		{8, 0},
		{9, 0},
		{11, -1},
		{12, 0},
		{15, 0},
		{10, -(2048 + 4) / float32(2048-4)},
		{14, -2 * 2048 * 4 / float32(2048-4)},
	}
	for _, tc := range tests {
		if !near(m[tc.i], tc.want, 1e-5) {
			t.Errorf("Testcase %d. got: %v, want %v", tc.i, m[tc.i], tc.want)
		}
	}
}

func TestFrustumPlanes(t *testing.T) {
	env := newTestEnv(t)
	setupView(env, vec.Vec3{}, vec.IdentityAxis)
	s := math32.Sqrt(0.5)
	want := []vec.Vec3{
		{s, s, 0},
		{s, -s, 0},
		{s, 0, s},
		{s, 0, -s},
		{1, 0, 0},
	}
	f := env.tr.viewParms.Frustum
	for i, w := range want {
		if !vecNear(f[i].Normal, w, 1e-5) {
			t.Errorf("Testcase %d. got: %v, want %v", i, f[i].Normal, w)
		}
		if f[i].Type != bsp.PlaneNonAxial {
			t.Errorf("Testcase %d. plane type %d", i, f[i].Type)
		}
	}
	for i := 0; i < 4; i++ {
		if !near(f[i].Dist, 0, 1e-5) {
			t.Errorf("Testcase %d. dist %v", i, f[i].Dist)
		}
	}
	if !near(f[4].Dist, cvars.RZNear.Value(), 1e-5) {
		t.Errorf("near plane at %v", f[4].Dist)
	}
	if f[1].SignBits != 2 || f[3].SignBits != 4 {
		t.Errorf("sign bits %d %d", f[1].SignBits, f[3].SignBits)
	}

	// moving the viewer moves the planes
	setupView(env, vec.Vec3{0, 0, 100}, vec.IdentityAxis)
	f = env.tr.viewParms.Frustum
	if !near(f[2].Dist, 100*s, 1e-3) || !near(f[4].Dist, cvars.RZNear.Value(), 1e-5) {
		t.Errorf("moved planes %v %v", f[2].Dist, f[4].Dist)
	}
}

func TestStereoProjection(t *testing.T) {
	setCvar(t, cvars.RStereoSeparation, "64")
	setCvar(t, cvars.RZProj, "64")
	tests := []struct {
		frame StereoFrame
		eye   vec.Vec3
	}{
		{StereoLeft, vec.Vec3{0, 1, 0}},
		{StereoRight, vec.Vec3{0, -1, 0}},
	}
	for i, tc := range tests {
		env := newTestEnv(t)
		vp := &env.tr.viewParms
		*vp = ViewParms{FovX: 90, FovY: 90, StereoFrame: tc.frame}
		vp.Ort.Axis = vec.IdentityAxis
		env.tr.setupProjection(vp, cvars.RZProj.Value(), true)

		// the side planes meet at the eye
		for j := 0; j < 4; j++ {
			if d := vp.Frustum[j].Distance(tc.eye); !near(d, 0, 1e-4) {
				t.Errorf("Testcase %d. plane %d is %v from the eye", i, j, d)
			}
		}
		sep := tc.eye[1]
		if m := vp.ProjectionMatrix; !near(m[8], sep/64, 1e-6) || !near(m[12], sep, 1e-5) {
			t.Errorf("Testcase %d. got: %v %v, want %v %v", i, m[8], m[12], sep/64, sep)
		}
	}
}

func TestObliqueNearPlane(t *testing.T) {
	env := newTestEnv(t)
	tr := env.tr
	vp := &tr.viewParms
	*vp = ViewParms{
		FovX:        90,
		FovY:        90,
		ZFar:        2048,
		PortalView:  PortalViewMirror,
		PortalPlane: bsp.NewPlane(vec.Vec3{-1, 0, 0}, -100),
	}
	// mirrored camera behind the portal, looking through it
	vp.Ort.Origin = vec.Vec3{200, 0, 0}
	vp.Ort.Axis = [3]vec.Vec3{{-1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	tr.rotateForViewer()
	tr.setupProjection(vp, cvars.RZProj.Value(), true)
	tr.setupProjectionZ(vp)

	tests := []struct {
		p vec.Vec3
		// sign of clip z + w, 0 on the near plane
		want int
	}{
		{vec.Vec3{100, 10, 5}, 0},
		{vec.Vec3{100, -30, 20}, 0},
		{vec.Vec3{50, 0, 0}, 1},
		{vec.Vec3{150, 0, 0}, -1},
	}
	for i, tc := range tests {
		_, clip := glh.TransformModelToClip(tc.p, vp.World.ModelMatrix, vp.ProjectionMatrix)
		d := clip[2] + clip[3]
		switch tc.want {
		case 0:
			if !near(d, 0, 1e-2) {
				t.Errorf("Testcase %d. got: %v, want 0", i, d)
			}
		case 1:
			if d <= 0 {
				t.Errorf("Testcase %d. got: %v, want > 0", i, d)
			}
		case -1:
			if d >= 0 {
				t.Errorf("Testcase %d. got: %v, want < 0", i, d)
			}
		}
	}

	// the regular view keeps the standard depth range
	vp.PortalView = PortalViewNone
	tr.setupProjectionZ(vp)
	if vp.ProjectionMatrix[2] != 0 || vp.ProjectionMatrix[6] != 0 {
		t.Errorf("oblique terms left in a regular view")
	}
}

func TestSetFarClip(t *testing.T) {
	env := newTestEnv(t)
	tr := env.tr
	tr.viewParms.VisBounds = [2]vec.Vec3{{-100, -100, -100}, {100, 100, 100}}
	tr.setFarClip()
	if want := 100 * math32.Sqrt(3); !near(tr.viewParms.ZFar, want, 1e-2) {
		t.Errorf("got: %v, want %v", tr.viewParms.ZFar, want)
	}
	tr.viewParms.Ort.Origin = vec.Vec3{100, 100, 100}
	tr.setFarClip()
	if want := 200 * math32.Sqrt(3); !near(tr.viewParms.ZFar, want, 1e-2) {
		t.Errorf("got: %v, want %v", tr.viewParms.ZFar, want)
	}
	tr.refdef.rdFlags = RDFNoWorldModel
	tr.setFarClip()
	if tr.viewParms.ZFar != 2048 {
		t.Errorf("got: %v, want 2048", tr.viewParms.ZFar)
	}
}

func TestRotateForEntity(t *testing.T) {
	env := newTestEnv(t)
	setupView(env, vec.Vec3{}, vec.IdentityAxis)
	vp := &env.tr.viewParms

	ent := &RefEntity{Type: RTModel, Origin: vec.Vec3{10, 0, 0}, Axis: vec.IdentityAxis}
	ort := RotateForEntity(ent, vp)
	if !vecNear(ort.ViewOrigin, vec.Vec3{-10, 0, 0}, 1e-5) {
		t.Errorf("view origin %v", ort.ViewOrigin)
	}
	// the entity origin lands where the world point does
	got := glh.TransformPoint(ort.ModelMatrix, vec.Vec3{})
	want := glh.TransformPoint(vp.World.ModelMatrix, ent.Origin)
	for i := range got {
		if !near(got[i], want[i], 1e-4) {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, want)
		}
	}

	ent.NonNormalizedAxes = true
	ent.Axis = [3]vec.Vec3{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}
	if ort := RotateForEntity(ent, vp); !vecNear(ort.ViewOrigin, vec.Vec3{-10, 0, 0}, 1e-5) {
		t.Errorf("scaled view origin %v", ort.ViewOrigin)
	}

	sprite := &RefEntity{Type: RTSprite, Origin: vec.Vec3{10, 0, 0}}
	if RotateForEntity(sprite, vp) != vp.World {
		t.Errorf("sprites do not use the world orientation")
	}
}

func TestLocalToWorld(t *testing.T) {
	env := newTestEnv(t)
	tr := env.tr
	tr.ort = Orientation{
		Origin: vec.Vec3{10, 20, 30},
		// quarter turn around z
		Axis: [3]vec.Vec3{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}},
	}
	tests := []struct {
		local, world vec.Vec3
	}{
		{vec.Vec3{0, 0, 0}, vec.Vec3{10, 20, 30}},
		{vec.Vec3{1, 0, 0}, vec.Vec3{10, 21, 30}},
		{vec.Vec3{0, 1, 0}, vec.Vec3{9, 20, 30}},
		{vec.Vec3{0, 0, 1}, vec.Vec3{10, 20, 31}},
	}
	for i, tc := range tests {
		got := tr.LocalPointToWorld(tc.local)
		if !vecNear(got, tc.world, 1e-5) {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, tc.world)
		}
		back := tr.WorldToLocal(vec.Sub(got, tr.ort.Origin))
		if !vecNear(back, tc.local, 1e-5) {
			t.Errorf("Testcase %d. back got: %v, want %v", i, back, tc.local)
		}
	}
}
