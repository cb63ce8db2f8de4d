// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"math/rand"
	"sort"
	"testing"

	"q3front/bsp"
	"q3front/math/vec"
	"q3front/shader"
)

func TestRadixSort(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	surfs := make([]DrawSurf, 10000)
	for i := range surfs {
		surfs[i].Sort = r.Uint32()
	}
	want := make([]uint32, len(surfs))
	for i := range surfs {
		want[i] = surfs[i].Sort
	}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	scratch := make([]DrawSurf, len(surfs))
	radixSort(surfs, scratch)
	for i := range surfs {
		if surfs[i].Sort != want[i] {
			t.Fatalf("Testcase %d. got: %#x, want %#x", i, surfs[i].Sort, want[i])
		}
	}

	// sorting sorted input changes nothing
	radixSort(surfs, scratch)
	for i := range surfs {
		if surfs[i].Sort != want[i] {
			t.Fatalf("resort %d. got: %#x, want %#x", i, surfs[i].Sort, want[i])
		}
	}
}

func TestRadixSortStable(t *testing.T) {
	keys := []uint32{3, 1, 3, 0xff000000, 1, 0, 3, 0x100, 0xff000000}
	surfs := make([]DrawSurf, len(keys))
	for i, k := range keys {
		surfs[i] = DrawSurf{Sort: k, Surface: &bsp.Poly{Shader: i}}
	}
	radixSort(surfs, make([]DrawSurf, len(surfs)))
	want := []int{5, 1, 4, 0, 2, 6, 7, 3, 8}
	for i, w := range want {
		if got := surfs[i].Surface.(*bsp.Poly).Shader; got != w {
			t.Errorf("Testcase %d. got: %v, want %v", i, got, w)
		}
	}
}

func TestRadixSortSmall(t *testing.T) {
	radixSort(nil, nil)
	one := []DrawSurf{{Sort: 42}}
	radixSort(one, make([]DrawSurf, 1))
	if one[0].Sort != 42 {
		t.Errorf("got: %v, want 42", one[0].Sort)
	}
}

func litList(keys []uint32) *LitSurf {
	var head *LitSurf
	for i := len(keys) - 1; i >= 0; i-- {
		head = &LitSurf{Sort: keys[i], Next: head}
	}
	return head
}

func TestSortLitSurfs(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, n := range []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 100, 1000} {
		keys := make([]uint32, n)
		for i := range keys {
			// few distinct values to get equal keys
			keys[i] = uint32(r.Intn(16))
		}
		head := sortLitSurfs(litList(keys))

		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		i := 0
		for p := head; p != nil; p = p.Next {
			if i >= n {
				t.Fatalf("Testcase %d. list longer than %d", n, n)
			}
			if p.Sort != keys[i] {
				t.Errorf("Testcase %d. element %d got: %v, want %v", n, i, p.Sort, keys[i])
			}
			i++
		}
		if i != n {
			t.Errorf("Testcase %d. got %d elements", n, i)
		}
	}
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		shaderIndex, entityNum, fogNum int
		generated, dlight              bool
		want                           uint32
	}{
		{0, 0, 0, false, false, 0},
		{0, 0, 0, false, true, 1},
		{0, 0, 31, false, false, 31 << 1},
		{0, 0, 0, true, false, 1 << 6},
		{0, RefEntityNumWorld, 0, false, false, 1023 << 7},
		{1, 0, 0, false, false, 1 << 17},
		{1<<15 - 1, 1023, 31, true, true, 0xffffffff},
		// out of range values are masked
		{1 << 15, 1024, 32, false, false, 0},
	}
	for i, tc := range tests {
		got := PackSortKey(tc.shaderIndex, tc.entityNum, tc.fogNum, tc.generated, tc.dlight)
		if got != tc.want {
			t.Errorf("Testcase %d. got: %#x, want %#x", i, got, tc.want)
		}
		if i == len(tests)-1 {
			continue
		}
		s, e, f, g, d := DecomposeSort(got)
		if s != tc.shaderIndex || e != tc.entityNum || f != tc.fogNum || g != tc.generated || d != tc.dlight {
			t.Errorf("Testcase %d. decomposed %v %v %v %v %v", i, s, e, f, g, d)
		}
	}
}

func TestSortKeyOrder(t *testing.T) {
	// the shader decides before the entity, the entity before the fog
	a := PackSortKey(1, 1023, 31, true, true)
	b := PackSortKey(2, 0, 0, false, false)
	c := PackSortKey(2, 1, 0, false, false)
	d := PackSortKey(2, 1, 1, false, false)
	if !(a < b && b < c && c < d) {
		t.Errorf("keys out of order: %#x %#x %#x %#x", a, b, c, d)
	}
}

func TestSortDrawSurfsBadShader(t *testing.T) {
	bad := &shader.Shader{Name: "textures/bad", Sort: shader.SortBad}
	env := newTestEnv(t, bad)
	tr := env.tr
	tr.LoadWorld(twoLeafWorld(t, []*bsp.Surface{wallAt(t, bad, 100, 10)}, nil))

	tr.BeginFrame(StereoCenter)
	tr.ClearScene()
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))
	if len(env.fatals) != 1 {
		t.Fatalf("got %d fatal errors, want 1", len(env.fatals))
	}
}

func TestSortDrawSurfsEmptyView(t *testing.T) {
	env := newTestEnv(t)
	tr := env.tr
	tr.LoadWorld(twoLeafWorld(t, nil, nil))

	tr.BeginFrame(StereoCenter)
	tr.ClearScene()
	tr.RenderScene(sceneAt(vec.Vec3{}, vec.IdentityAxis))
	tr.EndFrame()
	if len(env.backEnd.draws) != 1 || env.backEnd.draws[0].Count != 0 {
		t.Errorf("empty view draws %+v", env.backEnd.draws)
	}
}
