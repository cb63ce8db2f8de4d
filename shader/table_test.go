// SPDX-License-Identifier: GPL-2.0-or-later

package shader

import (
	"testing"
)

func TestSortedIndex(t *testing.T) {
	tab := NewTable()
	blend, _ := tab.Register(&Shader{Name: "blend", Sort: SortBlend0})
	mirror, _ := tab.Register(&Shader{Name: "mirror", Sort: SortPortal})
	wall, _ := tab.Register(&Shader{Name: "wall", Sort: SortOpaque})

	order := []int{}
	for i := 0; i < tab.Len(); i++ {
		order = append(order, tab.BySortedIndex(i).Index)
	}
	want := []int{mirror, 0, wall, blend}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("got %v, want %v", order, want)
			break
		}
	}
	for i := 0; i < tab.Len(); i++ {
		if s := tab.BySortedIndex(i); s.SortedIndex != i {
			t.Errorf("%s has sorted index %d at %d", s.Name, s.SortedIndex, i)
		}
	}
}

func TestRegisterTwice(t *testing.T) {
	tab := NewTable()
	a, _ := tab.Register(&Shader{Name: "a", Sort: SortOpaque})
	b, _ := tab.Register(&Shader{Name: "a", Sort: SortBlend0})
	if a != b || tab.Len() != 2 {
		t.Errorf("handles %d %d, len %d", a, b, tab.Len())
	}
	if s, ok := tab.ByName("a"); !ok || s.Sort != SortOpaque {
		t.Errorf("ByName(a) = %v %v", s, ok)
	}
}

func TestFallback(t *testing.T) {
	tab := NewTable()
	if tab.ByHandle(99) != tab.Default() || tab.BySortedIndex(-1) != tab.Default() {
		t.Errorf("unknown handles do not fall back to the default shader")
	}
}
