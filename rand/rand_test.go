// SPDX-License-Identifier: GPL-2.0-or-later

package rand

import "testing"

func TestDeterministic(t *testing.T) {
	a, b := New(7), New(7)
	for i := 0; i < 100; i++ {
		if x, y := a.Uint32n(1000), b.Uint32n(1000); x != y {
			t.Fatalf("Testcase %d. got: %v, want %v", i, x, y)
		}
	}
	c := New(8)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint32n(1<<20) == c.Uint32n(1<<20) {
			same++
		}
	}
	if same > 5 {
		t.Errorf("seeds 7 and 8 agree %d times", same)
	}
}

func TestAt(t *testing.T) {
	g := New(3)
	want := g.At(1)
	if got := g.rand(); got != want {
		t.Errorf("got: %v, want %v", got, want)
	}
	// At does not advance
	g.At(5)
	if got, want := g.rand(), g.At(2); got != want {
		t.Errorf("got: %v, want %v", got, want)
	}
}

func TestRanges(t *testing.T) {
	g := New(1)
	for i := 0; i < 1000; i++ {
		if f := g.Float32(); f < 0 || f >= 1 {
			t.Fatalf("Testcase %d. Float32 %v", i, f)
		}
		if f := g.Range(-8, 8); f < -8 || f >= 8 {
			t.Fatalf("Testcase %d. Range %v", i, f)
		}
		if n := g.Intn(5); n < 0 || n >= 5 {
			t.Fatalf("Testcase %d. Intn %v", i, n)
		}
	}
}
