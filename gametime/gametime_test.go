// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"testing"
	"time"
)

func TestFixedStep(t *testing.T) {
	h := New()
	for i := 0; i < 4; i++ {
		h.Update(0.05)
	}
	if h.FrameCount() != 4 || h.Milliseconds() != 200 || h.FrameTime() != 0.05 {
		t.Errorf("frames %d time %v frame time %v", h.FrameCount(), h.Time(), h.FrameTime())
	}
}

func TestWallClock(t *testing.T) {
	start := time.Unix(1000, 0)
	now := start
	h := &GameTime{now: func() time.Time { return now }, start: start}
	tests := []struct {
		advance time.Duration
		want    float64
	}{
		{20 * time.Millisecond, 0.02},
		// too fast
		{0, 0.001},
		// too slow
		{time.Second, 0.1},
	}
	for i, tc := range tests {
		now = now.Add(tc.advance)
		h.Update(0)
		if d := h.FrameTime() - tc.want; d < -1e-9 || d > 1e-9 {
			t.Errorf("Testcase %d. got: %v, want %v", i, h.FrameTime(), tc.want)
		}
	}
	if d := h.Time() - 0.121; d < -1e-9 || d > 1e-9 {
		t.Errorf("time %v, want 0.121", h.Time())
	}
}
