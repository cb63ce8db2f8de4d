// SPDX-License-Identifier: GPL-2.0-or-later

package gametime

import (
	"time"

	"q3front/math"
)

// GameTime is the clock scenes are stamped with.
type GameTime struct {
	start      time.Time
	now        func() time.Time
	time       float64
	oldTime    float64
	frameTime  float64
	frameCount int
}

func New() *GameTime {
	h := &GameTime{now: time.Now}
	h.start = h.now()
	h.Reset()
	return h
}

func (h *GameTime) Reset() {
	h.frameTime = 0.1
}

func (h *GameTime) Time() float64      { return h.time }
func (h *GameTime) OldTime() float64   { return h.oldTime }
func (h *GameTime) FrameTime() float64 { return h.frameTime }
func (h *GameTime) FrameCount() int    { return h.frameCount }

// Milliseconds returns the time in the unit scene definitions use.
func (h *GameTime) Milliseconds() int {
	return int(h.time * 1000)
}

// Update advances the clock by one frame. With a positive step every
// frame lasts step seconds, otherwise the elapsed wall time clamped to
// 1ms..100ms.
func (h *GameTime) Update(step float64) {
	h.frameCount++
	if step > 0 {
		h.frameTime = step
	} else {
		elapsed := h.now().Sub(h.start).Seconds()
		h.frameTime = math.Clamp(0.001, elapsed-h.oldTime, 0.1)
	}
	h.time = h.oldTime + h.frameTime
	h.oldTime = h.time
}
