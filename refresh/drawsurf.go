// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/bsp"
	"q3front/shader"
)

// Sort key layout, most significant first:
//
//	shader sorted index  15 bits
//	entity number        10 bits
//	generated surface     1 bit
//	fog index             5 bits
//	dlight                1 bit
const (
	dlightShift    = 0
	fogShift       = 1
	fogBits        = 5
	generatedShift = 6
	entityShift    = 7
	entityBits     = 10
	shaderShift    = 17
	shaderBits     = 15
)

// DrawSurf is a surface to draw together with its packed sort key.
type DrawSurf struct {
	Sort    uint32
	Surface bsp.SurfaceData
}

// LitSurf is a surface touched by a dynamic light. Each light keeps
// its own list.
type LitSurf struct {
	Sort    uint32
	Surface bsp.SurfaceData
	Next    *LitSurf
}

// PackSortKey builds a sort key. Values are masked to their field width.
func PackSortKey(shaderIndex, entityNum, fogNum int, generated, dlight bool) uint32 {
	key := uint32(shaderIndex)&(1<<shaderBits-1)<<shaderShift |
		uint32(entityNum)&(1<<entityBits-1)<<entityShift |
		uint32(fogNum)&(1<<fogBits-1)<<fogShift
	if generated {
		key |= 1 << generatedShift
	}
	if dlight {
		key |= 1 << dlightShift
	}
	return key
}

// DecomposeSort splits a sort key into its fields.
func DecomposeSort(key uint32) (shaderIndex, entityNum, fogNum int, generated, dlight bool) {
	shaderIndex = int(key>>shaderShift) & (1<<shaderBits - 1)
	entityNum = int(key>>entityShift) & (1<<entityBits - 1)
	fogNum = int(key>>fogShift) & (1<<fogBits - 1)
	generated = key&(1<<generatedShift) != 0
	dlight = key&(1<<dlightShift) != 0
	return
}

// DrawSurfBuffer is a fixed capacity list of draw surfaces. Surfaces
// added to a full buffer are dropped.
type DrawSurfBuffer struct {
	surfs   []DrawSurf
	dropped int
}

func NewDrawSurfBuffer(capacity int) *DrawSurfBuffer {
	return &DrawSurfBuffer{surfs: make([]DrawSurf, 0, capacity)}
}

// Add appends ds and reports whether there was room for it.
func (b *DrawSurfBuffer) Add(ds DrawSurf) bool {
	if len(b.surfs) == cap(b.surfs) {
		b.dropped++
		return false
	}
	b.surfs = append(b.surfs, ds)
	return true
}

func (b *DrawSurfBuffer) Len() int {
	return len(b.surfs)
}

func (b *DrawSurfBuffer) Cap() int {
	return cap(b.surfs)
}

// Dropped returns the number of surfaces lost since the last Reset.
func (b *DrawSurfBuffer) Dropped() int {
	return b.dropped
}

// Slice returns n surfaces starting at first. The result aliases the buffer.
func (b *DrawSurfBuffer) Slice(first, n int) []DrawSurf {
	return b.surfs[first : first+n]
}

func (b *DrawSurfBuffer) All() []DrawSurf {
	return b.surfs
}

func (b *DrawSurfBuffer) Reset() {
	b.surfs = b.surfs[:0]
	b.dropped = 0
}

// AddDrawSurf adds a surface of the current entity to the frame.
func (tr *Renderer) AddDrawSurf(surface bsp.SurfaceData, sh *shader.Shader, fogIndex int, dlight bool) {
	_, generated := surface.(bsp.EntitySurface)
	key := uint32(sh.SortedIndex)<<shaderShift | tr.shiftedEntityNum |
		uint32(fogIndex)&(1<<fogBits-1)<<fogShift
	if generated {
		key |= 1 << generatedShift
	}
	if dlight {
		key |= 1 << dlightShift
	}
	if !tr.frame().DrawSurfs.Add(DrawSurf{Sort: key, Surface: surface}) {
		tr.pc.DrawSurfsDropped++
	}
}

// addLitSurf adds a surface to the list of the light being processed.
func (tr *Renderer) addLitSurf(surface bsp.SurfaceData, sh *shader.Shader, fogIndex int) {
	f := tr.frame()
	if len(f.LitSurfs) == cap(f.LitSurfs) {
		tr.pc.LitSurfsDropped++
		return
	}
	tr.pc.LitSurfs++

	f.LitSurfs = append(f.LitSurfs, LitSurf{
		Sort:    uint32(sh.SortedIndex)<<shaderShift | tr.shiftedEntityNum | uint32(fogIndex)&(1<<fogBits-1)<<fogShift,
		Surface: surface,
	})
	ls := &f.LitSurfs[len(f.LitSurfs)-1]

	if tr.light.Head == nil {
		tr.light.Head = ls
	} else {
		tr.light.Tail.Next = ls
	}
	tr.light.Tail = ls
}
