// SPDX-License-Identifier: GPL-2.0-or-later

// Package rand is a small deterministic noise based generator. The same
// seed always yields the same sequence, which keeps demo runs comparable.
package rand

const (
	noise1 = 0xB5297A4D
	noise2 = 0x68E31DA4
	noise3 = 0x1B56C4E9
)

type Generator struct {
	idx  uint32
	seed uint32
}

func New(seed uint32) Generator {
	return Generator{idx: 0, seed: seed}
}

func noise(p uint32, s uint32) uint32 {
	m := p
	m *= noise1
	m += s
	m ^= (m >> 8)
	m *= noise2
	m ^= (m << 8)
	m *= noise3
	m ^= (m >> 8)
	return m
}

// At returns the value at position p without advancing the generator.
func (g *Generator) At(p uint32) uint32 {
	return noise(p, g.seed)
}

func (g *Generator) rand() uint32 {
	g.idx++
	return noise(g.idx, g.seed)
}

func (g *Generator) Uint32n(n uint32) uint32 {
	return g.rand() % n
}

func (g *Generator) Intn(n int) int {
	return int(g.Uint32n(uint32(n)))
}

// Float32 returns a value in [0,1).
func (g *Generator) Float32() float32 {
	return float32(g.Uint32n(1<<24)) / (1 << 24)
}

// Range returns a value in [lo,hi).
func (g *Generator) Range(lo, hi float32) float32 {
	return lo + (hi-lo)*g.Float32()
}
