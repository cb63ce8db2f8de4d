// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"q3front/cvars"
	"q3front/shader"
)

// radixSort sorts surfs by key, one byte per pass starting with the
// least significant one. scratch must be at least as long as surfs.
// Equal keys keep their order.
func radixSort(surfs, scratch []DrawSurf) {
	src, dst := surfs, scratch[:len(surfs)]
	for shift := uint(0); shift < 32; shift += 8 {
		radix(shift, src, dst)
		src, dst = dst, src
	}
	// after an even number of passes the result is back in surfs
}

func radix(shift uint, src, dst []DrawSurf) {
	var count [256]int
	for i := range src {
		count[byte(src[i].Sort>>shift)]++
	}
	var index [256]int
	for i := 1; i < 256; i++ {
		index[i] = index[i-1] + count[i-1]
	}
	for i := range src {
		b := byte(src[i].Sort >> shift)
		dst[index[b]] = src[i]
		index[b]++
	}
}

type tape struct {
	first *LitSurf
	last  *LitSurf
	count int
}

// sortLitSurfs sorts a lit surface list by key with a bottom-up merge
// over four tapes and returns the new head. The order of equal keys is
// not defined.
func sortLitSurfs(p *LitSurf) *LitSurf {
	var tapes [4]tape

	// distribute the records alternately to tapes 0 and 1
	base := 0
	for p != nil {
		next := p.Next
		p.Next = tapes[base].first
		tapes[base].first = p
		tapes[base].count++
		p = next
		base ^= 1
	}

	// merge blocks of growing size from one tape pair to the other
	base = 0
	for blockSize := 1; tapes[base+1].count != 0; blockSize <<= 1 {
		tape0 := &tapes[base]
		tape1 := &tapes[base+1]
		dest := base ^ 2
		tapes[dest].count = 0
		tapes[dest+1].count = 0
		for ; tape0.count != 0; dest ^= 1 {
			out := &tapes[dest]
			n0, n1 := blockSize, blockSize
			for (n0 > 0 && tape0.count > 0) || (n1 > 0 && tape1.count > 0) {
				var chosen *tape
				switch {
				case n0 == 0 || tape0.count == 0:
					chosen = tape1
					n1--
				case n1 == 0 || tape1.count == 0:
					chosen = tape0
					n0--
				case tape0.first.Sort > tape1.first.Sort:
					chosen = tape1
					n1--
				default:
					chosen = tape0
					n0--
				}
				chosen.count--
				rec := chosen.first
				chosen.first = rec.Next
				if out.count == 0 {
					out.first = rec
				} else {
					out.last.Next = rec
				}
				out.last = rec
				out.count++
			}
		}
		base ^= 2
	}

	if tapes[base].count > 1 {
		tapes[base].last.Next = nil
	}
	return tapes[base].first
}

// sortDrawSurfs sorts the n draw surfaces of the current view starting
// at first, renders the first portal or mirror among them and emits
// the draw command of the view.
func (tr *Renderer) sortDrawSurfs(first, n int) {
	// an empty view still gets a command, it may need to clear the screen
	if n < 1 {
		tr.addDrawSurfsCmd(first, 0)
		return
	}

	surfs := tr.frame().DrawSurfs.Slice(first, n)
	radixSort(surfs, tr.sortScratch)

	// portals and mirrors sort first, look for one to render
	for i := range surfs {
		shaderIndex, entityNum, _, _, _ := DecomposeSort(surfs[i].Sort)
		sh := tr.shaders.BySortedIndex(shaderIndex)
		if sh.Sort > shader.SortPortal {
			break
		}
		if sh.Sort == shader.SortBad {
			tr.fatalf("Shader '%s' with sort == SS_BAD", sh.Name)
			return
		}
		// a mirror completely clipped away lets the next one try
		if tr.mirrorViewBySurface(&surfs[i], entityNum) {
			// show only what is seen through the portal
			if cvars.RPortalOnly.Bool() {
				return
			}
			// scissored portals may render more than one view
			if !cvars.RFastSky.Bool() {
				break
			}
		}
	}

	if lightListMode() {
		dls := tr.viewDlights()
		for i := range dls {
			dl := &dls[i]
			if dl.Head == nil {
				continue
			}
			dl.Head = sortLitSurfs(dl.Head)
			tail := dl.Head
			for tail.Next != nil {
				tail = tail.Next
			}
			dl.Tail = tail
		}
	}

	tr.addDrawSurfsCmd(first, n)
}
