// SPDX-License-Identifier: GPL-2.0-or-later

// Package backend consumes the frames built by the refresh front end.
// The Recorder draws nothing, it walks the command list and keeps a
// summary of what would have been drawn.
package backend

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gopxl/mainthread/v2"
	"github.com/pkg/errors"

	"q3front/cmdbuf"
	"q3front/conlog"
	"q3front/crc"
	"q3front/refresh"
)

// View is one DrawSurfs command.
type View struct {
	First      int
	Count      int
	PortalView refresh.PortalView
	Viewport   [4]int32
	Scissor    [4]int32
	ZFar       float32
	// Batches counts runs of surfaces that share shader, entity and fog.
	Batches int
	Dlit    int
	// Entities counts surfaces of entities other than the world.
	Entities int
}

// Frame summarizes one executed frame.
type Frame struct {
	ID         uuid.UUID
	FrameCount int
	Buffer     int32
	Cleared    bool
	Colors     int
	Pics       int
	Bloom      bool
	Swapped    bool
	Views      []View
	Dlights    int
	LitSurfs   int
	// Skipped counts records of unknown kind.
	Skipped int
	// Checksum covers the command list, equal lists give equal sums.
	Checksum uint16
}

// Batches returns the number of batches over all views.
func (f *Frame) Batches() int {
	n := 0
	for _, v := range f.Views {
		n += v.Batches
	}
	return n
}

// Recorder implements refresh.BackEnd.
type Recorder struct {
	mainThread bool
	keep       int

	mu     sync.Mutex
	frames []Frame
	errs   int
}

// NewRecorder returns a Recorder remembering the last keep frames.
// With mainThread set frames are decoded on the main thread, which
// requires the program to run inside mainthread.Run.
func NewRecorder(mainThread bool, keep int) *Recorder {
	if keep < 1 {
		keep = 1
	}
	return &Recorder{
		mainThread: mainThread,
		keep:       keep,
	}
}

func (r *Recorder) Execute(f *refresh.BackEndData) {
	if r.mainThread {
		mainthread.Call(func() { r.execute(f) })
		return
	}
	r.execute(f)
}

func (r *Recorder) execute(f *refresh.BackEndData) {
	fr, err := Decode(f)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.errs++
		conlog.Warnf("backend: frame %d: %v", f.FrameCount, err)
	}
	r.frames = append(r.frames, fr)
	if len(r.frames) > r.keep {
		r.frames = append(r.frames[:0], r.frames[len(r.frames)-r.keep:]...)
	}
	conlog.DPrintf("backend: frame %d views %d batches %d", fr.FrameCount, len(fr.Views), fr.Batches())
}

// Frames returns the remembered frames, oldest first.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

func (r *Recorder) Last() (Frame, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return Frame{}, false
	}
	return r.frames[len(r.frames)-1], true
}

// Errors returns the number of frames that failed to decode.
func (r *Recorder) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errs
}

// Decode walks the command list of f. Records of unknown kind are
// skipped. On error the summary holds the records read so far.
func Decode(f *refresh.BackEndData) (Frame, error) {
	fr := Frame{
		ID:         f.ID,
		FrameCount: f.FrameCount,
		Dlights:    len(f.Dlights),
		LitSurfs:   len(f.LitSurfs),
		Checksum:   crc.Checksum(f.Commands.Bytes()),
	}
	c := cmdbuf.NewCursor(f.Commands.Bytes())
	for {
		id, p, err := c.Next()
		if err != nil {
			return fr, err
		}
		switch id {
		case cmdbuf.EndOfList:
			return fr, nil
		case cmdbuf.DrawBuffer:
			var cmd cmdbuf.DrawBufferCmd
			if err := cmdbuf.Unmarshal(p, &cmd); err != nil {
				return fr, errors.Wrapf(err, "%v", id)
			}
			fr.Buffer = cmd.Buffer
		case cmdbuf.ClearColor:
			fr.Cleared = true
		case cmdbuf.SetColor:
			fr.Colors++
		case cmdbuf.StretchPic:
			fr.Pics++
		case cmdbuf.FinishBloom:
			fr.Bloom = true
		case cmdbuf.SwapBuffers:
			fr.Swapped = true
		case cmdbuf.DrawSurfs:
			var cmd cmdbuf.DrawSurfsCmd
			if err := cmdbuf.Unmarshal(p, &cmd); err != nil {
				return fr, errors.Wrapf(err, "%v", id)
			}
			v, err := drawSurfs(f.DrawSurfs, &cmd)
			if err != nil {
				return fr, errors.Wrapf(err, "view %d", len(fr.Views))
			}
			fr.Views = append(fr.Views, v)
		default:
			fr.Skipped++
		}
	}
}

// drawSurfs checks that the surfaces of one view are in the buffer and
// sorted, and counts the state changes drawing them would need.
func drawSurfs(b *refresh.DrawSurfBuffer, cmd *cmdbuf.DrawSurfsCmd) (View, error) {
	v := View{
		First:      int(cmd.First),
		Count:      int(cmd.Count),
		PortalView: refresh.PortalView(cmd.View.PortalView),
		Viewport:   cmd.View.Viewport,
		Scissor:    cmd.View.Scissor,
		ZFar:       cmd.View.ZFar,
	}
	if v.First < 0 || v.Count < 0 || v.First+v.Count > b.Len() {
		return v, errors.Errorf("surfaces %d+%d outside of %d", v.First, v.Count, b.Len())
	}
	// the low bits only carry the dlight flag
	const batchMask = ^uint32(1)
	var last uint32
	for i, ds := range b.Slice(v.First, v.Count) {
		if i > 0 && ds.Sort < last {
			return v, errors.Errorf("surface %d out of order", v.First+i)
		}
		if i == 0 || ds.Sort&batchMask != last&batchMask {
			v.Batches++
		}
		last = ds.Sort
		_, entityNum, _, _, dlight := refresh.DecomposeSort(ds.Sort)
		if dlight {
			v.Dlit++
		}
		if entityNum != refresh.RefEntityNumWorld {
			v.Entities++
		}
	}
	return v, nil
}
