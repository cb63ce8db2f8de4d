// SPDX-License-Identifier: GPL-2.0-or-later

package refresh

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"q3front/bsp"
	"q3front/cmdbuf"
	"q3front/conlog"
	"q3front/cvars"
)

// BackEndData is everything a back end needs to draw one frame.
type BackEndData struct {
	ID         uuid.UUID
	FrameCount int

	Entities  []RefEntity
	Dlights   []DLight
	Polys     []bsp.Poly
	DrawSurfs *DrawSurfBuffer
	// LitSurfs is the pool the per light lists are linked from.
	LitSurfs []LitSurf
	Commands *cmdbuf.List
}

func newBackEndData(maxDrawSurfs, maxLitSurfs, commandBufferSize int) *BackEndData {
	return &BackEndData{
		Entities:  make([]RefEntity, 0, MaxRefEntities),
		Dlights:   make([]DLight, 0, 4*MaxDlights),
		Polys:     make([]bsp.Poly, 0, MaxPolys),
		DrawSurfs: NewDrawSurfBuffer(maxDrawSurfs),
		LitSurfs:  make([]LitSurf, 0, maxLitSurfs),
		Commands:  cmdbuf.New(commandBufferSize),
	}
}

func (f *BackEndData) reset(frameCount int) {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	f.ID = id
	f.FrameCount = frameCount
	f.Entities = f.Entities[:0]
	for i := range f.Dlights {
		f.Dlights[i] = DLight{}
	}
	f.Dlights = f.Dlights[:0]
	f.Polys = f.Polys[:0]
	f.DrawSurfs.Reset()
	for i := range f.LitSurfs {
		f.LitSurfs[i] = LitSurf{}
	}
	f.LitSurfs = f.LitSurfs[:0]
	f.Commands.Reset()
}

// initNextFrame prepares the frame the front end composes next.
func (tr *Renderer) initNextFrame() {
	tr.frame().reset(tr.frameCount)
	tr.firstSceneEntity = 0
	tr.firstSceneDlight = 0
	tr.firstScenePoly = 0
	tr.numPolyVerts = 0
}

// addCommand appends a record, keeping room for reserved more bytes.
// A full buffer drops the record.
func (tr *Renderer) addCommand(id cmdbuf.ID, cmd interface{}, reserved int) bool {
	payload, err := cmdbuf.Marshal(cmd)
	if err != nil {
		tr.fatal(errors.Wrapf(err, "R_GetCommandBuffer: %v", id))
		return false
	}
	ok, err := tr.frame().Commands.Append(id, payload, reserved)
	if err != nil {
		tr.fatal(errors.Wrapf(err, "R_GetCommandBuffer: bad size %d", len(payload)))
		return false
	}
	if !ok {
		tr.pc.CommandsDropped++
	}
	return ok
}

// swapBuffersReserve is kept free by all records but the swap itself.
var swapBuffersReserve = cmdbuf.RecordSize(cmdbuf.SwapBuffers, cmdbuf.Size(&cmdbuf.SwapBuffersCmd{}))

func (tr *Renderer) addCommandReserved(id cmdbuf.ID, cmd interface{}) bool {
	return tr.addCommand(id, cmd, swapBuffersReserve)
}

// BeginFrame starts a new frame. stereo must be StereoCenter unless
// stereo rendering is enabled, then it selects the eye.
func (tr *Renderer) BeginFrame(stereo StereoFrame) {
	if !tr.registered {
		return
	}
	tr.frameCount++
	tr.frameSceneNum = 0
	tr.frame().FrameCount = tr.frameCount

	var buffer int32
	if tr.gl.StereoEnabled {
		switch stereo {
		case StereoLeft:
			buffer = cmdbuf.BufferBackLeft
		case StereoRight:
			buffer = cmdbuf.BufferBackRight
		default:
			tr.fatalf("RE_BeginFrame: Stereo is enabled, but stereoFrame was %d", stereo)
			return
		}
	} else {
		if stereo != StereoCenter {
			tr.fatalf("RE_BeginFrame: Stereo is disabled, but stereoFrame was %d", stereo)
			return
		}
		buffer = cmdbuf.BufferBack
	}
	if !tr.addCommandReserved(cmdbuf.DrawBuffer, &cmdbuf.DrawBufferCmd{Buffer: buffer}) {
		return
	}

	// without a sky the background has to be cleared
	if cvars.RFastSky.Bool() {
		tr.addCommandReserved(cmdbuf.ClearColor, &cmdbuf.ClearColorCmd{Color: [4]float32{0, 0, 0, 1}})
	}

	tr.refdef.stereoFrame = stereo
}

var colorWhite = [4]float32{1, 1, 1, 1}

// SetColor sets the color for following 2D drawing. nil is white.
func (tr *Renderer) SetColor(rgba *[4]float32) {
	if !tr.registered {
		return
	}
	c := colorWhite
	if rgba != nil {
		c = *rgba
	}
	tr.addCommandReserved(cmdbuf.SetColor, &cmdbuf.SetColorCmd{Color: c})
}

// StretchPic draws a 2D picture with the given shader handle.
func (tr *Renderer) StretchPic(x, y, w, h, s1, t1, s2, t2 float32, hShader int) {
	if !tr.registered {
		return
	}
	sh := tr.shaders.ByHandle(hShader)
	tr.addCommandReserved(cmdbuf.StretchPic, &cmdbuf.StretchPicCmd{
		Shader: int32(sh.Index),
		X:      x,
		Y:      y,
		W:      w,
		H:      h,
		S1:     s1,
		T1:     t1,
		S2:     s2,
		T2:     t2,
	})
}

// FinishBloom marks the point after which 2D drawing is not bloomed.
func (tr *Renderer) FinishBloom() {
	if !tr.registered {
		return
	}
	tr.addCommandReserved(cmdbuf.FinishBloom, &cmdbuf.FinishBloomCmd{FrameSceneNum: int32(tr.frameSceneNum)})
}

// addDrawSurfsCmd emits the draw command of the current view.
func (tr *Renderer) addDrawSurfsCmd(first, n int) {
	tr.addCommandReserved(cmdbuf.DrawSurfs, &cmdbuf.DrawSurfsCmd{
		First: int32(first),
		Count: int32(n),
		View:  tr.viewParms.snapshot(),
		Scene: tr.refdef.snapshot(),
	})
}

// EndFrame finishes the frame and hands it to the back end. It returns
// the time spent in the front and the back end since the last call.
func (tr *Renderer) EndFrame() (frontEnd, backEnd time.Duration) {
	if !tr.registered {
		return 0, 0
	}
	if !tr.addCommand(cmdbuf.SwapBuffers, &cmdbuf.SwapBuffersCmd{FrameCount: int32(tr.frameCount)}, 0) {
		return 0, 0
	}
	tr.issueRenderCommands()

	tr.cur ^= 1
	tr.initNextFrame()

	frontEnd, backEnd = tr.frontEndTime, tr.backEndTime
	tr.frontEndTime, tr.backEndTime = 0, 0
	return frontEnd, backEnd
}

func (tr *Renderer) issueRenderCommands() {
	f := tr.frame()
	f.Commands.Finish()

	tr.performanceCounters()

	if cvars.RSkipBackEnd.Bool() || tr.backEnd == nil {
		return
	}
	if tr.platform != nil && tr.platform.IsMinimized() {
		conlog.DPrintf("window minimized, frame %d not drawn", tr.frameCount)
		return
	}
	start := time.Now()
	tr.backEnd.Execute(f)
	tr.backEndTime += time.Since(start)
}

func (vp *ViewParms) snapshot() cmdbuf.ViewSnapshot {
	s := cmdbuf.ViewSnapshot{
		Origin:           vp.Ort.Origin,
		ViewOrigin:       vp.Ort.ViewOrigin,
		ModelMatrix:      vp.World.ModelMatrix,
		ProjectionMatrix: vp.ProjectionMatrix,
		Viewport:         [4]int32{int32(vp.ViewportX), int32(vp.ViewportY), int32(vp.ViewportWidth), int32(vp.ViewportHeight)},
		Scissor:          [4]int32{int32(vp.ScissorX), int32(vp.ScissorY), int32(vp.ScissorWidth), int32(vp.ScissorHeight)},
		ZFar:             vp.ZFar,
		PortalView:       int32(vp.PortalView),
		PortalPlane:      [4]float32{vp.PortalPlane.Normal[0], vp.PortalPlane.Normal[1], vp.PortalPlane.Normal[2], vp.PortalPlane.Dist},
		PVSOrigin:        vp.PVSOrigin,
		VisBounds:        [2][3]float32{vp.VisBounds[0], vp.VisBounds[1]},
		FovX:             vp.FovX,
		FovY:             vp.FovY,
		StereoFrame:      int32(vp.StereoFrame),
		FrameSceneNum:    int32(vp.FrameSceneNum),
		FrameCount:       int32(vp.FrameCount),
		FirstDlight:      int32(vp.FirstDlight),
		NumDlights:       int32(vp.NumDlights),
	}
	for i := range vp.Ort.Axis {
		s.Axis[i] = vp.Ort.Axis[i]
	}
	for i := range vp.Frustum {
		p := &vp.Frustum[i]
		s.Frustum[i] = [4]float32{p.Normal[0], p.Normal[1], p.Normal[2], p.Dist}
	}
	return s
}

func (rd *refdef) snapshot() cmdbuf.SceneSnapshot {
	s := cmdbuf.SceneSnapshot{
		X:           int32(rd.x),
		Y:           int32(rd.y),
		Width:       int32(rd.width),
		Height:      int32(rd.height),
		FovX:        rd.fovX,
		FovY:        rd.fovY,
		ViewOrg:     rd.viewOrg,
		Time:        int32(rd.time),
		FloatTime:   rd.floatTime,
		RdFlags:     int32(rd.rdFlags),
		FirstEntity: int32(rd.firstEntity),
		NumEntities: int32(len(rd.entities)),
		FirstPoly:   int32(rd.firstPoly),
		NumPolys:    int32(len(rd.polys)),
	}
	for i := range rd.viewAxis {
		s.ViewAxis[i] = rd.viewAxis[i]
	}
	return s
}
