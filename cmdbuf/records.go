// SPDX-License-Identifier: GPL-2.0-or-later

package cmdbuf

import "fmt"

// ID is the kind of a record. It is encoded as the field number.
type ID int32

const (
	EndOfList ID = iota + 1
	DrawBuffer
	SetColor
	StretchPic
	DrawSurfs
	ClearColor
	SwapBuffers
	FinishBloom
)

func (id ID) String() string {
	switch id {
	case EndOfList:
		return "EndOfList"
	case DrawBuffer:
		return "DrawBuffer"
	case SetColor:
		return "SetColor"
	case StretchPic:
		return "StretchPic"
	case DrawSurfs:
		return "DrawSurfs"
	case ClearColor:
		return "ClearColor"
	case SwapBuffers:
		return "SwapBuffers"
	case FinishBloom:
		return "FinishBloom"
	}
	return fmt.Sprintf("ID(%d)", int32(id))
}

const (
	BufferBack = iota
	BufferBackLeft
	BufferBackRight
)

type DrawBufferCmd struct {
	Buffer int32
}

type SetColorCmd struct {
	Color [4]float32
}

type StretchPicCmd struct {
	Shader int32
	X, Y   float32
	W, H   float32
	S1, T1 float32
	S2, T2 float32
}

type ClearColorCmd struct {
	Color [4]float32
}

type SwapBuffersCmd struct {
	FrameCount int32
}

type FinishBloomCmd struct {
	FrameSceneNum int32
}

// ViewSnapshot is everything the back end needs to reproduce a view.
type ViewSnapshot struct {
	Origin           [3]float32
	Axis             [3][3]float32
	ViewOrigin       [3]float32
	ModelMatrix      [16]float32
	ProjectionMatrix [16]float32
	// x, y, width, height
	Viewport [4]int32
	Scissor  [4]int32
	// normal and dist of each plane
	Frustum       [5][4]float32
	ZFar          float32
	PortalView    int32
	PortalPlane   [4]float32
	PVSOrigin     [3]float32
	VisBounds     [2][3]float32
	FovX, FovY    float32
	StereoFrame   int32
	FrameSceneNum int32
	FrameCount    int32
	FirstDlight   int32
	NumDlights    int32
}

// SceneSnapshot references the per scene data stored with the frame.
type SceneSnapshot struct {
	X, Y          int32
	Width, Height int32
	FovX, FovY    float32
	ViewOrg       [3]float32
	ViewAxis      [3][3]float32
	Time          int32
	FloatTime     float32
	RdFlags       int32
	FirstEntity   int32
	NumEntities   int32
	FirstPoly     int32
	NumPolys      int32
}

// DrawSurfsCmd draws Count sorted draw surfaces starting at First.
type DrawSurfsCmd struct {
	First int32
	Count int32
	View  ViewSnapshot
	Scene SceneSnapshot
}
