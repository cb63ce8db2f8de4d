// SPDX-License-Identifier: GPL-2.0-or-later

package glh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"q3front/math/vec"
)

// All matrices are column major, as OpenGL expects them.

// FlipMatrix converts from the engine convention (X forward, Z up) to
// the OpenGL convention (looking down -Z).
var FlipMatrix = mgl32.Mat4{
	0, 0, -1, 0,
	-1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0, 1,
}

func Print(m mgl32.Mat4) string {
	return fmt.Sprintf("Matrix:\n%v %v %v %v\n%v %v %v %v\n%v %v %v %v\n%v %v %v %v\n",
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	)
}

func Identity() mgl32.Mat4 {
	return mgl32.Ident4()
}

// Multiply returns the matrix that applies a first and b second.
func Multiply(a, b mgl32.Mat4) mgl32.Mat4 {
	return b.Mul4(a)
}

// ViewerMatrix returns the world to eye transform for a viewer at origin
// looking along axis[0]. FlipMatrix is not applied.
func ViewerMatrix(origin vec.Vec3, axis [3]vec.Vec3) mgl32.Mat4 {
	return mgl32.Mat4{
		axis[0][0], axis[1][0], axis[2][0], 0,
		axis[0][1], axis[1][1], axis[2][1], 0,
		axis[0][2], axis[1][2], axis[2][2], 0,
		-vec.Dot(origin, axis[0]), -vec.Dot(origin, axis[1]), -vec.Dot(origin, axis[2]), 1,
	}
}

// LocalMatrix returns the local to world transform of an oriented object.
func LocalMatrix(origin vec.Vec3, axis [3]vec.Vec3) mgl32.Mat4 {
	return mgl32.Mat4{
		axis[0][0], axis[0][1], axis[0][2], 0,
		axis[1][0], axis[1][1], axis[1][2], 0,
		axis[2][0], axis[2][1], axis[2][2], 0,
		origin[0], origin[1], origin[2], 1,
	}
}

// TransformPoint returns m * (p, 1).
func TransformPoint(m mgl32.Mat4, p vec.Vec3) mgl32.Vec4 {
	return m.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
}

// TransformModelToClip returns the eye and clip space position of src.
func TransformModelToClip(src vec.Vec3, model, projection mgl32.Mat4) (eye, clip mgl32.Vec4) {
	eye = TransformPoint(model, src)
	clip = projection.Mul4x1(eye)
	return eye, clip
}

// TransformClipToWindow returns the normalized device coordinates and the
// window position of a clip space point inside a viewport of the given size.
func TransformClipToWindow(clip mgl32.Vec4, width, height int) (normalized, window mgl32.Vec3) {
	normalized = mgl32.Vec3{clip[0] / clip[3], clip[1] / clip[3], (clip[2] + clip[3]) / (2 * clip[3])}
	window = mgl32.Vec3{
		float32(int(0.5*(1+normalized[0])*float32(width) + 0.5)),
		float32(int(0.5*(1+normalized[1])*float32(height) + 0.5)),
		normalized[2],
	}
	return normalized, window
}
