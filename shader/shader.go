// SPDX-License-Identifier: GPL-2.0-or-later

package shader

// Sort is the coarse draw order class of a shader. Portals and mirrors
// sort before everything that is drawn normally.
type Sort float32

const (
	SortBad Sort = iota
	SortPortal
	SortEnvironment
	SortOpaque
	SortDecal
	SortSeeThrough
	SortBanner
	SortFog
	SortUnderwater
	SortBlend0
	SortBlend1
	SortBlend2
	SortBlend3
	SortBlend6
	SortStencilShadow
	SortAlmostNearest
	SortNearest
)

type CullType int

const (
	CullFrontSided CullType = iota
	CullBackSided
	CullTwoSided
)

// Shader is the part of a material the front end consults.
type Shader struct {
	Name string
	// Index is the registration handle.
	Index int
	// SortedIndex orders shaders by Sort and is what draw surfaces sort on.
	SortedIndex int
	Sort        Sort
	CullType    CullType
	// LightingStage is the stage used for dynamic lights, -1 if the shader
	// is not affected by them.
	LightingStage int
	// PortalRange is the distance beyond which a portal is not rendered.
	PortalRange float32
	IsSky       bool
}

// Lookup resolves shader handles and packed sort indexes.
type Lookup interface {
	ByHandle(h int) *Shader
	BySortedIndex(i int) *Shader
	Default() *Shader
}
