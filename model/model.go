// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"q3front/math/vec"
)

// Kind selects the surface emitter that handles a model.
type Kind int

const (
	KindBad Kind = iota
	KindBrush
	KindMesh
	KindMDR
	KindIQM
)

func (k Kind) String() string {
	switch k {
	case KindBrush:
		return "brush"
	case KindMesh:
		return "mesh"
	case KindMDR:
		return "mdr"
	case KindIQM:
		return "iqm"
	}
	return "bad"
}

const (
	MAX_MODELS = 1024
)

type Model interface {
	Name() string
	Kind() Kind
	Mins() vec.Vec3
	Maxs() vec.Vec3
}
