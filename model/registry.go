// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"github.com/pkg/errors"
)

// Lookup resolves model handles. Handle 0 never resolves.
type Lookup interface {
	ByHandle(h int) Model
}

// Registry hands out handles for already loaded models.
type Registry struct {
	models []Model
	byName map[string]int
}

func NewRegistry() *Registry {
	return &Registry{
		models: []Model{nil},
		byName: make(map[string]int),
	}
}

// Register returns the handle of m, reusing the handle of a model with the same name.
func (r *Registry) Register(m Model) (int, error) {
	if m == nil {
		return 0, errors.New("Register: nil model")
	}
	if h, ok := r.byName[m.Name()]; ok {
		return h, nil
	}
	if len(r.models) >= MAX_MODELS {
		return 0, errors.Errorf("Register: too many models registering %s", m.Name())
	}
	h := len(r.models)
	r.models = append(r.models, m)
	r.byName[m.Name()] = h
	return h, nil
}

func (r *Registry) ByHandle(h int) Model {
	if h <= 0 || h >= len(r.models) {
		return nil
	}
	return r.models[h]
}

func (r *Registry) Len() int {
	return len(r.models) - 1
}
