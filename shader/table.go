// SPDX-License-Identifier: GPL-2.0-or-later

package shader

import (
	"sort"

	"github.com/pkg/errors"
)

const (
	MAX_SHADERS = 1 << 15
)

// Table holds registered shaders. Handle 0 is the default shader.
type Table struct {
	shaders []*Shader
	sorted  []*Shader
	byName  map[string]*Shader
}

func NewTable() *Table {
	t := &Table{byName: make(map[string]*Shader)}
	t.add(&Shader{
		Name:          "<default>",
		Sort:          SortOpaque,
		LightingStage: 0,
	})
	return t
}

// Register adds s and returns its handle. Registering a name twice returns
// the existing handle.
func (t *Table) Register(s *Shader) (int, error) {
	if old, ok := t.byName[s.Name]; ok {
		return old.Index, nil
	}
	if len(t.shaders) >= MAX_SHADERS {
		return 0, errors.Errorf("Register: MAX_SHADERS hit registering %s", s.Name)
	}
	t.add(s)
	return s.Index, nil
}

func (t *Table) add(s *Shader) {
	s.Index = len(t.shaders)
	t.shaders = append(t.shaders, s)
	t.byName[s.Name] = s
	t.sorted = append(t.sorted, s)
	// keep equal sorts in registration order
	sort.SliceStable(t.sorted, func(i, j int) bool {
		return t.sorted[i].Sort < t.sorted[j].Sort
	})
	for i, sh := range t.sorted {
		sh.SortedIndex = i
	}
}

func (t *Table) ByHandle(h int) *Shader {
	if h < 0 || h >= len(t.shaders) {
		return t.shaders[0]
	}
	return t.shaders[h]
}

func (t *Table) ByName(name string) (*Shader, bool) {
	s, ok := t.byName[name]
	return s, ok
}

func (t *Table) BySortedIndex(i int) *Shader {
	if i < 0 || i >= len(t.sorted) {
		return t.shaders[0]
	}
	return t.sorted[i]
}

func (t *Table) Default() *Shader {
	return t.shaders[0]
}

func (t *Table) Len() int {
	return len(t.shaders)
}
