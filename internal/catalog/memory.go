// Package catalog provides the type catalogs member resolution runs against:
// an in-memory catalog, YAML type descriptions, the embedded core runtime
// classes, and a SQLite-backed store of external types.
package catalog

import (
	"fmt"
	"sort"

	"github.com/cshunsinger/AsmSauceCore-sub000/internal/typesystem"
)

// Memory is a catalog held in a map. It is not safe for concurrent mutation.
type Memory struct {
	classes map[string]*typesystem.ClassDef
}

// NewMemory returns a catalog holding defs.
func NewMemory(defs ...*typesystem.ClassDef) (*Memory, error) {
	m := &Memory{classes: make(map[string]*typesystem.ClassDef, len(defs))}
	for _, def := range defs {
		if err := m.Add(def); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add registers a class. Registering the same name twice is an error.
func (m *Memory) Add(def *typesystem.ClassDef) error {
	if def == nil || def.Name == "" {
		return typesystem.NewUsageError("catalog entry requires a name")
	}
	if _, exists := m.classes[def.Name]; exists {
		return typesystem.NewUsageError(fmt.Sprintf("type %s is already in the catalog", def.Name))
	}
	m.classes[def.Name] = def
	return nil
}

// Class implements typesystem.Catalog.
func (m *Memory) Class(name string) (*typesystem.ClassDef, bool) {
	def, ok := m.classes[name]
	return def, ok
}

// Names returns the registered class names in sorted order.
func (m *Memory) Names() []string {
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered classes.
func (m *Memory) Len() int { return len(m.classes) }

// Layers looks a name up in each catalog in turn; earlier layers shadow later ones.
type Layers []typesystem.Catalog

// Class implements typesystem.Catalog.
func (l Layers) Class(name string) (*typesystem.ClassDef, bool) {
	for _, c := range l {
		if c == nil {
			continue
		}
		if def, ok := c.Class(name); ok {
			return def, true
		}
	}
	return nil, false
}
