// Package registry maps protocol-level sensor type IDs to adapter
// constructors, mirroring the original firmware's static lookup table so
// GET_SENSORS and sensor attachment can stay data-driven instead of
// hardcoding a switch per sensor kind.
package registry

import (
	"fmt"

	"github.com/powerscope/streamcore/sensor"
)

// Factory builds a fresh sensor.Adapter instance for one registered type.
type Factory func() (sensor.Adapter, error)

// Registry is an ordered, append-only table of (type_id, Factory) pairs.
type Registry struct {
	entries []entry
}

type entry struct {
	typeID  uint8
	factory Factory
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// Register adds a type ID and its constructor. Register panics on a
// duplicate type_id, matching the firmware table's static-at-boot
// invariant of distinct entries.
func (r *Registry) Register(typeID uint8, factory Factory) {
	for _, e := range r.entries {
		if e.typeID == typeID {
			panic(fmt.Sprintf("registry: duplicate sensor type_id %d", typeID))
		}
	}
	r.entries = append(r.entries, entry{typeID: typeID, factory: factory})
}

// Get constructs the adapter registered for type_id, or reports false if
// none is registered.
func (r *Registry) Get(typeID uint8) (sensor.Adapter, bool) {
	for _, e := range r.entries {
		if e.typeID == typeID {
			a, err := e.factory()
			if err != nil {
				return nil, false
			}
			return a, true
		}
	}
	return nil, false
}

// Count returns the number of registered sensor types.
func (r *Registry) Count() int { return len(r.entries) }

// TypeAt returns the type_id at index, the order entries were registered
// in. TypeAt panics if index is out of range.
func (r *Registry) TypeAt(index int) uint8 {
	return r.entries[index].typeID
}
