package prefab

import (
	"maps"
	"reflect"
	"slices"
	"sync"

	"go.trai.ch/prefab/internal/core/ports"
)

var _ ports.TypeLocator = (*NameTable)(nil)

// NameTable is a TypeLocator over an explicit table of names.
type NameTable struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewNameTable creates a table holding the given types under their
// reflect.Type.String names.
func NewNameTable(types ...reflect.Type) *NameTable {
	n := &NameTable{types: make(map[string]reflect.Type, len(types))}
	for _, t := range types {
		n.Bind(t.String(), t)
	}
	return n
}

// Bind makes t known as name. A later binding for the same name wins.
func (n *NameTable) Bind(name string, t reflect.Type) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.types[name] = t
}

// Locate implements ports.TypeLocator.
func (n *NameTable) Locate(name string) (reflect.Type, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	t, ok := n.types[name]
	return t, ok
}

// Names implements ports.TypeLocator.
func (n *NameTable) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Sorted(maps.Keys(n.types))
}

// Builtins returns a table of the predeclared basic types.
func Builtins() *NameTable {
	n := NewNameTable(
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[uintptr](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[complex64](),
		reflect.TypeFor[complex128](),
		reflect.TypeFor[string](),
	)
	n.Bind("byte", reflect.TypeFor[byte]())
	n.Bind("rune", reflect.TypeFor[rune]())
	n.Bind("any", reflect.TypeFor[any]())
	return n
}
