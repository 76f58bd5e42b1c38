// Package protoreg binds protocol buffer messages linked into the binary to
// the prefab engine: it finds them by full name and builds their values
// through protobuf reflection.
package protoreg

import (
	"reflect"

	"go.trai.ch/prefab/internal/core/ports"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
)

var _ ports.TypeLocator = (*Locator)(nil)

// Locator finds generated message types by their full protobuf name,
// e.g. "google.protobuf.Duration".
type Locator struct {
	types *protoregistry.Types
}

// NewLocator creates a Locator over types. A nil registry means the global one.
func NewLocator(types *protoregistry.Types) *Locator {
	if types == nil {
		types = protoregistry.GlobalTypes
	}
	return &Locator{types: types}
}

// Locate implements ports.TypeLocator.
func (l *Locator) Locate(name string) (reflect.Type, bool) {
	mt, err := l.types.FindMessageByName(protoreflect.FullName(name))
	if err != nil {
		return nil, false
	}
	return goType(mt), true
}

// Names implements ports.TypeLocator.
func (l *Locator) Names() []string {
	names := make([]string, 0, l.types.NumMessages())
	l.types.RangeMessages(func(mt protoreflect.MessageType) bool {
		names = append(names, string(mt.Descriptor().FullName()))
		return true
	})
	return names
}

// goType returns the Go type of generated messages, a pointer to the struct.
func goType(mt protoreflect.MessageType) reflect.Type {
	return reflect.TypeOf(mt.Zero().Interface())
}
