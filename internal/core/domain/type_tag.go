// Package domain contains the core domain models of the prefab value engine:
// type tags, the recursion stack and value tuples.
package domain

import (
	"reflect"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

type tagKind uint8

const (
	kindConcrete tagKind = iota
	kindVariable
	kindWildcard
)

var objectType = reflect.TypeFor[any]()

// TypeTag describes a type together with its type arguments.
// A tag is either concrete (it wraps a reflect.Type), a named type variable
// that is bound by an enclosing tag, or a wildcard.
//
// Tags are immutable. Two tags are equal iff their base types, their ordered
// arguments and their parameter names are equal component-wise.
type TypeTag struct {
	typ    reflect.Type
	args   []TypeTag
	params []InternedString
	name   InternedString
	kind   tagKind
}

// NewTypeTag creates a concrete tag for t with the given explicit arguments.
func NewTypeTag(t reflect.Type, args ...TypeTag) TypeTag {
	return TypeTag{typ: t, args: slices.Clone(args)}
}

// TagOf creates a concrete tag for T.
func TagOf[T any](args ...TypeTag) TypeTag {
	return NewTypeTag(reflect.TypeFor[T](), args...)
}

// ObjectTag returns the tag of the empty interface. It is the argument
// implied for every type parameter that is missing or unresolved.
func ObjectTag() TypeTag {
	return TypeTag{typ: objectType}
}

// Wildcard returns an unresolved argument placeholder.
func Wildcard() TypeTag {
	return TypeTag{kind: kindWildcard}
}

// Var returns a type variable placeholder. It is replaced by the nearest
// enclosing binding when resolved through a TypeStack.
func Var(name string) TypeTag {
	return TypeTag{kind: kindVariable, name: NewInternedString(name)}
}

// WithParams returns a copy of t whose explicit arguments are bound, in
// order, to the given type variable names.
func (t TypeTag) WithParams(names ...string) TypeTag {
	c := t
	c.params = make([]InternedString, len(names))
	for i, n := range names {
		c.params[i] = NewInternedString(n)
	}
	return c
}

// Type returns the underlying type, or nil for variables and wildcards.
func (t TypeTag) Type() reflect.Type {
	return t.typ
}

// Args returns a copy of the explicit arguments.
func (t TypeTag) Args() []TypeTag {
	return slices.Clone(t.args)
}

// NumArgs returns the number of explicit arguments.
func (t TypeTag) NumArgs() int {
	return len(t.args)
}

// IsVar reports whether t is a type variable.
func (t TypeTag) IsVar() bool {
	return t.kind == kindVariable
}

// IsWildcard reports whether t is a wildcard.
func (t TypeTag) IsWildcard() bool {
	return t.kind == kindWildcard
}

// IsZero reports whether t is the zero TypeTag.
func (t TypeTag) IsZero() bool {
	return t.kind == kindConcrete && t.typ == nil && len(t.args) == 0
}

// VarName returns the name of a type variable.
func (t TypeTag) VarName() string {
	return t.name.String()
}

// Arg returns the tag of the i-th type argument.
// Explicit arguments win; wildcards collapse to ObjectTag. Without an explicit
// argument the structural one is derived from pointer, slice, array and map
// types. Anything else falls back to ObjectTag.
func (t TypeTag) Arg(i int) TypeTag {
	if i < len(t.args) {
		if t.args[i].IsWildcard() {
			return ObjectTag()
		}
		return t.args[i]
	}
	if t.typ == nil {
		return ObjectTag()
	}

	switch t.typ.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array:
		if i == 0 {
			return NewTypeTag(t.typ.Elem())
		}
	case reflect.Map:
		switch i {
		case 0:
			return NewTypeTag(t.typ.Key())
		case 1:
			return NewTypeTag(t.typ.Elem())
		}
	}
	return ObjectTag()
}

// Binding returns the argument bound to the named type variable, if t binds it.
func (t TypeTag) Binding(name string) (TypeTag, bool) {
	for i, p := range t.params {
		if p.String() == name && i < len(t.args) {
			return t.args[i], true
		}
	}
	return TypeTag{}, false
}

// Equal reports whether t and o describe the same type with the same arguments.
func (t TypeTag) Equal(o TypeTag) bool {
	if t.kind != o.kind || t.typ != o.typ || t.name != o.name {
		return false
	}
	if !slices.Equal(t.params, o.params) {
		return false
	}
	return slices.EqualFunc(t.args, o.args, TypeTag.Equal)
}

// Hash returns a hash consistent with Equal.
func (t TypeTag) Hash() uint64 {
	d := xxhash.New()
	t.writeKey(d)
	return d.Sum64()
}

// Key returns a canonical rendering that includes package paths.
// Equal tags have equal keys.
func (t TypeTag) Key() string {
	var b strings.Builder
	t.writeKey(&b)
	return b.String()
}

type keyWriter interface {
	WriteString(s string) (int, error)
}

func (t TypeTag) writeKey(w keyWriter) {
	switch t.kind {
	case kindWildcard:
		_, _ = w.WriteString("?")
		return
	case kindVariable:
		_, _ = w.WriteString("$" + t.name.String())
		return
	}

	if t.typ == nil {
		_, _ = w.WriteString("<nil>")
	} else {
		if pkg := t.typ.PkgPath(); pkg != "" {
			_, _ = w.WriteString(pkg + "#")
		}
		_, _ = w.WriteString(t.typ.String())
	}
	if len(t.args) == 0 {
		return
	}
	_, _ = w.WriteString("<")
	for i, a := range t.args {
		if i > 0 {
			_, _ = w.WriteString(",")
		}
		if i < len(t.params) {
			_, _ = w.WriteString(t.params[i].String() + "=")
		}
		a.writeKey(w)
	}
	_, _ = w.WriteString(">")
}

// String returns a human-readable rendering, e.g. "[]interface {}<int>".
func (t TypeTag) String() string {
	switch t.kind {
	case kindWildcard:
		return "?"
	case kindVariable:
		return t.name.String()
	}

	base := "<nil>"
	if t.typ != nil {
		base = t.typ.String()
	}
	if len(t.args) == 0 {
		return base
	}

	parts := make([]string, len(t.args))
	for i, a := range t.args {
		parts[i] = a.String()
		if i < len(t.params) {
			parts[i] = t.params[i].String() + "=" + parts[i]
		}
	}
	return base + "<" + strings.Join(parts, ", ") + ">"
}
