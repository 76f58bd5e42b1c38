// Package factories provides the value strategies registered with the prefab
// engine: fixed values, arity-N generic wrappers, collections, maps and
// reflective constructors.
package factories

import (
	"reflect"

	"go.trai.ch/prefab/internal/core/domain"
)

// ParamTag returns the tag of the i-th type parameter of tag, with type
// variables replaced by their bindings on stack.
func ParamTag(i int, tag domain.TypeTag, stack domain.TypeStack) domain.TypeTag {
	return stack.Substitute(tag.Arg(i))
}

// ValueFor converts v into a value of type t.
// A nil v yields the zero value of t. Values of a named type are converted to
// t when both share the same kind.
func ValueFor(t reflect.Type, v any) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(t):
		return rv, nil
	case rv.Kind() == t.Kind() && rv.Type().ConvertibleTo(t):
		return rv.Convert(t), nil
	}
	return reflect.Value{}, InvalidFactory(t, rv.Type().String()+" is not assignable to "+t.String())
}
