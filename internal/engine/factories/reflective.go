package factories

import (
	"reflect"

	"go.trai.ch/prefab/internal/core/ports"
)

// Slice returns a factory for slice kinds holding one element per colour.
// A degenerate element yields an empty black slice.
func Slice() ports.Factory {
	return Generic(1, func(t reflect.Type, args []any) (any, error) {
		e, err := ValueFor(t.Elem(), args[0])
		if err != nil {
			return nil, err
		}
		return reflect.Append(reflect.MakeSlice(t, 0, 1), e).Interface(), nil
	}, func(t reflect.Type) any {
		return reflect.MakeSlice(t, 0, 0).Interface()
	})
}

// Array returns a factory for array kinds. Every element is set to the
// parameter value of its colour.
func Array() ports.Factory {
	return Generic(1, func(t reflect.Type, args []any) (any, error) {
		e, err := ValueFor(t.Elem(), args[0])
		if err != nil {
			return nil, err
		}
		a := reflect.New(t).Elem()
		for i := range t.Len() {
			a.Index(i).Set(e)
		}
		return a.Interface(), nil
	}, nil)
}

// Pointer returns a factory for pointer kinds. Red and redCopy point to
// distinct copies of the red element. A degenerate element yields a nil black.
func Pointer() ports.Factory {
	return Generic(1, func(t reflect.Type, args []any) (any, error) {
		e, err := ValueFor(t.Elem(), args[0])
		if err != nil {
			return nil, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(e)
		return p.Interface(), nil
	}, func(t reflect.Type) any {
		return reflect.Zero(t).Interface()
	})
}

// MapOf returns a factory for map kinds holding one association per colour.
// A degenerate key or value yields an empty black map.
func MapOf() ports.Factory {
	return Generic(2, func(t reflect.Type, args []any) (any, error) {
		k, err := ValueFor(t.Key(), args[0])
		if err != nil {
			return nil, err
		}
		v, err := ValueFor(t.Elem(), args[1])
		if err != nil {
			return nil, err
		}
		m := reflect.MakeMapWithSize(t, 1)
		m.SetMapIndex(k, v)
		return m.Interface(), nil
	}, func(t reflect.Type) any {
		return reflect.MakeMap(t).Interface()
	})
}
