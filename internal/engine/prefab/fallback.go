package prefab

import (
	"reflect"
	"unsafe"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/zerr"
)

var (
	sliceFactory   = factories.Slice()
	arrayFactory   = factories.Array()
	pointerFactory = factories.Pointer()
	mapFactory     = factories.MapOf()
	anyFactory     = factories.Values("one", "two", "one")
)

// fallback picks the built-in strategy for a type without a registration.
func (e *Engine) fallback(t reflect.Type) (ports.Factory, error) {
	switch t.Kind() {
	case reflect.Bool:
		return scalar(t, true, false), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return scalar(t, 1, 2), nil
	case reflect.Float32, reflect.Float64:
		return scalar(t, 0.5, 1.0), nil
	case reflect.Complex64, reflect.Complex128:
		return scalar(t, 1+1i, 2+2i), nil
	case reflect.String:
		return scalar(t, "one", "two"), nil
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return anyFactory, nil
		}
	case reflect.Pointer:
		return pointerFactory, nil
	case reflect.Slice:
		return sliceFactory, nil
	case reflect.Array:
		return arrayFactory, nil
	case reflect.Map:
		return mapFactory, nil
	case reflect.Struct:
		return structFactory{unexported: e.unexported}, nil
	}
	return nil, unregistered(t.String())
}

// scalar converts red and black to t, so named types get values of their own type.
func scalar(t reflect.Type, red, black any) ports.Factory {
	r := reflect.ValueOf(red).Convert(t).Interface()
	b := reflect.ValueOf(black).Convert(t).Interface()
	return factories.Values(r, b, r)
}

// structFactory composes a struct field by field in declaration order.
type structFactory struct {
	unexported bool
}

// CreateValues implements ports.Factory.
func (s structFactory) CreateValues(
	tag domain.TypeTag,
	r ports.Resolver,
	stack domain.TypeStack,
) (domain.Tuple, error) {
	t := tag.Type()
	red := reflect.New(t).Elem()
	black := reflect.New(t).Elem()
	redCopy := reflect.New(t).Elem()

	for i := range t.NumField() {
		f := t.Field(i)
		if f.Name == "_" || (!f.IsExported() && !s.unexported) {
			continue
		}

		tup, err := r.Resolve(domain.NewTypeTag(f.Type), stack)
		if err == nil {
			err = setField(red.Field(i), tup.Red)
		}
		if err == nil {
			err = setField(black.Field(i), tup.Black)
		}
		if err == nil {
			err = setField(redCopy.Field(i), tup.RedCopy)
		}
		if err != nil {
			return domain.Tuple{}, zerr.With(err, "field", t.String()+"."+f.Name)
		}
	}
	return domain.NewTuple(red.Interface(), black.Interface(), redCopy.Interface()), nil
}

func setField(fv reflect.Value, v any) error {
	val, err := factories.ValueFor(fv.Type(), v)
	if err != nil {
		return err
	}
	if !fv.CanSet() {
		fv = reflect.NewAt(fv.Type(), unsafe.Pointer(fv.UnsafeAddr())).Elem()
	}
	fv.Set(val)
	return nil
}
