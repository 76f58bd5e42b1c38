package factories

import (
	"reflect"
	"runtime"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
)

type auto struct{}

// Auto marks a Constructor argument that is resolved from its parameter type.
var Auto any = auto{}

var errorType = reflect.TypeFor[error]()

type constructorFactory struct {
	fn   reflect.Value
	name string
	args []any
}

// Constructor returns a factory that calls fn to build each colour.
//
// fn must be a function returning the value, optionally followed by an error.
// args supplies leading arguments verbatim; missing positions and positions
// holding Auto are resolved through the engine from the parameter type.
// An error returned by fn, or a panic, is reported as
// domain.ErrReflectiveInvocation naming the type and fn.
func Constructor(fn any, args ...any) (ports.Factory, error) {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, InvalidFactory(reflect.TypeOf(fn), "constructor is not a function")
	}

	ft := v.Type()
	switch {
	case ft.NumOut() == 1:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return nil, InvalidFactory(ft, "constructor must return a value and an optional error")
	}
	if len(args) > ft.NumIn() {
		return nil, InvalidFactory(ft, "too many constructor arguments")
	}

	for i, a := range args {
		if _, ok := a.(auto); ok {
			continue
		}
		if _, err := ValueFor(ft.In(i), a); err != nil {
			return nil, err
		}
	}

	return &constructorFactory{
		fn:   v,
		name: runtime.FuncForPC(v.Pointer()).Name(),
		args: args,
	}, nil
}

// MustConstructor is like Constructor but panics on a malformed fn.
func MustConstructor(fn any, args ...any) ports.Factory {
	f, err := Constructor(fn, args...)
	if err != nil {
		panic(err)
	}
	return f
}

// CreateValues implements ports.Factory.
func (c *constructorFactory) CreateValues(
	tag domain.TypeTag,
	r ports.Resolver,
	stack domain.TypeStack,
) (domain.Tuple, error) {
	ft := c.fn.Type()
	reds := make([]reflect.Value, ft.NumIn())
	blacks := make([]reflect.Value, ft.NumIn())

	for i := range ft.NumIn() {
		in := ft.In(i)
		if i < len(c.args) {
			if _, ok := c.args[i].(auto); !ok {
				v, err := ValueFor(in, c.args[i])
				if err != nil {
					return domain.Tuple{}, err
				}
				reds[i], blacks[i] = v, v
				continue
			}
		}

		tup, err := r.Resolve(domain.NewTypeTag(in), stack)
		if err != nil {
			return domain.Tuple{}, err
		}
		if reds[i], err = ValueFor(in, tup.Red); err != nil {
			return domain.Tuple{}, err
		}
		if blacks[i], err = ValueFor(in, tup.Black); err != nil {
			return domain.Tuple{}, err
		}
	}

	t := tag.Type()
	red, err := c.call(t, reds)
	if err != nil {
		return domain.Tuple{}, err
	}
	black, err := c.call(t, blacks)
	if err != nil {
		return domain.Tuple{}, err
	}
	redCopy, err := c.call(t, reds)
	if err != nil {
		return domain.Tuple{}, err
	}
	return domain.NewTuple(red, black, redCopy), nil
}

func (c *constructorFactory) call(t reflect.Type, in []reflect.Value) (any, error) {
	return invoke(t, c.name, func() (any, error) {
		var out []reflect.Value
		if c.fn.Type().IsVariadic() {
			out = c.fn.CallSlice(in)
		} else {
			out = c.fn.Call(in)
		}
		if len(out) == 2 && !out[1].IsNil() {
			return nil, out[1].Interface().(error)
		}
		return out[0].Interface(), nil
	})
}
