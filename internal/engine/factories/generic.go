package factories

import (
	"reflect"
	"slices"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
)

// BuildFunc builds a value of type t from one resolved value per type parameter.
type BuildFunc func(t reflect.Type, args []any) (any, error)

// EmptyFunc returns the empty variant of t.
type EmptyFunc func(t reflect.Type) any

// GenericOption configures a Generic factory.
type GenericOption func(*genericFactory)

// WithParams declares the type of each parameter. A declared type is used
// when the requested tag carries no explicit argument at that position.
func WithParams(types ...reflect.Type) GenericOption {
	return func(g *genericFactory) {
		g.params = slices.Clone(types)
	}
}

type genericFactory struct {
	arity  int
	build  BuildFunc
	empty  EmptyFunc
	params []reflect.Type
}

// Generic returns a factory for wrappers of arity type parameters.
//
// Each parameter is resolved through the engine. Red and redCopy are built
// from the red parameter values, black from the black ones. When any
// parameter is degenerate (its red equals its black) and empty is non-nil,
// black is the empty variant instead.
func Generic(arity int, build BuildFunc, empty EmptyFunc, opts ...GenericOption) ports.Factory {
	g := &genericFactory{arity: arity, build: build, empty: empty}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CreateValues implements ports.Factory.
func (g *genericFactory) CreateValues(
	tag domain.TypeTag,
	r ports.Resolver,
	stack domain.TypeStack,
) (domain.Tuple, error) {
	reds := make([]any, g.arity)
	blacks := make([]any, g.arity)
	degenerate := false

	for i := range g.arity {
		tup, err := r.Resolve(g.paramTag(i, tag, stack), stack)
		if err != nil {
			return domain.Tuple{}, err
		}
		reds[i], blacks[i] = tup.Red, tup.Black
		if Equal(tup.Red, tup.Black) {
			degenerate = true
		}
	}

	t := tag.Type()
	red, err := g.call(t, reds)
	if err != nil {
		return domain.Tuple{}, err
	}

	var black any
	if degenerate && g.empty != nil {
		black, err = invoke(t, "empty", func() (any, error) {
			return g.empty(t), nil
		})
	} else {
		black, err = g.call(t, blacks)
	}
	if err != nil {
		return domain.Tuple{}, err
	}

	redCopy, err := g.call(t, reds)
	if err != nil {
		return domain.Tuple{}, err
	}
	return domain.NewTuple(red, black, redCopy), nil
}

func (g *genericFactory) paramTag(i int, tag domain.TypeTag, stack domain.TypeStack) domain.TypeTag {
	if i >= tag.NumArgs() && i < len(g.params) && g.params[i] != nil {
		return domain.NewTypeTag(g.params[i])
	}
	return ParamTag(i, tag, stack)
}

func (g *genericFactory) call(t reflect.Type, args []any) (any, error) {
	return invoke(t, "build", func() (any, error) {
		return g.build(t, slices.Clone(args))
	})
}

// Arity1 returns a factory for single-parameter wrappers such as optionals.
// empty may be nil, in which case degenerate parameters are passed to build.
func Arity1[A, T any](build func(A) T, empty func() T) ports.Factory {
	return Generic(1, func(_ reflect.Type, args []any) (any, error) {
		return build(as[A](args[0])), nil
	}, emptyOf(empty), WithParams(reflect.TypeFor[A]()))
}

// Arity2 returns a factory for two-parameter wrappers such as pairs.
func Arity2[A, B, T any](build func(A, B) T, empty func() T) ports.Factory {
	return Generic(2, func(_ reflect.Type, args []any) (any, error) {
		return build(as[A](args[0]), as[B](args[1])), nil
	}, emptyOf(empty), WithParams(reflect.TypeFor[A](), reflect.TypeFor[B]()))
}

// Collection returns a factory for collections of E. Each colour gets a fresh
// collection from empty holding one element.
func Collection[E, C any](empty func() C, add func(C, E) C) ports.Factory {
	return Arity1(func(e E) C {
		return add(empty(), e)
	}, empty)
}

// Map returns a factory for maps from K to V. Each colour gets a fresh map
// from empty holding one association.
func Map[K, V, M any](empty func() M, put func(M, K, V) M) ports.Factory {
	return Arity2(func(k K, v V) M {
		return put(empty(), k, v)
	}, empty)
}

func emptyOf[T any](empty func() T) EmptyFunc {
	if empty == nil {
		return nil
	}
	return func(reflect.Type) any {
		return empty()
	}
}

// as asserts v to A. A nil v is the zero A.
func as[A any](v any) A {
	if v == nil {
		var zero A
		return zero
	}
	return v.(A)
}
