package factories_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports/mocks"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.uber.org/mock/gomock"
)

type tag int

const only tag = 1

type box[T any] struct {
	value T
	full  bool
}

func newBox[T any](v T) box[T] { return box[T]{value: v, full: true} }

func emptyBox[T any]() box[T] { return box[T]{} }

type pair[A, B any] struct {
	first  A
	second B
}

func tagEq(want domain.TypeTag) gomock.Matcher {
	return gomock.Cond(func(got domain.TypeTag) bool { return got.Equal(want) })
}

func setupResolver(t *testing.T) *mocks.MockResolver {
	t.Helper()
	ctrl := gomock.NewController(t)
	return mocks.NewMockResolver(ctrl)
}

func TestValues(t *testing.T) {
	f := factories.Values("red", "black", "red")

	tup, err := f.CreateValues(domain.TagOf[string](), nil, domain.NewTypeStack())
	require.NoError(t, err)
	assert.Equal(t, domain.NewTuple("red", "black", "red"), tup)
}

func TestArity1(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[int]()), gomock.Any()).
		Return(domain.NewTuple(1, 2, 1), nil)

	f := factories.Arity1(newBox[int], emptyBox[int])
	tup, err := f.CreateValues(domain.TagOf[box[int]](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, newBox(1), tup.Red)
	assert.Equal(t, newBox(2), tup.Black)
	assert.Equal(t, newBox(1), tup.RedCopy)
}

func TestArity1_DegenerateParameterUsesEmpty(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[tag]()), gomock.Any()).
		Return(domain.NewTuple(only, only, only), nil)

	f := factories.Arity1(newBox[tag], emptyBox[tag])
	tup, err := f.CreateValues(domain.TagOf[box[tag]](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, newBox(only), tup.Red)
	assert.Equal(t, emptyBox[tag](), tup.Black)
	assert.Equal(t, newBox(only), tup.RedCopy)
}

func TestArity1_DegenerateWithoutEmpty(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(domain.NewTuple(only, only, only), nil)

	f := factories.Arity1[tag](newBox[tag], nil)
	tup, err := f.CreateValues(domain.TagOf[box[tag]](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, tup.Red, tup.Black)
}

func TestArity1_ExplicitArgumentWins(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[string]()), gomock.Any()).
		Return(domain.NewTuple("one", "two", "one"), nil)

	f := factories.Arity1(newBox[any], emptyBox[any])
	tup, err := f.CreateValues(domain.TagOf[box[any]](domain.TagOf[string]()), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, newBox[any]("one"), tup.Red)
	assert.Equal(t, newBox[any]("two"), tup.Black)
}

func TestArity2(t *testing.T) {
	r := setupResolver(t)
	gomock.InOrder(
		r.EXPECT().Resolve(tagEq(domain.TagOf[int]()), gomock.Any()).
			Return(domain.NewTuple(1, 2, 1), nil),
		r.EXPECT().Resolve(tagEq(domain.TagOf[string]()), gomock.Any()).
			Return(domain.NewTuple("one", "two", "one"), nil),
	)

	build := func(a int, b string) pair[int, string] { return pair[int, string]{a, b} }
	f := factories.Arity2(build, nil)
	tup, err := f.CreateValues(domain.TagOf[pair[int, string]](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, pair[int, string]{1, "one"}, tup.Red)
	assert.Equal(t, pair[int, string]{2, "two"}, tup.Black)
	assert.Equal(t, tup.Red, tup.RedCopy)
}

func TestGeneric_PassesStackAndPropagatesErrors(t *testing.T) {
	stack := domain.NewTypeStack(domain.TagOf[[]int]())
	want := errors.New("boom")

	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Cond(func(s domain.TypeStack) bool {
		return s.Len() == 1
	})).Return(domain.Tuple{}, want)

	_, err := factories.Slice().CreateValues(domain.TagOf[[]int](), r, stack)
	require.ErrorIs(t, err, want)
}

func TestGeneric_BuildPanicIsReported(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(domain.NewTuple(1, 2, 1), nil)

	f := factories.Generic(1, func(reflect.Type, []any) (any, error) {
		panic("kaboom")
	}, nil)
	_, err := f.CreateValues(domain.TagOf[box[int]](), r, domain.NewTypeStack())

	require.ErrorIs(t, err, domain.ErrReflectiveInvocation)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestCollection(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[string]()), gomock.Any()).
		Return(domain.NewTuple("one", "two", "one"), nil)

	f := factories.Collection(
		func() []string { return []string{} },
		func(c []string, e string) []string { return append(c, e) },
	)
	tup, err := f.CreateValues(domain.TagOf[[]string](), r, domain.NewTypeStack())
	require.NoError(t, err)

	red := tup.Red.([]string)
	redCopy := tup.RedCopy.([]string)
	assert.Equal(t, []string{"one"}, red)
	assert.Equal(t, []string{"two"}, tup.Black)
	assert.Equal(t, red, redCopy)
	assert.NotSame(t, &red[0], &redCopy[0])
}

func TestMap(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[string]()), gomock.Any()).
		Return(domain.NewTuple("one", "two", "one"), nil)
	r.EXPECT().Resolve(tagEq(domain.TagOf[int]()), gomock.Any()).
		Return(domain.NewTuple(1, 2, 1), nil)

	f := factories.Map(
		func() map[string]int { return map[string]int{} },
		func(m map[string]int, k string, v int) map[string]int {
			m[k] = v
			return m
		},
	)
	tup, err := f.CreateValues(domain.TagOf[map[string]int](), r, domain.NewTypeStack())
	require.NoError(t, err)

	red := tup.Red.(map[string]int)
	redCopy := tup.RedCopy.(map[string]int)
	assert.Equal(t, map[string]int{"one": 1}, red)
	assert.Equal(t, map[string]int{"two": 2}, tup.Black)
	assert.Equal(t, red, redCopy)
	assert.NotEqual(t, reflect.ValueOf(red).Pointer(), reflect.ValueOf(redCopy).Pointer())
}

func TestMap_DegenerateUsesEmpty(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(domain.NewTuple(only, only, only), nil).Times(2)

	f := factories.MapOf()
	tup, err := f.CreateValues(domain.TagOf[map[tag]tag](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, map[tag]tag{only: only}, tup.Red)
	assert.Empty(t, tup.Black)
}

func TestSlice_ExplicitElementTag(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[int]()), gomock.Any()).
		Return(domain.NewTuple(1, 2, 1), nil)

	tup, err := factories.Slice().CreateValues(domain.TagOf[[]any](domain.TagOf[int]()), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, []any{1}, tup.Red)
	assert.Equal(t, []any{2}, tup.Black)
	assert.Equal(t, []any{1}, tup.RedCopy)
}

func TestSlice_DegenerateUsesEmpty(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(domain.NewTuple(only, only, only), nil)

	tup, err := factories.Slice().CreateValues(domain.TagOf[[]tag](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, []tag{only}, tup.Red)
	assert.Equal(t, []tag{}, tup.Black)
}

func TestArray(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[int]()), gomock.Any()).
		Return(domain.NewTuple(1, 2, 1), nil)

	tup, err := factories.Array().CreateValues(domain.TagOf[[3]int](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Equal(t, [3]int{1, 1, 1}, tup.Red)
	assert.Equal(t, [3]int{2, 2, 2}, tup.Black)
}

func TestPointer(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(tagEq(domain.TagOf[string]()), gomock.Any()).
		Return(domain.NewTuple("one", "two", "one"), nil)

	tup, err := factories.Pointer().CreateValues(domain.TagOf[*string](), r, domain.NewTypeStack())
	require.NoError(t, err)

	red := tup.Red.(*string)
	redCopy := tup.RedCopy.(*string)
	assert.Equal(t, "one", *red)
	assert.Equal(t, "two", *tup.Black.(*string))
	assert.Equal(t, *red, *redCopy)
	assert.NotSame(t, red, redCopy)
}

func TestPointer_DegenerateIsNil(t *testing.T) {
	r := setupResolver(t)
	r.EXPECT().Resolve(gomock.Any(), gomock.Any()).
		Return(domain.NewTuple(only, only, only), nil)

	tup, err := factories.Pointer().CreateValues(domain.TagOf[*tag](), r, domain.NewTypeStack())
	require.NoError(t, err)

	assert.Nil(t, tup.Black)
	assert.NotNil(t, tup.Red)
}

func TestParamTag(t *testing.T) {
	outer := domain.TagOf[box[any]](domain.TagOf[int]()).WithParams("T")
	stack := domain.NewTypeStack(outer)

	tests := []struct {
		name string
		tag  domain.TypeTag
		want domain.TypeTag
	}{
		{"structural", domain.TagOf[[]string](), domain.TagOf[string]()},
		{"explicit", domain.TagOf[[]any](domain.TagOf[bool]()), domain.TagOf[bool]()},
		{"variable", domain.TagOf[[]any](domain.Var("T")), domain.TagOf[int]()},
		{"unbound", domain.TagOf[[]any](domain.Var("U")), domain.ObjectTag()},
		{"wildcard", domain.TagOf[[]any](domain.Wildcard()), domain.ObjectTag()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := factories.ParamTag(0, tt.tag, stack)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, factories.Equal(newBox(1), newBox(1)))
	assert.False(t, factories.Equal(newBox(1), newBox(2)))
	assert.True(t, factories.Equal([]int{1}, []int{1}))
	assert.False(t, factories.Equal(map[string]int{"a": 1}, map[string]int{}))
	assert.True(t, factories.Equal(nil, nil))
}

type link struct {
	next *link
	v    int
}

// Equal dereferences o without a nil check.
func (l *link) Equal(o *link) bool { return l.v == o.v }

func TestEqual_NilNeverReachesEqualMethod(t *testing.T) {
	assert.NotPanics(t, func() {
		assert.False(t, factories.Equal(&link{}, (*link)(nil)))
		assert.False(t, factories.Equal((*link)(nil), &link{}))
		assert.True(t, factories.Equal((*link)(nil), (*link)(nil)))
		assert.False(t, factories.Equal(link{next: &link{}, v: 1}, link{v: 2}))
	})
	assert.False(t, factories.Equal([]int(nil), map[int]int(nil)))
}
