package prefab_test

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports/mocks"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/prefab/internal/engine/prefab"
	"go.uber.org/mock/gomock"
)

type color struct {
	name string
}

type tag int

const only tag = 1

type box[T any] struct {
	value T
	full  bool
}

func newBox[T any](v T) box[T] { return box[T]{value: v, full: true} }

func emptyBox[T any]() box[T] { return box[T]{} }

type node struct {
	next  *node
	value int
}

var errClosed = errors.New("account closed")

type account struct {
	owner string
}

func openAccount(owner string) (*account, error) {
	if owner == "two" {
		return nil, errClosed
	}
	return &account{owner: owner}, nil
}

func TestEngine_FixedValues(t *testing.T) {
	e := prefab.New()
	red, black, redCopy := &color{"RED"}, &color{"BLACK"}, &color{"RED"}
	require.NoError(t, e.Register(reflect.TypeFor[*color](), factories.Values(red, black, redCopy)))

	tag := domain.TagOf[*color]()
	gotRed, err := e.GiveRed(tag)
	require.NoError(t, err)
	gotBlack, err := e.GiveBlack(tag)
	require.NoError(t, err)
	gotRedCopy, err := e.GiveRedCopy(tag)
	require.NoError(t, err)

	assert.Same(t, red, gotRed)
	assert.Same(t, black, gotBlack)
	assert.Same(t, redCopy, gotRedCopy)
}

func TestEngine_DegenerateParameterUsesEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Cond(func(msg string) bool {
		return strings.Contains(msg, "prefab_test.tag")
	})).Times(1)

	e := prefab.New(prefab.WithLogger(logger))
	require.NoError(t, e.Register(reflect.TypeFor[tag](), factories.Values(only, only, only)))
	require.NoError(t, e.Register(reflect.TypeFor[box[tag]](), factories.Arity1(newBox[tag], emptyBox[tag])))

	red, err := prefab.Red[box[tag]](e)
	require.NoError(t, err)
	black, err := prefab.Black[box[tag]](e)
	require.NoError(t, err)
	redCopy, err := prefab.RedCopy[box[tag]](e)
	require.NoError(t, err)

	assert.Equal(t, newBox(only), red)
	assert.Equal(t, emptyBox[tag](), black)
	assert.Equal(t, red, redCopy)
}

func TestEngine_RecursiveStructTerminates(t *testing.T) {
	e := prefab.New()

	red, err := prefab.Red[node](e)
	require.NoError(t, err)
	black, err := prefab.Black[node](e)
	require.NoError(t, err)
	redCopy, err := prefab.RedCopy[node](e)
	require.NoError(t, err)

	require.NotNil(t, red.next)
	assert.Nil(t, red.next.next, "recursion must stop after one level")
	assert.Equal(t, 1, red.value)
	assert.Equal(t, 2, black.value)
	assert.Equal(t, red, redCopy)
	assert.NotSame(t, red.next, redCopy.next)
	assert.NotEqual(t, red, black)
	assert.True(t, e.Realized(domain.TagOf[*node]()))
}

type left struct {
	right *right
	n     int
}

type right struct {
	left *left
	s    string
}

func TestEngine_MutualRecursionTerminates(t *testing.T) {
	e := prefab.New()

	red, err := prefab.Red[left](e)
	require.NoError(t, err)
	black, err := prefab.Black[left](e)
	require.NoError(t, err)

	require.NotNil(t, red.right)
	assert.Equal(t, "one", red.right.s)
	assert.NotEqual(t, red, black)

	redRight, err := prefab.Red[*right](e)
	require.NoError(t, err)
	assert.Same(t, red.right, redRight)
}

type tree[T any] struct {
	children []tree[T]
	value    T
}

func TestEngine_SelfReferentialGenericTerminates(t *testing.T) {
	e := prefab.New()

	red, err := prefab.Red[tree[string]](e)
	require.NoError(t, err)
	black, err := prefab.Black[tree[string]](e)
	require.NoError(t, err)

	assert.Equal(t, "one", red.value)
	assert.Equal(t, "two", black.value)
	require.Len(t, red.children, 1)
	assert.Empty(t, red.children[0].children)
}

func TestEngine_Idempotent(t *testing.T) {
	e := prefab.New()
	tag := domain.TagOf[*node]()

	first, err := e.GiveRed(tag)
	require.NoError(t, err)
	second, err := e.GiveRed(tag)
	require.NoError(t, err)
	firstBlack, err := e.GiveBlack(tag)
	require.NoError(t, err)
	secondBlack, err := e.GiveBlack(tag)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, firstBlack, secondBlack)
}

func TestEngine_CollectionsAreDistinct(t *testing.T) {
	e := prefab.New()

	tup, err := e.Give(domain.TagOf[[]string]())
	require.NoError(t, err)
	red, redCopy := tup.Red.([]string), tup.RedCopy.([]string)
	assert.Equal(t, red, redCopy)
	assert.NotSame(t, &red[0], &redCopy[0])
	assert.NotEqual(t, red, tup.Black)

	mtup, err := e.Give(domain.TagOf[map[string]int]())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"one": 1}, mtup.Red)
	assert.Equal(t, map[string]int{"two": 2}, mtup.Black)
	assert.Equal(t, mtup.Red, mtup.RedCopy)
	assert.NotEqual(t,
		reflect.ValueOf(mtup.Red).Pointer(),
		reflect.ValueOf(mtup.RedCopy).Pointer(),
	)
}

func TestEngine_ExplicitArguments(t *testing.T) {
	e := prefab.New()

	red, err := prefab.Red[[]any](e, domain.TagOf[int]())
	require.NoError(t, err)
	assert.Equal(t, []any{1}, red)

	unbound, err := prefab.Red[[]any](e, domain.Var("T"))
	require.NoError(t, err)
	assert.Equal(t, []any{"one"}, unbound)
}

func TestEngine_Unregistered(t *testing.T) {
	type withChan struct {
		C chan int
	}

	tests := []struct {
		name string
		tag  domain.TypeTag
	}{
		{"channel", domain.TagOf[chan int]()},
		{"function", domain.TagOf[func()]()},
		{"interface with methods", domain.TagOf[error]()},
		{"struct field", domain.TagOf[withChan]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prefab.New().GiveRed(tt.tag)
			require.ErrorIs(t, err, domain.ErrUnregisteredType)
		})
	}
}

func TestEngine_ReflectiveErrorKeepsCause(t *testing.T) {
	e := prefab.New()
	require.NoError(t, e.Register(reflect.TypeFor[*account](), factories.MustConstructor(openAccount)))

	_, err := e.GiveRed(domain.TagOf[*account]())
	require.ErrorIs(t, err, domain.ErrReflectiveInvocation)
	require.ErrorIs(t, err, errClosed)
	assert.False(t, e.Realized(domain.TagOf[*account]()))
}

func TestEngine_InvalidFactory(t *testing.T) {
	e := prefab.New()

	require.ErrorIs(t, e.Register(nil, factories.Values(1, 2, 1)), domain.ErrInvalidFactory)
	require.ErrorIs(t, e.Register(reflect.TypeFor[int](), nil), domain.ErrInvalidFactory)

	require.NoError(t, e.Register(reflect.TypeFor[int](), factories.Values("a", "b", "a")))
	_, err := e.GiveRed(domain.TagOf[int]())
	require.ErrorIs(t, err, domain.ErrInvalidFactory)

	require.NoError(t, e.Register(reflect.TypeFor[int](), factories.Values(nil, 2, nil)))
	_, err = e.GiveRed(domain.TagOf[int]())
	require.ErrorIs(t, err, domain.ErrInvalidFactory)
}

func TestEngine_UnexportedFields(t *testing.T) {
	type mixed struct {
		Exported int
		hidden   string
	}

	on, err := prefab.Red[mixed](prefab.New())
	require.NoError(t, err)
	assert.Equal(t, mixed{Exported: 1, hidden: "one"}, on)

	off, err := prefab.Red[mixed](prefab.New(prefab.WithUnexportedFields(false)))
	require.NoError(t, err)
	assert.Equal(t, mixed{Exported: 1}, off)
}

func TestEngine_ConcurrentGive(t *testing.T) {
	e := prefab.New()
	tag := domain.TagOf[*node]()

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := e.GiveRed(tag)
			assert.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Same(t, results[0], r)
	}
}

type chain struct {
	next *chain
	v    int
}

func (c *chain) Equal(o *chain) bool { return c.v == o.v }

func TestEngine_SelfReferentialWithEqualMethod(t *testing.T) {
	e := prefab.New()

	var tup domain.Tuple
	require.NotPanics(t, func() {
		var err error
		tup, err = e.Give(domain.TagOf[chain]())
		require.NoError(t, err)
	})

	red, ok := tup.Red.(chain)
	require.True(t, ok)
	black, ok := tup.Black.(chain)
	require.True(t, ok)
	assert.Equal(t, 1, red.v)
	assert.Equal(t, 2, black.v)
	assert.NotNil(t, red.next)
	assert.Nil(t, black.next)
}

type ids []int

func TestEngine_ConvertsToNamedType(t *testing.T) {
	e := prefab.New()
	require.NoError(t, e.Register(reflect.TypeFor[ids](), factories.Values([]int{1}, []int{2}, []int{1})))
	require.NoError(t, e.Register(reflect.TypeFor[box[ids]](), factories.Arity1(newBox[ids], emptyBox[ids])))

	v, err := e.GiveRed(domain.TagOf[ids]())
	require.NoError(t, err)
	assert.IsType(t, ids{}, v)

	red, err := prefab.Red[ids](e)
	require.NoError(t, err)
	assert.Equal(t, ids{1}, red)

	black, err := prefab.Black[box[ids]](e)
	require.NoError(t, err)
	assert.Equal(t, newBox(ids{2}), black)
}
