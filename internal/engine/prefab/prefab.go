// Package prefab implements the prefab value engine: a registry of per-type
// factories and a cache of synthesised red, black and redCopy values.
package prefab

import (
	"reflect"
	"slices"
	"sync"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.Resolver = (*Engine)(nil)

// Engine owns the factory registrations and the value cache of one session.
// It is safe for concurrent use. Cached tuples are shared and must not be
// mutated by callers.
type Engine struct {
	mu         sync.RWMutex
	factories  map[reflect.Type]ports.Factory
	deferred   map[string]deferredBinding
	cache      map[uint64][]cacheEntry
	locators   []ports.TypeLocator
	logger     ports.Logger
	unexported bool
	group      singleflight.Group
}

// deferredBinding records the outcome of locating a type by name.
type deferredBinding struct {
	typ       reflect.Type
	available bool
}

type cacheEntry struct {
	tag   domain.TypeTag
	tuple domain.Tuple
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for degenerate-value warnings and
// unavailable deferred bindings.
func WithLogger(l ports.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLocators adds locators consulted, in order, to find types by name.
// The built-in names of the basic kinds are always consulted last.
func WithLocators(locators ...ports.TypeLocator) Option {
	return func(e *Engine) {
		e.locators = append(e.locators, locators...)
	}
}

// WithUnexportedFields controls whether the struct fallback fills unexported
// fields. It is enabled by default.
func WithUnexportedFields(enable bool) Option {
	return func(e *Engine) {
		e.unexported = enable
	}
}

// New creates an empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		factories:  make(map[reflect.Type]ports.Factory),
		deferred:   make(map[string]deferredBinding),
		cache:      make(map[uint64][]cacheEntry),
		logger:     nopLogger{},
		unexported: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.locators = append(e.locators, Builtins())
	return e
}

// Register binds f to t. A later registration for the same type replaces
// the earlier one.
func (e *Engine) Register(t reflect.Type, f ports.Factory) error {
	if t == nil || f == nil {
		return factories.InvalidFactory(t, "type and factory are required")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.factories[t] = f
	return nil
}

// RegisterDeferred binds f to the type known by typeName.
// The name is looked up once, now. When no locator knows it the binding is
// kept as unavailable: it stays inert and is only reported when the name is
// requested through TagByName.
func (e *Engine) RegisterDeferred(typeName string, f ports.Factory) {
	t, ok := e.locate(typeName)
	ok = ok && f != nil

	e.mu.Lock()
	if ok {
		e.deferred[typeName] = deferredBinding{typ: t, available: true}
		e.factories[t] = f
	} else {
		e.deferred[typeName] = deferredBinding{}
	}
	e.mu.Unlock()

	if !ok {
		e.logger.Info("optional type " + typeName + " is not available, binding is inert")
	}
}

// TagByName returns the tag of the type known by name.
func (e *Engine) TagByName(name string) (domain.TypeTag, error) {
	e.mu.RLock()
	b, ok := e.deferred[name]
	e.mu.RUnlock()

	if ok {
		if !b.available {
			err := zerr.Wrap(domain.ErrMissingOptionalDependency, "type "+name+" is not linked into this binary")
			return domain.TypeTag{}, zerr.With(err, "type_name", name)
		}
		return domain.NewTypeTag(b.typ), nil
	}

	if t, ok := e.locate(name); ok {
		return domain.NewTypeTag(t), nil
	}
	err := zerr.Wrap(domain.ErrUnknownTypeName, "no type is known as "+name)
	return domain.TypeTag{}, zerr.With(err, "type_name", name)
}

// Names returns every type name the engine can resolve, sorted.
func (e *Engine) Names() []string {
	e.mu.RLock()
	names := make([]string, 0, len(e.deferred))
	for name, b := range e.deferred {
		if b.available {
			names = append(names, name)
		}
	}
	e.mu.RUnlock()

	for _, l := range e.locators {
		names = append(names, l.Names()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

func (e *Engine) locate(name string) (reflect.Type, bool) {
	for _, l := range e.locators {
		if t, ok := l.Locate(name); ok {
			return t, true
		}
	}
	return nil, false
}

// GiveRed returns the red value of tag.
func (e *Engine) GiveRed(tag domain.TypeTag) (any, error) {
	tup, err := e.give(tag)
	return tup.Red, err
}

// GiveBlack returns the black value of tag.
func (e *Engine) GiveBlack(tag domain.TypeTag) (any, error) {
	tup, err := e.give(tag)
	return tup.Black, err
}

// GiveRedCopy returns the redCopy value of tag.
func (e *Engine) GiveRedCopy(tag domain.TypeTag) (any, error) {
	tup, err := e.give(tag)
	return tup.RedCopy, err
}

// Give returns the whole tuple of tag.
func (e *Engine) Give(tag domain.TypeTag) (domain.Tuple, error) {
	return e.give(tag)
}

// Realized reports whether the tuple of tag is cached.
func (e *Engine) Realized(tag domain.TypeTag) bool {
	_, ok := e.cached(tag)
	return ok
}

func (e *Engine) give(tag domain.TypeTag) (domain.Tuple, error) {
	tag = domain.NewTypeStack().Substitute(tag)
	if tup, ok := e.cached(tag); ok {
		return tup, nil
	}

	v, err, _ := e.group.Do(tag.Key(), func() (any, error) {
		return e.Resolve(tag, domain.NewTypeStack())
	})
	if err != nil {
		return domain.Tuple{}, err
	}
	return v.(domain.Tuple), nil
}

// Red returns the red value of T, refined by optional argument tags.
func Red[T any](e *Engine, args ...domain.TypeTag) (T, error) {
	return typed[T](e.GiveRed(domain.TagOf[T](args...)))
}

// Black returns the black value of T, refined by optional argument tags.
func Black[T any](e *Engine, args ...domain.TypeTag) (T, error) {
	return typed[T](e.GiveBlack(domain.TagOf[T](args...)))
}

// RedCopy returns the redCopy value of T, refined by optional argument tags.
func RedCopy[T any](e *Engine, args ...domain.TypeTag) (T, error) {
	return typed[T](e.GiveRedCopy(domain.TagOf[T](args...)))
}

func typed[T any](v any, err error) (T, error) {
	var zero T
	if err != nil || v == nil {
		return zero, err
	}
	tv, ok := v.(T)
	if !ok {
		t := reflect.TypeFor[T]()
		return zero, factories.InvalidFactory(t, reflect.TypeOf(v).String()+" is not a "+factories.TypeName(t))
	}
	return tv, nil
}

type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}
