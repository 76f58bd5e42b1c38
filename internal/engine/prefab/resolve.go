package prefab

import (
	"reflect"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
	"go.trai.ch/prefab/internal/engine/factories"
	"go.trai.ch/zerr"
)

// Resolve returns the tuple of tag, synthesising and caching it on a miss.
//
// stack holds the tags the caller is currently resolving. A tag that is
// already on the stack is not resolved again: its cached tuple is used when
// one exists, otherwise a stand-in made of the zero value of the type. The
// stand-in is never cached; tuples built around it are, as they are. The
// tuple cached for a type inside a cycle therefore depends on which type of
// the cycle was requested first.
//
// Every tuple member is converted to the exact type of tag before caching,
// so a []int registered for a named slice type is returned as that type.
func (e *Engine) Resolve(tag domain.TypeTag, stack domain.TypeStack) (domain.Tuple, error) {
	if tup, ok := e.cached(tag); ok {
		return tup, nil
	}
	if stack.Contains(tag) {
		return standIn(tag), nil
	}

	f, err := e.factoryFor(tag)
	if err != nil {
		return domain.Tuple{}, err
	}

	tup, err := f.CreateValues(tag, e, stack.Push(tag))
	if err != nil {
		return domain.Tuple{}, err
	}
	tup, err = conform(tag.Type(), tup)
	if err != nil {
		return domain.Tuple{}, err
	}
	if factories.Equal(tup.Red, tup.Black) {
		e.logger.Warn("degenerate prefab values for " + tag.String() + ": red equals black")
	}
	return e.store(tag, tup), nil
}

func (e *Engine) cached(tag domain.TypeTag) (domain.Tuple, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.cache[tag.Hash()] {
		if c.tag.Equal(tag) {
			return c.tuple, true
		}
	}
	return domain.Tuple{}, false
}

// store caches tup under tag and returns the cached tuple. When another
// caller stored tag first, its tuple wins.
func (e *Engine) store(tag domain.TypeTag, tup domain.Tuple) domain.Tuple {
	h := tag.Hash()

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range e.cache[h] {
		if c.tag.Equal(tag) {
			return c.tuple
		}
	}
	e.cache[h] = append(e.cache[h], cacheEntry{tag: tag, tuple: tup})
	return tup
}

func (e *Engine) factoryFor(tag domain.TypeTag) (ports.Factory, error) {
	t := tag.Type()
	if t == nil {
		return nil, unregistered(tag.String())
	}

	e.mu.RLock()
	f, ok := e.factories[t]
	e.mu.RUnlock()
	if ok {
		return f, nil
	}
	return e.fallback(t)
}

func standIn(tag domain.TypeTag) domain.Tuple {
	var z any
	if t := tag.Type(); t != nil {
		z = reflect.Zero(t).Interface()
	}
	return domain.NewTuple(z, z, z)
}

// conform checks that every member of tup can be used as a t and converts
// members of another type, such as an unnamed []int for a named slice type,
// to exactly t. Interface types keep their dynamic values.
func conform(t reflect.Type, tup domain.Tuple) (domain.Tuple, error) {
	members := [3]any{tup.Red, tup.Black, tup.RedCopy}
	for i, v := range members {
		if v == nil {
			if nillable(t) {
				continue
			}
			return domain.Tuple{}, factories.InvalidFactory(t, "factory returned nil for "+factories.TypeName(t))
		}
		vt := reflect.TypeOf(v)
		if !vt.AssignableTo(t) {
			return domain.Tuple{}, factories.InvalidFactory(t, vt.String()+" is not assignable to "+factories.TypeName(t))
		}
		if vt != t && t.Kind() != reflect.Interface {
			members[i] = reflect.ValueOf(v).Convert(t).Interface()
		}
	}
	return domain.NewTuple(members[0], members[1], members[2]), nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func unregistered(name string) error {
	err := zerr.Wrap(domain.ErrUnregisteredType, "cannot synthesise values for "+name)
	return zerr.With(err, "type", name)
}
