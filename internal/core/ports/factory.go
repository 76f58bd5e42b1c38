package ports

import "go.trai.ch/prefab/internal/core/domain"

// Resolver synthesises the value tuple of a tag.
// It is the recursive entry point the engine hands to factories.
//
//go:generate mockgen -source=factory.go -destination=mocks/mock_factory.go -package=mocks
type Resolver interface {
	// Resolve returns the cached or newly synthesised tuple for tag.
	// The stack holds the tags currently being resolved by the caller.
	Resolve(tag domain.TypeTag, stack domain.TypeStack) (domain.Tuple, error)
}

// Factory creates the red, black and redCopy values of a family of types.
type Factory interface {
	// CreateValues builds the tuple for tag. It may call r for the type
	// parameters of tag, passing stack along. It must not retain stack.
	CreateValues(tag domain.TypeTag, r Resolver, stack domain.TypeStack) (domain.Tuple, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(tag domain.TypeTag, r Resolver, stack domain.TypeStack) (domain.Tuple, error)

// CreateValues calls f.
func (f FactoryFunc) CreateValues(tag domain.TypeTag, r Resolver, stack domain.TypeStack) (domain.Tuple, error) {
	return f(tag, r, stack)
}
