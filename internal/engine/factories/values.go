package factories

import (
	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/prefab/internal/core/ports"
)

// Values returns a factory that yields the given instances verbatim.
// It never recurses.
func Values(red, black, redCopy any) ports.Factory {
	t := domain.NewTuple(red, black, redCopy)
	return ports.FactoryFunc(func(domain.TypeTag, ports.Resolver, domain.TypeStack) (domain.Tuple, error) {
		return t, nil
	})
}
