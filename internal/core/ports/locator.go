package ports

import "reflect"

// TypeLocator finds types by name at runtime.
// Types whose package is not linked into the binary are not found.
//
//go:generate mockgen -source=locator.go -destination=mocks/mock_locator.go -package=mocks
type TypeLocator interface {
	// Locate returns the type registered under name.
	Locate(name string) (reflect.Type, bool)
	// Names returns the names this locator can resolve, if it can enumerate them.
	Names() []string
}
