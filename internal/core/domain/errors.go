package domain

import "go.trai.ch/zerr"

var (
	// ErrUnregisteredType is returned when no factory is registered for a type
	// and the reflective fallback cannot synthesise it either.
	ErrUnregisteredType = zerr.New("unregistered type")

	// ErrReflectiveInvocation is returned when a constructor or build function
	// fails or panics while synthesising a value.
	ErrReflectiveInvocation = zerr.New("reflective invocation failed")

	// ErrMissingOptionalDependency is returned when a deferred binding is
	// requested by name but its type is not available in this binary.
	ErrMissingOptionalDependency = zerr.New("optional dependency not available")

	// ErrInvalidFactory is returned when a factory is malformed or produces
	// values that do not fit the requested type.
	ErrInvalidFactory = zerr.New("invalid factory")

	// ErrUnknownTypeName is returned when no locator knows a type name.
	ErrUnknownTypeName = zerr.New("unknown type name")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrUnsupportedConfigVersion is returned when the config file declares an unknown version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported config version")

	// ErrNoTypesSpecified is returned when the show command is called without type names.
	ErrNoTypesSpecified = zerr.New("no types specified")
)
