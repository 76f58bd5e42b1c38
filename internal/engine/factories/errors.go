package factories

import (
	"fmt"
	"reflect"

	"go.trai.ch/prefab/internal/core/domain"
	"go.trai.ch/zerr"
)

// InvocationError reports that member failed while building a value of t.
// The result matches both domain.ErrReflectiveInvocation and cause.
func InvocationError(t reflect.Type, member string, cause error) error {
	err := zerr.Wrap(fmt.Errorf("%w: %w", domain.ErrReflectiveInvocation, cause), "calling "+member)
	err = zerr.With(err, "type", TypeName(t))
	return zerr.With(err, "member", member)
}

// InvalidFactory reports a factory that cannot serve t.
func InvalidFactory(t reflect.Type, reason string) error {
	err := zerr.Wrap(domain.ErrInvalidFactory, reason)
	err = zerr.With(err, "type", TypeName(t))
	return zerr.With(err, "reason", reason)
}

// TypeName renders t for error metadata.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// invoke runs fn, turning a returned error or a panic into an invocation error.
func invoke(t reflect.Type, member string, fn func() (any, error)) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			v, err = nil, InvocationError(t, member, cause)
		}
	}()

	v, err = fn()
	if err != nil {
		return nil, InvocationError(t, member, err)
	}
	return v, nil
}
