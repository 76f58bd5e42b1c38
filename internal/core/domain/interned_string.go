package domain

import "unique"

// InternedString is a value object that wraps a unique.Handle[string].
// Type variable and parameter names repeat across many tags; interning them
// makes tag comparison a pointer comparison.
type InternedString struct {
	h unique.Handle[string]
}

// NewInternedString creates a new InternedString from a string.
func NewInternedString(s string) InternedString {
	return InternedString{
		h: unique.Make(s),
	}
}

// String returns the underlying string value.
func (is InternedString) String() string {
	var zero unique.Handle[string]
	if is.h == zero {
		return ""
	}
	return is.h.Value()
}
