package domain

// Tuple holds the three prefab values of a type.
// Red and RedCopy are equal but, for reference types, distinct instances.
// Black differs from Red, except for degenerate types that have a single
// possible value.
type Tuple struct {
	Red     any
	Black   any
	RedCopy any
}

// NewTuple creates a Tuple.
func NewTuple(red, black, redCopy any) Tuple {
	return Tuple{Red: red, Black: black, RedCopy: redCopy}
}
