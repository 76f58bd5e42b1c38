package domain

import (
	"iter"
	"slices"
	"strings"
)

// TypeStack is the ordered set of tags currently being resolved by one
// top-level request. It is a value type: Push returns an extended copy and
// never modifies the receiver, so sibling branches of a value tree never see
// each other's in-progress tags.
type TypeStack struct {
	tags []TypeTag
}

// NewTypeStack creates a stack holding the given tags, outermost first.
func NewTypeStack(tags ...TypeTag) TypeStack {
	return TypeStack{tags: slices.Clone(tags)}
}

// Push returns a copy of s with t appended.
func (s TypeStack) Push(t TypeTag) TypeStack {
	return TypeStack{tags: append(slices.Clip(s.tags), t)}
}

// Len returns the number of tags on the stack.
func (s TypeStack) Len() int {
	return len(s.tags)
}

// Index returns the position of t on the stack, or -1.
func (s TypeStack) Index(t TypeTag) int {
	return slices.IndexFunc(s.tags, t.Equal)
}

// Contains reports whether t is being resolved.
func (s TypeStack) Contains(t TypeTag) bool {
	return s.Index(t) >= 0
}

// Top returns the innermost tag.
func (s TypeStack) Top() (TypeTag, bool) {
	if len(s.tags) == 0 {
		return TypeTag{}, false
	}
	return s.tags[len(s.tags)-1], true
}

// All yields the tags outermost first.
func (s TypeStack) All() iter.Seq2[int, TypeTag] {
	return slices.All(s.tags)
}

// Substitute replaces the type variables in t with their nearest enclosing
// binding, searching from the innermost frame outwards. A variable bound to
// itself is looked up further out. Unbound variables and wildcards become
// ObjectTag.
func (s TypeStack) Substitute(t TypeTag) TypeTag {
	switch {
	case t.IsWildcard():
		return ObjectTag()
	case t.IsVar():
		for i := len(s.tags) - 1; i >= 0; i-- {
			bound, ok := s.tags[i].Binding(t.VarName())
			if !ok {
				continue
			}
			// Resolve the binding in the scope that declared it.
			return TypeStack{tags: s.tags[:i]}.Substitute(bound)
		}
		return ObjectTag()
	}

	if len(t.args) == 0 {
		return t
	}
	c := t
	c.args = make([]TypeTag, len(t.args))
	for i, a := range t.args {
		c.args[i] = s.Substitute(a)
	}
	return c
}

// String renders the stack as a path, e.g. "main.Node -> *main.Node".
func (s TypeStack) String() string {
	parts := make([]string, len(s.tags))
	for i, t := range s.tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, " -> ")
}
