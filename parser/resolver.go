package parser

import (
	"github.com/erraggy/apichangelog/oaserrors"
)

// ResolutionStack records the component names currently being expanded
// during one comparison walk. It is call-local: each walk owns its stack and
// no state is shared between walks.
type ResolutionStack struct {
	names []string
}

// NewResolutionStack returns a stack seeded with names.
func NewResolutionStack(names ...string) *ResolutionStack {
	s := &ResolutionStack{}
	s.names = append(s.names, names...)
	return s
}

// Push adds name to the top of the stack.
func (s *ResolutionStack) Push(name string) {
	s.names = append(s.names, name)
}

// Len returns the depth of the stack.
func (s *ResolutionStack) Len() int {
	return len(s.names)
}

// Truncate pops entries until the stack has n entries. Callers record Len
// before a resolution and Truncate back to it when leaving the node.
func (s *ResolutionStack) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.names) {
		s.names = s.names[:n]
	}
}

// Contains reports whether name is on the stack.
func (s *ResolutionStack) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Names returns a copy of the stack, bottom first.
func (s *ResolutionStack) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Resolver looks up component schemas by name, lazily, one reference at a time.
type Resolver struct {
	spec *Specification
}

// NewResolver returns a resolver over spec's component table.
func NewResolver(spec *Specification) *Resolver {
	return &Resolver{spec: spec}
}

// Resolve follows the reference name (and any alias chain it starts) to a
// non-reference schema. Every name visited is pushed onto stack. On failure
// the stack is restored to its depth on entry and a *oaserrors.ReferenceError
// is returned: dangling when a name is not in the component table, cyclic
// when a name is already on the stack.
func (r *Resolver) Resolve(name string, stack *ResolutionStack) (*Schema, error) {
	mark := stack.Len()
	for {
		if stack.Contains(name) {
			chain := append(stack.Names(), name)
			stack.Truncate(mark)
			return nil, &oaserrors.ReferenceError{
				Ref:      name,
				Chain:    chain,
				IsCyclic: true,
			}
		}
		var target *Schema
		if r.spec != nil {
			target = r.spec.Schemas[name]
		}
		if target == nil {
			stack.Truncate(mark)
			return nil, &oaserrors.ReferenceError{
				Ref:     name,
				Message: "no such component schema",
			}
		}
		stack.Push(name)
		ref, ok := target.Shape.(*Reference)
		if !ok {
			return target, nil
		}
		name = ref.Name
	}
}

// Resolve is a convenience wrapper for NewResolver(spec).Resolve(name, stack).
func Resolve(spec *Specification, name string, stack *ResolutionStack) (*Schema, error) {
	return NewResolver(spec).Resolve(name, stack)
}
