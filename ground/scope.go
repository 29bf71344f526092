package ground

import "github.com/crillab/groundsat/formula"

type frame struct {
	name  string
	value formula.Expr
}

// A Scope is the stack of variable bindings active while instantiating a formula.
// Each quantified variable pushes a frame; lookups start from the innermost frame,
// so inner bindings shadow outer ones with the same name.
type Scope struct {
	frames []frame
}

// Push binds name to value until the matching call to Pop.
func (s *Scope) Push(name string, value formula.Expr) {
	s.frames = append(s.frames, frame{name: name, value: value})
}

// Pop removes the innermost binding.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of active bindings.
func (s *Scope) Depth() int { return len(s.frames) }

// Lookup returns the value bound to name, if any.
func (s *Scope) Lookup(name string) (formula.Expr, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].name == name {
			return s.frames[i].value, true
		}
	}
	return nil, false
}
