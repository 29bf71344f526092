// Package decide checks the satisfiability of ground formulas.
//
// Two backends are provided. PB translates formulas into pseudo-boolean constraints
// and solves them with gophersat. Gini builds a boolean circuit, converts it to CNF
// and solves it with gini. Both backends give the same verdicts and the same model counts.
package decide

import (
	"errors"
	"fmt"

	"github.com/crillab/groundsat/formula"
)

// ErrUnsupported is returned when a relation cannot be decided because one of its sides
// still contains an identifier that no quantifier bound.
var ErrUnsupported = errors.New("unsupported relation over free integer identifiers")

// Status is the verdict of a backend.
type Status int

const (
	// Unsat means no assignment of the ground atoms satisfies all formulas.
	Unsat Status = iota
	// Sat means a model was found.
	Sat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SATISFIABLE"
	case Unsat:
		return "UNSATISFIABLE"
	default:
		panic("invalid status")
	}
}

// A Result is the outcome of a call to Solve.
// If Status is Sat, Model binds every ground atom. Else, Model is nil.
type Result struct {
	Status Status
	Model  map[string]bool
}

// A Backend decides a conjunction of ground formulas.
// atoms is the list of ground atoms of the formulas; atoms missing from that list are added on the fly.
// Backends only handle boolean variables: a relation must compare two integer constants once grounded.
// A relation over a free integer identifier, such as x < c with c unbound, makes Solve and Count
// fail with ErrUnsupported.
type Backend interface {
	// Solve returns a model of the formulas, if any.
	Solve(formulas []formula.Formula, atoms []string) (Result, error)
	// Count returns the number of models of the formulas, over the ground atoms only.
	Count(formulas []formula.Formula, atoms []string) (int, error)
}

// ByName returns the backend called name, either "pb" or "gini".
func ByName(name string) (Backend, error) {
	switch name {
	case "pb":
		return PB{}, nil
	case "gini":
		return Gini{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q: expected \"pb\" or \"gini\"", name)
	}
}

// relValue returns the truth value of a ground relation.
func relValue(r formula.Rel) (bool, error) {
	l, lok := r.L.(formula.Num)
	rv, rok := r.R.(formula.Num)
	if !lok || !rok {
		return false, fmt.Errorf("%w: %s", ErrUnsupported, r)
	}
	return r.Op.Holds(int(l), int(rv)), nil
}

func notGround(f formula.Formula) error {
	return fmt.Errorf("formula %s is not ground", f)
}
