// Package explain provides facilities to explain why a set of ground formulas is unsatisfiable.
//
// The explanation is a MUS (minimal unsatisfiable subset): a subset of the formulas
// that is still unsatisfiable, but becomes satisfiable as soon as any of its formulas is removed.
package explain

import (
	"errors"

	"github.com/crillab/groundsat/decide"
	"github.com/crillab/groundsat/formula"
)

// ErrSatisfiable is returned when trying to explain a satisfiable problem.
var ErrSatisfiable = errors.New("cannot extract MUS from satisfiable problem")

// Options is a set of options that can be set to true during the explanation process.
type Options struct {
	// If Verbose is true, information about the progress of the extraction is printed on stdout.
	Verbose bool
}

// A Problem is a conjunction of ground formulas, along with the backend used to decide subsets of it.
type Problem struct {
	Formulas []formula.Formula
	Backend  decide.Backend
	Options  Options
}

// sat returns whether the conjunction of the formulas with the given indices is satisfiable.
func (pb *Problem) sat(indices []int) (bool, error) {
	subset := make([]formula.Formula, len(indices))
	for i, idx := range indices {
		subset[i] = pb.Formulas[idx]
	}
	res, err := pb.Backend.Solve(subset, nil)
	if err != nil {
		return false, err
	}
	return res.Status == decide.Sat, nil
}

func (pb *Problem) all() []int {
	indices := make([]int, len(pb.Formulas))
	for i := range indices {
		indices[i] = i
	}
	return indices
}
