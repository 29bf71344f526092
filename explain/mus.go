package explain

import (
	"fmt"
	"sort"
)

// MUS returns the indices, in ascending order, of a Minimal Unsatisfiable Subset of the formulas.
// It uses the deletion method.
func (pb *Problem) MUS() ([]int, error) {
	return pb.MUSDeletion()
}

// MUSDeletion returns a Minimal Unsatisfiable Subset of the formulas using the deletion method.
// Each formula is removed in turn; if the remaining ones are still unsatisfiable,
// the formula is not part of the MUS and stays out.
// The backend is called exactly n+1 times, where n is the number of formulas.
func (pb *Problem) MUSDeletion() ([]int, error) {
	kept := pb.all()
	sat, err := pb.sat(kept)
	if err != nil {
		return nil, fmt.Errorf("could not extract MUS: %w", err)
	}
	if sat {
		return nil, ErrSatisfiable
	}
	for i := 0; i < len(kept); {
		candidate := make([]int, 0, len(kept)-1)
		candidate = append(candidate, kept[:i]...)
		candidate = append(candidate, kept[i+1:]...)
		sat, err := pb.sat(candidate)
		if err != nil {
			return nil, fmt.Errorf("could not extract MUS: %w", err)
		}
		if sat {
			if pb.Options.Verbose {
				fmt.Printf("c formula #%d: kept\n", kept[i]+1)
			}
			i++
		} else {
			if pb.Options.Verbose {
				fmt.Printf("c formula #%d: removed\n", kept[i]+1)
			}
			kept = candidate
		}
	}
	return kept, nil
}

// MUSInsertion returns a Minimal Unsatisfiable Subset of the formulas using the insertion method.
// Formulas are added one by one to the current MUS until it becomes unsatisfiable:
// the last added formula is then part of the MUS, and formulas that came after it are dropped.
// If called on formulas that already are a MUS, it will perform about n*n/2 calls to the backend.
func (pb *Problem) MUSInsertion() ([]int, error) {
	remaining := pb.all()
	sat, err := pb.sat(remaining)
	if err != nil {
		return nil, fmt.Errorf("could not extract MUS: %w", err)
	}
	if sat {
		return nil, ErrSatisfiable
	}
	var mus []int
	for {
		if pb.Options.Verbose {
			fmt.Printf("c mus currently contains %d formulas\n", len(mus))
		}
		sat, err := pb.sat(mus)
		if err != nil {
			return nil, fmt.Errorf("could not extract MUS: %w", err)
		}
		if !sat {
			sort.Ints(mus)
			return mus, nil
		}
		// Add formulas until the problem becomes unsatisfiable
		idx := 0
		for sat && idx < len(remaining) {
			sat, err = pb.sat(append(mus[:len(mus):len(mus)], remaining[:idx+1]...))
			if err != nil {
				return nil, fmt.Errorf("could not extract MUS: %w", err)
			}
			idx++
		}
		if sat {
			return nil, fmt.Errorf("could not extract MUS: backend gave inconsistent verdicts")
		}
		idx-- // We went one step too far, go back
		mus = append(mus, remaining[idx])
		if pb.Options.Verbose {
			fmt.Printf("c removing %d/%d formula(s)\n", len(remaining)-idx, len(remaining))
		}
		remaining = remaining[:idx]
	}
}
