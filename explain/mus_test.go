package explain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/crillab/groundsat/decide"
	"github.com/crillab/groundsat/ground"
	"github.com/crillab/groundsat/parser"
)

func problem(t *testing.T, src string, b decide.Backend) *Problem {
	t.Helper()
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("could not parse %q: %v", src, err)
	}
	m, err := ground.Ground(prog, ground.Options{})
	if err != nil {
		t.Fatalf("could not ground %q: %v", src, err)
	}
	return &Problem{Formulas: m.Formulas, Backend: b}
}

var unsatProgs = []string{
	"a; not a | b; not b; c;",
	"type T=[1,3]; exactly 1 (x:T) p(x); p(1); p(2); p(3);",
	"a -> b; b -> c; c -> not a; a; d | e;",
	"type T=[1,4]; forall(x:T) p(x); atmost 3 (x:T) p(x);",
}

// checkMUS checks mus is unsatisfiable, and that removing any of its formulas makes it satisfiable.
func checkMUS(t *testing.T, pb *Problem, mus []int) {
	t.Helper()
	if sat, err := pb.sat(mus); err != nil || sat {
		t.Errorf("MUS %v is not unsatisfiable (err=%v)", mus, err)
	}
	for i := range mus {
		subset := append(append([]int(nil), mus[:i]...), mus[i+1:]...)
		if sat, err := pb.sat(subset); err != nil || !sat {
			t.Errorf("MUS %v is not minimal: %v is still unsatisfiable (err=%v)", mus, subset, err)
		}
	}
	for i := 1; i < len(mus); i++ {
		if mus[i-1] >= mus[i] {
			t.Errorf("MUS %v is not sorted", mus)
		}
	}
}

func TestMUS(t *testing.T) {
	strategies := map[string]func(*Problem) ([]int, error){
		"deletion":  (*Problem).MUSDeletion,
		"insertion": (*Problem).MUSInsertion,
	}
	for _, src := range unsatProgs {
		for bname, b := range map[string]decide.Backend{"pb": decide.PB{}, "gini": decide.Gini{}} {
			pb := problem(t, src, b)
			for sname, strategy := range strategies {
				mus, err := strategy(pb)
				if err != nil {
					t.Errorf("%s/%s: could not extract MUS of %q: %v", bname, sname, src, err)
					continue
				}
				checkMUS(t, pb, mus)
			}
		}
	}
}

func TestMUSSatisfiable(t *testing.T) {
	pb := problem(t, "a | b; not a;", decide.PB{})
	if _, err := pb.MUSDeletion(); !errors.Is(err, ErrSatisfiable) {
		t.Errorf("expected ErrSatisfiable, got %v", err)
	}
	if _, err := pb.MUSInsertion(); !errors.Is(err, ErrSatisfiable) {
		t.Errorf("expected ErrSatisfiable, got %v", err)
	}
}

func TestMUSUnsupported(t *testing.T) {
	pb := problem(t, "forall(x:[1,2]) x < c -> p(x);", decide.PB{})
	if _, err := pb.MUS(); !errors.Is(err, decide.ErrUnsupported) {
		t.Errorf("expected unsupported relation, got %v", err)
	}
}

func ExampleProblem_MUS() {
	prog, err := parser.ParseString("a; not a | b; c; not b;")
	if err != nil {
		fmt.Printf("could not parse problem: %v", err)
		return
	}
	m, err := ground.Ground(prog, ground.Options{})
	if err != nil {
		fmt.Printf("could not ground problem: %v", err)
		return
	}
	pb := Problem{Formulas: m.Formulas, Backend: decide.Gini{}}
	mus, err := pb.MUS()
	if err != nil {
		fmt.Printf("could not compute MUS: %v", err)
		return
	}
	for _, idx := range mus {
		fmt.Println(m.Formulas[idx])
	}
	// Output:
	// a
	// or(not(a), b)
	// not(b)
}
