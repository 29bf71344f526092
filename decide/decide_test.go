package decide

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/crillab/gophersat/solver"

	"github.com/crillab/groundsat/formula"
	"github.com/crillab/groundsat/ground"
	"github.com/crillab/groundsat/parser"
)

var backends = map[string]Backend{"pb": PB{}, "gini": Gini{}}

func groundString(t *testing.T, src string) *ground.Model {
	t.Helper()
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("could not parse %q: %v", src, err)
	}
	m, err := ground.Ground(prog, ground.Options{})
	if err != nil {
		t.Fatalf("could not ground %q: %v", src, err)
	}
	return m
}

// To each program, associate its number of models over its ground atoms.
var progToCount = map[string]int{
	"a | b;":                              3,
	"a & not a;":                          0,
	"a xor b;":                            2,
	"a <-> b;":                            2,
	"a -> b;":                             3,
	"type T=[1,3]; exactly 1 (x:T) p(x);": 3,
	"type T=[1,3]; atmost 1 (x:T) p(x);":  4,
	"type T=[1,3]; atleast 2 (x:T) p(x);": 4,
	"type T=[1,3]; atmost 0 (x:T) p(x);":  1,
	"type T=[1,4]; exactly 2 (x:T) p(x);": 6,
	"type T=[1,3]; atleast 4 (x:T) p(x);": 0,
	"type E=[2,1]; forsome(x:E) p(x);":    0,
	"type E=[2,1]; forall(x:E) p(x);":     1,
	"exactly 1 (x:{1,2}) a | b;":          0,

	"predicates q/0; atleast 2(x:{1,2,3}) q;":                    1,
	"type T=[1,3]; exactly 2 (x:T) not p(x);":                    3,
	"type T=[1,3]; forall(x:T) x < 3 -> p(x);":                   2,
	"atleast 1 (x:{1,2}) not p(x); p(1) xor p(2);":               2,
	"type T=[1,3]; forall(x:T, y:T) x < y -> not (p(x) & p(y));": 4,
}

func TestBackends(t *testing.T) {
	for src, count := range progToCount {
		m := groundString(t, src)
		for name, b := range backends {
			res, err := b.Solve(m.Formulas, m.Atoms)
			if err != nil {
				t.Errorf("%s: could not solve %q: %v", name, src, err)
				continue
			}
			if (res.Status == Sat) != (count > 0) {
				t.Errorf("%s: for %q, expected %d models, got status %v", name, src, count, res.Status)
			}
			if res.Status == Sat {
				checkModel(t, name, src, m, res.Model)
			}
			nb, err := b.Count(m.Formulas, m.Atoms)
			if err != nil {
				t.Errorf("%s: could not count models of %q: %v", name, src, err)
			} else if nb != count {
				t.Errorf("%s: for %q, expected %d models, got %d", name, src, count, nb)
			}
		}
	}
}

func checkModel(t *testing.T, backend, src string, m *ground.Model, model map[string]bool) {
	t.Helper()
	for _, atom := range m.Atoms {
		if _, ok := model[atom]; !ok {
			t.Errorf("%s: for %q, model lacks atom %s", backend, src, atom)
			return
		}
	}
	for _, f := range m.Formulas {
		if !formula.Eval(f, model) {
			t.Errorf("%s: for %q, model %v does not satisfy %v", backend, src, model, f)
		}
	}
}

func TestRepeatedLiterals(t *testing.T) {
	a, b := formula.Var("a"), formula.Var("b")
	tests := []struct {
		f     formula.Formula
		count int
	}{
		{formula.Card{Kind: formula.AtLeast, N: 1, Subs: []formula.Formula{a, formula.Not{a}}}, 4},
		{formula.Card{Kind: formula.Exactly, N: 1, Subs: []formula.Formula{a, formula.Not{a}}}, 4},
		{formula.Card{Kind: formula.Exactly, N: 2, Subs: []formula.Formula{a, formula.Not{a}}}, 0},
		{formula.Card{Kind: formula.AtMost, N: 1, Subs: []formula.Formula{a, a, b}}, 2},
		{formula.Card{Kind: formula.AtLeast, N: 3, Subs: []formula.Formula{a, b, a}}, 1},
		{formula.Card{Kind: formula.Exactly, N: 0}, 4},
		{formula.Card{Kind: formula.AtMost, N: -1, Subs: []formula.Formula{a}}, 0},
		{formula.Xor{a, a}, 0},
		{formula.Equiv{a, formula.Not{a}}, 0},
		{formula.And{a, formula.Or{b, formula.Not{b}}}, 2},
	}
	atoms := []string{"a", "b"}
	for _, test := range tests {
		for name, bk := range backends {
			nb, err := bk.Count([]formula.Formula{test.f}, atoms)
			if err != nil {
				t.Errorf("%s: could not count models of %v: %v", name, test.f, err)
			} else if nb != test.count {
				t.Errorf("%s: for %v, expected %d models, got %d", name, test.f, test.count, nb)
			}
		}
	}
}

func TestUnsupported(t *testing.T) {
	m := groundString(t, "forall(x:[1,2]) x < c -> p(x);")
	for name, b := range backends {
		if _, err := b.Solve(m.Formulas, m.Atoms); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected unsupported relation, got %v", name, err)
		}
		if _, err := b.Count(m.Formulas, m.Atoms); !errors.Is(err, ErrUnsupported) {
			t.Errorf("%s: expected unsupported relation, got %v", name, err)
		}
	}
	if err := WriteOPB(&bytes.Buffer{}, m.Formulas, m.Atoms); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected unsupported relation, got %v", err)
	}
}

func TestNotGround(t *testing.T) {
	f := formula.Atom{Pred: "p", Terms: []formula.Expr{formula.Num(1)}}
	for name, b := range backends {
		if _, err := b.Solve([]formula.Formula{f}, nil); err == nil {
			t.Errorf("%s: expected an error for non-ground formula", name)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"pb", "gini"} {
		if _, err := ByName(name); err != nil {
			t.Errorf("could not get backend %s: %v", name, err)
		}
	}
	if _, err := ByName("z3"); err == nil {
		t.Errorf("expected an error for unknown backend")
	}
}

func TestWriteOPB(t *testing.T) {
	m := groundString(t, "type T=[1,4]; exactly 2 (x:T) p(x); p(1) -> not p(2);")
	var buf bytes.Buffer
	if err := WriteOPB(&buf, m.Formulas, m.Atoms); err != nil {
		t.Fatalf("could not write OPB: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "* #variable= ") {
		t.Errorf("invalid OPB prolog: %q", out)
	}
	for i, atom := range m.Atoms {
		if line := fmt.Sprintf("* %s=x%d\n", atom, i+1); !strings.Contains(out, line) {
			t.Errorf("OPB output lacks line %q", line)
		}
	}
	pb, err := solver.ParseOPB(strings.NewReader(out))
	if err != nil {
		t.Fatalf("could not parse OPB output: %v\n%s", err, out)
	}
	s := solver.New(pb)
	if nb := s.Enumerate(nil, nil); nb != 5 {
		t.Errorf("expected 5 models in OPB output, got %d", nb)
	}
}

func ExamplePB() {
	prog, err := parser.ParseString("predicates p/1; type T=[1,3]; exactly 1 (x:T) p(x); not p(1); not p(3);")
	if err != nil {
		fmt.Printf("could not parse: %v", err)
		return
	}
	m, err := ground.Ground(prog, ground.Options{})
	if err != nil {
		fmt.Printf("could not ground: %v", err)
		return
	}
	res, err := PB{}.Solve(m.Formulas, m.Atoms)
	if err != nil {
		fmt.Printf("could not solve: %v", err)
		return
	}
	fmt.Println(res.Status)
	for _, atom := range m.Atoms {
		fmt.Printf("%s := %t\n", atom, res.Model[atom])
	}
	// Output:
	// SATISFIABLE
	// p_1 := false
	// p_2 := true
	// p_3 := false
}

func BenchmarkPB(b *testing.B) {
	prog, err := parser.ParseString("type T = [1,6]; forall(x:T) exactly 1 (y:T) q(x, y); forall(y:T) exactly 1 (x:T) q(x, y);")
	if err != nil {
		b.Fatalf("could not parse: %v", err)
	}
	m, err := ground.Ground(prog, ground.Options{})
	if err != nil {
		b.Fatalf("could not ground: %v", err)
	}
	for i := 0; i < b.N; i++ {
		if _, err := (PB{}).Solve(m.Formulas, m.Atoms); err != nil {
			b.Fatalf("could not solve: %v", err)
		}
	}
}
