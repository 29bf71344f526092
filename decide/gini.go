package decide

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/crillab/groundsat/formula"
)

// Gini is the circuit backend, relying on gini.
// Cardinality constraints are encoded with sorting networks.
type Gini struct{}

// Solve implements Backend.
func (Gini) Solve(formulas []formula.Formula, atoms []string) (Result, error) {
	enc, err := encodeGini(formulas, atoms)
	if err != nil {
		return Result{}, err
	}
	g := enc.solver()
	if g.Solve() != 1 {
		return Result{Status: Unsat}, nil
	}
	model := make(map[string]bool, len(enc.vars))
	for name, m := range enc.vars {
		model[name] = g.Value(m)
	}
	return Result{Status: Sat, Model: model}, nil
}

// Count implements Backend.
// Each model found is blocked by a clause over the ground atoms before searching for the next one.
func (Gini) Count(formulas []formula.Formula, atoms []string) (int, error) {
	enc, err := encodeGini(formulas, atoms)
	if err != nil {
		return 0, err
	}
	g := enc.solver()
	nb := 0
	for g.Solve() == 1 {
		nb++
		for _, m := range enc.vars {
			if g.Value(m) {
				g.Add(m.Not())
			} else {
				g.Add(m)
			}
		}
		g.Add(z.LitNull)
	}
	return nb, nil
}

type giniEncoder struct {
	c     *logic.C
	vars  map[string]z.Lit
	roots []z.Lit
}

func encodeGini(formulas []formula.Formula, atoms []string) (*giniEncoder, error) {
	enc := &giniEncoder{c: logic.NewC(), vars: make(map[string]z.Lit, len(atoms))}
	for _, name := range atoms {
		enc.atom(name)
	}
	for _, f := range formulas {
		m, err := enc.lit(f)
		if err != nil {
			return nil, err
		}
		enc.roots = append(enc.roots, m)
	}
	return enc, nil
}

// solver returns a gini instance where all roots must be true.
func (enc *giniEncoder) solver() *gini.Gini {
	g := gini.New()
	enc.c.ToCnf(g)
	// Tautologies make the solver aware of atoms that do not appear in any clause.
	for _, m := range enc.vars {
		g.Add(m)
		g.Add(m.Not())
		g.Add(z.LitNull)
	}
	for _, m := range enc.roots {
		g.Add(m)
		g.Add(z.LitNull)
	}
	return g
}

func (enc *giniEncoder) atom(name string) z.Lit {
	m, ok := enc.vars[name]
	if !ok {
		m = enc.c.Lit()
		enc.vars[name] = m
	}
	return m
}

func (enc *giniEncoder) constant(b bool) z.Lit {
	if b {
		return enc.c.T
	}
	return enc.c.F
}

func (enc *giniEncoder) lit(f formula.Formula) (z.Lit, error) {
	switch f := f.(type) {
	case formula.Var:
		return enc.atom(string(f)), nil
	case formula.Rel:
		val, err := relValue(f)
		if err != nil {
			return z.LitNull, err
		}
		return enc.constant(val), nil
	case formula.Not:
		m, err := enc.lit(f[0])
		return m.Not(), err
	case formula.And:
		ms, err := enc.lits(f)
		if err != nil {
			return z.LitNull, err
		}
		if len(ms) == 0 {
			return enc.c.T, nil
		}
		return enc.c.Ands(ms...), nil
	case formula.Or:
		ms, err := enc.lits(f)
		if err != nil {
			return z.LitNull, err
		}
		if len(ms) == 0 {
			return enc.c.F, nil
		}
		return enc.c.Ors(ms...), nil
	case formula.Xor:
		ms, err := enc.lits(f[:])
		if err != nil {
			return z.LitNull, err
		}
		return enc.c.Xor(ms[0], ms[1]), nil
	case formula.Implies:
		ms, err := enc.lits(f[:])
		if err != nil {
			return z.LitNull, err
		}
		return enc.c.Implies(ms[0], ms[1]), nil
	case formula.Equiv:
		ms, err := enc.lits(f[:])
		if err != nil {
			return z.LitNull, err
		}
		return enc.c.Xor(ms[0], ms[1]).Not(), nil
	case formula.Card:
		ms, err := enc.lits(f.Subs)
		if err != nil {
			return z.LitNull, err
		}
		return enc.card(f.Kind, f.N, ms), nil
	case formula.Atom, formula.Quant:
		return z.LitNull, notGround(f)
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}

func (enc *giniEncoder) lits(subs []formula.Formula) ([]z.Lit, error) {
	ms := make([]z.Lit, len(subs))
	for i, sub := range subs {
		m, err := enc.lit(sub)
		if err != nil {
			return nil, err
		}
		ms[i] = m
	}
	return ms, nil
}

// card returns a literal true iff the number of true literals in ms compares with n as kind says.
// The sorting network is only built for bounds in [1, len(ms)].
func (enc *giniEncoder) card(kind formula.CardKind, n int, ms []z.Lit) z.Lit {
	var cs *logic.CardSort
	geq := func(k int) z.Lit {
		switch {
		case k <= 0:
			return enc.c.T
		case k > len(ms):
			return enc.c.F
		}
		if cs == nil {
			cs = logic.NewCardSort(ms, enc.c)
		}
		return cs.Geq(k)
	}
	switch kind {
	case formula.AtLeast:
		return geq(n)
	case formula.AtMost:
		return geq(n + 1).Not()
	default:
		return enc.c.And(geq(n), geq(n+1).Not())
	}
}
