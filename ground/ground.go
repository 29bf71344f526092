// Package ground eliminates the quantifiers of a parsed program.
//
// Each quantified formula is instantiated once per binding of its parameters,
// the cartesian product of their domains being enumerated in declaration order.
// "forall" becomes a conjunction of the instances, "forsome" a disjunction,
// and cardinality quantifiers become cardinality constraints.
// Atoms are then given flat names: p(a, 1) is named p_a_1.
package ground

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/crillab/groundsat/formula"
	"github.com/crillab/groundsat/parser"
)

// Options is a set of options for the grounding process.
type Options struct {
	// Parallel is the max number of top-level formulas grounded concurrently.
	// Values lower than 2 mean formulas are grounded sequentially.
	Parallel int
	// If Strict is true, atoms must use declared predicates with their declared arity,
	// and cardinality bounds cannot exceed the number of instances.
	// Undeclared predicates are only reported in strict mode: otherwise, any atom is accepted.
	Strict bool
}

// A Model is the result of grounding: a list of ground formulas, in declaration order,
// and the sorted list of the names of all ground atoms they contain.
type Model struct {
	Formulas []formula.Formula
	Atoms    []string
	Lines    []int // For each formula, the line it was declared on, or 0 if unknown.
}

// Ground grounds all the formulas of prog.
// prog is only read, so it must not be modified until Ground returns.
func Ground(prog *parser.Program, opts Options) (*Model, error) {
	insts, err := instantiateAll(prog, opts)
	if err != nil {
		return nil, err
	}
	n := namer{prog: prog, strict: opts.Strict, owners: make(map[string]owner)}
	m := &Model{Formulas: make([]formula.Formula, len(insts)), Lines: make([]int, len(insts))}
	atoms := make(map[string]struct{})
	for i, inst := range insts {
		f, err := formula.Rename(inst, n.name)
		if err != nil {
			return nil, located(prog, i, err)
		}
		m.Formulas[i] = f
		m.Lines[i] = line(prog, i)
		formula.CollectNames(f, atoms)
	}
	m.Atoms = formula.SortedNames(atoms)
	return m, nil
}

// Formula grounds a single formula, without renaming its atoms.
// Quantified variables are looked up in scope, which can be nil.
func Formula(f formula.Formula, scope *Scope, opts Options) (formula.Formula, error) {
	if scope == nil {
		scope = &Scope{}
	}
	g := grounder{strict: opts.Strict}
	return g.instantiate(f, scope)
}

func instantiateAll(prog *parser.Program, opts Options) ([]formula.Formula, error) {
	insts := make([]formula.Formula, len(prog.Formulas))
	if opts.Parallel < 2 {
		for i, f := range prog.Formulas {
			inst, err := Formula(f, nil, opts)
			if err != nil {
				return nil, located(prog, i, err)
			}
			insts[i] = inst
		}
		return insts, nil
	}
	// Each goroutine writes its own slot, so the order of formulas is kept.
	// When several formulas fail, the first one in declaration order is reported.
	errs := make([]error, len(prog.Formulas))
	var g errgroup.Group
	g.SetLimit(opts.Parallel)
	for i, f := range prog.Formulas {
		i, f := i, f
		g.Go(func() error {
			inst, err := Formula(f, nil, opts)
			if err != nil {
				errs[i] = located(prog, i, err)
				return errs[i]
			}
			insts[i] = inst
			return nil
		})
	}
	if g.Wait() != nil {
		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
	}
	return insts, nil
}

func line(prog *parser.Program, i int) int {
	if i < len(prog.Lines) {
		return prog.Lines[i]
	}
	return 0
}

func located(prog *parser.Program, i int, err error) error {
	if l := line(prog, i); l != 0 {
		return fmt.Errorf("formula on line %d: %w", l, err)
	}
	return fmt.Errorf("formula #%d: %w", i+1, err)
}

type grounder struct {
	strict bool
}

// instantiate returns f where all quantifiers were eliminated and all atom terms
// were instantiated with the bindings in s.
func (g *grounder) instantiate(f formula.Formula, s *Scope) (formula.Formula, error) {
	switch f := f.(type) {
	case formula.Atom:
		terms := make([]formula.Expr, len(f.Terms))
		for i, t := range f.Terms {
			term, err := formula.Subst(t, s.Lookup)
			if err != nil {
				return nil, err
			}
			terms[i] = term
		}
		return formula.Atom{Pred: f.Pred, Terms: terms}, nil
	case formula.Rel:
		l, err := formula.Subst(f.L, s.Lookup)
		if err != nil {
			return nil, err
		}
		r, err := formula.Subst(f.R, s.Lookup)
		if err != nil {
			return nil, err
		}
		return formula.Rel{Op: f.Op, L: l, R: r}, nil
	case formula.Var:
		return f, nil
	case formula.Not:
		sub, err := g.instantiate(f[0], s)
		if err != nil {
			return nil, err
		}
		return formula.Not{sub}, nil
	case formula.And:
		subs, err := g.instantiateAll(f, s)
		if err != nil {
			return nil, err
		}
		return formula.And(subs), nil
	case formula.Or:
		subs, err := g.instantiateAll(f, s)
		if err != nil {
			return nil, err
		}
		return formula.Or(subs), nil
	case formula.Xor:
		subs, err := g.instantiateAll(f[:], s)
		if err != nil {
			return nil, err
		}
		return formula.Xor{subs[0], subs[1]}, nil
	case formula.Implies:
		subs, err := g.instantiateAll(f[:], s)
		if err != nil {
			return nil, err
		}
		return formula.Implies{subs[0], subs[1]}, nil
	case formula.Equiv:
		subs, err := g.instantiateAll(f[:], s)
		if err != nil {
			return nil, err
		}
		return formula.Equiv{subs[0], subs[1]}, nil
	case formula.Card:
		subs, err := g.instantiateAll(f.Subs, s)
		if err != nil {
			return nil, err
		}
		return formula.Card{Kind: f.Kind, N: f.N, Subs: subs}, nil
	case formula.Quant:
		return g.quant(f, s)
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}

func (g *grounder) instantiateAll(subs []formula.Formula, s *Scope) ([]formula.Formula, error) {
	res := make([]formula.Formula, len(subs))
	for i, sub := range subs {
		inst, err := g.instantiate(sub, s)
		if err != nil {
			return nil, err
		}
		res[i] = inst
	}
	return res, nil
}

func (g *grounder) quant(q formula.Quant, s *Scope) (formula.Formula, error) {
	insts := make([]formula.Formula, 0, nbInstances(q.Params))
	err := enumerate(q.Params, s, func() error {
		inst, err := g.instantiate(q.Body, s)
		if err != nil {
			return err
		}
		insts = append(insts, inst)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if g.strict && q.Kind.Counting() && q.N > len(insts) {
		return nil, &BoundError{Quant: q.Kind.String(), N: q.N, Instances: len(insts)}
	}
	switch q.Kind {
	case formula.Forall:
		return formula.And(insts), nil
	case formula.Forsome:
		return formula.Or(insts), nil
	case formula.QAtLeast:
		if q.N == 1 {
			return formula.Or(insts), nil
		}
		return formula.Card{Kind: formula.AtLeast, N: q.N, Subs: insts}, nil
	case formula.QAtMost:
		return formula.Card{Kind: formula.AtMost, N: q.N, Subs: insts}, nil
	case formula.QExactly:
		return formula.Card{Kind: formula.Exactly, N: q.N, Subs: insts}, nil
	default:
		panic(fmt.Errorf("invalid quantifier %d", q.Kind))
	}
}

func nbInstances(params []formula.Param) int {
	nb := 1
	for _, p := range params {
		nb *= p.Domain.Len()
	}
	return nb
}

// enumerate calls fn once for each binding of params, with the binding pushed on s.
// The first parameter varies the slowest.
func enumerate(params []formula.Param, s *Scope, fn func() error) error {
	if len(params) == 0 {
		return fn()
	}
	p := params[0]
	for _, v := range p.Domain.Values {
		s.Push(p.Name, v)
		err := enumerate(params[1:], s, fn)
		s.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// An owner is the atom that first got a given ground name.
type owner struct {
	key  string
	atom string
}

// namer gives ground names to instantiated atoms.
// It is not safe for concurrent use.
type namer struct {
	prog   *parser.Program
	strict bool
	owners map[string]owner
}

// Name returns the ground name of an instantiated atom: its predicate,
// followed by its terms, all separated by underscores.
func Name(a formula.Atom) string {
	if len(a.Terms) == 0 {
		return a.Pred
	}
	return a.Pred + "_" + strings.Join(a.Args(), "_")
}

func (n *namer) name(a formula.Atom) (string, error) {
	if n.strict {
		arity, ok := n.prog.Predicates[a.Pred]
		if !ok {
			return "", &parser.NameResolutionError{Kind: "predicate", Name: a.Pred}
		}
		if arity != len(a.Terms) {
			return "", &ArityError{Pred: a.Pred, Declared: arity, Used: len(a.Terms)}
		}
	}
	name := Name(a)
	key := a.Pred + "\x00" + strings.Join(a.Args(), "\x00")
	if o, ok := n.owners[name]; !ok {
		n.owners[name] = owner{key: key, atom: a.String()}
	} else if o.key != key {
		return "", &NameCollisionError{Name: name, First: o.atom, Second: a.String()}
	}
	return name, nil
}
