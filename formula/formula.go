package formula

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// A Formula is any kind of formula of the input language, quantified or not.
// The set of implementations is closed: And, Or, Xor, Implies, Equiv, Not, Atom, Var, Rel, Card and Quant.
type Formula interface {
	String() string
	formula()
}

// And is a conjunction of subformulas. An empty conjunction is true.
type And []Formula

// Or is a disjunction of subformulas. An empty disjunction is false.
type Or []Formula

// Xor indicates exactly one of the two subformulas is true.
type Xor [2]Formula

// Implies indicates the first subformula implies the second one.
type Implies [2]Formula

// Equiv indicates both subformulas have the same truth value.
type Equiv [2]Formula

// Not negates its subformula.
type Not [1]Formula

// An Atom is a predicate applied to a list of terms, before it is given its ground name.
type Atom struct {
	Pred  string
	Terms []Expr
}

// A Var is a ground atom, i.e a boolean decision variable with a flat name.
type Var string

// A RelOp is a comparison operator between two numeric expressions.
type RelOp int

// Available comparison operators.
const (
	Lt RelOp = iota
	Gt
	Leq
	Geq
	Eq
)

var relOps = [...]string{Lt: "<", Gt: ">", Leq: "<=", Geq: ">=", Eq: "="}

func (op RelOp) String() string { return relOps[op] }

// Holds returns whether l op r is true.
func (op RelOp) Holds(l, r int) bool {
	switch op {
	case Lt:
		return l < r
	case Gt:
		return l > r
	case Leq:
		return l <= r
	case Geq:
		return l >= r
	case Eq:
		return l == r
	default:
		panic("invalid comparison operator")
	}
}

// A Rel is a numeric relation between two numeric expressions.
type Rel struct {
	Op   RelOp
	L, R Expr
}

// A CardKind says how a cardinality constraint compares the number of true subformulas with its bound.
type CardKind int

// Available cardinality kinds.
const (
	AtLeast CardKind = iota
	AtMost
	Exactly
)

var cardKinds = [...]string{AtLeast: "atleast", AtMost: "atmost", Exactly: "exactly"}

func (k CardKind) String() string { return cardKinds[k] }

// A Card is a cardinality constraint over an already enumerated list of subformulas.
// Subformulas are counted with repetition: if the same formula appears twice, it counts twice.
type Card struct {
	Kind CardKind
	N    int
	Subs []Formula
}

// A QuantKind is the kind of a quantifier.
type QuantKind int

// Available quantifiers.
const (
	Forall QuantKind = iota
	Forsome
	QAtLeast
	QAtMost
	QExactly
)

var quantKinds = [...]string{Forall: "forall", Forsome: "forsome", QAtLeast: "atleast", QAtMost: "atmost", QExactly: "exactly"}

func (k QuantKind) String() string { return quantKinds[k] }

// Counting returns true iff the quantifier carries a bound.
func (k QuantKind) Counting() bool { return k >= QAtLeast }

// A Param is a quantified variable together with the domain it ranges over.
type Param struct {
	Name   string
	Domain Domain
}

// A Quant is a quantified formula. It only exists before grounding.
// N is only meaningful for counting quantifiers.
type Quant struct {
	Kind   QuantKind
	N      int
	Params []Param
	Body   Formula
}

func (And) formula()     {}
func (Or) formula()      {}
func (Xor) formula()     {}
func (Implies) formula() {}
func (Equiv) formula()   {}
func (Not) formula()     {}
func (Atom) formula()    {}
func (Var) formula()     {}
func (Rel) formula()     {}
func (Card) formula()    {}
func (Quant) formula()   {}

func join(subs []Formula) string {
	strs := make([]string, len(subs))
	for i, f := range subs {
		strs[i] = f.String()
	}
	return strings.Join(strs, ", ")
}

func (a And) String() string     { return "and(" + join(a) + ")" }
func (o Or) String() string      { return "or(" + join(o) + ")" }
func (x Xor) String() string     { return "xor(" + join(x[:]) + ")" }
func (i Implies) String() string { return "impl(" + join(i[:]) + ")" }
func (e Equiv) String() string   { return "eqvi(" + join(e[:]) + ")" }
func (n Not) String() string     { return "not(" + n[0].String() + ")" }
func (v Var) String() string     { return string(v) }

func (a Atom) String() string {
	if len(a.Terms) == 0 {
		return a.Pred
	}
	return a.Pred + "(" + strings.Join(a.Args(), ", ") + ")"
}

// Args returns the textual value of each term of the atom.
func (a Atom) Args() []string {
	args := make([]string, len(a.Terms))
	for i, t := range a.Terms {
		args[i] = t.String()
	}
	return args
}

func (r Rel) String() string {
	return r.L.String() + " " + r.Op.String() + " " + r.R.String()
}

func (c Card) String() string {
	if len(c.Subs) == 0 {
		return c.Kind.String() + "(" + strconv.Itoa(c.N) + ")"
	}
	return c.Kind.String() + "(" + strconv.Itoa(c.N) + ", " + join(c.Subs) + ")"
}

func (q Quant) String() string {
	params := make([]string, len(q.Params))
	for i, p := range q.Params {
		params[i] = p.Name + ":" + p.Domain.ref()
	}
	prefix := q.Kind.String()
	if q.Kind.Counting() {
		prefix += " " + strconv.Itoa(q.N)
	}
	return prefix + "(" + strings.Join(params, ", ") + ") " + q.Body.String()
}

// Rename returns a copy of f where each atom was replaced by the ground variable whose name is given by name.
// All other nodes are kept as is.
// If name returns an error, the renaming stops and the error is returned.
func Rename(f Formula, name func(Atom) (string, error)) (Formula, error) {
	switch f := f.(type) {
	case Atom:
		n, err := name(f)
		if err != nil {
			return nil, err
		}
		return Var(n), nil
	case Var, Rel:
		return f, nil
	case Not:
		sub, err := Rename(f[0], name)
		if err != nil {
			return nil, err
		}
		return Not{sub}, nil
	case And:
		subs, err := renameAll(f, name)
		if err != nil {
			return nil, err
		}
		return And(subs), nil
	case Or:
		subs, err := renameAll(f, name)
		if err != nil {
			return nil, err
		}
		return Or(subs), nil
	case Xor:
		subs, err := renameAll(f[:], name)
		if err != nil {
			return nil, err
		}
		return Xor{subs[0], subs[1]}, nil
	case Implies:
		subs, err := renameAll(f[:], name)
		if err != nil {
			return nil, err
		}
		return Implies{subs[0], subs[1]}, nil
	case Equiv:
		subs, err := renameAll(f[:], name)
		if err != nil {
			return nil, err
		}
		return Equiv{subs[0], subs[1]}, nil
	case Card:
		subs, err := renameAll(f.Subs, name)
		if err != nil {
			return nil, err
		}
		return Card{Kind: f.Kind, N: f.N, Subs: subs}, nil
	case Quant:
		body, err := Rename(f.Body, name)
		if err != nil {
			return nil, err
		}
		f.Body = body
		return f, nil
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}

func renameAll(subs []Formula, name func(Atom) (string, error)) ([]Formula, error) {
	res := make([]Formula, len(subs))
	for i, sub := range subs {
		r, err := Rename(sub, name)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}

// CollectNames adds to set the name of every ground variable reachable from f.
func CollectNames(f Formula, set map[string]struct{}) {
	switch f := f.(type) {
	case Var:
		set[string(f)] = struct{}{}
	case Atom, Rel:
	case Not:
		CollectNames(f[0], set)
	case And:
		collectAll(f, set)
	case Or:
		collectAll(f, set)
	case Xor:
		collectAll(f[:], set)
	case Implies:
		collectAll(f[:], set)
	case Equiv:
		collectAll(f[:], set)
	case Card:
		collectAll(f.Subs, set)
	case Quant:
		CollectNames(f.Body, set)
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}

func collectAll(subs []Formula, set map[string]struct{}) {
	for _, sub := range subs {
		CollectNames(sub, set)
	}
}

// Names returns the sorted list of ground variables appearing in f.
func Names(f Formula) []string {
	set := make(map[string]struct{})
	CollectNames(f, set)
	return SortedNames(set)
}

// SortedNames returns the content of set as a sorted slice.
func SortedNames(set map[string]struct{}) []string {
	names := lo.Keys(set)
	sort.Strings(names)
	return names
}

// Eval returns the truth value of the ground formula f under the given model.
// It panics if f is not ground or if the model lacks a binding for one of its variables.
func Eval(f Formula, model map[string]bool) bool {
	switch f := f.(type) {
	case Var:
		b, ok := model[string(f)]
		if !ok {
			panic(fmt.Errorf("model lacks binding for variable %s", f))
		}
		return b
	case Not:
		return !Eval(f[0], model)
	case And:
		for _, sub := range f {
			if !Eval(sub, model) {
				return false
			}
		}
		return true
	case Or:
		for _, sub := range f {
			if Eval(sub, model) {
				return true
			}
		}
		return false
	case Xor:
		return Eval(f[0], model) != Eval(f[1], model)
	case Implies:
		return !Eval(f[0], model) || Eval(f[1], model)
	case Equiv:
		return Eval(f[0], model) == Eval(f[1], model)
	case Rel:
		l, lok := f.L.(Num)
		r, rok := f.R.(Num)
		if !lok || !rok {
			panic(fmt.Errorf("relation %s is not ground", f))
		}
		return f.Op.Holds(int(l), int(r))
	case Card:
		nb := 0
		for _, sub := range f.Subs {
			if Eval(sub, model) {
				nb++
			}
		}
		switch f.Kind {
		case AtLeast:
			return nb >= f.N
		case AtMost:
			return nb <= f.N
		default:
			return nb == f.N
		}
	case Atom, Quant:
		panic(fmt.Errorf("formula %s is not ground", f))
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}
