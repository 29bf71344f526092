package decide

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/crillab/gophersat/solver"

	"github.com/crillab/groundsat/formula"
)

// PB is the pseudo-boolean backend, relying on gophersat.
// Each subformula is given its own variable, defined as equivalent to the subformula,
// so the number of models over ground atoms is preserved.
type PB struct {
	// If Verbose is true, solver statistics are regularly printed on stdout.
	Verbose bool
}

// Solve implements Backend.
func (b PB) Solve(formulas []formula.Formula, atoms []string) (Result, error) {
	enc, err := encodePB(formulas, atoms)
	if err != nil {
		return Result{}, err
	}
	s := solver.New(solver.ParsePBConstrs(enc.constrs))
	s.Verbose = b.Verbose
	if s.Solve() != solver.Sat {
		return Result{Status: Unsat}, nil
	}
	m := s.Model()
	model := make(map[string]bool, len(enc.vars))
	for name, idx := range enc.vars {
		model[name] = idx <= len(m) && m[idx-1]
	}
	return Result{Status: Sat, Model: model}, nil
}

// Count implements Backend.
func (b PB) Count(formulas []formula.Formula, atoms []string) (int, error) {
	enc, err := encodePB(formulas, atoms)
	if err != nil {
		return 0, err
	}
	pb := solver.ParsePBConstrs(enc.constrs)
	if pb.Status == solver.Unsat {
		return 0, nil
	}
	s := solver.New(pb)
	s.Verbose = b.Verbose
	return s.Enumerate(nil, nil), nil
}

// WriteOPB writes the pseudo-boolean encoding of formulas on w, in OPB format.
// The index associated with each ground atom is given in a comment line,
// between the prolog and the set of constraints. For instance, if the atom "p_1"
// is associated with the index 1, there will be a comment line "* p_1=x1".
func WriteOPB(w io.Writer, formulas []formula.Formula, atoms []string) error {
	enc, err := encodePB(formulas, atoms)
	if err != nil {
		return err
	}
	var constrs []solver.PBConstr
	for _, c := range enc.constrs {
		if c.AtLeast > 0 {
			constrs = append(constrs, c)
		}
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "* #variable= %d #constraint= %d\n", enc.nbVars, len(constrs))
	names := make([]string, 0, len(enc.vars))
	for name := range enc.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(bw, "* %s=x%d\n", name, enc.vars[name])
	}
	for _, c := range constrs {
		terms := make([]string, len(c.Lits))
		for i, lit := range c.Lits {
			weight := 1
			if c.Weights != nil {
				weight = c.Weights[i]
			}
			if lit < 0 {
				terms[i] = fmt.Sprintf("+%d ~x%d", weight, -lit)
			} else {
				terms[i] = fmt.Sprintf("+%d x%d", weight, lit)
			}
		}
		fmt.Fprintf(bw, "%s >= %d ;\n", strings.Join(terms, " "), c.AtLeast)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not write OPB output: %w", err)
	}
	return nil
}

// pbEncoder translates ground formulas into a list of PB constraints.
type pbEncoder struct {
	vars    map[string]int // Index of each ground atom
	nbVars  int
	top     int // A variable forced to true, or 0 if it was not needed yet
	constrs []solver.PBConstr
}

func encodePB(formulas []formula.Formula, atoms []string) (*pbEncoder, error) {
	enc := &pbEncoder{vars: make(map[string]int, len(atoms))}
	for _, name := range atoms {
		enc.atom(name)
	}
	for _, f := range formulas {
		lit, err := enc.lit(f)
		if err != nil {
			return nil, err
		}
		enc.clause(lit)
	}
	if enc.nbVars == 0 {
		enc.constant(true)
	}
	// Makes sure the solver knows about all variables, even those whose constraints
	// were trivially satisfied.
	enc.constrs = append(enc.constrs, solver.PBConstr{Lits: []int{enc.nbVars}})
	return enc, nil
}

func (enc *pbEncoder) atom(name string) int {
	idx, ok := enc.vars[name]
	if !ok {
		idx = enc.fresh()
		enc.vars[name] = idx
	}
	return idx
}

func (enc *pbEncoder) fresh() int {
	enc.nbVars++
	return enc.nbVars
}

// clause adds the disjunction of lits. Repeated literals are removed and tautologies are ignored.
func (enc *pbEncoder) clause(lits ...int) {
	seen := make(map[int]bool, len(lits))
	res := make([]int, 0, len(lits))
	for _, lit := range lits {
		if seen[-lit] {
			return
		}
		if !seen[lit] {
			seen[lit] = true
			res = append(res, lit)
		}
	}
	enc.constrs = append(enc.constrs, solver.PropClause(res...))
}

// constant returns a literal that is always b.
func (enc *pbEncoder) constant(b bool) int {
	if enc.top == 0 {
		enc.top = enc.fresh()
		enc.clause(enc.top)
	}
	if b {
		return enc.top
	}
	return -enc.top
}

// lit returns a literal equivalent to f.
func (enc *pbEncoder) lit(f formula.Formula) (int, error) {
	switch f := f.(type) {
	case formula.Var:
		return enc.atom(string(f)), nil
	case formula.Rel:
		val, err := relValue(f)
		if err != nil {
			return 0, err
		}
		return enc.constant(val), nil
	case formula.Not:
		lit, err := enc.lit(f[0])
		return -lit, err
	case formula.And:
		lits, err := enc.lits(f)
		if err != nil {
			return 0, err
		}
		return enc.and(lits), nil
	case formula.Or:
		lits, err := enc.lits(f)
		if err != nil {
			return 0, err
		}
		return -enc.and(negate(lits)), nil
	case formula.Xor:
		lits, err := enc.lits(f[:])
		if err != nil {
			return 0, err
		}
		return enc.xor(lits[0], lits[1]), nil
	case formula.Implies:
		lits, err := enc.lits(f[:])
		if err != nil {
			return 0, err
		}
		return -enc.and([]int{lits[0], -lits[1]}), nil
	case formula.Equiv:
		lits, err := enc.lits(f[:])
		if err != nil {
			return 0, err
		}
		return -enc.xor(lits[0], lits[1]), nil
	case formula.Card:
		lits, err := enc.lits(f.Subs)
		if err != nil {
			return 0, err
		}
		switch f.Kind {
		case formula.AtLeast:
			return enc.geq(lits, f.N), nil
		case formula.AtMost:
			return -enc.geq(lits, f.N+1), nil
		default:
			return enc.and([]int{enc.geq(lits, f.N), -enc.geq(lits, f.N+1)}), nil
		}
	case formula.Atom, formula.Quant:
		return 0, notGround(f)
	default:
		panic(fmt.Errorf("invalid formula type %T", f))
	}
}

func (enc *pbEncoder) lits(subs []formula.Formula) ([]int, error) {
	lits := make([]int, len(subs))
	for i, sub := range subs {
		lit, err := enc.lit(sub)
		if err != nil {
			return nil, err
		}
		lits[i] = lit
	}
	return lits, nil
}

func negate(lits []int) []int {
	res := make([]int, len(lits))
	for i, lit := range lits {
		res[i] = -lit
	}
	return res
}

// and returns a literal d such that d <-> l1 & ... & ln.
func (enc *pbEncoder) and(lits []int) int {
	switch len(lits) {
	case 0:
		return enc.constant(true)
	case 1:
		return lits[0]
	}
	d := enc.fresh()
	long := make([]int, 0, len(lits)+1)
	long = append(long, d)
	for _, lit := range lits {
		enc.clause(-d, lit)
		long = append(long, -lit)
	}
	enc.clause(long...)
	return d
}

// xor returns a literal d such that d <-> l1 xor l2.
func (enc *pbEncoder) xor(l1, l2 int) int {
	d := enc.fresh()
	enc.clause(-d, l1, l2)
	enc.clause(-d, -l1, -l2)
	enc.clause(d, -l1, l2)
	enc.clause(d, l1, -l2)
	return d
}

// geq returns a literal d such that d <-> (at least n of lits are true).
// Literals are counted with repetition. Opposite literals on the same variable are merged,
// since x + ~x is always 1.
func (enc *pbEncoder) geq(lits []int, n int) int {
	coefs := make(map[int]int)
	for _, lit := range lits {
		if lit > 0 {
			coefs[lit]++
		} else {
			coefs[-lit]--
			n-- // ~x = 1 - x
		}
	}
	vars := make([]int, 0, len(coefs))
	for v := range coefs {
		vars = append(vars, v)
	}
	sort.Ints(vars)
	var terms, weights []int
	for _, v := range vars {
		switch c := coefs[v]; {
		case c > 0:
			terms = append(terms, v)
			weights = append(weights, c)
		case c < 0:
			terms = append(terms, -v)
			weights = append(weights, -c)
			n -= c // c.x = |c|.~x + c
		}
	}
	sum := 0
	for _, w := range weights {
		sum += w
	}
	if n <= 0 {
		return enc.constant(true)
	}
	if n > sum {
		return enc.constant(false)
	}
	d := enc.fresh()
	// d -> sum >= n
	lits1 := append(append([]int(nil), terms...), -d)
	weights1 := append(append([]int(nil), weights...), n)
	enc.constrs = append(enc.constrs, solver.GtEq(lits1, weights1, n))
	// ~d -> sum <= n-1, i.e sum of negations >= sum-n+1
	lits2 := append(negate(terms), d)
	weights2 := append(append([]int(nil), weights...), sum-n+1)
	enc.constrs = append(enc.constrs, solver.GtEq(lits2, weights2, sum-n+1))
	return d
}
