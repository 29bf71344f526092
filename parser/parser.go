package parser

import (
	"github.com/crillab/groundsat/formula"
)

// A parser reads statements from a list of tokens and records them in a program.
//
// Boolean operators are, from lowest to highest priority:
//
// - the equivalence, "<->" or "eqvi", right associative,
// - the implication, "->" or "impl", right associative,
// - the conjunction, disjunction and exclusive disjunction, "&", "|", "and", "or", "xor", left associative,
// - the negation, "not".
//
// Quantifiers and numeric relations are basic formulas.
// The body of a quantifier extends as far to the right as possible.
type parser struct {
	toks []Token
	pos  int
	prog *Program
}

func (p *parser) tok() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(expected string) error {
	tok := p.tok()
	return &SyntaxError{Token: tok.Text, Line: tok.Line, Expected: expected}
}

func (p *parser) expect(kind Kind) (Token, error) {
	if p.tok().Kind != kind {
		return Token{}, p.errorf(kind.String())
	}
	return p.advance(), nil
}

func (p *parser) statement() error {
	switch p.tok().Kind {
	case PREDICATES:
		p.advance()
		return p.predicates(true)
	case VARIABLES:
		p.advance()
		return p.predicates(false)
	case TYPE:
		p.advance()
		return p.typeDef()
	}
	line := p.tok().Line
	f, err := p.boolExpr()
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	p.prog.Formulas = append(p.prog.Formulas, f)
	p.prog.Lines = append(p.prog.Lines, line)
	return nil
}

// predicates parses a list of declarations, either "p/2, q/1;" or, for variables, "x, y;".
func (p *parser) predicates(withArity bool) error {
	for {
		id, err := p.expect(ID)
		if err != nil {
			return err
		}
		arity := 0
		if withArity {
			if _, err := p.expect(SLASH); err != nil {
				return err
			}
			n, err := p.expect(NUMBER)
			if err != nil {
				return err
			}
			arity = n.Num
		}
		if err := p.prog.declarePredicate(id, arity); err != nil {
			return err
		}
		if p.tok().Kind != COMMA {
			break
		}
		p.advance()
	}
	_, err := p.expect(SEMICOLON)
	return err
}

func (p *parser) typeDef() error {
	id, err := p.expect(ID)
	if err != nil {
		return err
	}
	if _, err := p.expect(EQ); err != nil {
		return err
	}
	d, err := p.setExpr(id.Text)
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}
	return p.prog.declareDomain(id, d)
}

// setExpr parses a domain: an interval "[1,5]", an enumeration "{a, b, 3}" or the name of a declared domain.
// name is the name given to the resulting domain; if it is empty, a named domain keeps its own name.
func (p *parser) setExpr(name string) (formula.Domain, error) {
	switch p.tok().Kind {
	case LBRACK:
		p.advance()
		lo, err := p.expect(NUMBER)
		if err != nil {
			return formula.Domain{}, err
		}
		if _, err := p.expect(COMMA); err != nil {
			return formula.Domain{}, err
		}
		hi, err := p.expect(NUMBER)
		if err != nil {
			return formula.Domain{}, err
		}
		if _, err := p.expect(RBRACK); err != nil {
			return formula.Domain{}, err
		}
		return formula.Interval(name, lo.Num, hi.Num), nil
	case LBRACE:
		p.advance()
		var values []formula.Expr
		for {
			switch tok := p.tok(); tok.Kind {
			case ID:
				values = append(values, formula.Ident(tok.Text))
			case NUMBER:
				values = append(values, formula.Num(tok.Num))
			default:
				return formula.Domain{}, p.errorf("identifier or number")
			}
			p.advance()
			if p.tok().Kind != COMMA {
				break
			}
			p.advance()
		}
		if _, err := p.expect(RBRACE); err != nil {
			return formula.Domain{}, err
		}
		return formula.Enum(name, values...), nil
	case ID:
		d, err := p.prog.domain(p.advance())
		if err != nil {
			return formula.Domain{}, err
		}
		if name != "" {
			d.Name = name
		}
		return d, nil
	default:
		return formula.Domain{}, p.errorf("domain")
	}
}

func (p *parser) boolExpr() (formula.Formula, error) {
	return p.equiv()
}

func (p *parser) equiv() (formula.Formula, error) {
	f, err := p.implies()
	if err != nil {
		return nil, err
	}
	if p.tok().Kind != EQVI {
		return f, nil
	}
	p.advance()
	f2, err := p.equiv()
	if err != nil {
		return nil, err
	}
	return formula.Equiv{f, f2}, nil
}

func (p *parser) implies() (formula.Formula, error) {
	f, err := p.binary()
	if err != nil {
		return nil, err
	}
	if p.tok().Kind != IMPL {
		return f, nil
	}
	p.advance()
	f2, err := p.implies()
	if err != nil {
		return nil, err
	}
	return formula.Implies{f, f2}, nil
}

// binary parses "and", "or" and "xor", which all have the same priority.
func (p *parser) binary() (formula.Formula, error) {
	f, err := p.not()
	if err != nil {
		return nil, err
	}
	for {
		op := p.tok().Kind
		if op != AND && op != OR && op != XOR {
			return f, nil
		}
		p.advance()
		f2, err := p.not()
		if err != nil {
			return nil, err
		}
		switch op {
		case AND:
			f = formula.And{f, f2}
		case OR:
			f = formula.Or{f, f2}
		default:
			f = formula.Xor{f, f2}
		}
	}
}

func (p *parser) not() (formula.Formula, error) {
	if p.tok().Kind != NOT {
		return p.basic()
	}
	p.advance()
	f, err := p.not()
	if err != nil {
		return nil, err
	}
	return formula.Not{f}, nil
}

func (p *parser) basic() (formula.Formula, error) {
	switch p.tok().Kind {
	case FORALL:
		p.advance()
		return p.quant(formula.Forall, 0)
	case FORSOME:
		p.advance()
		return p.quant(formula.Forsome, 0)
	case ATLEAST, ATMOST, EXACTLY:
		kind := map[Kind]formula.QuantKind{ATLEAST: formula.QAtLeast, ATMOST: formula.QAtMost, EXACTLY: formula.QExactly}[p.advance().Kind]
		n, err := p.expect(NUMBER)
		if err != nil {
			return nil, err
		}
		return p.quant(kind, n.Num)
	case NUMBER:
		return p.relation()
	case LPAREN:
		if rel, ok, err := p.tryRelation(); ok || err != nil {
			return rel, err
		}
		p.advance()
		f, err := p.boolExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return f, nil
	case ID:
		if rel, ok, err := p.tryRelation(); ok || err != nil {
			return rel, err
		}
		return p.atom()
	default:
		return nil, p.errorf("formula")
	}
}

// tryRelation parses a numeric relation if the input starts with a numeric expression followed by a comparison.
// Else, ok is false and the position is restored.
func (p *parser) tryRelation() (f formula.Formula, ok bool, err error) {
	start := p.pos
	if _, err := p.numExpr(); err != nil || !isComparison(p.tok().Kind) {
		p.pos = start
		return nil, false, nil
	}
	p.pos = start
	f, err = p.relation()
	return f, true, err
}

var comparisons = map[Kind]formula.RelOp{
	LT:  formula.Lt,
	GT:  formula.Gt,
	LEQ: formula.Leq,
	GEQ: formula.Geq,
	EQ:  formula.Eq,
}

func isComparison(kind Kind) bool {
	_, ok := comparisons[kind]
	return ok
}

func (p *parser) relation() (formula.Formula, error) {
	l, err := p.numExpr()
	if err != nil {
		return nil, err
	}
	op, ok := comparisons[p.tok().Kind]
	if !ok {
		return nil, p.errorf("comparison")
	}
	p.advance()
	r, err := p.numExpr()
	if err != nil {
		return nil, err
	}
	return formula.Rel{Op: op, L: l, R: r}, nil
}

func (p *parser) quant(kind formula.QuantKind, n int) (formula.Formula, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	var params []formula.Param
	for {
		id, err := p.expect(ID)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(COLON); err != nil {
			return nil, err
		}
		d, err := p.setExpr("")
		if err != nil {
			return nil, err
		}
		params = append(params, formula.Param{Name: id.Text, Domain: d})
		if p.tok().Kind != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.boolExpr()
	if err != nil {
		return nil, err
	}
	return formula.Quant{Kind: kind, N: n, Params: params, Body: body}, nil
}

func (p *parser) atom() (formula.Formula, error) {
	id := p.advance()
	a := formula.Atom{Pred: id.Text}
	if p.tok().Kind != LPAREN {
		return a, nil
	}
	p.advance()
	for {
		t, err := p.numExpr()
		if err != nil {
			return nil, err
		}
		a.Terms = append(a.Terms, t)
		if p.tok().Kind != COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return a, nil
}

// numExpr parses a sum or a difference, left associative.
func (p *parser) numExpr() (formula.Expr, error) {
	e, err := p.product()
	if err != nil {
		return nil, err
	}
	for p.tok().Kind == PLUS || p.tok().Kind == MINUS {
		op := formula.Plus
		if p.advance().Kind == MINUS {
			op = formula.Minus
		}
		e2, err := p.product()
		if err != nil {
			return nil, err
		}
		e = formula.Binary{Op: op, L: e, R: e2}
	}
	return e, nil
}

func (p *parser) product() (formula.Expr, error) {
	e, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.tok().Kind == TIMES {
		p.advance()
		e2, err := p.factor()
		if err != nil {
			return nil, err
		}
		e = formula.Binary{Op: formula.Times, L: e, R: e2}
	}
	return e, nil
}

func (p *parser) factor() (formula.Expr, error) {
	switch tok := p.tok(); tok.Kind {
	case NUMBER:
		p.advance()
		return formula.Num(tok.Num), nil
	case ID:
		p.advance()
		return formula.Ident(tok.Text), nil
	case LPAREN:
		p.advance()
		e, err := p.numExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, p.errorf("numeric expression")
	}
}
