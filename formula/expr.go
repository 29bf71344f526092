package formula

import (
	"fmt"
	"math"
	"strconv"
)

// An Expr is a numeric expression.
// It is also used for atom terms: a bare identifier is either a quantified variable or a constant symbol.
type Expr interface {
	String() string
	expr()
}

// Num is an integer constant.
type Num int

// Ident is an identifier: a quantified variable, an integer variable or a constant symbol.
type Ident string

// An ArithOp is a binary arithmetic operator.
type ArithOp byte

// Available arithmetic operators.
const (
	Plus  ArithOp = '+'
	Minus ArithOp = '-'
	Times ArithOp = '*'
)

// An OverflowError is returned when the result of a constant arithmetic operation does not fit in an int.
type OverflowError struct {
	Op   ArithOp
	L, R int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow in %d %c %d", e.L, byte(e.Op), e.R)
}

// Apply returns l op r, or an *OverflowError if it does not fit in an int.
func (op ArithOp) Apply(l, r int) (int, error) {
	var res int
	var overflow bool
	switch op {
	case Plus:
		res = l + r
		overflow = r > 0 && res < l || r < 0 && res > l
	case Minus:
		res = l - r
		overflow = r > 0 && res > l || r < 0 && res < l
	case Times:
		res = l * r
		overflow = l != 0 && (res/l != r || l == -1 && r == math.MinInt)
	default:
		panic(fmt.Errorf("invalid arithmetic operator %q", byte(op)))
	}
	if overflow {
		return 0, &OverflowError{Op: op, L: l, R: r}
	}
	return res, nil
}

// Binary is an arithmetic operation between two numeric expressions.
type Binary struct {
	Op   ArithOp
	L, R Expr
}

func (Num) expr()    {}
func (Ident) expr()  {}
func (Binary) expr() {}

func (n Num) String() string   { return strconv.Itoa(int(n)) }
func (i Ident) String() string { return string(i) }

func (b Binary) String() string {
	return operand(b.L, b.Op, false) + string(b.Op) + operand(b.R, b.Op, true)
}

// operand prints a subexpression of a binary operation, with parentheses when they are needed to read it back.
func operand(e Expr, parent ArithOp, right bool) string {
	b, ok := e.(Binary)
	if !ok {
		return e.String()
	}
	if parent == Times && b.Op != Times || right && parent != Plus && b.Op != Times || right && parent == Plus && b.Op == Minus {
		return "(" + b.String() + ")"
	}
	return b.String()
}

// Subst returns e where every identifier found by lookup was replaced by its value.
// Identifiers unknown to lookup are left as is.
// Subexpressions whose operands are both integer constants are folded,
// so a fully bound expression is returned as a Num.
// Folding fails with an *OverflowError when a result does not fit in an int.
func Subst(e Expr, lookup func(string) (Expr, bool)) (Expr, error) {
	switch e := e.(type) {
	case Num:
		return e, nil
	case Ident:
		if v, ok := lookup(string(e)); ok {
			return v, nil
		}
		return e, nil
	case Binary:
		l, err := Subst(e.L, lookup)
		if err != nil {
			return nil, err
		}
		r, err := Subst(e.R, lookup)
		if err != nil {
			return nil, err
		}
		ln, lok := l.(Num)
		rn, rok := r.(Num)
		if !lok || !rok {
			return Binary{Op: e.Op, L: l, R: r}, nil
		}
		res, err := e.Op.Apply(int(ln), int(rn))
		if err != nil {
			return nil, err
		}
		return Num(res), nil
	default:
		panic(fmt.Errorf("invalid expression type %T", e))
	}
}

// Idents returns the identifiers appearing in e, in order of appearance, with repetitions.
func Idents(e Expr) []string {
	switch e := e.(type) {
	case Num:
		return nil
	case Ident:
		return []string{string(e)}
	case Binary:
		return append(Idents(e.L), Idents(e.R)...)
	default:
		panic(fmt.Errorf("invalid expression type %T", e))
	}
}
