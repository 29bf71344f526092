package parser

import (
	"fmt"
	"io"

	"github.com/crillab/groundsat/formula"
)

// A Program is the result of parsing a source file: the declared domains and predicates,
// and the list of formulas, in file order.
// The declaration tables are consulted while parsing: a domain must be declared before it is used.
type Program struct {
	Domains    map[string]formula.Domain
	Predicates map[string]int // Arity of each declared predicate. Variables have arity 0.
	Formulas   []formula.Formula
	Lines      []int // For each formula, the line where it starts.
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{Domains: make(map[string]formula.Domain), Predicates: make(map[string]int)}
}

// Parse parses a whole program from r.
// The program must contain at least one statement.
// Errors are either *LexicalError, *SyntaxError or *NameResolutionError; no program is returned on error.
func Parse(r io.Reader) (*Program, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read program: %w", err)
	}
	return ParseString(string(src))
}

// ParseString is like Parse, but reads the program from a string.
func ParseString(src string) (*Program, error) {
	prog := NewProgram()
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	if toks[0].Kind == EOF {
		return nil, &SyntaxError{Line: toks[0].Line, Expected: "statement"}
	}
	if err := prog.parse(toks); err != nil {
		return nil, err
	}
	return prog, nil
}

// Load parses the statements in src and adds them to the program.
// Later statements can refer to the domains declared by earlier calls.
// If an error occurs, the program is left unchanged.
func (prog *Program) Load(src string) error {
	toks, err := Lex(src)
	if err != nil {
		return err
	}
	prog2 := prog.clone()
	if err := prog2.parse(toks); err != nil {
		return err
	}
	*prog = *prog2
	return nil
}

func (prog *Program) clone() *Program {
	prog2 := NewProgram()
	for name, d := range prog.Domains {
		prog2.Domains[name] = d
	}
	for name, arity := range prog.Predicates {
		prog2.Predicates[name] = arity
	}
	prog2.Formulas = append(prog2.Formulas, prog.Formulas...)
	prog2.Lines = append(prog2.Lines, prog.Lines...)
	return prog2
}

func (prog *Program) parse(toks []Token) error {
	p := parser{toks: toks, prog: prog}
	for p.tok().Kind != EOF {
		if err := p.statement(); err != nil {
			return err
		}
	}
	return nil
}

func (prog *Program) declarePredicate(tok Token, arity int) error {
	if _, ok := prog.Predicates[tok.Text]; ok {
		return &NameResolutionError{Kind: "predicate", Name: tok.Text, Line: tok.Line, Redeclared: true}
	}
	prog.Predicates[tok.Text] = arity
	return nil
}

func (prog *Program) declareDomain(tok Token, d formula.Domain) error {
	if _, ok := prog.Domains[tok.Text]; ok {
		return &NameResolutionError{Kind: "domain", Name: tok.Text, Line: tok.Line, Redeclared: true}
	}
	prog.Domains[tok.Text] = d
	return nil
}

func (prog *Program) domain(tok Token) (formula.Domain, error) {
	d, ok := prog.Domains[tok.Text]
	if !ok {
		return formula.Domain{}, &NameResolutionError{Kind: "domain", Name: tok.Text, Line: tok.Line}
	}
	return d, nil
}
