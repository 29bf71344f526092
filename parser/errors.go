package parser

import "fmt"

// A LexicalError is returned when the input contains a character that cannot start any token.
type LexicalError struct {
	Char   rune
	Line   int
	Reason string // Optional, when the character is not the culprit by itself.
}

func (e *LexicalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("line %d: illegal character %q", e.Line, e.Char)
}

// A SyntaxError is returned when a token does not fit the grammar.
// Token is empty when the input ended prematurely.
type SyntaxError struct {
	Token    string
	Line     int
	Expected string
}

func (e *SyntaxError) Error() string {
	found := fmt.Sprintf("%q", e.Token)
	if e.Token == "" {
		found = "end of input"
	}
	if e.Expected == "" {
		return fmt.Sprintf("line %d: syntax error at %s", e.Line, found)
	}
	return fmt.Sprintf("line %d: syntax error at %s, expected %s", e.Line, found, e.Expected)
}

// A NameResolutionError is returned when a name is used before it was declared, or declared twice.
// Kind is either "domain" or "predicate".
type NameResolutionError struct {
	Kind       string
	Name       string
	Line       int
	Redeclared bool
}

func (e *NameResolutionError) Error() string {
	if e.Redeclared {
		return fmt.Sprintf("line %d: %s %s already declared", e.Line, e.Kind, e.Name)
	}
	if e.Line == 0 {
		return fmt.Sprintf("undeclared %s %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("line %d: undeclared %s %s", e.Line, e.Kind, e.Name)
}
