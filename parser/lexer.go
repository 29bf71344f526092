package parser

import (
	"strconv"
)

// A Kind is the kind of a token.
type Kind int

// Token kinds.
const (
	EOF Kind = iota
	ID
	NUMBER
	AND
	OR
	NOT
	XOR
	EQVI
	IMPL
	LPAREN
	RPAREN
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	LEQ
	GEQ
	LT
	GT
	EQ
	PLUS
	MINUS
	TIMES
	SLASH
	COLON
	SEMICOLON
	COMMA
	TYPE
	FORALL
	FORSOME
	EXACTLY
	ATMOST
	ATLEAST
	VARIABLES
	PREDICATES
)

var kindNames = [...]string{
	EOF: "end of input", ID: "identifier", NUMBER: "number",
	AND: "and", OR: "or", NOT: "not", XOR: "xor", EQVI: "eqvi", IMPL: "impl",
	LPAREN: "(", RPAREN: ")", LBRACK: "[", RBRACK: "]", LBRACE: "{", RBRACE: "}",
	LEQ: "<=", GEQ: ">=", LT: "<", GT: ">", EQ: "=",
	PLUS: "+", MINUS: "-", TIMES: "*", SLASH: "/",
	COLON: ":", SEMICOLON: ";", COMMA: ",",
	TYPE: "type", FORALL: "forall", FORSOME: "forsome",
	EXACTLY: "exactly", ATMOST: "atmost", ATLEAST: "atleast",
	VARIABLES: "variables", PREDICATES: "predicates",
}

func (k Kind) String() string { return kindNames[k] }

// keywords maps reserved words to their kind.
// "exists" is a synonym for "forsome".
var keywords = map[string]Kind{
	"and":        AND,
	"or":         OR,
	"not":        NOT,
	"xor":        XOR,
	"eqvi":       EQVI,
	"impl":       IMPL,
	"type":       TYPE,
	"forsome":    FORSOME,
	"forall":     FORALL,
	"exists":     FORSOME,
	"exactly":    EXACTLY,
	"atmost":     ATMOST,
	"atleast":    ATLEAST,
	"variables":  VARIABLES,
	"predicates": PREDICATES,
}

// A Token is a lexical unit of the input.
type Token struct {
	Kind Kind
	Text string
	Num  int // Value of NUMBER tokens.
	Line int
}

type lexer struct {
	src    []rune
	pos    int
	line   int
	tokens []Token
}

// Lex splits src into tokens.
// The last token is always an EOF token.
// Comments start with '#' and last until the end of the line.
func Lex(src string) ([]Token, error) {
	l := lexer{src: []rune(src), line: 1}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
		if tok.Kind == EOF {
			return l.tokens, nil
		}
	}
}

func (l *lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) emit(kind Kind, size int) Token {
	tok := Token{Kind: kind, Text: string(l.src[l.pos : l.pos+size]), Line: l.line}
	l.pos += size
	return tok
}

func (l *lexer) next() (Token, error) {
	l.skip()
	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Line: l.line}, nil
	}
	c := l.peek(0)
	switch {
	case isLetter(c):
		return l.ident(), nil
	case isDigit(c):
		return l.number()
	}
	switch c {
	case '&':
		return l.emit(AND, 1), nil
	case '|':
		return l.emit(OR, 1), nil
	case '(':
		return l.emit(LPAREN, 1), nil
	case ')':
		return l.emit(RPAREN, 1), nil
	case '[':
		return l.emit(LBRACK, 1), nil
	case ']':
		return l.emit(RBRACK, 1), nil
	case '{':
		return l.emit(LBRACE, 1), nil
	case '}':
		return l.emit(RBRACE, 1), nil
	case '+':
		return l.emit(PLUS, 1), nil
	case '*':
		return l.emit(TIMES, 1), nil
	case '/':
		return l.emit(SLASH, 1), nil
	case ':':
		return l.emit(COLON, 1), nil
	case ';':
		return l.emit(SEMICOLON, 1), nil
	case ',':
		return l.emit(COMMA, 1), nil
	case '=':
		return l.emit(EQ, 1), nil
	case '-':
		if l.peek(1) == '>' {
			return l.emit(IMPL, 2), nil
		}
		return l.emit(MINUS, 1), nil
	case '<':
		if l.peek(1) == '-' && l.peek(2) == '>' {
			return l.emit(EQVI, 3), nil
		}
		if l.peek(1) == '=' {
			return l.emit(LEQ, 2), nil
		}
		return l.emit(LT, 1), nil
	case '>':
		if l.peek(1) == '=' {
			return l.emit(GEQ, 2), nil
		}
		return l.emit(GT, 1), nil
	}
	return Token{}, &LexicalError{Char: c, Line: l.line}
}

// skip skips blanks and comments, counting lines.
func (l *lexer) skip() {
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; c {
		case ' ', '\t', '\r':
			l.pos++
		case '\n':
			l.line++
			l.pos++
		case '#':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

func (l *lexer) ident() Token {
	size := 1
	for c := l.peek(size); isLetter(c) || isDigit(c); c = l.peek(size) {
		size++
	}
	tok := l.emit(ID, size)
	if kind, ok := keywords[tok.Text]; ok {
		tok.Kind = kind
	}
	return tok
}

func (l *lexer) number() (Token, error) {
	size := 1
	for isDigit(l.peek(size)) {
		size++
	}
	c := l.peek(0)
	tok := l.emit(NUMBER, size)
	val, err := strconv.Atoi(tok.Text)
	if err != nil {
		return Token{}, &LexicalError{Char: c, Line: tok.Line, Reason: "integer literal " + tok.Text + " is too large"}
	}
	tok.Num = val
	return tok, nil
}

func isLetter(c rune) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
