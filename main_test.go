package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crillab/groundsat/decide"
	"github.com/crillab/groundsat/parser"
)

func runString(t *testing.T, src string, cfg config) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "problem.txt")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("could not write problem: %v", err)
	}
	var buf bytes.Buffer
	err := runFile(&buf, path, cfg)
	return buf.String(), err
}

func TestRunFile(t *testing.T) {
	const src = "predicates p/1; variables y; type T=[1,2];\nforall(x:T) p(x);\np(y);\n"
	const expected = `c VARIABLES: p_1 p_2 p_y
and(p_1, p_2)
p_y
SATISFIABLE
p_1 := 1
p_2 := 1
p_y := 1
`
	for _, b := range []string{"pb", "gini"} {
		out, err := runString(t, src, config{backend: b})
		if err != nil {
			t.Errorf("%s: could not run: %v", b, err)
		} else if out != expected {
			t.Errorf("%s: expected output\n%s\ngot\n%s", b, expected, out)
		}
	}
}

func TestRunModes(t *testing.T) {
	const src = "type T=[1,3]; exactly 1 (x:T) p(x);"
	out, err := runString(t, src, config{backend: "gini", count: true})
	if err != nil || !strings.HasSuffix(out, "\n3\n") {
		t.Errorf("invalid count output %q (err=%v)", out, err)
	}
	out, err = runString(t, src, config{groundOnly: true})
	if err != nil || out != "c VARIABLES: p_1 p_2 p_3\nexactly(1, p_1, p_2, p_3)\n" {
		t.Errorf("invalid ground output %q (err=%v)", out, err)
	}
	out, err = runString(t, src, config{opb: true})
	if err != nil || !strings.Contains(out, "* p_2=x2\n") {
		t.Errorf("invalid OPB output %q (err=%v)", out, err)
	}
}

func TestRunExplain(t *testing.T) {
	out, err := runString(t, "a;\nb;\nnot a;\n", config{backend: "pb", explain: true})
	if err != nil {
		t.Fatalf("could not run: %v", err)
	}
	if !strings.Contains(out, "UNSATISFIABLE\nc MUS: 2 formula(s)\nc line 1: a\nc line 3: not(a)\n") {
		t.Errorf("invalid MUS output %q", out)
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"a & $;":                         "LEXICAL ERROR",
		"a & ;":                          "SYNTAX ERROR",
		"forall(x:T) p(x);":              "NAME ERROR",
		"p_a; p(a);":                     "GROUNDING ERROR",
		"p(9223372036854775807+1);":      "GROUNDING ERROR",
		"forall(x:[1,2]) x < c -> p(x);": "UNSUPPORTED",
	}
	for src, expected := range tests {
		_, err := runString(t, src, config{backend: "pb"})
		if err == nil {
			t.Errorf("expected an error for %q", src)
		} else if got := label(err); got != expected {
			t.Errorf("for %q, expected label %s, got %s (%v)", src, expected, got, err)
		}
	}
	if label(errors.New("oops")) != "ERROR" {
		t.Errorf("invalid label for generic error")
	}
}

func TestCommand(t *testing.T) {
	prog := parser.NewProgram()
	if err := prog.Load("type T = [1,2]; forall(x:T) p(x);"); err != nil {
		t.Fatalf("could not load: %v", err)
	}
	var buf bytes.Buffer
	if _, exit := command(&buf, prog, ":solve", config{backend: "pb"}); exit {
		t.Errorf(":solve should not exit")
	}
	if !strings.Contains(buf.String(), decide.Sat.String()) {
		t.Errorf("invalid :solve output %q", buf.String())
	}
	next, _ := command(&buf, prog, ":reset", config{})
	if len(next.Formulas) != 0 {
		t.Errorf(":reset should return an empty program")
	}
	if _, exit := command(&buf, prog, ":quit", config{}); !exit {
		t.Errorf(":quit should exit")
	}
}
