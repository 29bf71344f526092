package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/crillab/groundsat/decide"
	"github.com/crillab/groundsat/explain"
	"github.com/crillab/groundsat/formula"
	"github.com/crillab/groundsat/ground"
	"github.com/crillab/groundsat/parser"
)

// config gathers the command-line options.
type config struct {
	backend    string
	parallel   int
	strict     bool
	verbose    bool
	groundOnly bool
	opb        bool
	count      bool
	explain    bool
	watch      bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.backend, "backend", "pb", "decision procedure: pb (gophersat) or gini")
	flag.IntVar(&cfg.parallel, "parallel", 1, "number of formulas grounded concurrently")
	flag.BoolVar(&cfg.strict, "strict", false, "checks predicate arities and cardinality bounds while grounding")
	flag.BoolVar(&cfg.verbose, "verbose", false, "sets verbose mode on")
	flag.BoolVar(&cfg.groundOnly, "ground", false, "only prints the ground formulas, without solving them")
	flag.BoolVar(&cfg.opb, "opb", false, "rather than solving the problem, writes its pseudo-boolean encoding in OPB format")
	flag.BoolVar(&cfg.count, "count", false, "rather than solving the problem, counts the number of models it accepts")
	flag.BoolVar(&cfg.explain, "explain", false, "when the problem is unsatisfiable, prints a minimal unsatisfiable subset of its formulas")
	flag.BoolVar(&cfg.watch, "watch", false, "solves the problem again each time the file changes")
	flag.Parse()
	switch len(flag.Args()) {
	case 0:
		os.Exit(repl(cfg))
	case 1:
	default:
		fmt.Fprintf(os.Stderr, "Syntax : %s [options] [file]\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}
	path := flag.Args()[0]
	if cfg.watch {
		if err := watch(path, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "could not watch %q: %v\n", path, err)
			os.Exit(1)
		}
		return
	}
	if err := runFile(os.Stdout, path, cfg); err != nil {
		report(err)
		os.Exit(1)
	}
}

// runFile parses the program in path and processes it.
func runFile(w io.Writer, path string, cfg config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", path, err)
	}
	defer f.Close()
	if cfg.verbose {
		fmt.Fprintf(w, "c solving %s\n", path)
	}
	prog, err := parser.Parse(f)
	if err != nil {
		return err
	}
	return process(w, prog, cfg)
}

// process grounds prog and, unless asked otherwise, decides the resulting formulas.
func process(w io.Writer, prog *parser.Program, cfg config) error {
	if cfg.verbose {
		fmt.Fprintf(w, "c %d domain(s), %d predicate(s), %d formula(s)\n", len(prog.Domains), len(prog.Predicates), len(prog.Formulas))
	}
	m, err := ground.Ground(prog, ground.Options{Parallel: cfg.parallel, Strict: cfg.strict})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "c VARIABLES: %s\n", strings.Join(m.Atoms, " "))
	if cfg.opb {
		return decide.WriteOPB(w, m.Formulas, m.Atoms)
	}
	for _, f := range m.Formulas {
		fmt.Fprintln(w, f)
	}
	if cfg.groundOnly {
		return nil
	}
	b, err := backend(cfg)
	if err != nil {
		return err
	}
	if cfg.count {
		nb, err := b.Count(m.Formulas, m.Atoms)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, nb)
		return nil
	}
	res, err := b.Solve(m.Formulas, m.Atoms)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, res.Status)
	if res.Status == decide.Sat {
		for _, atom := range m.Atoms {
			val := 0
			if res.Model[atom] {
				val = 1
			}
			fmt.Fprintf(w, "%s := %d\n", atom, val)
		}
		return nil
	}
	if cfg.explain {
		return printMUS(w, m, b, cfg.verbose)
	}
	return nil
}

func backend(cfg config) (decide.Backend, error) {
	if cfg.backend == "pb" {
		return decide.PB{Verbose: cfg.verbose}, nil
	}
	return decide.ByName(cfg.backend)
}

func printMUS(w io.Writer, m *ground.Model, b decide.Backend, verbose bool) error {
	pb := explain.Problem{Formulas: m.Formulas, Backend: b, Options: explain.Options{Verbose: verbose}}
	mus, err := pb.MUS()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "c MUS: %d formula(s)\n", len(mus))
	for _, idx := range mus {
		if l := m.Lines[idx]; l != 0 {
			fmt.Fprintf(w, "c line %d: %v\n", l, m.Formulas[idx])
		} else {
			fmt.Fprintf(w, "c %v\n", m.Formulas[idx])
		}
	}
	return nil
}

// label returns the category of err, as displayed to the user.
func label(err error) string {
	var (
		lerr *parser.LexicalError
		serr *parser.SyntaxError
		nerr *parser.NameResolutionError
		cerr *ground.NameCollisionError
		aerr *ground.ArityError
		berr *ground.BoundError
		oerr *formula.OverflowError
	)
	switch {
	case errors.As(err, &lerr):
		return "LEXICAL ERROR"
	case errors.As(err, &serr):
		return "SYNTAX ERROR"
	case errors.As(err, &nerr):
		return "NAME ERROR"
	case errors.As(err, &cerr), errors.As(err, &aerr), errors.As(err, &berr), errors.As(err, &oerr):
		return "GROUNDING ERROR"
	case errors.Is(err, decide.ErrUnsupported):
		return "UNSUPPORTED"
	default:
		return "ERROR"
	}
}

func report(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", label(err), err)
}
