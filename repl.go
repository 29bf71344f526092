package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/crillab/groundsat/parser"
)

const (
	historyFile = ".groundsat_history"
	promptMain  = "groundsat> "
	promptCont  = "......... "
)

const replHelp = `Statements end with ';' and are added to the current program.
Commands:
  :ground   print the ground formulas
  :solve    ground and solve the program
  :count    count the models of the program
  :reset    forget all statements
  :help     print this message
  :quit     exit`

// repl reads statements interactively and accumulates them into a single program.
func repl(cfg config) int {
	fmt.Println("groundsat interactive mode, type :help for help")
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()
	prog := parser.NewProgram()
	for {
		src, ok := readStatement(ln)
		if !ok {
			fmt.Println()
			return 0
		}
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		if strings.HasPrefix(src, ":") {
			var exit bool
			prog, exit = command(os.Stdout, prog, src, cfg)
			if exit {
				return 0
			}
			continue
		}
		if err := prog.Load(src); err != nil {
			report(err)
		}
	}
}

// command executes a REPL command on prog and returns the program to use from then on.
func command(w io.Writer, prog *parser.Program, cmd string, cfg config) (next *parser.Program, exit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return prog, true
	case ":help":
		fmt.Fprintln(w, replHelp)
	case ":reset":
		return parser.NewProgram(), false
	case ":ground":
		cfg.groundOnly = true
		if err := process(w, prog, cfg); err != nil {
			report(err)
		}
	case ":solve":
		if err := process(w, prog, cfg); err != nil {
			report(err)
		}
	case ":count":
		cfg.count = true
		if err := process(w, prog, cfg); err != nil {
			report(err)
		}
	default:
		fmt.Fprintf(w, "unknown command %s. Type :help for help.\n", cmd)
	}
	return prog, false
}

// readStatement reads lines until they form a command or end with a semicolon.
// ok is false when the input was closed.
func readStatement(ln *liner.State) (src string, ok bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil { // Aborted with Ctrl-C: drop the current statement
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		cur := strings.TrimSpace(b.String())
		if cur == "" || strings.HasPrefix(cur, ":") || strings.HasSuffix(cur, ";") {
			return b.String(), true
		}
	}
}
