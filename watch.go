package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch processes the file in path, then processes it again each time it is written.
// The parent directory is watched rather than the file itself, since many editors
// save a file by replacing it.
func watch(path string, cfg config) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	rerun := func() {
		if err := runFile(os.Stdout, path, cfg); err != nil {
			report(err)
		}
		fmt.Printf("c watching %s for changes\n", path)
	}
	rerun()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				rerun()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "c watch error: %v\n", err)
		}
	}
}
