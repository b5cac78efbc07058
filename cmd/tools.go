package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/task"
	"github.com/nibzard/tasks-go/internal/ui"
)

// tuiCommand launches the TUI.
func (c *cli) tuiCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks tui", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}
	opts := []ui.TUIOption{
		ui.WithLogger(c.logger),
		ui.WithDefaultPriority(c.cfg.Priority()),
	}
	if j := c.journal(); j != nil {
		opts = append(opts, ui.WithJournal(j))
	}
	return ui.RunTUI(ctx, store, opts...)
}

// doctorCommand checks configuration and the task file.
func (c *cli) doctorCommand(args []string) error {
	flags := flag.NewFlagSet("tasks doctor", flag.ContinueOnError)
	flags.SetOutput(c.errOut)
	verbose := flags.Bool("v", false, "Verbose output")
	if err := flags.Parse(args); err != nil {
		return err
	}

	w := c.out
	fmt.Fprintln(w, "Tasks Doctor")
	fmt.Fprintln(w, "============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if len(c.cws.Files) == 0 {
		fmt.Fprintln(w, "  ✅ No config files (using defaults)")
	}
	for _, f := range c.cws.Files {
		fmt.Fprintf(w, "  ✅ %s\n", f)
	}
	fmt.Fprintf(w, "  ✅ Default priority: %s\n", c.cfg.Priority())
	fmt.Fprintf(w, "  ✅ Log level: %s, format: %s\n", c.cfg.LogLevel, c.cfg.LogFormat)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Task file: %s\n", c.cfg.TaskFile)
	info, err := os.Stat(c.cfg.TaskFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintln(w, "  ⚠️  Not found (will be created on first add)")
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		allOK = false
	default:
		if !c.checkTaskFile(*verbose) {
			allOK = false
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Log directory: %s\n", c.cfg.LogDir)
	if !c.cfg.Journal {
		fmt.Fprintln(w, "  ⚠️  Journal disabled")
	} else if _, err := os.Stat(c.cfg.LogDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(w, "  ⚠️  Not found (will be created on first change)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

// checkTaskFile validates the task file contents and prints what it finds.
func (c *cli) checkTaskFile(verbose bool) bool {
	w := c.out
	data, err := os.ReadFile(c.cfg.TaskFile)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Read error: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ OK")

	if errs := task.Check(data); len(errs) > 0 {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range errs {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}
	tasks, err := task.Decode(data)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "  ✅ Valid")

	completed := 0
	for _, t := range tasks {
		if t.Completed {
			completed++
		}
	}
	fmt.Fprintf(w, "  Tasks: %d (%d pending, %d completed)\n", len(tasks), len(tasks)-completed, completed)
	if verbose {
		for i, t := range tasks {
			fmt.Fprintf(w, "    %d. %s\n", i+1, t.DisplayText())
		}
	}
	return true
}

// configCommand prints the effective configuration and where each value came from.
func (c *cli) configCommand(args []string) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *example {
		fmt.Fprint(c.out, config.ExampleConfig())
		return nil
	}

	if len(c.cws.Files) == 0 {
		fmt.Fprintln(c.out, "# no config files found")
	}
	for _, f := range c.cws.Files {
		fmt.Fprintf(c.out, "# read %s\n", f)
	}
	for _, field := range c.cws.Fields() {
		fmt.Fprintf(c.out, "%s = %s  # %s\n", field, formatValue(c.cws.Value(field)), c.cws.Sources[field])
	}
	return nil
}

func formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", v)
}

// logCommand prints the activity journal for the current task file.
func (c *cli) logCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks log", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	follow := fs.Bool("f", false, "Follow the journal (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the journal (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	j, err := logging.NewJournal(c.cfg.LogDir, c.cfg.TaskFile)
	if err != nil {
		return fmt.Errorf("finding journal: %w", err)
	}
	if _, err := os.Stat(j.Path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(c.out, "No activity recorded.")
		return nil
	}

	if *follow {
		fmt.Fprintf(c.errOut, "Tailing: %s (Ctrl+C to stop)\n", j.Path)
	}
	return logging.TailLog(ctx, c.out, j.Path, *n, *follow)
}
