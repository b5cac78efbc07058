// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/task"
)

// Version is set via ldflags at build time.
var Version = "dev"

// cli carries the loaded configuration and output streams to subcommands.
type cli struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer
	logger *log.Logger
}

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	c := &cli{
		cws:    cws,
		cfg:    cws.Config,
		out:    stdout,
		errOut: stderr,
	}
	c.logger = logging.NewConsoleFromConfig(stderr, c.cfg.LogLevel, c.cfg.LogFormat, c.cfg.LogTimestamps, c.cfg.LogCaller)
	c.logger.Debug("config loaded", "task_file", c.cfg.TaskFile, "files", cws.Files)

	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return c.versionCommand()
	}

	// No subcommand lists tasks.
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "add":
		return c.addCommand(remainingArgs)
	case "ls", "list":
		return c.lsCommand(remainingArgs)
	case "search", "find":
		return c.searchCommand(remainingArgs)
	case "done", "complete":
		return c.doneCommand(remainingArgs)
	case "rm", "delete":
		return c.rmCommand(remainingArgs)
	case "tui":
		return c.tuiCommand(ctx, remainingArgs)
	case "doctor":
		return c.doctorCommand(remainingArgs)
	case "config":
		return c.configCommand(remainingArgs)
	case "log":
		return c.logCommand(ctx, remainingArgs)
	case "version":
		return c.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// loadStore reads the configured task file.
func (c *cli) loadStore() (*task.Store, error) {
	store, err := task.Load(c.cfg.TaskFile)
	if err != nil {
		return nil, fmt.Errorf("loading task file: %w", err)
	}
	c.logger.Debug("tasks loaded", "path", store.Path(), "count", store.Len())
	return store, nil
}

// journal returns the activity journal, or nil when it is disabled or
// cannot be located.
func (c *cli) journal() *logging.Journal {
	if !c.cfg.Journal || c.cfg.LogDir == "" {
		return nil
	}
	j, err := logging.NewJournal(c.cfg.LogDir, c.cfg.TaskFile)
	if err != nil {
		c.logger.Warn("activity journal unavailable", "error", err)
		return nil
	}
	return j
}

// record appends a mutation to the journal. Failures only warn.
func (c *cli) record(op string, position int, t *task.Task) {
	c.logger.Debug("task changed", "op", op, "position", position+1, "path", c.cfg.TaskFile)
	j := c.journal()
	if j == nil {
		return
	}
	ev := logging.Event{
		Op:          op,
		Position:    position,
		Description: t.Description,
		Priority:    string(t.Priority),
	}
	if err := j.Record(ev); err != nil {
		c.logger.Warn("journal write failed", "error", err)
	}
}

func (c *cli) versionCommand() error {
	fmt.Fprintf(c.out, "tasks version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Tasks - a small personal task tracker")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add <description>   Add a task")
	fmt.Fprintln(w, "  ls                  List tasks (default command)")
	fmt.Fprintln(w, "  search <keyword>    List tasks whose description contains keyword")
	fmt.Fprintln(w, "  done <N>            Mark task N completed")
	fmt.Fprintln(w, "  rm <N>              Delete task N")
	fmt.Fprintln(w, "  tui                 Launch terminal UI")
	fmt.Fprintln(w, "  doctor              Check config and task file validity")
	fmt.Fprintln(w, "  config              Show effective configuration")
	fmt.Fprintln(w, "  log                 Show the activity journal")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Task numbers are the 1-based positions shown by ls and search.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Add Options:")
	fmt.Fprintln(w, "  -priority string")
	fmt.Fprintln(w, "        High, Medium or Low (default from config)")
	fmt.Fprintln(w, "  -due string")
	fmt.Fprintln(w, "        Due date, YYYY-MM-DD by convention")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -status string")
	fmt.Fprintln(w, "        Filter by status (pending|done)")
	fmt.Fprintln(w, "  -v    Show a summary line")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Log Options:")
	fmt.Fprintln(w, "  -f, -follow")
	fmt.Fprintln(w, "        Follow the journal (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
}
