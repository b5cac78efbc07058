package cmd

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/task"
)

// addCommand appends a new task and saves.
func (c *cli) addCommand(args []string) error {
	fs := flag.NewFlagSet("tasks add", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	priority := fs.String("priority", c.cfg.DefaultPriority, "Priority (High, Medium, Low)")
	fs.StringVar(priority, "p", c.cfg.DefaultPriority, "Priority (shorthand)")
	due := fs.String("due", "", "Due date (YYYY-MM-DD)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	description := strings.Join(fs.Args(), " ")
	if err := task.ValidateDescription(description); err != nil {
		return err
	}
	p, err := parsePriorityFlag(*priority)
	if err != nil {
		return err
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}
	t := task.New(description, task.WithPriority(p), task.WithDueDate(strings.TrimSpace(*due)))
	if err := store.Add(t); err != nil {
		return fmt.Errorf("saving task file: %w", err)
	}

	position := store.Len() - 1
	c.record(logging.OpAdd, position, t)
	fmt.Fprintf(c.out, "Added task %d: %s\n", position+1, t.DisplayText())
	return nil
}

// lsCommand lists tasks with their 1-based positions.
func (c *cli) lsCommand(args []string) error {
	fs := flag.NewFlagSet("tasks ls", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	status := fs.String("status", "", "Filter by status (pending|done)")
	verbose := fs.Bool("v", false, "Show a summary line")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	keep, err := statusFilter(*status)
	if err != nil {
		return err
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}

	shown := 0
	for i, t := range store.Tasks() {
		if !keep(t) {
			continue
		}
		fmt.Fprintf(c.out, "%d. %s\n", i+1, t.DisplayText())
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(c.out, "No tasks found.")
	}

	if *verbose {
		completed := 0
		for _, t := range store.Tasks() {
			if t.Completed {
				completed++
			}
		}
		fmt.Fprintf(c.out, "\n%d tasks: %d pending, %d completed\n", store.Len(), store.Len()-completed, completed)
	}
	return nil
}

// searchCommand lists tasks whose description contains the keyword.
func (c *cli) searchCommand(args []string) error {
	fs := flag.NewFlagSet("tasks search", flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("usage: tasks search <keyword>")
	}
	keyword := strings.Join(fs.Args(), " ")

	store, err := c.loadStore()
	if err != nil {
		return err
	}

	matches := store.Search(keyword)
	if len(matches) == 0 {
		fmt.Fprintln(c.out, "No matches.")
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(c.out, "%d. %s\n", m.Index+1, m.Task.DisplayText())
	}
	return nil
}

// doneCommand marks the task at a 1-based position completed.
func (c *cli) doneCommand(args []string) error {
	n, err := positionArg("done", args)
	if err != nil {
		return err
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}
	t, err := store.At(n - 1)
	if err != nil {
		return positionError(n, err)
	}
	if t.Completed {
		fmt.Fprintf(c.out, "Task %d is already completed.\n", n)
		return nil
	}
	if err := store.Complete(n - 1); err != nil {
		return positionError(n, err)
	}

	c.record(logging.OpComplete, n-1, t)
	fmt.Fprintf(c.out, "Completed task %d: %s\n", n, t.DisplayText())
	return nil
}

// rmCommand deletes the task at a 1-based position.
func (c *cli) rmCommand(args []string) error {
	n, err := positionArg("rm", args)
	if err != nil {
		return err
	}

	store, err := c.loadStore()
	if err != nil {
		return err
	}
	t, err := store.At(n - 1)
	if err != nil {
		return positionError(n, err)
	}
	if err := store.Delete(n - 1); err != nil {
		return positionError(n, err)
	}

	c.record(logging.OpDelete, n-1, t)
	fmt.Fprintf(c.out, "Deleted task %d: %s\n", n, t.Description)
	return nil
}

// positionArg parses the single 1-based task number of done and rm.
func positionArg(name string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("usage: tasks %s <N>", name)
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid task number %q", args[0])
	}
	return n, nil
}

// positionError reports a failed mutation at 1-based position n.
func positionError(n int, err error) error {
	if errors.Is(err, task.ErrOutOfRange) {
		return fmt.Errorf("no task at position %d: %w", n, err)
	}
	return fmt.Errorf("saving task file: %w", err)
}

// parsePriorityFlag accepts High, Medium or Low in any case.
func parsePriorityFlag(s string) (task.Priority, error) {
	p := task.ParsePriority(s)
	if !strings.EqualFold(strings.TrimSpace(s), string(p)) {
		return "", fmt.Errorf("invalid priority %q (expected High, Medium or Low)", s)
	}
	return p, nil
}

func statusFilter(status string) (func(*task.Task) bool, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "all":
		return func(*task.Task) bool { return true }, nil
	case "pending", "todo":
		return func(t *task.Task) bool { return !t.Completed }, nil
	case "done", "completed":
		return func(t *task.Task) bool { return t.Completed }, nil
	}
	return nil, fmt.Errorf("invalid status %q (expected pending or done)", status)
}
