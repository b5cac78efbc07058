// Package logging writes the console log, the JSONL activity journal, and
// tail output for the journal.
package logging

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// JournalFile is the name of the activity journal inside its directory.
const JournalFile = "activity.jsonl"

// Journal operations.
const (
	OpAdd      = "add"
	OpComplete = "complete"
	OpDelete   = "delete"
)

// Event is one line of the activity journal.
type Event struct {
	Time        time.Time `json:"time"`
	Op          string    `json:"op"`
	Position    int       `json:"position"`
	Description string    `json:"description"`
	Priority    string    `json:"priority,omitempty"`
	TaskFile    string    `json:"task_file"`
}

// Journal appends events for one task file.
type Journal struct {
	Dir      string
	Path     string
	TaskFile string
	now      func() time.Time
}

// NewJournal returns the journal for taskFile under baseDir. Nothing is
// created on disk until the first Record.
func NewJournal(baseDir, taskFile string) (*Journal, error) {
	dir, err := FindJournalDir(baseDir, taskFile)
	if err != nil {
		return nil, err
	}
	abs := taskFile
	if a, err := filepath.Abs(taskFile); err == nil {
		abs = a
	}
	return &Journal{
		Dir:      dir,
		Path:     filepath.Join(dir, JournalFile),
		TaskFile: abs,
		now:      time.Now,
	}, nil
}

// Record appends ev as a single JSON line. Time and TaskFile are filled in
// when empty. The file is opened and closed for every call.
func (j *Journal) Record(ev Event) error {
	if j == nil {
		return nil
	}
	if ev.Time.IsZero() {
		ev.Time = j.now().UTC()
	}
	if ev.TaskFile == "" {
		ev.TaskFile = j.TaskFile
	}

	line, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(j.Dir, 0755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}
	f, err := os.OpenFile(j.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return fmt.Errorf("write journal: %w", err)
	}
	return f.Close()
}

// ReadEvents returns every event in the journal at path, oldest first.
// A missing file yields no events.
func ReadEvents(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			return nil, fmt.Errorf("journal line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	return events, nil
}

// FindJournalDir returns the journal directory for taskFile under baseDir:
// <baseDir>/<slug of the task file's directory>-<hash of the task file path>.
func FindJournalDir(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if taskFile == "" {
		return "", fmt.Errorf("task file is empty")
	}

	abs := taskFile
	if a, err := filepath.Abs(taskFile); err == nil {
		abs = a
	}
	return filepath.Join(filepath.Clean(baseDir), projectSlug(abs)), nil
}

func projectSlug(taskFile string) string {
	name := filepath.Base(filepath.Dir(taskFile))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(taskFile))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "project"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "project"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// TailLog copies the last n lines of path to w (all lines when n <= 0).
// With follow it keeps copying new data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := writeLastLines(w, file, n); err != nil {
			return err
		}
	} else if _, err := io.Copy(w, file); err != nil {
		return err
	}

	if !follow {
		return nil
	}
	return tailFollow(ctx, w, file, 100*time.Millisecond)
}

// writeLastLines writes the final n lines of r to w, leaving r at EOF.
func writeLastLines(w io.Writer, r io.Reader, n int) error {
	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	for _, line := range ring {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// tailFollow copies data appended to file until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, file *os.File, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
