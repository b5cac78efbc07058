// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/task"
)

// ErrNotTTY is returned by RunTUI when stdout is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	journal         *logging.Journal
	logger          *log.Logger
	defaultPriority task.Priority
}

// WithJournal records every mutation made from the TUI in j.
func WithJournal(j *logging.Journal) TUIOption {
	return func(c *tuiConfig) {
		c.journal = j
	}
}

// WithLogger sets the logger used for journal failures.
func WithLogger(logger *log.Logger) TUIOption {
	return func(c *tuiConfig) {
		c.logger = logger
	}
}

// WithDefaultPriority sets the priority preselected in the add prompt.
func WithDefaultPriority(p task.Priority) TUIOption {
	return func(c *tuiConfig) {
		if p.Valid() {
			c.defaultPriority = p
		}
	}
}

// RunTUI runs the terminal UI over store until the user quits or ctx is done.
func RunTUI(ctx context.Context, store *task.Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	model := newModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

type mode int

const (
	modeList mode = iota
	modeAdd
	modeSearch
	modeHelp
	modeConfirmDelete
)

// Fields of the add prompt.
const (
	fieldDescription = iota
	fieldDue
)

type model struct {
	cfg    tuiConfig
	store  *task.Store
	rows   []task.Match
	cursor int
	mode   mode

	query    string
	input    string
	due      string
	field    int
	priority task.Priority

	// pendingDelete is the handle of the task awaiting delete confirmation.
	pendingDelete string

	status  string
	lastErr error
	styles  styles
}

type styles struct {
	title    lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	high     lipgloss.Style
	low      lipgloss.Style
	faint    lipgloss.Style
	errorMsg lipgloss.Style
	prompt   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		high:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		low:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		faint:    lipgloss.NewStyle().Faint(true),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

func newModel(store *task.Store, opts ...TUIOption) *model {
	cfg := tuiConfig{defaultPriority: task.DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &model{
		cfg:      cfg,
		store:    store,
		priority: cfg.defaultPriority,
		styles:   defaultStyles(),
	}
	m.refreshRows()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.mode {
	case modeAdd:
		return m.updateAdd(key)
	case modeSearch:
		return m.updateSearch(key)
	case modeHelp:
		m.mode = modeList
		return m, nil
	case modeConfirmDelete:
		return m.updateConfirmDelete(key)
	}
	return m.updateList(key)
}

func (m *model) updateList(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		if len(m.rows) > 0 {
			m.cursor = len(m.rows) - 1
		}
	case " ", "enter":
		m.completeSelected()
	case "d", "delete":
		m.confirmDelete()
	case "a":
		m.mode = modeAdd
		m.input = ""
		m.due = ""
		m.field = fieldDescription
		m.priority = m.cfg.defaultPriority
		m.status = ""
	case "/":
		m.mode = modeSearch
		m.status = ""
	case "esc":
		m.query = ""
		m.refreshRows()
	case "r":
		m.reload()
	case "?":
		m.mode = modeHelp
	}
	return m, nil
}

func (m *model) updateAdd(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.input = ""
		m.due = ""
	case tea.KeyTab, tea.KeyShiftTab:
		m.field = 1 - m.field
	case tea.KeyCtrlP:
		m.priority = m.priority.Next()
	case tea.KeyEnter:
		m.submitAdd()
	default:
		if m.field == fieldDue {
			m.due = editLine(m.due, key)
		} else {
			m.input = editLine(m.input, key)
		}
	}
	return m, nil
}

func (m *model) updateConfirmDelete(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	m.mode = modeList
	switch key.String() {
	case "y", "Y":
		m.deleteByID(id)
	default:
		m.setStatus("Delete cancelled.")
	}
	return m, nil
}

func (m *model) updateSearch(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.mode = modeList
		m.query = ""
	case tea.KeyEnter:
		m.mode = modeList
	default:
		m.query = editLine(m.query, key)
	}
	m.refreshRows()
	return m, nil
}

// editLine applies a typing key to a single-line input.
func editLine(s string, key tea.KeyMsg) string {
	switch key.Type {
	case tea.KeyRunes:
		return s + string(key.Runes)
	case tea.KeySpace:
		return s + " "
	case tea.KeyBackspace:
		r := []rune(s)
		if len(r) == 0 {
			return s
		}
		return string(r[:len(r)-1])
	}
	return s
}

func (m *model) submitAdd() {
	if err := task.ValidateDescription(m.input); err != nil {
		m.setError(err)
		return
	}
	t := task.New(m.input,
		task.WithPriority(m.priority),
		task.WithDueDate(strings.TrimSpace(m.due)),
	)
	if err := m.store.Add(t); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	position := m.store.Len() - 1
	m.record(logging.OpAdd, position, t)
	m.mode = modeList
	m.input = ""
	m.due = ""
	m.setStatus(fmt.Sprintf("Added task %d.", position+1))
	m.refreshRows()
	for i, row := range m.rows {
		if row.Task.ID == t.ID {
			m.cursor = i
		}
	}
}

// selected returns the highlighted task, or nil.
func (m *model) selected() *task.Task {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].Task
}

func (m *model) completeSelected() {
	t := m.selected()
	if t == nil {
		return
	}
	if t.Completed {
		m.setStatus("Already completed.")
		return
	}
	i, err := m.store.CompleteByID(t.ID)
	if err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	m.record(logging.OpComplete, i, t)
	m.setStatus(fmt.Sprintf("Completed task %d.", i+1))
	m.refreshRows()
}

// confirmDelete asks before deleting the highlighted task.
func (m *model) confirmDelete() {
	t := m.selected()
	if t == nil {
		return
	}
	m.pendingDelete = t.ID
	m.mode = modeConfirmDelete
	m.status = ""
}

func (m *model) deleteByID(id string) {
	i := m.store.IndexOf(id)
	if i < 0 {
		return
	}
	t, _ := m.store.At(i)
	if _, err := m.store.DeleteByID(id); err != nil {
		m.setError(fmt.Errorf("save: %w", err))
		return
	}
	m.record(logging.OpDelete, i, t)
	m.setStatus(fmt.Sprintf("Deleted task %d.", i+1))
	m.refreshRows()
}

func (m *model) reload() {
	store, err := task.Load(m.store.Path())
	if err != nil {
		m.setError(err)
		return
	}
	m.store = store
	m.setStatus("Reloaded.")
	m.refreshRows()
}

func (m *model) record(op string, position int, t *task.Task) {
	if m.cfg.journal == nil {
		return
	}
	ev := logging.Event{
		Op:          op,
		Position:    position,
		Description: t.Description,
		Priority:    string(t.Priority),
	}
	if err := m.cfg.journal.Record(ev); err != nil && m.cfg.logger != nil {
		m.cfg.logger.Warn("journal write failed", "error", err)
	}
}

func (m *model) setStatus(s string) {
	m.status = s
	m.lastErr = nil
}

func (m *model) setError(err error) {
	m.status = ""
	m.lastErr = err
}

func (m *model) refreshRows() {
	m.rows = m.store.Search(m.query)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render("Tasks"))
	b.WriteString(m.styles.faint.Render("  " + m.store.Path()))
	b.WriteString("\n\n")

	if m.mode == modeHelp {
		writeHelp(&b)
		return b.String()
	}

	if m.query != "" || m.mode == modeSearch {
		b.WriteString(m.styles.prompt.Render("Search: "))
		b.WriteString(m.query)
		if m.mode == modeSearch {
			b.WriteString("_")
		}
		b.WriteString(m.styles.faint.Render(fmt.Sprintf("  (%d of %d)", len(m.rows), m.store.Len())))
		b.WriteString("\n\n")
	}

	m.writeRows(&b)

	if m.mode == modeAdd {
		b.WriteString("\n")
		b.WriteString(m.styles.prompt.Render(fmt.Sprintf("New task [%s]: ", m.priority)))
		b.WriteString(m.input + cursorMark(m.field == fieldDescription) + "\n")
		b.WriteString(m.styles.prompt.Render("Due date (optional): "))
		b.WriteString(m.due + cursorMark(m.field == fieldDue) + "\n")
		b.WriteString(m.styles.faint.Render("enter save | tab next field | ctrl+p priority | esc cancel"))
		b.WriteString("\n")
	}

	if m.mode == modeConfirmDelete {
		b.WriteString("\n")
		if i := m.store.IndexOf(m.pendingDelete); i >= 0 {
			t, _ := m.store.At(i)
			b.WriteString(m.styles.errorMsg.Render(fmt.Sprintf("Delete task %d %q? (y/n)", i+1, t.Description)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case m.lastErr != nil:
		b.WriteString(m.styles.errorMsg.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n")
	case m.status != "":
		b.WriteString(m.status + "\n")
	}
	b.WriteString(m.styles.faint.Render("a add | space complete | d delete | / search | r reload | ? help | q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m *model) writeRows(b *strings.Builder) {
	if len(m.rows) == 0 {
		if m.query != "" {
			b.WriteString("  No matches.\n")
		} else {
			b.WriteString("  No tasks yet. Press a to add one.\n")
		}
		return
	}
	for i, row := range m.rows {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.cursor.Render("> ")
		}
		line := fmt.Sprintf("%d. %s", row.Index+1, row.Task.DisplayText())
		switch {
		case row.Task.Completed:
			line = m.styles.done.Render(line)
		case row.Task.Priority == task.PriorityHigh:
			line = m.styles.high.Render(line)
		case row.Task.Priority == task.PriorityLow:
			line = m.styles.low.Render(line)
		}
		b.WriteString(pointer + line + "\n")
	}
}

func cursorMark(active bool) string {
	if active {
		return "_"
	}
	return ""
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j   Move cursor\n")
	b.WriteString("  a              Add a task (tab switches field, ctrl+p cycles priority)\n")
	b.WriteString("  space, enter   Mark selected task completed\n")
	b.WriteString("  d              Delete selected task (asks y/n)\n")
	b.WriteString("  /              Search by keyword\n")
	b.WriteString("  esc            Clear search\n")
	b.WriteString("  r              Reload from disk\n")
	b.WriteString("  ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c      Quit\n\n")
	b.WriteString("Press any key to return.\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
