package ui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/task"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *model, s string) {
	for _, r := range s {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(runeKey(string(r)))
	}
}

func newTestStore(t *testing.T, descriptions ...string) *task.Store {
	t.Helper()
	store := task.NewStore(filepath.Join(t.TempDir(), "tasks.json"))
	for _, d := range descriptions {
		store.Append(task.New(d))
	}
	if err := store.Save(); err != nil {
		t.Fatal(err)
	}
	return store
}

func loadDescriptions(t *testing.T, path string) []string {
	t.Helper()
	store, err := task.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var out []string
	for _, tk := range store.Tasks() {
		out = append(out, tk.Description)
	}
	return out
}

func TestModelAdd(t *testing.T) {
	store := newTestStore(t)
	m := newModel(store, WithDefaultPriority(task.PriorityLow))

	m.Update(runeKey("a"))
	if m.mode != modeAdd {
		t.Fatalf("mode = %v, want add", m.mode)
	}
	if m.priority != task.PriorityLow {
		t.Errorf("priority = %s, want Low", m.priority)
	}
	typeText(m, "Buy milk")
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.mode != modeList {
		t.Errorf("mode = %v, want list after submit", m.mode)
	}
	if m.lastErr != nil {
		t.Fatalf("unexpected error: %v", m.lastErr)
	}
	if store.Len() != 1 {
		t.Fatalf("store has %d tasks, want 1", store.Len())
	}
	got, _ := store.At(0)
	if got.Description != "Buy milk" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Priority != task.PriorityHigh {
		t.Errorf("priority = %s, want High after ctrl+p from Low", got.Priority)
	}
	if got.HasDueDate() {
		t.Errorf("due date = %q, want none", got.DueDate)
	}
	if d := loadDescriptions(t, store.Path()); len(d) != 1 || d[0] != "Buy milk" {
		t.Errorf("file contents = %v", d)
	}
}

func TestModelAddRejectsEmpty(t *testing.T) {
	store := newTestStore(t)
	m := newModel(store)

	m.Update(runeKey("a"))
	typeText(m, "   ")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if store.Len() != 0 {
		t.Errorf("store has %d tasks, want 0", store.Len())
	}
	if m.mode != modeAdd {
		t.Errorf("mode = %v, want add to stay open", m.mode)
	}
	if m.lastErr == nil || !strings.Contains(m.View(), "Error:") {
		t.Error("expected error in status line")
	}
}

func TestModelAddCancel(t *testing.T) {
	store := newTestStore(t)
	m := newModel(store)

	m.Update(runeKey("a"))
	typeText(m, "abc")
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if m.input != "ab" {
		t.Errorf("input = %q, want ab", m.input)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != modeList || store.Len() != 0 {
		t.Errorf("mode = %v, len = %d after cancel", m.mode, store.Len())
	}
}

func TestModelCompleteAndDelete(t *testing.T) {
	store := newTestStore(t, "first", "second", "third")
	m := newModel(store)

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	second, _ := store.At(1)
	if !second.Completed {
		t.Fatal("expected second task completed")
	}
	reloaded, err := task.Load(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := reloaded.At(1); !got.Completed {
		t.Error("completion not persisted")
	}

	m.Update(runeKey("d"))
	m.Update(runeKey("y"))
	if d := loadDescriptions(t, store.Path()); strings.Join(d, ",") != "first,third" {
		t.Errorf("after delete file = %v", d)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestModelSearchTargetsTrueRecord(t *testing.T) {
	store := newTestStore(t, "Buy milk", "Call mom", "buy bread")
	m := newModel(store)

	m.Update(runeKey("/"))
	typeText(m, "BREAD")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.rows) != 1 || m.rows[0].Index != 2 {
		t.Fatalf("rows = %+v, want only position 2", m.rows)
	}
	if !strings.Contains(m.View(), "3. [Medium] buy bread") {
		t.Errorf("view should show true position:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	for i, want := range []bool{false, false, true} {
		got, _ := store.At(i)
		if got.Completed != want {
			t.Errorf("task %d completed = %v, want %v", i, got.Completed, want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.query != "" || len(m.rows) != 3 {
		t.Errorf("esc should clear search, query=%q rows=%d", m.query, len(m.rows))
	}
}

func TestModelAddWithDueDate(t *testing.T) {
	store := newTestStore(t)
	m := newModel(store)

	m.Update(runeKey("a"))
	typeText(m, "Pay rent")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.field != fieldDue {
		t.Fatalf("field = %d, want due date field", m.field)
	}
	typeText(m, " 2024-06-01 ")
	if m.due != " 2024-06-01 " || !strings.Contains(m.View(), "2024-06-01 _") {
		t.Errorf("view should show due date input:\n%s", m.View())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	typeText(m, "!")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if m.lastErr != nil {
		t.Fatalf("unexpected error: %v", m.lastErr)
	}
	got, err := store.At(0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Description != "Pay rent!" {
		t.Errorf("description = %q", got.Description)
	}
	if got.DueDate != "2024-06-01" {
		t.Errorf("due date = %q, want trimmed 2024-06-01", got.DueDate)
	}

	reloaded, err := task.Load(store.Path())
	if err != nil {
		t.Fatal(err)
	}
	if r, _ := reloaded.At(0); r.DueDate != "2024-06-01" {
		t.Errorf("persisted due date = %q", r.DueDate)
	}

	m.Update(runeKey("a"))
	if m.due != "" || m.field != fieldDescription {
		t.Errorf("add prompt not reset: due=%q field=%d", m.due, m.field)
	}
}

func TestModelDeleteConfirmation(t *testing.T) {
	tests := []struct {
		name       string
		answer     tea.KeyMsg
		wantDelete bool
	}{
		{"yes deletes", runeKey("y"), true},
		{"capital yes deletes", runeKey("Y"), true},
		{"no keeps", runeKey("n"), false},
		{"esc keeps", tea.KeyMsg{Type: tea.KeyEsc}, false},
		{"other key keeps", runeKey("d"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t, "first", "second")
			m := newModel(store)

			m.Update(tea.KeyMsg{Type: tea.KeyDown})
			m.Update(runeKey("d"))
			if m.mode != modeConfirmDelete {
				t.Fatalf("mode = %v, want delete confirmation", m.mode)
			}
			if !strings.Contains(m.View(), `Delete task 2 "second"? (y/n)`) {
				t.Errorf("view missing confirmation prompt:\n%s", m.View())
			}
			if store.Len() != 2 {
				t.Fatal("task deleted before confirmation")
			}

			m.Update(tt.answer)
			if m.mode != modeList {
				t.Errorf("mode = %v, want list after answer", m.mode)
			}
			want := "first,second"
			if tt.wantDelete {
				want = "first"
			}
			if d := loadDescriptions(t, store.Path()); strings.Join(d, ",") != want {
				t.Errorf("file contents = %v, want %s", d, want)
			}
			if !tt.wantDelete && !strings.Contains(m.View(), "Delete cancelled.") {
				t.Errorf("view missing cancel status:\n%s", m.View())
			}
		})
	}
}

func TestModelDeleteConfirmationInSearch(t *testing.T) {
	store := newTestStore(t, "Buy milk", "Call mom", "buy bread")
	m := newModel(store)

	m.Update(runeKey("/"))
	typeText(m, "bread")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runeKey("d"))
	if !strings.Contains(m.View(), `Delete task 3 "buy bread"?`) {
		t.Errorf("confirmation should name the true position:\n%s", m.View())
	}
	m.Update(runeKey("y"))

	if d := loadDescriptions(t, store.Path()); strings.Join(d, ",") != "Buy milk,Call mom" {
		t.Errorf("file contents = %v", d)
	}
}

func TestModelSearchNoMatches(t *testing.T) {
	store := newTestStore(t, "Buy milk")
	m := newModel(store)

	m.Update(runeKey("/"))
	typeText(m, "zzz")
	if len(m.rows) != 0 {
		t.Fatalf("rows = %d, want 0", len(m.rows))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runeKey("d"))
	if m.mode != modeList {
		t.Errorf("mode = %v, want list when nothing is selected", m.mode)
	}
	if store.Len() != 1 {
		t.Error("delete with no selection should not change the store")
	}
	if !strings.Contains(m.View(), "No matches.") {
		t.Error("expected no matches message")
	}
}

func TestModelReload(t *testing.T) {
	store := newTestStore(t, "one")
	m := newModel(store)

	other := task.NewStore(store.Path())
	other.Append(task.New("one"))
	other.Append(task.New("two"))
	if err := other.Save(); err != nil {
		t.Fatal(err)
	}

	m.Update(runeKey("r"))
	if m.lastErr != nil {
		t.Fatalf("reload error: %v", m.lastErr)
	}
	if len(m.rows) != 2 {
		t.Errorf("rows = %d after reload, want 2", len(m.rows))
	}
}

func TestModelReloadMalformed(t *testing.T) {
	store := newTestStore(t, "one")
	m := newModel(store)

	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	m.Update(runeKey("r"))
	if m.lastErr == nil {
		t.Fatal("expected reload error")
	}
	if len(m.rows) != 1 {
		t.Errorf("previous rows should stay visible, got %d", len(m.rows))
	}
}

func TestModelSaveErrorShown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.json")
	store := task.NewStore(path)
	store.Append(task.New("one"))
	// A non-empty directory at the task path makes every save fail.
	if err := os.MkdirAll(filepath.Join(path, "child"), 0o755); err != nil {
		t.Fatal(err)
	}
	m := newModel(store)

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.lastErr == nil {
		t.Fatal("expected save error")
	}
	if got, _ := store.At(0); got.Completed {
		t.Error("failed save should roll back completion")
	}
	if !strings.Contains(m.View(), "Error: save:") {
		t.Errorf("status line missing save error:\n%s", m.View())
	}
}

func TestModelJournal(t *testing.T) {
	store := newTestStore(t)
	j, err := logging.NewJournal(t.TempDir(), store.Path())
	if err != nil {
		t.Fatal(err)
	}
	m := newModel(store, WithJournal(j))

	m.Update(runeKey("a"))
	typeText(m, "x")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(runeKey("d"))
	m.Update(runeKey("y"))

	events, err := logging.ReadEvents(j.Path)
	if err != nil {
		t.Fatal(err)
	}
	var ops []string
	for _, ev := range events {
		ops = append(ops, ev.Op)
	}
	if got := strings.Join(ops, ","); got != "add,complete,delete" {
		t.Errorf("journal ops = %s", got)
	}
}

func TestModelHelpAndQuit(t *testing.T) {
	m := newModel(newTestStore(t))

	m.Update(runeKey("?"))
	if m.mode != modeHelp || !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatal("expected help screen")
	}
	m.Update(runeKey("x"))
	if m.mode != modeList {
		t.Errorf("mode = %v, want list", m.mode)
	}

	_, cmd := m.Update(runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestCursorBounds(t *testing.T) {
	m := newModel(newTestStore(t, "a", "b"))

	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	for i := 0; i < 5; i++ {
		m.Update(runeKey("j"))
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestIsTTY(t *testing.T) {
	var buf bytes.Buffer
	if IsTTY(&buf) {
		t.Error("buffer should not be a TTY")
	}
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if IsTTY(f) {
		t.Error("regular file should not be a TTY")
	}
}
