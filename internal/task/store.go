package task

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Store is the ordered, file-backed list of tasks.
type Store struct {
	path  string
	tasks []*Task
}

// Match is a filtered record together with its position in the store.
type Match struct {
	Index int
	Task  *Task
}

// NewStore returns an empty store bound to path without touching the disk.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the task file at path. A missing file yields an empty store.
func Load(path string) (*Store, error) {
	s := NewStore(path)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("open task file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	tasks, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", path, err)
	}
	for _, t := range tasks {
		s.Append(t)
	}
	return s, nil
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns the tasks in order. The slice is a copy; the tasks are not.
func (s *Store) Tasks() []*Task {
	out := make([]*Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// At returns the task at index.
func (s *Store) At(index int) (*Task, error) {
	if !s.inRange(index) {
		return nil, outOfRange(index, len(s.tasks))
	}
	return s.tasks[index], nil
}

// Save writes every task to the store's path.
func (s *Store) Save() error {
	return s.SaveTo(s.path)
}

// SaveTo writes every task to path, replacing the file atomically.
func (s *Store) SaveTo(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("save task file: path is empty")
	}
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("save task file: %w", err)
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	return nil
}

// Append adds t to the end and assigns it a handle if it has none.
// It does not save.
func (s *Store) Append(t *Task) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	s.tasks = append(s.tasks, t)
}

// CompleteAt marks the task at index completed. It does not save.
func (s *Store) CompleteAt(index int) error {
	if !s.inRange(index) {
		return outOfRange(index, len(s.tasks))
	}
	s.tasks[index].MarkCompleted()
	return nil
}

// DeleteAt removes the task at index, shifting later tasks down by one.
// It does not save.
func (s *Store) DeleteAt(index int) error {
	if !s.inRange(index) {
		return outOfRange(index, len(s.tasks))
	}
	s.tasks = slices.Delete(s.tasks, index, index+1)
	return nil
}

// FilterByKeyword returns the tasks whose description contains keyword,
// ignoring case, in store order. The store is not modified.
func (s *Store) FilterByKeyword(keyword string) []*Task {
	matches := s.Search(keyword)
	out := make([]*Task, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Task)
	}
	return out
}

// Search is FilterByKeyword with each task's store position attached.
func (s *Store) Search(keyword string) []Match {
	needle := strings.ToLower(keyword)
	var matches []Match
	for i, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Description), needle) {
			matches = append(matches, Match{Index: i, Task: t})
		}
	}
	return matches
}

// IndexOf returns the position of the task with handle id, or -1.
func (s *Store) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// CompleteByID marks the task with handle id completed and saves. It returns
// the task's position.
func (s *Store) CompleteByID(id string) (int, error) {
	i := s.IndexOf(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return i, s.Complete(i)
}

// DeleteByID removes the task with handle id and saves. It returns the
// position the task held.
func (s *Store) DeleteByID(id string) (int, error) {
	i := s.IndexOf(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return i, s.Delete(i)
}

// Add appends t and saves. If the save fails the append is undone, so the
// store never holds state that is not on disk.
func (s *Store) Add(t *Task) error {
	s.Append(t)
	if err := s.Save(); err != nil {
		s.tasks = s.tasks[:len(s.tasks)-1]
		return err
	}
	return nil
}

// Complete marks the task at index completed and saves.
func (s *Store) Complete(index int) error {
	t, err := s.At(index)
	if err != nil {
		return err
	}
	was := t.Completed
	t.MarkCompleted()
	if err := s.Save(); err != nil {
		t.Completed = was
		return err
	}
	return nil
}

// Delete removes the task at index and saves.
func (s *Store) Delete(index int) error {
	t, err := s.At(index)
	if err != nil {
		return err
	}
	if err := s.DeleteAt(index); err != nil {
		return err
	}
	if err := s.Save(); err != nil {
		s.insertAt(index, t)
		return err
	}
	return nil
}

func (s *Store) insertAt(index int, t *Task) {
	s.tasks = slices.Insert(s.tasks, index, t)
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.tasks)
}

// writeFileAtomic writes data to a temp file next to path and renames it into
// place. The temp file is removed on any failure.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}
