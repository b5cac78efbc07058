package task

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is the urgency of a task.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// DefaultPriority is used when a record has no priority or an unknown one.
const DefaultPriority = PriorityMedium

// Status strings used by DisplayText.
const (
	StatusCompleted = "✔️ Completed"
	StatusPending   = "❌ Pending"
)

// Priorities returns every priority from most to least urgent.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority matches s against the known priorities, ignoring case and
// surrounding space. Anything else yields DefaultPriority.
func ParsePriority(s string) Priority {
	s = strings.TrimSpace(s)
	for _, p := range Priorities() {
		if strings.EqualFold(s, string(p)) {
			return p
		}
	}
	return DefaultPriority
}

// storedPriority matches a persisted value exactly. Anything other than
// "High", "Medium" or "Low" yields DefaultPriority.
func storedPriority(s string) Priority {
	if p := Priority(s); p.Valid() {
		return p
	}
	return DefaultPriority
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Next cycles High -> Medium -> Low -> High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// Task is a single to-do item.
type Task struct {
	// ID is a session-only handle assigned by the store. It is never persisted.
	ID          string
	Description string
	Priority    Priority
	// DueDate is free text, conventionally YYYY-MM-DD. Empty means no due date.
	DueDate   string
	Completed bool

	// emptyDue records a due date loaded as "" so it is written back as ""
	// rather than null.
	emptyDue bool
}

// Option configures a Task built by New.
type Option func(*Task)

// WithPriority sets the priority.
func WithPriority(p Priority) Option {
	return func(t *Task) {
		t.Priority = p
	}
}

// WithDueDate sets the due date. It is stored verbatim.
func WithDueDate(due string) Option {
	return func(t *Task) {
		t.DueDate = due
	}
}

// WithCompleted sets the completion flag.
func WithCompleted(completed bool) Option {
	return func(t *Task) {
		t.Completed = completed
	}
}

// New builds a pending, medium-priority task with no due date, then applies
// opts. It does not validate the description; callers check it with
// ValidateDescription first.
func New(description string, opts ...Option) *Task {
	t := &Task{
		Description: description,
		Priority:    DefaultPriority,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ValidateDescription rejects descriptions that are empty or whitespace only.
func ValidateDescription(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrEmptyDescription
	}
	return nil
}

// MarkCompleted marks the task done. Calling it again has no further effect.
func (t *Task) MarkCompleted() {
	t.Completed = true
}

// HasDueDate reports whether a due date is set.
func (t *Task) HasDueDate() bool {
	return t.DueDate != ""
}

// DisplayText renders the task as
//
//	[<priority>] <description> - <status>[ | Due: <due_date>]
func (t *Task) DisplayText() string {
	status := StatusPending
	if t.Completed {
		status = StatusCompleted
	}
	text := fmt.Sprintf("[%s] %s - %s", t.Priority, t.Description, status)
	if t.HasDueDate() {
		text += " | Due: " + t.DueDate
	}
	return text
}

// String implements fmt.Stringer using DisplayText.
func (t *Task) String() string {
	return t.DisplayText()
}

// Record is the serializable form of a Task. Every key is always written;
// nil pointers mark keys that were missing (or null) when decoding.
type Record struct {
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

// ToSerializable returns the record form of t with values as stored.
func (t *Task) ToSerializable() Record {
	description := t.Description
	completed := t.Completed
	priority := string(t.Priority)
	rec := Record{
		Description: &description,
		Completed:   &completed,
		Priority:    &priority,
	}
	if t.HasDueDate() || t.emptyDue {
		due := t.DueDate
		rec.DueDate = &due
	}
	return rec
}

// FromSerializable rebuilds a Task from its record form, filling defaults for
// missing keys. A record without a description is malformed.
func FromSerializable(rec Record) (*Task, error) {
	if rec.Description == nil {
		return nil, &MalformedError{
			Path: "description",
			Err:  fmt.Errorf("missing required field"),
		}
	}

	t := New(*rec.Description)
	if rec.Priority != nil {
		t.Priority = storedPriority(*rec.Priority)
	}
	if rec.DueDate != nil {
		t.DueDate = *rec.DueDate
		t.emptyDue = t.DueDate == ""
	}
	if rec.Completed != nil {
		t.Completed = *rec.Completed
	}
	return t, nil
}

// MarshalJSON encodes the task in its record form.
func (t *Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.ToSerializable())
}

// UnmarshalJSON decodes a record and applies the load defaults.
func (t *Task) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return &MalformedError{Err: err}
	}
	decoded, err := FromSerializable(rec)
	if err != nil {
		return err
	}
	*t = *decoded
	return nil
}
