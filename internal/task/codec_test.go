package task

import (
	"errors"
	"testing"
)

func TestSchemaCompiles(t *testing.T) {
	s, err := Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if s == nil {
		t.Fatal("Schema returned nil")
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
	}{
		{"empty array", `[]`, 0},
		{"minimal record", `[{"description": "a"}]`, 0},
		{"full record", `[{"description": "a", "completed": true, "priority": "High", "due_date": "2024-01-01"}]`, 0},
		{"two missing descriptions", `[{}, {"priority": "Low"}]`, 2},
		{"not an array", `{"tasks": []}`, 1},
		{"invalid json", `[{`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Check([]byte(tt.input))
			if len(errs) != tt.wantCount {
				t.Fatalf("Check: got %d errors (%v), want %d", len(errs), errs, tt.wantCount)
			}
			for _, err := range errs {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error %v should match ErrMalformed", err)
				}
			}
		})
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	tasks := []*Task{
		New("a", WithPriority(PriorityHigh), WithDueDate("2024-01-01")),
		New("b", WithCompleted(true)),
		New("c", WithPriority(PriorityLow)),
	}

	data, err := Encode(tasks)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded) != len(tasks) {
		t.Fatalf("len: got %d, want %d", len(decoded), len(tasks))
	}
	for i := range tasks {
		if *decoded[i] != *tasks[i] {
			t.Errorf("task %d: got %+v, want %+v", i, *decoded[i], *tasks[i])
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := []struct {
		ptr  string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"#", ""},
		{"/0", "[0]"},
		{"/2/description", "[2].description"},
		{"#/10/due_date", "[10].due_date"},
		{"/0/a~1b", "[0].a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.ptr, func(t *testing.T) {
			if got := jsonPointerToPath(tt.ptr); got != tt.want {
				t.Errorf("jsonPointerToPath(%q): got %q, want %q", tt.ptr, got, tt.want)
			}
		})
	}
}

func TestMalformedErrorFormatting(t *testing.T) {
	err := atIndex(&MalformedError{Path: "description", Err: errors.New("missing required field")}, 3)
	if got, want := err.Error(), "[3].description: missing required field"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}

	plain := atIndex(errors.New("boom"), 1)
	if got, want := plain.Error(), "[1]: boom"; got != want {
		t.Errorf("Error(): got %q, want %q", got, want)
	}
	if !errors.Is(plain, ErrMalformed) {
		t.Error("atIndex result should match ErrMalformed")
	}
}
