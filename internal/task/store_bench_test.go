package task

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func largeStore(b *testing.B, n int) *Store {
	b.Helper()
	s := NewStore(filepath.Join(b.TempDir(), "tasks.json"))
	priorities := Priorities()
	for i := 0; i < n; i++ {
		opts := []Option{WithPriority(priorities[i%3])}
		if i%4 == 0 {
			opts = append(opts, WithDueDate("2024-01-01"))
		}
		if i%5 == 0 {
			opts = append(opts, WithCompleted(true))
		}
		s.Append(New(fmt.Sprintf("Task %d for project %d", i, i%7), opts...))
	}
	return s
}

// BenchmarkLoad benchmarks task file loading, schema validation and decoding.
func BenchmarkLoad(b *testing.B) {
	s := largeStore(b, 100)
	if err := s.Save(); err != nil {
		b.Fatalf("Save failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Load(s.Path()); err != nil {
			b.Fatalf("Load failed: %v", err)
		}
	}
}

// BenchmarkSave benchmarks a full atomic rewrite of 100 tasks.
func BenchmarkSave(b *testing.B) {
	s := largeStore(b, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.Save(); err != nil {
			b.Fatalf("Save failed: %v", err)
		}
	}
	b.StopTimer()
	_ = os.Remove(s.Path())
}

// BenchmarkFilterByKeyword benchmarks case-insensitive search over 1000 tasks.
func BenchmarkFilterByKeyword(b *testing.B) {
	s := largeStore(b, 1000)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.FilterByKeyword("PROJECT 3")
	}
}
