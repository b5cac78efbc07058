// Package task holds task records and the file-backed store that owns them.
//
// The task file (tasks.json by default) is a JSON array of records:
//
//	[
//	  {
//	    "description": "Buy milk",
//	    "completed": false,
//	    "priority": "High",
//	    "due_date": "2024-05-01"
//	  }
//	]
//
// # Loading
//
// Only "description" is required. Missing keys take defaults:
//   - "completed": false
//   - "priority": "Medium" (values other than exactly "High", "Medium" or
//     "Low" are coerced to Medium, so "high" loads as Medium)
//   - "due_date": absent
//
// Unknown keys are ignored. A missing file loads as an empty store. A file that
// exists but does not match the embedded JSON Schema, or that is not JSON at
// all, fails with an error matching ErrMalformed; entries are never dropped.
//
// # Positions and handles
//
// Records have no persisted identity. The store addresses them by zero-based
// position, which shifts after a delete. Every record also receives a
// session-only handle (Task.ID) when it enters the store, so callers that show
// filtered views can mutate the record they displayed rather than whatever
// currently sits at that position.
//
// # File Format
//
// When writing task files, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - All four keys on every record, with "due_date": null when absent (a
//     due date loaded as "" is written back as "")
//   - An atomic replace (temp file in the same directory, then rename)
package task
