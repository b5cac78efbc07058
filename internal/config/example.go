package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags.

# Task file (relative to the working directory)
task_file = "tasks.json"

# Priority given to new tasks when -priority is not passed: High, Medium or Low
default_priority = "Medium"

# Activity journal: one JSON line per add/complete/delete
journal = true

# Journal directory (supports ~ and $VAR expansion)
log_dir = "~/.tasks"

# Console logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
