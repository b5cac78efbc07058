package config

import (
	"flag"
)

// flagFields maps global flag names to config fields for source tracking.
var flagFields = map[string]string{
	"file":             "task_file",
	"log-dir":          "log_dir",
	"journal":          "journal",
	"default-priority": "default_priority",
	"log-level":        "log_level",
	"log-format":       "log_format",
	"log-timestamps":   "log_timestamps",
	"log-caller":       "log_caller",
}

// parseFlags defines the global flags on fs, parses args and records which
// fields were set explicitly.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasks", flag.ContinueOnError)
	}

	// Paths
	fs.StringVar(&cfg.TaskFile, "file", cfg.TaskFile, "Path to task file")
	fs.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "Directory for the activity journal")

	// Behaviour
	fs.BoolVar(&cfg.Journal, "journal", cfg.Journal, "Record mutations in the activity journal")
	fs.StringVar(&cfg.DefaultPriority, "default-priority", cfg.DefaultPriority, "Priority for new tasks (High, Medium, Low)")

	// Logging
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&cfg.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&cfg.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if sources != nil {
		fs.Visit(func(f *flag.Flag) {
			if field, ok := flagFields[f.Name]; ok {
				sources[field] = SourceFlag
			}
		})
	}
	return nil
}
