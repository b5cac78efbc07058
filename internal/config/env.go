package config

import (
	"os"
	"path/filepath"
	"strings"
)

// envBindings maps TASKS_* variables to config fields.
var envBindings = []struct {
	name  string
	field string
}{
	{"TASKS_FILE", "task_file"},
	{"TASKS_LOG_DIR", "log_dir"},
	{"TASKS_JOURNAL", "journal"},
	{"TASKS_DEFAULT_PRIORITY", "default_priority"},
	{"TASKS_LOG_LEVEL", "log_level"},
	{"TASKS_LOG_FORMAT", "log_format"},
	{"TASKS_LOG_TIMESTAMPS", "log_timestamps"},
	{"TASKS_LOG_CALLER", "log_caller"},
}

// loadFromEnv overrides config from environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	for _, b := range envBindings {
		v := os.Getenv(b.name)
		if v == "" {
			continue
		}
		switch b.field {
		case "task_file":
			cfg.TaskFile = v
		case "log_dir":
			cfg.LogDir = v
		case "journal":
			cfg.Journal = boolFromString(v)
		case "default_priority":
			cfg.DefaultPriority = v
		case "log_level":
			cfg.LogLevel = v
		case "log_format":
			cfg.LogFormat = v
		case "log_timestamps":
			cfg.LogTimestamps = boolFromString(v)
		case "log_caller":
			cfg.LogCaller = boolFromString(v)
		}
		if sources != nil {
			sources[b.field] = SourceEnv
		}
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}

// expandPath expands environment variables and a leading ~ in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded != "~" && !strings.HasPrefix(expanded, "~/") && !strings.HasPrefix(expanded, "~"+string(filepath.Separator)) {
		return expanded
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	return filepath.Join(home, expanded[2:])
}
