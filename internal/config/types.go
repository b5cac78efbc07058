package config

import (
	"sort"

	"github.com/nibzard/tasks-go/internal/task"
)

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTaskFile  = "tasks.json"
	DefaultLogDir    = "~/.tasks"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultJournal   = true
	DefaultEnvFile   = ".env"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Paths
	TaskFile string `toml:"task_file"`
	LogDir   string `toml:"log_dir"`

	// Journal enables the per-project activity log.
	Journal bool `toml:"journal"`

	// DefaultPriority is used by "add" when no -priority flag is given.
	DefaultPriority string `toml:"default_priority"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-"`
}

// Priority returns the configured default priority.
func (c *Config) Priority() task.Priority {
	return task.ParsePriority(c.DefaultPriority)
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"task_file",
		"log_dir",
		"journal",
		"default_priority",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Fields returns the tracked field names in a stable order.
func (cws *ConfigWithSources) Fields() []string {
	fields := configFields()
	sort.Strings(fields)
	return fields
}

// Value returns the effective value of a tracked field as it would appear in TOML.
func (cws *ConfigWithSources) Value(field string) interface{} {
	c := cws.Config
	switch field {
	case "task_file":
		return c.TaskFile
	case "log_dir":
		return c.LogDir
	case "journal":
		return c.Journal
	case "default_priority":
		return c.DefaultPriority
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return c.LogTimestamps
	case "log_caller":
		return c.LogCaller
	}
	return nil
}
