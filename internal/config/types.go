package config

import "time"

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
	DefaultLogDir       = "~/.tasks/logs"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultFocusDelayMS = 100
	DefaultAltScreen    = true
	DefaultTitle        = "Tasks"
)

// Config holds the full configuration for tasks.
type Config struct {
	// Optional JSON file of tasks added at startup. Never written back.
	SeedFile string `toml:"seed_file"`

	// Logging configuration. An empty LogDir disables the log file.
	LogDir        string `toml:"log_dir"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// UI
	FocusDelayMS int    `toml:"focus_delay_ms"`
	AltScreen    bool   `toml:"alt_screen"`
	Title        string `toml:"title"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// FocusDelay returns the delay before the inline edit field takes focus.
func (c *Config) FocusDelay() time.Duration {
	if c.FocusDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.FocusDelayMS) * time.Millisecond
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.SeedFile = ""
	cfg.LogDir = DefaultLogDir
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = true
	cfg.LogCaller = false
	cfg.FocusDelayMS = DefaultFocusDelayMS
	cfg.AltScreen = DefaultAltScreen
	cfg.Title = DefaultTitle
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"seed_file",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
		"focus_delay_ms",
		"alt_screen",
		"title",
	}
}
