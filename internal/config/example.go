package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasks configuration file
# Values can be overridden by TASKS_* environment variables or CLI flags

# Seed file with tasks to add at startup (never written back)
# seed_file = "seed.json"

# Log directory (supports ~ expansion and %VAR% on Windows).
# Set to "" to disable the log file.
log_dir = "~/.tasks/logs"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = true
log_caller = false

# Delay before the inline edit field takes focus, in milliseconds
focus_delay_ms = 100

# Use the terminal's alternate screen
alt_screen = true

# Header title
title = "Tasks"
`
}
