package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// loadFromEnv overrides config from TASKS_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	mark := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKS_SEED"); v != "" {
		cfg.SeedFile = v
		mark("seed_file")
	}
	if v, ok := os.LookupEnv("TASKS_LOG_DIR"); ok {
		// An explicitly empty value disables the log file.
		cfg.LogDir = v
		mark("log_dir")
	}
	if v := os.Getenv("TASKS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("TASKS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("TASKS_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("TASKS_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
	if v := os.Getenv("TASKS_FOCUS_DELAY_MS"); v != "" {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("TASKS_FOCUS_DELAY_MS: %w", err)
		}
		cfg.FocusDelayMS = i
		mark("focus_delay_ms")
	}
	if v := os.Getenv("TASKS_ALT_SCREEN"); v != "" {
		cfg.AltScreen = boolFromString(v)
		mark("alt_screen")
	}
	if v := os.Getenv("TASKS_TITLE"); v != "" {
		cfg.Title = v
		mark("title")
	}
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
