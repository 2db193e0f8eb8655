// Package cmd implements the CLI command structure for tasks.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasks-go/internal/config"
	"github.com/nibzard/tasks-go/internal/logging"
	"github.com/nibzard/tasks-go/internal/todo"
	"github.com/nibzard/tasks-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// runTUI is replaced in tests.
var runTUI = ui.RunTUI

// Run executes the tasks CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(os.Stdout)
	}

	subcommand := "run"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "run":
		return runCommand(ctx, cfg, remainingArgs)
	case "check":
		return checkCommand(os.Stdout, cfg, remainingArgs)
	case "logs":
		return logsCommand(ctx, os.Stdout, cfg, remainingArgs)
	case "config":
		return configCommand(os.Stdout, cws, remainingArgs)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// runCommand opens the task list screen.
func runCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks run", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	if len(remaining) == 1 {
		cfg.SeedFile = resolvePath(cfg.ProjectRoot, remaining[0])
	}

	runLog, logger, err := openLogger(cfg)
	if err != nil {
		return err
	}
	defer runLog.Close()

	store := todo.NewStore()
	if cfg.SeedFile != "" {
		if err := applySeed(store, cfg.SeedFile, logger); err != nil {
			return err
		}
	}
	logger.Info("session started", "tasks", store.Len())

	if err := runTUI(ctx, cfg, store, logger); err != nil {
		logger.Error("session ended", "err", err)
		return err
	}
	logger.Info("session ended", "tasks", store.Len())
	return nil
}

// openLogger creates the per-run log file. An empty log dir discards logs.
func openLogger(cfg *config.Config) (*logging.RunLogger, *log.Logger, error) {
	if cfg.LogDir == "" {
		return nil, logging.Discard(), nil
	}
	runLog, err := logging.NewRunLogger(cfg.LogDir, cfg.ProjectRoot)
	if err != nil {
		return nil, nil, fmt.Errorf("creating run log: %w", err)
	}
	logger := logging.NewFromConfig(runLog.Writer(), cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	return runLog, logger, nil
}

// applySeed loads, validates and applies a seed file. Duplicate titles in
// the seed are logged and skipped.
func applySeed(store *todo.Store, path string, logger *log.Logger) error {
	seed, err := todo.LoadSeed(path)
	if err != nil {
		return err
	}
	result := seed.Validate(todo.ValidationOptions{UseSchema: true})
	if !result.Valid {
		return fmt.Errorf("invalid seed file %s: %w", path, errors.Join(result.Errors...))
	}
	for _, w := range result.Warnings {
		logger.Warn("seed validation", "warning", w)
	}
	if err := seed.Apply(store); err != nil {
		if !errors.Is(err, todo.ErrDuplicateTitle) {
			return fmt.Errorf("applying seed file: %w", err)
		}
		logger.Info("seed entries skipped", "err", err)
	}
	logger.Debug("seed applied", "path", path, "tasks", store.Len())
	return nil
}

// checkCommand validates a seed file without opening the screen.
func checkCommand(w io.Writer, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks check", flag.ContinueOnError)
	fs.SetOutput(w)
	noSchema := fs.Bool("no-schema", false, "Use minimal checks instead of the JSON schema")
	if err := fs.Parse(args); err != nil {
		return err
	}

	remaining := fs.Args()
	if len(remaining) > 1 {
		return fmt.Errorf("unexpected arguments: %v", remaining[1:])
	}
	path := cfg.SeedFile
	if len(remaining) == 1 {
		path = resolvePath(cfg.ProjectRoot, remaining[0])
	}
	if path == "" {
		return fmt.Errorf("no seed file given")
	}

	seed, err := todo.LoadSeed(path)
	if err != nil {
		return err
	}
	result := seed.Validate(todo.ValidationOptions{UseSchema: !*noSchema})

	fmt.Fprintf(w, "Seed file: %s\n", path)
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  warning: %s\n", warning)
	}
	if !result.Valid {
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  error: %v\n", e)
		}
		return fmt.Errorf("seed file %s is invalid (%d errors)", path, len(result.Errors))
	}

	dup := seed.Apply(todo.NewStore())
	if dup != nil {
		fmt.Fprintf(w, "  warning: %v\n", dup)
	}
	fmt.Fprintf(w, "  OK: %d tasks\n", len(seed.Tasks))
	return nil
}

// logsCommand prints the latest run log.
func logsCommand(ctx context.Context, w io.Writer, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tasks logs", flag.ContinueOnError)
	fs.SetOutput(w)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 0, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogDir == "" {
		fmt.Fprintln(w, "Logging is disabled (log_dir is empty).")
		return nil
	}

	workDir := cfg.ProjectRoot
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		workDir = wd
	}

	logDir, err := logging.FindLogDir(cfg.LogDir, workDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}
	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(w, "No log files found.")
		return nil
	}

	fmt.Fprintf(w, "Log: %s\n\n", logPath)
	return logging.TailLog(ctx, w, logPath, *n, *follow)
}

// configCommand prints the effective configuration and where each value
// came from.
func configCommand(w io.Writer, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("tasks config", flag.ContinueOnError)
	fs.SetOutput(w)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *example {
		fmt.Fprint(w, config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	values := map[string]string{
		"seed_file":      cfg.SeedFile,
		"log_dir":        cfg.LogDir,
		"log_level":      cfg.LogLevel,
		"log_format":     cfg.LogFormat,
		"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
		"log_caller":     fmt.Sprint(cfg.LogCaller),
		"focus_delay_ms": fmt.Sprint(cfg.FocusDelayMS),
		"alt_screen":     fmt.Sprint(cfg.AltScreen),
		"title":          cfg.Title,
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(cws.Files) > 0 {
		fmt.Fprintln(w, "Config files:")
		for _, f := range cws.Files {
			fmt.Fprintf(w, "  %s\n", f)
		}
		fmt.Fprintln(w)
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%-15s = %-30q (%s)\n", k, values[k], cws.Sources[k])
	}
	return nil
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasks version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasks - a minimal to-do list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasks [options] [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run [seed]    Open the task list (default command)")
	fmt.Fprintln(w, "  check [seed]  Validate a seed file")
	fmt.Fprintln(w, "  logs          Show the latest run log")
	fmt.Fprintln(w, "  config        Show the effective configuration")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Options:")
	fmt.Fprintln(w, "  -no-schema")
	fmt.Fprintln(w, "        Use minimal checks instead of the JSON schema")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -example")
	fmt.Fprintln(w, "        Print an example config file")
}

func resolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}
