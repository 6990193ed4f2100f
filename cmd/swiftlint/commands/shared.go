// Package commands implements the swiftlint subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/speakeasy-api/swiftlint/cache"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/rules"
	"github.com/speakeasy-api/swiftlint/syntax/treesitter"
)

const (
	// StdinIndicator is the conventional Unix indicator to read from stdin.
	StdinIndicator = "-"

	defaultConfigFile = ".swiftlint.yml"
	stdinPath         = "<stdin>"
	swiftExt          = ".swift"
)

const (
	frontendNative     = "native"
	frontendTreeSitter = "tree-sitter"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configFile   string
	swiftVersion string
	frontend     string
	format       string
	cachePath    string
	noCache      bool
	metrics      bool
	verbose      bool
	concurrency  int
}

var global globalFlags

// Apply registers the subcommands and persistent flags on root.
func Apply(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringVarP(&global.configFile, "config", "c", "", "Path to a configuration file (default: "+defaultConfigFile+" when present)")
	flags.StringVar(&global.swiftVersion, "swift-version", "", "Language version files are linted as, e.g. 5.9")
	flags.StringVar(&global.frontend, "frontend", frontendNative, "Parser frontend: native or tree-sitter")
	flags.StringVarP(&global.format, "format", "f", "", "Output format: text, json or summary (default from configuration, else text)")
	flags.StringVar(&global.cachePath, "cache-path", "", "Directory of the persistent lint cache")
	flags.BoolVar(&global.noCache, "no-cache", false, "Disable the lint cache")
	flags.BoolVar(&global.metrics, "metrics", false, "Print OpenTelemetry metrics to stderr on exit")
	flags.BoolVarP(&global.verbose, "verbose", "v", false, "Verbose logging")
	flags.IntVarP(&global.concurrency, "concurrency", "j", 0, "Files processed at once (default: number of CPUs)")

	root.AddCommand(lintCmd)
	root.AddCommand(correctCmd)
	root.AddCommand(rulesCmd)
}

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig reads the configuration file and layers flags on top.
func loadConfig(flags globalFlags) (*linter.Config, error) {
	config := linter.NewConfig()

	path := flags.configFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		loaded, err := linter.LoadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if flags.swiftVersion != "" {
		config.SwiftVersion = flags.swiftVersion
	}
	if flags.format != "" {
		config.OutputFormat = linter.OutputFormat(flags.format)
	}
	if config.OutputFormat == "" {
		config.OutputFormat = linter.OutputFormatText
	}
	return config, config.Validate()
}

// session is everything one command run needs to lint files.
type session struct {
	config *linter.Config
	linter *linter.Linter
	logger *slog.Logger
	close  func(ctx context.Context) error
}

func newSession(ctx context.Context, flags globalFlags, stderr io.Writer) (*session, error) {
	config, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(stderr, flags.verbose)

	var closers []func(ctx context.Context) error
	cleanup := func(ctx context.Context) error {
		var firstErr error
		for _, c := range slices.Backward(closers) {
			if err := c(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if flags.metrics {
		shutdown, err := setupMetrics(stderr)
		if err != nil {
			return nil, err
		}
		closers = append(closers, shutdown)
	}

	opts := []linter.Option{
		linter.WithLogger(logger),
		linter.WithConcurrency(flags.concurrency),
	}

	switch flags.frontend {
	case "", frontendNative:
	case frontendTreeSitter:
		opts = append(opts, linter.WithParser(treesitter.NewSwift()))
	default:
		_ = cleanup(ctx)
		return nil, fmt.Errorf("unknown frontend %q: expected %s or %s", flags.frontend, frontendNative, frontendTreeSitter)
	}

	switch {
	case flags.noCache:
	case flags.cachePath != "":
		disk, err := cache.OpenDisk(cache.Config{Path: flags.cachePath, Logger: logger})
		if err != nil {
			_ = cleanup(ctx)
			return nil, err
		}
		closers = append(closers, func(context.Context) error { return disk.Close() })
		opts = append(opts, linter.WithCache(disk))
	default:
		opts = append(opts, linter.WithCache(cache.Default()))
	}

	l, err := linter.NewLinter(config, rules.NewRegistry(), opts...)
	if err != nil {
		_ = cleanup(ctx)
		return nil, fmt.Errorf("failed to create linter: %w", err)
	}

	return &session{config: config, linter: l, logger: logger, close: cleanup}, nil
}

// setupMetrics installs a meter provider exporting to w. The returned
// function flushes and stops it.
func setupMetrics(w io.Writer) (func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics exporter: %w", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter)))
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// collectFiles expands args into the Swift files to process. Directories are
// walked and filtered by the configured included and excluded globs, which
// are matched against slash separated paths relative to the working
// directory. Files named explicitly are always kept.
func collectFiles(args []string, config *linter.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}
	for _, pattern := range slices.Concat(config.Included, config.Excluded) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, linter.ErrInvalidConfig.Wrapf("invalid glob %q", pattern)
		}
	}

	seen := map[string]bool{}
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := filepath.ToSlash(filepath.Clean(path))
			if d.IsDir() {
				if path != arg && matchesAny(config.Excluded, name) {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), swiftExt) {
				return nil
			}
			if len(config.Included) > 0 && !matchesAny(config.Included, name) {
				return nil
			}
			if matchesAny(config.Excluded, name) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", arg, err)
		}
	}

	slices.Sort(files)
	return files, nil
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if doublestar.MatchUnvalidated(pattern, name) {
			return true
		}
	}
	return false
}
