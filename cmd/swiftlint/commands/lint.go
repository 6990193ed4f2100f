package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/violation"
)

var lintCmd = &cobra.Command{
	Use:   "lint [path...]",
	Short: "Print lint violations for Swift files",
	Long: `Lint Swift files and print every violation.

Paths may be files or directories; directories are searched for .swift files
filtered by the included and excluded globs of the configuration. With no
path the working directory is linted. Use '-' to read one file from stdin:

  cat Sources/App.swift | swiftlint lint -

The command exits with a non-zero status when an error-severity violation is
found, or with --strict when any violation is found.`,
	RunE: runLint,
}

var (
	lintStrict    bool
	lintQuiet     bool
	lintBenchmark bool
)

func init() {
	lintCmd.Flags().BoolVar(&lintStrict, "strict", false, "Fail on warnings as well as errors")
	lintCmd.Flags().BoolVarP(&lintQuiet, "quiet", "q", false, "Do not print progress to stderr")
	lintCmd.Flags().BoolVar(&lintBenchmark, "benchmark", false, "Print the time spent in each rule")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	s, err := newSession(ctx, global, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() { _ = s.close(context.WithoutCancel(ctx)) }()

	outputs, err := lintPaths(ctx, s, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	report := summarizeOutputs(outputs)
	if err := writeViolations(cmd.OutOrStdout(), s.config.OutputFormat, report.violations); err != nil {
		return err
	}
	for _, f := range report.failures {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", f)
	}
	if lintBenchmark {
		writeTimings(cmd.ErrOrStderr(), report.timings)
	}
	if !lintQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Done linting! Found %d violations, %d serious in %d files.\n",
			len(report.violations), report.errors, len(outputs))
		reportElapsed(cmd.ErrOrStderr(), "Linting", time.Since(start))
	}

	switch {
	case report.errors > 0:
		return fmt.Errorf("linting found %d errors", report.errors)
	case lintStrict && len(report.violations) > 0:
		return fmt.Errorf("linting found %d warnings in strict mode", len(report.violations))
	}
	return nil
}

// lintPaths lints stdin or every collected file, returning outputs in file
// order.
func lintPaths(ctx context.Context, s *session, args []string, stdin io.Reader) ([]*linter.Output, error) {
	if len(args) == 1 && IsStdin(args[0]) {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		out, err := s.linter.LintSource(ctx, stdinPath, src)
		if err != nil {
			return nil, err
		}
		return []*linter.Output{out}, nil
	}

	files, err := collectFiles(args, s.config)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected files", "count", len(files))

	outputs := make([]*linter.Output, len(files))
	err = forEachFile(ctx, files, global.concurrency, func(ctx context.Context, i int, path string) error {
		src, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		out, err := s.linter.LintSource(ctx, path, src)
		if err != nil {
			return err
		}
		outputs[i] = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outputs, nil
}

// forEachFile runs fn for every file with at most limit calls in flight.
// The first error cancels the rest.
func forEachFile(ctx context.Context, files []string, limit int, fn func(ctx context.Context, i int, path string) error) error {
	if limit < 1 {
		limit = runtime.GOMAXPROCS(0)
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(ctx, i, path)
		})
	}
	return g.Wait()
}

type lintReport struct {
	violations []violation.Violation
	failures   []linter.RuleFailure
	timings    map[string]time.Duration
	errors     int
}

func summarizeOutputs(outputs []*linter.Output) lintReport {
	report := lintReport{violations: []violation.Violation{}, timings: map[string]time.Duration{}}
	for _, out := range outputs {
		report.violations = append(report.violations, out.Violations...)
		report.failures = append(report.failures, out.Failures...)
		report.errors += out.ErrorCount()
		for id, d := range out.Timings {
			report.timings[id] += d
		}
	}
	return report
}

func writeViolations(w io.Writer, format linter.OutputFormat, vs []violation.Violation) error {
	colored := format == linter.OutputFormatText && !color.NoColor
	text, err := linter.Formatter(format, colored).Format(vs)
	if err != nil {
		return fmt.Errorf("failed to format violations: %w", err)
	}
	_, err = io.WriteString(w, text)
	return err
}

func writeTimings(w io.Writer, timings map[string]time.Duration) {
	out := linter.Output{Timings: timings}
	fmt.Fprintln(w, "Rule timings:")
	for _, t := range out.SortedTimings() {
		fmt.Fprintf(w, "  %-40s %s\n", t.RuleID, t.Duration.Round(time.Microsecond))
	}
}
