package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/linter/fix"
)

var correctCmd = &cobra.Command{
	Use:     "correct [path...]",
	Aliases: []string{"autocorrect"},
	Short:   "Correct violations that rules know how to fix",
	Long: `Correct Swift files in place.

Every selected correctable rule rewrites the file in turn; the text is parsed
again after each change, and passes repeat until nothing changes or the pass
limit is reached. Edits inside regions disabled for a rule are never made.

Violations that could not be corrected are printed afterwards, and the
command exits with a non-zero status when any of them is an error.

Use --dry-run to see what would change without writing, --diff to print the
changes, and --interactive to confirm each file before it is written.`,
	PreRunE: validateCorrectFlags,
	RunE:    runCorrect,
}

var (
	correctDryRun      bool
	correctDiff        bool
	correctInteractive bool
	correctRules       []string
)

func init() {
	correctCmd.Flags().BoolVar(&correctDryRun, "dry-run", false, "Show what would be corrected without writing files")
	correctCmd.Flags().BoolVar(&correctDiff, "diff", false, "Print a unified diff of each corrected file")
	correctCmd.Flags().BoolVarP(&correctInteractive, "interactive", "i", false, "Confirm each corrected file before writing it")
	correctCmd.Flags().StringSliceVar(&correctRules, "rule", nil, "Only correct with these rules (can be repeated)")
}

func validateCorrectFlags(_ *cobra.Command, args []string) error {
	if correctDryRun && correctInteractive {
		return errors.New("--dry-run and --interactive are mutually exclusive")
	}
	if slices.ContainsFunc(args, IsStdin) {
		return errors.New("correct does not read from stdin")
	}
	return nil
}

func runCorrect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()
	stderr := cmd.ErrOrStderr()

	s, err := newSession(ctx, global, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = s.close(context.WithoutCancel(ctx)) }()

	files, err := collectFiles(args, s.config)
	if err != nil {
		return err
	}

	engine := fix.NewEngine(s.linter, fix.Options{
		DryRun: correctDryRun || correctInteractive,
		Diff:   correctDiff || correctInteractive,
		Rules:  correctRules,
	})

	results := make([]*fix.Result, len(files))
	err = forEachFile(ctx, files, global.concurrency, func(ctx context.Context, i int, path string) error {
		result, err := engine.CorrectFile(ctx, path)
		if err != nil {
			return err
		}
		results[i] = result
		return nil
	})
	if err != nil {
		return err
	}

	if correctInteractive {
		if err := confirmResults(results, cmd.InOrStdin(), stderr); err != nil {
			return err
		}
	}

	reportCorrections(cmd.OutOrStdout(), stderr, results)

	report := summarizeOutputs(remaining(results))
	if err := writeViolations(cmd.OutOrStdout(), s.config.OutputFormat, report.violations); err != nil {
		return err
	}
	for _, result := range results {
		for _, f := range result.Failures {
			fmt.Fprintf(stderr, "warning: %v\n", f)
		}
	}
	reportElapsed(stderr, "Correcting", time.Since(start))

	if report.errors > 0 {
		return fmt.Errorf("%d errors remain after correction", report.errors)
	}
	return nil
}

// confirmResults asks before writing each changed file.
func confirmResults(results []*fix.Result, in io.Reader, out io.Writer) error {
	prompter := fix.NewTerminalPrompter(in, out)
	all := false
	for _, result := range results {
		if !result.Changed() {
			continue
		}
		if !all {
			decision, err := prompter.PromptResult(result)
			if errors.Is(err, fix.ErrQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			switch decision {
			case fix.DecisionSkip:
				continue
			case fix.DecisionApplyAll:
				all = true
			}
		}
		if err := fix.WriteResult(result); err != nil {
			return err
		}
	}
	return nil
}

func reportCorrections(stdout, stderr io.Writer, results []*fix.Result) {
	prefix := ""
	if correctDryRun {
		prefix = "[dry-run] "
	}

	files, corrections := 0, 0
	for _, result := range results {
		if !result.Changed() {
			continue
		}
		files++
		for _, c := range result.Corrections {
			corrections++
			fmt.Fprintf(stderr, "%s%s:%d:%d Corrected %s\n", prefix, result.Path, c.Location.Line, c.Location.Column, c.RuleID)
		}
		if !result.Converged {
			fmt.Fprintf(stderr, "%s%s: corrections did not settle after %d passes\n", prefix, result.Path, fix.MaxPasses)
		}
		if correctDiff && result.Diff != "" {
			fmt.Fprint(stdout, result.Diff)
		}
	}

	verb := "Corrected"
	if correctDryRun {
		verb = "Would correct"
	}
	fmt.Fprintf(stderr, "%s %d violations in %d of %d files.\n", verb, corrections, files, len(results))
}

func remaining(results []*fix.Result) []*linter.Output {
	outputs := make([]*linter.Output, 0, len(results))
	for _, result := range results {
		if result.Remaining != nil {
			outputs = append(outputs, result.Remaining)
		}
	}
	return outputs
}
