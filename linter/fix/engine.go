// Package fix runs correctable rules over source text until it stops
// changing.
package fix

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/speakeasy-api/swiftlint/directive"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/speakeasy-api/swiftlint/visitor"
)

// MaxPasses bounds the correction loop. Rules whose corrections undo each
// other stop here instead of looping forever.
const MaxPasses = 10

// Options configures fix engine behavior.
type Options struct {
	// DryRun makes CorrectFile report what would change without writing.
	DryRun bool
	// Diff fills Result.Diff with a unified diff.
	Diff bool
	// Rules restricts correction to these identifiers. Empty means every
	// selected correctable rule.
	Rules []string
}

// Result tracks what the engine did to one file.
type Result struct {
	Path     string
	Original []byte
	Source   []byte

	// Corrections are in application order. Locations refer to the text the
	// correcting rule saw.
	Corrections []violation.Correction
	Counts      map[string]int

	// Suppressed counts edits refused inside disabled regions, as seen by
	// each rule's last pass over the text.
	Suppressed int

	// Remaining is the lint of the corrected text.
	Remaining *linter.Output

	Passes    int
	Converged bool
	Failures  []linter.RuleFailure
	Diff      string
	Written   bool
}

// Changed reports whether correction altered the text.
func (r *Result) Changed() bool { return !bytes.Equal(r.Original, r.Source) }

// Engine applies corrections with the rules selected by a linter.
type Engine struct {
	linter *linter.Linter
	opts   Options
	logger *slog.Logger
}

// NewEngine creates a new fix engine.
func NewEngine(l *linter.Linter, opts Options) *Engine {
	return &Engine{
		linter: l,
		opts:   opts,
		logger: l.Logger(),
	}
}

func (e *Engine) rules() []linter.CorrectableRule {
	rules := e.linter.CorrectableRules()
	if len(e.opts.Rules) == 0 {
		return rules
	}
	keep := make(map[string]bool, len(e.opts.Rules))
	for _, id := range e.opts.Rules {
		if canonical, ok := e.linter.Registry().Resolve(id); ok {
			keep[canonical] = true
		}
	}
	return slices.DeleteFunc(rules, func(r linter.CorrectableRule) bool {
		return !keep[r.Description().Identifier]
	})
}

// Correct runs every pass over src and lints the outcome. Each pass applies
// the rules in identifier order, re-parsing between rules whenever the text
// changed. The loop ends after a pass without corrections or after
// MaxPasses.
func (e *Engine) Correct(ctx context.Context, path string, src []byte) (*Result, error) {
	result := &Result{
		Path:     path,
		Original: src,
		Source:   src,
		Counts:   map[string]int{},
	}
	rules := e.rules()
	failed := map[string]bool{}
	suppressed := map[string]int{}

	for pass := 1; pass <= MaxPasses; pass++ {
		passCtx, span := linter.StartPassSpan(ctx, path, pass)
		made, err := e.pass(passCtx, result, rules, failed, suppressed)
		span.End()
		if err != nil {
			return nil, err
		}
		result.Passes = pass
		e.logger.Debug("correction pass",
			slog.String("path", path),
			slog.Int("pass", pass),
			slog.Int("corrections", made))
		if made == 0 {
			result.Converged = true
			break
		}
	}
	for _, n := range suppressed {
		result.Suppressed += n
	}
	if !result.Converged {
		e.logger.Warn("corrections did not converge",
			slog.String("path", path),
			slog.Int("passes", MaxPasses))
	}

	remaining, err := e.linter.LintSource(ctx, path, result.Source)
	if err != nil {
		return nil, err
	}
	result.Remaining = remaining
	result.Failures = append(result.Failures, remaining.Failures...)
	sort.SliceStable(result.Failures, func(i, j int) bool {
		return result.Failures[i].RuleID < result.Failures[j].RuleID
	})

	if e.opts.Diff {
		result.Diff = Diff(path, result.Original, result.Source)
	}
	return result, nil
}

func (e *Engine) pass(ctx context.Context, result *Result, rules []linter.CorrectableRule, failed map[string]bool, suppressed map[string]int) (int, error) {
	made := 0
	for _, rule := range rules {
		id := rule.Description().Identifier
		if failed[id] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return made, err
		}

		file, err := e.linter.Parse(ctx, result.Path, result.Source)
		if err != nil {
			return made, err
		}
		if !e.linter.Applies(rule, file) {
			continue
		}

		root, cc, err := RewriteRule(rule, file, directive.Build(file))
		if err != nil {
			failed[id] = true
			e.logger.Warn("correction failed",
				slog.String("rule", id),
				slog.String("path", result.Path),
				slog.Any("panic", err))
			result.Failures = append(result.Failures, linter.RuleFailure{RuleID: id, Path: result.Path, Err: err})
			continue
		}
		suppressed[id] = cc.Suppressed()

		corrections := cc.Corrections()
		if len(corrections) == 0 {
			continue
		}
		text := root.Text()
		if text == string(result.Source) {
			continue
		}

		result.Source = []byte(text)
		result.Corrections = append(result.Corrections, corrections...)
		result.Counts[id] += len(corrections)
		made += len(corrections)
	}
	return made, nil
}

// RewriteRule applies rule's rewriter to file. Edits inside the rule's
// disabled regions are refused by the returned context. A panic in the rule
// is returned as an error and the tree is discarded.
func RewriteRule(rule linter.CorrectableRule, file *syntax.File, regions *directive.RegionSet) (root *syntax.Node, cc *visitor.CorrectionContext, err error) {
	desc := rule.Description()
	cc = visitor.NewCorrectionContext(desc.Identifier, file, func(offset int) bool {
		return regions.IsDisabled(desc.Identifier, desc.DeprecatedAliases, offset)
	})

	defer func() {
		if r := recover(); r != nil {
			root, cc = nil, nil
			err = linter.ErrRulePanicked.Wrapf("%v", r)
		}
	}()

	return visitor.ApplyRewriter(file.Root, rule.Rewriter(cc)), cc, nil
}

// CorrectFile corrects the file at path in place unless DryRun is set.
func (e *Engine) CorrectFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := e.Correct(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if e.opts.DryRun || !result.Changed() {
		return result, nil
	}
	if err := WriteResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

// WriteResult writes the corrected text back to its path.
func WriteResult(result *Result) error {
	info, err := os.Stat(result.Path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", result.Path, err)
	}
	if err := os.WriteFile(result.Path, result.Source, info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", result.Path, err)
	}
	result.Written = true
	return nil
}

// Diff renders a unified diff between two versions of path.
func Diff(path string, original, corrected []byte) string {
	if bytes.Equal(original, corrected) {
		return ""
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(original)),
		B:        difflib.SplitLines(string(corrected)),
		FromFile: path,
		ToFile:   path + " (corrected)",
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s (corrected)\n@@ changes @@\n%d bytes -> %d bytes\n",
			path, path, len(original), len(corrected))
	}
	return strings.TrimRight(text, "\n") + "\n"
}
