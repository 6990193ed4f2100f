package linter_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/speakeasy-api/swiftlint/cache"
	"github.com/speakeasy-api/swiftlint/directive"
	swifterrors "github.com/speakeasy-api/swiftlint/errors"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/syntax/parser"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoLets = "let a = 1\nlet b = a\n"

func quiet() linter.Option {
	return linter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func ruleIDs(rules []linter.Rule) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.Description().Identifier)
	}
	return ids
}

func bools(b bool) *bool { return &b }

func severity(s violation.Severity) *violation.Severity { return &s }

func selectionRegistry(t *testing.T) *linter.Registry {
	t.Helper()
	return newRegistry(t,
		wordFactory("rule_a", "a", kind(linter.KindLint), aliases("legacy_a")),
		wordFactory("rule_b", "b", kind(linter.KindStyle)),
		wordFactory("opt_c", "c", kind(linter.KindStyle), optIn()),
		analyzerFactory("analyzer_d", "d"),
	)
}

func TestNewLinter_Selection_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   linter.Config
		expected []string
	}{
		{
			name:     "defaults exclude opt-in and analyzer rules",
			config:   linter.Config{},
			expected: []string{"rule_a", "rule_b"},
		},
		{
			name:     "opt-in rules are added",
			config:   linter.Config{OptInRules: []string{"opt_c"}},
			expected: []string{"opt_c", "rule_a", "rule_b"},
		},
		{
			name:     "only rules replace the selection",
			config:   linter.Config{OnlyRules: []string{"opt_c", "rule_b"}},
			expected: []string{"opt_c", "rule_b"},
		},
		{
			name:     "disabled rules always win",
			config:   linter.Config{OnlyRules: []string{"rule_a", "rule_b"}, DisabledRules: []string{"rule_a"}, Rules: map[string]linter.RuleConfig{"rule_a": {Enabled: bools(true)}}},
			expected: []string{"rule_b"},
		},
		{
			name:     "analyzer rules only via analyzer_rules",
			config:   linter.Config{OptInRules: []string{"analyzer_d"}, AnalyzerRules: []string{"analyzer_d", "rule_a"}},
			expected: []string{"analyzer_d", "rule_a", "rule_b"},
		},
		{
			name:     "category disable",
			config:   linter.Config{OptInRules: []string{"opt_c"}, Categories: map[linter.Kind]linter.CategoryConfig{linter.KindStyle: {Enabled: bools(false)}}},
			expected: []string{"rule_a"},
		},
		{
			name: "rule enable overrides category",
			config: linter.Config{
				Categories: map[linter.Kind]linter.CategoryConfig{linter.KindStyle: {Enabled: bools(false)}},
				Rules:      map[string]linter.RuleConfig{"opt_c": {Enabled: bools(true)}},
			},
			expected: []string{"opt_c", "rule_a"},
		},
		{
			name:     "aliases resolve",
			config:   linter.Config{DisabledRules: []string{"legacy_a"}},
			expected: []string{"rule_b"},
		},
		{
			name:     "unknown ids are ignored",
			config:   linter.Config{OnlyRules: []string{"rule_a", "does_not_exist"}},
			expected: []string{"rule_a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, err := linter.NewLinter(&tt.config, selectionRegistry(t), quiet())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ruleIDs(l.Rules()))
		})
	}
}

func TestNewLinter_UnknownRuleWarns_Success(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	_, err := linter.NewLinter(&linter.Config{DisabledRules: []string{"nope"}}, selectionRegistry(t), linter.WithLogger(logger))
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "unknown rule in configuration")
	assert.Contains(t, logs.String(), "rule=nope")
}

func TestNewLinter_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		config   linter.Config
		sentinel error
	}{
		{
			name:     "schema rejects option",
			config:   linter.Config{Rules: map[string]linter.RuleConfig{"identifier_limit": {Options: map[string]any{"warning": "long"}}}},
			sentinel: linter.ErrInvalidOptions,
		},
		{
			name:     "options on a rule without options",
			config:   linter.Config{Rules: map[string]linter.RuleConfig{"rule_a": {Options: map[string]any{"x": 1}}}},
			sentinel: linter.ErrInvalidOptions,
		},
		{
			name:     "bad version",
			config:   linter.Config{SwiftVersion: "latest"},
			sentinel: linter.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := newRegistry(t, wordFactory("rule_a", "a"), limitFactory)
			_, err := linter.NewLinter(&tt.config, registry, quiet())
			require.Error(t, err)
			assert.True(t, swifterrors.Is(err, tt.sentinel), "error %v", err)
		})
	}
}

func TestLinter_Lint_Success(t *testing.T) {
	t.Parallel()

	l, err := linter.NewLinter(linter.NewConfig(), newRegistry(t, wordFactory("rule_a", "a"), wordFactory("rule_b", "b")), quiet())
	require.NoError(t, err)

	out, err := l.LintSource(t.Context(), "main.swift", []byte(twoLets))
	require.NoError(t, err)

	require.Len(t, out.Violations, 3)
	assert.Equal(t, "rule_a", out.Violations[0].RuleID)
	assert.Equal(t, 4, out.Violations[0].Position)
	assert.Equal(t, syntax.Location{Line: 1, Column: 5}, out.Violations[0].Location)
	assert.Equal(t, "main.swift", out.Violations[0].Path)
	assert.Equal(t, "rule_b", out.Violations[1].RuleID)
	assert.Equal(t, 14, out.Violations[1].Position)
	assert.Equal(t, 18, out.Violations[2].Position)

	assert.Equal(t, 3, out.WarningCount())
	assert.False(t, out.HasErrors())
	assert.Empty(t, out.Failures)
	assert.Contains(t, out.Timings, "rule_a")
	assert.Contains(t, out.Timings, "rule_b")
	assert.Len(t, out.SortedTimings(), 2)
}

func TestLinter_Lint_Deterministic_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t,
		wordFactory("rule_a", "a"),
		wordFactory("rule_b", "a"),
		wordFactory("rule_c", "b"),
	)
	l, err := linter.NewLinter(nil, registry, quiet(), linter.WithConcurrency(3))
	require.NoError(t, err)

	first, err := l.LintSource(t.Context(), "x.swift", []byte(twoLets))
	require.NoError(t, err)
	for range 10 {
		again, err := l.LintSource(t.Context(), "x.swift", []byte(twoLets))
		require.NoError(t, err)
		assert.Equal(t, first.Violations, again.Violations)
	}

	require.Len(t, first.Violations, 5)
	assert.Equal(t, "rule_a", first.Violations[0].RuleID)
	assert.Equal(t, "rule_b", first.Violations[1].RuleID, "same position orders by rule id")
}

func TestLinter_Lint_DisableRegions_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		src      string
		expected int
	}{
		{name: "no directives", src: twoLets, expected: 2},
		{name: "disabled for the file", src: "// swiftlint:disable rule_a\n" + twoLets, expected: 0},
		{name: "disabled by alias", src: "// swiftlint:disable legacy_a\n" + twoLets, expected: 0},
		{name: "disabled for all rules", src: "// swiftlint:disable all\n" + twoLets, expected: 0},
		{name: "disable next line", src: "// swiftlint:disable:next rule_a\n" + twoLets, expected: 1},
		{name: "unrelated rule", src: "// swiftlint:disable rule_z\n" + twoLets, expected: 2},
		{name: "re-enabled", src: "// swiftlint:disable rule_a\nlet a = 1\n// swiftlint:enable rule_a\nlet b = a\n", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := newRegistry(t, wordFactory("rule_a", "a", aliases("legacy_a")))
			l, err := linter.NewLinter(nil, registry, quiet())
			require.NoError(t, err)

			out, err := l.LintSource(t.Context(), "x.swift", []byte(tt.src))
			require.NoError(t, err)
			assert.Len(t, out.Violations, tt.expected)
		})
	}
}

func TestLinter_Lint_SeverityOverrides_Success(t *testing.T) {
	t.Parallel()

	cfg := &linter.Config{
		Rules: map[string]linter.RuleConfig{
			"rule_a":           {Severity: severity(violation.SeverityError)},
			"identifier_limit": {Severity: severity(violation.SeverityError), Options: map[string]any{"warning": 3, "error": 6}},
		},
		Categories: map[linter.Kind]linter.CategoryConfig{
			linter.KindLint: {Severity: severity(violation.SeverityWarning)},
		},
	}
	registry := newRegistry(t, wordFactory("rule_a", "a"), wordFactory("rule_b", "b"), limitFactory)
	l, err := linter.NewLinter(cfg, registry, quiet())
	require.NoError(t, err)

	out, err := l.LintSource(t.Context(), "x.swift", []byte("let a = 1\nlet b = 2\nlet long = 3\nlet verylong = 4\n"))
	require.NoError(t, err)

	bySeverity := map[string][]violation.Severity{}
	for _, v := range out.Violations {
		bySeverity[v.RuleID] = append(bySeverity[v.RuleID], v.Severity)
	}
	assert.Equal(t, []violation.Severity{violation.SeverityError}, bySeverity["rule_a"], "rule block beats category")
	assert.Equal(t, []violation.Severity{violation.SeverityWarning}, bySeverity["rule_b"], "category applies")
	assert.Equal(t, []violation.Severity{violation.SeverityWarning, violation.SeverityError}, bySeverity["identifier_limit"], "explicit severities are kept")
	assert.True(t, out.HasErrors())
	assert.Equal(t, 2, out.ErrorCount())
}

func TestLinter_Lint_MinVersion_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		version  string
		expected int
	}{
		{version: "", expected: 2},
		{version: "4.0", expected: 0},
		{version: "4.1.0", expected: 2},
		{version: "5.9", expected: 2},
	}

	for _, tt := range tests {
		t.Run("version "+tt.version, func(t *testing.T) {
			t.Parallel()

			registry := newRegistry(t, wordFactory("modern", "a", minVersion("4.1.0")))
			l, err := linter.NewLinter(&linter.Config{SwiftVersion: tt.version}, registry, quiet())
			require.NoError(t, err)

			out, err := l.LintSource(t.Context(), "x.swift", []byte(twoLets))
			require.NoError(t, err)
			assert.Len(t, out.Violations, tt.expected)
			assert.Empty(t, out.Failures)
		})
	}
}

func TestLinter_Lint_AnalyzerSkipped_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t, analyzerFactory("analyzer_a", "a"))
	l, err := linter.NewLinter(&linter.Config{AnalyzerRules: []string{"analyzer_a"}}, registry, quiet())
	require.NoError(t, err)
	require.Len(t, l.Rules(), 1)

	out, err := l.LintSource(t.Context(), "x.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.Empty(t, out.Violations)
	assert.NotContains(t, out.Timings, "analyzer_a")
}

func TestLinter_Lint_RulePanic_Success(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	registry := newRegistry(t, wordFactory("rule_a", "a"), wordFactory("broken", "b", panics()))
	l, err := linter.NewLinter(nil, registry, linter.WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	out, err := l.LintSource(t.Context(), "x.swift", []byte(twoLets))
	require.NoError(t, err)

	assert.Len(t, out.Violations, 2, "other rules still report")
	require.Len(t, out.Failures, 1)
	assert.Equal(t, "broken", out.Failures[0].RuleID)
	assert.True(t, swifterrors.Is(out.Failures[0], linter.ErrRulePanicked))
	assert.Contains(t, out.Failures[0].Error(), "boom")
	assert.Contains(t, logs.String(), "rule failed")
}

func TestLinter_Lint_Cache_Success(t *testing.T) {
	t.Parallel()

	store := cache.NewMemory()
	registry := newRegistry(t, wordFactory("rule_a", "a"))
	l, err := linter.NewLinter(nil, registry, quiet(), linter.WithCache(store))
	require.NoError(t, err)

	first, err := l.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := l.LintSource(t.Context(), "two.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.True(t, second.Cached)
	require.Len(t, second.Violations, 2)
	assert.Equal(t, "two.swift", second.Violations[0].Path)
	assert.Equal(t, "one.swift", first.Violations[0].Path, "cached copies are independent")

	third, err := l.LintSource(t.Context(), "one.swift", []byte("let a = 2\n"))
	require.NoError(t, err)
	assert.False(t, third.Cached, "source is part of the key")

	assert.Equal(t, cache.Stats{Entries: 2, Hits: 1, Misses: 2}, store.Stats())

	other, err := linter.NewLinter(&linter.Config{Rules: map[string]linter.RuleConfig{"rule_a": {Severity: severity(violation.SeverityError)}}}, registry, quiet(), linter.WithCache(store))
	require.NoError(t, err)
	fourth, err := other.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, fourth.Cached, "configuration is part of the key")
	assert.True(t, fourth.HasErrors())
}

// renamedParser is the native parser under another frontend name.
type renamedParser struct {
	*parser.Parser
	name string
}

func (p renamedParser) Name() string { return p.name }

func TestLinter_Lint_CacheScopedByParser_Success(t *testing.T) {
	t.Parallel()

	store := cache.NewMemory()
	registry := newRegistry(t, wordFactory("rule_a", "a"))

	native, err := linter.NewLinter(nil, registry, quiet(), linter.WithCache(store))
	require.NoError(t, err)
	other, err := linter.NewLinter(nil, registry, quiet(), linter.WithCache(store),
		linter.WithParser(renamedParser{Parser: parser.New(), name: "tree-sitter-swift"}))
	require.NoError(t, err)

	first, err := native.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := other.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, second.Cached, "frontend is part of the key")

	third, err := native.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.True(t, third.Cached)

	assert.Equal(t, cache.Stats{Entries: 2, Hits: 1, Misses: 2}, store.Stats())
}

func TestLinter_Lint_CacheScopedByRules_Success(t *testing.T) {
	t.Parallel()

	store := cache.NewMemory()
	first, err := linter.NewLinter(nil, newRegistry(t, wordFactory("rule_a", "a")), quiet(), linter.WithCache(store))
	require.NoError(t, err)
	second, err := linter.NewLinter(nil, newRegistry(t, wordFactory("rule_a", "a", kind(linter.KindStyle))), quiet(), linter.WithCache(store))
	require.NoError(t, err)

	out, err := first.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, out.Cached)

	out, err = second.LintSource(t.Context(), "one.swift", []byte(twoLets))
	require.NoError(t, err)
	assert.False(t, out.Cached, "rule metadata is part of the key")
}

type failingParser struct{}

func (failingParser) Name() string { return "failing" }

func (failingParser) Parse(context.Context, []byte) (*syntax.Node, error) {
	return nil, errors.New("unsupported syntax")
}

func TestLinter_Parse_Error(t *testing.T) {
	t.Parallel()

	l, err := linter.NewLinter(nil, linter.NewRegistry(), quiet(), linter.WithParser(failingParser{}))
	require.NoError(t, err)

	_, err = l.LintSource(t.Context(), "x.swift", []byte(twoLets))
	require.Error(t, err)
	assert.True(t, swifterrors.Is(err, linter.ErrParse))
	assert.Contains(t, err.Error(), "x.swift")
	assert.Contains(t, err.Error(), "unsupported syntax")
}

func TestLinter_Lint_Canceled_Error(t *testing.T) {
	t.Parallel()

	l, err := linter.NewLinter(nil, newRegistry(t, wordFactory("rule_a", "a")), quiet())
	require.NoError(t, err)
	file, err := l.Parse(t.Context(), "x.swift", []byte(twoLets))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = l.Lint(ctx, file)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFilter_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t, wordFactory("rule_a", "a", aliases("legacy_a")))
	rule, ok := registry.Prototype("rule_a")
	require.True(t, ok)

	l, err := linter.NewLinter(nil, linter.NewRegistry(), quiet())
	require.NoError(t, err)
	file, err := l.Parse(t.Context(), "x.swift", []byte("let a = 1 // swiftlint:disable:this legacy_a\nlet b = a\n"))
	require.NoError(t, err)

	raw := rule.Validate(t.Context(), file)
	require.Len(t, raw, 2)

	kept := linter.Filter(raw, directive.Build(file), rule)
	require.Len(t, kept, 1)
	assert.Equal(t, 2, kept[0].Location.Line)
}
