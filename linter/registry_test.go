package linter_test

import (
	"testing"

	"github.com/speakeasy-api/swiftlint/errors"
	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T, factories ...linter.Factory) *linter.Registry {
	t.Helper()
	registry := linter.NewRegistry()
	for _, f := range factories {
		require.NoError(t, registry.Register(f))
	}
	return registry
}

func TestRegistry_Register_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t,
		wordFactory("rule_b", "b"),
		wordFactory("rule_a", "a", aliases("old_a")),
	)

	assert.Equal(t, []string{"rule_a", "rule_b"}, registry.AllRuleIDs())

	desc, ok := registry.Lookup("rule_a")
	require.True(t, ok)
	assert.Equal(t, "flags a", desc.Summary)

	proto, ok := registry.Prototype("rule_b")
	require.True(t, ok)
	assert.Equal(t, violation.SeverityWarning, proto.Configuration().Severity, "prototype uses defaults")
}

func TestRegistry_Register_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		factory linter.Factory
	}{
		{name: "duplicate identifier", factory: wordFactory("rule_a", "x")},
		{name: "identifier taken by alias", factory: wordFactory("old_a", "x")},
		{name: "alias taken by identifier", factory: wordFactory("rule_c", "x", aliases("rule_a"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := newRegistry(t, wordFactory("rule_a", "a", aliases("old_a")))
			err := registry.Register(tt.factory)
			require.Error(t, err)
			assert.True(t, errors.Is(err, linter.ErrDuplicateRule))
		})
	}
}

func TestRegistry_MustRegister_Panics_Error(t *testing.T) {
	t.Parallel()

	registry := linter.NewRegistry()
	assert.Panics(t, func() {
		registry.MustRegister(wordFactory("rule_a", "a"), wordFactory("rule_a", "a"))
	})
}

func TestRegistry_New_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t, wordFactory("rule_a", "a", aliases("old_a")))

	rule, err := registry.New("old_a", linter.RuleConfiguration{Severity: violation.SeverityError})
	require.NoError(t, err)
	assert.Equal(t, "rule_a", rule.Description().Identifier)
	assert.Equal(t, violation.SeverityError, rule.Configuration().Severity)

	_, err = registry.New("missing", linter.RuleConfiguration{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, linter.ErrUnknownRule))
}

func TestRegistry_Resolve_WarnsOncePerAlias_Success(t *testing.T) {
	// Not parallel: the deprecation set is process wide.
	linter.ResetDeprecationWarnings()
	t.Cleanup(linter.ResetDeprecationWarnings)

	registry := newRegistry(t, wordFactory("rule_a", "a", aliases("legacy_a", "older_a")))

	id, ok := registry.Resolve("rule_a")
	require.True(t, ok)
	assert.Equal(t, "rule_a", id)
	assert.Empty(t, linter.WarnedAliases())

	for range 3 {
		id, ok = registry.Resolve("legacy_a")
		require.True(t, ok)
		assert.Equal(t, "rule_a", id)
	}
	assert.Equal(t, []string{"legacy_a"}, linter.WarnedAliases())

	_, ok = registry.Resolve("nope")
	assert.False(t, ok)
}

func TestRegistry_Rulesets_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t,
		wordFactory("default_rule", "a"),
		wordFactory("opt_in_rule", "b", optIn()),
		analyzerFactory("analyzer_rule", "c"),
	)

	all, ok := registry.GetRuleset(linter.RulesetAll)
	require.True(t, ok)
	assert.Equal(t, []string{"analyzer_rule", "default_rule", "opt_in_rule"}, all)

	defaults, _ := registry.GetRuleset(linter.RulesetDefault)
	assert.Equal(t, []string{"default_rule"}, defaults)

	optIns, _ := registry.GetRuleset(linter.RulesetOptIn)
	assert.Equal(t, []string{"opt_in_rule"}, optIns)

	correctable, _ := registry.GetRuleset(linter.RulesetCorrectable)
	assert.Empty(t, correctable)

	assert.ElementsMatch(t, []string{"all", "opt-in"}, registry.RulesetsContaining("opt_in_rule"))
}

func TestRegistry_RegisterRuleset_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t, wordFactory("rule_1", "a"), wordFactory("rule_2", "b"))

	require.NoError(t, registry.RegisterRuleset("recommended", []string{"rule_1", "rule_2"}))

	ids, ok := registry.GetRuleset("recommended")
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"rule_1", "rule_2"}, ids)
	assert.Contains(t, registry.AllRulesets(), "recommended")
}

func TestRegistry_RegisterRuleset_Error(t *testing.T) {
	t.Parallel()

	t.Run("rule not found", func(t *testing.T) {
		t.Parallel()

		registry := newRegistry(t, wordFactory("rule_1", "a"))
		err := registry.RegisterRuleset("test", []string{"rule_1", "nonexistent"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonexistent")
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("already registered", func(t *testing.T) {
		t.Parallel()

		registry := newRegistry(t, wordFactory("rule_1", "a"))
		require.NoError(t, registry.RegisterRuleset("test", []string{"rule_1"}))

		err := registry.RegisterRuleset("test", []string{"rule_1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already registered")
	})

	t.Run("built-in name", func(t *testing.T) {
		t.Parallel()

		registry := newRegistry(t, wordFactory("rule_1", "a"))
		err := registry.RegisterRuleset(linter.RulesetDefault, []string{"rule_1"})
		require.Error(t, err)
	})
}

func TestRegistry_AllKinds_Success(t *testing.T) {
	t.Parallel()

	registry := newRegistry(t,
		wordFactory("rule_1", "a", kind(linter.KindStyle)),
		wordFactory("rule_2", "b", kind(linter.KindLint)),
		wordFactory("rule_3", "c", kind(linter.KindStyle)),
	)

	assert.Equal(t, []linter.Kind{linter.KindLint, linter.KindStyle}, registry.AllKinds())

	descs := registry.AllDescriptions()
	require.Len(t, descs, 3)
	assert.Equal(t, "rule_1", descs[0].Identifier)
}
