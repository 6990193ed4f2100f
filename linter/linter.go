package linter

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"slices"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/speakeasy-api/swiftlint/cache"
	"github.com/speakeasy-api/swiftlint/directive"
	"github.com/speakeasy-api/swiftlint/hashing"
	"github.com/speakeasy-api/swiftlint/internal/version"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/syntax/parser"
	"github.com/speakeasy-api/swiftlint/violation"
)

// Linter is the main linting engine. A Linter is immutable once built and may
// lint many files concurrently.
type Linter struct {
	config      *Config
	registry    *Registry
	rules       []Rule
	resolved    map[string]RuleConfiguration
	scope       string
	version     *version.Version
	parser      Parser
	cache       cache.Store
	concurrency int
	logger      *slog.Logger
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithParser replaces the native parser.
func WithParser(p Parser) Option {
	return func(l *Linter) {
		if p != nil {
			l.parser = p
		}
	}
}

// WithCache enables result caching.
func WithCache(store cache.Store) Option {
	return func(l *Linter) {
		l.cache = store
	}
}

// WithConcurrency bounds how many rules run at once on a file. Values below
// one select runtime.GOMAXPROCS(0).
func WithConcurrency(n int) Option {
	return func(l *Linter) {
		l.concurrency = n
	}
}

// NewLinter resolves the rule selection of config against registry and
// builds a configured instance of every selected rule.
func NewLinter(config *Config, registry *Registry, opts ...Option) (*Linter, error) {
	if config == nil {
		config = NewConfig()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ver, err := config.LanguageVersion()
	if err != nil {
		return nil, err
	}

	l := &Linter{
		config:   config,
		registry: registry,
		resolved: make(map[string]RuleConfiguration),
		version:  ver,
		parser:   parser.New(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.concurrency < 1 {
		l.concurrency = runtime.GOMAXPROCS(0)
	}

	ruleConfigs := l.canonicalRuleConfigs()
	for _, id := range l.selectRules(ruleConfigs) {
		proto, _ := registry.Prototype(id)
		cfg, err := l.ruleConfiguration(proto, ruleConfigs[id])
		if err != nil {
			return nil, err
		}
		rule, err := registry.New(id, cfg)
		if err != nil {
			return nil, err
		}
		l.rules = append(l.rules, rule)
		l.resolved[id] = cfg
	}
	l.scope = l.cacheScope()

	return l, nil
}

// cacheScope digests everything besides the source and language version
// that decides a file's violations: the frontend, the binary and the
// selected rules with their metadata and configuration.
func (l *Linter) cacheScope() string {
	descriptions := make([]Description, 0, len(l.rules))
	for _, rule := range l.rules {
		descriptions = append(descriptions, rule.Description())
	}
	return hashing.Hash(struct {
		Parser  string
		Build   string
		Catalog []Description
		Rules   map[string]RuleConfiguration
	}{
		Parser:  l.parser.Name(),
		Build:   buildIdentity(),
		Catalog: descriptions,
		Rules:   l.resolved,
	})
}

// buildIdentity names the running binary: its module version plus the VCS
// revision it was built from, when recorded.
func buildIdentity() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	id := info.Main.Version
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision", "vcs.modified":
			id += " " + setting.Value
		}
	}
	return id
}

// Registry returns the rule registry for documentation generation
func (l *Linter) Registry() *Registry {
	return l.registry
}

func (l *Linter) Config() *Config { return l.config }

func (l *Linter) Logger() *slog.Logger { return l.logger }

// LanguageVersion is the configured version files are parsed as, nil when
// unset.
func (l *Linter) LanguageVersion() *version.Version { return l.version }

// Rules returns the selected rules sorted by identifier.
func (l *Linter) Rules() []Rule {
	return slices.Clone(l.rules)
}

// CorrectableRules returns the selected rules that can correct, sorted by
// identifier.
func (l *Linter) CorrectableRules() []CorrectableRule {
	var out []CorrectableRule
	for _, r := range l.rules {
		if c, ok := r.(CorrectableRule); ok {
			out = append(out, c)
		}
	}
	return out
}

// Parse parses src into a file ready for Lint.
func (l *Linter) Parse(ctx context.Context, path string, src []byte) (*syntax.File, error) {
	root, err := l.parser.Parse(ctx, src)
	if err != nil {
		return nil, ErrParse.Wrap(fmt.Errorf("%s: %w", path, err))
	}
	if root == nil {
		return nil, ErrParse.Wrapf("%s: parser returned no tree", path)
	}
	return syntax.NewFile(path, src, root, l.version), nil
}

// LintSource parses and lints src.
func (l *Linter) LintSource(ctx context.Context, path string, src []byte) (*Output, error) {
	file, err := l.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	return l.Lint(ctx, file)
}

// Lint runs all selected rules against file
func (l *Linter) Lint(ctx context.Context, file *syntax.File) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	ctx, span := startLintSpan(ctx, file.Path, len(l.rules))
	defer span.End()

	out := &Output{Path: file.Path, Format: l.config.OutputFormat, Timings: map[string]time.Duration{}}

	var key string
	if l.cache != nil {
		key = hashing.Fingerprint(file.Source, versionString(file.Version), l.scope)
		if vs, ok := l.cache.Get(key); ok {
			for i := range vs {
				vs[i].Path = file.Path
			}
			out.Violations = vs
			out.Cached = true
			l.logger.Debug("lint cache hit", slog.String("path", file.Path), slog.String("key", key))
			l.finish(ctx, span, out, started)
			return out, nil
		}
	}

	regions := directive.Build(file)
	raw, err := l.runRules(ctx, file, regions, out)
	if err != nil {
		return nil, err
	}
	out.Violations = l.finalize(raw)

	if l.cache != nil && len(out.Failures) == 0 {
		if err := l.cache.Put(key, out.Violations); err != nil {
			l.logger.Debug("lint cache write failed", slog.String("path", file.Path), slog.Any("error", err))
		}
	}

	l.finish(ctx, span, out, started)
	return out, nil
}

func (l *Linter) finish(ctx context.Context, span trace.Span, out *Output, started time.Time) {
	setLintSpanResult(span, out.ErrorCount(), out.WarningCount(), out.Cached)
	recordLintMetrics(ctx, time.Since(started), out.ErrorCount(), out.WarningCount(), out.Cached)
}

func (l *Linter) runRules(ctx context.Context, file *syntax.File, regions *directive.RegionSet, out *Output) ([]violation.Violation, error) {
	var (
		mu  sync.Mutex
		raw []violation.Violation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)

	for _, rule := range l.rules {
		desc := rule.Description()
		if skip, why := l.skip(rule, file); skip {
			l.logger.Debug("skipping rule", slog.String("rule", desc.Identifier), slog.String("reason", why))
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			vs, err := runRule(gctx, rule, file)
			elapsed := time.Since(began)
			recordRuleMetrics(gctx, desc.Identifier, elapsed, err != nil)

			mu.Lock()
			defer mu.Unlock()
			out.Timings[desc.Identifier] = elapsed
			if err != nil {
				l.logger.Warn("rule failed",
					slog.String("rule", desc.Identifier),
					slog.String("path", file.Path),
					slog.Any("panic", err))
				out.Failures = append(out.Failures, RuleFailure{RuleID: desc.Identifier, Path: file.Path, Err: err})
				return nil
			}
			raw = append(raw, Filter(vs, regions, rule)...)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(out.Failures, func(i, j int) bool {
		return out.Failures[i].RuleID < out.Failures[j].RuleID
	})
	return raw, nil
}

// Applies reports whether rule runs on file. Rules gated on a newer
// language version and analyzers needing compiler arguments do not.
func (l *Linter) Applies(rule Rule, file *syntax.File) bool {
	skip, _ := l.skip(rule, file)
	return !skip
}

// skip reports whether rule must not run on file.
func (l *Linter) skip(rule Rule, file *syntax.File) (bool, string) {
	desc := rule.Description()
	if desc.MinVersion != nil && file.Version != nil && file.Version.LessThan(*desc.MinVersion) {
		return true, "requires language version " + desc.MinVersion.String()
	}
	if a, ok := rule.(AnalyzerRule); ok && a.RequiresCompilerArguments() {
		return true, "requires compiler arguments"
	}
	return false, ""
}

// runRule turns a panic inside rule into an error.
func runRule(ctx context.Context, rule Rule, file *syntax.File) (vs []violation.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			vs = nil
			err = ErrRulePanicked.Wrapf("%v", r)
		}
	}()
	return rule.Validate(ctx, file), nil
}

// Filter drops the violations of rule that fall in one of its disabled
// regions. Regions naming a deprecated alias of the rule apply too.
func Filter(raw []violation.Violation, regions *directive.RegionSet, rule Rule) []violation.Violation {
	desc := rule.Description()
	out := raw[:0:0]
	for _, v := range raw {
		if regions.IsDisabled(desc.Identifier, desc.DeprecatedAliases, v.Position) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// finalize applies configured severities, drops superseded warnings and
// sorts.
func (l *Linter) finalize(raw []violation.Violation) []violation.Violation {
	for i := range raw {
		if raw[i].SeverityExplicit {
			continue
		}
		if cfg, ok := l.resolved[raw[i].RuleID]; ok {
			raw[i].Severity = cfg.Severity
		}
	}
	out := violation.Supersede(raw)
	if out == nil {
		out = []violation.Violation{}
	}
	return out
}

// canonicalRuleConfigs keys the configured rule blocks by rule identifier,
// resolving deprecated aliases.
func (l *Linter) canonicalRuleConfigs() map[string]RuleConfig {
	out := make(map[string]RuleConfig, len(l.config.Rules))
	keys := make([]string, 0, len(l.config.Rules))
	for id := range l.config.Rules {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	for _, id := range keys {
		canonical, ok := l.registry.Resolve(id)
		if !ok {
			l.logger.Warn("configuration for unknown rule", slog.String("rule", id))
			continue
		}
		out[canonical] = l.config.Rules[id]
	}
	return out
}

// selectRules resolves the active rule set. Order of precedence, lowest
// first: defaults or only_rules, opt_in_rules, analyzer_rules, category
// enables, rule enables, disabled_rules.
func (l *Linter) selectRules(ruleConfigs map[string]RuleConfig) []string {
	active := make(map[string]bool)
	isAnalyzer := func(id string) bool {
		d, _ := l.registry.Lookup(id)
		return d.Analyzer
	}

	if len(l.config.OnlyRules) > 0 {
		for _, id := range l.resolveAll("only_rules", l.config.OnlyRules) {
			if !isAnalyzer(id) {
				active[id] = true
			}
		}
	} else {
		defaults, _ := l.registry.GetRuleset(RulesetDefault)
		for _, id := range defaults {
			active[id] = true
		}
		for _, id := range l.resolveAll("opt_in_rules", l.config.OptInRules) {
			if !isAnalyzer(id) {
				active[id] = true
			}
		}
	}

	for _, id := range l.resolveAll("analyzer_rules", l.config.AnalyzerRules) {
		if isAnalyzer(id) {
			active[id] = true
		} else {
			l.logger.Warn("rule is not an analyzer rule", slog.String("rule", id))
		}
	}

	for _, desc := range l.registry.AllDescriptions() {
		cat, ok := l.config.Categories[desc.Kind]
		if !ok || cat.Enabled == nil {
			continue
		}
		if !*cat.Enabled {
			delete(active, desc.Identifier)
		} else if !desc.Analyzer {
			active[desc.Identifier] = true
		}
	}

	for id, rc := range ruleConfigs {
		if rc.Enabled == nil {
			continue
		}
		if *rc.Enabled && !isAnalyzer(id) {
			active[id] = true
		} else if !*rc.Enabled {
			delete(active, id)
		}
	}

	for _, id := range l.resolveAll("disabled_rules", l.config.DisabledRules) {
		delete(active, id)
	}

	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (l *Linter) resolveAll(field string, ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		canonical, ok := l.registry.Resolve(id)
		if !ok {
			l.logger.Warn("unknown rule in configuration", slog.String("field", field), slog.String("rule", id))
			continue
		}
		out = append(out, canonical)
	}
	return out
}

// ruleConfiguration merges the rule's defaults with its configured block.
// Severity comes from the rule block, then its category, then warning.
func (l *Linter) ruleConfiguration(proto Rule, rc RuleConfig) (RuleConfiguration, error) {
	desc := proto.Description()
	cfg := RuleConfiguration{Severity: violation.SeverityWarning, OptIn: desc.OptIn}

	if cat, ok := l.config.Categories[desc.Kind]; ok && cat.Severity != nil {
		cfg.Severity = *cat.Severity
	}
	cfg.Severity = rc.GetSeverity(cfg.Severity)

	if c, ok := proto.(ConfigurableRule); ok {
		cfg.Options = MergeOptions(c.ConfigDefaults(), rc.Options)
		if err := ValidateOptions(desc.Identifier, c.ConfigSchema(), cfg.Options); err != nil {
			return RuleConfiguration{}, err
		}
	} else if len(rc.Options) > 0 {
		return RuleConfiguration{}, ErrInvalidOptions.Wrapf("%s: rule takes no options", desc.Identifier)
	}
	return cfg, nil
}

func versionString(v *version.Version) string {
	if v == nil {
		return ""
	}
	return v.String()
}
