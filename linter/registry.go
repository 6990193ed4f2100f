package linter

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/speakeasy-api/swiftlint/violation"
)

// Built-in ruleset names.
const (
	RulesetAll         = "all"
	RulesetDefault     = "default"
	RulesetOptIn       = "opt-in"
	RulesetCorrectable = "correctable"
)

type registration struct {
	factory Factory
	proto   Rule
}

// Registry holds registered rules
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]*registration
	aliases  map[string]string   // deprecated alias -> rule ID
	rulesets map[string][]string // ruleset name -> rule IDs
}

// NewRegistry creates a new rule registry
func NewRegistry() *Registry {
	return &Registry{
		rules:    make(map[string]*registration),
		aliases:  make(map[string]string),
		rulesets: make(map[string][]string),
	}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry is the process-wide registry the bundled rules register
// into at startup. It is read-only once populated.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register invokes factory once with the default configuration to learn the
// rule's metadata and capabilities, then records it.
func (r *Registry) Register(factory Factory) error {
	proto, err := factory(RuleConfiguration{Severity: violation.SeverityWarning})
	if err != nil {
		return fmt.Errorf("build rule with defaults: %w", err)
	}
	desc := proto.Description()
	if desc.Identifier == "" {
		return fmt.Errorf("rule has no identifier")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, name := range append([]string{desc.Identifier}, desc.DeprecatedAliases...) {
		if r.taken(name) {
			return ErrDuplicateRule.Wrapf("%q", name)
		}
	}
	r.rules[desc.Identifier] = &registration{factory: factory, proto: proto}
	for _, alias := range desc.DeprecatedAliases {
		r.aliases[alias] = desc.Identifier
	}
	return nil
}

func (r *Registry) taken(name string) bool {
	if _, ok := r.rules[name]; ok {
		return true
	}
	_, ok := r.aliases[name]
	return ok
}

// MustRegister registers every factory and panics on the first error.
func (r *Registry) MustRegister(factories ...Factory) {
	for _, f := range factories {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
}

// Resolve maps an identifier or deprecated alias to the rule identifier.
// Resolving an alias logs a deprecation warning once per process.
func (r *Registry) Resolve(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolve(id)
}

func (r *Registry) resolve(id string) (string, bool) {
	if _, ok := r.rules[id]; ok {
		return id, true
	}
	if canonical, ok := r.aliases[id]; ok {
		warnDeprecated(id, canonical)
		return canonical, true
	}
	return "", false
}

// Lookup returns the description of a rule by identifier or alias.
func (r *Registry) Lookup(id string) (Description, bool) {
	proto, ok := r.Prototype(id)
	if !ok {
		return Description{}, false
	}
	return proto.Description(), true
}

// Prototype returns the instance built with default configuration at
// registration.
func (r *Registry) Prototype(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	canonical, ok := r.resolve(id)
	if !ok {
		return nil, false
	}
	return r.rules[canonical].proto, true
}

// New builds a fresh configured instance of a rule.
func (r *Registry) New(id string, cfg RuleConfiguration) (Rule, error) {
	r.mu.RLock()
	canonical, ok := r.resolve(id)
	var reg *registration
	if ok {
		reg = r.rules[canonical]
	}
	r.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownRule.Wrapf("%q", id)
	}
	rule, err := reg.factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("configure rule %s: %w", canonical, err)
	}
	return rule, nil
}

// RegisterRuleset registers a ruleset
func (r *Registry) RegisterRuleset(name string, ruleIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rulesets[name]; exists || r.builtinRuleset(name) != nil {
		return fmt.Errorf("ruleset %q already registered", name)
	}

	// Validate rule IDs
	for _, id := range ruleIDs {
		if _, exists := r.rules[id]; !exists {
			return fmt.Errorf("rule %q in ruleset %q not found", id, name)
		}
	}

	r.rulesets[name] = ruleIDs
	return nil
}

// GetRuleset returns rule IDs for a ruleset
func (r *Registry) GetRuleset(name string) ([]string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if ids := r.builtinRuleset(name); ids != nil {
		return ids, true
	}
	ids, ok := r.rulesets[name]
	return ids, ok
}

func (r *Registry) builtinRuleset(name string) []string {
	var keep func(Rule) bool
	switch name {
	case RulesetAll:
		keep = func(Rule) bool { return true }
	case RulesetDefault:
		keep = func(rule Rule) bool { d := rule.Description(); return !d.OptIn && !d.Analyzer }
	case RulesetOptIn:
		keep = func(rule Rule) bool { return rule.Description().OptIn }
	case RulesetCorrectable:
		keep = IsCorrectable
	default:
		return nil
	}
	ids := []string{}
	for _, id := range r.ids() {
		if keep(r.rules[id].proto) {
			ids = append(ids, id)
		}
	}
	return ids
}

// AllRules returns the prototype of every registered rule sorted by identifier.
func (r *Registry) AllRules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rules := make([]Rule, 0, len(r.rules))
	for _, id := range r.ids() {
		rules = append(rules, r.rules[id].proto)
	}
	return rules
}

// AllDescriptions returns every rule's description sorted by identifier.
func (r *Registry) AllDescriptions() []Description {
	rules := r.AllRules()
	out := make([]Description, 0, len(rules))
	for _, rule := range rules {
		out = append(out, rule.Description())
	}
	return out
}

// AllRuleIDs returns all registered rule IDs
func (r *Registry) AllRuleIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ids()
}

func (r *Registry) ids() []string {
	ids := make([]string, 0, len(r.rules))
	for id := range r.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AllKinds returns all unique rule kinds
func (r *Registry) AllKinds() []Kind {
	var kinds []Kind
	for _, d := range r.AllDescriptions() {
		if !slices.Contains(kinds, d.Kind) {
			kinds = append(kinds, d.Kind)
		}
	}
	slices.Sort(kinds)
	return kinds
}

// AllRulesets returns all ruleset names, built-in ones included
func (r *Registry) AllRulesets() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := []string{RulesetAll, RulesetCorrectable, RulesetDefault, RulesetOptIn}
	for name := range r.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RulesetsContaining returns names of rulesets that contain the given rule ID
func (r *Registry) RulesetsContaining(ruleID string) []string {
	var sets []string
	for _, name := range r.AllRulesets() {
		ids, _ := r.GetRuleset(name)
		if slices.Contains(ids, ruleID) {
			sets = append(sets, name)
		}
	}
	return sets
}

// deprecationWarnings remembers which aliases were already reported.
var deprecationWarnings = struct {
	sync.Mutex
	seen map[string]struct{}
}{seen: map[string]struct{}{}}

func warnDeprecated(alias, id string) {
	deprecationWarnings.Lock()
	defer deprecationWarnings.Unlock()
	if _, ok := deprecationWarnings.seen[alias]; ok {
		return
	}
	deprecationWarnings.seen[alias] = struct{}{}
	slog.Warn("rule identifier is deprecated", slog.String("alias", alias), slog.String("rule", id))
}

// ResetDeprecationWarnings forgets which aliases were reported.
func ResetDeprecationWarnings() {
	deprecationWarnings.Lock()
	defer deprecationWarnings.Unlock()
	clear(deprecationWarnings.seen)
}

// WarnedAliases lists the aliases reported so far, sorted.
func WarnedAliases() []string {
	deprecationWarnings.Lock()
	defer deprecationWarnings.Unlock()
	out := make([]string, 0, len(deprecationWarnings.seen))
	for alias := range deprecationWarnings.seen {
		out = append(out, alias)
	}
	sort.Strings(out)
	return out
}
