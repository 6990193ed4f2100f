package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules [rule]",
	Short: "List available rules",
	Long: `List every available rule with its kind and whether it is opt-in,
correctable and enabled by the current configuration.

Pass a rule identifier to print its description and examples instead.

Examples:
  swiftlint rules
  swiftlint rules --kind style
  swiftlint rules --enabled
  swiftlint rules line_length
  swiftlint rules --format json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRules,
}

var (
	rulesKind    string
	rulesEnabled bool
)

func init() {
	rulesCmd.Flags().StringVar(&rulesKind, "kind", "", "Only list rules of this kind (lint, style, idiomatic, performance, metrics)")
	rulesCmd.Flags().BoolVar(&rulesEnabled, "enabled", false, "Only list rules the configuration enables")
}

type ruleInfo struct {
	*linter.RuleDoc
	Enabled bool `json:"enabled"`
}

func runRules(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(global)
	if err != nil {
		return err
	}
	registry := rules.NewRegistry()
	l, err := linter.NewLinter(config, registry, linter.WithLogger(newLogger(cmd.ErrOrStderr(), global.verbose)))
	if err != nil {
		return fmt.Errorf("failed to create linter: %w", err)
	}

	enabled := map[string]bool{}
	for _, rule := range l.Rules() {
		enabled[rule.Description().Identifier] = true
	}

	docs := linter.NewDocGenerator(registry)
	if len(args) == 1 {
		rule, ok := registry.Prototype(args[0])
		if !ok {
			return linter.ErrUnknownRule.Wrapf("%q", args[0])
		}
		return writeRuleDetail(cmd.OutOrStdout(), docs.GenerateRuleDoc(rule), enabled)
	}

	var infos []ruleInfo
	for _, doc := range docs.GenerateAllRuleDocs() {
		if rulesKind != "" && string(doc.Kind) != rulesKind {
			continue
		}
		if rulesEnabled && !enabled[doc.ID] {
			continue
		}
		infos = append(infos, ruleInfo{RuleDoc: doc, Enabled: enabled[doc.ID]})
	}

	if config.OutputFormat == linter.OutputFormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	return writeRulesTable(cmd.OutOrStdout(), infos)
}

func writeRulesTable(w io.Writer, infos []ruleInfo) error {
	if len(infos) == 0 {
		_, err := fmt.Fprintln(w, "No rules found matching the specified filters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "IDENTIFIER\tOPT-IN\tCORRECTABLE\tENABLED\tKIND\tANALYZER\tMIN VERSION")
	for _, info := range infos {
		minVersion := info.MinVersion
		if minVersion == "" {
			minVersion = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			info.ID, yesNo(info.OptIn), yesNo(info.Correctable), yesNo(info.Enabled),
			info.Kind, yesNo(info.Analyzer), minVersion)
	}
	return tw.Flush()
}

func writeRuleDetail(w io.Writer, doc *linter.RuleDoc, enabled map[string]bool) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s)\n\n", doc.Name, doc.ID)
	fmt.Fprintf(&sb, "%s\n", doc.Summary)
	if doc.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", doc.Description)
	}
	fmt.Fprintf(&sb, "\nKind: %s\nOpt-in: %s\nCorrectable: %s\nEnabled: %s\n",
		doc.Kind, yesNo(doc.OptIn), yesNo(doc.Correctable), yesNo(enabled[doc.ID]))
	if doc.MinVersion != "" {
		fmt.Fprintf(&sb, "Minimum Swift version: %s\n", doc.MinVersion)
	}
	if len(doc.DeprecatedAliases) > 0 {
		fmt.Fprintf(&sb, "Deprecated aliases: %s\n", strings.Join(doc.DeprecatedAliases, ", "))
	}

	writeSnippets(&sb, "Non-triggering examples", doc.NonTriggering)
	writeSnippets(&sb, "Triggering examples", doc.Triggering)
	if len(doc.Corrections) > 0 {
		sb.WriteString("\nCorrections:\n")
		for _, c := range doc.Corrections {
			fmt.Fprintf(&sb, "\n%s\n  ->\n%s\n", indent(c.Input), indent(c.Output))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeSnippets(sb *strings.Builder, heading string, snippets []string) {
	if len(snippets) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", heading)
	for _, s := range snippets {
		fmt.Fprintf(sb, "\n%s\n", indent(s))
	}
}

func indent(code string) string {
	lines := strings.Split(strings.TrimRight(code, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
