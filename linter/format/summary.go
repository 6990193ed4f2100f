package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/speakeasy-api/swiftlint/violation"
)

// SummaryFormatter formats results as a per-rule summary table.
type SummaryFormatter struct{}

// NewSummaryFormatter creates a new SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

type ruleSummary struct {
	rule     string
	severity violation.Severity
	files    map[string]struct{}
	count    int
}

// Format outputs a per-rule summary table sorted by count descending. A
// rule's severity column shows the worst severity it reported.
func (f *SummaryFormatter) Format(results []violation.Violation) (string, error) {
	byRule := make(map[string]*ruleSummary)

	for _, v := range results {
		rs, ok := byRule[v.RuleID]
		if !ok {
			rs = &ruleSummary{rule: v.RuleID, files: map[string]struct{}{}}
			byRule[v.RuleID] = rs
		}
		rs.count++
		rs.files[v.Path] = struct{}{}
		if v.Severity > rs.severity {
			rs.severity = v.Severity
		}
	}

	// Sort by count descending, then by rule name
	sorted := make([]*ruleSummary, 0, len(byRule))
	for _, rs := range byRule {
		sorted = append(sorted, rs)
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].rule < sorted[j].rule
	})

	var sb strings.Builder

	fmt.Fprintf(&sb, "%-50s %8s %6s %8s\n", "Rule", "Severity", "Files", "Count")
	sb.WriteString(strings.Repeat("─", 75))
	sb.WriteString("\n")

	for _, rs := range sorted {
		fmt.Fprintf(&sb, "%-50s %8s %6d %8d\n", rs.rule, rs.severity, len(rs.files), rs.count)
	}

	errs, warnings := counts(results)
	sb.WriteString(strings.Repeat("─", 75))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "✖ %d problems (%d errors, %d warnings) across %d rules\n",
		len(results), errs, warnings, len(byRule))

	return sb.String(), nil
}
