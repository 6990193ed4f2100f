package format_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/speakeasy-api/swiftlint/linter/format"
	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/speakeasy-api/swiftlint/violation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finding(rule string, severity violation.Severity, line, col int, reason string) violation.Violation {
	return violation.Violation{
		RuleID:   rule,
		Path:     "Sources/App.swift",
		Position: line*100 + col,
		Location: syntax.Location{Line: line, Column: col},
		Reason:   reason,
		Severity: severity,
	}
}

func TestTextFormatter_Format_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		violations []violation.Violation
		contains   []string
	}{
		{
			name:       "empty violations",
			violations: []violation.Violation{},
			contains:   []string{},
		},
		{
			name: "single error",
			violations: []violation.Violation{
				finding("line_length", violation.SeverityError, 3, 1, "Line should be 120 characters or less"),
			},
			contains: []string{
				"Sources/App.swift:3:1: error: Line should be 120 characters or less (line_length)",
				"1 problems (1 errors, 0 warnings)",
			},
		},
		{
			name: "mixed severities",
			violations: []violation.Violation{
				finding("todo", violation.SeverityWarning, 1, 4, "TODOs should be resolved"),
				finding("force_unwrapping", violation.SeverityError, 2, 9, "Force unwrapping should be avoided"),
			},
			contains: []string{
				"warning: TODOs should be resolved (todo)",
				"error: Force unwrapping should be avoided (force_unwrapping)",
				"2 problems (1 errors, 1 warnings)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			formatter := format.NewTextFormatter()
			result, err := formatter.Format(tt.violations)
			require.NoError(t, err)

			if len(tt.violations) == 0 {
				assert.Empty(t, result)
			}
			for _, substr := range tt.contains {
				assert.Contains(t, result, substr, "output should contain %q", substr)
			}
		})
	}
}

func TestTextFormatter_CorrectableMarker_Success(t *testing.T) {
	t.Parallel()

	v := finding("trailing_semicolon", violation.SeverityWarning, 1, 10, "Lines should not have trailing semicolons")
	plain := finding("todo", violation.SeverityWarning, 2, 1, "TODOs should be resolved")
	v.Correction = &violation.Edit{Start: 9, End: 10}

	result, err := format.NewTextFormatter().Format([]violation.Violation{v, plain})
	require.NoError(t, err)

	lines := strings.Split(result, "\n")
	assert.True(t, strings.HasSuffix(lines[0], "[correctable]"))
	assert.NotContains(t, lines[1], "[correctable]")
}

func TestTextFormatter_Stdin_Success(t *testing.T) {
	t.Parallel()

	v := finding("todo", violation.SeverityWarning, 1, 1, "TODOs should be resolved")
	v.Path = ""

	result, err := format.NewTextFormatter().Format([]violation.Violation{v})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result, "<stdin>:1:1: warning:"))
}

func TestTextFormatter_Color_Success(t *testing.T) {
	t.Parallel()

	vs := []violation.Violation{finding("todo", violation.SeverityError, 1, 1, "TODOs should be resolved")}

	colored, err := format.NewColorTextFormatter(true).Format(vs)
	require.NoError(t, err)
	plain, err := format.NewColorTextFormatter(false).Format(vs)
	require.NoError(t, err)

	assert.Contains(t, colored, "\x1b[")
	assert.NotContains(t, plain, "\x1b[")
}

func TestJSONFormatter_Format_Success(t *testing.T) {
	t.Parallel()

	v := finding("trailing_semicolon", violation.SeverityWarning, 15, 25, "Lines should not have trailing semicolons")
	v.Correction = &violation.Edit{Start: 40, End: 41}
	vs := []violation.Violation{
		v,
		finding("line_length", violation.SeverityError, 16, 1, "Line should be 120 characters or less"),
	}

	result, err := format.NewJSONFormatter().Format(vs)
	require.NoError(t, err)

	var output struct {
		Results []struct {
			Rule     string `json:"rule"`
			Severity string `json:"severity"`
			Message  string `json:"message"`
			File     string `json:"file"`
			Location struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"location"`
			Fix *struct {
				Start int `json:"start"`
				End   int `json:"end"`
			} `json:"fix"`
		} `json:"results"`
		Summary struct {
			Total    int `json:"total"`
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(result), &output), "should be valid JSON")
	require.Len(t, output.Results, 2)

	first := output.Results[0]
	assert.Equal(t, "trailing_semicolon", first.Rule)
	assert.Equal(t, "warning", first.Severity)
	assert.Equal(t, "Sources/App.swift", first.File)
	assert.Equal(t, 15, first.Location.Line)
	assert.Equal(t, 25, first.Location.Column)
	require.NotNil(t, first.Fix)
	assert.Equal(t, 40, first.Fix.Start)
	assert.Nil(t, output.Results[1].Fix)

	assert.Equal(t, 2, output.Summary.Total)
	assert.Equal(t, 1, output.Summary.Errors)
	assert.Equal(t, 1, output.Summary.Warnings)
}

func TestJSONFormatter_Empty_Success(t *testing.T) {
	t.Parallel()

	result, err := format.NewJSONFormatter().Format(nil)
	require.NoError(t, err)
	assert.Contains(t, result, `"results": []`)
	assert.Contains(t, result, `"total": 0`)
}

func TestSummaryFormatter_Empty_Success(t *testing.T) {
	t.Parallel()

	result, err := format.NewSummaryFormatter().Format(nil)
	require.NoError(t, err)
	assert.Contains(t, result, "0 problems", "should show zero problems")
	assert.Contains(t, result, "Rule", "should contain table header")
}

func TestSummaryFormatter_SortedByCount_Success(t *testing.T) {
	t.Parallel()

	other := finding("todo", violation.SeverityWarning, 9, 1, "TODOs should be resolved")
	other.Path = "Sources/Other.swift"
	vs := []violation.Violation{
		finding("line_length", violation.SeverityWarning, 1, 1, "too long"),
		finding("todo", violation.SeverityWarning, 2, 1, "TODOs should be resolved"),
		finding("line_length", violation.SeverityError, 3, 1, "too long"),
		other,
		finding("todo", violation.SeverityWarning, 4, 1, "TODOs should be resolved"),
	}

	result, err := format.NewSummaryFormatter().Format(vs)
	require.NoError(t, err)

	todoIdx := strings.Index(result, "todo")
	lineIdx := strings.Index(result, "line_length")
	require.NotEqual(t, -1, todoIdx)
	require.NotEqual(t, -1, lineIdx)
	assert.Less(t, todoIdx, lineIdx, "higher count should come first")

	var lineRow string
	for _, row := range strings.Split(result, "\n") {
		if strings.HasPrefix(row, "line_length") {
			lineRow = row
		}
	}
	assert.Contains(t, lineRow, "error", "worst severity is shown")
	assert.Contains(t, result, "5 problems (1 errors, 4 warnings) across 2 rules")
}
