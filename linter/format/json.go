package format

import (
	"encoding/json"

	"github.com/speakeasy-api/swiftlint/violation"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

type jsonOutput struct {
	Results []jsonResult `json:"results"`
	Summary jsonSummary  `json:"summary"`
}

type jsonResult struct {
	Rule     string       `json:"rule"`
	Severity string       `json:"severity"`
	Message  string       `json:"message"`
	File     string       `json:"file,omitempty"`
	Location jsonLocation `json:"location"`
	Fix      *jsonFix     `json:"fix,omitempty"`
}

type jsonLocation struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonFix struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Replacement string `json:"replacement"`
}

type jsonSummary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

func (f *JSONFormatter) Format(results []violation.Violation) (string, error) {
	output := jsonOutput{
		Results: make([]jsonResult, 0, len(results)),
	}

	for _, v := range results {
		result := jsonResult{
			Rule:     v.RuleID,
			Severity: v.Severity.String(),
			Message:  v.Reason,
			File:     v.Path,
			Location: jsonLocation{
				Offset: v.Position,
				Line:   v.Location.Line,
				Column: v.Location.Column,
			},
		}
		if v.Correction != nil {
			result.Fix = &jsonFix{
				Start:       v.Correction.Start,
				End:         v.Correction.End,
				Replacement: v.Correction.Replacement,
			}
		}
		output.Results = append(output.Results, result)
	}

	output.Summary.Total = len(results)
	output.Summary.Errors, output.Summary.Warnings = counts(results)

	bytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}
