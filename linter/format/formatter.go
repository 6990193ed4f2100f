// Package format renders lint violations for terminals and tools.
package format

import "github.com/speakeasy-api/swiftlint/violation"

type Formatter interface {
	Format(results []violation.Violation) (string, error)
}

func counts(results []violation.Violation) (errs, warnings int) {
	warnings, errs = violation.CountBySeverity(results)
	return errs, warnings
}
