package linter

import "github.com/speakeasy-api/swiftlint/errors"

const (
	ErrDuplicateRule  = errors.Error("duplicate rule identifier")
	ErrUnknownRule    = errors.Error("unknown rule")
	ErrInvalidOptions = errors.Error("invalid rule options")
	ErrInvalidConfig  = errors.Error("invalid configuration")
	ErrParse          = errors.Error("parse failed")
	ErrRulePanicked   = errors.Error("rule panicked")
)
