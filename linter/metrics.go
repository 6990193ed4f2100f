package linter

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for lint operations.
var (
	tracer = otel.Tracer("swiftlint.linter")
	meter  = otel.Meter("swiftlint.linter")
)

// Metrics for lint operations.
var (
	lintLatency   metric.Float64Histogram
	ruleLatency   metric.Float64Histogram
	lintTotal     metric.Int64Counter
	errorsFound   metric.Int64Counter
	warningsFound metric.Int64Counter
	ruleFailures  metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		lintLatency, err = meter.Float64Histogram(
			"lint_duration_seconds",
			metric.WithDescription("Duration of lint operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		ruleLatency, err = meter.Float64Histogram(
			"lint_rule_duration_seconds",
			metric.WithDescription("Duration of a single rule over one file"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		lintTotal, err = meter.Int64Counter(
			"lint_total",
			metric.WithDescription("Total number of lint operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		errorsFound, err = meter.Int64Counter(
			"lint_errors_found_total",
			metric.WithDescription("Total number of error violations found"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		warningsFound, err = meter.Int64Counter(
			"lint_warnings_found_total",
			metric.WithDescription("Total number of warning violations found"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		ruleFailures, err = meter.Int64Counter(
			"lint_rule_failures_total",
			metric.WithDescription("Total number of rules that panicked"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startLintSpan creates a span for a lint operation.
func startLintSpan(ctx context.Context, filePath string, rules int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Linter.Lint",
		trace.WithAttributes(
			attribute.String("lint.file_path", filePath),
			attribute.Int("lint.rule_count", rules),
		),
	)
}

// StartPassSpan creates a span for one correction pass.
func StartPassSpan(ctx context.Context, filePath string, pass int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Pass",
		trace.WithAttributes(
			attribute.String("lint.file_path", filePath),
			attribute.Int("lint.pass", pass),
		),
	)
}

// setLintSpanResult sets the result attributes on a lint span.
func setLintSpanResult(span trace.Span, errorCount, warningCount int, cached bool) {
	span.SetAttributes(
		attribute.Int("lint.error_count", errorCount),
		attribute.Int("lint.warning_count", warningCount),
		attribute.Bool("lint.cached", cached),
	)
}

// recordLintMetrics records metrics for a lint operation.
func recordLintMetrics(ctx context.Context, duration time.Duration, errorCount, warningCount int, cached bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("cached", cached))

	lintLatency.Record(ctx, duration.Seconds(), attrs)
	lintTotal.Add(ctx, 1, attrs)
	errorsFound.Add(ctx, int64(errorCount), attrs)
	warningsFound.Add(ctx, int64(warningCount), attrs)
}

func recordRuleMetrics(ctx context.Context, ruleID string, duration time.Duration, failed bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("rule", ruleID))
	ruleLatency.Record(ctx, duration.Seconds(), attrs)
	if failed {
		ruleFailures.Add(ctx, 1, attrs)
	}
}
