package commands

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speakeasy-api/swiftlint/linter"
	"github.com/speakeasy-api/swiftlint/rules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestIsStdin(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "dash is stdin", path: "-", expected: true},
		{name: "empty is not stdin", path: "", expected: false},
		{name: "file path is not stdin", path: "App.swift", expected: false},
		{name: "double dash is not stdin", path: "--", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsStdin(tt.path))
		})
	}
}

func TestCollectFiles_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{
		"Sources/App.swift",
		"Sources/Model/User.SWIFT",
		"Sources/Generated/API.swift",
		"Sources/README.md",
		"Tests/AppTests.swift",
	} {
		writeFile(t, filepath.Join(dir, name), "let a = 1\n")
	}
	root := filepath.ToSlash(dir)

	tests := []struct {
		name     string
		included []string
		excluded []string
		args     []string
		want     []string
	}{
		{
			name: "every swift file",
			args: []string{dir},
			want: []string{"Sources/App.swift", "Sources/Generated/API.swift", "Sources/Model/User.SWIFT", "Tests/AppTests.swift"},
		},
		{
			name:     "excluded directory",
			excluded: []string{root + "/**/Generated"},
			args:     []string{dir},
			want:     []string{"Sources/App.swift", "Sources/Model/User.SWIFT", "Tests/AppTests.swift"},
		},
		{
			name:     "included glob",
			included: []string{root + "/Sources/**"},
			excluded: []string{root + "/**/Generated/**"},
			args:     []string{dir},
			want:     []string{"Sources/App.swift", "Sources/Model/User.SWIFT"},
		},
		{
			name:     "explicit files bypass globs",
			excluded: []string{root + "/**"},
			args:     []string{filepath.Join(dir, "Tests", "AppTests.swift"), filepath.Join(dir, "Tests", "AppTests.swift")},
			want:     []string{"Tests/AppTests.swift"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := linter.NewConfig()
			config.Included = tt.included
			config.Excluded = tt.excluded

			files, err := collectFiles(tt.args, config)
			require.NoError(t, err)

			var rel []string
			for _, f := range files {
				r, err := filepath.Rel(dir, f)
				require.NoError(t, err)
				rel = append(rel, filepath.ToSlash(r))
			}
			assert.Equal(t, tt.want, rel)
		})
	}
}

func TestCollectFiles_Error(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := collectFiles([]string{filepath.Join(dir, "missing")}, linter.NewConfig())
	require.Error(t, err)

	config := linter.NewConfig()
	config.Excluded = []string{"[unterminated"}
	_, err = collectFiles([]string{dir}, config)
	require.Error(t, err)
	assert.ErrorIs(t, err, linter.ErrInvalidConfig)
}

func TestLoadConfig_Success(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "swiftlint.yml")
	writeFile(t, path, "swift_version: \"5.0\"\nopt_in_rules: [force_unwrapping]\noutput_format: json\n")

	config, err := loadConfig(globalFlags{configFile: path})
	require.NoError(t, err)
	assert.Equal(t, "5.0", config.SwiftVersion)
	assert.Equal(t, []string{"force_unwrapping"}, config.OptInRules)
	assert.Equal(t, linter.OutputFormatJSON, config.OutputFormat)

	config, err = loadConfig(globalFlags{configFile: path, swiftVersion: "4.0", format: "summary"})
	require.NoError(t, err)
	assert.Equal(t, "4.0", config.SwiftVersion)
	assert.Equal(t, linter.OutputFormatSummary, config.OutputFormat)
}

func TestLoadConfig_Error(t *testing.T) {
	t.Parallel()

	_, err := loadConfig(globalFlags{configFile: filepath.Join(t.TempDir(), "missing.yml")})
	require.Error(t, err)

	_, err = loadConfig(globalFlags{format: "xml"})
	require.Error(t, err)
	assert.ErrorIs(t, err, linter.ErrInvalidConfig)

	_, err = loadConfig(globalFlags{swiftVersion: "five"})
	require.Error(t, err)
}

func TestForEachFile_Success(t *testing.T) {
	t.Parallel()

	files := []string{"a.swift", "b.swift", "c.swift", "d.swift"}
	got := make([]string, len(files))
	var inFlight, peak atomic.Int32

	err := forEachFile(t.Context(), files, 2, func(_ context.Context, i int, path string) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		got[i] = strings.ToUpper(path)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A.SWIFT", "B.SWIFT", "C.SWIFT", "D.SWIFT"}, got)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestForEachFile_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	err := forEachFile(t.Context(), []string{"a.swift", "b.swift"}, 1, func(_ context.Context, i int, _ string) error {
		if i == 0 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestLintPaths_Stdin_Success(t *testing.T) {
	t.Parallel()

	config := linter.NewConfig()
	config.OnlyRules = []string{rules.RuleTrailingSemicolon}
	l, err := linter.NewLinter(config, rules.NewRegistry(), linter.WithLogger(newLogger(&bytes.Buffer{}, false)))
	require.NoError(t, err)
	s := &session{config: config, linter: l, logger: l.Logger()}

	outputs, err := lintPaths(t.Context(), s, []string{"-"}, strings.NewReader("let a = 1;\n"))
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	require.Len(t, outputs[0].Violations, 1)
	assert.Equal(t, stdinPath, outputs[0].Violations[0].Path)
	assert.Equal(t, rules.RuleTrailingSemicolon, outputs[0].Violations[0].RuleID)
}

func TestLintPaths_Files_Success(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.swift"), "let a = 1;\n")
	writeFile(t, filepath.Join(dir, "B.swift"), "let b = 2\n")
	writeFile(t, filepath.Join(dir, "C.swift"), "let c = 3;\nlet d = 4;\n")

	config := linter.NewConfig()
	config.OnlyRules = []string{rules.RuleTrailingSemicolon}
	l, err := linter.NewLinter(config, rules.NewRegistry(), linter.WithLogger(newLogger(&bytes.Buffer{}, false)))
	require.NoError(t, err)
	s := &session{config: config, linter: l, logger: l.Logger()}

	outputs, err := lintPaths(t.Context(), s, []string{dir}, nil)
	require.NoError(t, err)
	require.Len(t, outputs, 3)

	report := summarizeOutputs(outputs)
	assert.Len(t, report.violations, 3)
	assert.Zero(t, report.errors)
	assert.Equal(t, filepath.Join(dir, "A.swift"), report.violations[0].Path)
	assert.Equal(t, filepath.Join(dir, "C.swift"), report.violations[2].Path)
}

func TestWriteRulesTable_Success(t *testing.T) {
	t.Parallel()

	docs := linter.NewDocGenerator(rules.NewRegistry())
	var infos []ruleInfo
	for _, doc := range docs.GenerateAllRuleDocs() {
		infos = append(infos, ruleInfo{RuleDoc: doc, Enabled: !doc.OptIn})
	}

	var buf bytes.Buffer
	require.NoError(t, writeRulesTable(&buf, infos))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, len(infos)+1)
	assert.Contains(t, lines[0], "IDENTIFIER")
	assert.Contains(t, buf.String(), "anyobject_protocol")
	assert.Contains(t, buf.String(), "4.1.0")

	buf.Reset()
	require.NoError(t, writeRulesTable(&buf, nil))
	assert.Contains(t, buf.String(), "No rules found")
}

func TestReportElapsed_Success(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	reportElapsed(&buf, "Linting", 1500*time.Microsecond)
	assert.Equal(t, "Linting completed in 2ms\n", buf.String())

	buf.Reset()
	reportElapsed(&buf, "Correcting", time.Microsecond)
	assert.Equal(t, "Correcting completed in 1ms\n", buf.String())
}
