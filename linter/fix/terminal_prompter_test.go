package fix_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/speakeasy-api/swiftlint/linter/fix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *fix.Result {
	return &fix.Result{
		Path:     "Sources/App.swift",
		Original: []byte("let a = 1;\n"),
		Source:   []byte("let a = 1\n"),
		Counts:   map[string]int{"trailing_semicolon": 1, "other_rule": 3},
	}
}

func TestTerminalPrompter_PromptResult_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected fix.Decision
	}{
		{name: "yes", input: "y\n", expected: fix.DecisionApply},
		{name: "default is yes", input: "\n", expected: fix.DecisionApply},
		{name: "no", input: "n\n", expected: fix.DecisionSkip},
		{name: "all", input: "a\n", expected: fix.DecisionApplyAll},
		{name: "retry after invalid", input: "maybe\nno\n", expected: fix.DecisionSkip},
		{name: "answer without newline", input: "all", expected: fix.DecisionApplyAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			output := &bytes.Buffer{}
			prompter := fix.NewTerminalPrompter(strings.NewReader(tt.input), output)

			decision, err := prompter.PromptResult(sampleResult())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, decision)
			assert.Contains(t, output.String(), "Sources/App.swift: other_rule ×3, trailing_semicolon ×1")
			assert.Contains(t, output.String(), "-let a = 1;")
		})
	}
}

func TestTerminalPrompter_PromptResult_Error(t *testing.T) {
	t.Parallel()

	t.Run("quit", func(t *testing.T) {
		t.Parallel()

		prompter := fix.NewTerminalPrompter(strings.NewReader("q\n"), &bytes.Buffer{})
		_, err := prompter.PromptResult(sampleResult())
		require.ErrorIs(t, err, fix.ErrQuit)
	})

	t.Run("input closed", func(t *testing.T) {
		t.Parallel()

		prompter := fix.NewTerminalPrompter(strings.NewReader(""), &bytes.Buffer{})
		_, err := prompter.PromptResult(sampleResult())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading input")
	})

	t.Run("invalid then closed", func(t *testing.T) {
		t.Parallel()

		output := &bytes.Buffer{}
		prompter := fix.NewTerminalPrompter(strings.NewReader("maybe"), output)
		_, err := prompter.PromptResult(sampleResult())
		require.Error(t, err)
		assert.Contains(t, output.String(), "Invalid choice: maybe")
	})
}

func TestTerminalPrompter_Confirm_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{input: "y\n", expected: true},
		{input: "YES\n", expected: true},
		{input: "n\n", expected: false},
		{input: "whatever\n", expected: false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			t.Parallel()

			output := &bytes.Buffer{}
			prompter := fix.NewTerminalPrompter(strings.NewReader(tt.input), output)
			ok, err := prompter.Confirm("Write 3 files?")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
			assert.Contains(t, output.String(), "Write 3 files? [y/n]: ")
		})
	}
}
