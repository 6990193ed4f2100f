package fix

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/speakeasy-api/swiftlint/errors"
)

// ErrQuit is returned when the user stops an interactive correction run.
const ErrQuit = errors.Error("correction stopped by user")

// Decision is the user's answer for one corrected file.
type Decision int

const (
	// DecisionApply writes this file.
	DecisionApply Decision = iota
	// DecisionSkip leaves this file untouched.
	DecisionSkip
	// DecisionApplyAll writes this file and every later one without asking.
	DecisionApplyAll
)

// TerminalPrompter asks on a terminal before corrected files are written.
type TerminalPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewTerminalPrompter creates a new terminal-based prompter.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// writef writes formatted output to the prompter's writer, ignoring write errors
// since terminal output failures are not recoverable.
func (p *TerminalPrompter) writef(format string, args ...any) {
	_, _ = fmt.Fprintf(p.writer, format, args...)
}

// PromptResult shows what correction changed in one file and asks whether
// to write it. Invalid answers are asked again.
func (p *TerminalPrompter) PromptResult(result *Result) (Decision, error) {
	p.writef("\n%s: %s\n", result.Path, summarize(result.Counts))
	diff := result.Diff
	if diff == "" {
		diff = Diff(result.Path, result.Original, result.Source)
	}
	p.writef("%s", diff)

	for {
		p.writef("Apply corrections? [y]es [n]o [a]ll [q]uit > ")

		line, err := p.reader.ReadString('\n')
		if err != nil && line == "" {
			return DecisionSkip, fmt.Errorf("reading input: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes", "":
			return DecisionApply, nil
		case "n", "no", "s", "skip":
			return DecisionSkip, nil
		case "a", "all":
			return DecisionApplyAll, nil
		case "q", "quit":
			return DecisionSkip, ErrQuit
		default:
			p.writef("  Invalid choice: %s (enter y, n, a or q)\n", strings.TrimSpace(line))
			if err != nil {
				return DecisionSkip, fmt.Errorf("reading input: %w", err)
			}
		}
	}
}

func (p *TerminalPrompter) Confirm(message string) (bool, error) {
	p.writef("%s [y/n]: ", message)

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading input: %w", err)
	}
	line = strings.ToLower(strings.TrimSpace(line))

	return line == "y" || line == "yes", nil
}

// summarize renders per-rule correction counts, most frequent first.
func summarize(counts map[string]int) string {
	if len(counts) == 0 {
		return "no corrections"
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if counts[ids[i]] != counts[ids[j]] {
			return counts[ids[i]] > counts[ids[j]]
		}
		return ids[i] < ids[j]
	})
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s ×%d", id, counts[id]))
	}
	return strings.Join(parts, ", ")
}
