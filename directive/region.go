package directive

import (
	"slices"
	"sort"

	"github.com/speakeasy-api/swiftlint/syntax"
)

// Region is a half-open byte range in which RuleID is disabled.
type Region struct {
	RuleID string `json:"rule_id" yaml:"rule_id"`
	Start  int    `json:"start" yaml:"start"`
	End    int    `json:"end" yaml:"end"`
}

// Contains reports whether offset falls in [Start, End).
func (r Region) Contains(offset int) bool { return offset >= r.Start && offset < r.End }

type interval struct{ start, end int }

// RegionSet holds the disabled intervals of one file keyed by rule id.
// Every id mentioned by any command has its own list with the all-rules
// regions already merged in; ids never mentioned fall back to AllRules.
type RegionSet struct {
	commands []Command
	byRule   map[string][]interval
}

// Build parses the commands of file and computes its regions.
func Build(file *syntax.File) *RegionSet {
	return Regions(file, Parse(file))
}

// Regions computes the disabled intervals described by commands.
func Regions(file *syntax.File, commands []Command) *RegionSet {
	set := &RegionSet{commands: commands, byRule: map[string][]interval{}}
	if file == nil {
		return set
	}
	b := newSweep(len(file.Source))
	for _, cmd := range commands {
		if cmd.IsValid() {
			b.mention(cmd.RuleIDs)
		}
	}
	for _, cmd := range commands {
		if cmd.IsValid() && cmd.Modifier == ModifierNone {
			b.apply(cmd)
		}
	}
	b.finish()

	lines := newLineFinder(file)
	for _, cmd := range commands {
		if !cmd.IsValid() || cmd.Modifier == ModifierNone {
			continue
		}
		span, ok := lines.span(cmd)
		if !ok {
			continue
		}
		for _, key := range b.targets(cmd.RuleIDs) {
			if cmd.Action == ActionDisable {
				b.out[key] = union(b.out[key], span)
			} else {
				b.out[key] = subtract(b.out[key], span)
			}
		}
	}
	for key, list := range b.out {
		if len(list) > 0 {
			set.byRule[key] = list
		} else if key != AllRules {
			set.byRule[key] = nil
		}
	}
	return set
}

// IsDisabled reports whether offset is suppressed for ruleID or any of its
// aliases.
func (s *RegionSet) IsDisabled(ruleID string, aliases []string, offset int) bool {
	if s == nil {
		return false
	}
	mentioned := false
	for _, id := range append([]string{ruleID}, aliases...) {
		list, ok := s.byRule[id]
		if !ok {
			continue
		}
		mentioned = true
		if containsOffset(list, offset) {
			return true
		}
	}
	return !mentioned && containsOffset(s.byRule[AllRules], offset)
}

// Commands returns every parsed command, valid or not, in source order.
func (s *RegionSet) Commands() []Command {
	if s == nil {
		return nil
	}
	return s.commands
}

// Regions lists every interval sorted by rule id and start.
func (s *RegionSet) Regions() []Region {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.byRule))
	for k := range s.byRule {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var out []Region
	for _, k := range keys {
		for _, iv := range s.byRule[k] {
			out = append(out, Region{RuleID: k, Start: iv.start, End: iv.end})
		}
	}
	return out
}

func containsOffset(list []interval, offset int) bool {
	i := sort.Search(len(list), func(i int) bool { return list[i].end > offset })
	return i < len(list) && list[i].start <= offset
}

// sweep replays bare commands in source order and records when the
// effective state of each rule id flips.
type sweep struct {
	end         int
	keys        []string
	allDisabled bool
	disabled    map[string]bool
	except      map[string]bool
	open        map[string]int
	out         map[string][]interval
}

func newSweep(end int) *sweep {
	return &sweep{
		end:      end,
		keys:     []string{AllRules},
		disabled: map[string]bool{},
		except:   map[string]bool{},
		open:     map[string]int{},
		out:      map[string][]interval{AllRules: nil},
	}
}

func (b *sweep) mention(ids []string) {
	for _, id := range ids {
		if id != AllRules && !slices.Contains(b.keys, id) {
			b.keys = append(b.keys, id)
			b.out[id] = nil
		}
	}
}

func (b *sweep) effective(key string) bool {
	if key == AllRules {
		return b.allDisabled
	}
	return b.disabled[key] || (b.allDisabled && !b.except[key])
}

func (b *sweep) apply(cmd Command) {
	before := make([]bool, len(b.keys))
	for i, k := range b.keys {
		before[i] = b.effective(k)
	}

	all := slices.Contains(cmd.RuleIDs, AllRules)
	switch {
	case cmd.Action == ActionDisable && all:
		b.allDisabled = true
		clear(b.except)
	case cmd.Action == ActionEnable && all:
		b.allDisabled = false
		clear(b.disabled)
		clear(b.except)
	}
	if !all {
		for _, id := range cmd.RuleIDs {
			if cmd.Action == ActionDisable {
				b.disabled[id] = true
				delete(b.except, id)
			} else {
				b.disabled[id] = false
				if b.allDisabled {
					b.except[id] = true
				}
			}
		}
	}

	for i, k := range b.keys {
		after := b.effective(k)
		switch {
		case !before[i] && after:
			b.open[k] = cmd.Offset
		case before[i] && !after:
			b.out[k] = union(b.out[k], interval{b.open[k], cmd.Offset})
			delete(b.open, k)
		}
	}
}

func (b *sweep) finish() {
	for _, k := range b.keys {
		if start, ok := b.open[k]; ok {
			b.out[k] = union(b.out[k], interval{start, b.end})
		}
	}
}

// targets lists the keys a single-line command changes.
func (b *sweep) targets(ids []string) []string {
	if slices.Contains(ids, AllRules) {
		return b.keys
	}
	return ids
}

func union(list []interval, iv interval) []interval {
	if iv.start >= iv.end {
		return list
	}
	out := make([]interval, 0, len(list)+1)
	inserted := false
	for _, cur := range list {
		switch {
		case cur.end < iv.start:
			out = append(out, cur)
		case cur.start > iv.end:
			if !inserted {
				out = append(out, iv)
				inserted = true
			}
			out = append(out, cur)
		default:
			iv.start = min(iv.start, cur.start)
			iv.end = max(iv.end, cur.end)
		}
	}
	if !inserted {
		out = append(out, iv)
	}
	return out
}

func subtract(list []interval, iv interval) []interval {
	out := make([]interval, 0, len(list)+1)
	for _, cur := range list {
		if cur.end <= iv.start || cur.start >= iv.end {
			out = append(out, cur)
			continue
		}
		if cur.start < iv.start {
			out = append(out, interval{cur.start, iv.start})
		}
		if cur.end > iv.end {
			out = append(out, interval{iv.end, cur.end})
		}
	}
	return out
}

// lineFinder resolves the line a single-line command targets. next and
// previous skip blank and comment-only lines by looking at the nearest
// token on a later or earlier line.
type lineFinder struct {
	conv  *syntax.LocationConverter
	lines []int
}

func newLineFinder(file *syntax.File) *lineFinder {
	lf := &lineFinder{conv: file.Converter()}
	if file.Root == nil {
		return lf
	}
	for _, tok := range file.Root.Tokens() {
		if tok.TokenKind() == syntax.TokenEOF || tok.Start() < 0 {
			continue
		}
		line := lf.conv.Line(tok.Start())
		if n := len(lf.lines); n == 0 || lf.lines[n-1] != line {
			lf.lines = append(lf.lines, line)
		}
	}
	return lf
}

func (lf *lineFinder) span(cmd Command) (interval, bool) {
	line := cmd.Line
	switch cmd.Modifier {
	case ModifierNext:
		i := sort.SearchInts(lf.lines, cmd.Line+1)
		if i == len(lf.lines) {
			return interval{}, false
		}
		line = lf.lines[i]
	case ModifierPrevious:
		i := sort.SearchInts(lf.lines, cmd.Line) - 1
		if i < 0 {
			return interval{}, false
		}
		line = lf.lines[i]
	}
	start, end, ok := lf.conv.LineRange(line)
	return interval{start, end}, ok
}
