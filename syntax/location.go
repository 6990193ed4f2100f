package syntax

import (
	"sort"

	"github.com/rivo/uniseg"
)

// Location is a 1-based line and column. Columns count grapheme clusters.
type Location struct {
	Line   int `json:"line" yaml:"line" msgpack:"line"`
	Column int `json:"column" yaml:"column" msgpack:"column"`
}

// LocationConverter maps byte offsets to lines and columns.
type LocationConverter struct {
	src        []byte
	lineStarts []int
}

func NewLocationConverter(src []byte) *LocationConverter {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			starts = append(starts, i+1)
		case '\r':
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		}
	}
	return &LocationConverter{src: src, lineStarts: starts}
}

// LineCount returns the number of lines. A trailing newline starts an empty
// final line.
func (c *LocationConverter) LineCount() int { return len(c.lineStarts) }

// Line returns the 1-based line containing offset. Offsets past the end map
// to the last line.
func (c *LocationConverter) Line(offset int) int {
	if offset < 0 {
		return 1
	}
	return sort.Search(len(c.lineStarts), func(i int) bool { return c.lineStarts[i] > offset })
}

// Location converts offset to a line and column.
func (c *LocationConverter) Location(offset int) Location {
	if offset < 0 {
		return Location{Line: 1, Column: 1}
	}
	if offset > len(c.src) {
		offset = len(c.src)
	}
	line := c.Line(offset)
	start := c.lineStarts[line-1]
	return Location{Line: line, Column: uniseg.GraphemeClusterCount(string(c.src[start:offset])) + 1}
}

// LineStart returns the offset of the first byte of a 1-based line, or -1.
func (c *LocationConverter) LineStart(line int) int {
	if line < 1 || line > len(c.lineStarts) {
		return -1
	}
	return c.lineStarts[line-1]
}

// LineRange returns [start, end) of a line including its terminator.
func (c *LocationConverter) LineRange(line int) (start, end int, ok bool) {
	if line < 1 || line > len(c.lineStarts) {
		return 0, 0, false
	}
	start = c.lineStarts[line-1]
	end = len(c.src)
	if line < len(c.lineStarts) {
		end = c.lineStarts[line]
	}
	return start, end, true
}

// LineText returns a line without its terminator.
func (c *LocationConverter) LineText(line int) string {
	start, end, ok := c.LineRange(line)
	if !ok {
		return ""
	}
	text := c.src[start:end]
	for len(text) > 0 && (text[len(text)-1] == '\n' || text[len(text)-1] == '\r') {
		text = text[:len(text)-1]
	}
	return string(text)
}
