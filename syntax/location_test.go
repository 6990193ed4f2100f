package syntax_test

import (
	"testing"

	"github.com/speakeasy-api/swiftlint/syntax"
	"github.com/stretchr/testify/assert"
)

func TestLocationConverter_Location_Success(t *testing.T) {
	t.Parallel()
	src := []byte("ab\ncd\r\nef\n")
	conv := syntax.NewLocationConverter(src)

	tests := []struct {
		offset   int
		expected syntax.Location
	}{
		{offset: 0, expected: syntax.Location{Line: 1, Column: 1}},
		{offset: 1, expected: syntax.Location{Line: 1, Column: 2}},
		{offset: 3, expected: syntax.Location{Line: 2, Column: 1}},
		{offset: 5, expected: syntax.Location{Line: 2, Column: 3}},
		{offset: 7, expected: syntax.Location{Line: 3, Column: 1}},
		{offset: 10, expected: syntax.Location{Line: 4, Column: 1}},
		{offset: 99, expected: syntax.Location{Line: 4, Column: 1}},
		{offset: -1, expected: syntax.Location{Line: 1, Column: 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, conv.Location(tt.offset), "offset %d", tt.offset)
	}
	assert.Equal(t, 4, conv.LineCount())
}

func TestLocationConverter_GraphemeColumns_Success(t *testing.T) {
	t.Parallel()
	src := []byte("let 👨‍👩‍👧 = é!")
	conv := syntax.NewLocationConverter(src)

	bang := len(src) - 1
	assert.Equal(t, syntax.Location{Line: 1, Column: 10}, conv.Location(bang), "family emoji and combining accent count as one column each")
}

func TestLocationConverter_LineRange_Success(t *testing.T) {
	t.Parallel()
	conv := syntax.NewLocationConverter([]byte("one\ntwo\nthree"))

	start, end, ok := conv.LineRange(2)
	assert.True(t, ok)
	assert.Equal(t, 4, start)
	assert.Equal(t, 8, end)

	start, end, ok = conv.LineRange(3)
	assert.True(t, ok)
	assert.Equal(t, 8, start)
	assert.Equal(t, 13, end)

	_, _, ok = conv.LineRange(4)
	assert.False(t, ok)
	assert.Equal(t, "two", conv.LineText(2))
	assert.Equal(t, -1, conv.LineStart(0))
}

func TestFile_Lines_Success(t *testing.T) {
	t.Parallel()
	f := syntax.NewFile("a.swift", []byte("a\r\nb\n"), nil, nil)

	assert.Equal(t, []string{"a", "b", ""}, f.Lines())
	assert.Equal(t, syntax.Location{Line: 2, Column: 1}, f.Location(3))
}
