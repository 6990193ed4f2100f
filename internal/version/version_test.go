package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Parse_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		version  string
		expected Version
	}{
		{name: "full version", version: "5.9.2", expected: Version{Major: 5, Minor: 9, Patch: 2}},
		{name: "major and minor", version: "4.1", expected: Version{Major: 4, Minor: 1}},
		{name: "major only", version: "6", expected: Version{Major: 6}},
		{name: "leading v and spaces", version: " v5.10.0 ", expected: Version{Major: 5, Minor: 10}},
		{name: "zero version", version: "0.0.0", expected: Version{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v, err := Parse(tt.version)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *v)
		})
	}
}

func Test_Parse_Error(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		version string
	}{
		{name: "empty", version: ""},
		{name: "too many parts", version: "1.2.3.4"},
		{name: "non numeric", version: "5.x"},
		{name: "negative", version: "5.-1"},
		{name: "trailing dot", version: "5."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.version)
			require.Error(t, err)
		})
	}
}

func Test_Version_Compare_Success(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "equal", a: "4.1.0", b: "4.1", expected: 0},
		{name: "major higher", a: "5.0.0", b: "4.9.9", expected: 1},
		{name: "minor lower", a: "4.0.9", b: "4.1.0", expected: -1},
		{name: "patch higher", a: "4.1.1", b: "4.1.0", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.expected, a.Compare(*b))
			assert.Equal(t, tt.expected == 0, a.Equal(*b))
			assert.Equal(t, tt.expected > 0, a.GreaterThan(*b))
			assert.Equal(t, tt.expected < 0, a.LessThan(*b))
			assert.Equal(t, tt.expected >= 0, a.AtLeast(*b))
		})
	}
}

func Test_Version_String_Success(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "4.1.0", MustParse("4.1").String())
}

func Test_MustParse_Panic(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		MustParse("invalid")
	})
}

func Test_IsGreaterOrEqual_Success(t *testing.T) {
	t.Parallel()
	ok, err := IsGreaterOrEqual("5.9", "4.1.0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsGreaterOrEqual("4.0", "4.1.0")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = IsGreaterOrEqual("bad", "4.1.0")
	require.Error(t, err)
}
