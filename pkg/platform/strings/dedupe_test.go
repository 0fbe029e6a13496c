package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty string", input: "", expected: nil},
		{name: "only separators", input: " , ,, ", expected: []string{}},
		{name: "trims pieces", input: " 17, 19 ,20", expected: []string{"17", "19", "20"}},
		{name: "keeps duplicates", input: "2,2,3", expected: []string{"2", "2", "3"}},
		{name: "keeps non-numeric tokens", input: "1, x, 3", expected: []string{"1", "x", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitTrim(tt.input, ","))
		})
	}
}

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"foo", "bar", "foo", "baz", "bar"},
			expected: []string{"foo", "bar", "baz"},
		},
		{
			name:     "combined: trim, dedupe, remove empty",
			input:    []string{"  foo ", "bar", "foo", "", "  ", "bar"},
			expected: []string{"foo", "bar"},
		},
		{
			name:     "preserves case",
			input:    []string{"Foo", "foo", "FOO"},
			expected: []string{"Foo", "foo", "FOO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DedupeAndTrim(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, IsDigits("0"))
	assert.True(t, IsDigits("0042"))
	assert.False(t, IsDigits(""))
	assert.False(t, IsDigits("-1"))
	assert.False(t, IsDigits("+1"))
	assert.False(t, IsDigits("1.5"))
	assert.False(t, IsDigits("1 2"))
	assert.False(t, IsDigits("٣"))
}
