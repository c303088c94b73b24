package strutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "empty string", input: "", maxLen: 10, expected: ""},
		{name: "zero max length", input: "hello", maxLen: 0, expected: ""},
		{name: "negative max length", input: "hello", maxLen: -1, expected: ""},
		{name: "shorter than limit", input: "hello", maxLen: 10, expected: "hello"},
		{name: "exactly at limit", input: "hello", maxLen: 5, expected: "hello"},
		{name: "longer than limit", input: "update employee record", maxLen: 6, expected: "update..."},
		{name: "multi-byte runes", input: "日程安排提醒", maxLen: 3, expected: "日程安..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Truncate(tt.input, tt.maxLen))
		})
	}
}
