package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"name": "Jane"}`,
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "json fenced block",
			input:    "```json\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "generic fenced block",
			input:    "```\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "fenced block with language identifier",
			input:    "```javascript\n{\"name\": \"Jane\"}\n```",
			expected: `{"name": "Jane"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n```json\n[1, 2]\n```\n  ",
			expected: "[1, 2]",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
