package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"local leading zero", "0712345678", "+254712345678"},
		{"country code without plus", "254712345678", "+254712345678"},
		{"bare subscriber number", "712345678", "+254712345678"},
		{"already canonical", "+254712345678", "+254712345678"},
		{"spaces and hyphens", "0712 345-678", "+254712345678"},
		{"surrounding whitespace", "  0712345678  ", "+254712345678"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"0712345678", "254712345678", "712345678", "+254712345678"}

	for _, input := range inputs {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once))
	}
}
