package plate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Canonical civilian plate is unchanged",
			raw:      "29A-123.45",
			expected: "29A-123.45",
		},
		{
			name:     "Legacy format without dot",
			raw:      "29A-12345",
			expected: "29A-123.45",
		},
		{
			name:     "Lowercase with spaces",
			raw:      "  30f 567.89 ",
			expected: "30F-567.89",
		},
		{
			name:     "Double letter series",
			raw:      "51LD-12345",
			expected: "51LD-123.45",
		},
		{
			name:     "Digit in series",
			raw:      "29H1-234.56",
			expected: "29H1-234.56",
		},
		{
			name:     "Four digit suffix gets no dot",
			raw:      "29A-1234",
			expected: "29A-1234",
		},
		{
			name:     "Military plate",
			raw:      "TN-354",
			expected: "TN-354",
		},
		{
			name:     "Military plate with five digits",
			raw:      "KT12345",
			expected: "KT-123.45",
		},
		{
			name:     "Separator garbage from OCR",
			raw:      "29A_123*45",
			expected: "29A-123.45",
		},
		{
			name:     "Unparseable input is cleaned best effort",
			raw:      "hello world",
			expected: "HELLOWORLD",
		},
		{
			name:     "Empty input",
			raw:      "",
			expected: "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			assert.Equal(t, tc.expected, got)
			// Normalization is idempotent for every input.
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func TestValid(t *testing.T) {
	valid := []string{"29A-123.45", "29A-12345", "TN-354", "51LD-123.45", "29H1-234.56", "29a12345"}
	for _, p := range valid {
		assert.True(t, Valid(p), "expected %q to validate", p)
	}

	invalid := []string{"", "ABCDEF", "29-12345", "2A-12345", "29A-12", "29A-1234567", "TNX-354", "hello world"}
	for _, p := range invalid {
		assert.False(t, Valid(p), "expected %q to fail validation", p)
	}
}
