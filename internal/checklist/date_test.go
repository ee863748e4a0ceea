package checklist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input string
		want  string
	}{
		{"2026-02-07 14:30", "February 7, 2026"},
		{"2026-02-07", "February 7, 2026"},
		{"2025-12-31 06:05", "December 31, 2025"},
		{"yesterday morning", "yesterday morning"},
		{"", ""},
		{"2026-13-40", "2026-13-40"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatDate(tc.input))
		})
	}
}
