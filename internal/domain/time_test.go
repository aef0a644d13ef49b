package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "canonical", input: "2024-03-01 12:00:00", want: "2024-03-01 12:00:00"},
		{name: "rfc3339", input: "2024-03-01T12:00:00Z", want: "2024-03-01 12:00:00"},
		{name: "rfc3339 fractional", input: "2024-03-01T12:00:00.123456789Z", want: "2024-03-01 12:00:00"},
		{name: "iso without zone", input: "2024-03-01T12:00:00", want: "2024-03-01 12:00:00"},
		{name: "iso with microseconds", input: "2024-03-01T12:00:00.123456", want: "2024-03-01 12:00:00"},
		{name: "date only", input: "2024-03-01", want: "2024-03-01 00:00:00"},
		{name: "surrounding whitespace", input: "  2024-03-01 12:00:00  ", want: "2024-03-01 12:00:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatTimestamp(got))
		})
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "   ", "not-a-date", "2024-13-45 99:99:99"} {
		_, err := ParseTimestamp(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseTimestampLenient(t *testing.T) {
	got := ParseTimestampLenient("2024-03-01 12:00:00")
	assert.Equal(t, "2024-03-01 12:00:00", FormatTimestamp(got))

	// Unreadable values degrade to the current time.
	before := time.Now().Add(-time.Minute)
	got = ParseTimestampLenient("garbage")
	assert.True(t, got.After(before))
}

func TestFormatParseRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 34, 56, 0, time.UTC)
	parsed, err := ParseTimestamp(FormatTimestamp(at))
	require.NoError(t, err)
	assert.Equal(t, FormatTimestamp(at), FormatTimestamp(parsed))
}
