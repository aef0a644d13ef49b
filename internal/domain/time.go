package domain

import (
	"fmt"
	"strings"
	"time"
)

// TimeFormat is the canonical timestamp layout stored with scores,
// settings and user records.
const TimeFormat = "2006-01-02 15:04:05"

// timestampLayouts are the layouts accepted when reading back records
// written by older deployments, most of which stored ISO-8601 strings.
var timestampLayouts = []string{
	TimeFormat,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// FormatTimestamp renders t in the canonical layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimeFormat)
}

// ParseTimestamp parses s against the accepted layouts.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseTimestampLenient parses s, substituting the current time for
// values no layout accepts. Used on read and migration paths where a
// single bad record must not abort the whole run.
func ParseTimestampLenient(s string) time.Time {
	t, err := ParseTimestamp(s)
	if err != nil {
		return time.Now()
	}
	return t
}
