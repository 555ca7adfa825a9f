package dataset

import (
	"fmt"
	"time"
)

// timestampLayout is the label form used on the report x-axis: wall clock with microseconds.
const timestampLayout = "15:04:05.000000"

// FormatTimestamp converts an RFC3339 time into a report label, truncating to microseconds.
//
//	2018-08-20T16:49:26.372662016Z -> 16:49:26.372662
func FormatTimestamp(raw string) (string, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return FormatTime(t), nil
}

// FormatTime renders t (in UTC) as a report label.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}
