package sqlite

import (
	"database/sql"
	"fmt"
	"time"
)

// timeLayout is a fixed-width RFC3339 variant. The fraction is always
// nine digits so lexicographic comparison of the stored TEXT matches
// chronological order; RFC3339Nano trims trailing zeros and breaks
// ORDER BY for timestamps within the same second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime stores timestamps as fixed-width UTC strings.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime maps the zero time to NULL.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseTime parses a timestamp written by formatTime. RFC3339Nano
// accepts any fraction width, so rows written before the fixed-width
// layout still parse.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}

// parseNullableTime maps NULL to the zero time.
func parseNullableTime(s sql.NullString) (time.Time, error) {
	if !s.Valid || s.String == "" {
		return time.Time{}, nil
	}
	return parseTime(s.String)
}

// nullString maps the empty string to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
