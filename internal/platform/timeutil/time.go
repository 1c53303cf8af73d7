package timeutil

import "time"

// RFC3339Millis is RFC 3339 UTC with fixed millisecond precision.
// Use this format for timestamps in API payloads.
const RFC3339Millis = "2006-01-02T15:04:05.000Z"

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
// Use this format for log timestamps where higher precision is needed.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// FormatMillis renders t in UTC using RFC3339Millis.
func FormatMillis(t time.Time) string {
	return t.UTC().Format(RFC3339Millis)
}

// ParseMillis accepts any RFC 3339 variant, so peers that send nanosecond or
// offset timestamps still decode.
func ParseMillis(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
