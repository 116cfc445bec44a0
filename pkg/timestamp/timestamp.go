// Package timestamp formats instants as second-precision UTC strings of
// the form 2006-01-02T15:04:05Z.
package timestamp

import "time"

// Layout is the time.Format layout used for every timestamp. The trailing
// Z is literal; Format converts to UTC before formatting.
const Layout = "2006-01-02T15:04:05Z"

// Len is the length of every formatted timestamp.
const Len = len(Layout)

// Format renders t in UTC, truncated to the second.
func Format(t time.Time) string {
	return t.UTC().Format(Layout)
}

// AppendFormat is Format writing into dst.
func AppendFormat(dst []byte, t time.Time) []byte {
	return t.UTC().AppendFormat(dst, Layout)
}

// Now returns the current UTC timestamp.
func Now() string {
	return Format(time.Now())
}

// Parse reads a timestamp produced by Format.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}
