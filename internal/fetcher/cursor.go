package fetcher

import (
	"fmt"
	"strconv"
	"time"
)

// Cursors are opaque strings that compare lexically thanks to fixed-width
// encodings: RFC3339 UTC timestamps for feeds, zero-padded decimal post
// IDs for social handles. The empty cursor sorts before every real one.

// TimeCursor encodes a publish timestamp as a cursor.
func TimeCursor(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ParseTimeCursor decodes a timestamp cursor. Returns false for the empty
// cursor of a source that has never fetched.
func ParseTimeCursor(s string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IDCursor encodes a numeric post ID as a cursor.
func IDCursor(id int64) string {
	return fmt.Sprintf("%020d", id)
}

// ParseIDCursor decodes a post ID cursor.
func ParseIDCursor(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// MaxCursor returns the greater of two cursors. Both encodings are
// fixed-width, so lexical comparison preserves ordering.
func MaxCursor(a, b string) string {
	if b > a {
		return b
	}
	return a
}
