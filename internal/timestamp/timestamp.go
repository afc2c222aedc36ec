// Package timestamp converts between the archive's stored timestamp text and
// the human display format. Message timestamps double as pagination cursors,
// so Canonical is the only form written to the store or handed to clients.
package timestamp

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// DisplayLayout renders e.g. "01 Jan 2024 @ 10:05 AM".
	DisplayLayout = "02 Jan 2006 @ 03:04 PM"

	// CanonicalLayout is fixed width so lexical order equals chronological order.
	CanonicalLayout = "2006-01-02 15:04:05.000000"

	baseLayout = "2006-01-02 15:04:05"
)

// ErrMalformed is returned (wrapped in *Error) when a value is not a valid timestamp.
var ErrMalformed = errors.New("malformed timestamp")

// Source tells whether a malformed value came from a caller or from the store.
type Source int

const (
	// SourceCursor marks caller-supplied input (cursor, thread parent ts, config).
	SourceCursor Source = iota
	// SourceStored marks a value read back from the store, i.e. data corruption.
	SourceStored
)

func (s Source) String() string {
	if s == SourceStored {
		return "stored"
	}
	return "cursor"
}

// Error describes a timestamp that failed to parse.
type Error struct {
	Raw    string
	Source Source
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s value %q: want YYYY-MM-DD HH:MM:SS[.ffffff]", ErrMalformed, e.Source, e.Raw)
}

func (e *Error) Unwrap() error { return ErrMalformed }

// Format renders t for display. It never fails.
func Format(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Canonical renders t in the store's text representation (UTC, microseconds).
func Canonical(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

// Parse reads a store-native timestamp: "YYYY-MM-DD HH:MM:SS" with an optional
// fractional second of 1 to 9 digits. A 'T' date/time separator is tolerated.
// The result is in UTC.
func Parse(raw string) (time.Time, error) {
	return parse(raw, SourceCursor)
}

// ParseStored is Parse for values read back from the store; failures are
// reported with SourceStored so callers can tell corruption from bad input.
func ParseStored(raw string) (time.Time, error) {
	return parse(raw, SourceStored)
}

func parse(raw string, src Source) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if len(s) >= len(baseLayout) && s[10] == 'T' {
		s = s[:10] + " " + s[11:]
	}
	if !validShape(s) {
		return time.Time{}, &Error{Raw: raw, Source: src}
	}
	// time.Parse accepts any fraction after the seconds field even when the
	// layout omits it.
	t, err := time.ParseInLocation(baseLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, &Error{Raw: raw, Source: src}
	}
	return t, nil
}

// validShape rejects inputs time.Parse would accept but the store never
// produces, such as trailing zones or a bare trailing dot.
func validShape(s string) bool {
	if len(s) < len(baseLayout) {
		return false
	}
	frac := s[len(baseLayout):]
	if frac == "" {
		return true
	}
	if frac[0] != '.' || len(frac) < 2 || len(frac) > 10 {
		return false
	}
	for _, c := range frac[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Epoch is the default watermark: every archived message is newer than it.
var Epoch = time.Unix(0, 0).UTC()
