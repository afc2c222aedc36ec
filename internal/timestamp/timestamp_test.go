package timestamp

import (
	"errors"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"morning", time.Date(2024, 1, 1, 10, 5, 0, 0, time.UTC), "01 Jan 2024 @ 10:05 AM"},
		{"afternoon", time.Date(2023, 11, 23, 15, 7, 59, 0, time.UTC), "23 Nov 2023 @ 03:07 PM"},
		{"midnight", time.Date(2022, 6, 9, 0, 0, 0, 0, time.UTC), "09 Jun 2022 @ 12:00 AM"},
		{"noon", time.Date(2022, 6, 9, 12, 30, 0, 0, time.UTC), "09 Jun 2022 @ 12:30 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.in); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"seconds", "2024-01-01 10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"micros", "2024-01-01 10:00:00.123456", time.Date(2024, 1, 1, 10, 0, 0, 123456000, time.UTC), false},
		{"single digit fraction", "2024-01-01 10:00:00.5", time.Date(2024, 1, 1, 10, 0, 0, 500000000, time.UTC), false},
		{"nanos", "2024-01-01 10:00:00.000000001", time.Date(2024, 1, 1, 10, 0, 0, 1, time.UTC), false},
		{"T separator", "2024-01-01T10:00:00", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"surrounding space", " 2024-01-01 10:00:00 ", time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), false},
		{"empty", "", time.Time{}, true},
		{"date only", "2024-01-01", time.Time{}, true},
		{"trailing dot", "2024-01-01 10:00:00.", time.Time{}, true},
		{"zone suffix", "2024-01-01 10:00:00Z", time.Time{}, true},
		{"bad month", "2024-13-01 10:00:00", time.Time{}, true},
		{"slack epoch", "1704103200.000100", time.Time{}, true},
		{"too many digits", "2024-01-01 10:00:00.1234567890", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMalformed) {
					t.Errorf("error %v does not wrap ErrMalformed", err)
				}
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSource(t *testing.T) {
	_, err := Parse("nope")
	var tsErr *Error
	if !errors.As(err, &tsErr) || tsErr.Source != SourceCursor {
		t.Errorf("Parse error = %v, want cursor-sourced *Error", err)
	}

	_, err = ParseStored("nope")
	if !errors.As(err, &tsErr) || tsErr.Source != SourceStored {
		t.Errorf("ParseStored error = %v, want stored-sourced *Error", err)
	}
}

func TestCanonicalRoundTrip(t *testing.T) {
	inputs := []string{
		"2024-01-01 10:00:00",
		"2024-01-01 10:00:00.000100",
		"1999-12-31 23:59:59.999999",
	}
	for _, in := range inputs {
		parsed, err := Parse(in)
		if err != nil {
			t.Fatal(err)
		}
		again, err := Parse(Canonical(parsed))
		if err != nil {
			t.Fatal(err)
		}
		if !again.Equal(parsed) {
			t.Errorf("Canonical round trip of %q = %v, want %v", in, again, parsed)
		}
		if Format(again) != Format(parsed) {
			t.Errorf("Format not stable for %q", in)
		}
	}
}

// Canonical strings must sort like the instants they encode; the SQLite
// backend compares them as text.
func TestCanonicalOrdersLexically(t *testing.T) {
	a := time.Date(2024, 1, 1, 9, 59, 59, 999999000, time.UTC)
	b := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	c := time.Date(2024, 1, 1, 10, 0, 0, 1000, time.UTC)
	if !(Canonical(a) < Canonical(b) && Canonical(b) < Canonical(c)) {
		t.Errorf("canonical order broken: %s %s %s", Canonical(a), Canonical(b), Canonical(c))
	}
}

func TestCanonicalNormalizesZone(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	in := time.Date(2024, 1, 1, 7, 0, 0, 0, loc)
	if got, want := Canonical(in), "2024-01-01 10:00:00.000000"; got != want {
		t.Errorf("Canonical() = %q, want %q", got, want)
	}
}
