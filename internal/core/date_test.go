package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2025-08-11T10:57:25.000Z", time.Date(2025, 8, 11, 10, 57, 25, 0, time.UTC), true},
		{"2025-08-11T10:57:25Z", time.Date(2025, 8, 11, 10, 57, 25, 0, time.UTC), true},
		{"2025-08-11 10:57:25", time.Date(2025, 8, 11, 10, 57, 25, 0, time.UTC), true},
		{"2025-08-11", time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), true},
		{"11/08/2025", time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), true},
		{"11/08/2025 14:30", time.Date(2025, 8, 11, 14, 30, 0, 0, time.UTC), true},
		{"11-08-2025", time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), true},
		{"11.08.2025", time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"   ", time.Time{}, false},
		{"not a date", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok {
			t.Fatalf("%q: ok=%v, want %v", tc.in, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}

// Day-first must win over month-first when both layouts could match.
// This pins the documented disambiguation order.
func TestParseDateDayFirstPriority(t *testing.T) {
	got, ok := ParseDate("01/02/2024")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Day() != 1 || got.Month() != time.February {
		t.Fatalf("got day=%d month=%d, want day=1 month=2", got.Day(), got.Month())
	}
}

func TestParseDateBareTimeFails(t *testing.T) {
	if _, ok := ParseDate("21:06:14.000Z"); ok {
		t.Fatal("bare time of day must not parse to a date")
	}
	if _, ok := ParseDate("9:30"); ok {
		t.Fatal("bare time of day must not parse to a date")
	}
}

func TestParseDateMonthName(t *testing.T) {
	cases := map[string]time.Month{
		"janeiro":  time.January,
		"Março":    time.March,
		"  agosto ": time.August,
		"DEZEMBRO": time.December,
	}
	year := time.Now().UTC().Year()
	for in, month := range cases {
		got, ok := ParseDate(in)
		if !ok {
			t.Fatalf("%q: expected parse to succeed", in)
		}
		want := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Fatalf("%q: got %v, want %v", in, got, want)
		}
	}
}

func TestParseDateMonthFirstFallback(t *testing.T) {
	// Day 13 cannot be a month, so the day-first layout fails and the
	// month-first fallback has to pick it up.
	got, ok := ParseDate("08/13/2025")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Day() != 13 || got.Month() != time.August {
		t.Fatalf("got day=%d month=%d, want day=13 month=8", got.Day(), got.Month())
	}
}
