// Package core holds the normalization and domain value types shared by
// the ingestion and aggregation layers.
//
// This file contains the best-effort date parser applied to spreadsheet
// cells. Exports never return an error: the boolean result is the only
// failure signal, so one bad cell can never abort a batch.
package core

import (
	"regexp"
	"strings"
	"time"
)

// DateLayouts is the ordered list of layouts tried by ParseDate. The
// order is policy: day-first layouts come before the month-first
// fallback, so an ambiguous value like "01/02/2024" resolves to
// February 1st. Changing the order changes how ambiguous dates are
// read.
var DateLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	// Month-first fallback for US-style exports.
	"01/02/2006",
}

// genericLayouts is the last-resort pass, mirroring what a lenient
// locale-aware parser would accept.
var genericLayouts = []string{
	time.RFC3339,
	time.RFC1123,
	"2 Jan 2006",
	"Jan 2, 2006",
}

var monthNames = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

// bareTimeRe matches values that are only a time of day ("21:06",
// "21:06:14.000Z"). Those carry no date and are rejected rather than
// guessed.
var bareTimeRe = regexp.MustCompile(`^\d{1,2}:\d{2}`)

// ParseDate parses a heterogeneous textual date into a UTC timestamp.
// It accepts ISO timestamps, Brazilian day-first dates and bare month
// names. A bare month name resolves to the first day of that month in
// the current year, since the cell carries no year at all.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if m, ok := monthNames[strings.ToLower(s)]; ok {
		return time.Date(time.Now().UTC().Year(), m, 1, 0, 0, 0, 0, time.UTC), true
	}

	if bareTimeRe.MatchString(s) {
		return time.Time{}, false
	}

	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
