package core

import (
	"fmt"
	"time"
)

// Platform is the attributed ad platform of a lead.
type Platform string

const (
	MetaAds   Platform = "Meta Ads"
	GoogleAds Platform = "Google Ads"
	// Other is an origin that was present but matched no known platform.
	Other Platform = "Outro"
	// Unknown means the row carried no origin field at all.
	Unknown Platform = "Desconhecido"
)

type (
	// Field is one raw spreadsheet cell, keyed by its original column
	// name. Order follows the spreadsheet column order.
	Field struct {
		Name  string
		Value string
	}

	// LeadRecord is one ingested lead row. Timestamp is nil when the
	// date cell was missing or unparseable; such records are kept but
	// excluded from period-filtered views.
	LeadRecord struct {
		Fields    []Field
		Timestamp *time.Time
		Platform  Platform
		Campaign  string
		AdSet     string
	}

	// ContractRecord is one closed-deal row. Amount is always > 0;
	// rows that fail that invariant never become ContractRecords.
	ContractRecord struct {
		Timestamp *time.Time
		Amount    float64
	}

	// FunnelSnapshot holds four independent per-stage counts. The
	// stages come from separately maintained sheets, so the counts are
	// not a subset chain and no identity join is performed.
	FunnelSnapshot struct {
		TotalLeads   int `json:"total_leads"`
		Qualified    int `json:"qualified"`
		Disqualified int `json:"disqualified"`
		Converted    int `json:"converted"`
	}

	// PeriodAggregate is one row of the monthly rollup.
	PeriodAggregate struct {
		Key           string  `json:"key"`   // "2006-01"
		Label         string  `json:"label"` // "jan/2006"
		LeadCount     int     `json:"lead_count"`
		ContractCount int     `json:"contract_count"`
		Revenue       float64 `json:"revenue"`
		Spend         float64 `json:"spend"`
		ROAS          float64 `json:"roas"`
	}

	// CampaignAggregate is one row per campaign or ad-set.
	CampaignAggregate struct {
		Name        string  `json:"name"`
		Spend       float64 `json:"spend"`
		Impressions int64   `json:"impressions"`
		Clicks      int64   `json:"clicks"`
		Leads       int64   `json:"leads"`
		CPL         float64 `json:"cpl"`
		CTR         float64 `json:"ctr"`
	}

	// Period is an inclusive date range at day granularity.
	Period struct {
		Start time.Time
		End   time.Time
	}
)

// Get returns the value of the named raw field, or "" when absent.
func (r LeadRecord) Get(name string) string {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return ""
}

// NewPeriod builds a Period with both bounds truncated to their day.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: DayOf(start), End: DayOf(end)}
}

// Contains reports whether t falls within the period, inclusive on
// both ends, comparing at day granularity.
func (p Period) Contains(t time.Time) bool {
	d := DayOf(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

// Months returns the first day of every calendar month the period
// touches, in ascending order.
func (p Period) Months() []time.Time {
	if p.End.Before(p.Start) {
		return nil
	}
	var out []time.Time
	cur := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(p.End.Year(), p.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// DaysInMonth returns how many days of the given calendar month fall
// inside the period.
func (p Period) DaysInMonth(month time.Time) int {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	lo, hi := first, last
	if p.Start.After(lo) {
		lo = p.Start
	}
	if p.End.Before(hi) {
		hi = p.End
	}
	if hi.Before(lo) {
		return 0
	}
	return int(hi.Sub(lo).Hours()/24) + 1
}

// Days returns the total day count of the period, inclusive.
func (p Period) Days() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24) + 1
}

// DayOf truncates t to midnight UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthKey formats t as the rollup key for its calendar month.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// MonthLabel renders a short human label for the month ("jan/2006").
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%s/%d", monthShortNames[int(t.Month())-1], t.Year())
}

var monthShortNames = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}
