// Package ads holds the value types shared by the ad-platform metric
// clients. Summaries arrive pre-aggregated from the remote APIs; a
// missing numeric field is always a zero, never an error.
package ads

import "time"

// Summary is a period-scoped account total.
type Summary struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Reach       int64   `json:"reach"`
	// Leads counts lead-type actions on Meta and conversions on
	// Google Ads.
	Leads int64   `json:"leads"`
	CTR   float64 `json:"ctr"`
	CPC   float64 `json:"cpc"`
}

// CampaignStats is the per-campaign breakdown of the same fields.
type CampaignStats struct {
	ID          string
	Name        string
	Spend       float64
	Impressions int64
	Clicks      int64
	Leads       int64
}

// AdSetStats is the per-ad-set breakdown (Meta only).
type AdSetStats struct {
	Name        string
	Campaign    string
	Spend       float64
	Impressions int64
	Clicks      int64
	Leads       int64
}

// MonthSpend is spend attributed to one calendar month. Month is the
// first day of that month.
type MonthSpend struct {
	Month time.Time
	Spend float64
}
