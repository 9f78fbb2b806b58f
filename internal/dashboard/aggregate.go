// Package dashboard computes the aggregates served to the
// presentation layer: period filtering, grouping, funnel counts and
// the derived spend ratios. Everything here is a pure function over
// immutable record slices.
package dashboard

import (
	"sort"

	"adsdash/internal/ads"
	"adsdash/internal/core"
)

// GroupCount is one bucket of a grouping.
type GroupCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// FilterByPeriod keeps records whose timestamp is set and falls inside
// the period (inclusive, day granularity). Records without a timestamp
// are dropped, not errored.
func FilterByPeriod(records []core.LeadRecord, p core.Period) []core.LeadRecord {
	out := make([]core.LeadRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp == nil {
			continue
		}
		if p.Contains(*r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// FilterContractsByPeriod is FilterByPeriod for contract records.
func FilterContractsByPeriod(records []core.ContractRecord, p core.Period) []core.ContractRecord {
	out := make([]core.ContractRecord, 0, len(records))
	for _, r := range records {
		if r.Timestamp == nil {
			continue
		}
		if p.Contains(*r.Timestamp) {
			out = append(out, r)
		}
	}
	return out
}

// FilterByPlatform keeps records attributed to the given platform.
func FilterByPlatform(records []core.LeadRecord, platform core.Platform) []core.LeadRecord {
	out := make([]core.LeadRecord, 0, len(records))
	for _, r := range records {
		if r.Platform == platform {
			out = append(out, r)
		}
	}
	return out
}

// CountBy groups records by the key function and counts each bucket.
// Records with an empty key are skipped. The result is ordered
// ascending by count (the horizontal-bar ordering downstream expects),
// stable for equal counts.
func CountBy(records []core.LeadRecord, keyFn func(core.LeadRecord) string) []GroupCount {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		k := keyFn(r)
		if k == "" {
			continue
		}
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}
	out := make([]GroupCount, 0, len(order))
	for _, k := range order {
		out = append(out, GroupCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count < out[j].Count })
	return out
}

// Funnel counts four independently maintained stage record sets. The
// stages come from separate sheets with no shared identity, so no
// cross-filtering or subset check is applied.
func Funnel(leads, qualified, disqualified, converted []core.LeadRecord) core.FunnelSnapshot {
	return core.FunnelSnapshot{
		TotalLeads:   len(leads),
		Qualified:    len(qualified),
		Disqualified: len(disqualified),
		Converted:    len(converted),
	}
}

// ROAS is revenue over spend, 0 when spend is 0.
func ROAS(revenue, spend float64) float64 {
	if spend == 0 {
		return 0
	}
	return revenue / spend
}

// CostPerLead is spend over lead count, 0 when there are no leads.
func CostPerLead(spend float64, leads int64) float64 {
	if leads == 0 {
		return 0
	}
	return spend / float64(leads)
}

// ClickThroughRate is clicks over impressions as a percentage, 0 when
// there are no impressions.
func ClickThroughRate(clicks, impressions int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}

// MonthlyRollup merges leads, contract revenue and ad spend into one
// row per calendar month of the period.
//
// Meta spend arrives already keyed by month and is summed directly.
// Google spend is only available as a period total, so it is spread
// across the months proportionally to how many period days fall in
// each month. That is a deliberate approximation carried over from
// how the search platform reports.
func MonthlyRollup(leads []core.LeadRecord, contracts []core.ContractRecord,
	metaMonthly []ads.MonthSpend, googleTotal float64, p core.Period) []core.PeriodAggregate {

	leads = FilterByPeriod(leads, p)
	contracts = FilterContractsByPeriod(contracts, p)

	months := p.Months()
	byKey := make(map[string]*core.PeriodAggregate, len(months))
	out := make([]core.PeriodAggregate, len(months))
	for i, m := range months {
		out[i] = core.PeriodAggregate{Key: core.MonthKey(m), Label: core.MonthLabel(m)}
		byKey[out[i].Key] = &out[i]
	}

	for _, r := range leads {
		if agg, ok := byKey[core.MonthKey(*r.Timestamp)]; ok {
			agg.LeadCount++
		}
	}
	for _, r := range contracts {
		if agg, ok := byKey[core.MonthKey(*r.Timestamp)]; ok {
			agg.ContractCount++
			agg.Revenue += r.Amount
		}
	}
	for _, ms := range metaMonthly {
		if agg, ok := byKey[core.MonthKey(ms.Month)]; ok {
			agg.Spend += ms.Spend
		}
	}

	if totalDays := p.Days(); totalDays > 0 && googleTotal != 0 {
		for i, m := range months {
			share := float64(p.DaysInMonth(m)) / float64(totalDays)
			out[i].Spend += googleTotal * share
		}
	}

	for i := range out {
		out[i].ROAS = ROAS(out[i].Revenue, out[i].Spend)
	}
	return out
}

// CampaignTable converts a per-campaign breakdown into display rows
// with derived CPL and CTR, ordered ascending by spend.
func CampaignTable(stats []ads.CampaignStats) []core.CampaignAggregate {
	out := make([]core.CampaignAggregate, 0, len(stats))
	for _, s := range stats {
		out = append(out, core.CampaignAggregate{
			Name:        s.Name,
			Spend:       s.Spend,
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
			Leads:       s.Leads,
			CPL:         CostPerLead(s.Spend, s.Leads),
			CTR:         ClickThroughRate(s.Clicks, s.Impressions),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Spend < out[j].Spend })
	return out
}

// AdSetTable is CampaignTable for ad-set breakdowns.
func AdSetTable(stats []ads.AdSetStats) []core.CampaignAggregate {
	converted := make([]ads.CampaignStats, 0, len(stats))
	for _, s := range stats {
		converted = append(converted, ads.CampaignStats{
			Name:        s.Name,
			Spend:       s.Spend,
			Impressions: s.Impressions,
			Clicks:      s.Clicks,
			Leads:       s.Leads,
		})
	}
	return CampaignTable(converted)
}
