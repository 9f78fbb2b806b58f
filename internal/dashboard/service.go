package dashboard

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"adsdash/internal/ads"
	"adsdash/internal/core"
	"adsdash/internal/ingest"
)

// SocialMetrics is the Meta Ads surface the service consumes.
type SocialMetrics interface {
	Summary(ctx context.Context, p core.Period) (ads.Summary, error)
	Campaigns(ctx context.Context, p core.Period) ([]ads.CampaignStats, error)
	AdSets(ctx context.Context, p core.Period) ([]ads.AdSetStats, error)
	MonthlySpend(ctx context.Context, p core.Period) ([]ads.MonthSpend, error)
}

// SearchMetrics is the Google Ads surface the service consumes.
type SearchMetrics interface {
	Summary(ctx context.Context, p core.Period) (ads.Summary, error)
	Campaigns(ctx context.Context, p core.Period) ([]ads.CampaignStats, error)
}

// Tabs lists the candidate tab names per funnel stage, tried in order.
type Tabs struct {
	Leads        []string
	Qualified    []string
	Disqualified []string
	Converted    []string
}

// DefaultTabs matches the tab names the operation sheets use.
func DefaultTabs() Tabs {
	return Tabs{
		Leads:        []string{"LEADS", "Leads", "leads"},
		Qualified:    []string{"LEADS QUALIFICADOS", "QUALIFICADOS"},
		Disqualified: []string{"LEADS DESQUALIFICADOS", "DESQUALIFICADOS"},
		Converted:    []string{"CONTRATOS FECHADOS", "CONTRATOS"},
	}
}

// PlatformOverview is one platform column of the overview response.
type PlatformOverview struct {
	Platform core.Platform `json:"platform"`
	Spend    float64       `json:"spend"`
	Leads    int64         `json:"leads"`
	Clicks   int64         `json:"clicks"`
	CPL      float64       `json:"cpl"`
	CTR      float64       `json:"ctr"`
	ConvRate float64       `json:"conversion_rate"`
}

// Overview is the headline response: per-platform cards plus the
// blended totals.
type Overview struct {
	Meta       PlatformOverview `json:"meta"`
	Google     PlatformOverview `json:"google"`
	TotalSpend float64          `json:"total_spend"`
	TotalLeads int64            `json:"total_leads"`
	Revenue    float64          `json:"revenue"`
	ROAS       float64          `json:"roas"`
}

// LeadsView is the period-filtered lead listing with its groupings.
type LeadsView struct {
	Records    []core.LeadRecord `json:"records"`
	ByPlatform []GroupCount      `json:"by_platform"`
	ByCampaign []GroupCount      `json:"by_campaign"`
	ByAdSet    []GroupCount      `json:"by_ad_set"`
}

// Service orchestrates the sheet fetcher and the two ad platform
// clients. Collaborator failures are logged and degrade to zeros so a
// broken token never blanks the whole dashboard.
type Service struct {
	fetcher *ingest.Fetcher
	meta    SocialMetrics
	google  SearchMetrics
	tabs    Tabs
	log     *slog.Logger
}

// NewService wires the service. A nil logger falls back to the default.
func NewService(fetcher *ingest.Fetcher, meta SocialMetrics, google SearchMetrics, tabs Tabs, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{fetcher: fetcher, meta: meta, google: google, tabs: tabs, log: log}
}

// Overview fetches both platform summaries and the sheet stages
// concurrently and blends them into the headline numbers.
//
// Sheet lead counts win over API conversion counts when the sheet has
// rows for the platform; the API figure is the fallback for platforms
// the capture sheet does not track.
func (s *Service) Overview(ctx context.Context, p core.Period) (Overview, error) {
	var (
		metaSum   ads.Summary
		googleSum ads.Summary
		leads     []core.LeadRecord
		contracts []core.ContractRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metaSum = s.metaSummary(gctx, p)
		return nil
	})
	g.Go(func() error {
		googleSum = s.googleSummary(gctx, p)
		return nil
	})
	g.Go(func() error {
		leads = FilterByPeriod(s.fetcher.LeadTable(gctx, s.tabs.Leads...), p)
		return nil
	})
	g.Go(func() error {
		contracts = FilterContractsByPeriod(s.fetcher.ContractTable(gctx, s.tabs.Converted...), p)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	metaLeads := int64(len(FilterByPlatform(leads, core.MetaAds)))
	if metaLeads == 0 {
		metaLeads = metaSum.Leads
	}
	googleLeads := int64(len(FilterByPlatform(leads, core.GoogleAds)))
	if googleLeads == 0 {
		googleLeads = googleSum.Leads
	}

	var revenue float64
	for _, c := range contracts {
		revenue += c.Amount
	}

	o := Overview{
		Meta:       platformOverview(core.MetaAds, metaSum, metaLeads),
		Google:     platformOverview(core.GoogleAds, googleSum, googleLeads),
		TotalSpend: metaSum.Spend + googleSum.Spend,
		TotalLeads: metaLeads + googleLeads,
		Revenue:    revenue,
	}
	o.ROAS = ROAS(revenue, o.TotalSpend)
	return o, nil
}

// Funnel fetches the four stage tabs concurrently and counts the rows
// that fall inside the period.
func (s *Service) Funnel(ctx context.Context, p core.Period) (core.FunnelSnapshot, error) {
	var leads, qualified, disqualified, converted []core.LeadRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leads = FilterByPeriod(s.fetcher.LeadTable(gctx, s.tabs.Leads...), p)
		return nil
	})
	g.Go(func() error {
		qualified = FilterByPeriod(s.fetcher.LeadTable(gctx, s.tabs.Qualified...), p)
		return nil
	})
	g.Go(func() error {
		disqualified = FilterByPeriod(s.fetcher.LeadTable(gctx, s.tabs.Disqualified...), p)
		return nil
	})
	g.Go(func() error {
		converted = FilterByPeriod(s.fetcher.LeadTable(gctx, s.tabs.Converted...), p)
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.FunnelSnapshot{}, err
	}
	return Funnel(leads, qualified, disqualified, converted), nil
}

// Monthly builds the month-by-month rollup of leads, revenue and spend.
func (s *Service) Monthly(ctx context.Context, p core.Period) ([]core.PeriodAggregate, error) {
	var (
		leads       []core.LeadRecord
		contracts   []core.ContractRecord
		metaMonthly []ads.MonthSpend
		googleTotal float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		leads = s.fetcher.LeadTable(gctx, s.tabs.Leads...)
		return nil
	})
	g.Go(func() error {
		contracts = s.fetcher.ContractTable(gctx, s.tabs.Converted...)
		return nil
	})
	g.Go(func() error {
		monthly, err := s.meta.MonthlySpend(gctx, p)
		if err != nil {
			s.log.WarnContext(gctx, "meta monthly spend unavailable", "error", err)
			return nil
		}
		metaMonthly = monthly
		return nil
	})
	g.Go(func() error {
		googleTotal = s.googleSummary(gctx, p).Spend
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return MonthlyRollup(leads, contracts, metaMonthly, googleTotal, p), nil
}

// Campaigns returns the campaign table for one platform, or both
// platforms merged when platform is empty.
func (s *Service) Campaigns(ctx context.Context, p core.Period, platform core.Platform) ([]core.CampaignAggregate, error) {
	var metaStats, googleStats []ads.CampaignStats

	g, gctx := errgroup.WithContext(ctx)
	if platform == "" || platform == core.MetaAds {
		g.Go(func() error {
			stats, err := s.meta.Campaigns(gctx, p)
			if err != nil {
				s.log.WarnContext(gctx, "meta campaigns unavailable", "error", err)
				return nil
			}
			metaStats = stats
			return nil
		})
	}
	if platform == "" || platform == core.GoogleAds {
		g.Go(func() error {
			stats, err := s.google.Campaigns(gctx, p)
			if err != nil {
				s.log.WarnContext(gctx, "google campaigns unavailable", "error", err)
				return nil
			}
			googleStats = stats
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return CampaignTable(append(metaStats, googleStats...)), nil
}

// AdSets returns the Meta ad-set table. Google has no equivalent
// breakdown here, so the platform argument is fixed.
func (s *Service) AdSets(ctx context.Context, p core.Period) ([]core.CampaignAggregate, error) {
	stats, err := s.meta.AdSets(ctx, p)
	if err != nil {
		s.log.WarnContext(ctx, "meta ad sets unavailable", "error", err)
		return []core.CampaignAggregate{}, nil
	}
	return AdSetTable(stats), nil
}

// Leads returns the period-filtered lead rows with their groupings.
func (s *Service) Leads(ctx context.Context, p core.Period) (LeadsView, error) {
	records := FilterByPeriod(s.fetcher.LeadTable(ctx, s.tabs.Leads...), p)
	return LeadsView{
		Records:    records,
		ByPlatform: CountBy(records, func(r core.LeadRecord) string { return string(r.Platform) }),
		ByCampaign: CountBy(records, func(r core.LeadRecord) string { return r.Campaign }),
		ByAdSet:    CountBy(records, func(r core.LeadRecord) string { return r.AdSet }),
	}, nil
}

func (s *Service) metaSummary(ctx context.Context, p core.Period) ads.Summary {
	sum, err := s.meta.Summary(ctx, p)
	if err != nil {
		s.log.WarnContext(ctx, "meta summary unavailable", "error", err)
		return ads.Summary{}
	}
	return sum
}

func (s *Service) googleSummary(ctx context.Context, p core.Period) ads.Summary {
	sum, err := s.google.Summary(ctx, p)
	if err != nil {
		s.log.WarnContext(ctx, "google summary unavailable", "error", err)
		return ads.Summary{}
	}
	return sum
}

func platformOverview(platform core.Platform, sum ads.Summary, leads int64) PlatformOverview {
	o := PlatformOverview{
		Platform: platform,
		Spend:    sum.Spend,
		Leads:    leads,
		Clicks:   sum.Clicks,
		CPL:      CostPerLead(sum.Spend, leads),
		CTR:      sum.CTR,
	}
	if sum.CTR == 0 {
		o.CTR = ClickThroughRate(sum.Clicks, sum.Impressions)
	}
	if sum.Clicks > 0 {
		o.ConvRate = float64(leads) / float64(sum.Clicks) * 100
	}
	return o
}
