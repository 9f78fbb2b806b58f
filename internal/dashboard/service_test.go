package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"adsdash/internal/ads"
	"adsdash/internal/core"
	"adsdash/internal/ingest"
	"adsdash/internal/sheets/memory"
)

type stubSocial struct {
	summary   ads.Summary
	campaigns []ads.CampaignStats
	adsets    []ads.AdSetStats
	monthly   []ads.MonthSpend
	err       error
}

func (s *stubSocial) Summary(context.Context, core.Period) (ads.Summary, error) {
	return s.summary, s.err
}
func (s *stubSocial) Campaigns(context.Context, core.Period) ([]ads.CampaignStats, error) {
	return s.campaigns, s.err
}
func (s *stubSocial) AdSets(context.Context, core.Period) ([]ads.AdSetStats, error) {
	return s.adsets, s.err
}
func (s *stubSocial) MonthlySpend(context.Context, core.Period) ([]ads.MonthSpend, error) {
	return s.monthly, s.err
}

type stubSearch struct {
	summary   ads.Summary
	campaigns []ads.CampaignStats
	err       error
}

func (s *stubSearch) Summary(context.Context, core.Period) (ads.Summary, error) {
	return s.summary, s.err
}
func (s *stubSearch) Campaigns(context.Context, core.Period) ([]ads.CampaignStats, error) {
	return s.campaigns, s.err
}

var leadHeader = []string{"DATA / HORA", "ORIGEM", "CAMPANHA", "CONJUNTO DE ANÚNCIOS"}

func testStore() *memory.Store {
	return memory.New(map[string]memory.Tab{
		"LEADS": {Header: leadHeader, Rows: [][]string{
			{"2025-08-05", "Facebook Ads", "FGTS", "Lookalike"},
			{"2025-08-10", "Facebook Ads", "FGTS", "Interesse"},
			{"2025-08-12", "Google Ads", "Trabalhista", ""},
			{"2025-06-01", "Facebook Ads", "FGTS", ""}, // outside period
		}},
		"LEADS QUALIFICADOS": {Header: leadHeader, Rows: [][]string{
			{"2025-08-06", "Facebook Ads", "FGTS", ""},
			{"2025-08-07", "Facebook Ads", "FGTS", ""},
		}},
		"LEADS DESQUALIFICADOS": {Header: leadHeader, Rows: [][]string{
			{"2025-08-08", "Google Ads", "Trabalhista", ""},
		}},
		"CONTRATOS FECHADOS": {
			Header: []string{"DATA / HORA", "NOME", "VALOR"},
			Rows: [][]string{
				{"2025-08-15", "Contrato 1", "R$ 3.500,00"},
				{"2025-08-18", "Contrato 2", "R$ 1.500,00"},
				{"2025-05-01", "Contrato antigo", "R$ 9.999,00"}, // outside period
			},
		},
	})
}

func testService(social SocialMetrics, search SearchMetrics) *Service {
	fetcher := ingest.NewFetcher(testStore(), time.Minute, slog.Default())
	return NewService(fetcher, social, search, DefaultTabs(), slog.Default())
}

func augustPeriod() core.Period {
	return core.NewPeriod(
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 31, 0, 0, 0, 0, time.UTC),
	)
}

func TestOverviewBlendsSheetAndAPI(t *testing.T) {
	social := &stubSocial{summary: ads.Summary{Spend: 1000, Clicks: 400, Impressions: 20000, Leads: 99}}
	search := &stubSearch{summary: ads.Summary{Spend: 500, Clicks: 100, Impressions: 5000, Leads: 50, CTR: 2}}
	svc := testService(social, search)

	o, err := svc.Overview(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}

	// Sheet rows beat the API conversion counts.
	if o.Meta.Leads != 2 {
		t.Errorf("meta leads = %d, want 2 from the sheet", o.Meta.Leads)
	}
	if o.Google.Leads != 1 {
		t.Errorf("google leads = %d, want 1 from the sheet", o.Google.Leads)
	}
	if o.TotalSpend != 1500 {
		t.Errorf("total spend = %v, want 1500", o.TotalSpend)
	}
	if o.Revenue != 5000 {
		t.Errorf("revenue = %v, want 5000", o.Revenue)
	}
	if o.ROAS != 5000.0/1500.0 {
		t.Errorf("ROAS = %v", o.ROAS)
	}
	if o.Meta.CPL != 500 {
		t.Errorf("meta CPL = %v, want 500", o.Meta.CPL)
	}
	if o.Meta.CTR != 2 {
		t.Errorf("meta CTR = %v, want 2", o.Meta.CTR)
	}
}

func TestOverviewFallsBackToAPILeads(t *testing.T) {
	social := &stubSocial{summary: ads.Summary{Leads: 42}}
	search := &stubSearch{}
	fetcher := ingest.NewFetcher(memory.New(map[string]memory.Tab{}), time.Minute, slog.Default())
	svc := NewService(fetcher, social, search, DefaultTabs(), slog.Default())

	o, err := svc.Overview(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	if o.Meta.Leads != 42 {
		t.Errorf("meta leads = %d, want API fallback 42", o.Meta.Leads)
	}
}

func TestOverviewDegradesOnAPIFailure(t *testing.T) {
	social := &stubSocial{err: errors.New("token expired")}
	search := &stubSearch{err: errors.New("unauthenticated")}
	svc := testService(social, search)

	o, err := svc.Overview(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	if o.TotalSpend != 0 {
		t.Errorf("spend = %v, want 0 after degradation", o.TotalSpend)
	}
	// Sheet data stays alive even when both APIs are down.
	if o.TotalLeads != 3 {
		t.Errorf("total leads = %d, want 3", o.TotalLeads)
	}
	if o.Revenue != 5000 {
		t.Errorf("revenue = %v, want 5000", o.Revenue)
	}
	if o.ROAS != 0 {
		t.Errorf("ROAS = %v, want 0 with zero spend", o.ROAS)
	}
}

func TestFunnelCounts(t *testing.T) {
	svc := testService(&stubSocial{}, &stubSearch{})

	f, err := svc.Funnel(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	want := core.FunnelSnapshot{TotalLeads: 3, Qualified: 2, Disqualified: 1, Converted: 2}
	if f != want {
		t.Errorf("funnel = %+v, want %+v", f, want)
	}
}

func TestMonthly(t *testing.T) {
	social := &stubSocial{monthly: []ads.MonthSpend{
		{Month: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Spend: 400},
	}}
	search := &stubSearch{summary: ads.Summary{Spend: 600}}
	svc := testService(social, search)

	months, err := svc.Monthly(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 1 {
		t.Fatalf("got %d months, want 1", len(months))
	}
	m := months[0]
	if m.Key != "2025-08" {
		t.Errorf("month key = %q", m.Key)
	}
	if m.LeadCount != 3 || m.ContractCount != 2 {
		t.Errorf("counts = %d leads, %d contracts", m.LeadCount, m.ContractCount)
	}
	if m.Spend != 1000 {
		t.Errorf("spend = %v, want 400 meta + 600 google", m.Spend)
	}
	if m.ROAS != 5 {
		t.Errorf("ROAS = %v, want 5000/1000", m.ROAS)
	}
}

func TestCampaignsMergeAndFilter(t *testing.T) {
	social := &stubSocial{campaigns: []ads.CampaignStats{
		{Name: "FGTS", Spend: 300, Impressions: 1000, Clicks: 50, Leads: 10},
	}}
	search := &stubSearch{campaigns: []ads.CampaignStats{
		{Name: "Trabalhista", Spend: 100, Impressions: 500, Clicks: 20, Leads: 4},
	}}
	svc := testService(social, search)

	all, err := svc.Campaigns(context.Background(), augustPeriod(), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d campaigns, want 2", len(all))
	}
	if all[0].Name != "Trabalhista" {
		t.Errorf("expected ascending spend order, got %q first", all[0].Name)
	}
	if all[1].CPL != 30 {
		t.Errorf("CPL = %v, want 30", all[1].CPL)
	}

	metaOnly, err := svc.Campaigns(context.Background(), augustPeriod(), core.MetaAds)
	if err != nil {
		t.Fatal(err)
	}
	if len(metaOnly) != 1 || metaOnly[0].Name != "FGTS" {
		t.Errorf("platform filter failed: %+v", metaOnly)
	}
}

func TestLeadsGroupings(t *testing.T) {
	svc := testService(&stubSocial{}, &stubSearch{})

	v, err := svc.Leads(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Records) != 3 {
		t.Fatalf("got %d records, want 3", len(v.Records))
	}
	if len(v.ByPlatform) != 2 {
		t.Fatalf("got %d platform groups, want 2", len(v.ByPlatform))
	}
	if v.ByPlatform[0].Key != string(core.GoogleAds) || v.ByPlatform[0].Count != 1 {
		t.Errorf("first platform group = %+v, want Google Ads with 1", v.ByPlatform[0])
	}
	if v.ByCampaign[len(v.ByCampaign)-1].Key != "FGTS" {
		t.Errorf("largest campaign group = %+v", v.ByCampaign[len(v.ByCampaign)-1])
	}
}

func TestAdSets(t *testing.T) {
	social := &stubSocial{adsets: []ads.AdSetStats{
		{Name: "Lookalike", Campaign: "FGTS", Spend: 50, Impressions: 2000, Clicks: 100, Leads: 5},
	}}
	svc := testService(social, &stubSearch{})

	rows, err := svc.AdSets(context.Background(), augustPeriod())
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].CPL != 10 || rows[0].CTR != 5 {
		t.Errorf("derived metrics: %+v", rows[0])
	}
}
