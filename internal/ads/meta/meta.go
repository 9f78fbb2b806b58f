// Package meta is the Meta Graph API insights client. All fetches are
// memoized for the standard TTL and degrade to zero values when the
// account is unconfigured.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"adsdash/internal/ads"
	"adsdash/internal/cache"
	"adsdash/internal/core"
)

const defaultBaseURL = "https://graph.facebook.com/v21.0"

// leadActionTypes are the Graph API action types counted as leads.
var leadActionTypes = map[string]bool{
	"lead":                             true,
	"onsite_conversion.lead_grouped":   true,
	"offsite_conversion.fb_pixel_lead": true,
}

// Config carries the Meta Ads credentials. An empty token or account
// id leaves the client unconfigured; every call then returns zeros
// without touching the network.
type Config struct {
	AccessToken string
	AccountID   string
	BaseURL     string
	Timeout     time.Duration
}

// Client fetches period-scoped insights for one ad account.
type Client struct {
	httpc     *http.Client
	baseURL   string
	token     string
	accountID string

	summaries *cache.TTLCache[ads.Summary]
	campaigns *cache.TTLCache[[]ads.CampaignStats]
	adsets    *cache.TTLCache[[]ads.AdSetStats]
	monthly   *cache.TTLCache[[]ads.MonthSpend]
}

// New builds a Client. The account id is normalized to the act_ prefix
// the insights endpoint expects.
func New(cfg Config, ttl time.Duration) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	accountID := strings.TrimSpace(cfg.AccountID)
	if accountID != "" && !strings.HasPrefix(accountID, "act_") {
		accountID = "act_" + accountID
	}
	return &Client{
		httpc:     &http.Client{Timeout: timeout},
		baseURL:   baseURL,
		token:     strings.TrimSpace(cfg.AccessToken),
		accountID: accountID,
		summaries: cache.New[ads.Summary](ttl),
		campaigns: cache.New[[]ads.CampaignStats](ttl),
		adsets:    cache.New[[]ads.AdSetStats](ttl),
		monthly:   cache.New[[]ads.MonthSpend](ttl),
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.token != "" && c.accountID != ""
}

// Caches returns the memo caches for cleanup registration.
func (c *Client) Caches() []cache.Cleaner {
	return []cache.Cleaner{c.summaries, c.campaigns, c.adsets, c.monthly}
}

// insightRow is one entry of the insights "data" array. Numeric fields
// arrive as strings.
type insightRow struct {
	CampaignName string       `json:"campaign_name"`
	CampaignID   string       `json:"campaign_id"`
	AdSetName    string       `json:"adset_name"`
	Spend        string       `json:"spend"`
	Impressions  string       `json:"impressions"`
	Clicks       string       `json:"clicks"`
	Reach        string       `json:"reach"`
	CTR          string       `json:"ctr"`
	CPC          string       `json:"cpc"`
	DateStart    string       `json:"date_start"`
	Actions      []actionItem `json:"actions"`
}

type actionItem struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

type insightsResponse struct {
	Data  []insightRow `json:"data"`
	Error *apiError    `json:"error"`
}

type apiError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Summary returns the account totals for the period.
func (c *Client) Summary(ctx context.Context, p core.Period) (ads.Summary, error) {
	if !c.Configured() {
		return ads.Summary{}, nil
	}
	return c.summaries.GetOrFill(periodKey(p), func() (ads.Summary, error) {
		rows, err := c.insights(ctx, p, url.Values{
			"fields": {"spend,impressions,clicks,reach,actions,ctr,cpc"},
		})
		if err != nil {
			return ads.Summary{}, err
		}
		if len(rows) == 0 {
			return ads.Summary{}, nil
		}
		r := rows[0]
		return ads.Summary{
			Spend:       atof(r.Spend),
			Impressions: atoi(r.Impressions),
			Clicks:      atoi(r.Clicks),
			Reach:       atoi(r.Reach),
			Leads:       leadCount(r.Actions),
			CTR:         atof(r.CTR),
			CPC:         atof(r.CPC),
		}, nil
	})
}

// Campaigns returns the per-campaign breakdown, summed across the
// daily rows the API returns per campaign.
func (c *Client) Campaigns(ctx context.Context, p core.Period) ([]ads.CampaignStats, error) {
	if !c.Configured() {
		return nil, nil
	}
	return c.campaigns.GetOrFill(periodKey(p), func() ([]ads.CampaignStats, error) {
		rows, err := c.insights(ctx, p, url.Values{
			"level":          {"campaign"},
			"fields":         {"campaign_name,campaign_id,spend,impressions,clicks,actions"},
			"time_increment": {"1"},
			"limit":          {"500"},
		})
		if err != nil {
			return nil, err
		}
		byID := map[string]*ads.CampaignStats{}
		var order []string
		for _, r := range rows {
			s, ok := byID[r.CampaignID]
			if !ok {
				s = &ads.CampaignStats{ID: r.CampaignID, Name: r.CampaignName}
				byID[r.CampaignID] = s
				order = append(order, r.CampaignID)
			}
			s.Spend += atof(r.Spend)
			s.Impressions += atoi(r.Impressions)
			s.Clicks += atoi(r.Clicks)
			s.Leads += leadCount(r.Actions)
		}
		out := make([]ads.CampaignStats, 0, len(order))
		for _, id := range order {
			out = append(out, *byID[id])
		}
		return out, nil
	})
}

// AdSets returns the per-ad-set breakdown.
func (c *Client) AdSets(ctx context.Context, p core.Period) ([]ads.AdSetStats, error) {
	if !c.Configured() {
		return nil, nil
	}
	return c.adsets.GetOrFill(periodKey(p), func() ([]ads.AdSetStats, error) {
		rows, err := c.insights(ctx, p, url.Values{
			"level":  {"adset"},
			"fields": {"adset_name,campaign_name,spend,impressions,clicks,actions"},
			"limit":  {"500"},
		})
		if err != nil {
			return nil, err
		}
		out := make([]ads.AdSetStats, 0, len(rows))
		for _, r := range rows {
			out = append(out, ads.AdSetStats{
				Name:        r.AdSetName,
				Campaign:    r.CampaignName,
				Spend:       atof(r.Spend),
				Impressions: atoi(r.Impressions),
				Clicks:      atoi(r.Clicks),
				Leads:       leadCount(r.Actions),
			})
		}
		return out, nil
	})
}

// MonthlySpend returns spend per calendar month inside the period,
// using the API's monthly time increment.
func (c *Client) MonthlySpend(ctx context.Context, p core.Period) ([]ads.MonthSpend, error) {
	if !c.Configured() {
		return nil, nil
	}
	return c.monthly.GetOrFill(periodKey(p), func() ([]ads.MonthSpend, error) {
		rows, err := c.insights(ctx, p, url.Values{
			"fields":         {"spend"},
			"time_increment": {"monthly"},
		})
		if err != nil {
			return nil, err
		}
		byMonth := map[string]float64{}
		var order []time.Time
		for _, r := range rows {
			start, ok := core.ParseDate(r.DateStart)
			if !ok {
				continue
			}
			month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
			key := core.MonthKey(month)
			if _, seen := byMonth[key]; !seen {
				order = append(order, month)
			}
			byMonth[key] += atof(r.Spend)
		}
		out := make([]ads.MonthSpend, 0, len(order))
		for _, m := range order {
			out = append(out, ads.MonthSpend{Month: m, Spend: byMonth[core.MonthKey(m)]})
		}
		return out, nil
	})
}

func (c *Client) insights(ctx context.Context, p core.Period, params url.Values) ([]insightRow, error) {
	params.Set("access_token", c.token)
	params.Set("time_range", fmt.Sprintf(`{"since":%q,"until":%q}`,
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02")))

	u := fmt.Sprintf("%s/%s/insights?%s", c.baseURL, c.accountID, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	var parsed insightsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("meta api error %d: %s", parsed.Error.Code, parsed.Error.Message)
	}
	return parsed.Data, nil
}

func leadCount(actions []actionItem) int64 {
	var n int64
	for _, a := range actions {
		if leadActionTypes[a.ActionType] {
			n += atoi(a.Value)
		}
	}
	return n
}

func periodKey(p core.Period) string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}

func atof(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func atoi(s string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
