// Package googleads is a thin searchStream client for the Google Ads
// reporting API. Costs arrive in micro-units and are divided by 1e6.
// An unconfigured client answers every call with zeros.
package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"adsdash/internal/ads"
	"adsdash/internal/cache"
	"adsdash/internal/core"
)

const defaultBaseURL = "https://googleads.googleapis.com/v17"

// Config carries the Google Ads credentials. Missing fields leave the
// client unconfigured.
type Config struct {
	DeveloperToken string
	AccessToken    string
	CustomerID     string
	BaseURL        string
	Timeout        time.Duration
}

// Client fetches period-scoped campaign metrics for one customer.
type Client struct {
	httpc          *http.Client
	baseURL        string
	developerToken string
	accessToken    string
	customerID     string

	summaries *cache.TTLCache[ads.Summary]
	campaigns *cache.TTLCache[[]ads.CampaignStats]
}

// New builds a Client. Dashes in the customer id are stripped, as the
// API wants the bare digits.
func New(cfg Config, ttl time.Duration) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpc:          &http.Client{Timeout: timeout},
		baseURL:        baseURL,
		developerToken: strings.TrimSpace(cfg.DeveloperToken),
		accessToken:    strings.TrimSpace(cfg.AccessToken),
		customerID:     strings.ReplaceAll(strings.TrimSpace(cfg.CustomerID), "-", ""),
		summaries:      cache.New[ads.Summary](ttl),
		campaigns:      cache.New[[]ads.CampaignStats](ttl),
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.developerToken != "" && c.accessToken != "" && c.customerID != ""
}

// Caches returns the memo caches for cleanup registration.
func (c *Client) Caches() []cache.Cleaner {
	return []cache.Cleaner{c.summaries, c.campaigns}
}

type searchResult struct {
	Campaign struct {
		ID   json.Number `json:"id"`
		Name string      `json:"name"`
	} `json:"campaign"`
	Metrics struct {
		CostMicros  json.Number `json:"costMicros"`
		Impressions json.Number `json:"impressions"`
		Clicks      json.Number `json:"clicks"`
		Conversions json.Number `json:"conversions"`
	} `json:"metrics"`
}

type searchBatch struct {
	Results []searchResult `json:"results"`
}

// Summary returns account totals for the period: cost, impressions,
// clicks and conversions summed over every enabled campaign.
func (c *Client) Summary(ctx context.Context, p core.Period) (ads.Summary, error) {
	if !c.Configured() {
		return ads.Summary{}, nil
	}
	return c.summaries.GetOrFill(periodKey(p), func() (ads.Summary, error) {
		results, err := c.search(ctx, p)
		if err != nil {
			return ads.Summary{}, err
		}
		var s ads.Summary
		for _, r := range results {
			s.Spend += num(r.Metrics.CostMicros) / 1e6
			s.Impressions += int64(num(r.Metrics.Impressions))
			s.Clicks += int64(num(r.Metrics.Clicks))
			s.Leads += int64(num(r.Metrics.Conversions))
		}
		if s.Impressions > 0 {
			s.CTR = float64(s.Clicks) / float64(s.Impressions) * 100
		}
		if s.Clicks > 0 {
			s.CPC = s.Spend / float64(s.Clicks)
		}
		return s, nil
	})
}

// Campaigns returns the per-campaign breakdown, summed across the
// daily segments the API returns.
func (c *Client) Campaigns(ctx context.Context, p core.Period) ([]ads.CampaignStats, error) {
	if !c.Configured() {
		return nil, nil
	}
	return c.campaigns.GetOrFill(periodKey(p), func() ([]ads.CampaignStats, error) {
		results, err := c.search(ctx, p)
		if err != nil {
			return nil, err
		}
		byID := map[string]*ads.CampaignStats{}
		var order []string
		for _, r := range results {
			id := r.Campaign.ID.String()
			s, ok := byID[id]
			if !ok {
				s = &ads.CampaignStats{ID: id, Name: r.Campaign.Name}
				byID[id] = s
				order = append(order, id)
			}
			s.Spend += num(r.Metrics.CostMicros) / 1e6
			s.Impressions += int64(num(r.Metrics.Impressions))
			s.Clicks += int64(num(r.Metrics.Clicks))
			s.Leads += int64(num(r.Metrics.Conversions))
		}
		out := make([]ads.CampaignStats, 0, len(order))
		for _, id := range order {
			out = append(out, *byID[id])
		}
		return out, nil
	})
}

func (c *Client) search(ctx context.Context, p core.Period) ([]searchResult, error) {
	query := fmt.Sprintf(`
		SELECT
			campaign.id,
			campaign.name,
			metrics.cost_micros,
			metrics.impressions,
			metrics.clicks,
			metrics.conversions
		FROM campaign
		WHERE segments.date BETWEEN '%s' AND '%s'
			AND campaign.status = 'ENABLED'`,
		p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))

	payload, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/customers/%s/googleAds:searchStream", c.baseURL, c.customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("developer-token", c.developerToken)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("google ads api: %s", resp.Status)
	}

	var batches []searchBatch
	if err := json.Unmarshal(body, &batches); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	var results []searchResult
	for _, b := range batches {
		results = append(results, b.Results...)
	}
	return results, nil
}

func num(n json.Number) float64 {
	v, err := n.Float64()
	if err != nil {
		return 0
	}
	return v
}

func periodKey(p core.Period) string {
	return p.Start.Format("2006-01-02") + ".." + p.End.Format("2006-01-02")
}
