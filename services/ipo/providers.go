package ipo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// Provider endpoints and budget.
const (
	IPOAlertsBaseURL = "https://api.ipoalerts.in"
	FinnhubBaseURL   = "https://finnhub.io/api/v1"
	ProviderTimeout  = 10 * time.Second
)

// ipoCategories are the status buckets fetched in parallel from the
// primary provider and merged.
var ipoCategories = []string{"upcoming", "open", "listed"}

// IPOAlertsClient is the primary IPO provider.
type IPOAlertsClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewIPOAlertsClient creates the primary provider client.
func NewIPOAlertsClient() *IPOAlertsClient {
	return NewIPOAlertsClientWith(IPOAlertsBaseURL, &http.Client{Timeout: ProviderTimeout})
}

// NewIPOAlertsClientWith creates a client against a custom base URL
// and HTTP client. Tests point this at an httptest server.
func NewIPOAlertsClientWith(baseURL string, httpClient *http.Client) *IPOAlertsClient {
	return &IPOAlertsClient{baseURL: baseURL, httpClient: httpClient, now: time.Now}
}

// ipoAlertsItem tolerates both a structured price band object and a
// free-text "180-195" string.
type ipoAlertsItem struct {
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Exchange     string          `json:"exchange"`
	Status       string          `json:"status"`
	PriceBand    json.RawMessage `json:"priceBand"`
	LotSize      int             `json:"lotSize"`
	OpenDate     string          `json:"startDate"`
	CloseDate    string          `json:"endDate"`
	ListingDate  string          `json:"listingDate"`
	GMP          float64         `json:"gmp"`
	Subscription struct {
		QIB    float64 `json:"qib"`
		HNI    float64 `json:"hni"`
		Retail float64 `json:"retail"`
	} `json:"subscription"`
}

type ipoAlertsResponse struct {
	IPOs []ipoAlertsItem `json:"ipos"`
}

// FetchAll fetches every category in parallel and merges the results.
// A category failure is tolerated as long as at least one category
// answered; total failure returns the last error.
func (c *IPOAlertsClient) FetchAll(ctx context.Context) ([]IPO, error) {
	var mu sync.Mutex
	var wg sync.WaitGroup
	merged := make([]IPO, 0)
	var lastErr error

	for _, category := range ipoCategories {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			ipos, err := c.fetchCategory(ctx, category)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lastErr = err
				return
			}
			merged = append(merged, ipos...)
		}(category)
	}
	wg.Wait()

	if len(merged) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, nil
	}
	return merged, nil
}

func (c *IPOAlertsClient) fetchCategory(ctx context.Context, category string) ([]IPO, error) {
	url := fmt.Sprintf("%s/ipos?status=%s", c.baseURL, category)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ipoalerts error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload ipoAlertsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	ipos := make([]IPO, 0, len(payload.IPOs))
	for _, item := range payload.IPOs {
		ipos = append(ipos, c.normalize(item))
	}
	return ipos, nil
}

func (c *IPOAlertsClient) normalize(item ipoAlertsItem) IPO {
	return IPO{
		ID:          MakeID(item.Symbol, item.Name),
		Name:        item.Name,
		Symbol:      item.Symbol,
		Exchange:    item.Exchange,
		Status:      NormalizeStatus(item.Status),
		PriceBand:   decodePriceBand(item.PriceBand),
		LotSize:     item.LotSize,
		OpenDate:    NormalizeDate(item.OpenDate, c.now),
		CloseDate:   NormalizeDate(item.CloseDate, c.now),
		ListingDate: NormalizeDate(item.ListingDate, c.now),
		GMP:         item.GMP,
		Subscription: Subscription{
			QIB:    item.Subscription.QIB,
			HNI:    item.Subscription.HNI,
			Retail: item.Subscription.Retail,
		},
	}
}

// decodePriceBand accepts either {"min":180,"max":195} or "180-195".
func decodePriceBand(raw json.RawMessage) PriceBand {
	if len(raw) == 0 {
		return PriceBand{}
	}

	var structured PriceBand
	if err := json.Unmarshal(raw, &structured); err == nil && (structured.Min != 0 || structured.Max != 0) {
		return structured
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return ParsePriceBand(text)
	}
	return PriceBand{}
}

// FinnhubIPOClient is the secondary provider, used when the primary
// answers nothing.
type FinnhubIPOClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewFinnhubIPOClient creates the secondary provider client. An empty
// key leaves the client unconfigured.
func NewFinnhubIPOClient(apiKey string) *FinnhubIPOClient {
	return NewFinnhubIPOClientWith(apiKey, FinnhubBaseURL, &http.Client{Timeout: ProviderTimeout})
}

// NewFinnhubIPOClientWith creates a client against a custom base URL
// and HTTP client.
func NewFinnhubIPOClientWith(apiKey, baseURL string, httpClient *http.Client) *FinnhubIPOClient {
	return &FinnhubIPOClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient, now: time.Now}
}

// Configured reports whether an API key is set.
func (c *FinnhubIPOClient) Configured() bool {
	return c.apiKey != ""
}

type finnhubIPOResponse struct {
	IPOCalendar []struct {
		Date     string  `json:"date"`
		Exchange string  `json:"exchange"`
		Name     string  `json:"name"`
		Price    string  `json:"price"`
		Shares   float64 `json:"numberOfShares"`
		Status   string  `json:"status"`
		Symbol   string  `json:"symbol"`
	} `json:"ipoCalendar"`
}

// FetchCalendar fetches the IPO calendar for a window around today.
func (c *FinnhubIPOClient) FetchCalendar(ctx context.Context) ([]IPO, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("finnhub API key not configured")
	}

	from := c.now().AddDate(0, -1, 0).Format("2006-01-02")
	to := c.now().AddDate(0, 1, 0).Format("2006-01-02")
	url := fmt.Sprintf("%s/calendar/ipo?from=%s&to=%s&token=%s", c.baseURL, from, to, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("finnhub error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload finnhubIPOResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	ipos := make([]IPO, 0, len(payload.IPOCalendar))
	for _, item := range payload.IPOCalendar {
		ipos = append(ipos, IPO{
			ID:          MakeID(item.Symbol, item.Name),
			Name:        item.Name,
			Symbol:      item.Symbol,
			Exchange:    item.Exchange,
			Status:      NormalizeStatus(item.Status),
			PriceBand:   ParsePriceBand(item.Price),
			OpenDate:    NormalizeDate(item.Date, c.now),
			CloseDate:   NormalizeDate(item.Date, c.now),
			ListingDate: NormalizeDate(item.Date, c.now),
		})
	}
	return ipos, nil
}
