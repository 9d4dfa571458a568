package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FinnhubBaseURL is the Finnhub REST endpoint, used as the last live
// news tier and as the economic-calendar provider.
const FinnhubBaseURL = "https://finnhub.io/api/v1"

// CalendarEvent is one normalized economic-calendar row.
type CalendarEvent struct {
	Event    string  `json:"event"`
	Country  string  `json:"country"`
	Time     string  `json:"time"`
	Impact   string  `json:"impact"`
	Actual   float64 `json:"actual"`
	Estimate float64 `json:"estimate"`
	Previous float64 `json:"previous"`
	Unit     string  `json:"unit"`
}

// FinnhubClient serves market news and the economic calendar.
type FinnhubClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewFinnhubClient creates a Finnhub client. An empty key leaves the
// client unconfigured.
func NewFinnhubClient(apiKey string) *FinnhubClient {
	return NewFinnhubClientWith(apiKey, FinnhubBaseURL, &http.Client{Timeout: ProviderTimeout})
}

// NewFinnhubClientWith creates a client against a custom base URL and
// HTTP client.
func NewFinnhubClientWith(apiKey, baseURL string, httpClient *http.Client) *FinnhubClient {
	return &FinnhubClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient, now: time.Now}
}

// Configured reports whether an API key is set.
func (c *FinnhubClient) Configured() bool {
	return c.apiKey != ""
}

func (c *FinnhubClient) get(ctx context.Context, path string, out interface{}) error {
	if !c.Configured() {
		return fmt.Errorf("finnhub API key not configured")
	}

	url := fmt.Sprintf("%s%s&token=%s", c.baseURL, path, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("finnhub error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

type finnhubNewsItem struct {
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
}

// FetchMarketNews fetches general market news.
func (c *FinnhubClient) FetchMarketNews(ctx context.Context) ([]Article, error) {
	var payload []finnhubNewsItem
	if err := c.get(ctx, "/news?category=general", &payload); err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(payload))
	for _, item := range payload {
		articles = append(articles, Article{
			Title:       item.Headline,
			Summary:     item.Summary,
			URL:         item.URL,
			ImageURL:    item.Image,
			SourceName:  item.Source,
			Category:    Categorize(item.Headline),
			PublishedAt: time.Unix(item.Datetime, 0).Format(time.RFC3339),
		})
	}
	return articles, nil
}

type finnhubCalendarResponse struct {
	EconomicCalendar []struct {
		Event    string  `json:"event"`
		Country  string  `json:"country"`
		Time     string  `json:"time"`
		Impact   string  `json:"impact"`
		Actual   float64 `json:"actual"`
		Estimate float64 `json:"estimate"`
		Prev     float64 `json:"prev"`
		Unit     string  `json:"unit"`
	} `json:"economicCalendar"`
}

// FetchEconomicCalendar fetches upcoming economic events for a window
// around today.
func (c *FinnhubClient) FetchEconomicCalendar(ctx context.Context) ([]CalendarEvent, error) {
	from := c.now().Format("2006-01-02")
	to := c.now().AddDate(0, 0, 14).Format("2006-01-02")

	var payload finnhubCalendarResponse
	path := fmt.Sprintf("/calendar/economic?from=%s&to=%s", from, to)
	if err := c.get(ctx, path, &payload); err != nil {
		return nil, err
	}

	events := make([]CalendarEvent, 0, len(payload.EconomicCalendar))
	for _, item := range payload.EconomicCalendar {
		events = append(events, CalendarEvent{
			Event:    item.Event,
			Country:  item.Country,
			Time:     item.Time,
			Impact:   item.Impact,
			Actual:   item.Actual,
			Estimate: item.Estimate,
			Previous: item.Prev,
			Unit:     item.Unit,
		})
	}
	return events, nil
}
