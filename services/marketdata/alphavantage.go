package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"
)

// AlphaVantageBaseURL is the Alpha Vantage REST endpoint.
const AlphaVantageBaseURL = "https://www.alphavantage.co"

// AlphaVantageTimeout is the per-request budget.
const AlphaVantageTimeout = 10 * time.Second

// ErrRateLimited marks the provider's free-tier throttle marker. The
// fallback chain treats it as "no data", not as an error.
var ErrRateLimited = errors.New("alpha vantage rate limited")

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("alpha vantage API key not configured")

// Candle is one intraday bar.
type Candle struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// SymbolMatch is one search hit.
type SymbolMatch struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// AlphaVantageClient talks to the Alpha Vantage REST API. All calls
// are single attempts; a rate-limit note degrades to the next source.
type AlphaVantageClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewAlphaVantageClient creates a client. An empty key leaves the
// client unconfigured; every call then returns ErrNotConfigured.
func NewAlphaVantageClient(apiKey string) *AlphaVantageClient {
	return NewAlphaVantageClientWith(apiKey, AlphaVantageBaseURL, &http.Client{Timeout: AlphaVantageTimeout})
}

// NewAlphaVantageClientWith creates a client against a custom base URL
// and HTTP client. Tests point this at an httptest server.
func NewAlphaVantageClientWith(apiKey, baseURL string, httpClient *http.Client) *AlphaVantageClient {
	return &AlphaVantageClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// Configured reports whether an API key is set.
func (c *AlphaVantageClient) Configured() bool {
	return c.apiKey != ""
}

// resolveAlphaVantageSymbol maps an internal symbol to the BSE-suffixed
// form Alpha Vantage serves for Indian equities. Indices are not
// available on the free tier.
func resolveAlphaVantageSymbol(symbol string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(symbol))
	switch key {
	case "NIFTY", "SENSEX", "BANKNIFTY":
		return "", false
	}
	return key + ".BSE", true
}

// fetch performs one GET and decodes the body, surfacing the provider
// rate-limit marker as ErrRateLimited.
func (c *AlphaVantageClient) fetch(ctx context.Context, query string, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	url := fmt.Sprintf("%s/query?%s&apikey=%s", c.baseURL, query, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("alpha vantage error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	// The free tier answers 200 with a "Note" or "Information" field
	// when throttled.
	var marker struct {
		Note        string `json:"Note"`
		Information string `json:"Information"`
	}
	if err := json.Unmarshal(body, &marker); err == nil {
		if marker.Note != "" || marker.Information != "" {
			return ErrRateLimited
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchGlobalQuote fetches a quote via the GLOBAL_QUOTE function.
func (c *AlphaVantageClient) FetchGlobalQuote(ctx context.Context, symbol string) (*Quote, error) {
	avSymbol, ok := resolveAlphaVantageSymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %s not served by alpha vantage", symbol)
	}

	var payload struct {
		GlobalQuote map[string]string `json:"Global Quote"`
	}
	query := fmt.Sprintf("function=GLOBAL_QUOTE&symbol=%s", avSymbol)
	if err := c.fetch(ctx, query, &payload); err != nil {
		return nil, err
	}
	if len(payload.GlobalQuote) == 0 {
		return nil, fmt.Errorf("empty quote for %s", avSymbol)
	}

	f := func(key string) float64 {
		v, _ := strconv.ParseFloat(strings.TrimSuffix(payload.GlobalQuote[key], "%"), 64)
		return v
	}

	return &Quote{
		Symbol:        strings.ToUpper(strings.TrimSpace(symbol)),
		Name:          DisplayName(symbol),
		Price:         f("05. price"),
		Change:        f("09. change"),
		ChangePercent: f("10. change percent"),
		Open:          f("02. open"),
		High:          f("03. high"),
		Low:           f("04. low"),
		PrevClose:     f("08. previous close"),
		Source:        "alphavantage",
		Timestamp:     c.now().Format(time.RFC3339),
	}, nil
}

// FetchIntraday fetches 5-minute bars via TIME_SERIES_INTRADAY,
// ordered oldest first.
func (c *AlphaVantageClient) FetchIntraday(ctx context.Context, symbol string) ([]Candle, error) {
	avSymbol, ok := resolveAlphaVantageSymbol(symbol)
	if !ok {
		return nil, fmt.Errorf("symbol %s not served by alpha vantage", symbol)
	}

	var payload struct {
		Series map[string]map[string]string `json:"Time Series (5min)"`
	}
	query := fmt.Sprintf("function=TIME_SERIES_INTRADAY&symbol=%s&interval=5min&outputsize=compact", avSymbol)
	if err := c.fetch(ctx, query, &payload); err != nil {
		return nil, err
	}
	if len(payload.Series) == 0 {
		return nil, fmt.Errorf("empty intraday series for %s", avSymbol)
	}

	candles := make([]Candle, 0, len(payload.Series))
	for ts, bar := range payload.Series {
		f := func(key string) float64 {
			v, _ := strconv.ParseFloat(bar[key], 64)
			return v
		}
		vol, _ := strconv.ParseInt(bar["5. volume"], 10, 64)
		candles = append(candles, Candle{
			Time:   ts,
			Open:   f("1. open"),
			High:   f("2. high"),
			Low:    f("3. low"),
			Close:  f("4. close"),
			Volume: vol,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time < candles[j].Time
	})
	return candles, nil
}

// Search looks up symbols via SYMBOL_SEARCH.
func (c *AlphaVantageClient) Search(ctx context.Context, keywords string) ([]SymbolMatch, error) {
	var payload struct {
		BestMatches []map[string]string `json:"bestMatches"`
	}
	query := fmt.Sprintf("function=SYMBOL_SEARCH&keywords=%s", strings.TrimSpace(keywords))
	if err := c.fetch(ctx, query, &payload); err != nil {
		return nil, err
	}

	matches := make([]SymbolMatch, 0, len(payload.BestMatches))
	for _, m := range payload.BestMatches {
		matches = append(matches, SymbolMatch{
			Symbol: m["1. symbol"],
			Name:   m["2. name"],
			Region: m["4. region"],
		})
	}
	return matches, nil
}
