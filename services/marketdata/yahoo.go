package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// YahooBaseURL is the public chart endpoint. No API key required.
const YahooBaseURL = "https://query1.finance.yahoo.com"

// YahooTimeout is the per-request budget. A single attempt, no retry.
const YahooTimeout = 5 * time.Second

// Quote is the normalized quote shape served to consumers regardless
// of which provider produced it.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	PrevClose     float64 `json:"prev_close"`
	Source        string  `json:"source"`
	Timestamp     string  `json:"timestamp"`
}

// YahooClient fetches quotes from the Yahoo chart endpoint.
type YahooClient struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewYahooClient creates a Yahoo client with the default 5s timeout.
func NewYahooClient() *YahooClient {
	return NewYahooClientWith(YahooBaseURL, &http.Client{Timeout: YahooTimeout})
}

// NewYahooClientWith creates a client against a custom base URL and
// HTTP client. Tests point this at an httptest server.
func NewYahooClientWith(baseURL string, httpClient *http.Client) *YahooClient {
	return &YahooClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string  `json:"symbol"`
				RegularMarketPrice   float64 `json:"regularMarketPrice"`
				PreviousClose        float64 `json:"previousClose"`
				ChartPreviousClose   float64 `json:"chartPreviousClose"`
				RegularMarketDayHigh float64 `json:"regularMarketDayHigh"`
				RegularMarketDayLow  float64 `json:"regularMarketDayLow"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Open []float64 `json:"open"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

// FetchQuote fetches the latest quote for an internal symbol. The
// symbol is resolved through the symbol table; unknown symbols get the
// default NSE suffix.
func (c *YahooClient) FetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	yahooSymbol := ResolveYahooSymbol(symbol)
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", c.baseURL, yahooSymbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("yahoo API error (status %d): %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chart yahooChartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("no chart result for %s", yahooSymbol)
	}

	meta := chart.Chart.Result[0].Meta
	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}

	change := meta.RegularMarketPrice - prevClose
	changePercent := 0.0
	if prevClose != 0 {
		changePercent = change / prevClose * 100
	}

	open := 0.0
	if q := chart.Chart.Result[0].Indicators.Quote; len(q) > 0 && len(q[0].Open) > 0 {
		open = q[0].Open[0]
	}

	return &Quote{
		Symbol:        symbol,
		Name:          DisplayName(symbol),
		Price:         meta.RegularMarketPrice,
		Change:        change,
		ChangePercent: changePercent,
		Open:          open,
		High:          meta.RegularMarketDayHigh,
		Low:           meta.RegularMarketDayLow,
		PrevClose:     prevClose,
		Source:        "yahoo",
		Timestamp:     c.now().Format(time.RFC3339),
	}, nil
}
