package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yahooChartBody = `{
	"chart": {
		"result": [
			{
				"meta": {
					"symbol": "RELIANCE.NS",
					"regularMarketPrice": 110,
					"previousClose": 100,
					"regularMarketDayHigh": 112.5,
					"regularMarketDayLow": 99.25
				},
				"indicators": {
					"quote": [{"open": [101.5, 102.0]}]
				}
			}
		]
	}
}`

func TestYahooFetchQuote(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	client := NewYahooClientWith(srv.URL, srv.Client())
	quote, err := client.FetchQuote(context.Background(), "RELIANCE")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/RELIANCE.NS", requestedPath)
	assert.Equal(t, "RELIANCE", quote.Symbol)
	assert.Equal(t, 110.0, quote.Price)
	assert.Equal(t, 10.0, quote.Change)
	assert.InDelta(t, 10.0, quote.ChangePercent, 0.0001)
	assert.Equal(t, 101.5, quote.Open)
	assert.Equal(t, 112.5, quote.High)
	assert.Equal(t, 99.25, quote.Low)
	assert.Equal(t, 100.0, quote.PrevClose)
	assert.Equal(t, "yahoo", quote.Source)
	assert.NotEmpty(t, quote.Timestamp)
}

func TestYahooFetchQuoteChartPreviousCloseFallback(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"symbol":"NIFTY","regularMarketPrice":24600,"previousClose":0,"chartPreviousClose":24500}}]}}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewYahooClientWith(srv.URL, srv.Client())
	quote, err := client.FetchQuote(context.Background(), "NIFTY")
	require.NoError(t, err)

	assert.Equal(t, 24500.0, quote.PrevClose)
	assert.Equal(t, 100.0, quote.Change)
}

func TestYahooFetchQuoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{"upstream 500", http.StatusInternalServerError, "boom", "status 500"},
		{"empty result", http.StatusOK, `{"chart":{"result":[]}}`, "no chart result"},
		{"malformed JSON", http.StatusOK, `{"chart":`, "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewYahooClientWith(srv.URL, srv.Client())
			_, err := client.FetchQuote(context.Background(), "RELIANCE")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}

func TestResolveYahooSymbol(t *testing.T) {
	assert.Equal(t, "^NSEI", ResolveYahooSymbol("NIFTY"))
	assert.Equal(t, "^BSESN", ResolveYahooSymbol("sensex"))
	assert.Equal(t, "OBSCURECO.NS", ResolveYahooSymbol(" obscureco "))
}
