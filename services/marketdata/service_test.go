package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFailingYahoo(t *testing.T) *YahooClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)
	return NewYahooClientWith(srv.URL, srv.Client())
}

func TestGetQuoteServesSampleOnTotalFailure(t *testing.T) {
	yahoo := newFailingYahoo(t)
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(yahoo, av, nil)

	quote := svc.GetQuote(context.Background(), "RELIANCE")
	assert.Equal(t, "RELIANCE", quote.Symbol)
	assert.Equal(t, SampleDataSource, quote.Source)
	assert.Greater(t, quote.Price, 0.0)

	// Sample payloads must not poison the cache.
	assert.Equal(t, 0, svc.quoteCache.Len())
}

func TestGetQuoteCachesWithinTTL(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	current := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	yahoo := NewYahooClientWith(srv.URL, srv.Client())
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(yahoo, av, clock)

	first := svc.GetQuote(context.Background(), "RELIANCE")
	second := svc.GetQuote(context.Background(), "RELIANCE")
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))

	// Past TTL the next read goes upstream again.
	current = current.Add(QuoteTTL + time.Second)
	svc.GetQuote(context.Background(), "RELIANCE")
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestGetQuoteFallsBackToAlphaVantage(t *testing.T) {
	yahoo := newFailingYahoo(t)

	avBody := `{"Global Quote":{"01. symbol":"TCS.BSE","05. price":"3500.50","08. previous close":"3450.00","09. change":"50.50","10. change percent":"1.4638%"}}`
	avSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(avBody))
	}))
	defer avSrv.Close()

	av := NewAlphaVantageClientWith("demo-key", avSrv.URL, avSrv.Client())
	svc := NewQuoteService(yahoo, av, nil)

	quote := svc.GetQuote(context.Background(), "TCS")
	assert.Equal(t, "TCS", quote.Symbol)
	assert.Equal(t, 3500.50, quote.Price)
	assert.Equal(t, "alphavantage", quote.Source)
}

func TestGetQuoteRateLimitedFallsThrough(t *testing.T) {
	yahoo := newFailingYahoo(t)

	avSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note":"Thank you for using Alpha Vantage! Please slow down."}`))
	}))
	defer avSrv.Close()

	av := NewAlphaVantageClientWith("demo-key", avSrv.URL, avSrv.Client())
	svc := NewQuoteService(yahoo, av, nil)

	quote := svc.GetQuote(context.Background(), "RELIANCE")
	assert.Equal(t, SampleDataSource, quote.Source)
}

func TestLiveServesSampleBasketOnTotalFailure(t *testing.T) {
	yahoo := newFailingYahoo(t)
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(yahoo, av, nil)

	quotes := svc.Live(context.Background())
	require.NotEmpty(t, quotes)
	for _, q := range quotes {
		assert.Equal(t, SampleDataSource, q.Source)
	}
}

func TestRefreshLiveBypassesCache(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(yahooChartBody))
	}))
	defer srv.Close()

	yahoo := NewYahooClientWith(srv.URL, srv.Client())
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(yahoo, av, nil)

	svc.Live(context.Background())
	afterFirst := atomic.LoadInt64(&hits)
	require.Greater(t, afterFirst, int64(0))

	// Cached within TTL.
	svc.Live(context.Background())
	assert.Equal(t, afterFirst, atomic.LoadInt64(&hits))

	// Refresh forces a refetch.
	svc.RefreshLive(context.Background())
	assert.Greater(t, atomic.LoadInt64(&hits), afterFirst)
}

func TestSearchFallsBackToSymbolTable(t *testing.T) {
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(NewYahooClient(), av, nil)

	matches := svc.Search(context.Background(), "tata")
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "India", m.Region)
	}
}

func TestIntradayServesSampleWithoutProvider(t *testing.T) {
	av := NewAlphaVantageClientWith("", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(NewYahooClient(), av, nil)

	candles := svc.Intraday(context.Background(), "RELIANCE")
	require.NotEmpty(t, candles)
	assert.Greater(t, candles[0].Close, 0.0)
}

func TestStatusReportsConfiguration(t *testing.T) {
	av := NewAlphaVantageClientWith("key", AlphaVantageBaseURL, http.DefaultClient)
	svc := NewQuoteService(NewYahooClient(), av, nil)

	status := svc.Status()
	assert.Equal(t, true, status["alphavantage_configured"])
	assert.Equal(t, int(QuoteTTL.Seconds()), status["quote_ttl_sec"])
}
