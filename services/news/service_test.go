package news

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

const moneyControlPage = `<html><body><ul>
	<li class="clearfix">
		<h2><a href="https://example.com/sensex-rally">Sensex climbs 450 points as banks rally</a></h2>
		<p>Benchmark indices extended gains for a third session.</p>
	</li>
	<li class="clearfix">
		<h2><a href="https://example.com/swadesh-ipo">Swadesh Agro IPO subscribed 3.8 times</a></h2>
		<p>Retail portion led the demand on day two.</p>
	</li>
	<li class="clearfix">
		<h2><a href="">Broken item with no link</a></h2>
	</li>
	<li class="clearfix">
		<h2><a href="https://example.com/short">Short</a></h2>
	</li>
</ul></body></html>`

func newTestService(t *testing.T, scrapeHandler http.HandlerFunc, now func() time.Time) *Service {
	t.Helper()
	srv := httptest.NewServer(scrapeHandler)
	t.Cleanup(srv.Close)

	return NewService(
		NewGNewsClient(""),
		NewMoneyControlScraperWith(srv.URL, srv.Client()),
		NewFinnhubClient(""),
		now,
	)
}

func TestArticlesFromScrape(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(moneyControlPage))
	}, nil)

	articles := svc.Articles(context.Background())
	require.Len(t, articles, 2, "items failing sanity checks are dropped")

	assert.Equal(t, "Sensex climbs 450 points as banks rally", articles[0].Title)
	assert.Equal(t, CategoryMarkets, articles[0].Category)
	assert.Equal(t, "MoneyControl", articles[0].SourceName)
	assert.Equal(t, CategoryIPO, articles[1].Category)
}

func TestArticlesServeSampleOnTotalFailure(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}, nil)

	articles := svc.Articles(context.Background())
	require.NotEmpty(t, articles)
	for _, a := range articles {
		assert.Equal(t, "Nivesh Pathshala Desk", a.SourceName)
		assert.NotEmpty(t, a.PublishedAt)
	}

	// Sample payloads must not poison the cache.
	assert.Equal(t, 0, svc.newsCache.Len())
}

func TestArticlesCachedWithinTTL(t *testing.T) {
	var hits int64
	current := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return current }

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(moneyControlPage))
	}, clock)

	svc.Articles(context.Background())
	svc.Articles(context.Background())
	assert.EqualValues(t, 1, atomic.LoadInt64(&hits))

	current = current.Add(NewsTTL + time.Second)
	svc.Articles(context.Background())
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestRefreshBypassesCache(t *testing.T) {
	var hits int64
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&hits, 1)
		w.Write([]byte(moneyControlPage))
	}, nil)

	svc.Articles(context.Background())
	svc.Refresh(context.Background())
	assert.EqualValues(t, 2, atomic.LoadInt64(&hits))
}

func TestFeaturedCapsAtFive(t *testing.T) {
	page := "<html><body><ul>"
	for i := 0; i < 8; i++ {
		page += `<li class="clearfix"><h2><a href="https://example.com/a">Some sufficiently long market headline</a></h2></li>`
	}
	page += "</ul></body></html>"

	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}, nil)

	assert.Len(t, svc.Featured(context.Background()), FeaturedCount)
}

func TestByCategory(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(moneyControlPage))
	}, nil)

	ipoNews := svc.ByCategory(context.Background(), CategoryIPO)
	require.Len(t, ipoNews, 1)
	assert.Contains(t, ipoNews[0].Title, "IPO")

	assert.Empty(t, svc.ByCategory(context.Background(), CategoryCommodities))
}

func TestCalendarServesSampleWithoutProvider(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(moneyControlPage))
	}, nil)

	events := svc.Calendar(context.Background())
	require.NotEmpty(t, events)
	assert.NotEmpty(t, events[0].Event)
	assert.Equal(t, 0, svc.calendarCache.Len())
}
