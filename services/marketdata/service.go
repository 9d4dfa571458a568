package marketdata

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Cache TTLs per data kind.
const (
	QuoteTTL    = 60 * time.Second
	IntradayTTL = 5 * time.Minute
	SearchTTL   = 10 * time.Minute
)

// liveCacheKey is the fixed key for the /api/market/live basket.
const liveCacheKey = "live"

// QuoteService orchestrates the quote fallback chain: Yahoo first,
// Alpha Vantage when configured, then the bundled snapshot. Results
// are cached per symbol; a read within TTL never goes upstream.
type QuoteService struct {
	yahoo *YahooClient
	av    *AlphaVantageClient

	quoteCache    *TTLCache[Quote]
	listCache     *TTLCache[[]Quote]
	intradayCache *TTLCache[[]Candle]
	searchCache   *TTLCache[[]SymbolMatch]
}

// NewQuoteService wires the providers and caches. A nil clock defaults
// to time.Now.
func NewQuoteService(yahoo *YahooClient, av *AlphaVantageClient, now func() time.Time) *QuoteService {
	return &QuoteService{
		yahoo:         yahoo,
		av:            av,
		quoteCache:    NewTTLCache[Quote](QuoteTTL, now),
		listCache:     NewTTLCache[[]Quote](QuoteTTL, now),
		intradayCache: NewTTLCache[[]Candle](IntradayTTL, now),
		searchCache:   NewTTLCache[[]SymbolMatch](SearchTTL, now),
	}
}

// quoteSources builds the priority-ordered chain for one symbol.
func (s *QuoteService) quoteSources(symbol string) []Source[Quote] {
	sources := []Source[Quote]{
		{
			Name: "yahoo",
			Fetch: func(ctx context.Context) Result[Quote] {
				q, err := s.yahoo.FetchQuote(ctx, symbol)
				if err != nil {
					return Failure[Quote](err)
				}
				return Success(*q)
			},
		},
	}

	if s.av.Configured() {
		sources = append(sources, Source[Quote]{
			Name: "alphavantage",
			Fetch: func(ctx context.Context) Result[Quote] {
				q, err := s.av.FetchGlobalQuote(ctx, symbol)
				if err == ErrRateLimited {
					return Empty[Quote]()
				}
				if err != nil {
					return Failure[Quote](err)
				}
				return Success(*q)
			},
		})
	}

	return sources
}

// GetQuote returns the freshest available quote for a symbol.
func (s *QuoteService) GetQuote(ctx context.Context, symbol string) Quote {
	key := "quote:" + symbol
	if q, _, ok := s.quoteCache.Get(key); ok {
		return q
	}

	quote, source := TryInOrder(ctx, s.quoteSources(symbol), func() Quote {
		return SampleQuote(symbol)
	})
	if source != SampleDataSource {
		s.quoteCache.Put(key, quote, source)
	}
	return quote
}

// Live returns quotes for the fixed website basket. On total failure
// the static snapshot is served so the widget never renders empty.
func (s *QuoteService) Live(ctx context.Context) []Quote {
	if quotes, _, ok := s.listCache.Get(liveCacheKey); ok {
		return quotes
	}
	return s.fetchLive(ctx)
}

// RefreshLive bypasses the cache and refetches the basket. Used by the
// background warm job during market hours.
func (s *QuoteService) RefreshLive(ctx context.Context) {
	s.listCache.Invalidate(liveCacheKey)
	s.fetchLive(ctx)
}

func (s *QuoteService) fetchLive(ctx context.Context) []Quote {
	sources := []Source[[]Quote]{
		{
			Name: "yahoo",
			Fetch: func(ctx context.Context) Result[[]Quote] {
				return s.fetchBasket(ctx, func(ctx context.Context, sym string) (*Quote, error) {
					return s.yahoo.FetchQuote(ctx, sym)
				})
			},
		},
	}

	if s.av.Configured() {
		sources = append(sources, Source[[]Quote]{
			Name: "alphavantage",
			Fetch: func(ctx context.Context) Result[[]Quote] {
				return s.fetchBasket(ctx, func(ctx context.Context, sym string) (*Quote, error) {
					q, err := s.av.FetchGlobalQuote(ctx, sym)
					if err == ErrRateLimited {
						return nil, nil
					}
					return q, err
				})
			},
		})
	}

	quotes, source := TryInOrder(ctx, sources, SampleQuotes)
	if source != SampleDataSource {
		s.listCache.Put(liveCacheKey, quotes, source)
	}
	return quotes
}

// fetchBasket fetches every basket symbol through one provider. The
// source succeeds if anything came back; individual misses are logged
// and skipped.
func (s *QuoteService) fetchBasket(ctx context.Context, fetch func(context.Context, string) (*Quote, error)) Result[[]Quote] {
	quotes := make([]Quote, 0, len(liveBasket))
	var lastErr error
	for _, sym := range liveBasket {
		q, err := fetch(ctx, sym)
		if err != nil {
			log.Printf("basket fetch failed for %s: %v", sym, err)
			lastErr = err
			continue
		}
		if q == nil {
			continue
		}
		quotes = append(quotes, *q)
	}

	if len(quotes) == 0 {
		if lastErr != nil {
			return Failure[[]Quote](lastErr)
		}
		return Empty[[]Quote]()
	}
	return Success(quotes)
}

// Intraday returns 5-minute bars from Alpha Vantage, falling back to a
// synthesized flat series.
func (s *QuoteService) Intraday(ctx context.Context, symbol string) []Candle {
	key := "intraday:" + symbol
	if candles, _, ok := s.intradayCache.Get(key); ok {
		return candles
	}

	sources := []Source[[]Candle]{
		{
			Name: "alphavantage",
			Fetch: func(ctx context.Context) Result[[]Candle] {
				candles, err := s.av.FetchIntraday(ctx, symbol)
				if err == ErrRateLimited || err == ErrNotConfigured {
					return Empty[[]Candle]()
				}
				if err != nil {
					return Failure[[]Candle](err)
				}
				return Success(candles)
			},
		},
	}

	candles, source := TryInOrder(ctx, sources, func() []Candle {
		return SampleIntraday(symbol)
	})
	if source != SampleDataSource {
		s.intradayCache.Put(key, candles, source)
	}
	return candles
}

// Search looks up symbols, preferring Alpha Vantage and falling back
// to a substring match over the static symbol table.
func (s *QuoteService) Search(ctx context.Context, query string) []SymbolMatch {
	key := "search:" + query
	if matches, _, ok := s.searchCache.Get(key); ok {
		return matches
	}

	sources := []Source[[]SymbolMatch]{
		{
			Name: "alphavantage",
			Fetch: func(ctx context.Context) Result[[]SymbolMatch] {
				matches, err := s.av.Search(ctx, query)
				if err == ErrRateLimited || err == ErrNotConfigured {
					return Empty[[]SymbolMatch]()
				}
				if err != nil {
					return Failure[[]SymbolMatch](err)
				}
				if len(matches) == 0 {
					return Empty[[]SymbolMatch]()
				}
				return Success(matches)
			},
		},
	}

	matches, source := TryInOrder(ctx, sources, func() []SymbolMatch {
		hits := SearchSymbolTable(query)
		matches := make([]SymbolMatch, 0, len(hits))
		for _, h := range hits {
			matches = append(matches, SymbolMatch{Symbol: h.Symbol, Name: h.Name, Region: "India"})
		}
		return matches
	})
	if source != SampleDataSource {
		s.searchCache.Put(key, matches, source)
	}
	return matches
}

// Status reports provider configuration for the status endpoint.
func (s *QuoteService) Status() map[string]interface{} {
	return map[string]interface{}{
		"alphavantage_configured": s.av.Configured(),
		"quote_ttl_sec":           int(QuoteTTL.Seconds()),
		"cached_quotes":           s.quoteCache.Len(),
	}
}

// String implements fmt.Stringer for startup logging.
func (s *QuoteService) String() string {
	return fmt.Sprintf("QuoteService(alphavantage=%v)", s.av.Configured())
}
