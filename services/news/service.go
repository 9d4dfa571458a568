package news

import (
	"context"
	"time"

	"nivesh_pathshala/services/marketdata"
)

// Cache TTLs per data domain.
const (
	NewsTTL     = 10 * time.Minute
	CalendarTTL = 30 * time.Minute
)

const (
	newsCacheKey     = "news"
	calendarCacheKey = "calendar"
)

// FeaturedCount is how many articles the featured endpoint serves.
const FeaturedCount = 5

// Service orchestrates the news fallback chain (GNews -> MoneyControl
// scrape -> Finnhub) and the economic calendar (Finnhub -> sample).
type Service struct {
	gnews         *GNewsClient
	moneycontrol  *MoneyControlScraper
	finnhub       *FinnhubClient
	newsCache     *marketdata.TTLCache[[]Article]
	calendarCache *marketdata.TTLCache[[]CalendarEvent]
}

// NewService wires the providers and caches. A nil clock defaults to
// time.Now.
func NewService(gnews *GNewsClient, moneycontrol *MoneyControlScraper, finnhub *FinnhubClient, now func() time.Time) *Service {
	return &Service{
		gnews:         gnews,
		moneycontrol:  moneycontrol,
		finnhub:       finnhub,
		newsCache:     marketdata.NewTTLCache[[]Article](NewsTTL, now),
		calendarCache: marketdata.NewTTLCache[[]CalendarEvent](CalendarTTL, now),
	}
}

func (s *Service) newsSources() []marketdata.Source[[]Article] {
	sources := make([]marketdata.Source[[]Article], 0, 3)

	if s.gnews.Configured() {
		sources = append(sources, marketdata.Source[[]Article]{
			Name: "gnews",
			Fetch: func(ctx context.Context) marketdata.Result[[]Article] {
				articles, err := s.gnews.FetchBusinessNews(ctx)
				if err != nil {
					return marketdata.Failure[[]Article](err)
				}
				if len(articles) == 0 {
					return marketdata.Empty[[]Article]()
				}
				return marketdata.Success(articles)
			},
		})
	}

	sources = append(sources, marketdata.Source[[]Article]{
		Name: "moneycontrol",
		Fetch: func(ctx context.Context) marketdata.Result[[]Article] {
			articles, err := s.moneycontrol.FetchHeadlines(ctx)
			if err != nil {
				return marketdata.Failure[[]Article](err)
			}
			return marketdata.Success(articles)
		},
	})

	if s.finnhub.Configured() {
		sources = append(sources, marketdata.Source[[]Article]{
			Name: "finnhub",
			Fetch: func(ctx context.Context) marketdata.Result[[]Article] {
				articles, err := s.finnhub.FetchMarketNews(ctx)
				if err != nil {
					return marketdata.Failure[[]Article](err)
				}
				if len(articles) == 0 {
					return marketdata.Empty[[]Article]()
				}
				return marketdata.Success(articles)
			},
		})
	}

	return sources
}

// Articles returns the merged news list with best available freshness.
func (s *Service) Articles(ctx context.Context) []Article {
	if articles, _, ok := s.newsCache.Get(newsCacheKey); ok {
		return articles
	}

	articles, source := marketdata.TryInOrder(ctx, s.newsSources(), SampleArticles)
	if source != marketdata.SampleDataSource {
		s.newsCache.Put(newsCacheKey, articles, source)
	}
	return articles
}

// Refresh bypasses the cache and refetches. Used by the warm job.
func (s *Service) Refresh(ctx context.Context) {
	s.newsCache.Invalidate(newsCacheKey)
	s.Articles(ctx)
}

// Featured returns the top articles of the merged list.
func (s *Service) Featured(ctx context.Context) []Article {
	articles := s.Articles(ctx)
	if len(articles) > FeaturedCount {
		return articles[:FeaturedCount]
	}
	return articles
}

// ByCategory filters the merged list to one topic.
func (s *Service) ByCategory(ctx context.Context, category string) []Article {
	articles := s.Articles(ctx)
	filtered := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.Category == category {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// Calendar returns the economic calendar with best available
// freshness.
func (s *Service) Calendar(ctx context.Context) []CalendarEvent {
	if events, _, ok := s.calendarCache.Get(calendarCacheKey); ok {
		return events
	}

	sources := []marketdata.Source[[]CalendarEvent]{}
	if s.finnhub.Configured() {
		sources = append(sources, marketdata.Source[[]CalendarEvent]{
			Name: "finnhub",
			Fetch: func(ctx context.Context) marketdata.Result[[]CalendarEvent] {
				events, err := s.finnhub.FetchEconomicCalendar(ctx)
				if err != nil {
					return marketdata.Failure[[]CalendarEvent](err)
				}
				if len(events) == 0 {
					return marketdata.Empty[[]CalendarEvent]()
				}
				return marketdata.Success(events)
			},
		})
	}

	events, source := marketdata.TryInOrder(ctx, sources, SampleCalendar)
	if source != marketdata.SampleDataSource {
		s.calendarCache.Put(calendarCacheKey, events, source)
	}
	return events
}

// RefreshCalendar bypasses the cache and refetches.
func (s *Service) RefreshCalendar(ctx context.Context) {
	s.calendarCache.Invalidate(calendarCacheKey)
	s.Calendar(ctx)
}
