package ipo

import (
	"context"
	"log"
	"time"

	"nivesh_pathshala/services/marketdata"
)

// Cache behaviour.
const (
	CacheTTL   = 15 * time.Minute
	StaleAfter = 6 * time.Hour
)

const cacheKey = "ipos"

// SnapshotStore persists the last-known IPO list so stale-serving
// survives a restart. Implementations fail soft.
type SnapshotStore interface {
	SaveIPOs(ipos []IPO, fetchedAt time.Time) error
	LoadIPOs() ([]IPO, time.Time, error)
}

// List is the payload served to consumers. Source names which tier
// produced the data; IsStale is true only on the last-known-cache path
// when the snapshot is older than six hours.
type List struct {
	IPOs      []IPO  `json:"ipos"`
	Source    string `json:"source"`
	IsStale   bool   `json:"is_stale"`
	FetchedAt string `json:"fetched_at"`
}

// Service maintains the IPO list through the fallback chain:
// primary provider -> secondary provider -> last-known cache ->
// bundled sample data.
type Service struct {
	primary   *IPOAlertsClient
	secondary *FinnhubIPOClient
	cache     *marketdata.TTLCache[[]IPO]
	store     SnapshotStore
	now       func() time.Time
}

// NewService wires the providers, cache and optional snapshot store.
// A nil clock defaults to time.Now.
func NewService(primary *IPOAlertsClient, secondary *FinnhubIPOClient, store SnapshotStore, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		primary:   primary,
		secondary: secondary,
		cache:     marketdata.NewTTLCache[[]IPO](CacheTTL, now),
		store:     store,
		now:       now,
	}
}

// sources builds the live provider chain in priority order.
func (s *Service) sources() []marketdata.Source[[]IPO] {
	sources := []marketdata.Source[[]IPO]{
		{
			Name: "ipoalerts",
			Fetch: func(ctx context.Context) marketdata.Result[[]IPO] {
				ipos, err := s.primary.FetchAll(ctx)
				if err != nil {
					return marketdata.Failure[[]IPO](err)
				}
				if len(ipos) == 0 {
					return marketdata.Empty[[]IPO]()
				}
				return marketdata.Success(ipos)
			},
		},
	}

	if s.secondary.Configured() {
		sources = append(sources, marketdata.Source[[]IPO]{
			Name: "finnhub",
			Fetch: func(ctx context.Context) marketdata.Result[[]IPO] {
				ipos, err := s.secondary.FetchCalendar(ctx)
				if err != nil {
					return marketdata.Failure[[]IPO](err)
				}
				if len(ipos) == 0 {
					return marketdata.Empty[[]IPO]()
				}
				return marketdata.Success(ipos)
			},
		})
	}

	return sources
}

// Get returns the IPO list with best available freshness.
func (s *Service) Get(ctx context.Context) List {
	if ipos, source, ok := s.cache.Get(cacheKey); ok {
		return List{IPOs: ipos, Source: source, FetchedAt: s.now().Format(time.RFC3339)}
	}
	return s.fetch(ctx)
}

// Refresh clears the cache and forces a live refetch. Used by the
// admin endpoint and the interval job.
func (s *Service) Refresh(ctx context.Context) List {
	s.cache.Invalidate(cacheKey)
	return s.fetch(ctx)
}

// GetByID returns one IPO from the current list.
func (s *Service) GetByID(ctx context.Context, id string) (IPO, bool) {
	list := s.Get(ctx)
	for _, item := range list.IPOs {
		if item.ID == id {
			return item, true
		}
	}
	return IPO{}, false
}

// fetch walks the live sources, then the last-known cache (in-memory
// first, persisted snapshot second), then the bundled sample data.
// The sample path deliberately reports IsStale false: fresh-looking
// fallback data is the product contract.
func (s *Service) fetch(ctx context.Context) List {
	for _, src := range s.sources() {
		res := src.Fetch(ctx)
		switch res.Status {
		case marketdata.StatusSuccess:
			ipos := res.Value
			SortIPOs(ipos)
			s.cache.Put(cacheKey, ipos, src.Name)
			if s.store != nil {
				if err := s.store.SaveIPOs(ipos, s.now()); err != nil {
					log.Printf("Warning: failed to persist IPO snapshot: %v", err)
				}
			}
			return List{IPOs: ipos, Source: src.Name, FetchedAt: s.now().Format(time.RFC3339)}
		case marketdata.StatusFailure:
			log.Printf("IPO source %s failed: %v", src.Name, res.Err)
		}
	}

	// Last-known cache, expired entries included.
	if ipos, age, ok := s.cache.GetStale(cacheKey); ok && len(ipos) > 0 {
		return List{
			IPOs:      ipos,
			Source:    "cache",
			IsStale:   age > StaleAfter,
			FetchedAt: s.now().Add(-age).Format(time.RFC3339),
		}
	}

	// Persisted snapshot from a previous process.
	if s.store != nil {
		if ipos, fetchedAt, err := s.store.LoadIPOs(); err == nil && len(ipos) > 0 {
			s.cache.Put(cacheKey, ipos, "cache")
			return List{
				IPOs:      ipos,
				Source:    "cache",
				IsStale:   s.now().Sub(fetchedAt) > StaleAfter,
				FetchedAt: fetchedAt.Format(time.RFC3339),
			}
		}
	}

	return List{
		IPOs:      SampleIPOs(),
		Source:    marketdata.SampleDataSource,
		IsStale:   false,
		FetchedAt: s.now().Format(time.RFC3339),
	}
}
