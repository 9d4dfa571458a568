package ipo

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Canonical IPO status values, in display order.
const (
	StatusOngoing  = "ongoing"
	StatusUpcoming = "upcoming"
	StatusClosed   = "closed"
	StatusListed   = "listed"
)

// PriceBand is the offer price range in rupees.
type PriceBand struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Subscription holds category-wise subscription multiples.
type Subscription struct {
	QIB    float64 `json:"qib"`
	HNI    float64 `json:"hni"`
	Retail float64 `json:"retail"`
}

// IPO is the normalized shape served to consumers regardless of which
// provider produced it.
type IPO struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Symbol       string       `json:"symbol"`
	Exchange     string       `json:"exchange"`
	Status       string       `json:"status"`
	PriceBand    PriceBand    `json:"price_band"`
	LotSize      int          `json:"lot_size"`
	OpenDate     string       `json:"open_date"`
	CloseDate    string       `json:"close_date"`
	ListingDate  string       `json:"listing_date"`
	GMP          float64      `json:"gmp"`
	Subscription Subscription `json:"subscription"`
}

// statusRank orders statuses for the sort contract:
// ongoing < upcoming < closed < listed.
var statusRank = map[string]int{
	StatusOngoing:  0,
	StatusUpcoming: 1,
	StatusClosed:   2,
	StatusListed:   3,
}

// NormalizeStatus canonicalizes free-text provider statuses via
// keyword matching. Anything unmatched maps to closed.
func NormalizeStatus(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "open"), strings.Contains(s, "ongoing"),
		strings.Contains(s, "live"), strings.Contains(s, "current"):
		return StatusOngoing
	case strings.Contains(s, "upcom"), strings.Contains(s, "forthcom"):
		return StatusUpcoming
	case strings.Contains(s, "list"), strings.Contains(s, "trading"):
		return StatusListed
	default:
		return StatusClosed
	}
}

var priceBandRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:-|–|to)\s*(\d+(?:\.\d+)?)`)

// ParsePriceBand parses a free-text price band like "180-195" or
// "₹180 to ₹195". A single number yields min == max; unparseable
// input yields a zero band.
func ParsePriceBand(raw string) PriceBand {
	if m := priceBandRe.FindStringSubmatch(raw); m != nil {
		min, _ := strconv.ParseFloat(m[1], 64)
		max, _ := strconv.ParseFloat(m[2], 64)
		return PriceBand{Min: min, Max: max}
	}

	// Single-number band.
	cleaned := strings.TrimFunc(raw, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.'
	})
	if v, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return PriceBand{Min: v, Max: v}
	}
	return PriceBand{}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02 Jan 2006",
	"Jan 2, 2006",
	"02-01-2006",
}

// NormalizeDate coerces a provider date string to YYYY-MM-DD. When no
// layout matches, today's date is used (same-day fallback).
func NormalizeDate(raw string, now func() time.Time) string {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if now == nil {
		now = time.Now
	}
	return now().Format("2006-01-02")
}

// SortIPOs orders the list by the status contract, stable within each
// status group.
func SortIPOs(ipos []IPO) {
	sort.SliceStable(ipos, func(i, j int) bool {
		return statusRank[ipos[i].Status] < statusRank[ipos[j].Status]
	})
}

var slugRe = regexp.MustCompile(`[^a-z0-9]+`)

// MakeID derives a stable identifier from the symbol or name.
func MakeID(symbol, name string) string {
	base := symbol
	if base == "" {
		base = name
	}
	slug := slugRe.ReplaceAllString(strings.ToLower(base), "-")
	return strings.Trim(slug, "-")
}
