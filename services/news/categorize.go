package news

import "strings"

// Article is the normalized news item served to consumers regardless
// of which provider produced it.
type Article struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	ImageURL    string `json:"image_url"`
	SourceName  string `json:"source_name"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at"`
}

// Fixed topic enum for categorization.
const (
	CategoryMarkets     = "markets"
	CategoryIPO         = "ipo"
	CategoryEconomy     = "economy"
	CategoryCorporate   = "corporate"
	CategoryCommodities = "commodities"
	CategoryGlobal      = "global"
)

// Categories returns the fixed topic list in display order.
func Categories() []string {
	return []string{
		CategoryMarkets,
		CategoryIPO,
		CategoryEconomy,
		CategoryCorporate,
		CategoryCommodities,
		CategoryGlobal,
	}
}

// categoryKeywords maps each topic to the substrings that claim a
// title. Order matters: the first topic with a hit wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{CategoryIPO, []string{"ipo", "gmp", "grey market", "listing gain", "subscription", "issue opens", "drhp"}},
	{CategoryEconomy, []string{"rbi", "inflation", "gdp", "repo rate", "budget", "fiscal", "monetary policy", "cpi"}},
	{CategoryCommodities, []string{"gold", "silver", "crude", "oil price", "commodit", "mcx"}},
	{CategoryGlobal, []string{"fed", "wall street", "us market", "dow", "nasdaq", "global market", "china", "japan"}},
	{CategoryCorporate, []string{"results", "profit", "earnings", "merger", "acquisition", "dividend", "quarterly", "stake"}},
}

// Categorize maps a free-text title to one of the fixed topics by
// lowercase keyword substring matching. Unmatched titles default to
// markets.
func Categorize(title string) string {
	t := strings.ToLower(title)
	for _, entry := range categoryKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(t, kw) {
				return entry.category
			}
		}
	}
	return CategoryMarkets
}
