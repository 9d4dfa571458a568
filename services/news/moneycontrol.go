package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// MoneyControlURL is the markets news listing page scraped as the
// second news tier.
const MoneyControlURL = "https://www.moneycontrol.com/news/business/markets/"

// minTitleLength is the sanity threshold for scraped headlines.
const minTitleLength = 10

// MoneyControlScraper extracts headlines from the MoneyControl markets
// page with best-effort CSS selectors. Elements failing basic sanity
// checks are discarded.
type MoneyControlScraper struct {
	url        string
	httpClient *http.Client
	now        func() time.Time
}

// NewMoneyControlScraper creates the scraper against the live page.
func NewMoneyControlScraper() *MoneyControlScraper {
	return NewMoneyControlScraperWith(MoneyControlURL, &http.Client{Timeout: ProviderTimeout})
}

// NewMoneyControlScraperWith creates a scraper against a custom URL
// and HTTP client.
func NewMoneyControlScraperWith(url string, httpClient *http.Client) *MoneyControlScraper {
	return &MoneyControlScraper{url: url, httpClient: httpClient, now: time.Now}
}

// FetchHeadlines scrapes the listing page and returns the items that
// pass sanity checks.
func (s *MoneyControlScraper) FetchHeadlines(ctx context.Context) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("moneycontrol error (status %d)", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	published := s.now().Format(time.RFC3339)
	articles := make([]Article, 0)
	doc.Find("li.clearfix").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("h2 a").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		summary := strings.TrimSpace(sel.Find("p").First().Text())

		// Discard items that fail basic sanity checks.
		if len(title) < minTitleLength || href == "" {
			return
		}

		articles = append(articles, Article{
			Title:       title,
			Summary:     summary,
			URL:         href,
			SourceName:  "MoneyControl",
			Category:    Categorize(title),
			PublishedAt: published,
		})
	})

	if len(articles) == 0 {
		return nil, fmt.Errorf("no articles passed sanity checks")
	}
	return articles, nil
}
