package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GNewsBaseURL is the GNews REST endpoint.
const GNewsBaseURL = "https://gnews.io/api/v4"

// ProviderTimeout is the per-request budget for all news providers.
const ProviderTimeout = 10 * time.Second

// GNewsClient is the primary news provider.
type GNewsClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGNewsClient creates a GNews client. An empty key leaves the
// client unconfigured.
func NewGNewsClient(apiKey string) *GNewsClient {
	return NewGNewsClientWith(apiKey, GNewsBaseURL, &http.Client{Timeout: ProviderTimeout})
}

// NewGNewsClientWith creates a client against a custom base URL and
// HTTP client.
func NewGNewsClientWith(apiKey, baseURL string, httpClient *http.Client) *GNewsClient {
	return &GNewsClient{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}
}

// Configured reports whether an API key is set.
func (c *GNewsClient) Configured() bool {
	return c.apiKey != ""
}

type gnewsResponse struct {
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		Image       string `json:"image"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// FetchBusinessNews fetches Indian business headlines.
func (c *GNewsClient) FetchBusinessNews(ctx context.Context) ([]Article, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("gnews API key not configured")
	}

	url := fmt.Sprintf("%s/top-headlines?category=business&country=in&lang=en&max=20&token=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gnews error (status %d): %s", resp.StatusCode, string(body))
	}

	var payload gnewsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	articles := make([]Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		articles = append(articles, Article{
			Title:       item.Title,
			Summary:     item.Description,
			URL:         item.URL,
			ImageURL:    item.Image,
			SourceName:  item.Source.Name,
			Category:    Categorize(item.Title),
			PublishedAt: item.PublishedAt,
		})
	}
	return articles, nil
}
