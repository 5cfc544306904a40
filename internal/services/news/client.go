// Package news fetches recent articles for a symbol from NewsAPI.
package news

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"MarketIntel/internal/domain/models"
	pkgcache "MarketIntel/pkg/cache"
	pkghttp "MarketIntel/pkg/http"
)

type Client struct {
	client   *pkghttp.Client
	baseURL  string
	apiKey   string
	cache    pkgcache.Service
	cacheTTL time.Duration
}

type ClientOption func(*Client)

// WithArticleCache reuses fetched article lists for ttl. News moves slowly
// enough that minutes-old results are still representative.
func WithArticleCache(c pkgcache.Service, ttl time.Duration) ClientOption {
	return func(cl *Client) {
		cl.cache = c
		if ttl > 0 {
			cl.cacheTTL = ttl
		}
	}
}

func NewClient(client *pkghttp.Client, baseURL, apiKey string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = "https://newsapi.org/v2"
	}
	c := &Client{client: client, baseURL: baseURL, apiKey: apiKey, cacheTTL: 10 * time.Minute}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Recent returns up to limit articles mentioning the symbol from the last
// days days, newest first as NewsAPI orders them.
func (c *Client) Recent(ctx context.Context, symbol string, days, limit int) ([]models.NewsArticle, error) {
	if days <= 0 {
		days = 7
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cacheKey := pkgcache.GenerateKeyWithParams("news", symbol, days, limit)
	if c.cache != nil {
		var cached []models.NewsArticle
		if err := c.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	from := time.Now().AddDate(0, 0, -days).Format("2006-01-02")

	var resp everythingResponse
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/everything",
		QueryParams: map[string][]string{
			"q":        {symbol},
			"from":     {from},
			"language": {"en"},
			"sortBy":   {"publishedAt"},
			"pageSize": {strconv.Itoa(limit)},
		},
		Headers: map[string]string{"X-Api-Key": c.apiKey},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("newsapi %s: %w", symbol, err)
	}
	if resp.Status != "ok" {
		return nil, fmt.Errorf("newsapi %s: %s", symbol, resp.Message)
	}

	out := make([]models.NewsArticle, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		if a.Title == "" {
			continue
		}
		published, _ := time.Parse(time.RFC3339, a.PublishedAt)
		out = append(out, models.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: published,
		})
	}
	if c.cache != nil && len(out) > 0 {
		// Best effort. A miss next time just refetches.
		_ = c.cache.Set(ctx, cacheKey, out, c.cacheTTL)
	}
	return out, nil
}
