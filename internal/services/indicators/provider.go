package indicators

import (
	"context"
	"fmt"
	"sort"
	"time"

	"MarketIntel/internal/domain/models"
	pkgcache "MarketIntel/pkg/cache"
	pkghttp "MarketIntel/pkg/http"
	"MarketIntel/pkg/logger"
)

// Provider fetches daily candles from Financial Modeling Prep and runs the
// calculator over them.
type Provider struct {
	client   *pkghttp.Client
	baseURL  string
	apiKey   string
	log      *logger.Logger
	cache    pkgcache.Service
	cacheTTL time.Duration
}

type ProviderOption func(*Provider)

// WithCandleCache caches fetched daily candles per symbol. Daily bars only
// change once a day, so even a short TTL absorbs repeated analysis calls.
func WithCandleCache(c pkgcache.Service, ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		p.cache = c
		if ttl > 0 {
			p.cacheTTL = ttl
		}
	}
}

func NewProvider(client *pkghttp.Client, baseURL, apiKey string, log *logger.Logger, opts ...ProviderOption) *Provider {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/api/v3"
	}
	p := &Provider{client: client, baseURL: baseURL, apiKey: apiKey, log: log, cacheTTL: 5 * time.Minute}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date   string  `json:"date"`
		Open   float64 `json:"open"`
		High   float64 `json:"high"`
		Low    float64 `json:"low"`
		Close  float64 `json:"close"`
		Volume float64 `json:"volume"`
	} `json:"historical"`
}

// Indicators fetches up to n daily bars and computes the indicator set.
func (p *Provider) Indicators(ctx context.Context, symbol string, n int) (*models.TechnicalIndicators, error) {
	candles, err := p.DailyCandles(ctx, symbol, n)
	if err != nil {
		return nil, err
	}
	t := Compute(candles)
	if t == nil {
		return nil, fmt.Errorf("indicators %s: not enough history (%d bars)", symbol, len(candles))
	}
	return t, nil
}

// DailyCandles returns up to n daily bars ordered oldest-first.
func (p *Provider) DailyCandles(ctx context.Context, symbol string, n int) ([]models.Candle, error) {
	cacheKey := pkgcache.GenerateKeyWithParams("candles", symbol, n)
	if p.cache != nil {
		var cached []models.Candle
		if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
			return cached, nil
		}
	}

	var resp historicalResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/historical-price-full/%s", p.baseURL, symbol),
		QueryParams: map[string][]string{
			"timeseries": {fmt.Sprintf("%d", n)},
			"apikey":     {p.apiKey},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fmp historical %s: %w", symbol, err)
	}
	if len(resp.Historical) == 0 {
		return nil, fmt.Errorf("fmp historical %s: empty history", symbol)
	}

	candles := make([]models.Candle, 0, len(resp.Historical))
	for _, h := range resp.Historical {
		d, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			p.log.Warn("skipping bar with bad date",
				logger.String("symbol", symbol),
				logger.String("date", h.Date))
			continue
		}
		candles = append(candles, models.Candle{
			Date:   d,
			Open:   h.Open,
			High:   h.High,
			Low:    h.Low,
			Close:  h.Close,
			Volume: h.Volume,
		})
	}

	// FMP returns newest first; the calculator wants oldest first.
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey, candles, p.cacheTTL); err != nil {
			p.log.Warn("candle cache set failed",
				logger.String("symbol", symbol), logger.Error(err))
		}
	}
	return candles, nil
}
