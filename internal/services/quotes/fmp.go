// Package quotes provides live quotes and key statistics, falling back
// across sources when the primary is down or rate limited.
package quotes

import (
	"context"
	"fmt"

	"MarketIntel/internal/domain/models"
	pkghttp "MarketIntel/pkg/http"
)

// FMPClient talks to Financial Modeling Prep.
type FMPClient struct {
	client  *pkghttp.Client
	baseURL string
	apiKey  string
}

func NewFMPClient(client *pkghttp.Client, baseURL, apiKey string) *FMPClient {
	if baseURL == "" {
		baseURL = "https://financialmodelingprep.com/api/v3"
	}
	return &FMPClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

type fmpQuote struct {
	Symbol            string   `json:"symbol"`
	Price             *float64 `json:"price"`
	ChangesPercentage *float64 `json:"changesPercentage"`
	Open              *float64 `json:"open"`
	DayHigh           *float64 `json:"dayHigh"`
	DayLow            *float64 `json:"dayLow"`
	PreviousClose     *float64 `json:"previousClose"`
	Volume            *int64   `json:"volume"`
	AvgVolume         *int64   `json:"avgVolume"`
	YearHigh          *float64 `json:"yearHigh"`
	YearLow           *float64 `json:"yearLow"`
	PE                *float64 `json:"pe"`
	MarketCap         *float64 `json:"marketCap"`
}

type fmpProfile struct {
	Symbol string   `json:"symbol"`
	Beta   *float64 `json:"beta"`
}

type fmpRatios struct {
	DebtEquityRatioTTM *float64 `json:"debtEquityRatioTTM"`
}

func (c *FMPClient) quote(ctx context.Context, symbol string) (*fmpQuote, error) {
	var out []fmpQuote
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/quote/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{"apikey": {c.apiKey}},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("fmp quote %s: %w", symbol, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fmp quote %s: no data", symbol)
	}
	return &out[0], nil
}

// Quote fetches the live quote.
func (c *FMPClient) Quote(ctx context.Context, symbol, _ string) (*models.Quote, error) {
	q, err := c.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &models.Quote{
		Symbol:        symbol,
		Current:       q.Price,
		ChangePercent: q.ChangesPercentage,
		Volume:        q.Volume,
		Open:          q.Open,
		High:          q.DayHigh,
		Low:           q.DayLow,
		PreviousClose: q.PreviousClose,
		Source:        "fmp",
	}, nil
}

// Fundamentals merges quote, profile and TTM ratios into the key-statistics
// record. The profile and ratios calls are best-effort: their fields stay
// nil when the endpoints fail.
func (c *FMPClient) Fundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error) {
	q, err := c.quote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	f := &models.Fundamentals{
		PERatio:          q.PE,
		FiftyTwoWeekHigh: q.YearHigh,
		FiftyTwoWeekLow:  q.YearLow,
		AverageVolume:    q.AvgVolume,
		MarketCap:        q.MarketCap,
	}

	var profiles []fmpProfile
	if err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/profile/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{"apikey": {c.apiKey}},
	}, &profiles); err == nil && len(profiles) > 0 {
		f.Beta = profiles[0].Beta
	}

	var ratios []fmpRatios
	if err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         fmt.Sprintf("%s/ratios-ttm/%s", c.baseURL, symbol),
		QueryParams: map[string][]string{"apikey": {c.apiKey}},
	}, &ratios); err == nil && len(ratios) > 0 {
		f.DebtToEquity = ratios[0].DebtEquityRatioTTM
	}

	return f, nil
}
