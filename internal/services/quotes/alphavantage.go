package quotes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"MarketIntel/internal/domain/models"
	pkghttp "MarketIntel/pkg/http"
)

// AlphaVantageClient is the fallback quote source. Alpha Vantage returns
// every number as a string and percentages with a trailing '%'.
type AlphaVantageClient struct {
	client  *pkghttp.Client
	baseURL string
	apiKey  string
}

func NewAlphaVantageClient(client *pkghttp.Client, baseURL, apiKey string) *AlphaVantageClient {
	if baseURL == "" {
		baseURL = "https://www.alphavantage.co"
	}
	return &AlphaVantageClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

type avGlobalQuote struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Open          string `json:"02. open"`
		High          string `json:"03. high"`
		Low           string `json:"04. low"`
		Price         string `json:"05. price"`
		Volume        string `json:"06. volume"`
		PreviousClose string `json:"08. previous close"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
}

func (c *AlphaVantageClient) Quote(ctx context.Context, symbol, _ string) (*models.Quote, error) {
	var out avGlobalQuote
	err := c.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/query",
		QueryParams: map[string][]string{
			"function": {"GLOBAL_QUOTE"},
			"symbol":   {symbol},
			"apikey":   {c.apiKey},
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("alphavantage quote %s: %w", symbol, err)
	}
	g := out.GlobalQuote
	if g.Symbol == "" || g.Price == "" {
		return nil, fmt.Errorf("alphavantage quote %s: no data", symbol)
	}

	q := &models.Quote{
		Symbol:        symbol,
		Current:       parseFloat(g.Price),
		ChangePercent: parsePercent(g.ChangePercent),
		Volume:        parseInt(g.Volume),
		Open:          parseFloat(g.Open),
		High:          parseFloat(g.High),
		Low:           parseFloat(g.Low),
		PreviousClose: parseFloat(g.PreviousClose),
		Source:        "alphavantage",
	}
	return q, nil
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parsePercent(s string) *float64 {
	return parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

func parseInt(s string) *int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}
