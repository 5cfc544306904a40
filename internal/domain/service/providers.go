package service

import (
	"context"

	"MarketIntel/internal/domain/models"
)

// QuoteProvider fetches a live quote for a symbol, falling back across
// sources internally. A nil-field Quote is valid output; a non-nil error
// means every source failed.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol, exchange string) (*models.Quote, error)
}

// FundamentalsProvider fetches key statistics (beta, ratios, 52-week range).
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, symbol string) (*models.Fundamentals, error)
}

// IndicatorProvider computes the technical indicator set for a symbol from
// historical candles. Individual indicators may be absent when the history
// is too short; that is not an error.
type IndicatorProvider interface {
	Indicators(ctx context.Context, symbol string, n int) (*models.TechnicalIndicators, error)
}

// SentimentProvider scores a batch of headlines into an aggregate summary.
// Pure computation, no I/O.
type SentimentProvider interface {
	Analyze(headlines []string) models.SentimentSummary
}

// NewsProvider fetches recent articles for a symbol.
type NewsProvider interface {
	Recent(ctx context.Context, symbol string, days, limit int) ([]models.NewsArticle, error)
}
