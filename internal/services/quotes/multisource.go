package quotes

import (
	"context"
	"fmt"
	"time"

	"MarketIntel/internal/domain/models"
	domsvc "MarketIntel/internal/domain/service"
	pkgcache "MarketIntel/pkg/cache"
	"MarketIntel/pkg/logger"
)

// MultiSource chains quote sources: the first one to return a usable quote
// wins, in declaration order.
type MultiSource struct {
	sources  []domsvc.QuoteProvider
	log      *logger.Logger
	cache    pkgcache.Service
	cacheTTL time.Duration
}

type MultiSourceOption func(*MultiSource)

// WithQuoteCache keeps fresh quotes for ttl so bursts of requests for the
// same symbol do not fan out to the upstream APIs.
func WithQuoteCache(c pkgcache.Service, ttl time.Duration) MultiSourceOption {
	return func(m *MultiSource) {
		m.cache = c
		if ttl > 0 {
			m.cacheTTL = ttl
		}
	}
}

func NewMultiSource(log *logger.Logger, sources []domsvc.QuoteProvider, opts ...MultiSourceOption) *MultiSource {
	m := &MultiSource{sources: sources, log: log, cacheTTL: 30 * time.Second}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MultiSource) Quote(ctx context.Context, symbol, exchange string) (*models.Quote, error) {
	cacheKey := pkgcache.GenerateKey("quote", symbol)
	if m.cache != nil {
		var cached models.Quote
		if err := m.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Current != nil {
			return &cached, nil
		}
	}

	var lastErr error
	for _, src := range m.sources {
		q, err := src.Quote(ctx, symbol, exchange)
		if err != nil {
			lastErr = err
			m.log.Warn("quote source failed, trying next",
				logger.String("symbol", symbol),
				logger.Error(err))
			continue
		}
		if q.Current == nil {
			lastErr = fmt.Errorf("quote %s: source %s returned no price", symbol, q.Source)
			continue
		}
		if m.cache != nil {
			if err := m.cache.Set(ctx, cacheKey, q, m.cacheTTL); err != nil {
				m.log.Warn("quote cache write failed",
					logger.String("symbol", symbol),
					logger.Error(err))
			}
		}
		return q, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("quote %s: no sources configured", symbol)
	}
	return nil, lastErr
}
