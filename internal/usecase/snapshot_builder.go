package usecase

import (
	"context"
	"sync"
	"time"

	"MarketIntel/internal/domain/models"
	domsvc "MarketIntel/internal/domain/service"
	"MarketIntel/pkg/logger"
)

// SnapshotBuilder assembles a MarketSnapshot by fanning out to the data
// providers concurrently. Every source is best-effort: a failed fetch leaves
// its slice of the snapshot nil and the engine degrades gracefully.
type SnapshotBuilder struct {
	quotes       domsvc.QuoteProvider
	fundamentals domsvc.FundamentalsProvider
	indicators   domsvc.IndicatorProvider
	news         domsvc.NewsProvider
	sentiment    domsvc.SentimentProvider
	log          *logger.Logger
	timeout      time.Duration
}

type SnapshotBuilderParams struct {
	Quotes       domsvc.QuoteProvider
	Fundamentals domsvc.FundamentalsProvider
	Indicators   domsvc.IndicatorProvider
	News         domsvc.NewsProvider
	Sentiment    domsvc.SentimentProvider
	Logger       *logger.Logger
	FetchTimeout time.Duration
}

func NewSnapshotBuilder(p SnapshotBuilderParams) *SnapshotBuilder {
	timeout := p.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SnapshotBuilder{
		quotes:       p.Quotes,
		fundamentals: p.Fundamentals,
		indicators:   p.Indicators,
		news:         p.News,
		sentiment:    p.Sentiment,
		log:          p.Logger,
		timeout:      timeout,
	}
}

type BuildParams struct {
	Symbol     string
	Exchange   string
	NewsDays   int
	NewsLimit  int
	CandleBars int
}

// Build fetches all sources in parallel and assembles the snapshot together
// with the articles that fed sentiment. Per-source failures are reported in
// the errors map, keyed by source name; Build itself fails only on a dead
// context.
func (b *SnapshotBuilder) Build(ctx context.Context, p BuildParams) (*models.MarketSnapshot, []models.NewsArticle, map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if p.NewsDays <= 0 {
		p.NewsDays = 7
	}
	if p.NewsLimit <= 0 {
		p.NewsLimit = 20
	}
	if p.CandleBars <= 0 {
		p.CandleBars = 200
	}

	snap := &models.MarketSnapshot{Symbol: p.Symbol}
	sourceErrs := map[string]string{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	fail := func(source string, err error) {
		mu.Lock()
		sourceErrs[source] = err.Error()
		mu.Unlock()
		b.log.Warn("snapshot source failed",
			logger.String("symbol", p.Symbol),
			logger.String("source", source),
			logger.Error(err))
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		q, err := b.quotes.Quote(ctx, p.Symbol, p.Exchange)
		if err != nil {
			fail("quote", err)
			return
		}
		snap.Price = q
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		f, err := b.fundamentals.Fundamentals(ctx, p.Symbol)
		if err != nil {
			fail("fundamentals", err)
			return
		}
		snap.Fundamentals = f
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		t, err := b.indicators.Indicators(ctx, p.Symbol, p.CandleBars)
		if err != nil {
			fail("indicators", err)
			return
		}
		snap.Technical = t
	}()

	var articles []models.NewsArticle
	wg.Add(1)
	go func() {
		defer wg.Done()
		arts, err := b.news.Recent(ctx, p.Symbol, p.NewsDays, p.NewsLimit)
		if err != nil {
			fail("news", err)
			return
		}
		articles = arts
	}()

	wg.Wait()

	// Sentiment runs after news: it is pure computation over the headlines.
	if len(articles) > 0 {
		headlines := make([]string, 0, len(articles))
		for _, a := range articles {
			headlines = append(headlines, a.Title)
		}
		summary := b.sentiment.Analyze(headlines)
		snap.Sentiment = &summary
		snap.NewsArticleCount = len(articles)
	}

	if len(sourceErrs) == 0 {
		sourceErrs = nil
	}
	return snap, articles, sourceErrs
}
