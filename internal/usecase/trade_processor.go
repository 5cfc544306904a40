package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketIntel/internal/domain/models"
	drepo "MarketIntel/internal/domain/repository"
)

// TradeProcessor routes ticks to the configured backend. With the kafka
// backend ticks go onto the bus and the consumer drains them into
// ClickHouse; with the clickhouse backend they are written directly.
type TradeProcessor struct {
	pub     drepo.TickPublisher
	store   drepo.TickStorage
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

func NewTradeProcessor(
	pub drepo.TickPublisher,
	store drepo.TickStorage,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *TradeProcessor {
	return &TradeProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

func (p *TradeProcessor) Process(ctx context.Context, t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}

	start := time.Now()
	err := p.route(ctx, func() error { return p.pub.Publish(ctx, t) },
		func() error { return p.store.Store(ctx, t) })
	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process trade: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, t.Symbol)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())
	return nil
}

func (p *TradeProcessor) ProcessBatch(ctx context.Context, trades []*models.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	start := time.Now()
	err := p.route(ctx, func() error { return p.pub.PublishBatch(ctx, trades) },
		func() error { return p.store.StoreBatch(ctx, trades) })
	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, t := range trades {
		p.metrics.RecordMessageSent(p.backend, t.Symbol)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())
	return nil
}

func (p *TradeProcessor) route(_ context.Context, toKafka, toStore func() error) error {
	switch p.backend {
	case "kafka":
		return toKafka()
	case "clickhouse":
		return toStore()
	default:
		return fmt.Errorf("unknown backend: %s", p.backend)
	}
}

// Close releases the backend clients.
func (p *TradeProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
