package usecase

import (
	"context"

	"MarketIntel/internal/domain/models"
	drepo "MarketIntel/internal/domain/repository"
	mid "MarketIntel/internal/middleware"
)

// TradeCollector owns the realtime ingest loop. It connects the market
// stream, pushes trades through the pipeline, and reconnects when the
// stream drops its channels.
type TradeCollector struct {
	stream  drepo.MarketStream
	proc    *TradeProcessor
	metrics drepo.Metrics
	pipe    *mid.RealtimePipeline
}

func NewTradeCollector(stream drepo.MarketStream, proc *TradeProcessor, metrics drepo.Metrics, pipe *mid.RealtimePipeline) *TradeCollector {
	return &TradeCollector{stream: stream, proc: proc, metrics: metrics, pipe: pipe}
}

func (c *TradeCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Processor exposes the downstream processor for lifecycle management.
func (c *TradeCollector) Processor() *TradeProcessor { return c.proc }

func (c *TradeCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	go c.run(ctx)
	return nil
}

// run drains the stream until ctx is done. The stream closes its
// channels when the connection dies, so each drain pass is followed by
// a reconnect and resubscribe.
func (c *TradeCollector) run(ctx context.Context) {
	for {
		trades, errs := c.stream.Read(ctx)
		c.drain(ctx, trades, errs)
		if ctx.Err() != nil {
			return
		}

		c.metrics.RecordError("stream")
		if err := c.stream.Reconnect(ctx); err != nil {
			return
		}
		if err := c.stream.Subscribe(ctx); err != nil {
			c.metrics.RecordError("stream_subscribe")
		}
	}
}

func (c *TradeCollector) drain(ctx context.Context, trades <-chan *models.Trade, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				c.metrics.RecordError("stream")
			}
		case t, ok := <-trades:
			if !ok {
				return
			}
			if t == nil {
				continue
			}
			c.deliver(ctx, t)
		}
	}
}

func (c *TradeCollector) deliver(ctx context.Context, t *models.Trade) {
	if c.pipe != nil {
		_ = c.pipe.Process(ctx, t)
	} else {
		_ = c.proc.Process(ctx, t)
	}
	c.metrics.RecordLastPrice(t.Symbol, t.Price)
}

func (c *TradeCollector) Stop() error { return c.stream.Close() }

// Shutdown stops the pipeline first so buffered trades flush, then
// closes the stream.
func (c *TradeCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
