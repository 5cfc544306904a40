package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MarketIntel/internal/domain/models"
	drepo "MarketIntel/internal/domain/repository"
	"MarketIntel/pkg/logger"
)

// TradeSink is the downstream the pipeline forwards accepted trades to.
type TradeSink interface {
	Process(ctx context.Context, t *models.Trade) error
}

// RealtimePipeline sits between the market stream and the tick sink.
// It validates each trade, throttles per symbol, and buffers trades
// for retry when the sink is temporarily failing.
type RealtimePipeline struct {
	sink    TradeSink
	metrics drepo.Metrics
	log     *logger.Logger
	maxRPS  int
	buf     chan *models.Trade
	stopCh  chan struct{}

	mu       sync.Mutex
	started  bool
	lastSeen map[string]time.Time
}

type PipelineOption func(*RealtimePipeline)

// WithMaxRPS caps accepted trades per second per symbol.
func WithMaxRPS(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.maxRPS = n
		}
	}
}

// WithBufferSize sets the retry buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *RealtimePipeline) {
		if n > 0 {
			p.buf = make(chan *models.Trade, n)
		}
	}
}

// NewRealtimePipeline creates a pipeline with a 20 rps per-symbol
// throttle and a 1000-trade retry buffer unless overridden.
func NewRealtimePipeline(sink TradeSink, metrics drepo.Metrics, log *logger.Logger, opts ...PipelineOption) *RealtimePipeline {
	p := &RealtimePipeline{
		sink:     sink,
		metrics:  metrics,
		log:      log,
		maxRPS:   20,
		buf:      make(chan *models.Trade, 1000),
		stopCh:   make(chan struct{}),
		lastSeen: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background retry loop for buffered trades.
func (p *RealtimePipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go p.flushLoop(ctx)
}

func (p *RealtimePipeline) flushLoop(ctx context.Context) {
	backoff := 50 * time.Millisecond
	for {
		select {
		case <-p.stopCh:
			return
		case <-ctx.Done():
			return
		case t := <-p.buf:
			if t == nil {
				continue
			}
			if err := p.sink.Process(ctx, t); err != nil {
				if backoff < 2*time.Second {
					backoff *= 2
				}
				p.metrics.RecordError("pipeline_flush")
				select {
				case <-time.After(backoff):
				case <-p.stopCh:
					return
				}
				select {
				case p.buf <- t:
				default:
					p.metrics.RecordError("pipeline_buffer_drop")
				}
				continue
			}
			backoff = 50 * time.Millisecond
		}
	}
}

// Stop halts the retry loop. Trades still in the buffer are dropped.
func (p *RealtimePipeline) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return
	}
	p.started = false
	close(p.stopCh)
}

// Process validates and forwards one trade. A failed forward goes to
// the retry buffer; a throttled trade is dropped without error.
func (p *RealtimePipeline) Process(ctx context.Context, t *models.Trade) error {
	start := time.Now()
	if err := validateTrade(t); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.allow(t.Symbol, start) {
		p.metrics.RecordError("pipeline_throttle")
		return nil
	}

	if err := p.sink.Process(ctx, t); err != nil {
		p.metrics.RecordError("pipeline_process")
		select {
		case p.buf <- t:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
			p.log.Warn("retry buffer full, dropping trade",
				logger.String("symbol", t.Symbol))
		}
		return fmt.Errorf("pipeline downstream: %w", err)
	}
	p.metrics.RecordLatency("pipeline_process", time.Since(start).Seconds())
	return nil
}

func validateTrade(t *models.Trade) error {
	if t == nil {
		return fmt.Errorf("trade is nil")
	}
	if t.Symbol == "" {
		return fmt.Errorf("trade symbol is empty")
	}
	if t.Timestamp <= 0 {
		return fmt.Errorf("trade timestamp %d is invalid", t.Timestamp)
	}
	if t.Price < 0 || t.Volume < 0 {
		return fmt.Errorf("trade has negative price or volume")
	}
	return nil
}

func (p *RealtimePipeline) allow(symbol string, now time.Time) bool {
	if p.maxRPS <= 0 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	last, ok := p.lastSeen[symbol]
	if ok && now.Sub(last) < time.Second/time.Duration(p.maxRPS) {
		return false
	}
	p.lastSeen[symbol] = now
	return true
}
