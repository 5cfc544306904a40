package middleware

import (
	"context"
	"fmt"
	"testing"
	"time"

	"MarketIntel/internal/domain/models"
	"MarketIntel/pkg/logger"
)

type stubSink struct {
	trades []*models.Trade
	err    error
}

func (s *stubSink) Process(_ context.Context, t *models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.trades = append(s.trades, t)
	return nil
}

type stubMetrics struct {
	errors map[string]int
}

func (m *stubMetrics) RecordMessageSent(string, string)  {}
func (m *stubMetrics) RecordLastPrice(string, float64)   {}
func (m *stubMetrics) RecordLatency(string, float64)     {}
func (m *stubMetrics) RecordSignal(string, string)       {}
func (m *stubMetrics) RecordError(kind string) {
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func validTrade(symbol string) *models.Trade {
	return &models.Trade{Symbol: symbol, Timestamp: time.Now().Unix(), Price: 100, Volume: 5}
}

func TestPipelineRejectsInvalidTrades(t *testing.T) {
	sink := &stubSink{}
	p := NewRealtimePipeline(sink, &stubMetrics{}, testLogger(t))

	cases := []*models.Trade{
		nil,
		{Symbol: "", Timestamp: 1, Price: 1, Volume: 1},
		{Symbol: "AAPL", Timestamp: 0, Price: 1, Volume: 1},
		{Symbol: "AAPL", Timestamp: 1, Price: -1, Volume: 1},
	}
	for i, tr := range cases {
		if err := p.Process(context.Background(), tr); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(sink.trades) != 0 {
		t.Fatalf("invalid trades reached sink: %d", len(sink.trades))
	}
}

func TestPipelineForwardsValidTrade(t *testing.T) {
	sink := &stubSink{}
	p := NewRealtimePipeline(sink, &stubMetrics{}, testLogger(t))

	if err := p.Process(context.Background(), validTrade("AAPL")); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(sink.trades) != 1 {
		t.Fatalf("want 1 forwarded trade, got %d", len(sink.trades))
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	sink := &stubSink{}
	p := NewRealtimePipeline(sink, &stubMetrics{}, testLogger(t), WithMaxRPS(1))

	// Two immediate trades on the same symbol: second is throttled.
	if err := p.Process(context.Background(), validTrade("AAPL")); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := p.Process(context.Background(), validTrade("AAPL")); err != nil {
		t.Fatalf("throttled trade should drop silently: %v", err)
	}
	// A different symbol is not affected.
	if err := p.Process(context.Background(), validTrade("MSFT")); err != nil {
		t.Fatalf("other symbol: %v", err)
	}
	if len(sink.trades) != 2 {
		t.Fatalf("want 2 forwarded trades, got %d", len(sink.trades))
	}
}

func TestPipelineBuffersOnSinkFailure(t *testing.T) {
	sink := &stubSink{err: fmt.Errorf("down")}
	metrics := &stubMetrics{}
	p := NewRealtimePipeline(sink, metrics, testLogger(t), WithBufferSize(4))

	if err := p.Process(context.Background(), validTrade("AAPL")); err == nil {
		t.Fatal("expected downstream error")
	}
	if len(p.buf) != 1 {
		t.Fatalf("want 1 buffered trade, got %d", len(p.buf))
	}
	if metrics.errors["pipeline_process"] != 1 {
		t.Fatalf("want pipeline_process error recorded, got %v", metrics.errors)
	}
}
