package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketIntel/internal/domain/models"
)

type stubPublisher struct {
	published []*models.Trade
	err       error
}

func (s *stubPublisher) Publish(_ context.Context, t *models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, t)
	return nil
}

func (s *stubPublisher) PublishBatch(_ context.Context, trades []*models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.published = append(s.published, trades...)
	return nil
}

func (s *stubPublisher) Close() error { return nil }

type stubStorage struct {
	stored []*models.Trade
	err    error
}

func (s *stubStorage) Store(_ context.Context, t *models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, t)
	return nil
}

func (s *stubStorage) StoreBatch(_ context.Context, trades []*models.Trade) error {
	if s.err != nil {
		return s.err
	}
	s.stored = append(s.stored, trades...)
	return nil
}

func (s *stubStorage) Query(context.Context, string, time.Time, time.Time, int) ([]*models.Trade, error) {
	return nil, nil
}

func (s *stubStorage) Health(context.Context) error { return nil }
func (s *stubStorage) Close() error                 { return nil }

type countingMetrics struct {
	errors map[string]int
	sent   int
}

func (m *countingMetrics) RecordMessageSent(string, string) { m.sent++ }
func (m *countingMetrics) RecordError(kind string) {
	if m.errors == nil {
		m.errors = make(map[string]int)
	}
	m.errors[kind]++
}
func (m *countingMetrics) RecordLastPrice(string, float64)  {}
func (m *countingMetrics) RecordLatency(string, float64)    {}
func (m *countingMetrics) RecordSignal(string, string)      {}

func sampleTrade() *models.Trade {
	return &models.Trade{Symbol: "AAPL", Price: 190.5, Volume: 100, Timestamp: 1741944600}
}

func TestProcessorRoutesToKafka(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubStorage{}
	p := NewTradeProcessor(pub, store, &countingMetrics{}, "kafka", 100, 0)

	if err := p.Process(context.Background(), sampleTrade()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected 1 published trade, got %d", len(pub.published))
	}
	if len(store.stored) != 0 {
		t.Fatalf("clickhouse should not be written on kafka backend")
	}
}

func TestProcessorRoutesToClickHouse(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubStorage{}
	p := NewTradeProcessor(pub, store, &countingMetrics{}, "clickhouse", 100, 0)

	if err := p.Process(context.Background(), sampleTrade()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored trade, got %d", len(store.stored))
	}
}

func TestProcessorRejectsUnknownBackend(t *testing.T) {
	p := NewTradeProcessor(&stubPublisher{}, &stubStorage{}, &countingMetrics{}, "postgres", 100, 0)
	if err := p.Process(context.Background(), sampleTrade()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestProcessorBatch(t *testing.T) {
	pub := &stubPublisher{}
	m := &countingMetrics{}
	p := NewTradeProcessor(pub, &stubStorage{}, m, "kafka", 100, 0)

	trades := []*models.Trade{sampleTrade(), sampleTrade(), sampleTrade()}
	if err := p.ProcessBatch(context.Background(), trades); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pub.published) != 3 {
		t.Fatalf("expected 3 published trades, got %d", len(pub.published))
	}
	if m.sent != 3 {
		t.Fatalf("expected 3 sent metrics, got %d", m.sent)
	}
}

func TestProcessorRecordsErrors(t *testing.T) {
	pub := &stubPublisher{err: errors.New("broker down")}
	m := &countingMetrics{}
	p := NewTradeProcessor(pub, &stubStorage{}, m, "kafka", 100, 0)

	if err := p.Process(context.Background(), sampleTrade()); err == nil {
		t.Fatalf("expected publish error to propagate")
	}
	if m.errors["process"] != 1 {
		t.Fatalf("expected process error metric, got %v", m.errors)
	}
}

func TestTicksHandlerStoresTick(t *testing.T) {
	store := &stubStorage{}
	h := NewKafkaTicksHandler("ticks", store, &countingMetrics{})

	if got := h.Topic(); got != "ticks" {
		t.Fatalf("unexpected topic %q", got)
	}

	// millisecond timestamp gets folded to seconds
	payload := []byte(`{"symbol":"TSLA","t":1741944600123,"c":181.25,"v":42}`)
	if err := h.Handle(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("expected 1 stored tick, got %d", len(store.stored))
	}
	tick := store.stored[0]
	if tick.Timestamp != 1741944600 {
		t.Fatalf("timestamp not folded to seconds: %d", tick.Timestamp)
	}
	if tick.Symbol != "TSLA" || tick.Price != 181.25 {
		t.Fatalf("unexpected tick %+v", tick)
	}
}

func TestTicksHandlerRejectsGarbage(t *testing.T) {
	m := &countingMetrics{}
	h := NewKafkaTicksHandler("ticks", &stubStorage{}, m)

	if err := h.Handle(context.Background(), []byte("{not json")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if m.errors["consumer_unmarshal"] != 1 {
		t.Fatalf("expected unmarshal error metric, got %v", m.errors)
	}
}
