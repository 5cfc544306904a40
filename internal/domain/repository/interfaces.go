package repository

import (
	"context"
	"time"

	"MarketIntel/internal/domain/models"
)

type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Trade, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalPublisher fans generated signals out to downstream consumers
// (alerting, dashboards). Signals are published, never persisted here.
type SignalPublisher interface {
	Publish(ctx context.Context, res *models.SignalResult) error
	Close() error
}

// TickPublisher routes raw ticks onto the message bus.
type TickPublisher interface {
	Publish(ctx context.Context, t *models.Trade) error
	PublishBatch(ctx context.Context, trades []*models.Trade) error
	Close() error
}

// TickStorage persists intraday ticks for the dashboard tape.
type TickStorage interface {
	Store(ctx context.Context, t *models.Trade) error
	StoreBatch(ctx context.Context, trades []*models.Trade) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Trade, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
	RecordSignal(action, riskLevel string)
}
