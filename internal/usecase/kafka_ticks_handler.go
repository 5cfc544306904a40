package usecase

import (
	"context"
	"encoding/json"
	"time"

	"MarketIntel/internal/domain/models"
	drepo "MarketIntel/internal/domain/repository"
	pkgkafka "MarketIntel/pkg/kafka"
)

// tickMessage is the wire shape published to the tick topic.
type tickMessage struct {
	Symbol string  `json:"symbol"`
	T      int64   `json:"t"`
	C      float64 `json:"c"`
	V      float64 `json:"v"`
}

// KafkaTicksHandler drains the tick topic into the tick store.
type KafkaTicksHandler struct {
	topic   string
	storage drepo.TickStorage
	metrics drepo.Metrics
}

var _ pkgkafka.MessageHandler = (*KafkaTicksHandler)(nil)

func NewKafkaTicksHandler(topic string, storage drepo.TickStorage, metrics drepo.Metrics) *KafkaTicksHandler {
	return &KafkaTicksHandler{topic: topic, storage: storage, metrics: metrics}
}

func (h *KafkaTicksHandler) Topic() string { return h.topic }

func (h *KafkaTicksHandler) Handle(ctx context.Context, b []byte) error {
	var m tickMessage
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	// Timestamps arrive in either seconds or milliseconds depending on
	// the producer; fold to seconds.
	if m.T > 1e11 {
		m.T /= 1000
	}
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(m.T, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &models.Trade{
		Symbol:    m.Symbol,
		Timestamp: m.T,
		Price:     m.C,
		Volume:    m.V,
	})
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}

	h.metrics.RecordMessageSent("clickhouse", m.Symbol)
	return nil
}
