package repository

import (
	"context"

	"MarketIntel/internal/domain/models"
	"MarketIntel/internal/domain/repository"
	pkgkafka "MarketIntel/pkg/kafka"
)

// KafkaSignalPublisher fans generated signals onto the signals topic, keyed
// by symbol so consumers see per-symbol ordering.
type KafkaSignalPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaSignalPublisher(producer *pkgkafka.Producer, topic string) repository.SignalPublisher {
	return &KafkaSignalPublisher{producer: producer, topic: topic}
}

func (p *KafkaSignalPublisher) Publish(ctx context.Context, res *models.SignalResult) error {
	return p.producer.Publish(ctx, p.topic, []byte(res.Symbol), res)
}

func (p *KafkaSignalPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopSignalPublisher is used when no broker is configured.
type NopSignalPublisher struct{}

func (NopSignalPublisher) Publish(context.Context, *models.SignalResult) error { return nil }
func (NopSignalPublisher) Close() error                                        { return nil }
