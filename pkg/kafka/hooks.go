package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook defines lifecycle hooks around message handling. Hooks may
// mutate context, message, and payload. A non-nil error from BeforeHandle
// skips the handler and triggers error processing (OnError, DLQ, commit).
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error)
	AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
	OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return ctx, km, data, nil
}

func (NoopHook) AfterHandle(context.Context, string, kafka.Message, []byte, error) {}

func (NoopHook) OnError(context.Context, string, kafka.Message, []byte, error) {}

type hookStartKey struct{}

// ObserveHook measures per-message handling latency and counts handler
// errors. Both callbacks are optional. Callbacks run with recover so a
// misbehaving observer never crashes the consumer loop.
type ObserveHook struct {
	ObserveLatency func(topic string, seconds float64)
	CountError     func(topic string)
}

func (h ObserveHook) BeforeHandle(ctx context.Context, topic string, km kafka.Message, data []byte) (context.Context, kafka.Message, []byte, error) {
	return context.WithValue(ctx, hookStartKey{}, time.Now()), km, data, nil
}

func (h ObserveHook) AfterHandle(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.ObserveLatency == nil {
		return
	}
	start, ok := ctx.Value(hookStartKey{}).(time.Time)
	if !ok {
		return
	}
	defer swallowPanic()
	h.ObserveLatency(topic, time.Since(start).Seconds())
}

func (h ObserveHook) OnError(ctx context.Context, topic string, km kafka.Message, data []byte, err error) {
	if h.CountError == nil {
		return
	}
	defer swallowPanic()
	h.CountError(topic)
}

func swallowPanic() {
	recover()
}
