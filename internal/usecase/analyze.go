package usecase

import (
	"context"
	"time"

	"MarketIntel/internal/domain/models"
	domrepo "MarketIntel/internal/domain/repository"
	"MarketIntel/internal/services/engine"
	"MarketIntel/pkg/logger"
)

// AnalyzeUseCase drives the full signal flow: build a snapshot, run the
// engine, record metrics, and fan the result out to the bus.
type AnalyzeUseCase struct {
	builder   *SnapshotBuilder
	engine    *engine.Engine
	publisher domrepo.SignalPublisher
	metrics   domrepo.Metrics
	log       *logger.Logger
}

func NewAnalyzeUseCase(builder *SnapshotBuilder, eng *engine.Engine, publisher domrepo.SignalPublisher, metrics domrepo.Metrics, log *logger.Logger) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		builder:   builder,
		engine:    eng,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

// AnalyzeResult pairs the signal with snapshot assembly diagnostics so the
// API can tell callers which sources degraded.
type AnalyzeResult struct {
	Signal       *models.SignalResult `json:"signal"`
	SourceErrors map[string]string    `json:"source_errors,omitempty"`
}

func (uc *AnalyzeUseCase) Analyze(ctx context.Context, req models.SignalRequest) (*AnalyzeResult, error) {
	start := time.Now()

	snap, _, sourceErrs := uc.builder.Build(ctx, BuildParams{
		Symbol:   req.Symbol,
		Exchange: req.Exchange,
		NewsDays: req.Days,
	})

	res, err := uc.engine.Generate(snap)
	if err != nil {
		uc.metrics.RecordError("engine")
		return nil, err
	}

	uc.metrics.RecordSignal(string(res.Action), string(res.RiskLevel))
	uc.metrics.RecordLatency("analyze", time.Since(start).Seconds())

	// Publishing is best-effort; a dead broker must not fail the request.
	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, res); err != nil {
			uc.metrics.RecordError("signal_publish")
			uc.log.Warn("signal publish failed",
				logger.String("symbol", res.Symbol),
				logger.Error(err))
		}
	}

	uc.log.Info("signal generated",
		logger.String("symbol", res.Symbol),
		logger.String("action", string(res.Action)),
		logger.Float64("confidence", res.Confidence),
		logger.Float64("buy_score", res.BuyScore),
		logger.Float64("sell_score", res.SellScore),
		logger.String("risk", string(res.RiskLevel)),
		logger.Duration("elapsed", time.Since(start)))

	return &AnalyzeResult{Signal: res, SourceErrors: sourceErrs}, nil
}
