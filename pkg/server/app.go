package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketIntel/internal/usecase"
	pkgch "MarketIntel/pkg/clickhouse"
	"MarketIntel/pkg/config"
	xhttp "MarketIntel/pkg/http"
	pkgkafka "MarketIntel/pkg/kafka"
	"MarketIntel/pkg/logger"
)

// App owns the application lifecycle: the HTTP API always runs; the tick
// ingestion path (Finnhub collector plus the Kafka drain into ClickHouse)
// runs only when enabled in config.
type App struct {
	cfg        *config.Config
	log        *logger.Logger
	handler    xhttp.Handler
	collector  *usecase.TradeCollector
	consumer   *pkgkafka.Consumer
	kh         *usecase.KafkaTicksHandler
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	collector *usecase.TradeCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		handler:   handler,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		producer:  producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start failed", logger.Error(err))
		return err
	}
	a.log.Info("http server started", logger.Int("port", a.cfg.Server.Port))

	if a.cfg.Finnhub.Enabled {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("collector start failed", logger.Error(err))
			}
		}()
		a.log.Info("tick collector started",
			logger.Strings("symbols", a.cfg.Finnhub.Symbols),
			logger.String("backend", a.cfg.Backend.Type))

		if a.cfg.Backend.Type == "kafka" && a.consumer != nil && a.kh != nil {
			a.consumer.RegisterHandler(a.kh)
			go func() {
				if err := a.consumer.Start(); err != nil {
					a.log.Error("kafka consumer failed", logger.Error(err))
				}
			}()
			a.log.Info("kafka consumer started", logger.String("topic", a.kh.Topic()))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops ingestion first so nothing writes during teardown, then
// drains the HTTP server and closes infrastructure clients.
func (a *App) shutdown(ctx context.Context) error {
	if a.cfg.Finnhub.Enabled && a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("collector stop error", logger.Error(err))
		}
		if proc := a.collector.Processor(); proc != nil {
			proc.Close()
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", logger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", logger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
