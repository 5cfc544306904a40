//go:build wireinject
// +build wireinject

package di

import (
	"MarketIntel/pkg/config"
	"MarketIntel/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Signal engine
		ProvideRules,
		ProvideEngine,

		// Data providers
		ProvideFMPClient,
		ProvideQuoteProvider,
		ProvideFundamentalsProvider,
		ProvideIndicatorProvider,
		ProvideNewsProvider,
		ProvideSentimentProvider,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideDataCache,
		ProvideBytesCache,

		// Repositories
		ProvideTickStorage,
		ProvideTickPublisher,
		ProvideSignalPublisher,
		ProvideFinnhubStream,

		// Use cases
		ProvideSnapshotBuilder,
		ProvideAnalyzeUseCase,
		ProvideTapeUseCase,
		ProvideTradeProcessor,
		ProvideTradeCollector,
		ProvideKafkaTicksHandler,

		// HTTP + application
		ProvideAnalysisHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
