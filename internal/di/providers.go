package di

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"MarketIntel/internal/domain/repository"
	domsvc "MarketIntel/internal/domain/service"
	"MarketIntel/internal/handler/api"
	mid "MarketIntel/internal/middleware"
	internalrepo "MarketIntel/internal/repository"
	icache "MarketIntel/internal/service/cache"
	"MarketIntel/internal/service/finnhub"
	"MarketIntel/internal/services/engine"
	"MarketIntel/internal/services/indicators"
	"MarketIntel/internal/services/news"
	"MarketIntel/internal/services/quotes"
	"MarketIntel/internal/services/sentiment"
	"MarketIntel/internal/usecase"
	pkgcache "MarketIntel/pkg/cache"
	pkgch "MarketIntel/pkg/clickhouse"
	"MarketIntel/pkg/config"
	pkghttp "MarketIntel/pkg/http"
	pkgkafka "MarketIntel/pkg/kafka"
	"MarketIntel/pkg/logger"
	"MarketIntel/pkg/metrics"
	"MarketIntel/pkg/server"

	"gopkg.in/yaml.v3"
)

// ProvideLogger builds the application logger. Production gets JSON,
// everything else gets the console writer.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRules loads the signal calibration: built-in defaults, overlaid
// with the rules file when one is configured.
func ProvideRules(cfg *config.Config) (engine.Rules, error) {
	rules := engine.DefaultRules()
	if cfg.Signals.RulesFile == "" {
		return rules, nil
	}
	b, err := os.ReadFile(cfg.Signals.RulesFile)
	if err != nil {
		return rules, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(b, &rules); err != nil {
		return rules, fmt.Errorf("parse rules file: %w", err)
	}
	return rules, nil
}

// ProvideEngine creates the signal engine.
func ProvideEngine(rules engine.Rules) *engine.Engine {
	return engine.New(rules)
}

// ProvideFMPClient creates the Financial Modeling Prep client. FMP backs
// quotes, fundamentals, and daily candles.
func ProvideFMPClient(cfg *config.Config) *quotes.FMPClient {
	hc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Providers.FMP.Timeout))
	return quotes.NewFMPClient(hc, cfg.Providers.FMP.BaseURL, cfg.Providers.FMP.APIKey)
}

// ProvideQuoteProvider chains quote sources: FMP first, Alpha Vantage as
// the fallback when it is configured. Fresh quotes stay cached for a short
// window so repeated lookups do not hammer the upstreams.
func ProvideQuoteProvider(cfg *config.Config, fmp *quotes.FMPClient, dataCache pkgcache.Service, log *logger.Logger) domsvc.QuoteProvider {
	sources := []domsvc.QuoteProvider{fmp}
	if cfg.Providers.AlphaVantage.APIKey != "" {
		hc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Providers.AlphaVantage.Timeout))
		av := quotes.NewAlphaVantageClient(hc, cfg.Providers.AlphaVantage.BaseURL, cfg.Providers.AlphaVantage.APIKey)
		sources = append(sources, av)
	}
	return quotes.NewMultiSource(log, sources, quotes.WithQuoteCache(dataCache, 30*time.Second))
}

// ProvideFundamentalsProvider serves fundamentals from FMP.
func ProvideFundamentalsProvider(fmp *quotes.FMPClient) domsvc.FundamentalsProvider {
	return fmp
}

// ProvideDataCache builds the provider-side cache for fetched market data.
// Redis-backed layered cache when Redis is configured, in-memory otherwise.
func ProvideDataCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled || cfg.Cache.Redis.Addr == "" {
		return pkgcache.NewMemoryCache(), nil
	}
	host, port := splitHostPort(cfg.Cache.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPrefix("marketintel"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, 6379
	}
	return host, port
}

// ProvideIndicatorProvider computes indicators from FMP daily candles,
// cached per symbol.
func ProvideIndicatorProvider(cfg *config.Config, dataCache pkgcache.Service, log *logger.Logger) domsvc.IndicatorProvider {
	hc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Providers.FMP.Timeout))
	return indicators.NewProvider(hc, cfg.Providers.FMP.BaseURL, cfg.Providers.FMP.APIKey, log,
		indicators.WithCandleCache(dataCache, cfg.Signals.CacheTTL))
}

// ProvideNewsProvider creates the NewsAPI client.
func ProvideNewsProvider(cfg *config.Config, dataCache pkgcache.Service) domsvc.NewsProvider {
	hc := pkghttp.NewClient(pkghttp.WithTimeout(cfg.Providers.NewsAPI.Timeout))
	return news.NewClient(hc, cfg.Providers.NewsAPI.BaseURL, cfg.Providers.NewsAPI.APIKey,
		news.WithArticleCache(dataCache, 10*time.Minute))
}

// ProvideSentimentProvider creates the headline sentiment analyzer.
func ProvideSentimentProvider() domsvc.SentimentProvider {
	return sentiment.NewAnalyzer()
}

// ProvideSnapshotBuilder assembles the snapshot fan-out.
func ProvideSnapshotBuilder(
	cfg *config.Config,
	q domsvc.QuoteProvider,
	f domsvc.FundamentalsProvider,
	ind domsvc.IndicatorProvider,
	n domsvc.NewsProvider,
	s domsvc.SentimentProvider,
	log *logger.Logger,
) *usecase.SnapshotBuilder {
	return usecase.NewSnapshotBuilder(usecase.SnapshotBuilderParams{
		Quotes:       q,
		Fundamentals: f,
		Indicators:   ind,
		News:         n,
		Sentiment:    s,
		Logger:       log,
		FetchTimeout: cfg.Signals.FetchTimeout,
	})
}

// ProvideSignalPublisher fans signals onto Kafka when a topic is set,
// otherwise publishing is a no-op.
func ProvideSignalPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.SignalPublisher {
	if cfg.Signals.Topic == "" || producer == nil {
		return internalrepo.NopSignalPublisher{}
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Signals.Topic)
}

// ProvideAnalyzeUseCase creates the end-to-end signal flow.
func ProvideAnalyzeUseCase(
	builder *usecase.SnapshotBuilder,
	eng *engine.Engine,
	pub repository.SignalPublisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.AnalyzeUseCase {
	return usecase.NewAnalyzeUseCase(builder, eng, pub, m, log)
}

// ProvideBytesCache picks Redis when configured, in-process TTL otherwise.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled && cfg.Cache.Redis.Addr != "" {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the
// tick schema exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		`CREATE TABLE IF NOT EXISTS ` + db + `.ticks (
			event_id String,
			seq UInt64,
			symbol String,
			ts DateTime64(3),
			price Float64,
			volume Float64,
			source LowCardinality(String)
		) ENGINE = ReplacingMergeTree ORDER BY (symbol, ts, event_id)`,
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideTickStorage creates the ClickHouse tick repository.
func ProvideTickStorage(chClient *pkgch.Client, cfg *config.Config) repository.TickStorage {
	return internalrepo.NewClickHouseTickStorage(chClient.DB(), cfg.ClickHouse.Database+".ticks")
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideTickPublisher creates the Kafka tick publisher.
func ProvideTickPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.TickPublisher {
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer for the ticks topic.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaTicksHandler drains the ticks topic into ClickHouse.
func ProvideKafkaTicksHandler(store repository.TickStorage, m repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, store, m)
}

// ProvideFinnhubStream creates the Finnhub WebSocket stream.
func ProvideFinnhubStream(cfg *config.Config, log *logger.Logger) repository.MarketStream {
	return finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
		log,
	)
}

// ProvideTradeProcessor routes ticks to the configured backend.
func ProvideTradeProcessor(
	pub repository.TickPublisher,
	store repository.TickStorage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TradeProcessor {
	return usecase.NewTradeProcessor(
		pub,
		store,
		m,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideTradeCollector wires the stream through the realtime pipeline
// into the processor.
func ProvideTradeCollector(
	stream repository.MarketStream,
	processor *usecase.TradeProcessor,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.TradeCollector {
	pipe := mid.NewRealtimePipeline(processor, m, log,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTradeCollector(stream, processor, m, pipe)
}

// ProvideTapeUseCase serves the tick tape from storage.
func ProvideTapeUseCase(store repository.TickStorage) *usecase.TapeUseCase {
	return usecase.NewTapeUseCase(store)
}

// ProvideAnalysisHandler builds the HTTP API handler.
func ProvideAnalysisHandler(
	cfg *config.Config,
	log *logger.Logger,
	analyze *usecase.AnalyzeUseCase,
	tape *usecase.TapeUseCase,
	q domsvc.QuoteProvider,
	ind domsvc.IndicatorProvider,
	n domsvc.NewsProvider,
	s domsvc.SentimentProvider,
	cache icache.BytesCache,
) *api.AnalysisHandler {
	return api.NewAnalysisHandler(api.AnalysisHandlerParams{
		Logger:            log,
		Analyze:           analyze,
		Tape:              tape,
		Quotes:            q,
		Indicators:        ind,
		News:              n,
		Sentiment:         s,
		Cache:             cache,
		CacheTTL:          cfg.Signals.CacheTTL,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Burst:             cfg.RateLimit.Burst,
	})
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	rec repository.Metrics,
	handler *api.AnalysisHandler,
	collector *usecase.TradeCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.ObserveHook{
			ObserveLatency: func(topic string, seconds float64) {
				rec.RecordLatency("kafka_consume", seconds)
			},
			CountError: func(topic string) {
				rec.RecordError("kafka_consume")
			},
		})
	}
	return server.New(cfg, log, handler, collector, consumer, kh, chClient, producer)
}
