package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MarketIntel/internal/domain/models"
	"MarketIntel/internal/services/engine"
	"MarketIntel/internal/services/sentiment"
	"MarketIntel/internal/usecase"
	"MarketIntel/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubQuotes struct{}

func (stubQuotes) Quote(_ context.Context, symbol, _ string) (*models.Quote, error) {
	return &models.Quote{
		Symbol:        symbol,
		Current:       models.Ptr(150.0),
		ChangePercent: models.Ptr(1.2),
		Source:        "stub",
	}, nil
}

type stubFundamentals struct{}

func (stubFundamentals) Fundamentals(_ context.Context, _ string) (*models.Fundamentals, error) {
	return &models.Fundamentals{Beta: models.Ptr(1.1)}, nil
}

type stubIndicators struct{}

func (stubIndicators) Indicators(_ context.Context, _ string, _ int) (*models.TechnicalIndicators, error) {
	return &models.TechnicalIndicators{RSI: models.Ptr(28.0)}, nil
}

type stubNews struct{}

func (stubNews) Recent(_ context.Context, symbol string, _, _ int) ([]models.NewsArticle, error) {
	return []models.NewsArticle{
		{Title: symbol + " beats earnings expectations"},
		{Title: symbol + " announces record growth"},
	}, nil
}

type stubTickStore struct {
	ticks []*models.Trade
}

func (s *stubTickStore) Store(context.Context, *models.Trade) error        { return nil }
func (s *stubTickStore) StoreBatch(context.Context, []*models.Trade) error { return nil }
func (s *stubTickStore) Query(_ context.Context, symbol string, _, _ time.Time, _ int) ([]*models.Trade, error) {
	return s.ticks, nil
}
func (s *stubTickStore) Health(context.Context) error { return nil }
func (s *stubTickStore) Close() error                 { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordMessageSent(string, string) {}
func (nopMetrics) RecordError(string)               {}
func (nopMetrics) RecordLastPrice(string, float64)  {}
func (nopMetrics) RecordLatency(string, float64)    {}
func (nopMetrics) RecordSignal(string, string)      {}

func newTestHandler(t *testing.T, burst int) *AnalysisHandler {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	builder := usecase.NewSnapshotBuilder(usecase.SnapshotBuilderParams{
		Quotes:       stubQuotes{},
		Fundamentals: stubFundamentals{},
		Indicators:   stubIndicators{},
		News:         stubNews{},
		Sentiment:    sentiment.NewAnalyzer(),
		Logger:       log,
	})
	analyze := usecase.NewAnalyzeUseCase(builder, engine.New(engine.DefaultRules()), nil, nopMetrics{}, log)
	tape := usecase.NewTapeUseCase(&stubTickStore{
		ticks: []*models.Trade{{Symbol: "AAPL", Timestamp: 1700000000, Price: 150, Volume: 10}},
	})

	return NewAnalysisHandler(AnalysisHandlerParams{
		Logger:            log,
		Analyze:           analyze,
		Tape:              tape,
		Quotes:            stubQuotes{},
		Indicators:        stubIndicators{},
		News:              stubNews{},
		Sentiment:         sentiment.NewAnalyzer(),
		RequestsPerMinute: 600,
		Burst:             burst,
	})
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doGet(t *testing.T, h *AnalysisHandler, target string) envelope {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func TestSignalEndpoint(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/api/signal?symbol=AAPL")
	if env.Status != 200 {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var res usecase.AnalyzeResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Signal == nil || res.Signal.Symbol != "AAPL" {
		t.Fatalf("unexpected signal payload: %+v", res.Signal)
	}
	if res.Signal.Action != models.ActionBuy {
		t.Fatalf("action = %s, want BUY for oversold bullish snapshot", res.Signal.Action)
	}
}

func TestSignalEndpointRequiresSymbol(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/api/signal")
	if env.Status != 400 {
		t.Fatalf("status = %d, want 400", env.Status)
	}
}

func TestSignalEndpointRateLimited(t *testing.T) {
	h := newTestHandler(t, 1)
	e := echo.New()
	h.RegisterRoutes(e)

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/signal?symbol=AAPL", nil))
	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/signal?symbol=AAPL", nil))

	var env envelope
	if err := json.Unmarshal(second.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Status != 429 {
		t.Fatalf("second request status = %d, want 429", env.Status)
	}
}

func TestQuoteEndpoint(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/api/quote?symbol=MSFT")
	if env.Status != 200 {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var q models.Quote
	if err := json.Unmarshal(env.Data, &q); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if q.Symbol != "MSFT" || q.Current == nil || *q.Current != 150.0 {
		t.Fatalf("unexpected quote: %+v", q)
	}
}

func TestSentimentEndpoint(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/api/sentiment?symbol=AAPL")
	if env.Status != 200 {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var s models.SentimentSummary
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode sentiment: %v", err)
	}
	if s.Label != "positive" || s.Analyzed != 2 {
		t.Fatalf("sentiment = %+v, want positive over 2 headlines", s)
	}
}

func TestTapeEndpoint(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/api/tape?symbol=AAPL")
	if env.Status != 200 {
		t.Fatalf("status = %d, want 200", env.Status)
	}
	var res usecase.GetTapeResult
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode tape: %v", err)
	}
	if res.Count != 1 || len(res.Ticks) != 1 {
		t.Fatalf("tape count = %d, want 1", res.Count)
	}
}

func TestHealthEndpoint(t *testing.T) {
	h := newTestHandler(t, 10)
	env := doGet(t, h, "/healthz")
	if env.Status != 200 {
		t.Fatalf("status = %d, want 200", env.Status)
	}
}
