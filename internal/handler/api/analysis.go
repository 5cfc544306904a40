package api

import (
	"encoding/json"
	"fmt"
	"time"

	"MarketIntel/internal/domain/models"
	domsvc "MarketIntel/internal/domain/service"
	icache "MarketIntel/internal/service/cache"
	"MarketIntel/internal/service/metrics"
	"MarketIntel/internal/service/ratelimit"
	"MarketIntel/internal/usecase"
	xhttp "MarketIntel/pkg/http"
	"MarketIntel/pkg/logger"
	"MarketIntel/pkg/util"

	"github.com/labstack/echo/v4"
)

// AnalysisHandler serves the analysis API: full trading signals plus the
// per-source endpoints behind them (quote, indicators, news, sentiment)
// and the intraday tick tape.
type AnalysisHandler struct {
	log        *logger.Logger
	analyze    *usecase.AnalyzeUseCase
	tape       *usecase.TapeUseCase
	quotes     domsvc.QuoteProvider
	indicators domsvc.IndicatorProvider
	news       domsvc.NewsProvider
	sentiment  domsvc.SentimentProvider

	cache    icache.BytesCache
	cacheTTL time.Duration
	rl       *ratelimit.Limiter
	rlBurst  float64
	rlRefill float64 // tokens per second
}

type AnalysisHandlerParams struct {
	Logger     *logger.Logger
	Analyze    *usecase.AnalyzeUseCase
	Tape       *usecase.TapeUseCase
	Quotes     domsvc.QuoteProvider
	Indicators domsvc.IndicatorProvider
	News       domsvc.NewsProvider
	Sentiment  domsvc.SentimentProvider

	Cache             icache.BytesCache // nil disables response caching
	CacheTTL          time.Duration
	RequestsPerMinute int
	Burst             int
}

func NewAnalysisHandler(p AnalysisHandlerParams) *AnalysisHandler {
	metrics.Register()
	if p.CacheTTL <= 0 {
		p.CacheTTL = 60 * time.Second
	}
	if p.RequestsPerMinute <= 0 {
		p.RequestsPerMinute = 60
	}
	if p.Burst <= 0 {
		p.Burst = 10
	}
	return &AnalysisHandler{
		log:        p.Logger,
		analyze:    p.Analyze,
		tape:       p.Tape,
		quotes:     p.Quotes,
		indicators: p.Indicators,
		news:       p.News,
		sentiment:  p.Sentiment,
		cache:      p.Cache,
		cacheTTL:   p.CacheTTL,
		rl:         ratelimit.New(),
		rlBurst:    float64(p.Burst),
		rlRefill:   float64(p.RequestsPerMinute) / 60.0,
	}
}

func (h *AnalysisHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	g.GET("/signal", h.Signal)
	g.GET("/quote", h.Quote)
	g.GET("/indicators", h.Indicators)
	g.GET("/news", h.News)
	g.GET("/sentiment", h.Sentiment)
	g.GET("/tape", h.Tape)
}

func (h *AnalysisHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// Signal runs the full pipeline for one symbol. Responses are cached per
// symbol and lookback so repeated dashboard polls do not hammer providers.
func (h *AnalysisHandler) Signal(c echo.Context) error {
	const endpoint = "signal"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.SignalRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	key := fmt.Sprintf("signal:%s:%d", req.Symbol, req.Days)
	if body, ok := h.cachedBody(key, endpoint); ok {
		return c.JSONBlob(200, body)
	}

	res, err := h.analyze.Analyze(c.Request().Context(), *req)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("signal request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("analyze %s: %v", req.Symbol, err))
	}

	h.storeBody(key, endpoint, res)
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) Quote(c echo.Context) error {
	const endpoint = "quote"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.QuoteRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	q, err := h.quotes.Quote(c.Request().Context(), req.Symbol, req.Exchange)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("quote request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no quote for %s", req.Symbol))
	}
	return xhttp.SuccessResponse(c, q)
}

func (h *AnalysisHandler) Indicators(c echo.Context) error {
	const endpoint = "indicators"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.IndicatorsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	key := fmt.Sprintf("indicators:%s:%d", req.Symbol, req.N)
	if body, ok := h.cachedBody(key, endpoint); ok {
		return c.JSONBlob(200, body)
	}

	ind, err := h.indicators.Indicators(c.Request().Context(), req.Symbol, req.N)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("indicators request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("indicators %s: %v", req.Symbol, err))
	}

	h.storeBody(key, endpoint, ind)
	return xhttp.SuccessResponse(c, ind)
}

func (h *AnalysisHandler) News(c echo.Context) error {
	const endpoint = "news"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.NewsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	articles, err := h.news.Recent(c.Request().Context(), req.Symbol, req.Days, req.Limit)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("news request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("news %s: %v", req.Symbol, err))
	}
	return xhttp.ListResponse(c, articles, int64(len(articles)))
}

// Sentiment fetches recent headlines and scores them in one call.
func (h *AnalysisHandler) Sentiment(c echo.Context) error {
	const endpoint = "sentiment"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.SentimentRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	articles, err := h.news.Recent(c.Request().Context(), req.Symbol, req.Days, 50)
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("sentiment request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("sentiment %s: %v", req.Symbol, err))
	}

	headlines := make([]string, 0, len(articles))
	for _, a := range articles {
		headlines = append(headlines, a.Title)
	}
	return xhttp.SuccessResponse(c, h.sentiment.Analyze(headlines))
}

func (h *AnalysisHandler) Tape(c echo.Context) error {
	const endpoint = "tape"
	start := time.Now()
	defer func() {
		metrics.APILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req := &models.TapeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, endpoint) {
		return h.tooManyRequests(c, endpoint)
	}

	now := time.Now().UTC()
	to := util.ParseTimeDefault(req.To, now)
	from := util.ParseTimeDefault(req.From, time.Time{})
	from, to = util.ClampWindow(from, to, time.Hour, 7*24*time.Hour)

	res, err := h.tape.GetTape(c.Request().Context(), usecase.GetTapeParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Limit:  req.Limit,
	})
	if err != nil {
		metrics.APIErrors.WithLabelValues(endpoint).Inc()
		h.log.Error("tape request failed",
			logger.String("symbol", req.Symbol), logger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("tape %s: %v", req.Symbol, err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisHandler) allow(c echo.Context, endpoint string) bool {
	return h.rl.Allow(c.RealIP()+":"+endpoint, h.rlBurst, h.rlRefill)
}

func (h *AnalysisHandler) tooManyRequests(c echo.Context, endpoint string) error {
	metrics.APIErrors.WithLabelValues(endpoint).Inc()
	return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
}

func (h *AnalysisHandler) cachedBody(key, endpoint string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	body, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.log.Warn("cache get failed",
			logger.String("endpoint", endpoint), logger.Error(err))
		return nil, false
	}
	return body, ok
}

func (h *AnalysisHandler) storeBody(key, endpoint string, v interface{}) {
	if h.cache == nil {
		return
	}
	// Mirror the shape SuccessResponse writes so cache hits and misses
	// are indistinguishable to the client.
	body, err := json.Marshal(xhttp.APIResponse{Status: 200, Message: "OK", Data: v})
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, body, h.cacheTTL); err != nil {
		h.log.Warn("cache set failed",
			logger.String("endpoint", endpoint), logger.Error(err))
	}
}
