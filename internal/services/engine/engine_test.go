package engine

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"MarketIntel/internal/domain/models"
)

func newTestEngine() *Engine {
	return New(DefaultRules())
}

func TestGenerateEmptySnapshot(t *testing.T) {
	e := newTestEngine()
	res, err := e.Generate(&models.MarketSnapshot{Symbol: "AAPL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != models.ActionHold {
		t.Fatalf("expected HOLD, got %s", res.Action)
	}
	if res.Confidence != 0.35 {
		t.Fatalf("expected confidence 0.35, got %v", res.Confidence)
	}
	if res.RiskLevel != models.RiskLow {
		t.Fatalf("expected Low risk, got %s", res.RiskLevel)
	}
	if res.SwingTrade != nil {
		t.Fatalf("expected nil swing plan without a price anchor")
	}
	if res.BuyScore != 0 || res.SellScore != 0 {
		t.Fatalf("expected zero scores, got buy=%v sell=%v", res.BuyScore, res.SellScore)
	}
}

func TestGenerateStrongBuy(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "AAPL",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(25.0),
			MACD: &models.MACD{Line: 1.2, Signal: 0.5, Histogram: models.Ptr(0.3)},
		},
		Sentiment: &models.SentimentSummary{Score: 0.4, Label: "positive"},
		Price: &models.Quote{
			Symbol:        "AAPL",
			Current:       models.Ptr(100.0),
			ChangePercent: models.Ptr(1.5),
		},
		Fundamentals: &models.Fundamentals{
			FiftyTwoWeekHigh: models.Ptr(150.0),
			FiftyTwoWeekLow:  models.Ptr(80.0),
			PERatio:          models.Ptr(12.0),
		},
	}
	res, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != models.ActionBuy {
		t.Fatalf("expected BUY, got %s (buy=%v sell=%v)", res.Action, res.BuyScore, res.SellScore)
	}
	if res.Confidence <= 0.8 {
		t.Fatalf("expected confidence > 0.8, got %v", res.Confidence)
	}
	if res.RiskLevel == models.RiskHigh {
		t.Fatalf("expected Low/Medium risk, got High")
	}
	if res.SwingTrade == nil || res.SwingTrade.EntryPrice == nil {
		t.Fatalf("expected a swing plan with an entry price")
	}
	// Oversold RSI means enter at market.
	if *res.SwingTrade.EntryPrice != 100.0 {
		t.Fatalf("expected entry at current price 100, got %v", *res.SwingTrade.EntryPrice)
	}
}

func TestGenerateStrongSell(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "WEAK",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(78.0),
			MACD: &models.MACD{Line: 0.2, Signal: 0.9},
		},
		Sentiment: &models.SentimentSummary{Score: -0.4, Label: "negative"},
		Fundamentals: &models.Fundamentals{
			Beta:         models.Ptr(1.8),
			DebtToEquity: models.Ptr(2.5),
		},
	}
	res, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != models.ActionSell {
		t.Fatalf("expected SELL, got %s (buy=%v sell=%v)", res.Action, res.BuyScore, res.SellScore)
	}
	if res.RiskLevel != models.RiskHigh {
		t.Fatalf("expected High risk on SELL, got %s", res.RiskLevel)
	}
	if res.SwingTrade != nil {
		t.Fatalf("expected nil swing plan without a price")
	}
}

func TestGenerateHoldMixed(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "FLAT",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(55.0),
			MACD: &models.MACD{Line: 0.52, Signal: 0.50},
			MovingAverages: &models.MovingAverages{
				SMA20: models.Ptr(98.0),
				SMA50: models.Ptr(95.0),
			},
		},
		Sentiment: &models.SentimentSummary{Score: 0.0, Label: "neutral"},
		Price: &models.Quote{
			Symbol:  "FLAT",
			Current: models.Ptr(100.0),
		},
	}
	res, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Action != models.ActionHold {
		t.Fatalf("expected HOLD, got %s (buy=%v sell=%v)", res.Action, res.BuyScore, res.SellScore)
	}
	if res.Confidence < 0.3 || res.Confidence > 0.5 {
		t.Fatalf("expected low confidence, got %v", res.Confidence)
	}
	if res.SwingTrade == nil {
		t.Fatalf("expected a HOLD swing plan when a price is present")
	}
	found := false
	for _, note := range res.SwingTrade.Notes {
		if strings.Contains(note, "Better entry points") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected better-entry-points section in notes, got %v", res.SwingTrade.Notes)
	}
}

func TestGenerateDegenerate52WeekRange(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "PIN",
		Price:  &models.Quote{Symbol: "PIN", Current: models.Ptr(50.0)},
		Fundamentals: &models.Fundamentals{
			FiftyTwoWeekHigh: models.Ptr(50.0),
			FiftyTwoWeekLow:  models.Ptr(50.0),
		},
	}
	res, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BuyScore != 0 || res.SellScore != 0 {
		t.Fatalf("degenerate range must not score, got buy=%v sell=%v", res.BuyScore, res.SellScore)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "AAPL",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(35.0),
			MACD: &models.MACD{Line: 0.8, Signal: 0.2},
		},
		Sentiment: &models.SentimentSummary{Score: 0.2, Label: "positive"},
		Price:     &models.Quote{Symbol: "AAPL", Current: models.Ptr(100.0), ChangePercent: models.Ptr(-0.5)},
	}
	first, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Generate(snap)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between identical calls:\n%+v\n%+v", first, second)
	}
}

func TestGenerateNewsContext(t *testing.T) {
	e := newTestEngine()
	res, err := e.Generate(&models.MarketSnapshot{Symbol: "AAPL", NewsArticleCount: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NewsCount != 7 {
		t.Fatalf("expected news count 7, got %d", res.NewsCount)
	}
	last := res.Reasons[len(res.Reasons)-1]
	if !strings.Contains(last, "7 recent articles") {
		t.Fatalf("expected news trailer reason, got %q", last)
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	e := newTestEngine()
	cases := []struct {
		name string
		snap *models.MarketSnapshot
	}{
		{"nil snapshot", nil},
		{"empty symbol", &models.MarketSnapshot{}},
		{"rsi out of range", &models.MarketSnapshot{
			Symbol:    "X",
			Technical: &models.TechnicalIndicators{RSI: models.Ptr(120.0)},
		}},
		{"sentiment out of range", &models.MarketSnapshot{
			Symbol:    "X",
			Sentiment: &models.SentimentSummary{Score: 1.5},
		}},
		{"non-positive price", &models.MarketSnapshot{
			Symbol: "X",
			Price:  &models.Quote{Symbol: "X", Current: models.Ptr(0.0)},
		}},
		{"negative news count", &models.MarketSnapshot{
			Symbol:           "X",
			NewsArticleCount: -1,
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Generate(tc.snap)
			var inv *InvalidInputError
			if !errors.As(err, &inv) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
		})
	}
}
