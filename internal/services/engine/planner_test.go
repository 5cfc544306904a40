package engine

import (
	"math"
	"strings"
	"testing"

	"MarketIntel/internal/domain/models"
)

func TestPlanNilWithoutPrice(t *testing.T) {
	e := newTestEngine()
	plan := e.planSwing(&models.MarketSnapshot{Symbol: "X"}, models.ActionBuy, 0.9)
	if plan != nil {
		t.Fatalf("expected nil plan without a price anchor, got %+v", plan)
	}
}

func TestPlanBuyOversoldEntersAtMarket(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			RSI: models.Ptr(32.0),
		},
	}
	plan := e.planSwing(snap, models.ActionBuy, 0.9)
	if plan == nil || plan.EntryPrice == nil {
		t.Fatalf("expected a plan with an entry price")
	}
	if *plan.EntryPrice != 100.0 {
		t.Fatalf("oversold entry should be at market, got %v", *plan.EntryPrice)
	}
	if plan.HoldingPeriod != "5-15 days" {
		t.Fatalf("high confidence should shorten the hold, got %q", plan.HoldingPeriod)
	}
}

func TestPlanBuyPullbackEntry(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			RSI: models.Ptr(55.0),
			MovingAverages: &models.MovingAverages{
				SMA20: models.Ptr(96.0),
			},
		},
	}
	plan := e.planSwing(snap, models.ActionBuy, 0.6)
	if plan == nil || plan.EntryPrice == nil {
		t.Fatalf("expected a plan with an entry price")
	}
	// SMA-20 sits below the 2% pullback level, so the limit goes there.
	if *plan.EntryPrice != 96.0 {
		t.Fatalf("expected pullback entry at SMA-20, got %v", *plan.EntryPrice)
	}
	if plan.HoldingPeriod != "10-30 days" {
		t.Fatalf("moderate confidence should lengthen the hold, got %q", plan.HoldingPeriod)
	}
}

func TestPlanBuyStopFloor(t *testing.T) {
	e := newTestEngine()
	// A huge ATR would place the stop far below entry; the floor caps the
	// loss at 8%.
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			RSI: models.Ptr(30.0),
			ATR: models.Ptr(20.0),
		},
	}
	plan := e.planSwing(snap, models.ActionBuy, 0.9)
	if plan == nil || plan.StopLoss == nil || plan.EntryPrice == nil {
		t.Fatalf("expected stop loss and entry")
	}
	if *plan.StopLoss < *plan.EntryPrice*0.92-1e-9 {
		t.Fatalf("stop %v breached the 8%% floor from entry %v", *plan.StopLoss, *plan.EntryPrice)
	}
}

func TestPlanBuyRiskRewardNeverNegative(t *testing.T) {
	e := newTestEngine()
	// Inverted market data: every resistance candidate sits below the
	// entry, so reward is negative. The ratio clamps to zero.
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			RSI: models.Ptr(30.0),
			Bollinger: &models.BollingerBands{
				Upper: 90, Middle: 85, Lower: 80, PercentB: 1.5,
			},
		},
	}
	plan := e.planSwing(snap, models.ActionBuy, 0.9)
	if plan == nil || plan.RiskRewardRatio == nil {
		t.Fatalf("expected a risk/reward ratio")
	}
	rr := *plan.RiskRewardRatio
	if rr != 0 {
		t.Fatalf("expected clamped ratio 0, got %v", rr)
	}
	if math.IsNaN(rr) || math.IsInf(rr, 0) {
		t.Fatalf("ratio must be finite, got %v", rr)
	}
}

func TestPlanSellExitNotes(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			RSI: models.Ptr(75.0),
		},
	}
	plan := e.planSwing(snap, models.ActionSell, 0.8)
	if plan == nil {
		t.Fatalf("expected a SELL plan")
	}
	if plan.EntryPrice != nil || plan.TargetPrice != nil || plan.StopLoss != nil {
		t.Fatalf("SELL plan must not carry entry levels: %+v", plan)
	}
	joined := strings.Join(plan.Notes, "\n")
	if !strings.Contains(joined, "Exit long positions") {
		t.Fatalf("missing exit note: %v", plan.Notes)
	}
	if !strings.Contains(joined, "sell at market") {
		t.Fatalf("overbought RSI should add a sell-at-market note: %v", plan.Notes)
	}
}

func TestPlanHoldSupportOrder(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
		Technical: &models.TechnicalIndicators{
			Bollinger: &models.BollingerBands{
				Upper: 110, Middle: 100, Lower: 92, PercentB: 0.5,
			},
			MovingAverages: &models.MovingAverages{
				SMA20: models.Ptr(97.0),
				SMA50: models.Ptr(94.0),
			},
		},
		Fundamentals: &models.Fundamentals{
			FiftyTwoWeekHigh: models.Ptr(150.0),
			FiftyTwoWeekLow:  models.Ptr(80.0),
		},
	}
	plan := e.planSwing(snap, models.ActionHold, 0.4)
	if plan == nil {
		t.Fatalf("expected a HOLD plan")
	}
	joined := strings.Join(plan.Notes, "\n")

	bb := strings.Index(joined, "Lower Bollinger Band")
	s20 := strings.Index(joined, "SMA-20 support")
	s50 := strings.Index(joined, "SMA-50 support")
	if bb < 0 || s20 < 0 || s50 < 0 {
		t.Fatalf("missing support entries: %v", plan.Notes)
	}
	if !(bb < s20 && s20 < s50) {
		t.Fatalf("support entries out of order: %v", plan.Notes)
	}
	if !strings.Contains(joined, "Breakout watch:") {
		t.Fatalf("expected breakout section when BB upper is above price: %v", plan.Notes)
	}
	if !strings.Contains(joined, "52") {
		t.Fatalf("expected 52-week context note: %v", plan.Notes)
	}
}

func TestPlanHoldNoSupportLevels(t *testing.T) {
	e := newTestEngine()
	snap := &models.MarketSnapshot{
		Symbol: "X",
		Price:  &models.Quote{Symbol: "X", Current: models.Ptr(100.0)},
	}
	plan := e.planSwing(snap, models.ActionHold, 0.35)
	if plan == nil {
		t.Fatalf("expected a HOLD plan")
	}
	joined := strings.Join(plan.Notes, "\n")
	if !strings.Contains(joined, "No clear support levels") {
		t.Fatalf("expected fallback pullback note: %v", plan.Notes)
	}
}
