package indicators

import (
	"math"
	"testing"
	"time"

	"MarketIntel/internal/domain/models"
)

func mkCandles(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		out[i] = models.Candle{
			Date:   day.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return out
}

func TestComputeTooShort(t *testing.T) {
	if got := Compute(mkCandles([]float64{100})); got != nil {
		t.Fatalf("expected nil for a single candle, got %+v", got)
	}
}

func TestRSIMonotonic(t *testing.T) {
	up := make([]float64, 30)
	down := make([]float64, 30)
	for i := range up {
		up[i] = 100 + float64(i)
		down[i] = 200 - float64(i)
	}

	r := rsi(up, rsiPeriod)
	if r == nil || *r != 100 {
		t.Fatalf("all-gains series should read 100, got %v", r)
	}
	r = rsi(down, rsiPeriod)
	if r == nil || *r > 1 {
		t.Fatalf("all-losses series should read near 0, got %v", r)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	if r := rsi([]float64{1, 2, 3}, rsiPeriod); r != nil {
		t.Fatalf("expected nil RSI on short history, got %v", *r)
	}
}

func TestSMA(t *testing.T) {
	closes := []float64{1, 2, 3, 4, 5}
	got := sma(closes, 5)
	if got == nil || *got != 3 {
		t.Fatalf("expected SMA 3, got %v", got)
	}
	if sma(closes, 6) != nil {
		t.Fatalf("expected nil SMA on short history")
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 50
	}
	bb := bollinger(closes, bbPeriod, bbStdDevs)
	if bb == nil {
		t.Fatalf("expected bands")
	}
	if bb.Upper != 50 || bb.Lower != 50 {
		t.Fatalf("flat series should collapse the bands, got %+v", bb)
	}
	// Zero-width bands have no defined position; %B falls back to midpoint.
	if bb.PercentB != 0.5 {
		t.Fatalf("expected %%B 0.5 on degenerate bands, got %v", bb.PercentB)
	}
}

func TestBollingerPercentB(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	bb := bollinger(closes, bbPeriod, bbStdDevs)
	if bb == nil {
		t.Fatalf("expected bands")
	}
	if bb.Lower >= bb.Middle || bb.Middle >= bb.Upper {
		t.Fatalf("bands out of order: %+v", bb)
	}
	want := (closes[len(closes)-1] - bb.Lower) / (bb.Upper - bb.Lower)
	if math.Abs(bb.PercentB-want) > 1e-9 {
		t.Fatalf("%%B mismatch: got %v want %v", bb.PercentB, want)
	}
}

func TestStochasticAtExtremes(t *testing.T) {
	n := 20
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i] = 110
		lows[i] = 90
		closes[i] = 110 // closing at the period high
	}
	s := stochastic(highs, lows, closes, stochKPeriod, stochDPeriod)
	if s == nil {
		t.Fatalf("expected stochastic")
	}
	if s.K != 100 {
		t.Fatalf("close at the high should read K=100, got %v", s.K)
	}
	if s.D == nil || *s.D != 100 {
		t.Fatalf("expected D=100, got %v", s.D)
	}
}

func TestStochasticDegenerateRange(t *testing.T) {
	n := 20
	flat := make([]float64, n)
	for i := range flat {
		flat[i] = 100
	}
	if s := stochastic(flat, flat, flat, stochKPeriod, stochDPeriod); s != nil {
		t.Fatalf("zero-width range should yield nil, got %+v", s)
	}
}

func TestATRConstantRange(t *testing.T) {
	n := 30
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i := range highs {
		highs[i] = 102
		lows[i] = 98
		closes[i] = 100
	}
	got := atr(highs, lows, closes, atrPeriod)
	if got == nil {
		t.Fatalf("expected ATR")
	}
	// Every bar has true range 4.
	if math.Abs(*got-4) > 1e-9 {
		t.Fatalf("expected ATR 4, got %v", *got)
	}
}

func TestMACDSignOnTrend(t *testing.T) {
	up := make([]float64, 60)
	for i := range up {
		up[i] = 100 * math.Pow(1.01, float64(i))
	}
	m := macd(up)
	if m == nil {
		t.Fatalf("expected MACD")
	}
	if m.Line <= 0 {
		t.Fatalf("uptrend should give a positive MACD line, got %v", m.Line)
	}
	if m.Histogram == nil {
		t.Fatalf("histogram should be present")
	}
}

func TestMovingAverageFlags(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	ma := movingAverages(closes)
	if ma == nil || ma.SMA20 == nil || ma.SMA50 == nil {
		t.Fatalf("expected both SMAs with 60 bars, got %+v", ma)
	}
	if ma.AboveSMA20 == nil || !*ma.AboveSMA20 || ma.AboveSMA50 == nil || !*ma.AboveSMA50 {
		t.Fatalf("rising series should sit above both SMAs: %+v", ma)
	}
}

func TestComputePartialHistory(t *testing.T) {
	// 25 bars: enough for RSI, BB, stochastic, SMA20; too short for MACD,
	// SMA50 and ADX.
	closes := make([]float64, 25)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	tech := Compute(mkCandles(closes))
	if tech == nil {
		t.Fatalf("expected indicators")
	}
	if tech.RSI == nil {
		t.Fatalf("RSI should be present with 25 bars")
	}
	if tech.MACD != nil {
		t.Fatalf("MACD needs %d bars, got a value from 25", macdSlow+macdSignal)
	}
	if tech.ADX != nil {
		t.Fatalf("ADX needs %d bars, got a value from 25", 2*adxPeriod+1)
	}
	if tech.MovingAverages == nil || tech.MovingAverages.SMA50 != nil {
		t.Fatalf("SMA50 should be absent with 25 bars: %+v", tech.MovingAverages)
	}
}
