package engine

import (
	"strings"
	"testing"

	"MarketIntel/internal/domain/models"
)

func TestScoreRSITierBoundary(t *testing.T) {
	e := newTestEngine()

	// Exactly 30.0 is not "<30": it lands in the moderate tier.
	at := e.score(&models.MarketSnapshot{
		Symbol:    "X",
		Technical: &models.TechnicalIndicators{RSI: models.Ptr(30.0)},
	})
	below := e.score(&models.MarketSnapshot{
		Symbol:    "X",
		Technical: &models.TechnicalIndicators{RSI: models.Ptr(29.9)},
	})

	w := e.rules.BuyWeights.RSI
	if at.buy != w*e.rules.RSI.OversoldFrac {
		t.Fatalf("RSI 30.0 should score the moderate tier, got %v", at.buy)
	}
	if below.buy != w {
		t.Fatalf("RSI 29.9 should score the full tier, got %v", below.buy)
	}
}

func TestScoreNeverNegative(t *testing.T) {
	e := newTestEngine()
	snaps := []*models.MarketSnapshot{
		{Symbol: "X"},
		{Symbol: "X", Sentiment: &models.SentimentSummary{Score: -1.0}},
		{Symbol: "X", Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(99.0),
			MACD: &models.MACD{Line: -5, Signal: 5},
		}},
	}
	for _, snap := range snaps {
		sc := e.score(snap)
		if sc.buy < 0 || sc.sell < 0 {
			t.Fatalf("negative score for %+v: buy=%v sell=%v", snap, sc.buy, sc.sell)
		}
	}
}

func TestScoreMonotonicBuy(t *testing.T) {
	e := newTestEngine()

	base := &models.MarketSnapshot{
		Symbol:    "X",
		Technical: &models.TechnicalIndicators{RSI: models.Ptr(25.0)},
	}
	before := e.score(base)

	// Adding a bullish condition must not lower the buy score.
	richer := &models.MarketSnapshot{
		Symbol: "X",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(25.0),
			MACD: &models.MACD{Line: 1.0, Signal: 0.2},
		},
		Sentiment: &models.SentimentSummary{Score: 0.5},
	}
	after := e.score(richer)

	if after.buy < before.buy {
		t.Fatalf("buy score decreased after adding bullish conditions: %v -> %v", before.buy, after.buy)
	}
}

func TestScoreZeroHistogramIsNotMissing(t *testing.T) {
	e := newTestEngine()
	sc := e.score(&models.MarketSnapshot{
		Symbol: "X",
		Technical: &models.TechnicalIndicators{
			MACD: &models.MACD{Line: 1.0, Signal: 0.2, Histogram: models.Ptr(0.0)},
		},
	})
	// Present-but-zero histogram earns no bonus but must not disturb the
	// crossover score.
	if sc.buy != e.rules.BuyWeights.MACD {
		t.Fatalf("expected exactly the MACD weight, got %v", sc.buy)
	}
}

func TestScoreVolumeSpike(t *testing.T) {
	e := newTestEngine()
	sc := e.score(&models.MarketSnapshot{
		Symbol: "X",
		Price: &models.Quote{
			Symbol:  "X",
			Current: models.Ptr(10.0),
			Volume:  models.Ptr(int64(3_000_000)),
		},
		Fundamentals: &models.Fundamentals{
			AverageVolume: models.Ptr(int64(1_000_000)),
		},
	})
	if sc.buy != e.rules.BuyWeights.Volume {
		t.Fatalf("expected volume weight, got %v", sc.buy)
	}
}

func TestScoreRiskFactorsCombineIntoOneReason(t *testing.T) {
	e := newTestEngine()
	sc := e.score(&models.MarketSnapshot{
		Symbol: "X",
		Fundamentals: &models.Fundamentals{
			Beta:         models.Ptr(2.0),
			DebtToEquity: models.Ptr(3.0),
		},
	})
	if sc.sell != e.rules.SellWeights.Risk {
		t.Fatalf("both factors should fill the risk category, got %v", sc.sell)
	}
	if len(sc.sellReasons) != 1 || !strings.HasPrefix(sc.sellReasons[0], "Risk: ") {
		t.Fatalf("expected one combined risk reason, got %v", sc.sellReasons)
	}
	if !strings.Contains(sc.sellReasons[0], "beta") || !strings.Contains(sc.sellReasons[0], "debt") {
		t.Fatalf("combined reason missing a factor: %q", sc.sellReasons[0])
	}
}

func TestScoreBonusesStackAboveOne(t *testing.T) {
	e := newTestEngine()
	sc := e.score(&models.MarketSnapshot{
		Symbol: "X",
		Technical: &models.TechnicalIndicators{
			RSI:  models.Ptr(20.0),
			MACD: &models.MACD{Line: 2.0, Signal: 0.5, Histogram: models.Ptr(0.4)},
			Bollinger: &models.BollingerBands{
				Upper: 110, Middle: 100, Lower: 90, PercentB: 0.1,
			},
			Stochastic: &models.Stochastic{K: 10},
			ADX: &models.ADX{
				Value:   35,
				DIPlus:  models.Ptr(30.0),
				DIMinus: models.Ptr(10.0),
			},
			MovingAverages: &models.MovingAverages{
				AboveSMA20: models.Ptr(true),
				AboveSMA50: models.Ptr(true),
			},
		},
		Sentiment: &models.SentimentSummary{Score: 0.8},
		Price: &models.Quote{
			Symbol:  "X",
			Current: models.Ptr(82.0),
			Volume:  models.Ptr(int64(5_000_000)),
		},
		Fundamentals: &models.Fundamentals{
			PERatio:          models.Ptr(10.0),
			FiftyTwoWeekHigh: models.Ptr(150.0),
			FiftyTwoWeekLow:  models.Ptr(80.0),
			AverageVolume:    models.Ptr(int64(1_000_000)),
		},
	})
	// All six primaries plus every bullish bonus: the unnormalized sum
	// exceeds 1.0 and stays that way.
	if sc.buy <= 1.0 {
		t.Fatalf("expected stacked score above 1.0, got %v", sc.buy)
	}
}
