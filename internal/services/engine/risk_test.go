package engine

import (
	"testing"

	"MarketIntel/internal/domain/models"
)

func TestClassifyRisk(t *testing.T) {
	cases := []struct {
		name string
		snap *models.MarketSnapshot
		want models.RiskLevel
	}{
		{"empty", &models.MarketSnapshot{Symbol: "X"}, models.RiskLow},
		{"elevated beta only", &models.MarketSnapshot{
			Symbol:       "X",
			Fundamentals: &models.Fundamentals{Beta: models.Ptr(1.3)},
		}, models.RiskLow},
		{"high beta", &models.MarketSnapshot{
			Symbol:       "X",
			Fundamentals: &models.Fundamentals{Beta: models.Ptr(1.8)},
		}, models.RiskMedium},
		{"high beta and leverage", &models.MarketSnapshot{
			Symbol: "X",
			Fundamentals: &models.Fundamentals{
				Beta:         models.Ptr(1.8),
				DebtToEquity: models.Ptr(2.5),
			},
		}, models.RiskHigh},
		{"extreme rsi tips medium", &models.MarketSnapshot{
			Symbol:       "X",
			Fundamentals: &models.Fundamentals{Beta: models.Ptr(1.3)},
			Technical:    &models.TechnicalIndicators{RSI: models.Ptr(80.0)},
		}, models.RiskMedium},
		{"zero debt is not missing", &models.MarketSnapshot{
			Symbol:       "X",
			Fundamentals: &models.Fundamentals{DebtToEquity: models.Ptr(0.0)},
		}, models.RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyRisk(tc.snap); got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}
