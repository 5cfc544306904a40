package engine

import "MarketIntel/internal/domain/models"

// Risk point thresholds. Points accumulate independently per factor and the
// total maps to a level. A SELL action overrides the classifier entirely.
const (
	betaElevated  = 1.2
	betaHigh      = 1.5
	debtElevated  = 1.0
	debtHigh      = 2.0
	rsiExtremeHi  = 75.0
	rsiExtremeLo  = 25.0
	riskHighScore = 4
	riskMedScore  = 2
)

// classifyRisk scores the snapshot's risk factors into a level. Missing
// fields simply contribute no points, so a sparse snapshot reads as low
// risk rather than unknown.
func classifyRisk(s *models.MarketSnapshot) models.RiskLevel {
	points := 0

	if s.Fundamentals != nil {
		if beta := s.Fundamentals.Beta; beta != nil {
			if *beta > betaHigh {
				points += 2
			} else if *beta > betaElevated {
				points++
			}
		}
		if dte := s.Fundamentals.DebtToEquity; dte != nil {
			if *dte > debtHigh {
				points += 2
			} else if *dte > debtElevated {
				points++
			}
		}
	}

	if s.Technical != nil && s.Technical.RSI != nil {
		if *s.Technical.RSI > rsiExtremeHi || *s.Technical.RSI < rsiExtremeLo {
			points++
		}
	}

	switch {
	case points >= riskHighScore:
		return models.RiskHigh
	case points >= riskMedScore:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}
