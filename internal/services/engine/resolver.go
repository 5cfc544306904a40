package engine

import "MarketIntel/internal/domain/models"

// resolve maps a score pair to an action, confidence, and reason list. The
// table is evaluated top to bottom: strong rows require the opposing score
// to stay quiet, moderate rows only require a lead, everything else holds.
func (e *Engine) resolve(sc scores) (models.Action, float64, []string) {
	d := e.rules.Decision

	switch {
	case sc.buy >= d.StrongBuyScore && sc.sell < d.StrongOpposition:
		conf := min(sc.buy*d.StrongScale+d.StrongBase, d.StrongCap)
		return models.ActionBuy, conf, sc.buyReasons

	case sc.sell >= d.StrongSellScore && sc.buy < d.StrongOpposition:
		conf := min(sc.sell*d.StrongScale+d.StrongBase, d.StrongCap)
		return models.ActionSell, conf, sc.sellReasons

	case sc.buy > sc.sell && sc.buy >= d.ModerateScore:
		conf := min(d.ModerateBase+(sc.buy-sc.sell)*d.ModerateScale, d.ModerateCap)
		return models.ActionBuy, conf, topReasons(sc.buyReasons, d.ModerateTopN)

	case sc.sell > sc.buy && sc.sell >= d.ModerateScore:
		conf := min(d.ModerateBase+(sc.sell-sc.buy)*d.ModerateScale, d.ModerateCap)
		return models.ActionSell, conf, topReasons(sc.sellReasons, d.ModerateTopN)
	}

	return models.ActionHold, e.holdConfidence(sc), e.holdReasons(sc)
}

// holdConfidence distinguishes a genuinely balanced HOLD from one with
// mixed but present evidence.
func (e *Engine) holdConfidence(sc scores) float64 {
	d := e.rules.Decision
	diff := abs(sc.buy - sc.sell)
	if diff < d.HoldBalancedDiff {
		return d.HoldBalancedConf
	}
	return d.HoldMixedBase + diff*d.HoldMixedScale
}

// holdReasons explains why neither side won. Leading evidence from each side
// is surfaced with its direction prefixed so a HOLD is still informative.
func (e *Engine) holdReasons(sc scores) []string {
	d := e.rules.Decision
	diff := abs(sc.buy - sc.sell)

	var reasons []string
	if diff < d.HoldBalancedDiff {
		reasons = append(reasons, "Highly uncertain - signals are balanced")
	} else {
		reasons = append(reasons, "Mixed signals - wait for clearer direction")
	}
	if len(sc.buyReasons) > 0 {
		reasons = append(reasons, "Bullish: "+sc.buyReasons[0])
	}
	if len(sc.sellReasons) > 0 {
		reasons = append(reasons, "Bearish: "+sc.sellReasons[0])
	}
	return reasons
}

func topReasons(reasons []string, n int) []string {
	if len(reasons) > n {
		return reasons[:n]
	}
	return reasons
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
