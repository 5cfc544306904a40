package engine

import (
	"fmt"
	"math"

	"MarketIntel/internal/domain/models"
)

// Swing plan level constants. These shape a 5-30 day trade around the
// resolved action and are not exposed through Rules: they describe the plan
// layout, not the signal calibration.
const (
	atrFallbackPct = 0.02 // assume 2% daily range when ATR is absent

	entryOversoldRSI = 40.0
	entryBBProximity = 1.02
	entryPullbackPct = 0.98

	targetRangeFrac = 0.5  // claim half the distance to the 52-week high
	targetBaseGain  = 0.08 // fallback gain floor, scaled up by confidence
	targetConfGain  = 0.08

	stopATRMult    = 2.0
	stopBBPct      = 0.98
	stopSMAPct     = 0.97
	stopLowCushion = 1.02
	stopMaxLossPct = 0.90
	stopFloorPct   = 0.92

	rrExcellent   = 2.0
	rrGood        = 1.5
	shortHoldConf = 0.7

	macdCrossoverEps = 0.3
)

// planSwing builds the trade plan for the resolved action. Returns nil when
// no usable price is present: levels without a price anchor are meaningless.
func (e *Engine) planSwing(s *models.MarketSnapshot, action models.Action, confidence float64) *models.SwingPlan {
	if s.Price == nil || s.Price.Current == nil {
		return nil
	}
	current := *s.Price.Current

	plan := &models.SwingPlan{
		Action:       action,
		CurrentPrice: current,
	}

	var rsi, atr *float64
	var boll *models.BollingerBands
	var macd *models.MACD
	var ma *models.MovingAverages
	if s.Technical != nil {
		rsi = s.Technical.RSI
		atr = s.Technical.ATR
		boll = s.Technical.Bollinger
		macd = s.Technical.MACD
		ma = s.Technical.MovingAverages
	}

	var high52, low52 *float64
	if s.Fundamentals != nil {
		high52 = s.Fundamentals.FiftyTwoWeekHigh
		low52 = s.Fundamentals.FiftyTwoWeekLow
	}

	atrValue := current * atrFallbackPct
	if atr != nil && *atr > 0 {
		atrValue = *atr
	}

	switch action {
	case models.ActionBuy:
		e.planBuy(plan, current, confidence, atrValue, rsi, boll, ma, high52, low52)
	case models.ActionSell:
		e.planSell(plan, rsi)
	default:
		e.planHold(plan, current, rsi, boll, macd, ma, high52, low52)
	}

	return plan
}

func (e *Engine) planBuy(plan *models.SwingPlan, current, confidence, atrValue float64, rsi *float64, boll *models.BollingerBands, ma *models.MovingAverages, high52, low52 *float64) {
	var bbLower, bbUpper, sma20, sma50 *float64
	if boll != nil {
		bbLower, bbUpper = &boll.Lower, &boll.Upper
	}
	if ma != nil {
		sma20, sma50 = ma.SMA20, ma.SMA50
	}

	// Entry: at market when conditions already favor it, otherwise a limit
	// at a modest pullback.
	var entry float64
	switch {
	case rsi != nil && *rsi < entryOversoldRSI:
		entry = current
		plan.Notes = append(plan.Notes, "Oversold - enter at market price")
	case bbLower != nil && current < *bbLower*entryBBProximity:
		entry = current
		plan.Notes = append(plan.Notes, "Near support - enter at market price")
	default:
		entry = current * entryPullbackPct
		if sma20 != nil {
			entry = math.Min(entry, *sma20)
		}
		plan.Notes = append(plan.Notes, fmt.Sprintf("Wait for pullback to $%.2f", entry))
	}
	plan.EntryPrice = models.Ptr(entry)

	// Target: the most ambitious resistance candidate, or a confidence-scaled
	// default gain when no level is known.
	var targets []float64
	if bbUpper != nil {
		targets = append(targets, *bbUpper)
	}
	if sma50 != nil && *sma50 > current {
		targets = append(targets, *sma50)
	}
	if high52 != nil {
		targets = append(targets, current+(*high52-current)*targetRangeFrac)
	}

	target := current * (1 + targetBaseGain + confidence*targetConfGain)
	if len(targets) > 0 {
		target = targets[0]
		for _, t := range targets[1:] {
			target = math.Max(target, t)
		}
	}
	plan.TargetPrice = models.Ptr(target)

	// Stop: the tightest of the support candidates, never wider than the
	// ATR stop allows and always floored at an 8% loss from entry.
	stops := []float64{entry - atrValue*stopATRMult}
	if bbLower != nil {
		stops = append(stops, *bbLower*stopBBPct)
	}
	if sma20 != nil && *sma20 < current {
		stops = append(stops, *sma20*stopSMAPct)
	}
	if low52 != nil {
		stops = append(stops, math.Max(*low52*stopLowCushion, current*stopMaxLossPct))
	}

	stop := stops[0]
	for _, s := range stops[1:] {
		stop = math.Max(stop, s)
	}
	stop = math.Max(stop, entry*stopFloorPct)
	plan.StopLoss = models.Ptr(stop)

	// Risk/reward with degenerate geometry clamped to zero rather than
	// reported as a negative or infinite ratio.
	risk := entry - stop
	reward := target - entry
	rr := 0.0
	if risk > 0 && reward > 0 {
		rr = reward / risk
	}
	plan.RiskRewardRatio = models.Ptr(rr)

	if confidence > shortHoldConf {
		plan.HoldingPeriod = "5-15 days"
	} else {
		plan.HoldingPeriod = "10-30 days"
	}

	switch {
	case rr >= rrExcellent:
		plan.Notes = append(plan.Notes, fmt.Sprintf("Excellent R:R ratio %.1f:1", rr))
	case rr >= rrGood:
		plan.Notes = append(plan.Notes, fmt.Sprintf("Good R:R ratio %.1f:1", rr))
	default:
		plan.Notes = append(plan.Notes, fmt.Sprintf("Low R:R ratio %.1f:1 - wait for better setup", rr))
	}
}

func (e *Engine) planSell(plan *models.SwingPlan, rsi *float64) {
	plan.Notes = append(plan.Notes,
		"Exit long positions or avoid buying",
		"Consider taking profits if holding",
	)
	if rsi != nil && *rsi > e.rules.RSI.Overbought {
		plan.Notes = append(plan.Notes, fmt.Sprintf("RSI overbought (%.0f) - sell at market", *rsi))
	}
}

// planHold suggests entry levels to watch instead of trade levels. Support
// candidates are listed in a fixed order so output stays stable run to run.
func (e *Engine) planHold(plan *models.SwingPlan, current float64, rsi *float64, boll *models.BollingerBands, macd *models.MACD, ma *models.MovingAverages, high52, low52 *float64) {
	var bbLower, bbUpper, sma20, sma50 *float64
	if boll != nil {
		bbLower, bbUpper = &boll.Lower, &boll.Upper
	}
	if ma != nil {
		sma20, sma50 = ma.SMA20, ma.SMA50
	}

	var entries []string
	addSupport := func(name string, level *float64) {
		if level != nil && *level < current {
			entries = append(entries, fmt.Sprintf("%s at $%.2f (%.1f%%)", name, *level, (*level-current)/current*100))
		}
	}
	addSupport("Lower Bollinger Band", bbLower)
	addSupport("SMA-20 support", sma20)
	addSupport("SMA-50 support", sma50)

	if rsi != nil {
		switch {
		case *rsi >= 45 && *rsi <= 55:
			plan.Notes = append(plan.Notes, "RSI neutral - wait for oversold (below 40) or overbought (above 60)")
		case *rsi > 40 && *rsi < 45:
			plan.Notes = append(plan.Notes, "RSI approaching oversold - watch for entry near support")
		case *rsi > 55 && *rsi < 60:
			plan.Notes = append(plan.Notes, "RSI approaching overbought - wait for pullback")
		}
	}

	if macd != nil && math.Abs(macd.Line-macd.Signal) < macdCrossoverEps {
		plan.Notes = append(plan.Notes, "MACD near crossover - wait for clear signal")
	}

	if len(entries) > 0 {
		plan.Notes = append(plan.Notes, "Better entry points:")
		for _, entry := range topReasons(entries, 3) {
			plan.Notes = append(plan.Notes, "  Wait for pullback to "+entry)
		}
	} else {
		plan.Notes = append(plan.Notes, "No clear support levels - wait for 3-5% pullback")
	}

	if bbUpper != nil && *bbUpper > current {
		plan.Notes = append(plan.Notes,
			"Breakout watch:",
			fmt.Sprintf("  Buy on break above $%.2f with volume", *bbUpper),
		)
	}

	if pos, ok := rangePosition(&current, high52, low52); ok {
		switch {
		case pos < 0.3:
			plan.Notes = append(plan.Notes, fmt.Sprintf("Near 52-week low (%.0f%% of range) - may bounce from support", pos*100))
		case pos > 0.7:
			plan.Notes = append(plan.Notes, fmt.Sprintf("Near 52-week high (%.0f%% of range) - wait for pullback", pos*100))
		default:
			plan.Notes = append(plan.Notes, fmt.Sprintf("Mid-range (%.0f%% of 52w range) - wait for trend confirmation", pos*100))
		}
	}
}
