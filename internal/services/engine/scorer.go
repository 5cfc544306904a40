package engine

import (
	"fmt"
	"math"

	"MarketIntel/internal/domain/models"
)

// scores holds the two independent weighted sums plus the ordered reason
// lists that fed them. Reason order matches evaluation order and is
// significant: the resolver truncates moderate signals to the first N.
type scores struct {
	buy         float64
	sell        float64
	buyReasons  []string
	sellReasons []string
}

// score computes buy and sell scores over the snapshot. Categories whose
// required fields are absent contribute nothing and emit no reason; sparse
// data degrades the score, it never fails it.
func (e *Engine) score(s *models.MarketSnapshot) scores {
	var sc scores

	tech := s.Technical
	var rsi *float64
	var macd *models.MACD
	var boll *models.BollingerBands
	var stoch *models.Stochastic
	var adx *models.ADX
	var ma *models.MovingAverages
	if tech != nil {
		rsi = tech.RSI
		macd = tech.MACD
		boll = tech.Bollinger
		stoch = tech.Stochastic
		adx = tech.ADX
		ma = tech.MovingAverages
	}

	sentiment := 0.0
	if s.Sentiment != nil {
		sentiment = s.Sentiment.Score
	}

	var price *float64
	var volume *int64
	if s.Price != nil {
		price = s.Price.Current
		volume = s.Price.Volume
	}

	var beta, pe, dte, high52, low52 *float64
	var avgVolume *int64
	if s.Fundamentals != nil {
		beta = s.Fundamentals.Beta
		pe = s.Fundamentals.PERatio
		dte = s.Fundamentals.DebtToEquity
		high52 = s.Fundamentals.FiftyTwoWeekHigh
		low52 = s.Fundamentals.FiftyTwoWeekLow
		avgVolume = s.Fundamentals.AverageVolume
	}

	e.scoreBuy(&sc, sentiment, rsi, macd, price, volume, avgVolume, pe, high52, low52)
	e.scoreSell(&sc, sentiment, rsi, macd, price, beta, dte, high52, low52)
	e.scoreBonuses(&sc, price, boll, stoch, ma, adx)

	return sc
}

func (e *Engine) scoreBuy(sc *scores, sentiment float64, rsi *float64, macd *models.MACD, price *float64, volume, avgVolume *int64, pe, high52, low52 *float64) {
	w := e.rules.BuyWeights
	r := e.rules

	// 1. Sentiment
	switch {
	case sentiment >= r.Sentiment.BuyStrong:
		sc.buyReason(w.Sentiment, fmt.Sprintf("Strong positive sentiment (%.2f)", sentiment))
	case sentiment >= r.Sentiment.BuyModerate:
		sc.buyReason(w.Sentiment*r.Sentiment.ModerateFrac, fmt.Sprintf("Moderately positive sentiment (%.2f)", sentiment))
	}

	// 2. RSI tiers, strict upper bounds
	if rsi != nil {
		switch {
		case *rsi < r.RSI.Oversold:
			sc.buyReason(w.RSI, fmt.Sprintf("RSI strongly oversold (%.1f - great entry point)", *rsi))
		case *rsi < r.RSI.ModerateOversold:
			sc.buyReason(w.RSI*r.RSI.OversoldFrac, fmt.Sprintf("RSI moderately oversold (%.1f)", *rsi))
		case *rsi < r.RSI.NeutralLow:
			sc.buyReason(w.RSI*r.RSI.NeutralFrac, fmt.Sprintf("RSI neutral-low (%.1f)", *rsi))
		}
	}

	// 3. MACD crossover plus histogram momentum
	if macd != nil {
		diff := macd.Line - macd.Signal
		if macd.Line > macd.Signal {
			if diff > r.MACD.StrongDelta {
				sc.buyReason(w.MACD, fmt.Sprintf("Strong MACD bullish crossover (delta %.2f)", diff))
			} else {
				sc.buyReason(w.MACD*r.MACD.WeakFrac, fmt.Sprintf("MACD bullish (%.2f)", diff))
			}
			if macd.Histogram != nil && *macd.Histogram > 0 {
				sc.buyReason(r.MACD.HistogramBonus, fmt.Sprintf("MACD histogram positive (%.2f)", *macd.Histogram))
			}
		}
	}

	// 4. Position in the 52-week range. Skipped when the range is degenerate.
	if pos, ok := rangePosition(price, high52, low52); ok {
		switch {
		case pos < r.Range.NearLow:
			sc.buyReason(w.Momentum, fmt.Sprintf("Near 52-week low (%.0f%% of range)", pos*100))
		case pos < r.Range.BelowMid:
			sc.buyReason(w.Momentum*r.Range.ModerateFrac, fmt.Sprintf("Below midpoint of 52-week range (%.0f%%)", pos*100))
		}
	}

	// 5. Valuation
	if pe != nil {
		switch {
		case *pe < r.Value.PEAttractive:
			sc.buyReason(w.Value, fmt.Sprintf("Attractive P/E ratio (%.1f)", *pe))
		case *pe < r.Value.PEReasonable:
			sc.buyReason(w.Value*r.Value.ReasonableFrac, fmt.Sprintf("Reasonable P/E ratio (%.1f)", *pe))
		}
	}

	// 6. Volume confirmation
	if volume != nil && avgVolume != nil && *avgVolume > 0 {
		ratio := float64(*volume) / float64(*avgVolume)
		if ratio > r.Volume.SpikeRatio {
			sc.buyReason(w.Volume, fmt.Sprintf("High volume confirmation (%.1fx avg)", ratio))
		}
	}
}

func (e *Engine) scoreSell(sc *scores, sentiment float64, rsi *float64, macd *models.MACD, price, beta, dte, high52, low52 *float64) {
	w := e.rules.SellWeights
	r := e.rules

	// 1. Sentiment
	switch {
	case sentiment <= r.Sentiment.SellStrong:
		sc.sellReason(w.Sentiment, fmt.Sprintf("Negative sentiment (%.2f)", sentiment))
	case sentiment <= r.Sentiment.SellModerate:
		sc.sellReason(w.Sentiment*r.Sentiment.ModerateFrac, fmt.Sprintf("Moderately negative sentiment (%.2f)", sentiment))
	}

	// 2. RSI overbought
	if rsi != nil {
		switch {
		case *rsi > r.RSI.Overbought:
			sc.sellReason(w.RSI, fmt.Sprintf("RSI overbought (%.1f - take profits)", *rsi))
		case *rsi > r.RSI.ModerateHigh:
			sc.sellReason(w.RSI*r.RSI.OverboughtFrac, fmt.Sprintf("RSI moderately high (%.1f)", *rsi))
		}
	}

	// 3. MACD bearish
	if macd != nil && macd.Line < macd.Signal {
		diff := math.Abs(macd.Line - macd.Signal)
		if diff > r.MACD.StrongDelta {
			sc.sellReason(w.MACD, fmt.Sprintf("Strong MACD bearish crossover (delta -%.2f)", diff))
		} else {
			sc.sellReason(w.MACD*r.MACD.WeakFrac, fmt.Sprintf("MACD bearish (delta -%.2f)", diff))
		}
	}

	// 4. Overextension in the 52-week range
	if pos, ok := rangePosition(price, high52, low52); ok {
		switch {
		case pos > r.Range.NearHigh:
			sc.sellReason(w.Momentum, fmt.Sprintf("Near 52-week high (%.0f%% - overbought)", pos*100))
		case pos > r.Range.AboveMid:
			sc.sellReason(w.Momentum*r.Range.ModerateFrac, fmt.Sprintf("Above 52-week midpoint (%.0f%%)", pos*100))
		}
	}

	// 5. Risk factors: beta and leverage fire independently, each for half
	// the category weight.
	var factors []string
	if beta != nil && *beta > r.RiskFactors.BetaHigh {
		factors = append(factors, fmt.Sprintf("High volatility (beta=%.2f)", *beta))
		sc.sell += w.Risk * r.RiskFactors.FactorFrac
	}
	if dte != nil && *dte > r.RiskFactors.DebtEquityHigh {
		factors = append(factors, fmt.Sprintf("High debt/equity (%.2f)", *dte))
		sc.sell += w.Risk * r.RiskFactors.FactorFrac
	}
	if len(factors) > 0 {
		sc.sellReasons = append(sc.sellReasons, "Risk: "+joinFactors(factors))
	}
}

// scoreBonuses applies the four secondary indicators to both sides. These
// stack on top of the primary weights.
func (e *Engine) scoreBonuses(sc *scores, price *float64, boll *models.BollingerBands, stoch *models.Stochastic, ma *models.MovingAverages, adx *models.ADX) {
	b := e.rules.Bonus

	if boll != nil && price != nil {
		switch {
		case boll.PercentB < b.PercentBLow:
			sc.buyReason(b.Strong, fmt.Sprintf("BB oversold (%%B=%.0f%%)", boll.PercentB*100))
		case boll.PercentB < b.PercentBBelowMid:
			sc.buyReason(b.Weak, "BB below midpoint")
		}
		switch {
		case boll.PercentB > b.PercentBHigh:
			sc.sellReason(b.Strong, fmt.Sprintf("BB overbought (%%B=%.0f%%)", boll.PercentB*100))
		case boll.PercentB > b.PercentBAboveMid:
			sc.sellReason(b.Weak, "BB above midpoint")
		}
	}

	if stoch != nil {
		switch {
		case stoch.K < b.StochOversold:
			sc.buyReason(b.Strong, fmt.Sprintf("Stochastic oversold (%.0f)", stoch.K))
		case stoch.K < b.StochLow:
			sc.buyReason(b.Weak, fmt.Sprintf("Stochastic low (%.0f)", stoch.K))
		}
		switch {
		case stoch.K > b.StochOverbought:
			sc.sellReason(b.Strong, fmt.Sprintf("Stochastic overbought (%.0f)", stoch.K))
		case stoch.K > b.StochHigh:
			sc.sellReason(b.Weak, fmt.Sprintf("Stochastic high (%.0f)", stoch.K))
		}
	}

	if ma != nil {
		above20 := ma.AboveSMA20
		above50 := ma.AboveSMA50
		switch {
		case above20 != nil && *above20 && above50 != nil && *above50:
			sc.buyReason(b.Strong, "Price above SMA 20 & 50")
		case above20 != nil && *above20:
			sc.buyReason(b.Weak, "Price above SMA 20")
		}
		switch {
		case above20 != nil && !*above20 && above50 != nil && !*above50:
			sc.sellReason(b.Strong, "Price below SMA 20 & 50")
		case above20 != nil && !*above20:
			sc.sellReason(b.Weak, "Price below SMA 20")
		}
	}

	if adx != nil && adx.Value > b.ADXTrending && adx.DIPlus != nil && adx.DIMinus != nil {
		if *adx.DIPlus > *adx.DIMinus {
			sc.buyReason(b.Strong, fmt.Sprintf("Strong uptrend (ADX=%.0f)", adx.Value))
		} else if *adx.DIMinus > *adx.DIPlus {
			sc.sellReason(b.Strong, fmt.Sprintf("Strong downtrend (ADX=%.0f)", adx.Value))
		}
	}
}

func (sc *scores) buyReason(weight float64, reason string) {
	sc.buy += weight
	sc.buyReasons = append(sc.buyReasons, reason)
}

func (sc *scores) sellReason(weight float64, reason string) {
	sc.sell += weight
	sc.sellReasons = append(sc.sellReasons, reason)
}

// rangePosition returns where price sits inside the 52-week range in [0,1].
// ok is false when any input is missing or the range is degenerate
// (high <= low): a zero-width range has no defined position.
func rangePosition(price, high, low *float64) (float64, bool) {
	if price == nil || high == nil || low == nil {
		return 0, false
	}
	span := *high - *low
	if span <= 0 {
		return 0, false
	}
	return (*price - *low) / span, true
}

func joinFactors(factors []string) string {
	out := factors[0]
	for _, f := range factors[1:] {
		out += ", " + f
	}
	return out
}
