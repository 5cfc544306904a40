// Package indicators computes the technical indicator set from daily
// candles. The calculator is pure math; the provider in this package fetches
// the candle history and feeds it through.
package indicators

import (
	"math"

	"MarketIntel/internal/domain/models"
)

const (
	rsiPeriod    = 14
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	bbPeriod     = 20
	bbStdDevs    = 2.0
	stochKPeriod = 14
	stochDPeriod = 3
	adxPeriod    = 14
	atrPeriod    = 14
	smaShort     = 20
	smaLong      = 50
)

// Compute derives the full indicator set from candles ordered oldest-first.
// Indicators whose minimum history is not met stay nil; with fewer than two
// candles the result itself is nil.
func Compute(candles []models.Candle) *models.TechnicalIndicators {
	if len(candles) < 2 {
		return nil
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
	}

	t := &models.TechnicalIndicators{
		RSI:            rsi(closes, rsiPeriod),
		MACD:           macd(closes),
		Bollinger:      bollinger(closes, bbPeriod, bbStdDevs),
		Stochastic:     stochastic(highs, lows, closes, stochKPeriod, stochDPeriod),
		ADX:            adx(highs, lows, closes, adxPeriod),
		MovingAverages: movingAverages(closes),
		ATR:            atr(highs, lows, closes, atrPeriod),
	}
	return t
}

// rsi is Wilder's RSI: exponential smoothing of gains and losses with
// alpha = 1/period.
func rsi(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return models.Ptr(100.0)
	}
	rs := avgGain / avgLoss
	return models.Ptr(100 - 100/(1+rs))
}

// ema returns the full EMA series with the standard alpha = 2/(period+1),
// seeded from the first value.
func ema(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}
	alpha := 2.0 / (float64(period) + 1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

func macd(closes []float64) *models.MACD {
	if len(closes) < macdSlow+macdSignal {
		return nil
	}
	fast := ema(closes, macdFast)
	slow := ema(closes, macdSlow)

	line := make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal := ema(line, macdSignal)

	last := len(closes) - 1
	return &models.MACD{
		Line:      line[last],
		Signal:    signal[last],
		Histogram: models.Ptr(line[last] - signal[last]),
	}
}

func bollinger(closes []float64, period int, k float64) *models.BollingerBands {
	if len(closes) < period {
		return nil
	}
	window := closes[len(closes)-period:]

	var sum float64
	for _, v := range window {
		sum += v
	}
	mean := sum / float64(period)

	var variance float64
	for _, v := range window {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(period))

	upper := mean + k*std
	lower := mean - k*std

	percentB := 0.5
	if span := upper - lower; span > 0 {
		percentB = (closes[len(closes)-1] - lower) / span
	}

	return &models.BollingerBands{
		Upper:    upper,
		Middle:   mean,
		Lower:    lower,
		PercentB: percentB,
	}
}

func stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) *models.Stochastic {
	// %D needs dPeriod consecutive %K values.
	need := kPeriod + dPeriod - 1
	if len(closes) < need {
		return nil
	}

	kAt := func(end int) (float64, bool) {
		hi, lo := math.Inf(-1), math.Inf(1)
		for i := end - kPeriod + 1; i <= end; i++ {
			hi = math.Max(hi, highs[i])
			lo = math.Min(lo, lows[i])
		}
		if hi == lo {
			return 0, false
		}
		return 100 * (closes[end] - lo) / (hi - lo), true
	}

	last := len(closes) - 1
	k, ok := kAt(last)
	if !ok {
		return nil
	}

	var dSum float64
	dMissing := false
	for i := 0; i < dPeriod; i++ {
		v, ok := kAt(last - i)
		if !ok {
			dMissing = true
			break
		}
		dSum += v
	}

	s := &models.Stochastic{K: k}
	if !dMissing {
		s.D = models.Ptr(dSum / float64(dPeriod))
	}
	return s
}

// adx is Wilder's ADX with smoothed +DM/-DM/TR and a smoothed DX series.
func adx(highs, lows, closes []float64, period int) *models.ADX {
	// DX needs period smoothed bars; ADX another period of DX values.
	if len(closes) < 2*period+1 {
		return nil
	}

	n := len(closes)
	trs := make([]float64, n-1)
	plusDM := make([]float64, n-1)
	minusDM := make([]float64, n-1)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		if up > down && up > 0 {
			plusDM[i-1] = up
		}
		if down > up && down > 0 {
			minusDM[i-1] = down
		}
		trs[i-1] = trueRange(highs[i], lows[i], closes[i-1])
	}

	smooth := func(vals []float64) []float64 {
		out := make([]float64, 0, len(vals)-period+1)
		var s float64
		for i := 0; i < period; i++ {
			s += vals[i]
		}
		out = append(out, s)
		for i := period; i < len(vals); i++ {
			s = s - s/float64(period) + vals[i]
			out = append(out, s)
		}
		return out
	}

	sTR := smooth(trs)
	sPlus := smooth(plusDM)
	sMinus := smooth(minusDM)

	dxs := make([]float64, len(sTR))
	var diPlus, diMinus float64
	for i := range sTR {
		if sTR[i] == 0 {
			continue
		}
		diPlus = 100 * sPlus[i] / sTR[i]
		diMinus = 100 * sMinus[i] / sTR[i]
		if sum := diPlus + diMinus; sum > 0 {
			dxs[i] = 100 * math.Abs(diPlus-diMinus) / sum
		}
	}

	if len(dxs) < period {
		return nil
	}
	var adxVal float64
	for i := 0; i < period; i++ {
		adxVal += dxs[i]
	}
	adxVal /= float64(period)
	for i := period; i < len(dxs); i++ {
		adxVal = (adxVal*float64(period-1) + dxs[i]) / float64(period)
	}

	return &models.ADX{
		Value:   adxVal,
		DIPlus:  models.Ptr(diPlus),
		DIMinus: models.Ptr(diMinus),
	}
}

func atr(highs, lows, closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	var sum float64
	for i := 1; i <= period; i++ {
		sum += trueRange(highs[i], lows[i], closes[i-1])
	}
	val := sum / float64(period)
	for i := period + 1; i < len(closes); i++ {
		val = (val*float64(period-1) + trueRange(highs[i], lows[i], closes[i-1])) / float64(period)
	}
	return models.Ptr(val)
}

func trueRange(high, low, prevClose float64) float64 {
	tr := high - low
	tr = math.Max(tr, math.Abs(high-prevClose))
	return math.Max(tr, math.Abs(low-prevClose))
}

func sma(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}
	var sum float64
	for _, v := range closes[len(closes)-period:] {
		sum += v
	}
	return models.Ptr(sum / float64(period))
}

func movingAverages(closes []float64) *models.MovingAverages {
	ma := &models.MovingAverages{
		SMA20: sma(closes, smaShort),
		SMA50: sma(closes, smaLong),
	}
	if ma.SMA20 == nil && ma.SMA50 == nil {
		return nil
	}
	price := closes[len(closes)-1]
	if ma.SMA20 != nil {
		ma.AboveSMA20 = models.Ptr(price > *ma.SMA20)
	}
	if ma.SMA50 != nil {
		ma.AboveSMA50 = models.Ptr(price > *ma.SMA50)
	}
	return ma
}
