package engine

import "github.com/creasty/defaults"

// Rules is the full, explicit rule set the engine scores against. Every
// weight and threshold is a named field so deployments can tune signals in
// config without code changes; DefaultRules gives the calibrated defaults.
//
// Scores are compared unnormalized: the bonus terms can stack a side above
// 1.0 and the decision thresholds below are calibrated against that range.
// Renormalizing would silently shift signal output.
type Rules struct {
	BuyWeights  BuyWeights  `yaml:"buy_weights"`
	SellWeights SellWeights `yaml:"sell_weights"`
	Sentiment   SentimentRules
	RSI         RSIRules
	MACD        MACDRules
	Range       RangeRules
	Value       ValueRules
	Volume      VolumeRules
	RiskFactors RiskFactorRules `yaml:"risk_factors"`
	Bonus       BonusRules
	Decision    DecisionRules
}

// BuyWeights are the primary category weights of the buy score.
type BuyWeights struct {
	Sentiment float64 `yaml:"sentiment" default:"0.20"`
	RSI       float64 `yaml:"rsi" default:"0.25"`
	MACD      float64 `yaml:"macd" default:"0.25"`
	Momentum  float64 `yaml:"momentum" default:"0.15"`
	Value     float64 `yaml:"value" default:"0.10"`
	Volume    float64 `yaml:"volume" default:"0.05"`
}

// SellWeights are the primary category weights of the sell score.
type SellWeights struct {
	Sentiment float64 `yaml:"sentiment" default:"0.20"`
	RSI       float64 `yaml:"rsi" default:"0.25"`
	MACD      float64 `yaml:"macd" default:"0.25"`
	Momentum  float64 `yaml:"momentum" default:"0.15"`
	Risk      float64 `yaml:"risk" default:"0.15"`
}

type SentimentRules struct {
	BuyStrong    float64 `yaml:"buy_strong" default:"0.3"`
	BuyModerate  float64 `yaml:"buy_moderate" default:"0.1"`
	SellStrong   float64 `yaml:"sell_strong" default:"-0.3"`
	SellModerate float64 `yaml:"sell_moderate" default:"-0.1"`
	ModerateFrac float64 `yaml:"moderate_frac" default:"0.5"`
}

// RSIRules tier boundaries. All upper bounds compare strictly (an RSI of
// exactly 30.0 lands in the 30–40 tier, not below it).
type RSIRules struct {
	Oversold         float64 `yaml:"oversold" default:"30"`
	ModerateOversold float64 `yaml:"moderate_oversold" default:"40"`
	NeutralLow       float64 `yaml:"neutral_low" default:"50"`
	Overbought       float64 `yaml:"overbought" default:"70"`
	ModerateHigh     float64 `yaml:"moderate_high" default:"60"`
	OversoldFrac     float64 `yaml:"oversold_frac" default:"0.7"`
	NeutralFrac      float64 `yaml:"neutral_frac" default:"0.3"`
	OverboughtFrac   float64 `yaml:"overbought_frac" default:"0.6"`
}

type MACDRules struct {
	StrongDelta    float64 `yaml:"strong_delta" default:"0.5"`
	WeakFrac       float64 `yaml:"weak_frac" default:"0.6"`
	HistogramBonus float64 `yaml:"histogram_bonus" default:"0.05"`
}

// RangeRules position the current price within the 52-week range.
type RangeRules struct {
	NearLow      float64 `yaml:"near_low" default:"0.3"`
	BelowMid     float64 `yaml:"below_mid" default:"0.5"`
	NearHigh     float64 `yaml:"near_high" default:"0.9"`
	AboveMid     float64 `yaml:"above_mid" default:"0.7"`
	ModerateFrac float64 `yaml:"moderate_frac" default:"0.5"`
}

type ValueRules struct {
	PEAttractive   float64 `yaml:"pe_attractive" default:"15"`
	PEReasonable   float64 `yaml:"pe_reasonable" default:"25"`
	ReasonableFrac float64 `yaml:"reasonable_frac" default:"0.5"`
}

type VolumeRules struct {
	SpikeRatio float64 `yaml:"spike_ratio" default:"1.5"`
}

// RiskFactorRules drive the sell-side risk category. Beta and debt/equity
// are independent halves: both firing yields the full category weight.
type RiskFactorRules struct {
	BetaHigh       float64 `yaml:"beta_high" default:"1.5"`
	DebtEquityHigh float64 `yaml:"debt_equity_high" default:"2.0"`
	FactorFrac     float64 `yaml:"factor_frac" default:"0.5"`
}

// BonusRules cover the secondary indicators. Bonuses are additive on top of
// the primary weights, not reallocated from them.
type BonusRules struct {
	Strong float64 `yaml:"strong" default:"0.05"`
	Weak   float64 `yaml:"weak" default:"0.02"`

	PercentBLow      float64 `yaml:"percent_b_low" default:"0.2"`
	PercentBBelowMid float64 `yaml:"percent_b_below_mid" default:"0.4"`
	PercentBHigh     float64 `yaml:"percent_b_high" default:"0.8"`
	PercentBAboveMid float64 `yaml:"percent_b_above_mid" default:"0.6"`

	StochOversold   float64 `yaml:"stoch_oversold" default:"20"`
	StochLow        float64 `yaml:"stoch_low" default:"40"`
	StochOverbought float64 `yaml:"stoch_overbought" default:"80"`
	StochHigh       float64 `yaml:"stoch_high" default:"60"`

	ADXTrending float64 `yaml:"adx_trending" default:"25"`
}

// DecisionRules are the resolver's score-pair thresholds and confidence
// formula constants.
type DecisionRules struct {
	StrongBuyScore   float64 `yaml:"strong_buy_score" default:"0.65"`
	StrongSellScore  float64 `yaml:"strong_sell_score" default:"0.60"`
	StrongOpposition float64 `yaml:"strong_opposition" default:"0.3"`
	ModerateScore    float64 `yaml:"moderate_score" default:"0.45"`

	StrongScale float64 `yaml:"strong_scale" default:"0.85"`
	StrongBase  float64 `yaml:"strong_base" default:"0.15"`
	StrongCap   float64 `yaml:"strong_cap" default:"0.95"`

	ModerateBase  float64 `yaml:"moderate_base" default:"0.55"`
	ModerateScale float64 `yaml:"moderate_scale" default:"0.5"`
	ModerateCap   float64 `yaml:"moderate_cap" default:"0.75"`
	ModerateTopN  int     `yaml:"moderate_top_n" default:"3"`

	HoldBalancedDiff float64 `yaml:"hold_balanced_diff" default:"0.1"`
	HoldBalancedConf float64 `yaml:"hold_balanced_conf" default:"0.35"`
	HoldMixedBase    float64 `yaml:"hold_mixed_base" default:"0.45"`
	HoldMixedScale   float64 `yaml:"hold_mixed_scale" default:"0.2"`
}

// DefaultRules returns the calibrated rule set.
func DefaultRules() Rules {
	var r Rules
	if err := defaults.Set(&r); err != nil {
		// struct tags are static; a failure here is a programming error
		panic(err)
	}
	return r
}
