package models

// MarketSnapshot is the engine input: a read-only aggregate of independently
// optional sub-records assembled from the data providers. Every leaf is
// nullable on its own; the engine never assumes co-presence of fields.
type MarketSnapshot struct {
	Symbol           string
	Technical        *TechnicalIndicators
	Sentiment        *SentimentSummary
	Price            *Quote
	Fundamentals     *Fundamentals
	NewsArticleCount int
}

// TechnicalIndicators groups per-indicator sub-records. Pointer fields
// distinguish "absent" from "present but zero" (a histogram of exactly 0.0
// is real data, not a gap).
type TechnicalIndicators struct {
	RSI            *float64        `json:"rsi,omitempty"`
	MACD           *MACD           `json:"macd,omitempty"`
	Bollinger      *BollingerBands `json:"bollinger,omitempty"`
	Stochastic     *Stochastic     `json:"stochastic,omitempty"`
	ADX            *ADX            `json:"adx,omitempty"`
	MovingAverages *MovingAverages `json:"moving_averages,omitempty"`
	ATR            *float64        `json:"atr,omitempty"`
}

type MACD struct {
	Line      float64  `json:"macd"`
	Signal    float64  `json:"signal"`
	Histogram *float64 `json:"histogram,omitempty"`
}

type BollingerBands struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	PercentB float64 `json:"percent_b"`
}

type Stochastic struct {
	K float64  `json:"k"`
	D *float64 `json:"d,omitempty"`
}

type ADX struct {
	Value   float64  `json:"adx"`
	DIPlus  *float64 `json:"di_plus,omitempty"`
	DIMinus *float64 `json:"di_minus,omitempty"`
}

type MovingAverages struct {
	SMA20      *float64 `json:"sma_20,omitempty"`
	SMA50      *float64 `json:"sma_50,omitempty"`
	AboveSMA20 *bool    `json:"above_sma_20,omitempty"`
	AboveSMA50 *bool    `json:"above_sma_50,omitempty"`
}

// SentimentSummary is the aggregate over analyzed headlines.
// score ∈ [-1, 1]; an absent summary is treated as neutral by the engine.
type SentimentSummary struct {
	Score    float64 `json:"score"`
	Label    string  `json:"label"` // "positive", "neutral", "negative"
	Analyzed int     `json:"analyzed"`
}

// Ptr returns a pointer to v. Convenience for building snapshots with
// optional leaves, mostly in tests and provider adapters.
func Ptr[T any](v T) *T { return &v }
