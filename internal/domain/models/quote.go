package models

import "time"

// Quote is a point-in-time price record from one of the quote sources.
// Optional fields stay nil when the source did not report them.
type Quote struct {
	Symbol        string   `json:"symbol"`
	Current       *float64 `json:"price,omitempty"`
	ChangePercent *float64 `json:"change_percent,omitempty"`
	Volume        *int64   `json:"volume,omitempty"`
	Open          *float64 `json:"open,omitempty"`
	High          *float64 `json:"high,omitempty"`
	Low           *float64 `json:"low,omitempty"`
	PreviousClose *float64 `json:"previous_close,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// Fundamentals holds the key-statistics record used for valuation and risk
// scoring. All fields optional; sources report them unevenly.
type Fundamentals struct {
	Beta             *float64 `json:"beta,omitempty"`
	PERatio          *float64 `json:"pe_ratio,omitempty"`
	DebtToEquity     *float64 `json:"debt_to_equity,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
	AverageVolume    *int64   `json:"average_volume,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
}

// Candle is a daily OHLCV bar used by the indicator calculator.
// Slices are ordered oldest-first.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// NewsArticle is a single headline returned by the news provider. The engine
// only consumes the count; titles feed the sentiment analyzer and the API
// response.
type NewsArticle struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Trade is a single intraday tick from the realtime stream.
type Trade struct {
	Symbol    string  `json:"symbol"`
	Timestamp int64   `json:"t"` // unix seconds
	Price     float64 `json:"c"`
	Volume    float64 `json:"v"`
}
