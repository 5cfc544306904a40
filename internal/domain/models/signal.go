package models

// Action is the discrete trading recommendation.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// RiskLevel classifies the position risk attached to a signal.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// SignalResult is the engine output. Immutable once produced; callers must
// not mutate the reasons slice. Buy/sell scores are unnormalized: secondary
// bonuses can stack a side above 1.0 and the resolver thresholds are
// calibrated against that range.
type SignalResult struct {
	Symbol     string     `json:"symbol"`
	Action     Action     `json:"action"`
	Confidence float64    `json:"confidence"`
	BuyScore   float64    `json:"buy_score"`
	SellScore  float64    `json:"sell_score"`
	Reasons    []string   `json:"reasons"`
	RiskLevel  RiskLevel  `json:"risk_level"`
	NewsCount  int        `json:"news_count"`
	SwingTrade *SwingPlan `json:"swing_trade,omitempty"`
}

// SwingPlan carries concrete swing-trade levels for a BUY, exit guidance for
// a SELL, or entry-point watchlists for a HOLD. Nil when no current price is
// available to anchor the levels.
type SwingPlan struct {
	Action          Action   `json:"action"`
	CurrentPrice    float64  `json:"current_price"`
	EntryPrice      *float64 `json:"entry_price,omitempty"`
	TargetPrice     *float64 `json:"target_price,omitempty"`
	StopLoss        *float64 `json:"stop_loss,omitempty"`
	RiskRewardRatio *float64 `json:"risk_reward_ratio,omitempty"`
	HoldingPeriod   string   `json:"holding_period,omitempty"`
	Notes           []string `json:"notes"`
}
