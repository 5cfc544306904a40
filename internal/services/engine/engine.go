// Package engine turns a multi-source market snapshot into a trading
// signal: a weighted buy/sell scorer, a threshold resolver, a risk
// classifier, and a swing-trade planner. The engine is pure; all I/O
// happens upstream in the snapshot builder.
package engine

import (
	"fmt"
	"math"

	"MarketIntel/internal/domain/models"
)

type Engine struct {
	rules Rules
}

func New(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// Generate scores the snapshot and resolves it into a SignalResult. Absent
// fields degrade the scores, they never error; only values outside their
// domain (an RSI of 120, a negative price) reject the snapshot.
func (e *Engine) Generate(s *models.MarketSnapshot) (*models.SignalResult, error) {
	if err := validate(s); err != nil {
		return nil, err
	}

	sc := e.score(s)
	action, confidence, reasons := e.resolve(sc)

	risk := classifyRisk(s)
	if action == models.ActionSell {
		risk = models.RiskHigh
	}

	reasons = appendContext(reasons, s)

	return &models.SignalResult{
		Symbol:     s.Symbol,
		Action:     action,
		Confidence: confidence,
		BuyScore:   sc.buy,
		SellScore:  sc.sell,
		Reasons:    reasons,
		RiskLevel:  risk,
		NewsCount:  s.NewsArticleCount,
		SwingTrade: e.planSwing(s, action, confidence),
	}, nil
}

// appendContext adds the price and news trailer reasons present on every
// signal regardless of action.
func appendContext(reasons []string, s *models.MarketSnapshot) []string {
	if s.Price != nil && s.Price.Current != nil && s.Price.ChangePercent != nil {
		direction := "+"
		if *s.Price.ChangePercent < 0 {
			direction = "-"
		}
		reasons = append(reasons, fmt.Sprintf("Current: $%.2f %s%.2f%%", *s.Price.Current, direction, math.Abs(*s.Price.ChangePercent)))
	}
	switch n := s.NewsArticleCount; {
	case n == 1:
		reasons = append(reasons, "1 recent article analyzed")
	case n > 1:
		reasons = append(reasons, fmt.Sprintf("%d recent articles analyzed", n))
	}
	return reasons
}

func validate(s *models.MarketSnapshot) error {
	if s == nil {
		return invalidInput("snapshot", "nil")
	}
	if s.Symbol == "" {
		return invalidInput("symbol", "empty")
	}
	if s.NewsArticleCount < 0 {
		return invalidInput("news_article_count", "negative (%d)", s.NewsArticleCount)
	}

	if s.Price != nil && s.Price.Current != nil && *s.Price.Current <= 0 {
		return invalidInput("price.current", "must be positive, got %.4f", *s.Price.Current)
	}

	if s.Sentiment != nil {
		if score := s.Sentiment.Score; score < -1 || score > 1 {
			return invalidInput("sentiment.score", "outside [-1, 1], got %.4f", score)
		}
	}

	if t := s.Technical; t != nil {
		if t.RSI != nil && (*t.RSI < 0 || *t.RSI > 100) {
			return invalidInput("technical.rsi", "outside [0, 100], got %.4f", *t.RSI)
		}
		if t.Stochastic != nil && (t.Stochastic.K < 0 || t.Stochastic.K > 100) {
			return invalidInput("technical.stochastic.k", "outside [0, 100], got %.4f", t.Stochastic.K)
		}
		if t.ADX != nil && (t.ADX.Value < 0 || t.ADX.Value > 100) {
			return invalidInput("technical.adx", "outside [0, 100], got %.4f", t.ADX.Value)
		}
		if t.ATR != nil && *t.ATR < 0 {
			return invalidInput("technical.atr", "negative, got %.4f", *t.ATR)
		}
	}

	return nil
}
