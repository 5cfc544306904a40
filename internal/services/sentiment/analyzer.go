// Package sentiment scores news headlines with a keyword lexicon. Scores
// land in [-1, 1] per headline and are averaged into the aggregate the
// engine consumes.
package sentiment

import (
	"strings"

	"MarketIntel/internal/domain/models"
)

var positiveWords = []string{
	"gain", "profit", "surge", "rise", "growth", "boost", "up", "increase",
	"positive", "beat", "strong", "outperform", "bullish", "rally", "soar",
	"success", "record", "high", "upgrade", "buy", "optimistic",
}

var negativeWords = []string{
	"loss", "decline", "fall", "drop", "plunge", "crash", "down", "decrease",
	"negative", "miss", "weak", "underperform", "bearish", "sell", "downgrade",
	"concern", "risk", "low", "poor", "worst", "cut", "pessimistic",
}

const (
	headlineScoreCap = 0.8
	positiveEdge     = 0.1
	negativeEdge     = -0.1
)

type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Score rates a single headline in [-1, 1]. Empty or balanced text is
// neutral (0).
func (a *Analyzer) Score(text string) float64 {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return 0
	}

	var pos, neg int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return min(float64(pos)/float64(pos+neg+1), headlineScoreCap)
	case neg > pos:
		return -min(float64(neg)/float64(pos+neg+1), headlineScoreCap)
	default:
		return 0
	}
}

// Analyze averages the per-headline scores into the aggregate summary.
func (a *Analyzer) Analyze(headlines []string) models.SentimentSummary {
	if len(headlines) == 0 {
		return models.SentimentSummary{Label: "neutral"}
	}

	var total float64
	for _, h := range headlines {
		total += a.Score(h)
	}
	score := total / float64(len(headlines))

	label := "neutral"
	if score > positiveEdge {
		label = "positive"
	} else if score < negativeEdge {
		label = "negative"
	}

	return models.SentimentSummary{
		Score:    score,
		Label:    label,
		Analyzed: len(headlines),
	}
}
