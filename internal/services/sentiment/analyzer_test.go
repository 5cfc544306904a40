package sentiment

import "testing"

func TestScorePositive(t *testing.T) {
	a := NewAnalyzer()
	s := a.Score("Shares surge after record profit beat")
	if s <= 0 {
		t.Fatalf("expected positive score, got %v", s)
	}
	if s > 0.8 {
		t.Fatalf("headline score must cap at 0.8, got %v", s)
	}
}

func TestScoreNegative(t *testing.T) {
	a := NewAnalyzer()
	s := a.Score("Stock plunges on weak guidance and downgrade")
	if s >= 0 {
		t.Fatalf("expected negative score, got %v", s)
	}
}

func TestScoreNeutral(t *testing.T) {
	a := NewAnalyzer()
	if s := a.Score("Company announces quarterly results date"); s != 0 {
		t.Fatalf("expected neutral 0, got %v", s)
	}
	if s := a.Score("   "); s != 0 {
		t.Fatalf("blank text should be neutral, got %v", s)
	}
}

func TestScoreBalanced(t *testing.T) {
	a := NewAnalyzer()
	if s := a.Score("Profit gain offset by loss and decline"); s != 0 {
		t.Fatalf("balanced mentions should be neutral, got %v", s)
	}
}

func TestAnalyzeAggregate(t *testing.T) {
	a := NewAnalyzer()
	sum := a.Analyze([]string{
		"Record profit and strong growth",
		"Analysts upgrade on bullish outlook",
		"Minor concern over supply",
	})
	if sum.Analyzed != 3 {
		t.Fatalf("expected 3 analyzed, got %d", sum.Analyzed)
	}
	if sum.Label != "positive" {
		t.Fatalf("expected positive label, got %q (score %v)", sum.Label, sum.Score)
	}
	if sum.Score < -1 || sum.Score > 1 {
		t.Fatalf("score out of range: %v", sum.Score)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	a := NewAnalyzer()
	sum := a.Analyze(nil)
	if sum.Label != "neutral" || sum.Score != 0 || sum.Analyzed != 0 {
		t.Fatalf("empty input should be neutral zero, got %+v", sum)
	}
}
