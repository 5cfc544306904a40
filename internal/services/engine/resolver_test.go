package engine

import (
	"strings"
	"testing"

	"MarketIntel/internal/domain/models"
)

func TestResolveDecisionTable(t *testing.T) {
	e := newTestEngine()

	cases := []struct {
		name       string
		buy, sell  float64
		action     models.Action
		confidence float64
	}{
		{"strong buy", 0.80, 0.10, models.ActionBuy, 0.80*0.85 + 0.15},
		{"strong buy capped", 1.20, 0.10, models.ActionBuy, 0.95},
		{"strong buy no opposition", 0.70, 0, models.ActionBuy, 0.70*0.85 + 0.15},
		{"strong blocked by opposition", 0.70, 0.35, models.ActionBuy, 0.55 + (0.70-0.35)*0.5},
		{"moderate buy", 0.50, 0.20, models.ActionBuy, 0.55 + 0.30*0.5},
		{"moderate sell", 0.10, 0.50, models.ActionSell, 0.55 + 0.40*0.5},
		{"moderate capped", 0.95, 0.35, models.ActionBuy, 0.75},
		{"balanced hold", 0.40, 0.38, models.ActionHold, 0.35},
		{"mixed hold", 0.40, 0.20, models.ActionHold, 0.45 + 0.20*0.2},
		{"weak everything", 0.10, 0.05, models.ActionHold, 0.35},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			action, conf, _ := e.resolve(scores{buy: tc.buy, sell: tc.sell})
			if action != tc.action {
				t.Fatalf("expected %s, got %s", tc.action, action)
			}
			if !approx(conf, tc.confidence) {
				t.Fatalf("expected confidence %v, got %v", tc.confidence, conf)
			}
		})
	}
}

func TestResolveStrongSellRow(t *testing.T) {
	e := newTestEngine()
	action, conf, _ := e.resolve(scores{buy: 0.10, sell: 0.65})
	if action != models.ActionSell {
		t.Fatalf("expected SELL, got %s", action)
	}
	if !approx(conf, 0.65*0.85+0.15) {
		t.Fatalf("unexpected confidence %v", conf)
	}
}

func TestResolveModerateTruncatesReasons(t *testing.T) {
	e := newTestEngine()
	sc := scores{
		buy:        0.50,
		sell:       0.10,
		buyReasons: []string{"a", "b", "c", "d", "e"},
	}
	_, _, reasons := e.resolve(sc)
	if len(reasons) != 3 {
		t.Fatalf("expected top 3 reasons, got %v", reasons)
	}
	if reasons[0] != "a" || reasons[2] != "c" {
		t.Fatalf("reason order not preserved: %v", reasons)
	}
}

func TestResolveStrongKeepsAllReasons(t *testing.T) {
	e := newTestEngine()
	sc := scores{
		buy:        0.80,
		sell:       0.10,
		buyReasons: []string{"a", "b", "c", "d", "e"},
	}
	_, _, reasons := e.resolve(sc)
	if len(reasons) != 5 {
		t.Fatalf("strong signal should keep every reason, got %v", reasons)
	}
}

func TestResolveHoldSurfacesBothSides(t *testing.T) {
	e := newTestEngine()
	sc := scores{
		buy:         0.30,
		sell:        0.25,
		buyReasons:  []string{"bull lead", "bull extra"},
		sellReasons: []string{"bear lead"},
	}
	_, _, reasons := e.resolve(sc)
	var hasBull, hasBear bool
	for _, r := range reasons {
		if strings.HasPrefix(r, "Bullish: bull lead") {
			hasBull = true
		}
		if strings.HasPrefix(r, "Bearish: bear lead") {
			hasBear = true
		}
	}
	if !hasBull || !hasBear {
		t.Fatalf("expected both sides surfaced, got %v", reasons)
	}
}

func approx(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
