package quotes

import (
	"context"
	"errors"
	"testing"

	"MarketIntel/internal/domain/models"
	domsvc "MarketIntel/internal/domain/service"
	"MarketIntel/pkg/logger"
)

type stubSource struct {
	quote *models.Quote
	err   error
	calls int
}

func (s *stubSource) Quote(context.Context, string, string) (*models.Quote, error) {
	s.calls++
	return s.quote, s.err
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func TestMultiSourcePrimaryWins(t *testing.T) {
	primary := &stubSource{quote: &models.Quote{Symbol: "AAPL", Current: models.Ptr(190.0), Source: "fmp"}}
	fallback := &stubSource{quote: &models.Quote{Symbol: "AAPL", Current: models.Ptr(189.0), Source: "alphavantage"}}

	m := NewMultiSource(testLogger(t), []domsvc.QuoteProvider{primary, fallback})
	q, err := m.Quote(context.Background(), "AAPL", "NASDAQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != "fmp" {
		t.Fatalf("expected primary source, got %s", q.Source)
	}
	if fallback.calls != 0 {
		t.Fatalf("fallback should not be called when primary succeeds")
	}
}

func TestMultiSourceFallsBack(t *testing.T) {
	primary := &stubSource{err: errors.New("rate limited")}
	fallback := &stubSource{quote: &models.Quote{Symbol: "AAPL", Current: models.Ptr(189.0), Source: "alphavantage"}}

	m := NewMultiSource(testLogger(t), []domsvc.QuoteProvider{primary, fallback})
	q, err := m.Quote(context.Background(), "AAPL", "NASDAQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != "alphavantage" {
		t.Fatalf("expected fallback source, got %s", q.Source)
	}
}

func TestMultiSourceSkipsPricelessQuote(t *testing.T) {
	primary := &stubSource{quote: &models.Quote{Symbol: "AAPL", Source: "fmp"}} // no price
	fallback := &stubSource{quote: &models.Quote{Symbol: "AAPL", Current: models.Ptr(189.0), Source: "alphavantage"}}

	m := NewMultiSource(testLogger(t), []domsvc.QuoteProvider{primary, fallback})
	q, err := m.Quote(context.Background(), "AAPL", "NASDAQ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Source != "alphavantage" {
		t.Fatalf("a priceless quote should not win, got %s", q.Source)
	}
}

func TestMultiSourceAllFail(t *testing.T) {
	primary := &stubSource{err: errors.New("down")}
	fallback := &stubSource{err: errors.New("also down")}

	m := NewMultiSource(testLogger(t), []domsvc.QuoteProvider{primary, fallback})
	if _, err := m.Quote(context.Background(), "AAPL", "NASDAQ"); err == nil {
		t.Fatalf("expected error when every source fails")
	}
}

func TestAlphaVantageParsing(t *testing.T) {
	if v := parsePercent("1.2345%"); v == nil || *v != 1.2345 {
		t.Fatalf("percent parse failed: %v", v)
	}
	if v := parseFloat("not a number"); v != nil {
		t.Fatalf("expected nil on junk input, got %v", *v)
	}
	if v := parseInt("42"); v == nil || *v != 42 {
		t.Fatalf("int parse failed: %v", v)
	}
}
