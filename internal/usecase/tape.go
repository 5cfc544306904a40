package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketIntel/internal/domain/models"
	domrepo "MarketIntel/internal/domain/repository"
)

// TapeUseCase serves the intraday tick tape from storage.
type TapeUseCase struct {
	store domrepo.TickStorage
}

func NewTapeUseCase(store domrepo.TickStorage) *TapeUseCase {
	return &TapeUseCase{store: store}
}

type GetTapeParams struct {
	Symbol string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetTapeResult struct {
	Symbol string          `json:"symbol"`
	From   time.Time       `json:"from"`
	To     time.Time       `json:"to"`
	Count  int             `json:"count"`
	Ticks  []*models.Trade `json:"ticks"`
}

func (uc *TapeUseCase) GetTape(ctx context.Context, p GetTapeParams) (*GetTapeResult, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	if p.Limit <= 0 {
		p.Limit = 1000
	}
	if p.Limit > 10000 {
		p.Limit = 10000
	}

	ticks, err := uc.store.Query(ctx, p.Symbol, p.From, p.To, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("query ticks: %w", err)
	}

	return &GetTapeResult{
		Symbol: p.Symbol,
		From:   p.From,
		To:     p.To,
		Count:  len(ticks),
		Ticks:  ticks,
	}, nil
}
