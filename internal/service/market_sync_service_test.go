package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pegasis/internal/domain"
)

type fakeProvider struct {
	failing map[string]bool
}

func (p *fakeProvider) FetchStock(ctx context.Context, symbol string) (*domain.Stock, error) {
	if p.failing[symbol] {
		return nil, errors.New("provider error")
	}
	return &domain.Stock{ID: symbol, Symbol: symbol, Price: 100}, nil
}

type memMarket struct {
	mu     sync.Mutex
	stocks map[string]*domain.Stock
}

func newMemMarket() *memMarket {
	return &memMarket{stocks: make(map[string]*domain.Stock)}
}

func (m *memMarket) Upsert(ctx context.Context, stock *domain.Stock) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stocks[stock.ID] = stock
	return nil
}

func (m *memMarket) GetAll(ctx context.Context) ([]domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memMarket) GetByID(ctx context.Context, id string) (*domain.Stock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stocks[id], nil
}

func TestSyncAll_UpsertsEverySymbol(t *testing.T) {
	market := newMemMarket()
	svc := NewMarketSyncService(&fakeProvider{}, market, []string{"AAPL", "MSFT", "NVDA"}, zerolog.Nop())

	require.NoError(t, svc.SyncAll(context.Background()))

	stocks, _ := market.GetAll(context.Background())
	assert.Len(t, stocks, 3)
}

func TestSyncAll_BadSymbolDoesNotBlockBatch(t *testing.T) {
	market := newMemMarket()
	provider := &fakeProvider{failing: map[string]bool{"MSFT": true}}
	svc := NewMarketSyncService(provider, market, []string{"AAPL", "MSFT", "NVDA"}, zerolog.Nop())

	require.NoError(t, svc.SyncAll(context.Background()), "per-symbol failures are discarded")

	stocks, _ := market.GetAll(context.Background())
	assert.Len(t, stocks, 2)
}

func TestSyncAll_HonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewMarketSyncService(&fakeProvider{}, newMemMarket(), []string{"AAPL"}, zerolog.Nop())
	assert.Error(t, svc.SyncAll(ctx))
}
