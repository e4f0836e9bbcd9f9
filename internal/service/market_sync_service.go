package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"pegasis/internal/domain"
)

// DefaultSymbols is the curated set of symbols the background job keeps
// fresh in the market catalog.
var DefaultSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "META", "TSLA", "JPM", "V", "MA",
	"UNH", "XOM", "LLY", "JNJ", "WMT", "PG", "AVGO", "HD", "COST", "PEP",
	"KO", "MRK", "ABBV", "BAC", "ORCL", "CVX", "ADBE", "CRM", "NFLX", "AMD",
	"INTC", "QCOM", "TXN", "IBM", "CSCO", "INTU", "GE", "CAT", "BA", "NKE",
	"DIS", "MCD", "SBUX", "PFE", "GS", "MS", "BLK", "AXP", "PYPL", "UBER",
}

// MarketSyncService refreshes the market catalog from the quote
// provider. The sync is best effort: a bad symbol is skipped so it
// never blocks the batch.
type MarketSyncService struct {
	provider    domain.QuoteProvider
	market      domain.MarketRepository
	symbols     []string
	concurrency int
	log         zerolog.Logger
}

// NewMarketSyncService creates a sync service for the given symbol set;
// nil means DefaultSymbols.
func NewMarketSyncService(provider domain.QuoteProvider, market domain.MarketRepository, symbols []string, log zerolog.Logger) *MarketSyncService {
	if symbols == nil {
		symbols = DefaultSymbols
	}
	return &MarketSyncService{
		provider:    provider,
		market:      market,
		symbols:     symbols,
		concurrency: 8,
		log:         log,
	}
}

// SyncAll fetches and upserts every symbol. Per-symbol failures are
// counted and dropped; the returned error reflects only total failure
// to run (context cancellation).
func (s *MarketSyncService) SyncAll(ctx context.Context) error {
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	synced, failed := 0, 0

	for _, symbol := range s.symbols {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			err := s.syncOne(ctx, symbol)
			mu.Lock()
			if err != nil {
				failed++
			} else {
				synced++
			}
			mu.Unlock()
			if err != nil {
				s.log.Debug().Err(err).Str("symbol", symbol).Msg("symbol sync skipped")
			}
		}(symbol)
	}
	wg.Wait()

	s.log.Info().Int("synced", synced).Int("failed", failed).Msg("market sync finished")
	return nil
}

func (s *MarketSyncService) syncOne(ctx context.Context, symbol string) error {
	stock, err := s.provider.FetchStock(ctx, symbol)
	if err != nil {
		return err
	}
	return s.market.Upsert(ctx, stock)
}
