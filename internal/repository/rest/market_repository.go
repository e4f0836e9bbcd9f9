package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pegasis/internal/domain"
)

// MarketRepository implements domain.MarketRepository over the REST store.
type MarketRepository struct {
	client *Client
}

// NewMarketRepository creates a new MarketRepository.
func NewMarketRepository(client *Client) domain.MarketRepository {
	return &MarketRepository{client: client}
}

// Upsert probes for an existing entry and POSTs or PUTs accordingly.
// json-server has no native upsert.
func (r *MarketRepository) Upsert(ctx context.Context, stock *domain.Stock) error {
	existing, err := r.GetByID(ctx, stock.ID)
	if err != nil {
		return err
	}

	if existing == nil {
		if _, err := r.client.do(ctx, http.MethodPost, "/market", stock, nil, false); err != nil {
			return fmt.Errorf("failed to create market entry %s: %w", stock.ID, err)
		}
		return nil
	}

	if _, err := r.client.do(ctx, http.MethodPut, "/market/"+url.PathEscape(stock.ID), stock, nil, false); err != nil {
		return fmt.Errorf("failed to replace market entry %s: %w", stock.ID, err)
	}
	return nil
}

// GetAll retrieves the full market catalog.
func (r *MarketRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	var stocks []domain.Stock
	if _, err := r.client.do(ctx, http.MethodGet, "/market", nil, &stocks, false); err != nil {
		return nil, fmt.Errorf("failed to fetch market: %w", err)
	}
	return stocks, nil
}

// GetByID retrieves one entry. Returns (nil, nil) when absent.
func (r *MarketRepository) GetByID(ctx context.Context, id string) (*domain.Stock, error) {
	var stock domain.Stock
	found, err := r.client.do(ctx, http.MethodGet, "/market/"+url.PathEscape(id), nil, &stock, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market entry %s: %w", id, err)
	}
	if !found {
		return nil, nil
	}
	return &stock, nil
}
