package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pegasis/internal/domain"
)

// MarketRepository implements domain.MarketRepository on pgx. The full
// quote/profile document sits in one jsonb column keyed by symbol.
type MarketRepository struct {
	db *pgxpool.Pool
}

// NewMarketRepository creates a new MarketRepository.
func NewMarketRepository(db *pgxpool.Pool) domain.MarketRepository {
	return &MarketRepository{db: db}
}

// Upsert creates or replaces a market entry.
func (r *MarketRepository) Upsert(ctx context.Context, stock *domain.Stock) error {
	query := `
		INSERT INTO market (id, symbol, data, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET symbol = EXCLUDED.symbol, data = EXCLUDED.data, updated_at = NOW()
	`

	_, err := r.db.Exec(ctx, query, stock.ID, stock.Symbol, mustJSON(stock))
	if err != nil {
		return fmt.Errorf("failed to upsert market entry %s: %w", stock.ID, err)
	}
	return nil
}

// GetAll retrieves the full market catalog.
func (r *MarketRepository) GetAll(ctx context.Context) ([]domain.Stock, error) {
	query := `SELECT data FROM market ORDER BY symbol ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query market: %w", err)
	}
	defer rows.Close()

	var stocks []domain.Stock
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan market entry: %w", err)
		}
		var stock domain.Stock
		if err := json.Unmarshal(data, &stock); err != nil {
			return nil, fmt.Errorf("failed to decode market entry: %w", err)
		}
		stocks = append(stocks, stock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market: %w", err)
	}
	return stocks, nil
}

// GetByID retrieves one entry. Returns (nil, nil) when absent.
func (r *MarketRepository) GetByID(ctx context.Context, id string) (*domain.Stock, error) {
	query := `SELECT data FROM market WHERE id = $1`

	var data []byte
	err := r.db.QueryRow(ctx, query, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch market entry %s: %w", id, err)
	}

	var stock domain.Stock
	if err := json.Unmarshal(data, &stock); err != nil {
		return nil, fmt.Errorf("failed to decode market entry %s: %w", id, err)
	}
	return &stock, nil
}
