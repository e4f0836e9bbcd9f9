package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"pegasis/internal/domain"
)

// BadgeRepository implements domain.BadgeRepository on pgx.
type BadgeRepository struct {
	db *pgxpool.Pool
}

// NewBadgeRepository creates a new BadgeRepository.
func NewBadgeRepository(db *pgxpool.Pool) domain.BadgeRepository {
	return &BadgeRepository{db: db}
}

// GetAll retrieves the badge catalog ordered by id.
func (r *BadgeRepository) GetAll(ctx context.Context) ([]domain.Badge, error) {
	query := `
		SELECT id, description, multiplier, date
		FROM badges
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query badges: %w", err)
	}
	defer rows.Close()

	var badges []domain.Badge
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.Description, &b.Multiplier, &b.Date); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating badges: %w", err)
	}
	return badges, nil
}
