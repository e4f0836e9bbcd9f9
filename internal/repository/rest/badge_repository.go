package rest

import (
	"context"
	"fmt"
	"net/http"

	"pegasis/internal/domain"
)

// BadgeRepository implements domain.BadgeRepository over the REST store.
type BadgeRepository struct {
	client *Client
}

// NewBadgeRepository creates a new BadgeRepository.
func NewBadgeRepository(client *Client) domain.BadgeRepository {
	return &BadgeRepository{client: client}
}

// GetAll retrieves the badge catalog.
func (r *BadgeRepository) GetAll(ctx context.Context) ([]domain.Badge, error) {
	var badges []domain.Badge
	if _, err := r.client.do(ctx, http.MethodGet, "/badges", nil, &badges, false); err != nil {
		return nil, fmt.Errorf("failed to fetch badges: %w", err)
	}
	return badges, nil
}
