package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"pegasis/internal/domain"
)

// UserRepository implements domain.UserRepository over the REST store.
type UserRepository struct {
	client *Client
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(client *Client) domain.UserRepository {
	return &UserRepository{client: client}
}

// Find retrieves a user by ID. An absent user is (nil, nil), not an error.
func (r *UserRepository) Find(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	found, err := r.client.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id), nil, &user, true)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

// Create inserts a new user record.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	var created domain.User
	if _, err := r.client.do(ctx, http.MethodPost, "/users", user, &created, false); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &created, nil
}

// Update PATCHes the explicit non-nil fields and returns the merged
// record as the store sees it.
func (r *UserRepository) Update(ctx context.Context, id string, update *domain.UserUpdate) (*domain.User, error) {
	var merged domain.User
	if _, err := r.client.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), update, &merged, false); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &merged, nil
}
