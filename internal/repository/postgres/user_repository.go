// Package postgres implements the repository interfaces on a
// self-hosted PostgreSQL store. Collection-valued fields live in jsonb
// columns so the records round-trip exactly like the REST store's.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pegasis/internal/domain"
)

// UserRepository implements domain.UserRepository on pgx.
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, name, avatar_url, balance, level, xp, badge_ids, goals, watchlist, portfolio, history`

// Find retrieves a user by ID. Returns (nil, nil) when absent.
func (r *UserRepository) Find(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.AvatarURL,
		user.Balance,
		user.Level,
		user.XP,
		mustJSON(user.BadgeIDs),
		mustJSON(user.Goals),
		mustJSON(user.Watchlist),
		mustJSON(user.Portfolio),
		mustJSON(user.History),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	created, err := r.Find(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("created user vanished: %w", domain.ErrNotFound)
	}
	return created, nil
}

// Update applies the non-nil fields of the partial update and returns
// the merged record.
func (r *UserRepository) Update(ctx context.Context, id string, update *domain.UserUpdate) (*domain.User, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{id}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Balance != nil {
		add("balance", *update.Balance)
	}
	if update.Level != nil {
		add("level", *update.Level)
	}
	if update.XP != nil {
		add("xp", *update.XP)
	}
	if update.BadgeIDs != nil {
		add("badge_ids", mustJSON(*update.BadgeIDs))
	}
	if update.Goals != nil {
		add("goals", mustJSON(*update.Goals))
	}
	if update.Watchlist != nil {
		add("watchlist", mustJSON(*update.Watchlist))
	}
	if update.Portfolio != nil {
		add("portfolio", mustJSON(*update.Portfolio))
	}
	if update.History != nil {
		add("history", mustJSON(*update.History))
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("update user %s: %w", id, domain.ErrNotFound)
	}

	merged, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if merged == nil {
		return nil, fmt.Errorf("updated user vanished: %w", domain.ErrNotFound)
	}
	return merged, nil
}

// scanUser reads one users row, decoding the jsonb collections.
func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user                                          domain.User
		badgeIDs, goals, watchlist, portfolio, history []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.AvatarURL,
		&user.Balance,
		&user.Level,
		&user.XP,
		&badgeIDs,
		&goals,
		&watchlist,
		&portfolio,
		&history,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		data []byte
		dst  interface{}
	}{
		{badgeIDs, &user.BadgeIDs},
		{goals, &user.Goals},
		{watchlist, &user.Watchlist},
		{portfolio, &user.Portfolio},
		{history, &user.History},
	} {
		if err := json.Unmarshal(col.data, col.dst); err != nil {
			return nil, fmt.Errorf("failed to decode user column: %w", err)
		}
	}
	return &user, nil
}

// mustJSON encodes engine-owned values for a jsonb column. The domain
// types contain nothing unmarshalable, so a failure is a programming
// error.
func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("encode jsonb column: %v", err))
	}
	return data
}
