package session

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"pegasis/internal/domain"
)

// Manager owns the session lifecycle: login resolves a GitHub token into
// a store user (creating it on first sight) and opens a session; logout
// tears it down. There is no ambient current-user state; everything
// flows through the session object.
type Manager struct {
	users   domain.UserRepository
	badges  domain.BadgeRepository
	github  domain.GithubClient
	notify  func(userID string) domain.Notifier
	log     zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. notify builds the per-session
// notification feed.
func NewManager(
	users domain.UserRepository,
	badges domain.BadgeRepository,
	github domain.GithubClient,
	notify func(userID string) domain.Notifier,
	log zerolog.Logger,
) *Manager {
	return &Manager{
		users:    users,
		badges:   badges,
		github:   github,
		notify:   notify,
		log:      log,
		sessions: make(map[string]*Session),
	}
}

// Login resolves the GitHub bearer token, loads or creates the store
// user, fetches the badge catalog and opens a session. Calling it again
// for the same user replaces the previous session.
func (m *Manager) Login(ctx context.Context, token string) (*Session, error) {
	profile, err := m.github.FetchUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	userID := strconv.FormatInt(profile.ID, 10)
	user, err := m.users.Find(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if user == nil {
		name := profile.Name
		if name == "" {
			name = profile.Login
		}
		user, err = m.users.Create(ctx, &domain.User{
			ID:        userID,
			Name:      name,
			AvatarURL: profile.AvatarURL,
			Level:     1,
			BadgeIDs:  []int{domain.DefaultBadgeID},
			Goals:     StarterGoals(),
		})
		if err != nil {
			return nil, fmt.Errorf("login: create user: %w", err)
		}
		m.log.Info().Str("user", userID).Str("name", name).Msg("created store user")
	}

	// Starter badge seeding is an initialization rule, not a milestone:
	// legacy records may predate the badge system entirely.
	if len(user.BadgeIDs) == 0 {
		user.BadgeIDs = []int{domain.DefaultBadgeID}
		if _, err := m.users.Update(ctx, user.ID, &domain.UserUpdate{BadgeIDs: &user.BadgeIDs}); err != nil {
			return nil, fmt.Errorf("login: seed starter badge: %w", err)
		}
	}
	if user.Level < 1 {
		user.Level = 1
	}

	catalog, err := m.badges.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("login: fetch badge catalog: %w", err)
	}

	sess := New(user, catalog, m.users, m.notify(user.ID), m.log)

	m.mu.Lock()
	m.sessions[user.ID] = sess
	m.mu.Unlock()

	m.log.Info().Str("user", user.ID).Int("level", user.Level).Msg("session opened")
	return sess, nil
}

// Get returns the open session for a user id.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// Logout destroys the session. The store record is untouched.
func (m *Manager) Logout(userID string) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
	m.log.Info().Str("user", userID).Msg("session closed")
}

// StarterGoals is the default goal set assigned to a fresh account.
func StarterGoals() []domain.Goal {
	return []domain.Goal{
		{Type: domain.GoalMakeTrades, Description: "Make 1 trade", XP: 100, Target: 1},
		{Type: domain.GoalTotalInvested, Description: "Invest 500 in total", XP: 250, Target: 500},
		{Type: domain.GoalDiversify, Description: "Hold 3 different stocks", XP: 300, Target: 3},
		{Type: domain.GoalReachBalance, Description: "Reach a balance of 1000", XP: 400, Target: 1000},
	}
}
