package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pegasis/internal/domain"
	"pegasis/internal/notify"
	"pegasis/internal/session"
)

type memStore struct {
	users map[string]*domain.User
}

func (s *memStore) Find(ctx context.Context, id string) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return u.Clone(), nil
}

func (s *memStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s.users[user.ID] = user.Clone()
	return user.Clone(), nil
}

func (s *memStore) Update(ctx context.Context, id string, update *domain.UserUpdate) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if update.Balance != nil {
		u.Balance = *update.Balance
	}
	if update.XP != nil {
		u.XP = *update.XP
	}
	if update.Level != nil {
		u.Level = *update.Level
	}
	if update.Goals != nil {
		u.Goals = append([]domain.Goal(nil), *update.Goals...)
	}
	if update.Watchlist != nil {
		u.Watchlist = append([]string(nil), *update.Watchlist...)
	}
	if update.Portfolio != nil {
		u.Portfolio = append([]domain.PortfolioItem(nil), *update.Portfolio...)
	}
	if update.History != nil {
		u.History = append([]domain.Transaction(nil), *update.History...)
	}
	if update.BadgeIDs != nil {
		u.BadgeIDs = append([]int(nil), *update.BadgeIDs...)
	}
	return u.Clone(), nil
}

type memBadges struct{}

func (memBadges) GetAll(ctx context.Context) ([]domain.Badge, error) {
	return []domain.Badge{
		{ID: 1, Description: "Rookie", Multiplier: 1.0},
		{ID: 2, Description: "Apprentice", Multiplier: 1.05},
	}, nil
}

type memMarket struct {
	stocks map[string]*domain.Stock
}

func (m *memMarket) Upsert(ctx context.Context, stock *domain.Stock) error {
	m.stocks[stock.ID] = stock
	return nil
}

func (m *memMarket) GetAll(ctx context.Context) ([]domain.Stock, error) {
	out := make([]domain.Stock, 0, len(m.stocks))
	for _, s := range m.stocks {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memMarket) GetByID(ctx context.Context, id string) (*domain.Stock, error) {
	s, ok := m.stocks[id]
	if !ok {
		return nil, nil
	}
	return s, nil
}

type fakeGithub struct{}

func (fakeGithub) FetchUser(ctx context.Context, token string) (*domain.GithubProfile, error) {
	return &domain.GithubProfile{ID: 42, Login: "octocat", Name: "Octo Cat"}, nil
}

type fixture struct {
	handler *SessionHandler
	store   *memStore
	userID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := &memStore{users: make(map[string]*domain.User)}
	feeds := notify.NewRegistry(zerolog.Nop())
	sessions := session.NewManager(
		store,
		memBadges{},
		fakeGithub{},
		func(userID string) domain.Notifier { return feeds.Feed(userID) },
		zerolog.Nop(),
	)

	sess, err := sessions.Login(context.Background(), "gh-token")
	require.NoError(t, err)

	market := &memMarket{stocks: map[string]*domain.Stock{
		"AAPL": {ID: "AAPL", Symbol: "AAPL", Description: "Apple Inc", Price: 200},
	}}

	return &fixture{
		handler: NewSessionHandler(sessions, market, feeds),
		store:   store,
		userID:  sess.User().ID,
	}
}

func (f *fixture) request(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", f.userID)
	return c, rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp struct {
		Status string                 `json:"status"`
		Data   map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "success", resp.Status)
	return resp.Data
}

func TestGetMeReturnsDerivedValues(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodGet, "/api/user/me", "")
	require.NoError(t, f.handler.GetMe(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, 1.0, data["activeMultiplier"])
	assert.NotNil(t, data["user"])
	assert.NotNil(t, data["progress"])
}

func TestGetMeWithoutSession(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodGet, "/api/user/me", "")
	c.Set("user_id", "stranger")
	require.NoError(t, f.handler.GetMe(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDepositUpdatesBalance(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/deposit", `{"amount": 500}`)
	require.NoError(t, f.handler.Deposit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.store.Find(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Equal(t, 500.0, stored.Balance)
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/deposit", `{"amount": -10}`)
	require.NoError(t, f.handler.Deposit(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWithdrawRejectsInsufficientFunds(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/withdraw", `{"amount": 100}`)
	require.NoError(t, f.handler.Withdraw(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBuyUnknownSymbol(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/buy", `{"symbol": "NOPE", "amount": 100}`)
	require.NoError(t, f.handler.Buy(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuyThenSellRoundTrip(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/deposit", `{"amount": 1000}`)
	require.NoError(t, f.handler.Deposit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = f.request(t, http.MethodPost, "/api/user/buy", `{"symbol": "AAPL", "amount": 100}`)
	require.NoError(t, f.handler.Buy(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.store.Find(context.Background(), f.userID)
	require.NoError(t, err)
	require.Len(t, stored.Portfolio, 1)
	assert.InDelta(t, 0.5, stored.Portfolio[0].Quantity, 1e-9)

	// Sell without a price override: the catalog price applies.
	c, rec = f.request(t, http.MethodPost, "/api/user/sell", `{"symbol": "AAPL", "quantity": 0.5}`)
	require.NoError(t, f.handler.Sell(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = f.store.Find(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Zero(t, stored.OpenPositions())
	assert.Equal(t, 1100.0, stored.Balance)
}

func TestToggleWatchlist(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodPost, "/api/user/watchlist/toggle", `{"symbol": "AAPL"}`)
	require.NoError(t, f.handler.ToggleWatchlist(c))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := f.store.Find(context.Background(), f.userID)
	require.NoError(t, err)
	assert.Contains(t, stored.Watchlist, "AAPL")
}

func TestNotificationsDrainOnce(t *testing.T) {
	f := newFixture(t)

	// Reaching the starter balance goal posts a completion toast.
	c, rec := f.request(t, http.MethodPost, "/api/user/deposit", `{"amount": 1000}`)
	require.NoError(t, f.handler.Deposit(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, rec = f.request(t, http.MethodGet, "/api/user/notifications", "")
	require.NoError(t, f.handler.Notifications(c))
	require.Equal(t, http.StatusOK, rec.Code)
	first := rec.Body.String()
	assert.Contains(t, first, "Goal complete")

	c, rec = f.request(t, http.MethodGet, "/api/user/notifications", "")
	require.NoError(t, f.handler.Notifications(c))
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestGetStock(t *testing.T) {
	f := newFixture(t)

	c, rec := f.request(t, http.MethodGet, "/api/market/AAPL", "")
	c.SetParamNames("id")
	c.SetParamValues("AAPL")
	require.NoError(t, f.handler.GetStock(c))
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeData(t, rec)
	assert.Equal(t, "AAPL", data["symbol"])
}
