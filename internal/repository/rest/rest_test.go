package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pegasis/internal/domain"
)

func TestUserRepository_FindAbsentIsNilNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	repo := NewUserRepository(NewClient(srv.URL))
	user, err := repo.Find(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepository_Find(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/users/42", r.URL.Path)
		json.NewEncoder(w).Encode(domain.User{ID: "42", Name: "octocat", Balance: 500})
	}))
	defer srv.Close()

	repo := NewUserRepository(NewClient(srv.URL))
	user, err := repo.Find(context.Background(), "42")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "octocat", user.Name)
	assert.Equal(t, 500.0, user.Balance)
}

func TestUserRepository_UpdateSendsOnlySetFields(t *testing.T) {
	var body map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/users/42", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		json.NewEncoder(w).Encode(domain.User{ID: "42", Balance: 600})
	}))
	defer srv.Close()

	repo := NewUserRepository(NewClient(srv.URL))
	balance := 600.0
	merged, err := repo.Update(context.Background(), "42", &domain.UserUpdate{Balance: &balance})
	require.NoError(t, err)
	assert.Equal(t, 600.0, merged.Balance)

	assert.Contains(t, body, "balance")
	assert.NotContains(t, body, "xp", "unset fields must not travel")
	assert.NotContains(t, body, "goals")
}

func TestUserRepository_PropagatesStoreErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewUserRepository(NewClient(srv.URL))
	_, err := repo.Find(context.Background(), "42")
	assert.Error(t, err, "only 404 maps to nil, other failures propagate")
}

func TestBadgeRepository_GetAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/badges", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.Badge{{ID: 1, Description: "Rookie"}})
	}))
	defer srv.Close()

	repo := NewBadgeRepository(NewClient(srv.URL))
	badges, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, badges, 1)
	assert.Equal(t, "Rookie", badges[0].Description)
}

func TestMarketRepository_UpsertProbesExistence(t *testing.T) {
	var methods []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/market/AAPL":
			http.NotFound(w, r)
		case r.Method == http.MethodGet && r.URL.Path == "/market/MSFT":
			json.NewEncoder(w).Encode(domain.Stock{ID: "MSFT", Price: 400})
		default:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("{}"))
		}
	}))
	defer srv.Close()

	repo := NewMarketRepository(NewClient(srv.URL))

	// Absent entry: probe then POST.
	require.NoError(t, repo.Upsert(context.Background(), &domain.Stock{ID: "AAPL", Symbol: "AAPL", Price: 210}))
	assert.Equal(t, []string{"GET /market/AAPL", "POST /market"}, methods)

	// Existing entry: probe then PUT.
	methods = nil
	require.NoError(t, repo.Upsert(context.Background(), &domain.Stock{ID: "MSFT", Symbol: "MSFT", Price: 410}))
	assert.Equal(t, []string{"GET /market/MSFT", "PUT /market/MSFT"}, methods)
}
