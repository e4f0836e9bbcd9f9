package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The GitHub OAuth code exchange needs the client secret, which must
// never ship to the browser. This proxy holds the secret and performs
// the exchange on behalf of the UI.

const githubTokenURL = "https://github.com/login/oauth/access_token"

type exchangeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type githubTokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri,omitempty"`
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	clientID := os.Getenv("GITHUB_CLIENT_ID")
	clientSecret := os.Getenv("GITHUB_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal().Msg("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8787"
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(15 * time.Second))
	r.Use(cors)

	r.Post("/", handleExchange(clientID, clientSecret))

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("addr", addr).Msg("oauth proxy listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// cors allows the browser UI to call the proxy from another origin.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, req)
	})
}

func handleExchange(clientID, clientSecret string) http.HandlerFunc {
	client := &http.Client{Timeout: 10 * time.Second}

	return func(w http.ResponseWriter, req *http.Request) {
		var in exchangeRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil || in.Code == "" {
			writeError(w, http.StatusBadRequest, "code is required")
			return
		}

		body, err := json.Marshal(githubTokenRequest{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Code:         in.Code,
			RedirectURI:  in.RedirectURI,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build request")
			return
		}

		ghReq, err := http.NewRequestWithContext(req.Context(), http.MethodPost, githubTokenURL, bytes.NewReader(body))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build request")
			return
		}
		ghReq.Header.Set("Accept", "application/json")
		ghReq.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(ghReq)
		if err != nil {
			log.Error().Err(err).Msg("token exchange failed")
			writeError(w, http.StatusBadGateway, "token exchange failed")
			return
		}
		defer resp.Body.Close()

		// GitHub answers 200 even on errors; the body carries either
		// access_token or an error field. Pass it through untouched.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Error().Err(err).Msg("failed to write response")
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
