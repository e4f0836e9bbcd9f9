package configs

import (
	"os"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Finnhub  FinnhubConfig
	Github   GithubConfig
	Telegram TelegramConfig
	Market   MarketConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// StoreConfig selects and addresses the persistence backend.
// Driver is "rest" (json-server style API) or "postgres".
type StoreConfig struct {
	Driver      string
	URL         string
	DatabaseURL string
}

// FinnhubConfig holds the quote provider configuration
type FinnhubConfig struct {
	APIKey string
}

// GithubConfig holds the OAuth integration configuration
type GithubConfig struct {
	ProxyURL string
}

// TelegramConfig holds the optional Telegram notification sink
type TelegramConfig struct {
	BotToken string
	ChatID   string
}

// MarketConfig holds the market sync schedule
type MarketConfig struct {
	SyncSpec string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("GO_ENV", "development"),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "rest"),
			URL:         getEnv("STORE_URL", "http://localhost:3000"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Finnhub: FinnhubConfig{
			APIKey: getEnv("FINNHUB_API_KEY", ""),
		},
		Github: GithubConfig{
			ProxyURL: getEnv("GITHUB_OAUTH_PROXY_URL", ""),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			ChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
		Market: MarketConfig{
			SyncSpec: getEnv("MARKET_SYNC_SPEC", "*/15 * * * *"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
