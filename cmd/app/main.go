package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pegasis/configs"
	"pegasis/internal/adapter/finnhub"
	"pegasis/internal/adapter/github"
	"pegasis/internal/adapter/telegram"
	"pegasis/internal/database"
	deliveryhttp "pegasis/internal/delivery/http"
	"pegasis/internal/domain"
	"pegasis/internal/infra"
	"pegasis/internal/notify"
	"pegasis/internal/repository/postgres"
	"pegasis/internal/repository/rest"
	"pegasis/internal/service"
	"pegasis/internal/session"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Server.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}

	ctx := context.Background()

	// Persistence backend: either the json-server style REST store or
	// Postgres, behind the same repository interfaces.
	var (
		userRepo   domain.UserRepository
		badgeRepo  domain.BadgeRepository
		marketRepo domain.MarketRepository
	)
	switch cfg.Store.Driver {
	case "postgres":
		db, err := infra.NewDatabase(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()
		if err := database.RunMigrations(db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		userRepo = postgres.NewUserRepository(db)
		badgeRepo = postgres.NewBadgeRepository(db)
		marketRepo = postgres.NewMarketRepository(db)
	case "rest":
		client := rest.NewClient(cfg.Store.URL)
		userRepo = rest.NewUserRepository(client)
		badgeRepo = rest.NewBadgeRepository(client)
		marketRepo = rest.NewMarketRepository(client)
	default:
		log.Fatal().Str("driver", cfg.Store.Driver).Msg("unknown store driver")
	}

	// Notification feeds, with Telegram fan-out when configured.
	var sinks []domain.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		sinks = append(sinks, telegram.NewNotificationService(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
		log.Info().Msg("telegram notifications enabled")
	}
	feeds := notify.NewRegistry(log.Logger, sinks...)

	githubClient := github.NewClient(cfg.Github.ProxyURL)

	sessions := session.NewManager(
		userRepo,
		badgeRepo,
		githubClient,
		func(userID string) domain.Notifier { return feeds.Feed(userID) },
		log.Logger,
	)

	// Market sync: quote provider refreshes the catalog on a schedule.
	quotes := finnhub.NewClient(cfg.Finnhub.APIKey)
	marketSync := service.NewMarketSyncService(quotes, marketRepo, nil, log.Logger)
	scheduler := infra.NewScheduler(marketSync, cfg.Market.SyncSpec)
	if cfg.Finnhub.APIKey != "" {
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("failed to start market sync scheduler")
		}
		defer scheduler.Stop()
	} else {
		log.Warn().Msg("FINNHUB_API_KEY not set, market sync disabled")
	}

	// HTTP layer
	e := echo.New()
	e.HideBanner = true

	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AuthHandler:    deliveryhttp.NewAuthHandler(sessions, githubClient),
		SessionHandler: deliveryhttp.NewSessionHandler(sessions, marketRepo, feeds),
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info().Str("addr", addr).Str("env", cfg.Server.Env).Str("store", cfg.Store.Driver).Msg("starting server")

	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
