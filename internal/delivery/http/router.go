package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	custommiddleware "pegasis/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler    *AuthHandler
	SessionHandler *SessionHandler
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Skip logging for high-frequency polling endpoints to reduce noise
			path := c.Request().URL.Path
			if path == "/health" {
				return true
			}
			if path == "/api/user/notifications" {
				return true
			}
			return false
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":  "healthy",
			"service": "pegasis-api",
		})
	})

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout, custommiddleware.AuthMiddleware)
	}

	// Market catalog (public, read-only)
	market := api.Group("/market")
	{
		market.GET("", config.SessionHandler.GetMarket)
		market.GET("/:id", config.SessionHandler.GetStock)
	}

	// User routes (protected with AuthMiddleware)
	user := api.Group("/user", custommiddleware.AuthMiddleware)
	{
		user.GET("/me", config.SessionHandler.GetMe)
		user.POST("/deposit", config.SessionHandler.Deposit)
		user.POST("/withdraw", config.SessionHandler.Withdraw)
		user.POST("/buy", config.SessionHandler.Buy)
		user.POST("/sell", config.SessionHandler.Sell)
		user.POST("/watchlist/toggle", config.SessionHandler.ToggleWatchlist)
		user.POST("/refresh", config.SessionHandler.Refresh)
		user.GET("/notifications", config.SessionHandler.Notifications)
	}
}
