package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"pegasis/internal/middleware"
	"pegasis/internal/session"
)

// CodeExchanger trades an OAuth authorization code for an access token.
type CodeExchanger interface {
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	sessions  *session.Manager
	exchanger CodeExchanger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Manager, exchanger CodeExchanger) *AuthHandler {
	return &AuthHandler{
		sessions:  sessions,
		exchanger: exchanger,
	}
}

// LoginRequest carries either a GitHub access token or an OAuth
// authorization code to exchange.
type LoginRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// LoginResponse returns the session token and the resolved user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  interface{} `json:"user"`
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Token == "" && req.Code == "" {
		return BadRequestResponse(c, "A GitHub token or OAuth code is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 15*time.Second)
	defer cancel()

	accessToken := req.Token
	if accessToken == "" {
		token, err := h.exchanger.ExchangeCode(ctx, req.Code)
		if err != nil {
			return UnauthorizedResponse(c, "OAuth code exchange failed")
		}
		accessToken = token
	}

	sess, err := h.sessions.Login(ctx, accessToken)
	if err != nil {
		return UnauthorizedResponse(c, "GitHub authentication failed")
	}

	user := sess.User()
	sessionToken, err := middleware.GenerateSessionToken(user.ID)
	if err != nil {
		return InternalServerErrorResponse(c, "Failed to generate session token", err)
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    sessionToken,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, LoginResponse{
		Token: sessionToken,
		User:  user,
	})
}

// Logout handles user logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	if userID, err := middleware.GetUserID(c); err == nil {
		h.sessions.Logout(userID)
	}

	cookie := &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	}
	c.SetCookie(cookie)

	return SuccessResponse(c, map[string]string{"message": "Logged out"})
}
