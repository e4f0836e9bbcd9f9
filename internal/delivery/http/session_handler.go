package http

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"pegasis/internal/domain"
	"pegasis/internal/middleware"
	"pegasis/internal/notify"
	"pegasis/internal/session"
)

// SessionHandler exposes the progression engine to the UI layer.
type SessionHandler struct {
	sessions *session.Manager
	market   domain.MarketRepository
	feeds    *notify.Registry
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Manager, market domain.MarketRepository, feeds *notify.Registry) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		market:   market,
		feeds:    feeds,
	}
}

// AmountRequest carries a currency amount for deposit/withdraw.
type AmountRequest struct {
	Amount float64 `json:"amount"`
}

// BuyRequest carries a purchase by currency amount.
type BuyRequest struct {
	Symbol string  `json:"symbol"`
	Amount float64 `json:"amount"`
}

// SellRequest carries a sale by share quantity at the current price.
type SellRequest struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price,omitempty"` // optional override, defaults to the catalog price
}

// WatchlistRequest toggles one symbol.
type WatchlistRequest struct {
	Symbol string `json:"symbol"`
}

// MeResponse is the session snapshot with derived values.
type MeResponse struct {
	User             *domain.User       `json:"user"`
	ActiveMultiplier float64            `json:"activeMultiplier"`
	CurrentBadge     *domain.Badge      `json:"currentBadge,omitempty"`
	Progress         session.XPProgress `json:"progress"`
}

// resolve finds the caller's open session.
func (h *SessionHandler) resolve(c echo.Context) (*session.Session, error) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return nil, err
	}
	sess, ok := h.sessions.Get(userID)
	if !ok {
		return nil, errors.New("no open session")
	}
	return sess, nil
}

// GetMe returns the current user with derived values.
// GET /api/user/me
func (h *SessionHandler) GetMe(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	return SuccessResponse(c, MeResponse{
		User:             sess.User(),
		ActiveMultiplier: sess.ActiveMultiplier(),
		CurrentBadge:     sess.CurrentBadge(),
		Progress:         sess.Progress(),
	})
}

// Deposit credits the cash balance.
// POST /api/user/deposit
func (h *SessionHandler) Deposit(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	var req AmountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()
	if err := sess.Deposit(ctx, req.Amount); err != nil {
		return h.operationError(c, err)
	}
	return SuccessResponse(c, sess.User())
}

// Withdraw debits the cash balance.
// POST /api/user/withdraw
func (h *SessionHandler) Withdraw(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	var req AmountRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()
	if err := sess.Withdraw(ctx, req.Amount); err != nil {
		return h.operationError(c, err)
	}
	return SuccessResponse(c, sess.User())
}

// Buy spends a currency amount on a stock from the market catalog.
// POST /api/user/buy
func (h *SessionHandler) Buy(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	var req BuyRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	stock, err := h.market.GetByID(ctx, req.Symbol)
	if err != nil {
		return InternalServerErrorResponse(c, "Market lookup failed", err)
	}
	if stock == nil {
		return NotFoundResponse(c, "Unknown symbol "+req.Symbol)
	}

	if err := sess.BuyStock(ctx, stock, req.Amount); err != nil {
		return h.operationError(c, err)
	}
	return SuccessResponse(c, sess.User())
}

// Sell realizes part or all of an open position.
// POST /api/user/sell
func (h *SessionHandler) Sell(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	var req SellRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request payload")
	}
	if req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()

	price := req.Price
	if price <= 0 {
		stock, err := h.market.GetByID(ctx, req.Symbol)
		if err != nil {
			return InternalServerErrorResponse(c, "Market lookup failed", err)
		}
		if stock == nil {
			return NotFoundResponse(c, "Unknown symbol "+req.Symbol)
		}
		price = stock.Price
	}

	if err := sess.SellStock(ctx, req.Symbol, req.Quantity, price); err != nil {
		return h.operationError(c, err)
	}
	return SuccessResponse(c, sess.User())
}

// ToggleWatchlist adds or removes a watchlist symbol.
// POST /api/user/watchlist/toggle
func (h *SessionHandler) ToggleWatchlist(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	var req WatchlistRequest
	if err := c.Bind(&req); err != nil || req.Symbol == "" {
		return BadRequestResponse(c, "Symbol is required")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()
	if err := sess.ToggleWatchlist(ctx, req.Symbol); err != nil {
		return h.operationError(c, err)
	}
	return SuccessResponse(c, sess.User().Watchlist)
}

// Refresh re-reads the user from the store.
// POST /api/user/refresh
func (h *SessionHandler) Refresh(c echo.Context) error {
	sess, err := h.resolve(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}

	ctx, cancel := h.opContext(c)
	defer cancel()
	if err := sess.Refresh(ctx); err != nil {
		return InternalServerErrorResponse(c, "Refresh failed", err)
	}
	return SuccessResponse(c, sess.User())
}

// Notifications drains the pending toast feed.
// GET /api/user/notifications
func (h *SessionHandler) Notifications(c echo.Context) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return UnauthorizedResponse(c, "Session expired, log in again")
	}
	return SuccessResponse(c, h.feeds.Feed(userID).Drain())
}

// GetMarket returns the market catalog.
// GET /api/market
func (h *SessionHandler) GetMarket(c echo.Context) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	stocks, err := h.market.GetAll(ctx)
	if err != nil {
		return InternalServerErrorResponse(c, "Market lookup failed", err)
	}
	return SuccessResponse(c, stocks)
}

// GetStock returns one market entry.
// GET /api/market/:id
func (h *SessionHandler) GetStock(c echo.Context) error {
	ctx, cancel := h.opContext(c)
	defer cancel()

	stock, err := h.market.GetByID(ctx, c.Param("id"))
	if err != nil {
		return InternalServerErrorResponse(c, "Market lookup failed", err)
	}
	if stock == nil {
		return NotFoundResponse(c, "Unknown symbol "+c.Param("id"))
	}
	return SuccessResponse(c, stock)
}

func (h *SessionHandler) opContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 10*time.Second)
}

// operationError maps engine errors onto HTTP statuses.
func (h *SessionHandler) operationError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrValidation):
		return BadRequestResponse(c, "Invalid amount")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return BadRequestResponse(c, "Insufficient funds")
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return BadRequestResponse(c, "Insufficient quantity")
	case errors.Is(err, domain.ErrNotFound):
		return NotFoundResponse(c, "Not found")
	default:
		return InternalServerErrorResponse(c, "Operation failed", err)
	}
}
