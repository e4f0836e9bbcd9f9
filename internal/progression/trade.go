package progression

import (
	"math"
	"time"

	"github.com/google/uuid"

	"pegasis/internal/domain"
)

const (
	// XP yield per trade, before the badge multiplier.
	buyXP  = 50
	sellXP = 40

	// PositionEpsilon is the residual quantity below which a position is
	// considered fully closed.
	PositionEpsilon = 1e-4
)

// TradeResult is the in-memory delta produced by one buy or sell. The
// orchestrator merges it into the working user copy.
type TradeResult struct {
	Position domain.PortfolioItem // resulting position state
	Closed   bool                 // position fell below epsilon and leaves the portfolio
	Entry    domain.Transaction   // ledger entry to append
	XP       int
}

// Buy spends a currency amount on a stock at its current price, opening
// a position or accumulating into an existing one with a value-weighted
// average cost basis. The purchase does not debit cash.
func Buy(existing *domain.PortfolioItem, stock *domain.Stock, amount, multiplier float64, now time.Time) (*TradeResult, error) {
	if amount <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if stock == nil || stock.Price <= 0 {
		return nil, domain.ErrValidation
	}

	quantity := amount / stock.Price

	var position domain.PortfolioItem
	if existing != nil {
		position = *existing
		position.BuyPrice = (position.BuyPrice*position.Quantity + amount) / (position.Quantity + quantity)
		position.Quantity += quantity
	} else {
		position = domain.PortfolioItem{
			ID:       uuid.NewString(),
			StockID:  stock.Symbol,
			Name:     stock.Description,
			Quantity: quantity,
			BuyPrice: stock.Price,
			BuyDate:  now,
		}
	}

	return &TradeResult{
		Position: position,
		Entry: domain.Transaction{
			ID:         uuid.NewString(),
			Type:       domain.TradeBuy,
			StockID:    stock.Symbol,
			Name:       stock.Description,
			Quantity:   quantity,
			Price:      stock.Price,
			TotalValue: amount,
			Date:       now,
		},
		XP: int(math.Floor(buyXP * multiplier)),
	}, nil
}

// Sell realizes part or all of a position at the current price. Revenue
// is credited by the caller; realized P&L is recorded on the ledger
// entry and the cost basis stays unchanged.
func Sell(position domain.PortfolioItem, quantity, price, multiplier float64, now time.Time) (*TradeResult, error) {
	if quantity <= 0 || price <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if quantity > position.Quantity {
		return nil, domain.ErrInsufficientQuantity
	}

	pnl := (price - position.BuyPrice) * quantity
	position.Quantity -= quantity

	return &TradeResult{
		Position: position,
		Closed:   position.Quantity < PositionEpsilon,
		Entry: domain.Transaction{
			ID:         uuid.NewString(),
			Type:       domain.TradeSell,
			StockID:    position.StockID,
			Name:       position.Name,
			Quantity:   quantity,
			Price:      price,
			TotalValue: price * quantity,
			PnL:        &pnl,
			Date:       now,
		},
		XP: int(math.Floor(sellXP * multiplier)),
	}, nil
}
