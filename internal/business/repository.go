package business

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository persists merchants and their settlement balances.
type Repository interface {
	Create(ctx context.Context, b Business) error
	GetByID(ctx context.Context, id string) (Business, error)
	GetByEmail(ctx context.Context, email string) (Business, error)

	// CreditSettlement adds a phantom-rail payment to the merchant's
	// settlement balance and returns the new total.
	CreditSettlement(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error)
}
