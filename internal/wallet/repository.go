package wallet

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// ErrUSSDCollision reports that a freshly generated dial code is already
// assigned to another wallet. It wraps domain.ErrDuplicate so an exhausted
// regenerate loop still surfaces as a duplicate to callers.
var ErrUSSDCollision = fmt.Errorf("%w: ussd code already assigned", domain.ErrDuplicate)

// Repository persists wallets. Balance changes go through AdjustBalance only;
// everything else the ledger engine needs is a lookup or a status flip.
//
// Lookup semantics: GetByPhone and GetByUSSDCode match active wallets only,
// since those are the payment-acceptance paths and a deactivated wallet must
// not send or receive through them. GetByID and GetForUpdate return the wallet
// in any status so callers can report a precise error.
type Repository interface {
	Create(ctx context.Context, w Wallet) error
	GetByID(ctx context.Context, id string) (Wallet, error)
	GetForUpdate(ctx context.Context, id string) (Wallet, error)
	GetByPhone(ctx context.Context, phone string) (Wallet, error)
	GetByUSSDCode(ctx context.Context, code string) (Wallet, error)
	ListByBusiness(ctx context.Context, businessID string) ([]Wallet, error)

	// AdjustBalance applies a signed delta and stamps last_activity,
	// returning the new balance. A delta that would take the balance below
	// zero fails with domain.ErrInsufficientFunds and changes nothing.
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)

	SetStatus(ctx context.Context, id string, status domain.WalletStatus) error
}
