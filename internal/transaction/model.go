package transaction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// Transaction is one logical money movement. A peer transfer is a single row
// with both FromWallet and ToWallet set; the two balances change together
// inside the same unit of work.
type Transaction struct {
	ID          string
	Reference   string
	WalletID    string // the wallet the movement is filed under (initiating party)
	FromWallet  string // empty for pure credits
	ToWallet    string // empty when the recipient is outside the system
	Amount      decimal.Decimal
	Fee         decimal.Decimal
	Channel     domain.Channel
	Description string
	// ExternalReference ties a top-up or payout to the originating external
	// system (mobile-money receipt, settlement gateway id).
	ExternalReference string
	Status            domain.TransactionStatus
	CreatedAt         time.Time
	CompletedAt       *time.Time
}

// Entry is a history row tagged with the direction relative to the wallet the
// history was fetched for.
type Entry struct {
	Transaction
	Direction domain.Direction
}

// NewID generates a txn_<hex> transaction identifier.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("txn_%x", u[:6])
}

// NewReference generates a short human-quotable reference callers can use to
// re-check state after a timeout instead of blindly resubmitting.
func NewReference() string {
	u := uuid.New()
	return fmt.Sprintf("PB-%X", u[:4])
}
