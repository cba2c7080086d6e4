package wallet

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

// Wallet is a ledger-only stored value account for an unbanked customer,
// owned by the business that created it.
type Wallet struct {
	ID            string
	BusinessID    string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PIN           string // 4-digit access PIN, issued once at creation
	Balance       decimal.Decimal
	DailyLimit    decimal.Decimal
	MonthlyLimit  decimal.Decimal
	USSDCode      string
	Status        domain.WalletStatus
	CreatedAt     time.Time
	LastActivity  time.Time
}

// NewID generates a wallet identifier in the pw_bw_<year>_<hex> form the
// recipient resolution convention depends on.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("pw_bw_%d_%x", time.Now().Year(), u[:4])
}

// NewUSSDCode generates a *167*XXXX# dial code. Uniqueness is enforced by the
// store; callers regenerate on collision.
func NewUSSDCode() string {
	u := uuid.New()
	return fmt.Sprintf("*167*%X#", u[:2])
}

// NewPIN generates a 4-digit access PIN.
func NewPIN() string {
	u := uuid.New()
	return fmt.Sprintf("%04d", binary.BigEndian.Uint32(u[:4])%10000)
}
