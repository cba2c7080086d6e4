package business

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Business is a registered merchant. SettlementBalance accumulates payments
// customers send it over the phantom_wallet rail; it is a separate pot from
// any customer wallet.
type Business struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	// BankAccount is the merchant's linked settlement account reference.
	BankAccount       string
	SettlementBalance decimal.Decimal
	CreatedAt         time.Time
}

// NewID generates a merchant_<hex> identifier; the prefix doubles as the
// recipient resolution convention for merchant-bound transfers.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("merchant_%x", u[:4])
}

// NewBankAccount generates a linked-account reference for a new merchant.
func NewBankAccount() string {
	u := uuid.New()
	return fmt.Sprintf("62%08d", binary.BigEndian.Uint32(u[:4])%100000000)
}
