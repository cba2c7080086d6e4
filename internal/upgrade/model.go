package upgrade

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Suggestion statuses. Acceptance is driven by an external bank workflow; the
// only transition this core performs is pending -> accepted, which also
// upgrades the wallet.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
)

// Suggestion records a merchant's recommendation that a wallet holder convert
// to a full bank account. It is a side record, never a balance mutation.
type Suggestion struct {
	ID         string
	WalletID   string
	BusinessID string
	Reason     string
	Documents  []string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewID generates an upgrade_<hex> suggestion identifier.
func NewID() string {
	u := uuid.New()
	return fmt.Sprintf("upgrade_%x", u[:4])
}
