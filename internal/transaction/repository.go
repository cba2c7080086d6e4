package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository is the append-only transaction log. Rows are never updated or
// deleted after Record; status backfill does not exist because processing is
// synchronous and every recorded row is already completed.
type Repository interface {
	Record(ctx context.Context, tx Transaction) error
	GetByID(ctx context.Context, id string) (Transaction, error)

	// FindByReference supports safe retry: a caller that timed out can look
	// its transaction up by reference before resubmitting.
	FindByReference(ctx context.Context, reference string) (Transaction, error)

	// History returns entries involving the wallet, newest first, tagged
	// sent or received relative to it.
	History(ctx context.Context, walletID string, limit, offset int) ([]Entry, error)

	// SumCompleted totals completed outbound amounts for the wallet since
	// the given instant. The ledger engine passes calendar day and month
	// starts to enforce rolling caps.
	SumCompleted(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error)
}
