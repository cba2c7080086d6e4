package transaction

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries []Transaction
	byID    map[string]int
	byRef   map[string]int
}

// NewMemoryRepository constructs an in-memory transaction log for tests and
// database-less runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:  make(map[string]int),
		byRef: make(map[string]int),
	}
}

func (r *memoryRepository) Record(_ context.Context, tx Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[tx.ID]; exists {
		return fmt.Errorf("%w: transaction %s", domain.ErrDuplicate, tx.ID)
	}
	r.entries = append(r.entries, tx)
	r.byID[tx.ID] = len(r.entries) - 1
	r.byRef[tx.Reference] = len(r.entries) - 1
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byID[id]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: transaction", domain.ErrNotFound)
	}
	return r.entries[idx], nil
}

func (r *memoryRepository) FindByReference(_ context.Context, reference string) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx, ok := r.byRef[reference]
	if !ok {
		return Transaction{}, fmt.Errorf("%w: transaction with reference %s", domain.ErrNotFound, reference)
	}
	return r.entries[idx], nil
}

func (r *memoryRepository) History(_ context.Context, walletID string, limit, offset int) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []Transaction
	for _, tx := range r.entries {
		if tx.WalletID == walletID || tx.FromWallet == walletID || tx.ToWallet == walletID {
			matched = append(matched, tx)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]Entry, 0, len(matched))
	for _, tx := range matched {
		out = append(out, Entry{Transaction: tx, Direction: DirectionFor(tx, walletID)})
	}
	return out, nil
}

func (r *memoryRepository) SumCompleted(_ context.Context, walletID string, since time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, tx := range r.entries {
		if tx.FromWallet == walletID && tx.Status == domain.TransactionCompleted && !tx.CreatedAt.Before(since) {
			total = total.Add(tx.Amount)
		}
	}
	return total, nil
}
