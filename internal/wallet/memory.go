package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type memoryRepository struct {
	mu      sync.RWMutex
	wallets map[string]Wallet
	byPhone map[string]string // business_id|phone -> wallet_id
	byUSSD  map[string]string
}

// NewMemoryRepository constructs an in-memory repository used by tests and by
// deployments running without PostgreSQL.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		wallets: make(map[string]Wallet),
		byPhone: make(map[string]string),
		byUSSD:  make(map[string]string),
	}
}

func phoneKey(businessID, phone string) string {
	return businessID + "|" + phone
}

func (r *memoryRepository) Create(_ context.Context, w Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byPhone[phoneKey(w.BusinessID, w.CustomerPhone)]; exists {
		return fmt.Errorf("%w: customer %s already has a wallet with this business", domain.ErrDuplicate, w.CustomerPhone)
	}
	if _, exists := r.byUSSD[w.USSDCode]; exists {
		return fmt.Errorf("%w (%s)", ErrUSSDCollision, w.USSDCode)
	}
	r.wallets[w.ID] = w
	r.byPhone[phoneKey(w.BusinessID, w.CustomerPhone)] = w.ID
	r.byUSSD[w.USSDCode] = w.ID
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.wallets[id]
	if !ok {
		return Wallet{}, fmt.Errorf("%w: wallet", domain.ErrNotFound)
	}
	return w, nil
}

func (r *memoryRepository) GetForUpdate(ctx context.Context, id string) (Wallet, error) {
	// Writer isolation is provided by the store's transaction boundary.
	return r.GetByID(ctx, id)
}

func (r *memoryRepository) GetByPhone(_ context.Context, phone string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.wallets {
		if w.CustomerPhone == phone && w.Status == domain.WalletActive {
			return w, nil
		}
	}
	return Wallet{}, fmt.Errorf("%w: wallet for phone %s", domain.ErrNotFound, phone)
}

func (r *memoryRepository) GetByUSSDCode(_ context.Context, code string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byUSSD[code]
	if !ok {
		return Wallet{}, fmt.Errorf("%w: wallet for ussd code %s", domain.ErrNotFound, code)
	}
	w := r.wallets[id]
	if w.Status != domain.WalletActive {
		return Wallet{}, fmt.Errorf("%w: wallet for ussd code %s", domain.ErrNotFound, code)
	}
	return w, nil
}

func (r *memoryRepository) ListByBusiness(_ context.Context, businessID string) ([]Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Wallet
	for _, w := range r.wallets {
		if w.BusinessID == businessID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (r *memoryRepository) AdjustBalance(_ context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: wallet", domain.ErrNotFound)
	}
	next := w.Balance.Add(delta)
	if next.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: wallet %s cannot go below zero", domain.ErrInsufficientFunds, id)
	}
	w.Balance = next
	w.LastActivity = time.Now().UTC()
	r.wallets[id] = w
	return next, nil
}

func (r *memoryRepository) SetStatus(_ context.Context, id string, status domain.WalletStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.wallets[id]
	if !ok {
		return fmt.Errorf("%w: wallet %s", domain.ErrNotFound, id)
	}
	w.Status = status
	r.wallets[id] = w
	return nil
}
