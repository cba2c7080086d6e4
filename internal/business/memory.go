package business

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type memoryRepository struct {
	mu         sync.RWMutex
	businesses map[string]Business
	byEmail    map[string]string
}

// NewMemoryRepository constructs an in-memory merchant directory.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		businesses: make(map[string]Business),
		byEmail:    make(map[string]string),
	}
}

func (r *memoryRepository) Create(_ context.Context, b Business) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(b.Email)
	if _, exists := r.byEmail[email]; exists {
		return fmt.Errorf("%w: business with email %s", domain.ErrDuplicate, b.Email)
	}
	r.businesses[b.ID] = b
	r.byEmail[email] = b.ID
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.businesses[id]
	if !ok {
		return Business{}, fmt.Errorf("%w: business", domain.ErrNotFound)
	}
	return b, nil
}

func (r *memoryRepository) GetByEmail(_ context.Context, email string) (Business, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return Business{}, fmt.Errorf("%w: business", domain.ErrNotFound)
	}
	return r.businesses[id], nil
}

func (r *memoryRepository) CreditSettlement(_ context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.businesses[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: business %s", domain.ErrNotFound, id)
	}
	b.SettlementBalance = b.SettlementBalance.Add(amount)
	r.businesses[id] = b
	return b.SettlementBalance, nil
}
