package upgrade

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type memoryRepository struct {
	mu          sync.RWMutex
	suggestions map[string]Suggestion
}

// NewMemoryRepository constructs an in-memory suggestion store.
func NewMemoryRepository() Repository {
	return &memoryRepository{suggestions: make(map[string]Suggestion)}
}

func (r *memoryRepository) Create(_ context.Context, s Suggestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suggestions[s.ID] = s
	return nil
}

func (r *memoryRepository) GetByID(_ context.Context, id string) (Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suggestions[id]
	if !ok {
		return Suggestion{}, fmt.Errorf("%w: upgrade suggestion", domain.ErrNotFound)
	}
	return s, nil
}

func (r *memoryRepository) ListByWallet(_ context.Context, walletID string) ([]Suggestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Suggestion
	for _, s := range r.suggestions {
		if s.WalletID == walletID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memoryRepository) SetStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suggestions[id]
	if !ok {
		return fmt.Errorf("%w: upgrade suggestion %s", domain.ErrNotFound, id)
	}
	s.Status = status
	s.UpdatedAt = time.Now().UTC()
	r.suggestions[id] = s
	return nil
}
