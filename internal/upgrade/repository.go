package upgrade

import "context"

// Repository persists upgrade suggestions.
type Repository interface {
	Create(ctx context.Context, s Suggestion) error
	GetByID(ctx context.Context, id string) (Suggestion, error)
	ListByWallet(ctx context.Context, walletID string) ([]Suggestion, error)
	SetStatus(ctx context.Context, id, status string) error
}
