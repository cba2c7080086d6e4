package upgrade

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/notification"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

// Atomic runs fn inside a single storage transaction so the wallet status
// flip and the suggestion update land together or not at all.
type Atomic func(ctx context.Context, fn func(wallets wallet.Repository, suggestions Repository) error) error

// Service runs the wallet-to-bank-account upgrade workflow. Suggest never
// touches the wallet; Complete performs the one-way transition to upgraded.
type Service struct {
	wallets     wallet.Repository
	suggestions Repository
	atomic      Atomic
	notifier    notification.Notifier
}

// NewService builds an upgrade workflow service.
func NewService(wallets wallet.Repository, suggestions Repository, atomic Atomic, notifier notification.Notifier) *Service {
	return &Service{wallets: wallets, suggestions: suggestions, atomic: atomic, notifier: notifier}
}

// SuggestInput captures a merchant's upgrade recommendation.
type SuggestInput struct {
	WalletID   string
	BusinessID string
	Reason     string
	Documents  []string
}

// Suggest records a pending upgrade recommendation. Only the owning business
// may suggest, mirroring the top-up authorization rule.
func (s *Service) Suggest(ctx context.Context, input SuggestInput) (Suggestion, error) {
	w, err := s.wallets.GetByID(ctx, input.WalletID)
	if err != nil {
		return Suggestion{}, err
	}
	if w.BusinessID != input.BusinessID {
		return Suggestion{}, fmt.Errorf("%w: wallet belongs to another business", domain.ErrUnauthorized)
	}
	if w.Status.Terminal() {
		return Suggestion{}, fmt.Errorf("%w: wallet is already %s", domain.ErrValidation, w.Status)
	}

	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		reason = "Customer meets upgrade criteria"
	}

	now := time.Now().UTC()
	suggestion := Suggestion{
		ID:         NewID(),
		WalletID:   w.ID,
		BusinessID: input.BusinessID,
		Reason:     reason,
		Documents:  input.Documents,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.suggestions.Create(ctx, suggestion); err != nil {
		return Suggestion{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindUpgradeSuggested,
			Destination: w.CustomerPhone,
			Body:        "You're eligible for a full bank account upgrade! Contact your merchant for details.",
		})
	}
	return suggestion, nil
}

// Complete accepts a pending suggestion and upgrades the wallet. The wallet
// keeps its balance and history but stops accepting ledger mutations. Both
// status writes run in one transaction.
func (s *Service) Complete(ctx context.Context, suggestionID string) (Suggestion, error) {
	var suggestion Suggestion
	err := s.atomic(ctx, func(wallets wallet.Repository, suggestions Repository) error {
		var err error
		suggestion, err = suggestions.GetByID(ctx, suggestionID)
		if err != nil {
			return err
		}
		if suggestion.Status != StatusPending {
			return fmt.Errorf("%w: suggestion is %s, not pending", domain.ErrValidation, suggestion.Status)
		}

		w, err := wallets.GetForUpdate(ctx, suggestion.WalletID)
		if err != nil {
			return err
		}
		if w.Status.Terminal() {
			return fmt.Errorf("%w: wallet is already %s", domain.ErrValidation, w.Status)
		}

		if err := wallets.SetStatus(ctx, w.ID, domain.WalletUpgraded); err != nil {
			return err
		}
		return suggestions.SetStatus(ctx, suggestion.ID, StatusAccepted)
	})
	if err != nil {
		return Suggestion{}, err
	}

	suggestion.Status = StatusAccepted
	suggestion.UpdatedAt = time.Now().UTC()
	return suggestion, nil
}

// ListByWallet returns a wallet's upgrade suggestions.
func (s *Service) ListByWallet(ctx context.Context, walletID string) ([]Suggestion, error) {
	return s.suggestions.ListByWallet(ctx, walletID)
}
