package store

import (
	"context"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/transaction"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

// Store groups the repositories behind a single transaction boundary. A money
// operation validates and mutates inside one RunInTx call so a wallet debit,
// the matching credit and the transaction record land together or not at all.
type Store interface {
	Wallets() wallet.Repository
	Transactions() transaction.Repository
	Businesses() business.Repository
	Upgrades() upgrade.Repository

	// RunInTx runs fn against a transactional view of the store. If fn
	// returns an error every change made through that view is rolled back.
	// Nesting RunInTx inside the callback opens a savepoint.
	RunInTx(ctx context.Context, fn func(Store) error) error
}

// UpgradeAtomic adapts the store's transaction boundary for the upgrade
// workflow, which flips a wallet and its suggestion together.
func UpgradeAtomic(st Store) upgrade.Atomic {
	return func(ctx context.Context, fn func(wallet.Repository, upgrade.Repository) error) error {
		return st.RunInTx(ctx, func(s Store) error {
			return fn(s.Wallets(), s.Upgrades())
		})
	}
}
