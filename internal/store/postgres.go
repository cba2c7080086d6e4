package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/business"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/transaction"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/upgrade"
	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/wallet"
)

// PostgresStore backs the repositories with a pgx connection pool. RunInTx
// opens a database transaction and hands fn a view whose repositories are
// bound to it; wallet rows touched by money operations are locked with
// SELECT ... FOR UPDATE inside the repositories.
type PostgresStore struct {
	pool *pgxpool.Pool

	wallets      *wallet.PostgresRepository
	transactions *transaction.PostgresRepository
	businesses   *business.PostgresRepository
	upgrades     *upgrade.PostgresRepository
}

// NewPostgresStore builds a store over the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{
		pool:         pool,
		wallets:      wallet.NewPostgresRepository(pool),
		transactions: transaction.NewPostgresRepository(pool),
		businesses:   business.NewPostgresRepository(pool),
		upgrades:     upgrade.NewPostgresRepository(pool),
	}
}

// Wallets returns the wallet repository.
func (s *PostgresStore) Wallets() wallet.Repository { return s.wallets }

// Transactions returns the transaction repository.
func (s *PostgresStore) Transactions() transaction.Repository { return s.transactions }

// Businesses returns the business repository.
func (s *PostgresStore) Businesses() business.Repository { return s.businesses }

// Upgrades returns the upgrade suggestion repository.
func (s *PostgresStore) Upgrades() upgrade.Repository { return s.upgrades }

// RunInTx executes fn within a database transaction.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	view := newTxStore(s, tx)
	if err := fn(view); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore is the transaction-bound view handed to RunInTx callbacks. Nested
// RunInTx opens a savepoint, so a failed inner step rolls back on its own
// while the surrounding transaction stays usable.
type txStore struct {
	parent *PostgresStore
	tx     pgx.Tx

	wallets      *wallet.PostgresRepository
	transactions *transaction.PostgresRepository
	businesses   *business.PostgresRepository
	upgrades     *upgrade.PostgresRepository
}

func newTxStore(parent *PostgresStore, tx pgx.Tx) *txStore {
	return &txStore{
		parent:       parent,
		tx:           tx,
		wallets:      parent.wallets.WithTx(tx),
		transactions: parent.transactions.WithTx(tx),
		businesses:   parent.businesses.WithTx(tx),
		upgrades:     parent.upgrades.WithTx(tx),
	}
}

func (s *txStore) Wallets() wallet.Repository           { return s.wallets }
func (s *txStore) Transactions() transaction.Repository { return s.transactions }
func (s *txStore) Businesses() business.Repository      { return s.businesses }
func (s *txStore) Upgrades() upgrade.Repository         { return s.upgrades }

func (s *txStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	// pgx nests Begin on an open transaction as a SAVEPOINT.
	nested, err := s.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin savepoint: %w", err)
	}
	defer func() {
		_ = nested.Rollback(ctx)
	}()

	if err := fn(newTxStore(s.parent, nested)); err != nil {
		return err
	}
	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("release savepoint: %w", err)
	}
	return nil
}
