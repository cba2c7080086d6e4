package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores the transaction log in PostgreSQL. The table has
// no UPDATE or DELETE path in this codebase.
type PostgresRepository struct {
	q querier
}

// NewPostgresRepository builds a repository backed by a pgx pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{q: db}
}

// WithTx returns a repository bound to the given transaction.
func (r *PostgresRepository) WithTx(tx pgx.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const txColumns = `transaction_id, reference, wallet_id, from_wallet, to_wallet, amount, fee,
	channel, description, external_reference, status, created_at, completed_at`

// Record appends a transaction row.
func (r *PostgresRepository) Record(ctx context.Context, tx Transaction) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transactions (`+txColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		tx.ID, tx.Reference, tx.WalletID, nullable(tx.FromWallet), nullable(tx.ToWallet),
		tx.Amount, tx.Fee, string(tx.Channel), tx.Description, nullable(tx.ExternalReference),
		string(tx.Status), tx.CreatedAt.UTC(), tx.CompletedAt)
	return err
}

// GetByID fetches one transaction.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Transaction, error) {
	return r.scanOne(ctx, `SELECT `+txColumns+` FROM transactions WHERE transaction_id = $1`, id)
}

// FindByReference fetches one transaction by its caller-facing reference.
func (r *PostgresRepository) FindByReference(ctx context.Context, reference string) (Transaction, error) {
	return r.scanOne(ctx, `SELECT `+txColumns+` FROM transactions WHERE reference = $1`, reference)
}

// History lists movements touching the wallet, newest first.
func (r *PostgresRepository) History(ctx context.Context, walletID string, limit, offset int) ([]Entry, error) {
	rows, err := r.q.Query(ctx, `SELECT `+txColumns+` FROM transactions
		WHERE wallet_id = $1 OR from_wallet = $1 OR to_wallet = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, walletID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Transaction: tx, Direction: DirectionFor(tx, walletID)})
	}
	return out, rows.Err()
}

// SumCompleted totals completed outbound spend for rolling limit checks.
func (r *PostgresRepository) SumCompleted(ctx context.Context, walletID string, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM transactions
		WHERE from_wallet = $1 AND status = 'completed' AND created_at >= $2`,
		walletID, since.UTC()).Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, sql string, args ...any) (Transaction, error) {
	tx, err := scanTransaction(r.q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Transaction{}, fmt.Errorf("%w: transaction", domain.ErrNotFound)
	}
	return tx, err
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		tx                Transaction
		fromWallet, toWal *string
		externalRef       *string
		channel, status   string
	)
	err := row.Scan(&tx.ID, &tx.Reference, &tx.WalletID, &fromWallet, &toWal, &tx.Amount, &tx.Fee,
		&channel, &tx.Description, &externalRef, &status, &tx.CreatedAt, &tx.CompletedAt)
	if err != nil {
		return Transaction{}, err
	}
	if fromWallet != nil {
		tx.FromWallet = *fromWallet
	}
	if toWal != nil {
		tx.ToWallet = *toWal
	}
	if externalRef != nil {
		tx.ExternalReference = *externalRef
	}
	tx.Channel = domain.Channel(channel)
	tx.Status = domain.TransactionStatus(status)
	tx.CreatedAt = tx.CreatedAt.UTC()
	return tx, nil
}

// DirectionFor tags a transaction relative to the wallet a history was
// requested for: anything it funded is sent, anything crediting it is
// received.
func DirectionFor(tx Transaction, walletID string) domain.Direction {
	if tx.FromWallet == walletID {
		return domain.DirectionSent
	}
	return domain.DirectionReceived
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
