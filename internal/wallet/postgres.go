package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
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

// PostgresRepository stores wallets in PostgreSQL.
type PostgresRepository struct {
	q querier
}

// NewPostgresRepository builds a repository backed by a pgx pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{q: db}
}

// WithTx returns a repository bound to the given transaction so wallet
// mutations join the ledger engine's unit of work.
func (r *PostgresRepository) WithTx(tx pgx.Tx) *PostgresRepository {
	return &PostgresRepository{q: tx}
}

const walletColumns = `wallet_id, business_id, customer_name, customer_phone, customer_email,
	customer_pin, balance, daily_limit, monthly_limit, ussd_code, status, created_at, last_activity`

// Create inserts a wallet row, mapping uniqueness violations onto the domain
// error taxonomy.
func (r *PostgresRepository) Create(ctx context.Context, w Wallet) error {
	_, err := r.q.Exec(ctx, `INSERT INTO wallets (`+walletColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		w.ID, w.BusinessID, w.CustomerName, w.CustomerPhone, nullable(w.CustomerEmail),
		w.PIN, w.Balance, w.DailyLimit, w.MonthlyLimit, w.USSDCode, string(w.Status),
		w.CreatedAt.UTC(), w.LastActivity.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			if strings.Contains(pgErr.ConstraintName, "ussd") {
				return fmt.Errorf("%w (%s)", ErrUSSDCollision, w.USSDCode)
			}
			return fmt.Errorf("%w: customer %s already has a wallet with this business", domain.ErrDuplicate, w.CustomerPhone)
		}
		return err
	}
	return nil
}

// GetByID fetches a wallet in any status.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Wallet, error) {
	return r.scanOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE wallet_id = $1`, id)
}

// GetForUpdate fetches a wallet taking a row lock, so concurrent sends against
// the same wallet serialize at the database.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (Wallet, error) {
	return r.scanOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE wallet_id = $1 FOR UPDATE`, id)
}

// GetByPhone fetches the active wallet registered for a phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (Wallet, error) {
	return r.scanOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE customer_phone = $1 AND status = 'active'`, phone)
}

// GetByUSSDCode fetches the active wallet behind a dial code.
func (r *PostgresRepository) GetByUSSDCode(ctx context.Context, code string) (Wallet, error) {
	return r.scanOne(ctx, `SELECT `+walletColumns+` FROM wallets WHERE ussd_code = $1 AND status = 'active'`, code)
}

// ListByBusiness returns every wallet owned by a business, newest first.
func (r *PostgresRepository) ListByBusiness(ctx context.Context, businessID string) ([]Wallet, error) {
	rows, err := r.q.Query(ctx, `SELECT `+walletColumns+` FROM wallets WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// AdjustBalance applies the delta with the non-negative guard expressed in the
// UPDATE itself, so the check and the mutation are one statement.
func (r *PostgresRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, `UPDATE wallets
		SET balance = balance + $2, last_activity = $3
		WHERE wallet_id = $1 AND balance + $2 >= 0
		RETURNING balance`, id, delta, time.Now().UTC()).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, err
	}
	// Distinguish a missing wallet from an overdraw.
	if _, lookupErr := r.GetByID(ctx, id); lookupErr != nil {
		return decimal.Zero, lookupErr
	}
	return decimal.Zero, fmt.Errorf("%w: wallet %s cannot go below zero", domain.ErrInsufficientFunds, id)
}

// SetStatus flips the lifecycle state without touching balance or history.
func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status domain.WalletStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE wallets SET status = $2 WHERE wallet_id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: wallet %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, sql string, args ...any) (Wallet, error) {
	w, err := scanWallet(r.q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Wallet{}, fmt.Errorf("%w: wallet", domain.ErrNotFound)
	}
	return w, err
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w      Wallet
		email  *string
		status string
	)
	err := row.Scan(&w.ID, &w.BusinessID, &w.CustomerName, &w.CustomerPhone, &email,
		&w.PIN, &w.Balance, &w.DailyLimit, &w.MonthlyLimit, &w.USSDCode, &status,
		&w.CreatedAt, &w.LastActivity)
	if err != nil {
		return Wallet{}, err
	}
	if email != nil {
		w.CustomerEmail = *email
	}
	w.Status = domain.WalletStatus(status)
	w.CreatedAt = w.CreatedAt.UTC()
	w.LastActivity = w.LastActivity.UTC()
	return w, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
