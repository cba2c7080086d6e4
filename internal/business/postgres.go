package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores merchants in PostgreSQL.
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

const businessColumns = `business_id, name, email, password_hash, bank_account, settlement_balance, created_at`

// Create inserts a merchant row, mapping the unique email constraint onto the
// domain error taxonomy.
func (r *PostgresRepository) Create(ctx context.Context, b Business) error {
	_, err := r.q.Exec(ctx, `INSERT INTO businesses (`+businessColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID, b.Name, b.Email, b.PasswordHash, b.BankAccount, b.SettlementBalance, b.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: business with email %s", domain.ErrDuplicate, b.Email)
		}
		return err
	}
	return nil
}

// GetByID fetches a merchant.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Business, error) {
	return r.scanOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE business_id = $1`, id)
}

// GetByEmail fetches a merchant by login email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (Business, error) {
	return r.scanOne(ctx, `SELECT `+businessColumns+` FROM businesses WHERE email = $1`, email)
}

// CreditSettlement adds to the merchant's settlement balance.
func (r *PostgresRepository) CreditSettlement(ctx context.Context, id string, amount decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.q.QueryRow(ctx, `UPDATE businesses
		SET settlement_balance = settlement_balance + $2
		WHERE business_id = $1
		RETURNING settlement_balance`, id, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: business %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (r *PostgresRepository) scanOne(ctx context.Context, sql string, args ...any) (Business, error) {
	var b Business
	err := r.q.QueryRow(ctx, sql, args...).Scan(&b.ID, &b.Name, &b.Email, &b.PasswordHash,
		&b.BankAccount, &b.SettlementBalance, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Business{}, fmt.Errorf("%w: business", domain.ErrNotFound)
	}
	if err != nil {
		return Business{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	return b, nil
}
