package upgrade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Bakanium-Shinzo/Phantom-2.0/internal/domain"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores upgrade suggestions in PostgreSQL.
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

const suggestionColumns = `suggestion_id, wallet_id, business_id, reason, documents, status, created_at, updated_at`

// Create inserts a suggestion row.
func (r *PostgresRepository) Create(ctx context.Context, s Suggestion) error {
	_, err := r.q.Exec(ctx, `INSERT INTO upgrade_suggestions (`+suggestionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.WalletID, s.BusinessID, s.Reason, s.Documents, s.Status, s.CreatedAt.UTC(), s.UpdatedAt.UTC())
	return err
}

// GetByID fetches one suggestion.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (Suggestion, error) {
	s, err := scanSuggestion(r.q.QueryRow(ctx, `SELECT `+suggestionColumns+` FROM upgrade_suggestions WHERE suggestion_id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Suggestion{}, fmt.Errorf("%w: upgrade suggestion", domain.ErrNotFound)
	}
	return s, err
}

// ListByWallet returns a wallet's suggestions, newest first.
func (r *PostgresRepository) ListByWallet(ctx context.Context, walletID string) ([]Suggestion, error) {
	rows, err := r.q.Query(ctx, `SELECT `+suggestionColumns+` FROM upgrade_suggestions
		WHERE wallet_id = $1 ORDER BY created_at DESC`, walletID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetStatus records the workflow outcome.
func (r *PostgresRepository) SetStatus(ctx context.Context, id, status string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE upgrade_suggestions SET status = $2, updated_at = $3 WHERE suggestion_id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: upgrade suggestion %s", domain.ErrNotFound, id)
	}
	return nil
}

func scanSuggestion(row pgx.Row) (Suggestion, error) {
	var s Suggestion
	err := row.Scan(&s.ID, &s.WalletID, &s.BusinessID, &s.Reason, &s.Documents, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Suggestion{}, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}
