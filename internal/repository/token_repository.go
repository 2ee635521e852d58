package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/attendance-service/internal/domain"
	apperrors "github.com/spec-kit/attendance-service/pkg/util"
)

// TokenRepository is the authoritative home for token lifecycle state.
//
// Status is derived: every query that cares about usability recomputes it from
// the supplied instant, so the store never holds a stale "active" row.
type TokenRepository interface {
	// Insert persists a new token. It fails with ACTIVE_TOKEN_EXISTS when
	// another token is still active at the supplied instant; the check and
	// the insert are serialized so concurrent issuers cannot both succeed.
	Insert(ctx context.Context, token *domain.Token) error
	GetByID(ctx context.Context, id string) (*domain.Token, error)
	// GetActiveByCode matches only tokens whose derived status is active at
	// the supplied instant. Expired or revoked rows with the same code do
	// not match, which permits code reuse across non-overlapping windows.
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Token, error)
	ActiveExists(ctx context.Context, now time.Time) (bool, error)
	CodeActive(ctx context.Context, code string, now time.Time) (bool, error)
	// Revoke is idempotent; revoking an already revoked or expired token is
	// a no-op. Revocation is terminal.
	Revoke(ctx context.Context, id string, now time.Time) error
	List(ctx context.Context, limit, offset int) ([]domain.Token, error)
	CountAll(ctx context.Context) (int64, error)
	CountActive(ctx context.Context, now time.Time) (int64, error)
}

type tokenRepository struct {
	pool *pgxpool.Pool
}

// NewTokenRepository instantiates repository.
func NewTokenRepository(pool *pgxpool.Pool) TokenRepository {
	return &tokenRepository{pool: pool}
}

const tokenColumns = `id, code, issued_at, expires_at, late_after, revoked, revoked_at, usage_count, created_at`

func (r *tokenRepository) Insert(ctx context.Context, token *domain.Token) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return apperrors.NewStoreUnavailable(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Advisory lock serializes the active-token check against concurrent
	// issuers for the duration of the transaction.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('attendance_token_issuance'))`); err != nil {
		return err
	}

	var active int
	const activeQuery = `
        SELECT COUNT(*) FROM tokens
        WHERE NOT revoked AND expires_at > $1`
	if err := tx.QueryRow(ctx, activeQuery, token.IssuedAt).Scan(&active); err != nil {
		return err
	}
	if active > 0 {
		return apperrors.NewConflictCode(apperrors.CodeActiveTokenExists, "an active token already exists")
	}

	const insertQuery = `
        INSERT INTO tokens (id, code, issued_at, expires_at, late_after, revoked, usage_count)
        VALUES ($1,$2,$3,$4,$5,FALSE,0)
        RETURNING created_at`
	if err := tx.QueryRow(ctx, insertQuery,
		token.ID,
		token.Code,
		token.IssuedAt,
		token.ExpiresAt,
		token.LateAfter,
	).Scan(&token.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *tokenRepository) GetByID(ctx context.Context, id string) (*domain.Token, error) {
	const query = `SELECT ` + tokenColumns + ` FROM tokens WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *tokenRepository) GetActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Token, error) {
	const query = `
        SELECT ` + tokenColumns + ` FROM tokens
        WHERE code=$1 AND NOT revoked AND expires_at > $2`
	return r.fetchSingle(ctx, query, code, now)
}

func (r *tokenRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Token, error) {
	var token domain.Token
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&token.ID,
		&token.Code,
		&token.IssuedAt,
		&token.ExpiresAt,
		&token.LateAfter,
		&token.Revoked,
		&token.RevokedAt,
		&token.UsageCount,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) ActiveExists(ctx context.Context, now time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tokens WHERE NOT revoked AND expires_at > $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, now).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *tokenRepository) CodeActive(ctx context.Context, code string, now time.Time) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM tokens WHERE code=$1 AND NOT revoked AND expires_at > $2)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, code, now).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, id string, now time.Time) error {
	const query = `
        UPDATE tokens SET revoked=TRUE, revoked_at=$2
        WHERE id=$1 AND NOT revoked AND expires_at > $2`
	cmd, err := r.pool.Exec(ctx, query, id, now)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Already revoked, already expired, or unknown id. Revocation is
		// idempotent, but an unknown id is still reported.
		var exists bool
		if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tokens WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return pgx.ErrNoRows
		}
	}
	return nil
}

func (r *tokenRepository) List(ctx context.Context, limit, offset int) ([]domain.Token, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT ` + tokenColumns + ` FROM tokens
        ORDER BY issued_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Token
	for rows.Next() {
		var token domain.Token
		if err := rows.Scan(
			&token.ID,
			&token.Code,
			&token.IssuedAt,
			&token.ExpiresAt,
			&token.LateAfter,
			&token.Revoked,
			&token.RevokedAt,
			&token.UsageCount,
			&token.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, token)
	}
	return result, rows.Err()
}

func (r *tokenRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tokens`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *tokenRepository) CountActive(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	const query = `SELECT COUNT(*) FROM tokens WHERE NOT revoked AND expires_at > $1`
	if err := r.pool.QueryRow(ctx, query, now).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// IsNotFound reports whether err represents a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
