package authinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/auth"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresTokenRepository is the Postgres implementation of the refresh
// token ledger.
type PostgresTokenRepository struct {
	db *sqlx.DB
}

// NewPostgresTokenRepository creates a new repository instance.
func NewPostgresTokenRepository(db *sqlx.DB) auth.TokenRepository {
	return &PostgresTokenRepository{db: db}
}

// Save inserts a refresh token row.
func (r *PostgresTokenRepository) Save(ctx context.Context, token auth.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (id, token, user_id, expires_at, created_at)
		VALUES (:id, :token, :user_id, :expires_at, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return errx.Wrap(err, "failed to save refresh token", errx.TypeInternal).
			WithDetail("user_id", token.UserID)
	}
	return nil
}

// FindByTokenAndUser looks up a row by token value, additionally matched
// against the owning user id embedded in the token's claims.
func (r *PostgresTokenRepository) FindByTokenAndUser(ctx context.Context, tokenValue string, userID kernel.UserID) (*auth.RefreshToken, error) {
	var token auth.RefreshToken
	query := `SELECT * FROM refresh_tokens WHERE token = $1 AND user_id = $2`
	err := r.db.GetContext(ctx, &token, query, tokenValue, userID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auth.ErrInvalidRefreshToken()
		}
		return nil, errx.Wrap(err, "failed to find refresh token", errx.TypeInternal)
	}
	return &token, nil
}

// DeleteByID removes a single row.
func (r *PostgresTokenRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM refresh_tokens WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return errx.Wrap(err, "failed to delete refresh token", errx.TypeInternal)
	}
	return nil
}

// DeleteByToken removes every row holding the token value. Zero matched
// rows is a success: the token is already unusable.
func (r *PostgresTokenRepository) DeleteByToken(ctx context.Context, tokenValue string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, tokenValue); err != nil {
		return errx.Wrap(err, "failed to delete refresh token by value", errx.TypeInternal)
	}
	return nil
}

// DeleteExpired removes every row past its expiry.
func (r *PostgresTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < NOW()`
	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, errx.Wrap(err, "failed to delete expired refresh tokens", errx.TypeInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to get rows affected on expiry sweep", errx.TypeInternal)
	}
	return rows, nil
}
