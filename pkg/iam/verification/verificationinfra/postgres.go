package verificationinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/verification"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// PostgresVerificationRepository stores OTP rows in the
// email_verifications table. UNIQUE(user_id) backs the one-active-code
// rule at the schema level.
type PostgresVerificationRepository struct {
	db *sqlx.DB
}

func NewPostgresVerificationRepository(db *sqlx.DB) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{db: db}
}

// Replace deletes any existing row for the user and inserts v in one
// transaction, so a concurrent verify never sees both codes.
func (r *PostgresVerificationRepository) Replace(ctx context.Context, v *verification.EmailVerification) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errx.Wrap(err, "failed to begin transaction", errx.TypeInternal)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM email_verifications WHERE user_id = $1`, v.UserID); err != nil {
		return errx.Wrap(err, "failed to clear previous OTP", errx.TypeInternal)
	}

	query := `
		INSERT INTO email_verifications (id, user_id, email, otp, expires_at, attempts, created_at)
		VALUES (:id, :user_id, :email, :otp, :expires_at, :attempts, :created_at)`
	if _, err := tx.NamedExecContext(ctx, query, v); err != nil {
		return errx.Wrap(err, "failed to store OTP", errx.TypeInternal)
	}

	if err := tx.Commit(); err != nil {
		return errx.Wrap(err, "failed to commit OTP", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresVerificationRepository) FindActiveByUser(ctx context.Context, userID kernel.UserID) (*verification.EmailVerification, error) {
	var v verification.EmailVerification
	query := `SELECT * FROM email_verifications WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &v, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to find OTP", errx.TypeInternal)
	}
	return &v, nil
}

// IncrementAttempts bumps the counter in the database rather than in
// memory, so concurrent submissions each consume an attempt.
func (r *PostgresVerificationRepository) IncrementAttempts(ctx context.Context, id string) (int, error) {
	var attempts int
	query := `UPDATE email_verifications SET attempts = attempts + 1 WHERE id = $1 RETURNING attempts`
	if err := r.db.GetContext(ctx, &attempts, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, verification.ErrInvalidOTP()
		}
		return 0, errx.Wrap(err, "failed to increment OTP attempts", errx.TypeInternal)
	}
	return attempts, nil
}

func (r *PostgresVerificationRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE id = $1`, id); err != nil {
		return errx.Wrap(err, "failed to delete OTP", errx.TypeInternal)
	}
	return nil
}

func (r *PostgresVerificationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications WHERE expires_at < NOW()`)
	if err != nil {
		return 0, errx.Wrap(err, "failed to delete expired OTPs", errx.TypeInternal)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errx.Wrap(err, "failed to count deleted OTPs", errx.TypeInternal)
	}
	return n, nil
}
