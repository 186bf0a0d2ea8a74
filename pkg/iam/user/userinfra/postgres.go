package userinfra

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresUserRepository is the Postgres implementation of user.Repository.
// The (email, app_id) unique constraint is the source of truth for
// duplicate registration; a violation maps to user.ErrEmailTaken.
type PostgresUserRepository struct {
	db *sqlx.DB
}

// NewPostgresUserRepository creates a new repository instance.
func NewPostgresUserRepository(db *sqlx.DB) user.Repository {
	return &PostgresUserRepository{db: db}
}

// Create inserts a new user row.
func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (
			id, name, email, password_hash, app_id, role, is_verified,
			created_at, updated_at
		) VALUES (
			:id, :name, :email, :password_hash, :app_id, :role, :is_verified,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, u)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return user.ErrEmailTaken()
		}
		return errx.Wrap(err, "failed to create user", errx.TypeInternal).
			WithDetail("app_id", u.AppID)
	}
	return nil
}

// FindByID looks up a user by its system-generated ID.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id kernel.UserID) (*user.User, error) {
	var u user.User
	query := `SELECT * FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &u, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by ID", errx.TypeInternal)
	}
	return &u, nil
}

// FindByEmailAndApp looks up a user by the tenant-scoped email key.
func (r *PostgresUserRepository) FindByEmailAndApp(ctx context.Context, email string, appID kernel.AppID) (*user.User, error) {
	var u user.User
	query := `SELECT * FROM users WHERE email = $1 AND app_id = $2`
	err := r.db.GetContext(ctx, &u, query, email, appID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrUserNotFound()
		}
		return nil, errx.Wrap(err, "failed to find user by email and app", errx.TypeInternal)
	}
	return &u, nil
}

// MarkVerified flips is_verified. Only successful OTP verification calls this.
func (r *PostgresUserRepository) MarkVerified(ctx context.Context, id kernel.UserID) error {
	query := `UPDATE users SET is_verified = true, updated_at = NOW() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to mark user verified", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on verify", errx.TypeInternal)
	}
	if rows == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}

// List returns one page of an app's users, optionally filtered by a
// case-insensitive name/email search, newest first.
func (r *PostgresUserRepository) List(ctx context.Context, appID kernel.AppID, opts kernel.PaginationOptions) ([]user.User, int, error) {
	where := `WHERE app_id = $1`
	args := []interface{}{appID.String()}

	if opts.Search != "" {
		where += ` AND (name ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+opts.Search+"%")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM users ` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to count users", errx.TypeInternal)
	}

	query := fmt.Sprintf(`SELECT * FROM users %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, opts.PageSize, opts.Offset())

	var users []user.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, errx.Wrap(err, "failed to list users", errx.TypeInternal)
	}
	return users, total, nil
}

// Delete removes a user row.
func (r *PostgresUserRepository) Delete(ctx context.Context, id kernel.UserID) error {
	query := `DELETE FROM users WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id.String())
	if err != nil {
		return errx.Wrap(err, "failed to delete user", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rows == 0 {
		return user.ErrUserNotFound()
	}
	return nil
}
