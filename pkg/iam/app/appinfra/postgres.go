package appinfra

import (
	"context"
	"database/sql"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/app"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresAppRepository is the Postgres implementation of app.Repository.
type PostgresAppRepository struct {
	db *sqlx.DB
}

// NewPostgresAppRepository creates a new repository instance.
func NewPostgresAppRepository(db *sqlx.DB) app.Repository {
	return &PostgresAppRepository{db: db}
}

// FindByID looks up a tenant by its external identifier.
func (r *PostgresAppRepository) FindByID(ctx context.Context, appID kernel.AppID) (*app.App, error) {
	var a app.App
	query := `SELECT app_id, name, created_at FROM apps WHERE app_id = $1`
	err := r.db.GetContext(ctx, &a, query, appID.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, app.ErrAppNotFound()
		}
		return nil, errx.Wrap(err, "failed to find app by ID", errx.TypeInternal)
	}
	return &a, nil
}
