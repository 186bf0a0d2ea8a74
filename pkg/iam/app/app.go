package app

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// App is a tenant: an isolated namespace of users. Apps are provisioned
// out of band and must exist before any user registers under them.
type App struct {
	AppID     kernel.AppID `db:"app_id" json:"app_id"`
	Name      string       `db:"name" json:"name"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("APP")

var (
	CodeAppNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "App not found")
)

func ErrAppNotFound() *errx.Error {
	return ErrRegistry.New(CodeAppNotFound)
}
