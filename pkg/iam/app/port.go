package app

import (
	"context"

	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// Repository defines the contract for tenant persistence.
type Repository interface {
	FindByID(ctx context.Context, appID kernel.AppID) (*App, error)
}
