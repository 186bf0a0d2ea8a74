package user

import (
	"context"

	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// Repository defines the contract for user persistence. Create must be
// atomic with the (email, app_id) uniqueness check: a racing duplicate
// insert yields exactly one success and one ErrEmailTaken.
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id kernel.UserID) (*User, error)
	FindByEmailAndApp(ctx context.Context, email string, appID kernel.AppID) (*User, error)
	MarkVerified(ctx context.Context, id kernel.UserID) error
	List(ctx context.Context, appID kernel.AppID, opts kernel.PaginationOptions) ([]User, int, error)
	Delete(ctx context.Context, id kernel.UserID) error
}
