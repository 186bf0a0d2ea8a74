package usersrv

import (
	"context"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
	"github.com/Abraxas-365/turnkey/pkg/logx"
)

const maxPageSize = 100

// UserService carries the admin-facing user management operations. All
// operations are scoped to the acting admin's own app.
type UserService struct {
	repo user.Repository
}

// NewUserService creates a new user service.
func NewUserService(repo user.Repository) *UserService {
	return &UserService{repo: repo}
}

// ListUsers returns one page of the app's users as public profiles.
func (s *UserService) ListUsers(ctx context.Context, appID kernel.AppID, opts kernel.PaginationOptions) (kernel.Paginated[user.Profile], error) {
	opts.Normalize(maxPageSize)

	users, total, err := s.repo.List(ctx, appID, opts)
	if err != nil {
		logx.WithError(err).WithField("app_id", appID).Error("user listing failed")
		return kernel.Paginated[user.Profile]{}, errx.Wrap(err, "failed to retrieve users", errx.TypeInternal)
	}

	profiles := make([]user.Profile, len(users))
	for i := range users {
		profiles[i] = users[i].Profile()
	}
	return kernel.NewPaginated(profiles, opts.Page, opts.PageSize, total), nil
}

// DeleteUser removes a user. The target must belong to the acting admin's
// app; cross-tenant deletion is refused before any mutation.
func (s *UserService) DeleteUser(ctx context.Context, id kernel.UserID, adminAppID kernel.AppID) (user.Profile, error) {
	target, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return user.Profile{}, err
	}

	if target.AppID != adminAppID {
		return user.Profile{}, user.ErrForeignApp()
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return user.Profile{}, err
	}

	logx.WithFields(logx.Fields{
		"user_id": id,
		"app_id":  adminAppID,
	}).Info("user deleted by admin")

	return target.Profile(), nil
}
