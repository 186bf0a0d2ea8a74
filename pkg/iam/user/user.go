package user

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/turnkey/pkg/errx"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

// Role is the coarse authorization role assigned at registration. There is
// no promotion flow: the role is fixed for the lifetime of the account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User is a credentialed account scoped to one app. The pair
// (email, app_id) is unique; the same email under another app is an
// unrelated account.
type User struct {
	ID           kernel.UserID `db:"id" json:"id"`
	Name         string        `db:"name" json:"name"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	AppID        kernel.AppID  `db:"app_id" json:"app_id"`
	Role         Role          `db:"role" json:"role"`
	IsVerified   bool          `db:"is_verified" json:"is_verified"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// Profile is the caller-visible projection of a user. The password hash
// never leaves the domain layer.
type Profile struct {
	ID         kernel.UserID `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	AppID      kernel.AppID  `json:"app_id"`
	Role       Role          `json:"role"`
	IsVerified bool          `json:"is_verified"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Profile returns the public fields of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		AppID:      u.AppID,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
	}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("USER")

var (
	CodeUserNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "User not found")
	CodeEmailTaken   = ErrRegistry.Register("EMAIL_TAKEN", errx.TypeConflict, http.StatusConflict, "Email already registered in this app")
	CodeForeignApp   = ErrRegistry.Register("FOREIGN_APP", errx.TypeAuthorization, http.StatusForbidden, "Cannot manage user from different app")
)

func ErrUserNotFound() *errx.Error {
	return ErrRegistry.New(CodeUserNotFound)
}

func ErrEmailTaken() *errx.Error {
	return ErrRegistry.New(CodeEmailTaken)
}

func ErrForeignApp() *errx.Error {
	return ErrRegistry.New(CodeForeignApp)
}
