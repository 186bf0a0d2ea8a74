package kernel

// ============================================================================
// Context Types
// ============================================================================

// AuthContext is the authenticated identity attached to each request after
// the token middleware has run.
type AuthContext struct {
	UserID UserID `json:"user_id"`
	AppID  AppID  `json:"app_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// IsValid reports whether the context carries a usable identity.
func (ac *AuthContext) IsValid() bool {
	return !ac.UserID.IsEmpty() && !ac.AppID.IsEmpty()
}

// IsAdmin reports whether the context belongs to an admin user.
func (ac *AuthContext) IsAdmin() bool {
	return ac.Role == "admin"
}

// SameApp reports whether the context belongs to the given app.
func (ac *AuthContext) SameApp(appID AppID) bool {
	return ac.AppID == appID
}

// ============================================================================
// Context Keys
// ============================================================================

type ContextKey string

const (
	// AuthContextKey stores the AuthContext in request-scoped storage.
	AuthContextKey ContextKey = "auth_context"

	// RequestIDKey stores the request ID.
	RequestIDKey ContextKey = "request_id"
)
