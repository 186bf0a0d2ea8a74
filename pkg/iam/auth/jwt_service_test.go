package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Abraxas-365/turnkey/pkg/iam/auth"
	"github.com/Abraxas-365/turnkey/pkg/iam/user"
	"github.com/Abraxas-365/turnkey/pkg/kernel"
)

func testUser() *user.User {
	return &user.User{
		ID:    kernel.NewUserID("user-1"),
		Name:  "Ada",
		Email: "ada@example.com",
		AppID: kernel.NewAppID("app-1"),
		Role:  user.RoleAdmin,
	}
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, 7*24*time.Hour, "turnkey")
	u := testUser()

	token, err := svc.GenerateAccessToken(u)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := svc.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != u.ID {
		t.Errorf("user id = %s, want %s", claims.UserID, u.ID)
	}
	if claims.AppID != u.AppID {
		t.Errorf("app id = %s, want %s", claims.AppID, u.AppID)
	}
	if claims.Email != u.Email {
		t.Errorf("email = %s, want %s", claims.Email, u.Email)
	}
	if claims.Role != user.RoleAdmin {
		t.Errorf("role = %s, want admin", claims.Role)
	}
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, 7*24*time.Hour, "turnkey")

	token, err := svc.GenerateRefreshToken(kernel.NewUserID("user-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	userID, err := svc.ValidateRefreshToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if userID != kernel.NewUserID("user-1") {
		t.Errorf("user id = %s, want user-1", userID)
	}
}

func TestJWTService_ExpiredAccessTokenRejected(t *testing.T) {
	svc := auth.NewJWTService("secret", -time.Minute, 7*24*time.Hour, "turnkey")

	token, err := svc.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	signer := auth.NewJWTService("secret-a", time.Hour, 7*24*time.Hour, "turnkey")
	verifier := auth.NewJWTService("secret-b", time.Hour, 7*24*time.Hour, "turnkey")

	token, err := signer.GenerateAccessToken(testUser())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ValidateAccessToken(token); err == nil {
		t.Fatal("expected token signed with a different secret to be rejected")
	}
}

func TestJWTService_NonHMACAlgorithmRejected(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, 7*24*time.Hour, "turnkey")

	// An unsigned token claiming alg=none must never validate, even if
	// the payload looks right.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":    "user-1",
		"email": "ada@example.com",
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := svc.ValidateAccessToken(token); err == nil {
		t.Fatal("expected alg=none token to be rejected")
	}
}

func TestJWTService_GarbageTokenRejected(t *testing.T) {
	svc := auth.NewJWTService("secret", time.Hour, 7*24*time.Hour, "turnkey")

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateAccessToken(tok); err == nil {
			t.Errorf("expected %q to be rejected as access token", tok)
		}
		if _, err := svc.ValidateRefreshToken(tok); err == nil {
			t.Errorf("expected %q to be rejected as refresh token", tok)
		}
	}
}
