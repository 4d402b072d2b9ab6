package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   7,
		"email": "ana@example.com",
		"role":  "ADMIN",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTValidatorVerified(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("secret")
	claims, err := validator.Validate(signToken(t, "secret", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != 7 || claims.Email != "ana@example.com" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims %+v", claims)
	}

	if _, err := validator.Validate(signToken(t, "other", time.Now().Add(time.Hour))); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestJWTValidatorUnverifiedReadsClaims(t *testing.T) {
	t.Parallel()

	validator := NewJWTValidator("")
	claims, err := validator.Validate(signToken(t, "whatever", time.Now().Add(time.Hour)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != 7 {
		t.Fatalf("expected subject 7, got %d", claims.UserID())
	}
}

func TestJWTValidatorExpired(t *testing.T) {
	t.Parallel()

	for _, secret := range []string{"", "secret"} {
		validator := NewJWTValidator(secret)
		_, err := validator.Validate(signToken(t, "secret", time.Now().Add(-time.Hour)))
		if !errors.Is(err, ErrTokenExpired) {
			t.Fatalf("secret %q: expected ErrTokenExpired, got %v", secret, err)
		}
	}
}

func TestJWTValidatorMissing(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTValidator("").Validate("  "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := NewJWTValidator("").Validate("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCredentialHeader(t *testing.T) {
	t.Parallel()

	if Anonymous.Present() || Anonymous.AuthorizationHeader() != "" {
		t.Fatalf("anonymous credential should be empty")
	}
	if got := (Credential{Token: " abc "}).AuthorizationHeader(); got != "Bearer abc" {
		t.Fatalf("unexpected header %q", got)
	}
}
