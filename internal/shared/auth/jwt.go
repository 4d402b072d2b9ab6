package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims mirrors the payload issued by the booking backend. sub is numeric there, so it
// shadows the embedded string subject.
type Claims struct {
	Sub   json.Number `json:"sub"`
	Email string      `json:"email"`
	Role  string      `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject, or 0 when absent.
func (c *Claims) UserID() int64 {
	if c == nil {
		return 0
	}
	id, err := c.Sub.Int64()
	if err != nil {
		return 0
	}
	return id
}

// Expiry returns the expiry instant, zero when the token does not expire.
func (c *Claims) Expiry() time.Time {
	if c == nil || c.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return c.RegisteredClaims.ExpiresAt.Time
}

type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// JWTValidator reads backend tokens. With a secret the HS256 signature is verified; without
// one the claims are decoded as-is since the backend remains the authority and rejects bad
// tokens with 401.
type JWTValidator struct {
	secret []byte
	now    func() time.Time
}

func NewJWTValidator(secret string) *JWTValidator {
	return &JWTValidator{secret: []byte(strings.TrimSpace(secret)), now: time.Now}
}

func (v *JWTValidator) Validate(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	if len(v.secret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return v.secret, nil
		}, jwt.WithLeeway(5*time.Second))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !parsed.Valid {
			return nil, ErrInvalidToken
		}
	}

	if exp := claims.Expiry(); !exp.IsZero() && !exp.After(v.now()) {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

var _ TokenValidator = (*JWTValidator)(nil)
