// Package auth issues and validates the platform's JWT access tokens.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"catalisa/internal/core/apperror"
	"catalisa/internal/domain/user"
)

// Claims is the token payload. The markup fields are informational hints for
// clients; the server reloads the account on every authenticated request, so
// stale tokens never affect pricing.
type Claims struct {
	jwt.RegisteredClaims

	Email             string `json:"email"`
	Name              string `json:"name"`
	Role              string `json:"role"`
	PartnerPercentage string `json:"partnerPercentage,omitempty"`
	PartnerLevelID    string `json:"partnerLevelId,omitempty"`
}

// TokenService issues and validates HS256 tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewTokenService creates a token service. TTL defaults to 24h when zero.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "catalisa",
	}
}

// Generate issues a token for an account.
func (s *TokenService) Generate(u *user.User) (string, time.Time, error) {
	now := time.Now().UTC()
	expiry := now.Add(s.ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
	}
	if u.PartnerPercentage != nil {
		claims.PartnerPercentage = u.PartnerPercentage.String()
	}
	if u.PartnerLevelID != nil {
		claims.PartnerLevelID = u.PartnerLevelID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperror.NewInternal(err)
	}
	return signed, expiry, nil
}

// Validate parses and verifies a token, returning its claims.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}
	return claims, nil
}
