package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/user"
)

func testUser() *user.User {
	pct := decimal.NewFromInt(30)
	levelID := id.New()
	return &user.User{
		ID:                id.New(),
		Name:              "Parceiro",
		Email:             "p@example.com",
		Role:              appctx.RolePartner,
		PartnerPercentage: &pct,
		PartnerLevelID:    &levelID,
		IsActive:          true,
	}
}

func TestGenerateAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	u := testUser()

	token, expiresAt, err := svc.Generate(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, "catalisa", claims.Issuer)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, appctx.RolePartner, claims.Role)
	assert.Equal(t, "30", claims.PartnerPercentage)
	assert.Equal(t, u.PartnerLevelID.String(), claims.PartnerLevelID)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, _, err := issuer.Generate(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsExpired(t *testing.T) {
	secret := "test-secret"
	svc := NewTokenService(secret, time.Hour)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(secret))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	_, err := svc.Validate("not-a-token")
	require.Error(t, err)

	_, err = svc.Validate("")
	require.Error(t, err)
}

func TestDefaultTTL(t *testing.T) {
	svc := NewTokenService("test-secret", 0)

	_, expiresAt, err := svc.Generate(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)
}
