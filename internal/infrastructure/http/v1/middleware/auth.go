package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"catalisa/internal/core/apperror"
	appctx "catalisa/internal/core/context"
	"catalisa/internal/core/id"
	"catalisa/internal/domain/auth"
)

// TokenValidator verifies access tokens.
type TokenValidator interface {
	Validate(tokenString string) (*auth.Claims, error)
}

// UserLoader resolves a fresh user context from storage. Loading per request
// keeps role and markup changes effective immediately, whatever the token
// still claims.
type UserLoader interface {
	LoadContext(ctx context.Context, userID id.ID) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
func Auth(validator TokenValidator, loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, validator, loader)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)
		c.Set("user_id", user.UserID)

		c.Next()
	}
}

// OptionalAuth populates the user context when a valid token is present, but
// never rejects the request. Anonymous catalog browsing depends on this.
func OptionalAuth(validator TokenValidator, loader UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolveUser(c, validator, loader)
		if err == nil && user != nil {
			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", user.UserID)
		}
		c.Next()
	}
}

// RequireRole middleware checks if user has one of the required roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		for _, required := range roles {
			if user.Role == required {
				c.Next()
				return
			}
		}

		_ = c.Error(apperror.NewForbidden("insufficient permissions").
			WithDetail("required", roles))
		c.Abort()
	}
}

func resolveUser(c *gin.Context, validator TokenValidator, loader UserLoader) (*appctx.UserContext, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, apperror.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, apperror.NewUnauthorized("invalid authorization header format")
	}

	claims, err := validator.Validate(parts[1])
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token")
	}

	userID, err := id.Parse(claims.Subject)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid token subject")
	}

	return loader.LoadContext(c.Request.Context(), userID)
}
