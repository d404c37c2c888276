package middleware

import (
	"net/http"
	"strings"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/nastly29/home-organizer/internal/services"
	"github.com/nastly29/home-organizer/pkg/dto"
)

const (
	UIDKey   = "uid"
	EmailKey = "email"
)

// TokenVerifier resolves a bearer token to the caller's identity.
type TokenVerifier interface {
	Verify(token string) (*services.Identity, error)
}

func Auth(verifier TokenVerifier) drift.HandlerFunc {
	return func(c *drift.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthenticated(c)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			unauthenticated(c)
			return
		}

		identity, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(UIDKey, identity.UID)
		c.Set(EmailKey, identity.Email)

		c.Next()
	}
}

func unauthenticated(c *drift.Context) {
	_ = c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: services.ErrUnauthenticated.Code})
	c.Abort()
}

func GetUID(c *drift.Context) string {
	if v, ok := c.Get(UIDKey); ok {
		if uid, ok := v.(string); ok {
			return uid
		}
	}
	return ""
}

func GetEmail(c *drift.Context) string {
	if v, ok := c.Get(EmailKey); ok {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
