package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/b2bprocure/backend/internal/domain/identity"
	"github.com/b2bprocure/backend/internal/domain/shared"
	"github.com/b2bprocure/backend/internal/infrastructure/auth"
	"github.com/b2bprocure/backend/internal/infrastructure/logger"
	"github.com/b2bprocure/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Auth context keys and header format
const (
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// PrincipalResolver turns a bearer token into the caller identity
type PrincipalResolver interface {
	Principal(token string) (identity.Principal, error)
}

// Authenticate resolves the caller from the Authorization header and stores the
// Principal in the gin context. Requests without the header continue as anonymous;
// operations decide themselves whether that is enough. A header that is present
// but invalid is rejected with 401.
func Authenticate(resolver PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			c.Set(PrincipalKey, identity.Anonymous())
			c.Next()
			return
		}

		token, ok := strings.CutPrefix(header, BearerPrefix)
		if !ok || strings.TrimSpace(token) == "" {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		principal, err := resolver.Principal(strings.TrimSpace(token))
		if err != nil {
			logger.GetGinLogger(c).Debug("token rejected", zap.Error(err))
			message := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				message = "Token has expired"
			}
			abortUnauthorized(c, message)
			return
		}

		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Failed(shared.CodeUnauthorized, message))
}

// GetPrincipal returns the caller identity set by Authenticate, or an anonymous one
func GetPrincipal(c *gin.Context) identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Anonymous()
}
