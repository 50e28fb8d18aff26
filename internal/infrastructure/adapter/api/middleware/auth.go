package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	errs "github.com/amirhossein-jamali/bank-ledger/internal/domain/error"
	"github.com/amirhossein-jamali/bank-ledger/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/bank-ledger/internal/infrastructure/adapter/api/dto"
)

const principalKey = "principal"

// SessionResolver turns a session token into the account it names
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*usecase.Principal, error)
}

// Auth rejects requests without a valid "Authorization: Bearer <token>" header
// and stores the resolved principal on the context
func Auth(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, errs.ErrSessionInvalid)
			return
		}

		principal, err := sessions.ResolveSession(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFrom returns the principal stored by Auth
func PrincipalFrom(c *gin.Context) (*usecase.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	principal, ok := value.(*usecase.Principal)
	return principal, ok && principal != nil
}

func abortUnauthorized(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Code:    errs.ErrorCode(err),
		Message: errs.PublicMessage(err, errs.ErrSessionInvalid.Error()),
	})
}
