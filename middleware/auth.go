package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taskboss/apierr"
	"taskboss/logger"
	"taskboss/services"
	"taskboss/utils"
)

const (
	ContextUserID = "user_id"
	ContextToken  = "token"
)

// Authenticator verifies a bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Claims, error)
}

type AuthMiddleware struct {
	log  *logger.Logger
	auth Authenticator
}

func NewAuthMiddleware(log *logger.Logger, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "auth"), auth: auth}
}

// RequireAuth rejects requests without a bearer token with 401 and
// requests with an invalid, expired or revoked token with 403.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.Unauthorized(c, "missing or invalid token")
			return
		}

		claims, err := am.auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			if apierr.Status(err) == http.StatusForbidden {
				utils.Forbidden(c, err.Error())
				return
			}
			am.log.Error("token verification failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, &utils.Response{Error: "internal server error", Code: "internal"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextToken, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// UserID returns the authenticated user id, or 0 outside RequireAuth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ContextUserID)
}

func Token(c *gin.Context) string {
	return c.GetString(ContextToken)
}
