package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
	"github.com/josiaO/SmartDalaliTZ/internal/utils"
)

// Context keys set by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

// JWTAuth requires a valid HMAC-signed bearer token and stores the caller's id
// and role in the gin context.
func JWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondErrorWithCode(c, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "No bearer token", nil)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := service.ParseToken(tokenStr, key)
		if err != nil {
			utils.RespondErrorWithCode(c, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", nil, err)
			return
		}

		c.Set(CtxUserID, claims.Subject)
		c.Set(CtxUserRole, claims.Role)
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles. It must run
// after JWTAuth.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ActorFrom(c).Role
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		utils.RespondErrorWithCode(c, http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", nil)
	}
}

// ActorFrom returns the authenticated caller, or the zero Actor for
// anonymous requests.
func ActorFrom(c *gin.Context) service.Actor {
	var a service.Actor
	if v, ok := c.Get(CtxUserID); ok {
		a.ID, _ = v.(string)
	}
	if v, ok := c.Get(CtxUserRole); ok {
		a.Role, _ = v.(model.Role)
	}
	return a
}

// OptionalJWTAuth reads a bearer token when one is present and ignores it
// otherwise. Public routes use it so owners can see their unpublished listings.
func OptionalJWTAuth(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			if claims, err := service.ParseToken(strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")), key); err == nil {
				c.Set(CtxUserID, claims.Subject)
				c.Set(CtxUserRole, claims.Role)
			}
		}
		c.Next()
	}
}
