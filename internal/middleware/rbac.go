package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
	"github.com/noah-isme/sis-api/pkg/response"
)

// Self lets a user through when a path parameter names their own account.
const Self = "SELF"

var selfParams = []string{"studentId", "id"}

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowSelf := false
	allowedRoles := make(map[models.UserRole]struct{})
	for _, a := range allowed {
		if a == Self {
			allowSelf = true
			continue
		}
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
			c.Next()
			return
		}

		if allowSelf && pathNamesUser(c, claims.UserID) {
			c.Next()
			return
		}

		response.Error(c, appErrors.ErrForbidden)
		c.Abort()
	}
}

// RequireRoles is a helper that accepts a list of roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}
	return RBAC(allowed...)
}

// CanActFor reports whether the current user may act on behalf of studentID:
// admins always can, students only for themselves.
func CanActFor(c *gin.Context, studentID string) bool {
	claims, ok := CurrentUser(c)
	if !ok {
		return false
	}
	if claims.Role == models.RoleAdmin {
		return true
	}
	return studentID != "" && studentID == claims.UserID
}

func pathNamesUser(c *gin.Context, userID string) bool {
	for _, name := range selfParams {
		if v := c.Param(name); v != "" {
			return v == userID
		}
	}
	return false
}
