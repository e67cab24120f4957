package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/schedule-grid-api/internal/models"
	appErrors "github.com/noah-isme/schedule-grid-api/pkg/errors"
	"github.com/noah-isme/schedule-grid-api/pkg/response"
)

// UnitParam is the route parameter carrying the unit id.
const UnitParam = "unitId"

// RBAC enforces role-based access control for routes.
func RBAC(allowed ...string) gin.HandlerFunc {
	allowedRoles := make(map[models.UserRole]struct{}, len(allowed))
	for _, a := range allowed {
		allowedRoles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowedRoles[claims.Role]; ok {
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

// UnitScope rejects callers whose token does not grant access to the unit in the path.
func UnitScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.CanAccessUnit(c.Param(UnitParam)) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "unit is outside your scope"))
			c.Abort()
			return
		}
		c.Next()
	}
}
