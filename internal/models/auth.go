package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserRole represents the roles understood by the grid API.
type UserRole string

const (
	RoleSuperAdmin  UserRole = "SUPERADMIN"
	RoleAdmin       UserRole = "ADMIN"
	RoleCoordinator UserRole = "COORDINATOR"
	RoleTeacher     UserRole = "TEACHER"
)

// JWTClaims is the payload of access tokens issued by the identity provider.
type JWTClaims struct {
	UserID  string   `json:"user_id"`
	Role    UserRole `json:"role"`
	Email   string   `json:"email"`
	UnitIDs []string `json:"unit_ids"`
	jwt.RegisteredClaims
}

// CanAccessUnit reports whether the caller may read or edit the unit's grid.
func (c *JWTClaims) CanAccessUnit(unitID string) bool {
	if c == nil {
		return false
	}
	if c.Role == RoleSuperAdmin {
		return true
	}
	for _, id := range c.UnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}
