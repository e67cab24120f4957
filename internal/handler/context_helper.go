package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/schedule-grid-api/internal/middleware"
)

// actorFields tags log lines with the caller and unit of the request.
func actorFields(c *gin.Context) []zap.Field {
	fields := []zap.Field{zap.String("unit_id", c.Param(middleware.UnitParam))}
	if claims := middleware.Claims(c); claims != nil {
		fields = append(fields, zap.String("user_id", claims.UserID), zap.String("role", string(claims.Role)))
	}
	return fields
}
