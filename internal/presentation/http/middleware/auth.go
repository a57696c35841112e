package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/trimtime-pos/internal/application/session"
	"github.com/sangkips/trimtime-pos/internal/domain/entity"
	"github.com/sangkips/trimtime-pos/internal/domain/enum"
	"github.com/sangkips/trimtime-pos/internal/presentation/http/dto/response"
	"github.com/sangkips/trimtime-pos/pkg/apperror"
)

const staffKey = "staff"

// AuthMiddleware accepts the bearer token of the register's current session
func AuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		staff, err := sessions.Authenticate(parts[1])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(staffKey, staff)
		c.Set("staff_id", staff.ID)
		c.Next()
	}
}

// RequireRole allows only operators with one of the roles
func RequireRole(roles ...enum.StaffRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff, ok := CurrentStaff(c)
		if !ok {
			response.Error(c, apperror.ErrNoSession)
			c.Abort()
			return
		}

		for _, role := range roles {
			if staff.Role == role {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

// CurrentStaff returns the operator set by AuthMiddleware
func CurrentStaff(c *gin.Context) (entity.Staff, bool) {
	v, exists := c.Get(staffKey)
	if !exists {
		return entity.Staff{}, false
	}
	staff, ok := v.(entity.Staff)
	return staff, ok
}
